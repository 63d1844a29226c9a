package validation

import (
	"math"

	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
)

// PerfectMatchEpsilonM. a Hausdorff distance below this is reported as a
// perfect match, distinct from an ordinary threshold pass.
const PerfectMatchEpsilonM = 1e-6

// TestDiagnostics carries the raw metric value and pass flag of every
// enabled similarity test. Metrics of disabled or skipped tests are NaN.
type TestDiagnostics struct {
	HausdorffDistance float64 `json:"hausdorff_distance"`
	HausdorffPass     bool    `json:"hausdorff_pass"`
	PerfectMatch      bool    `json:"perfect_match"`

	LengthRatio float64 `json:"length_ratio"`
	LengthPass  bool    `json:"length_pass"`

	CoveragePercent float64 `json:"coverage_percent"`
	CoveragePass    bool    `json:"coverage_pass"`
}

func newTestDiagnostics() TestDiagnostics {
	return TestDiagnostics{
		HausdorffDistance: math.NaN(),
		LengthRatio:       math.NaN(),
		CoveragePercent:   math.NaN(),
	}
}

// Battery runs the enabled subset of the similarity tests over a projected
// candidate line and a projected reference line. Every test is total:
// degenerate geometry fails the test, it never panics.
type Battery struct {
	cfg Config
}

func NewBattery(cfg Config) *Battery {
	return &Battery{cfg: cfg}
}

// Run returns the conjunction of all enabled test outcomes plus per-test
// diagnostics.
func (b *Battery) Run(candidate, reference geo.LineString) (bool, TestDiagnostics) {
	diag := newTestDiagnostics()
	pass := true

	if b.cfg.UseHausdorff {
		ok := b.runHausdorff(candidate, reference, &diag)
		pass = pass && ok
	}
	if b.cfg.UseLengthCheck {
		ok := b.runLength(candidate, reference, &diag)
		pass = pass && ok
	}
	if b.cfg.UseCoverageCheck {
		ok := b.runCoverage(candidate, reference, &diag)
		pass = pass && ok
	}
	return pass, diag
}

func (b *Battery) runHausdorff(candidate, reference geo.LineString, diag *TestDiagnostics) bool {
	if candidate.IsDegenerate() || reference.IsDegenerate() {
		diag.HausdorffDistance = math.Inf(1)
		diag.HausdorffPass = false
		return false
	}
	dist := HausdorffDistance(candidate, reference)
	diag.HausdorffDistance = dist
	diag.HausdorffPass = dist <= b.cfg.HausdorffThresholdM
	diag.PerfectMatch = dist < PerfectMatchEpsilonM
	return diag.HausdorffPass
}

// HausdorffDistance is the symmetric Hausdorff distance between two planar
// lines in meters: the worse of the two directed vertex-to-line suprema.
func HausdorffDistance(a, b geo.LineString) float64 {
	return util.MaxG(directedHausdorff(a, b), directedHausdorff(b, a))
}

func directedHausdorff(from, to geo.LineString) float64 {
	sup := 0.0
	for _, p := range from.Points() {
		d := to.DistanceToPoint(p)
		if d > sup {
			sup = d
		}
	}
	return sup
}

func (b *Battery) runLength(candidate, reference geo.LineString, diag *TestDiagnostics) bool {
	refLength := reference.Length()

	// Ratio comparison is unstable for very short links; treat the test as
	// not applicable (passing) below the floor.
	if refLength < b.cfg.MinLinkLengthM {
		diag.LengthPass = true
		return true
	}
	if candidate.IsDegenerate() || reference.IsDegenerate() {
		diag.LengthPass = false
		return false
	}

	candLength := candidate.Length()
	diag.LengthRatio = candLength / refLength

	switch b.cfg.LengthCheckMode {
	case LengthModeExact:
		diag.LengthPass = math.Abs(candLength-refLength) <= b.cfg.EpsilonLengthM
	default:
		diag.LengthPass = diag.LengthRatio >= b.cfg.LengthRatioMin &&
			diag.LengthRatio <= b.cfg.LengthRatioMax
	}
	return diag.LengthPass
}

func (b *Battery) runCoverage(candidate, reference geo.LineString, diag *TestDiagnostics) bool {
	if candidate.IsDegenerate() || reference.IsDegenerate() {
		diag.CoveragePercent = 0
		diag.CoveragePass = false
		return false
	}

	samples := reference.Sample(b.cfg.CoverageSpacingM)
	if len(samples) == 0 {
		diag.CoveragePercent = 0
		diag.CoveragePass = false
		return false
	}

	covered := 0
	for _, s := range samples {
		if candidate.DistanceToPoint(s) <= b.cfg.CoverageBufferM {
			covered++
		}
	}
	fraction := float64(covered) / float64(len(samples))
	diag.CoveragePercent = fraction * 100.0
	diag.CoveragePass = fraction >= b.cfg.CoverageMin
	return diag.CoveragePass
}
