package validation

import (
	"math"
	"testing"

	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
)

func planarLine(points ...[2]float64) geo.LineString {
	pts := make([]geo.PlanarPoint, len(points))
	for i, p := range points {
		pts[i] = geo.NewPlanarPoint(p[0], p[1])
	}
	return geo.NewLineString(pts)
}

func TestHausdorffDistance(t *testing.T) {
	base := planarLine([2]float64{0, 0}, [2]float64{100, 0})

	testCases := []struct {
		name     string
		a, b     geo.LineString
		expected float64
	}{
		{name: "identical", a: base, b: base, expected: 0},
		{
			name:     "parallel offset",
			a:        base,
			b:        planarLine([2]float64{0, 10}, [2]float64{100, 10}),
			expected: 10,
		},
		{
			name:     "one line overshoots",
			a:        base,
			b:        planarLine([2]float64{0, 0}, [2]float64{130, 0}),
			expected: 30,
		},
		{
			name:     "detour vertex dominates",
			a:        base,
			b:        planarLine([2]float64{0, 0}, [2]float64{50, 25}, [2]float64{100, 0}),
			expected: 25,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := HausdorffDistance(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected %g, got %g", tt.expected, got)
			}
			// symmetric by construction
			if rev := HausdorffDistance(tt.b, tt.a); rev != got {
				t.Errorf("asymmetric result: %g vs %g", got, rev)
			}
		})
	}
}

func TestBatteryHausdorffThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseLengthCheck = false
	cfg.HausdorffThresholdM = 10.0
	battery := NewBattery(cfg)

	reference := planarLine([2]float64{0, 0}, [2]float64{100, 0})

	t.Run("identical line is a perfect match", func(t *testing.T) {
		pass, diag := battery.Run(reference, reference)
		if !pass || !diag.HausdorffPass {
			t.Error("identical geometry must pass")
		}
		if !diag.PerfectMatch {
			t.Error("zero distance must be flagged as perfect match")
		}
		if diag.HausdorffDistance != 0 {
			t.Errorf("expected distance 0, got %g", diag.HausdorffDistance)
		}
	})

	t.Run("distance equal to threshold passes", func(t *testing.T) {
		candidate := planarLine([2]float64{0, 10}, [2]float64{100, 10})
		pass, diag := battery.Run(candidate, reference)
		if !pass {
			t.Errorf("distance %g at threshold %g must pass", diag.HausdorffDistance, cfg.HausdorffThresholdM)
		}
		if diag.PerfectMatch {
			t.Error("threshold pass is not a perfect match")
		}
	})

	t.Run("distance beyond threshold fails", func(t *testing.T) {
		candidate := planarLine([2]float64{0, 10.5}, [2]float64{100, 10.5})
		pass, diag := battery.Run(candidate, reference)
		if pass || diag.HausdorffPass {
			t.Errorf("distance %g must fail threshold %g", diag.HausdorffDistance, cfg.HausdorffThresholdM)
		}
	})

	t.Run("degenerate candidate fails without panic", func(t *testing.T) {
		pass, diag := battery.Run(planarLine([2]float64{5, 5}), reference)
		if pass || diag.HausdorffPass {
			t.Error("degenerate geometry must fail")
		}
	})
}

func TestBatteryLengthRatio(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseHausdorff = false
	cfg.LengthRatioMin = 0.9
	cfg.LengthRatioMax = 1.1
	cfg.MinLinkLengthM = 25.0
	battery := NewBattery(cfg)

	reference := planarLine([2]float64{0, 0}, [2]float64{100, 0})

	testCases := []struct {
		name       string
		candidate  geo.LineString
		expectPass bool
		ratio      float64
	}{
		{name: "exact length", candidate: planarLine([2]float64{0, 0}, [2]float64{100, 0}), expectPass: true, ratio: 1.0},
		{name: "within band", candidate: planarLine([2]float64{0, 0}, [2]float64{95, 0}), expectPass: true, ratio: 0.95},
		{name: "lower bound inclusive", candidate: planarLine([2]float64{0, 0}, [2]float64{90, 0}), expectPass: true, ratio: 0.9},
		{name: "too short", candidate: planarLine([2]float64{0, 0}, [2]float64{80, 0}), expectPass: false, ratio: 0.8},
		{name: "too long", candidate: planarLine([2]float64{0, 0}, [2]float64{120, 0}), expectPass: false, ratio: 1.2},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			pass, diag := battery.Run(tt.candidate, reference)
			if pass != tt.expectPass {
				t.Errorf("expected pass=%v, got %v (ratio %g)", tt.expectPass, pass, diag.LengthRatio)
			}
			if math.Abs(diag.LengthRatio-tt.ratio) > 1e-9 {
				t.Errorf("expected ratio %g, got %g", tt.ratio, diag.LengthRatio)
			}
		})
	}
}

func TestBatteryLengthShortLinkSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseHausdorff = false
	cfg.MinLinkLengthM = 25.0
	battery := NewBattery(cfg)

	// 10m reference, wildly different candidate: below the floor the ratio
	// test does not apply and the row passes.
	reference := planarLine([2]float64{0, 0}, [2]float64{10, 0})
	candidate := planarLine([2]float64{0, 0}, [2]float64{300, 0})

	pass, diag := battery.Run(candidate, reference)
	if !pass || !diag.LengthPass {
		t.Error("links below the minimum length must skip the ratio test")
	}
	if !math.IsNaN(diag.LengthRatio) {
		t.Errorf("skipped test must report NaN ratio, got %g", diag.LengthRatio)
	}
}

func TestBatteryLengthExactMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseHausdorff = false
	cfg.LengthCheckMode = LengthModeExact
	cfg.EpsilonLengthM = 1.0
	battery := NewBattery(cfg)

	reference := planarLine([2]float64{0, 0}, [2]float64{100, 0})

	if pass, _ := battery.Run(planarLine([2]float64{0, 0}, [2]float64{100.5, 0}), reference); !pass {
		t.Error("0.5m delta within 1m epsilon must pass")
	}
	if pass, _ := battery.Run(planarLine([2]float64{0, 0}, [2]float64{102, 0}), reference); pass {
		t.Error("2m delta beyond 1m epsilon must fail")
	}
}

func TestBatteryCoverage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseHausdorff = false
	cfg.UseLengthCheck = false
	cfg.UseCoverageCheck = true
	cfg.CoverageMin = 0.9
	cfg.CoverageSpacingM = 10.0
	cfg.CoverageBufferM = 5.0
	battery := NewBattery(cfg)

	reference := planarLine([2]float64{0, 0}, [2]float64{100, 0})

	t.Run("full coverage", func(t *testing.T) {
		pass, diag := battery.Run(reference, reference)
		if !pass || diag.CoveragePercent != 100.0 {
			t.Errorf("expected full coverage, got %g%%", diag.CoveragePercent)
		}
	})

	t.Run("far candidate covers nothing", func(t *testing.T) {
		candidate := planarLine([2]float64{0, 50}, [2]float64{100, 50})
		pass, diag := battery.Run(candidate, reference)
		if pass || diag.CoveragePercent != 0.0 {
			t.Errorf("expected zero coverage, got %g%%", diag.CoveragePercent)
		}
	})

	t.Run("half covered fails the minimum", func(t *testing.T) {
		// candidate only spans the first half of the reference
		candidate := planarLine([2]float64{0, 0}, [2]float64{50, 0})
		pass, diag := battery.Run(candidate, reference)
		if pass {
			t.Errorf("partial coverage %g%% must fail min %g", diag.CoveragePercent, cfg.CoverageMin)
		}
		if diag.CoveragePercent <= 0 || diag.CoveragePercent >= 100 {
			t.Errorf("expected partial coverage, got %g%%", diag.CoveragePercent)
		}
	})
}

func TestBatteryDisabledTestsReportNaN(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UseHausdorff = true
	cfg.UseLengthCheck = false
	cfg.UseCoverageCheck = false
	battery := NewBattery(cfg)

	line := planarLine([2]float64{0, 0}, [2]float64{100, 0})
	_, diag := battery.Run(line, line)
	if !math.IsNaN(diag.LengthRatio) {
		t.Errorf("disabled length test must report NaN, got %g", diag.LengthRatio)
	}
	if !math.IsNaN(diag.CoveragePercent) {
		t.Errorf("disabled coverage test must report NaN, got %g", diag.CoveragePercent)
	}
}
