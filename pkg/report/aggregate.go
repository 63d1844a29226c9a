package report

import (
	"math"
	"sort"
	"time"

	"github.com/MOTRoundTables/google-control-sub000/pkg/concurrent"
	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// LinkAggregate is one report row, rebuilt from scratch on every report
// generation. Percentage fields are nil (not zero) when the link has no
// observations at all.
type LinkAggregate struct {
	From int64
	To   int64
	Key  string

	TotalObservations       int // distinct timestamps, alternatives collapsed
	SuccessfulObservations  int
	FailedObservations      int
	TotalRouteRows          int // raw rows incl. alternatives, after dedup
	SingleRouteObservations int
	MultiRouteObservations  int

	PerfectMatchCount  int
	ThresholdPassCount int

	PerfectMatchPercent  *float64
	ThresholdPassPercent *float64
	FailedPercent        *float64

	MeanHausdorffM *float64
	MaxHausdorffM  *float64

	ExpectedObservations *int
	MissingObservations  *int
	DataCoveragePercent  *float64
}

// Report is the derived output of one aggregation pass, discarded after
// serialization.
type Report struct {
	Links []LinkAggregate
	// Missing holds code-94 rows for links that are observed somewhere but
	// skipped expected slots. NoDataLinks holds code-95 link keys with zero
	// observations anywhere; the two sets never intersect.
	Missing     []MissingObservation
	NoDataLinks []string
}

// Aggregator groups validated observations per link and rolls them up into
// report rows. Per-link computation is independent, so large networks are
// fanned out over the worker pool with the same single per-link function.
type Aggregator struct {
	refs                  *dataset.ReferenceTable
	log                   *zap.Logger
	numWorkers            int
	parallelLinkThreshold int
}

func NewAggregator(refs *dataset.ReferenceTable, log *zap.Logger) *Aggregator {
	return &Aggregator{
		refs:                  refs,
		log:                   log,
		numWorkers:            0, // one per CPU
		parallelLinkThreshold: 500,
	}
}

// BuildReport produces one LinkAggregate per reference link, in reference
// table order; links absent from the observation table keep zero counters.
// completeness may be nil to skip the completeness analysis.
func (a *Aggregator) BuildReport(rows []validation.ValidatedObservation,
	completeness *CompletenessParams) *Report {
	deduped := dedupRows(rows)
	byLink := groupByLink(deduped)

	links := a.refs.Links()
	perLink := func(c concurrent.Chunk) []LinkAggregate {
		out := make([]LinkAggregate, 0, c.Len())
		for _, link := range links[c.Start:c.End] {
			out = append(out, aggregateLink(link, byLink[link.Key()], completeness))
		}
		return out
	}

	var aggregates []LinkAggregate
	if len(links) < a.parallelLinkThreshold {
		aggregates = perLink(concurrent.Chunk{Start: 0, End: len(links)})
	} else {
		chunks := concurrent.SplitIndexRange(len(links), 100)
		aggregates = concurrent.MapChunksOrdered(a.numWorkers, chunks, perLink, nil)
	}

	report := &Report{Links: aggregates}
	if completeness != nil {
		a.analyzeCompleteness(report, byLink, completeness)
	}
	return report
}

// dedupRows drops identical (link, timestamp, polyline) duplicates, keeping
// the first occurrence, so repeated uploads cannot double count.
func dedupRows(rows []validation.ValidatedObservation) []validation.ValidatedObservation {
	type dedupKey struct {
		name     string
		ts       time.Time
		polyline string
	}
	seen := make(map[dedupKey]bool, len(rows))
	out := make([]validation.ValidatedObservation, 0, len(rows))
	for _, row := range rows {
		key := dedupKey{name: row.Name, ts: row.Timestamp, polyline: row.Polyline}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return out
}

func groupByLink(rows []validation.ValidatedObservation) map[string][]validation.ValidatedObservation {
	byLink := make(map[string][]validation.ValidatedObservation)
	for _, row := range rows {
		from, to, err := dataset.ParseLinkName(row.Name)
		if err != nil {
			continue
		}
		key := dataset.LinkKey(from, to)
		byLink[key] = append(byLink[key], row)
	}
	return byLink
}

// aggregateLink is the single per-link rollup shared by the sequential and
// parallel paths.
func aggregateLink(link dataset.ReferenceLink, rows []validation.ValidatedObservation,
	completeness *CompletenessParams) LinkAggregate {
	agg := LinkAggregate{From: link.From, To: link.To, Key: link.Key()}
	agg.TotalRouteRows = len(rows)

	groups := groupByTimestamp(rows)
	agg.TotalObservations = len(groups)

	var bestDistances []float64
	for _, group := range groups {
		if len(group) == 1 {
			agg.SingleRouteObservations++
		} else {
			agg.MultiRouteObservations++
		}

		// An observation succeeds when any of its route alternatives passes:
		// alternatives are substitutable answers to one request.
		best := math.NaN()
		success := false
		for _, row := range group {
			if !row.IsValid {
				continue
			}
			success = true
			d := row.Diagnostics.HausdorffDistance
			if !math.IsNaN(d) && (math.IsNaN(best) || d < best) {
				best = d
			}
		}
		if !success {
			continue
		}
		agg.SuccessfulObservations++
		if !math.IsNaN(best) {
			bestDistances = append(bestDistances, best)
		}
		if best < validation.PerfectMatchEpsilonM && !math.IsNaN(best) {
			agg.PerfectMatchCount++
		} else {
			agg.ThresholdPassCount++
		}
	}
	agg.FailedObservations = agg.TotalObservations - agg.SuccessfulObservations

	if agg.TotalObservations > 0 {
		total := float64(agg.TotalObservations)
		agg.PerfectMatchPercent = ptr(float64(agg.PerfectMatchCount) / total * 100)
		agg.ThresholdPassPercent = ptr(float64(agg.ThresholdPassCount) / total * 100)
		agg.FailedPercent = ptr(float64(agg.FailedObservations) / total * 100)
	}
	if len(bestDistances) > 0 {
		// Summation order must not depend on map iteration order, or the
		// serialized mean differs between identical runs.
		sort.Float64s(bestDistances)
		agg.MeanHausdorffM = ptr(stat.Mean(bestDistances, nil))
		agg.MaxHausdorffM = ptr(bestDistances[len(bestDistances)-1])
	}

	if completeness != nil {
		expected := completeness.ExpectedObservations()
		agg.ExpectedObservations = ptr(expected)
		missing := expected - agg.TotalObservations
		if missing < 0 {
			missing = 0
		}
		agg.MissingObservations = ptr(missing)
		if expected > 0 {
			agg.DataCoveragePercent = ptr(float64(agg.TotalObservations) / float64(expected) * 100)
		}
	}
	return agg
}

func groupByTimestamp(rows []validation.ValidatedObservation) map[time.Time][]validation.ValidatedObservation {
	groups := make(map[time.Time][]validation.ValidatedObservation)
	for _, row := range rows {
		groups[row.Timestamp] = append(groups[row.Timestamp], row)
	}
	return groups
}

// analyzeCompleteness fills the missing-observation and no-data result sets.
// A link belongs to exactly one of {observed somewhere, no-data}.
func (a *Aggregator) analyzeCompleteness(report *Report,
	byLink map[string][]validation.ValidatedObservation, params *CompletenessParams) {
	for _, link := range a.refs.Links() {
		rows := byLink[link.Key()]
		if len(rows) == 0 {
			report.NoDataLinks = append(report.NoDataLinks, link.Key())
			continue
		}

		observed := make(map[time.Time]bool, len(rows))
		for _, row := range rows {
			if slot, ok := params.NormalizeSlot(slotTimestamp(row)); ok {
				observed[slot] = true
			}
		}
		for _, slot := range params.missingSlots(observed) {
			report.Missing = append(report.Missing, MissingObservation{
				Key:      link.Key(),
				From:     link.From,
				To:       link.To,
				SlotTime: slot,
				Code:     validation.CodeMissingObservation,
			})
		}
	}

	sort.Slice(report.Missing, func(i, j int) bool {
		if report.Missing[i].Key != report.Missing[j].Key {
			return report.Missing[i].Key < report.Missing[j].Key
		}
		return report.Missing[i].SlotTime.Before(report.Missing[j].SlotTime)
	})
}

// slotTimestamp picks the timestamp the schedule is matched against. The
// requested time is the scheduled slot itself; the recording time is the
// fallback when the column was absent.
func slotTimestamp(row validation.ValidatedObservation) time.Time {
	if row.HasRequestedTime() {
		return row.RequestedTime
	}
	return row.Timestamp
}

func ptr[T any](v T) *T {
	return &v
}
