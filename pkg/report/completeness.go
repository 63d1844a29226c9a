package report

import (
	"time"

	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
)

// CompletenessParams describes the expected recording schedule: one
// observation per interval from start date 00:00 through the whole of the
// end date (the day after end_date at 00:00, exclusive).
type CompletenessParams struct {
	StartDate       time.Time
	EndDate         time.Time
	IntervalMinutes int
}

func (p CompletenessParams) interval() time.Duration {
	return time.Duration(p.IntervalMinutes) * time.Minute
}

func (p CompletenessParams) rangeStart() time.Time {
	return truncateToDay(p.StartDate)
}

func (p CompletenessParams) rangeEnd() time.Time {
	return truncateToDay(p.EndDate).AddDate(0, 0, 1)
}

func truncateToDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

// ExpectedObservations returns how many recording slots the schedule holds.
// Invalid ranges (start after end, non-positive interval) expect nothing.
func (p CompletenessParams) ExpectedObservations() int {
	if p.IntervalMinutes <= 0 || p.rangeStart().After(truncateToDay(p.EndDate)) {
		return 0
	}
	totalMinutes := p.rangeEnd().Sub(p.rangeStart()).Minutes()
	return int(totalMinutes) / p.IntervalMinutes
}

// Slots returns the full ordered expected slot list.
func (p CompletenessParams) Slots() []time.Time {
	n := p.ExpectedObservations()
	if n == 0 {
		return nil
	}
	slots := make([]time.Time, 0, n)
	cursor := p.rangeStart()
	for i := 0; i < n; i++ {
		slots = append(slots, cursor)
		cursor = cursor.Add(p.interval())
	}
	return slots
}

// NormalizeSlot floors a real timestamp onto its containing interval
// boundary of the schedule grid. The boolean is false for timestamps
// outside the scheduled range.
func (p CompletenessParams) NormalizeSlot(ts time.Time) (time.Time, bool) {
	if p.IntervalMinutes <= 0 {
		return time.Time{}, false
	}
	start := p.rangeStart()
	if ts.Before(start) || !ts.Before(p.rangeEnd()) {
		return time.Time{}, false
	}
	offset := ts.Sub(start)
	return start.Add(offset - offset%p.interval()), true
}

// MissingObservation is a synthetic row for one expected-but-absent
// (link, slot) pair. Only links with at least one real observation are
// expanded this way; fully unobserved links are reported as no-data instead.
type MissingObservation struct {
	Key      string
	From     int64
	To       int64
	SlotTime time.Time
	Code     validation.Code // always CodeMissingObservation
}

// missingSlots compares a link's observed slot set against the schedule.
func (p CompletenessParams) missingSlots(observed map[time.Time]bool) []time.Time {
	var missing []time.Time
	for _, slot := range p.Slots() {
		if !observed[slot] {
			missing = append(missing, slot)
		}
	}
	return missing
}
