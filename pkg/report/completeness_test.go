package report

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpectedObservations(t *testing.T) {
	testCases := []struct {
		name     string
		params   CompletenessParams
		expected int
	}{
		{
			name:     "single day at 15 minutes",
			params:   CompletenessParams{StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 1), IntervalMinutes: 15},
			expected: 96,
		},
		{
			name:     "two days at 15 minutes",
			params:   CompletenessParams{StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 2), IntervalMinutes: 15},
			expected: 192,
		},
		{
			name:     "single day hourly",
			params:   CompletenessParams{StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 1), IntervalMinutes: 60},
			expected: 24,
		},
		{
			name:     "interval does not divide the day",
			params:   CompletenessParams{StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 1), IntervalMinutes: 7},
			expected: 205, // floor(1440 / 7)
		},
		{
			name:     "start after end",
			params:   CompletenessParams{StartDate: day(2025, 1, 2), EndDate: day(2025, 1, 1), IntervalMinutes: 15},
			expected: 0,
		},
		{
			name:     "zero interval",
			params:   CompletenessParams{StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 1), IntervalMinutes: 0},
			expected: 0,
		},
		{
			name:     "negative interval",
			params:   CompletenessParams{StartDate: day(2025, 1, 1), EndDate: day(2025, 1, 1), IntervalMinutes: -5},
			expected: 0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.ExpectedObservations(); got != tt.expected {
				t.Errorf("expected %d slots, got %d", tt.expected, got)
			}
		})
	}
}

func TestSlots(t *testing.T) {
	params := CompletenessParams{
		StartDate:       day(2025, 1, 1),
		EndDate:         day(2025, 1, 1),
		IntervalMinutes: 15,
	}

	slots := params.Slots()
	if len(slots) != 96 {
		t.Fatalf("expected 96 slots, got %d", len(slots))
	}
	if !slots[0].Equal(day(2025, 1, 1)) {
		t.Errorf("first slot must be midnight, got %v", slots[0])
	}
	last := time.Date(2025, 1, 1, 23, 45, 0, 0, time.UTC)
	if !slots[95].Equal(last) {
		t.Errorf("last slot must be 23:45, got %v", slots[95])
	}
	for i := 1; i < len(slots); i++ {
		if slots[i].Sub(slots[i-1]) != 15*time.Minute {
			t.Fatalf("uneven grid at slot %d", i)
		}
	}

	bad := CompletenessParams{StartDate: day(2025, 1, 2), EndDate: day(2025, 1, 1), IntervalMinutes: 15}
	if got := bad.Slots(); got != nil {
		t.Errorf("invalid range must yield no slots, got %d", len(got))
	}
}

func TestNormalizeSlot(t *testing.T) {
	params := CompletenessParams{
		StartDate:       day(2025, 1, 1),
		EndDate:         day(2025, 1, 1),
		IntervalMinutes: 15,
	}

	testCases := []struct {
		name     string
		ts       time.Time
		expected time.Time
		ok       bool
	}{
		{
			name:     "exact boundary maps to itself",
			ts:       time.Date(2025, 1, 1, 8, 15, 0, 0, time.UTC),
			expected: time.Date(2025, 1, 1, 8, 15, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "inside interval floors down",
			ts:       time.Date(2025, 1, 1, 8, 14, 59, 0, time.UTC),
			expected: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
			ok:       true,
		},
		{
			name:     "last interval of the day",
			ts:       time.Date(2025, 1, 1, 23, 59, 59, 0, time.UTC),
			expected: time.Date(2025, 1, 1, 23, 45, 0, 0, time.UTC),
			ok:       true,
		},
		{name: "before the range", ts: time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), ok: false},
		{name: "after the range", ts: day(2025, 1, 2), ok: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := params.NormalizeSlot(tt.ts)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !got.Equal(tt.expected) {
				t.Errorf("expected slot %v, got %v", tt.expected, got)
			}
		})
	}
}
