package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
	"go.uber.org/zap"
)

func TestWriteLinkReport(t *testing.T) {
	refs := newTestRefs(t)
	aggregator := NewAggregator(refs, zap.NewNop())
	ts := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)

	report := aggregator.BuildReport([]validation.ValidatedObservation{
		row("s_1-2", ts, 1, true, 0),
	}, nil)

	var buf bytes.Buffer
	if err := WriteLinkReport(&buf, report, refs); err != nil {
		t.Fatalf("err: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(records) != 1+refs.Len() {
		t.Fatalf("expected header plus %d rows, got %d", refs.Len(), len(records))
	}

	header := records[0]
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}

	var observedRow, emptyRow []string
	for _, rec := range records[1:] {
		switch rec[cols["key"]] {
		case "s_1-2":
			observedRow = rec
		case "s_3-4":
			emptyRow = rec
		}
	}
	if observedRow == nil || emptyRow == nil {
		t.Fatal("expected rows for s_1-2 and s_3-4")
	}

	if observedRow[cols["perfect_match_percent"]] != "100" {
		t.Errorf("expected 100 percent perfect, got %q", observedRow[cols["perfect_match_percent"]])
	}
	if !strings.HasPrefix(observedRow[cols["geometry"]], "LINESTRING (") {
		t.Errorf("expected WKT geometry, got %q", observedRow[cols["geometry"]])
	}
	// unobserved link serializes empty percentage cells, not zeros
	if emptyRow[cols["perfect_match_percent"]] != "" || emptyRow[cols["failed_percent"]] != "" {
		t.Errorf("expected empty percentage cells, got %v", emptyRow)
	}
	if emptyRow[cols["total_observations"]] != "0" {
		t.Errorf("expected zero count, got %q", emptyRow[cols["total_observations"]])
	}
}

func TestWriteMissingTable(t *testing.T) {
	refs := newTestRefs(t)
	aggregator := NewAggregator(refs, zap.NewNop())
	params := &CompletenessParams{
		StartDate:       day(2025, 1, 1),
		EndDate:         day(2025, 1, 1),
		IntervalMinutes: 480,
	}

	report := aggregator.BuildReport([]validation.ValidatedObservation{
		row("s_1-2", time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC), 1, true, 0),
		row("s_2-3", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 1, true, 1),
	}, params)

	var buf bytes.Buffer
	if err := WriteMissingTable(&buf, report, refs); err != nil {
		t.Fatalf("err: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	var code94, code95 int
	for _, rec := range records[1:] {
		switch rec[4] {
		case "94":
			code94++
			if rec[3] == "" {
				t.Error("code 94 rows must carry a slot time")
			}
		case "95":
			code95++
			if rec[2] != "s_3-4" {
				t.Errorf("unexpected no-data link %q", rec[2])
			}
			if rec[3] != "" {
				t.Error("code 95 rows have no slot time")
			}
		default:
			t.Errorf("unexpected code %q", rec[4])
		}
	}
	// s_1-2 and s_2-3 each missed two of three slots
	if code94 != 4 {
		t.Errorf("expected 4 missing-slot rows, got %d", code94)
	}
	if code95 != 1 {
		t.Errorf("expected 1 no-data row, got %d", code95)
	}
}
