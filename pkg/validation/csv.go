package validation

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"time"
)

var validatedHeader = []string{
	"name", "timestamp", "requested_time", "route_alternative", "polyline",
	"is_valid", "valid_code",
	"hausdorff_distance", "hausdorff_pass", "perfect_match",
	"length_ratio", "length_pass",
	"coverage_percent", "coverage_pass",
	"nearest_link",
}

// WriteValidatedTable serializes the enriched observation table: the input
// columns plus validity flag, code and per-test diagnostics. The in-memory
// code enum maps to its fixed integer value only here, at the boundary.
func WriteValidatedTable(w io.Writer, rows []ValidatedObservation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(validatedHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.Name,
			formatTime(row.Timestamp),
			formatTime(row.RequestedTime),
			strconv.Itoa(row.RouteAlternative),
			row.Polyline,
			strconv.FormatBool(row.IsValid),
			strconv.Itoa(int(row.Code)),
			formatMetric(row.Diagnostics.HausdorffDistance),
			strconv.FormatBool(row.Diagnostics.HausdorffPass),
			strconv.FormatBool(row.Diagnostics.PerfectMatch),
			formatMetric(row.Diagnostics.LengthRatio),
			strconv.FormatBool(row.Diagnostics.LengthPass),
			formatMetric(row.Diagnostics.CoveragePercent),
			strconv.FormatBool(row.Diagnostics.CoveragePass),
			row.NearestLink,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format("2006-01-02 15:04:05")
}

func formatMetric(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
