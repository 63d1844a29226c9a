package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
)

var linkReportHeader = []string{
	"from", "to", "key",
	"total_observations", "successful_observations", "failed_observations",
	"total_route_rows", "single_route_observations", "multi_route_observations",
	"perfect_match_count", "threshold_pass_count",
	"perfect_match_percent", "threshold_pass_percent", "failed_percent",
	"mean_hausdorff_m", "max_hausdorff_m",
	"expected_observations", "missing_observations", "data_coverage_percent",
	"geometry",
}

// WriteLinkReport serializes one row per reference link, carrying the
// original From/To/geometry columns alongside the aggregate fields.
// Undefined percentages serialize as empty cells, never as 0.
func WriteLinkReport(w io.Writer, report *Report, refs *dataset.ReferenceTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(linkReportHeader); err != nil {
		return err
	}
	for _, agg := range report.Links {
		link, _ := refs.Lookup(agg.Key)
		record := []string{
			strconv.FormatInt(agg.From, 10),
			strconv.FormatInt(agg.To, 10),
			agg.Key,
			strconv.Itoa(agg.TotalObservations),
			strconv.Itoa(agg.SuccessfulObservations),
			strconv.Itoa(agg.FailedObservations),
			strconv.Itoa(agg.TotalRouteRows),
			strconv.Itoa(agg.SingleRouteObservations),
			strconv.Itoa(agg.MultiRouteObservations),
			strconv.Itoa(agg.PerfectMatchCount),
			strconv.Itoa(agg.ThresholdPassCount),
			formatFloatPtr(agg.PerfectMatchPercent),
			formatFloatPtr(agg.ThresholdPassPercent),
			formatFloatPtr(agg.FailedPercent),
			formatFloatPtr(agg.MeanHausdorffM),
			formatFloatPtr(agg.MaxHausdorffM),
			formatIntPtr(agg.ExpectedObservations),
			formatIntPtr(agg.MissingObservations),
			formatFloatPtr(agg.DataCoveragePercent),
			wktLineString(link.Geometry),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var missingHeader = []string{"from", "to", "key", "slot_time", "valid_code"}

// WriteMissingTable serializes the synthetic code-94 rows plus one code-95
// row per no-data link.
func WriteMissingTable(w io.Writer, report *Report, refs *dataset.ReferenceTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(missingHeader); err != nil {
		return err
	}
	for _, m := range report.Missing {
		record := []string{
			strconv.FormatInt(m.From, 10),
			strconv.FormatInt(m.To, 10),
			m.Key,
			m.SlotTime.Format("2006-01-02 15:04:05"),
			strconv.Itoa(int(m.Code)),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	for _, key := range report.NoDataLinks {
		link, ok := refs.Lookup(key)
		if !ok {
			continue
		}
		record := []string{
			strconv.FormatInt(link.From, 10),
			strconv.FormatInt(link.To, 10),
			key,
			"",
			strconv.Itoa(int(validation.CodeNoData)),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func wktLineString(coords []geo.Coordinate) string {
	if len(coords) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("LINESTRING (")
	for i, c := range coords {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s %s",
			strconv.FormatFloat(c.Lon, 'f', -1, 64),
			strconv.FormatFloat(c.Lat, 'f', -1, 64))
	}
	sb.WriteString(")")
	return sb.String()
}
