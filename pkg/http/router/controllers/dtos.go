package controllers

import (
	"math"
	"time"

	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/report"
	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
)

type observationRequest struct {
	Name             string `json:"name" validate:"required"`
	Timestamp        string `json:"timestamp" validate:"required"`
	RequestedTime    string `json:"requested_time"`
	RouteAlternative int    `json:"route_alternative" validate:"gte=0"`
	Polyline         string `json:"polyline" validate:"required"`
}

type completenessRequest struct {
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	IntervalMinutes int    `json:"interval_minutes" validate:"gt=0"`
}

type validateRequest struct {
	Observations []observationRequest `json:"observations" validate:"required,min=1,dive"`
	Completeness *completenessRequest `json:"completeness"`
}

func (r validateRequest) toObservations() ([]dataset.Observation, error) {
	observations := make([]dataset.Observation, 0, len(r.Observations))
	for i, o := range r.Observations {
		ts, err := dataset.ParseTimestamp(o.Timestamp)
		if err != nil {
			return nil, err
		}
		reqTs, err := dataset.ParseTimestamp(o.RequestedTime)
		if err != nil {
			return nil, err
		}
		alt := o.RouteAlternative
		if alt < 1 {
			alt = 1
		}
		observations = append(observations, dataset.Observation{
			Index:            i,
			Name:             o.Name,
			Timestamp:        ts,
			RequestedTime:    reqTs,
			RouteAlternative: alt,
			Polyline:         o.Polyline,
		})
	}
	return observations, nil
}

func (r validateRequest) toCompleteness() (*report.CompletenessParams, error) {
	if r.Completeness == nil {
		return nil, nil
	}
	start, err := time.Parse("2006-01-02", r.Completeness.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", r.Completeness.EndDate)
	if err != nil {
		return nil, err
	}
	return &report.CompletenessParams{
		StartDate:       start,
		EndDate:         end,
		IntervalMinutes: r.Completeness.IntervalMinutes,
	}, nil
}

type validatedRowResponse struct {
	Name              string   `json:"name"`
	Timestamp         string   `json:"timestamp"`
	RouteAlternative  int      `json:"route_alternative"`
	IsValid           bool     `json:"is_valid"`
	ValidCode         int      `json:"valid_code"`
	HausdorffDistance *float64 `json:"hausdorff_distance,omitempty"`
	HausdorffPass     bool     `json:"hausdorff_pass"`
	PerfectMatch      bool     `json:"perfect_match"`
	LengthRatio       *float64 `json:"length_ratio,omitempty"`
	LengthPass        bool     `json:"length_pass"`
	CoveragePercent   *float64 `json:"coverage_percent,omitempty"`
	CoveragePass      bool     `json:"coverage_pass"`
	NearestLink       string   `json:"nearest_link,omitempty"`
}

type linkAggregateResponse struct {
	From                    int64    `json:"from"`
	To                      int64    `json:"to"`
	Key                     string   `json:"key"`
	TotalObservations       int      `json:"total_observations"`
	SuccessfulObservations  int      `json:"successful_observations"`
	FailedObservations      int      `json:"failed_observations"`
	TotalRouteRows          int      `json:"total_route_rows"`
	SingleRouteObservations int      `json:"single_route_observations"`
	MultiRouteObservations  int      `json:"multi_route_observations"`
	PerfectMatchPercent     *float64 `json:"perfect_match_percent"`
	ThresholdPassPercent    *float64 `json:"threshold_pass_percent"`
	FailedPercent           *float64 `json:"failed_percent"`
	MeanHausdorffM          *float64 `json:"mean_hausdorff_m,omitempty"`
	MaxHausdorffM           *float64 `json:"max_hausdorff_m,omitempty"`
	ExpectedObservations    *int     `json:"expected_observations,omitempty"`
	MissingObservations     *int     `json:"missing_observations,omitempty"`
	DataCoveragePercent     *float64 `json:"data_coverage_percent,omitempty"`
}

type missingObservationResponse struct {
	Key       string `json:"key"`
	SlotTime  string `json:"slot_time"`
	ValidCode int    `json:"valid_code"`
}

type validateResponse struct {
	Rows        []validatedRowResponse       `json:"rows"`
	Links       []linkAggregateResponse      `json:"links"`
	Missing     []missingObservationResponse `json:"missing,omitempty"`
	NoDataLinks []string                     `json:"no_data_links,omitempty"`
}

func NewValidateResponse(rows []validation.ValidatedObservation, rep *report.Report) validateResponse {
	resp := validateResponse{
		Rows:        make([]validatedRowResponse, 0, len(rows)),
		Links:       make([]linkAggregateResponse, 0, len(rep.Links)),
		NoDataLinks: rep.NoDataLinks,
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, validatedRowResponse{
			Name:              row.Name,
			Timestamp:         row.Timestamp.Format("2006-01-02 15:04:05"),
			RouteAlternative:  row.RouteAlternative,
			IsValid:           row.IsValid,
			ValidCode:         int(row.Code),
			HausdorffDistance: finiteOrNil(row.Diagnostics.HausdorffDistance),
			HausdorffPass:     row.Diagnostics.HausdorffPass,
			PerfectMatch:      row.Diagnostics.PerfectMatch,
			LengthRatio:       finiteOrNil(row.Diagnostics.LengthRatio),
			LengthPass:        row.Diagnostics.LengthPass,
			CoveragePercent:   finiteOrNil(row.Diagnostics.CoveragePercent),
			CoveragePass:      row.Diagnostics.CoveragePass,
			NearestLink:       row.NearestLink,
		})
	}
	for _, agg := range rep.Links {
		resp.Links = append(resp.Links, linkAggregateResponse{
			From:                    agg.From,
			To:                      agg.To,
			Key:                     agg.Key,
			TotalObservations:       agg.TotalObservations,
			SuccessfulObservations:  agg.SuccessfulObservations,
			FailedObservations:      agg.FailedObservations,
			TotalRouteRows:          agg.TotalRouteRows,
			SingleRouteObservations: agg.SingleRouteObservations,
			MultiRouteObservations:  agg.MultiRouteObservations,
			PerfectMatchPercent:     agg.PerfectMatchPercent,
			ThresholdPassPercent:    agg.ThresholdPassPercent,
			FailedPercent:           agg.FailedPercent,
			MeanHausdorffM:          agg.MeanHausdorffM,
			MaxHausdorffM:           agg.MaxHausdorffM,
			ExpectedObservations:    agg.ExpectedObservations,
			MissingObservations:     agg.MissingObservations,
			DataCoveragePercent:     agg.DataCoveragePercent,
		})
	}
	for _, m := range rep.Missing {
		resp.Missing = append(resp.Missing, missingObservationResponse{
			Key:       m.Key,
			SlotTime:  m.SlotTime.Format("2006-01-02 15:04:05"),
			ValidCode: int(m.Code),
		})
	}
	return resp
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
