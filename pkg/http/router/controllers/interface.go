package controllers

import (
	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/report"
	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
)

type ValidationService interface {
	ValidateObservations(observations []dataset.Observation,
		completeness *report.CompletenessParams) ([]validation.ValidatedObservation, *report.Report, error)
}
