package usecases

import (
	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/report"
	"github.com/MOTRoundTables/google-control-sub000/pkg/spatialindex"
	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
	"go.uber.org/zap"
)

// ValidationService runs the full validate-then-aggregate pipeline for one
// request against the reference network loaded at startup.
type ValidationService struct {
	log   *zap.Logger
	refs  *dataset.ReferenceTable
	index *spatialindex.Rtree
	cfg   validation.Config
}

func NewValidationService(log *zap.Logger, refs *dataset.ReferenceTable,
	index *spatialindex.Rtree, cfg validation.Config) *ValidationService {
	return &ValidationService{
		log:   log,
		refs:  refs,
		index: index,
		cfg:   cfg,
	}
}

func (s *ValidationService) ValidateObservations(observations []dataset.Observation,
	completeness *report.CompletenessParams) ([]validation.ValidatedObservation, *report.Report, error) {
	rowValidator, err := validation.NewRowValidator(s.cfg, s.refs, s.index, s.log)
	if err != nil {
		return nil, nil, err
	}

	batch := validation.NewBatchValidator(rowValidator, s.cfg, s.log, func(status string) {
		s.log.Info("validation progress", zap.String("status", status))
	})
	validated := batch.Validate(observations)

	aggregator := report.NewAggregator(s.refs, s.log)
	rep := aggregator.BuildReport(validated, completeness)
	return validated, rep, nil
}
