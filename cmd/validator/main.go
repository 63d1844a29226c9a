package main

import (
	"flag"
	"time"

	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/logger"
	"github.com/MOTRoundTables/google-control-sub000/pkg/report"
	"github.com/MOTRoundTables/google-control-sub000/pkg/spatialindex"
	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
	"go.uber.org/zap"
)

var (
	observationsFile = flag.String("observations", "./data/observations.csv", "observation table (csv, optionally .bz2)")
	referenceFile    = flag.String("reference", "./data/reference_links.csv", "reference geometry table (csv, optionally .bz2)")
	validatedOut     = flag.String("out_validated", "./data/validated.csv", "validated observation table output")
	reportOut        = flag.String("out_report", "./data/link_report.csv", "per-link report output")
	missingOut       = flag.String("out_missing", "./data/missing.csv", "missing/no-data table output")
	startDate        = flag.String("start_date", "", "completeness range start (YYYY-MM-DD, empty disables completeness)")
	endDate          = flag.String("end_date", "", "completeness range end (YYYY-MM-DD)")
	intervalMinutes  = flag.Int("interval_minutes", 15, "expected recording interval in minutes")
)

func main() {
	flag.Parse()
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := validation.DefaultConfig()
	if err := util.ReadConfig(); err == nil {
		cfg, err = validation.ConfigFromViper()
		if err != nil {
			log.Fatal("invalid config file", zap.Error(err))
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid validation config", zap.Error(err))
	}

	refReader, err := dataset.OpenFile(*referenceFile)
	if err != nil {
		log.Fatal("cannot open reference table", zap.Error(err))
	}
	refs, err := dataset.ReadReferenceLinks(refReader, cfg.PolylinePrecision)
	refReader.Close()
	if err != nil {
		log.Fatal("cannot read reference table", zap.Error(err))
	}
	log.Info("reference network loaded", zap.Int("links", refs.Len()))

	obsReader, err := dataset.OpenFile(*observationsFile)
	if err != nil {
		log.Fatal("cannot open observation table", zap.Error(err))
	}
	observations, err := dataset.ReadObservations(obsReader)
	obsReader.Close()
	if err != nil {
		log.Fatal("cannot read observation table", zap.Error(err))
	}
	log.Info("observations loaded", zap.Int("rows", len(observations)))

	index := spatialindex.NewRtree()
	index.Build(refs.Links(), log)

	rowValidator, err := validation.NewRowValidator(cfg, refs, index, log)
	if err != nil {
		log.Fatal("cannot build validator", zap.Error(err))
	}
	batch := validation.NewBatchValidator(rowValidator, cfg, log, func(status string) {
		log.Info("progress", zap.String("status", status))
	})
	validated := batch.Validate(observations)

	completeness, err := completenessParams()
	if err != nil {
		log.Fatal("invalid completeness parameters", zap.Error(err))
	}

	aggregator := report.NewAggregator(refs, log)
	rep := aggregator.BuildReport(validated, completeness)

	writeOutputs(log, validated, rep, refs)
	log.Info("validation run finished",
		zap.Int("rows", len(validated)),
		zap.Int("links", len(rep.Links)),
		zap.Int("missing_slots", len(rep.Missing)),
		zap.Int("no_data_links", len(rep.NoDataLinks)))
}

func completenessParams() (*report.CompletenessParams, error) {
	if *startDate == "" || *endDate == "" {
		return nil, nil
	}
	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		return nil, err
	}
	return &report.CompletenessParams{
		StartDate:       start,
		EndDate:         end,
		IntervalMinutes: *intervalMinutes,
	}, nil
}

func writeOutputs(log *zap.Logger, validated []validation.ValidatedObservation,
	rep *report.Report, refs *dataset.ReferenceTable) {
	out, err := dataset.CreateFile(*validatedOut)
	if err != nil {
		log.Fatal("cannot create validated output", zap.Error(err))
	}
	if err := validation.WriteValidatedTable(out, validated); err != nil {
		log.Fatal("cannot write validated output", zap.Error(err))
	}
	out.Close()

	out, err = dataset.CreateFile(*reportOut)
	if err != nil {
		log.Fatal("cannot create report output", zap.Error(err))
	}
	if err := report.WriteLinkReport(out, rep, refs); err != nil {
		log.Fatal("cannot write report output", zap.Error(err))
	}
	out.Close()

	out, err = dataset.CreateFile(*missingOut)
	if err != nil {
		log.Fatal("cannot create missing output", zap.Error(err))
	}
	if err := report.WriteMissingTable(out, rep, refs); err != nil {
		log.Fatal("cannot write missing output", zap.Error(err))
	}
	out.Close()
}
