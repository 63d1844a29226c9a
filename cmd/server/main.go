package main

import (
	"context"
	"flag"

	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/http"
	"github.com/MOTRoundTables/google-control-sub000/pkg/http/usecases"
	"github.com/MOTRoundTables/google-control-sub000/pkg/logger"
	"github.com/MOTRoundTables/google-control-sub000/pkg/spatialindex"
	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
	"github.com/MOTRoundTables/google-control-sub000/pkg/validation"
	"go.uber.org/zap"
)

var (
	referenceFile = flag.String("reference", "./data/reference_links.csv", "reference geometry table (csv, optionally .bz2)")
	useRateLimit  = flag.Bool("rate_limit", false, "enable per-client rate limiting")
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

	index := spatialindex.NewRtree()
	index.Build(refs.Links(), log)

	validationService := usecases.NewValidationService(log, refs, index, cfg)

	api := http.NewServer(log)
	ctx, cleanup := newContext()
	if _, err := api.Use(ctx, log, *useRateLimit, validationService); err != nil {
		log.Fatal("cannot start API", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	log.Info("Validation API Server Stopped", zap.String("signal", signal.String()))
	cleanup()
}

func newContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, cancel
}
