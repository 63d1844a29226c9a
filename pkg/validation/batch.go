package validation

import (
	"fmt"
	"time"

	"github.com/MOTRoundTables/google-control-sub000/pkg/concurrent"
	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ProgressFunc receives human-readable status strings at coarse milestones.
// Purely advisory: a slow or absent consumer never changes results.
type ProgressFunc func(status string)

// BatchValidator applies the row validator across a whole observation table.
// Small tables run sequentially; large ones are split into contiguous index
// chunks over a worker pool and reassembled by original row index, so the
// two paths produce byte-identical output.
type BatchValidator struct {
	rv       *RowValidator
	cfg      Config
	log      *zap.Logger
	progress ProgressFunc
	// Progress callbacks are throttled so chunk completions on a large run
	// cannot flood the consumer. The final milestone always goes through.
	limiter *rate.Limiter
}

func NewBatchValidator(rv *RowValidator, cfg Config, log *zap.Logger, progress ProgressFunc) *BatchValidator {
	return &BatchValidator{
		rv:       rv,
		cfg:      cfg,
		log:      log,
		progress: progress,
		limiter:  rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// Validate returns exactly one output row per input row, in input order.
func (bv *BatchValidator) Validate(observations []dataset.Observation) []ValidatedObservation {
	groupSizes := countTimestampGroups(observations)

	bv.report(fmt.Sprintf("validating %d observations", len(observations)), true)

	var validated []ValidatedObservation
	if len(observations) < bv.cfg.ParallelRowThreshold {
		validated = bv.validateSequential(observations, groupSizes)
	} else {
		validated = bv.validateParallel(observations, groupSizes)
	}

	bv.report(fmt.Sprintf("validated %d observations", len(validated)), true)
	return validated
}

func (bv *BatchValidator) validateSequential(observations []dataset.Observation,
	groupSizes map[string]int) []ValidatedObservation {
	out := make([]ValidatedObservation, 0, len(observations))
	for _, obs := range observations {
		out = append(out, bv.validateOne(obs, groupSizes))
	}
	return out
}

func (bv *BatchValidator) validateParallel(observations []dataset.Observation,
	groupSizes map[string]int) []ValidatedObservation {
	chunks := concurrent.SplitIndexRange(len(observations), bv.cfg.ChunkSize)
	bv.log.Info("dispatching validation chunks",
		zap.Int("chunks", len(chunks)), zap.Int("workers", bv.cfg.NumWorkers))

	return concurrent.MapChunksOrdered(bv.cfg.NumWorkers, chunks,
		func(c concurrent.Chunk) []ValidatedObservation {
			out := make([]ValidatedObservation, 0, c.Len())
			for _, obs := range observations[c.Start:c.End] {
				out = append(out, bv.validateOne(obs, groupSizes))
			}
			return out
		},
		func(completed, total int) {
			bv.report(fmt.Sprintf("validated chunk %d/%d", completed, total), completed == total)
		})
}

func (bv *BatchValidator) validateOne(obs dataset.Observation,
	groupSizes map[string]int) ValidatedObservation {
	return ValidatedObservation{
		Observation: obs,
		Result:      bv.rv.Validate(obs, groupSizes[timestampGroupKey(obs)]),
	}
}

func (bv *BatchValidator) report(status string, force bool) {
	if bv.progress == nil {
		return
	}
	if !force && !bv.limiter.Allow() {
		return
	}
	bv.progress(status)
}

func timestampGroupKey(obs dataset.Observation) string {
	return obs.Name + "|" + obs.Timestamp.Format(time.RFC3339)
}

// countTimestampGroups precomputes how many route-alternative rows share
// each (link, timestamp) pair; the row validator needs the group size to
// pick between codes 1, 2 and 3. Rows without a timestamp cannot belong to
// an alternatives group, so they are not counted against each other.
func countTimestampGroups(observations []dataset.Observation) map[string]int {
	sizes := make(map[string]int, len(observations))
	for _, obs := range observations {
		if obs.Timestamp.IsZero() {
			continue
		}
		sizes[timestampGroupKey(obs)]++
	}
	return sizes
}
