package validation

import (
	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	LengthModeRatio = "ratio"
	LengthModeExact = "exact"
)

// Config is the immutable parameter bundle of one validation run. Checked
// once before any row is processed; an invalid configuration is fatal,
// per-row trouble never is.
type Config struct {
	UseHausdorff        bool    `mapstructure:"use_hausdorff"`
	HausdorffThresholdM float64 `mapstructure:"hausdorff_threshold_m" validate:"gte=0"`

	UseLengthCheck  bool    `mapstructure:"use_length_check"`
	LengthCheckMode string  `mapstructure:"length_check_mode" validate:"oneof=ratio exact"`
	LengthRatioMin  float64 `mapstructure:"length_ratio_min" validate:"gt=0"`
	LengthRatioMax  float64 `mapstructure:"length_ratio_max" validate:"gt=0"`
	EpsilonLengthM  float64 `mapstructure:"epsilon_length_m" validate:"gte=0"`
	MinLinkLengthM  float64 `mapstructure:"min_link_length_m" validate:"gte=0"`

	UseCoverageCheck bool    `mapstructure:"use_coverage_check"`
	CoverageMin      float64 `mapstructure:"coverage_min" validate:"gte=0,lte=1"`
	CoverageSpacingM float64 `mapstructure:"coverage_spacing_m" validate:"gt=0"`
	CoverageBufferM  float64 `mapstructure:"coverage_buffer_m" validate:"gt=0"`

	CRSMetric         string `mapstructure:"crs_metric"`
	PolylinePrecision int    `mapstructure:"polyline_precision" validate:"gte=1,lte=9"`

	// ParallelRowThreshold is the table size at which the batch validator
	// switches from the sequential baseline to the worker pool.
	ParallelRowThreshold int `mapstructure:"parallel_row_threshold" validate:"gt=0"`
	ChunkSize            int `mapstructure:"chunk_size" validate:"gt=0"`
	NumWorkers           int `mapstructure:"num_workers" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		UseHausdorff:         true,
		HausdorffThresholdM:  15.0,
		UseLengthCheck:       true,
		LengthCheckMode:      LengthModeRatio,
		LengthRatioMin:       0.9,
		LengthRatioMax:       1.1,
		EpsilonLengthM:       1.0,
		MinLinkLengthM:       25.0,
		UseCoverageCheck:     false,
		CoverageMin:          0.9,
		CoverageSpacingM:     10.0,
		CoverageBufferM:      10.0,
		CRSMetric:            geo.DefaultMetricCRS,
		PolylinePrecision:    geo.DefaultPolylinePrecision,
		ParallelRowThreshold: 5000,
		ChunkSize:            1000,
		NumWorkers:           0, // 0 = one worker per CPU
	}
}

// ConfigFromViper overlays config-file values onto the defaults.
func ConfigFromViper() (Config, error) {
	cfg := DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, util.WrapErrorf(err, util.ErrBadParamInput, "cannot unmarshal validation config")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "invalid validation config")
	}
	if c.LengthRatioMin > c.LengthRatioMax {
		return util.WrapErrorf(nil, util.ErrBadParamInput,
			"length_ratio_min %f exceeds length_ratio_max %f", c.LengthRatioMin, c.LengthRatioMax)
	}
	if _, err := geo.NewProjector(c.CRSMetric); err != nil {
		return err
	}
	return nil
}
