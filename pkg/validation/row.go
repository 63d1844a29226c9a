package validation

import (
	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
	"github.com/MOTRoundTables/google-control-sub000/pkg/spatialindex"
	"go.uber.org/zap"
)

// Result is the validation outcome attached to one observation. Created
// once, never recomputed in place.
type Result struct {
	IsValid     bool
	Code        Code
	Diagnostics TestDiagnostics
	// NearestLink is a best-effort hint filled only for code 92 rows whose
	// polyline still decodes: the reference link geometrically closest to
	// the candidate geometry.
	NearestLink string
}

// ValidatedObservation is the input row enriched with its validation result.
type ValidatedObservation struct {
	dataset.Observation
	Result
}

// RowValidator evaluates the fixed-priority decision tree over one
// observation. It never mutates the reference table.
type RowValidator struct {
	cfg       Config
	refs      *dataset.ReferenceTable
	projector *geo.Projector
	battery   *Battery
	index     *spatialindex.Rtree
	log       *zap.Logger
}

// NewRowValidator fails fast on configuration problems (unknown CRS,
// inconsistent thresholds) so that no partially-validated table can exist.
// index may be nil to disable nearest-link hints.
func NewRowValidator(cfg Config, refs *dataset.ReferenceTable,
	index *spatialindex.Rtree, log *zap.Logger) (*RowValidator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	projector, err := geo.NewProjector(cfg.CRSMetric)
	if err != nil {
		return nil, err
	}
	return &RowValidator{
		cfg:       cfg,
		refs:      refs,
		projector: projector,
		battery:   NewBattery(cfg),
		index:     index,
		log:       log,
	}, nil
}

// Validate runs the decision tree, first match wins. groupSize is the number
// of rows sharing this observation's link name and timestamp (route
// alternatives); it only affects the descriptive codes 1/2/3, never IsValid.
func (rv *RowValidator) Validate(obs dataset.Observation, groupSize int) (res Result) {
	// One malformed row must never abort the batch: anything the geometry
	// code throws is converted into a per-row failure.
	defer func() {
		if r := recover(); r != nil {
			rv.log.Warn("row validation panicked",
				zap.Int("row", obs.Index), zap.Any("panic", r))
			res = Result{IsValid: false, Code: CodePolylineDecodeFailure, Diagnostics: newTestDiagnostics()}
		}
	}()

	res.Diagnostics = newTestDiagnostics()

	if obs.Name == "" || obs.Polyline == "" {
		res.Code = CodeMissingRequiredFields
		return res
	}

	from, to, err := dataset.ParseLinkName(obs.Name)
	if err != nil {
		res.Code = CodeNameParseFailure
		return res
	}

	link, ok := rv.refs.Lookup(dataset.LinkKey(from, to))
	if !ok {
		res.Code = CodeLinkNotFound
		res.NearestLink = rv.nearestLinkHint(obs)
		return res
	}

	coords, err := geo.DecodePolyline(obs.Polyline, rv.cfg.PolylinePrecision)
	if err != nil || len(coords) < 2 {
		res.Code = CodePolylineDecodeFailure
		return res
	}

	res.Code = multiplicityCode(groupSize, obs.RouteAlternative)

	// Both geometries are projected about the same anchor so their planar
	// coordinates are directly comparable.
	anchor := geo.CentroidOf(link.Geometry)
	reference, err := rv.projector.ProjectLine(anchor, link.Geometry)
	if err != nil {
		res.IsValid = false
		return res
	}
	candidate, err := rv.projector.ProjectLine(anchor, coords)
	if err != nil {
		res.IsValid = false
		return res
	}

	res.IsValid, res.Diagnostics = rv.battery.Run(candidate, reference)
	return res
}

func (rv *RowValidator) nearestLinkHint(obs dataset.Observation) string {
	if rv.index == nil {
		return ""
	}
	coords, err := geo.DecodePolyline(obs.Polyline, rv.cfg.PolylinePrecision)
	if err != nil || len(coords) == 0 {
		return ""
	}
	key, ok := rv.index.NearestLink(geo.CentroidOf(coords))
	if !ok {
		return ""
	}
	return key
}
