package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
	"github.com/dsnet/compress/bzip2"
)

// OpenFile opens a table file for reading, transparently decompressing
// files with a .bz2 suffix.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".bz2") {
		return f, nil
	}
	bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
	if err != nil {
		f.Close()
		return nil, err
	}
	return &bz2ReadCloser{bz: bz, f: f}, nil
}

type bz2ReadCloser struct {
	bz *bzip2.Reader
	f  *os.File
}

func (r *bz2ReadCloser) Read(p []byte) (int, error) {
	return r.bz.Read(p)
}

func (r *bz2ReadCloser) Close() error {
	if err := r.bz.Close(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

// CreateFile opens a table file for writing, transparently compressing when
// the path carries a .bz2 suffix.
func CreateFile(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".bz2") {
		return f, nil
	}
	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		f.Close()
		return nil, err
	}
	return &bz2WriteCloser{bz: bz, f: f}, nil
}

type bz2WriteCloser struct {
	bz *bzip2.Writer
	f  *os.File
}

func (w *bz2WriteCloser) Write(p []byte) (int, error) {
	return w.bz.Write(p)
}

func (w *bz2WriteCloser) Close() error {
	if err := w.bz.Close(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// headerIndex maps normalized column names to their position. Field-name
// resolution happens exactly once per table, at ingestion; everything
// downstream works on canonical structs.
type headerIndex map[string]int

func resolveHeader(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, name := range header {
		idx[util.TrimLower(name)] = i
	}
	return idx
}

func (h headerIndex) col(record []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (h headerIndex) has(name string) bool {
	_, ok := h[name]
	return ok
}

// ReadObservations loads the observation table from a CSV file. Recognized
// columns (either capitalization): Name, Timestamp, RequestedTime,
// RouteAlternative, Polyline. Rows keep their file order as Index.
func ReadObservations(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "observation table has no header")
	}
	idx := resolveHeader(header)
	if !idx.has("name") || !idx.has("polyline") {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"observation table missing Name or Polyline column")
	}

	var observations []Observation
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "observation table row %d unreadable", len(observations)+1)
		}

		ts, err := parseTimestamp(idx.col(record, "timestamp"))
		if err != nil {
			return nil, err
		}
		reqTs, err := parseTimestamp(firstNonEmpty(
			idx.col(record, "requestedtime"), idx.col(record, "requested_time")))
		if err != nil {
			return nil, err
		}

		routeAlt := 1
		if raw := firstNonEmpty(idx.col(record, "routealternative"), idx.col(record, "route_alternative")); raw != "" {
			routeAlt, err = strconv.Atoi(raw)
			if err != nil || routeAlt < 1 {
				return nil, util.WrapErrorf(err, util.ErrBadParamInput,
					"route alternative %q on row %d is not a positive integer", raw, len(observations)+1)
			}
		}

		observations = append(observations, Observation{
			Index:            len(observations),
			Name:             idx.col(record, "name"),
			Timestamp:        ts,
			RequestedTime:    reqTs,
			RouteAlternative: routeAlt,
			Polyline:         idx.col(record, "polyline"),
		})
	}
	return observations, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ReadReferenceLinks loads the reference geometry table from a CSV file with
// From, To and a geometry column. The geometry column holds either a WKT
// LINESTRING (lon lat pairs) or an encoded polyline at the given precision.
// A table missing From or To is a fatal error, surfaced before any row of
// the observation table is validated.
func ReadReferenceLinks(r io.Reader, polylinePrecision int) (*ReferenceTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "reference table has no header")
	}
	idx := resolveHeader(header)
	if !idx.has("from") || !idx.has("to") {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "reference table missing From/To columns")
	}
	geomCol := ""
	for _, cand := range []string{"geometry", "polyline", "wkt"} {
		if idx.has(cand) {
			geomCol = cand
			break
		}
	}
	if geomCol == "" {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "reference table missing geometry column")
	}

	var links []ReferenceLink
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "reference table row %d unreadable", row+1)
		}
		row++

		from, err := strconv.ParseInt(idx.col(record, "from"), 10, 64)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "reference table row %d has non-numeric From", row)
		}
		to, err := strconv.ParseInt(idx.col(record, "to"), 10, 64)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "reference table row %d has non-numeric To", row)
		}

		rawGeom := idx.col(record, geomCol)
		coords, err := parseGeometry(rawGeom, polylinePrecision)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "reference link s_%d-%d has invalid geometry", from, to)
		}

		links = append(links, ReferenceLink{From: from, To: to, Geometry: coords})
	}
	return NewReferenceTable(links)
}

func parseGeometry(raw string, polylinePrecision int) ([]geo.Coordinate, error) {
	if strings.HasPrefix(strings.ToUpper(raw), "LINESTRING") {
		return parseWKTLineString(raw)
	}
	return geo.DecodePolyline(raw, polylinePrecision)
}

// parseWKTLineString parses "LINESTRING (lon lat, lon lat, ...)".
func parseWKTLineString(raw string) ([]geo.Coordinate, error) {
	open := strings.Index(raw, "(")
	close := strings.LastIndex(raw, ")")
	if open < 0 || close < open {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "malformed WKT %q", raw)
	}
	body := raw[open+1 : close]
	pairs := strings.Split(body, ",")
	coords := make([]geo.Coordinate, 0, len(pairs))
	for _, pair := range pairs {
		fields := strings.Fields(strings.TrimSpace(pair))
		if len(fields) < 2 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "malformed WKT point %q", pair)
		}
		lon, err := util.StringToFloat64(fields[0])
		if err != nil {
			return nil, err
		}
		lat, err := util.StringToFloat64(fields[1])
		if err != nil {
			return nil, err
		}
		coords = append(coords, geo.NewCoordinate(lat, lon))
	}
	return coords, nil
}
