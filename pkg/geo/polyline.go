package geo

import (
	"fmt"
	"math"

	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
	gopolyline "github.com/twpayne/go-polyline"
)

const DefaultPolylinePrecision = 5

func polylineCodec(precision int) gopolyline.Codec {
	return gopolyline.Codec{Dim: 2, Scale: math.Pow(10, float64(precision))}
}

// DecodePolyline decodes an encoded polyline string into coordinates.
// precision is the number of decimal digits encoded per coordinate
// (each unit = 10^-precision degrees). Malformed input returns an error,
// never a partial result.
func DecodePolyline(encoded string, precision int) ([]Coordinate, error) {
	if encoded == "" {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "empty polyline string")
	}
	if precision <= 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "polyline precision must be positive, got %d", precision)
	}

	codec := polylineCodec(precision)
	coords, rest, err := codec.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "malformed polyline %q", encoded)
	}
	if len(rest) != 0 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "trailing garbage after polyline %q", encoded)
	}

	out := make([]Coordinate, len(coords))
	for i, c := range coords {
		out[i] = NewCoordinate(c[0], c[1])
		if out[i].Lat < -90 || out[i].Lat > 90 || out[i].Lon < -180 || out[i].Lon > 180 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
				"decoded coordinate out of range: %v", out[i])
		}
	}
	return out, nil
}

// EncodePolyline is the inverse of DecodePolyline.
func EncodePolyline(coords []Coordinate, precision int) (string, error) {
	if precision <= 0 {
		return "", fmt.Errorf("polyline precision must be positive, got %d", precision)
	}
	codec := polylineCodec(precision)
	buf := make([]byte, 0, len(coords)*8)
	raw := make([][]float64, len(coords))
	for i, c := range coords {
		raw[i] = []float64{c.Lat, c.Lon}
	}
	return string(codec.EncodeCoords(buf, raw)), nil
}
