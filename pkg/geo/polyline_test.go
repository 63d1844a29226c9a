package geo

import (
	"math"
	"testing"
)

func coordsEqual(a, b Coordinate, tol float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tol && math.Abs(a.Lon-b.Lon) <= tol
}

func TestDecodePolyline(t *testing.T) {
	testCases := []struct {
		name      string
		encoded   string
		precision int
		expected  []Coordinate
	}{
		{
			name:      "single point",
			encoded:   "_p~iF~ps|U",
			precision: 5,
			expected:  []Coordinate{{Lat: 38.5, Lon: -120.2}},
		},
		{
			name:      "three points",
			encoded:   "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			precision: 5,
			expected: []Coordinate{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePolyline(tt.encoded, tt.precision)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d coordinates, got %d", len(tt.expected), len(got))
			}
			for i := range got {
				if !coordsEqual(got[i], tt.expected[i], 1e-5) {
					t.Errorf("coordinate %d: expected %+v, got %+v", i, tt.expected[i], got[i])
				}
			}
		})
	}
}

func TestDecodePolylineErrors(t *testing.T) {
	testCases := []struct {
		name      string
		encoded   string
		precision int
	}{
		{name: "empty string", encoded: "", precision: 5},
		{name: "zero precision", encoded: "_p~iF~ps|U", precision: 0},
		{name: "truncated payload", encoded: "_p~iF~", precision: 5},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePolyline(tt.encoded, tt.precision); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}

func TestPolylineRoundTrip(t *testing.T) {
	coords := []Coordinate{
		NewCoordinate(32.08000, 34.78000),
		NewCoordinate(32.08100, 34.78060),
		NewCoordinate(32.08210, 34.78130),
	}

	for _, precision := range []int{5, 6} {
		encoded, err := EncodePolyline(coords, precision)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		decoded, err := DecodePolyline(encoded, precision)
		if err != nil {
			t.Fatalf("err: %v", err)
		}
		if len(decoded) != len(coords) {
			t.Fatalf("round trip changed point count: %d != %d", len(decoded), len(coords))
		}
		for i := range coords {
			if !coordsEqual(coords[i], decoded[i], math.Pow(10, -float64(precision))/2) {
				t.Errorf("precision %d point %d: expected %+v, got %+v",
					precision, i, coords[i], decoded[i])
			}
		}
	}
}
