package geo

import (
	"math"
	"testing"
)

func TestNewProjector(t *testing.T) {
	for _, crs := range []string{CRSIsraeliTM, CRSWebMercator, CRSLocal} {
		if _, err := NewProjector(crs); err != nil {
			t.Errorf("%s: unexpected error %v", crs, err)
		}
	}
	if _, err := NewProjector("EPSG:9999"); err == nil {
		t.Error("expected error for unsupported CRS")
	}
}

func TestProjectLineDegenerate(t *testing.T) {
	projector, err := NewProjector(CRSLocal)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	anchor := NewCoordinate(32.08, 34.78)

	if _, err := projector.ProjectLine(anchor, nil); err == nil {
		t.Error("expected error for empty geometry")
	}
	if _, err := projector.ProjectLine(anchor, []Coordinate{anchor}); err == nil {
		t.Error("expected error for single point geometry")
	}
}

// Planar distance after projection should agree with haversine distance to
// within a fraction of a percent at link scale, for every supported CRS.
func TestProjectionPreservesLinkScaleDistance(t *testing.T) {
	a := NewCoordinate(32.08000, 34.78000)
	b := NewCoordinate(32.08300, 34.78240)
	anchor := CentroidOf([]Coordinate{a, b})
	want := HaversineDistanceM(a, b)

	for _, crs := range []string{CRSIsraeliTM, CRSWebMercator, CRSLocal} {
		projector, err := NewProjector(crs)
		if err != nil {
			t.Fatalf("%s: %v", crs, err)
		}
		line, err := projector.ProjectLine(anchor, []Coordinate{a, b})
		if err != nil {
			t.Fatalf("%s: %v", crs, err)
		}
		got := line.Length()
		if relErr := math.Abs(got-want) / want; relErr > 0.005 {
			t.Errorf("%s: planar %.2fm vs haversine %.2fm (rel err %.4f)", crs, got, want, relErr)
		}
	}
}

// Known reference point for the Israeli TM grid: the projection of the grid
// origin must land on the false easting and northing.
func TestIsraeliTMOrigin(t *testing.T) {
	projector, err := NewProjector(CRSIsraeliTM)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	origin := NewCoordinate(itmLat0, itmLon0)
	line, err := projector.ProjectLine(origin, []Coordinate{origin, NewCoordinate(itmLat0+0.001, itmLon0)})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	got := line.Points()[0]
	if math.Abs(got.X-itmFE) > 0.01 || math.Abs(got.Y-itmFN) > 0.01 {
		t.Errorf("grid origin projected to (%.3f, %.3f), expected (%.3f, %.3f)",
			got.X, got.Y, itmFE, itmFN)
	}
}
