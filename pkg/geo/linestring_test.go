package geo

import (
	"math"
	"testing"
)

func horizontalLine(y float64, xs ...float64) LineString {
	points := make([]PlanarPoint, len(xs))
	for i, x := range xs {
		points[i] = NewPlanarPoint(x, y)
	}
	return NewLineString(points)
}

func TestLineStringLength(t *testing.T) {
	testCases := []struct {
		name     string
		line     LineString
		expected float64
	}{
		{name: "empty", line: NewLineString(nil), expected: 0},
		{name: "single point", line: horizontalLine(0, 5), expected: 0},
		{name: "straight segment", line: horizontalLine(0, 0, 100), expected: 100},
		{name: "two segments", line: horizontalLine(0, 0, 40, 100), expected: 100},
		{
			name: "right angle",
			line: NewLineString([]PlanarPoint{
				{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 40},
			}),
			expected: 70,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Length(); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected length %g, got %g", tt.expected, got)
			}
		})
	}
}

func TestLineStringIsDegenerate(t *testing.T) {
	if !NewLineString(nil).IsDegenerate() {
		t.Error("empty line should be degenerate")
	}
	if !horizontalLine(0, 5).IsDegenerate() {
		t.Error("single point should be degenerate")
	}
	if !NewLineString([]PlanarPoint{{X: 1, Y: 1}, {X: 1, Y: 1}}).IsDegenerate() {
		t.Error("zero length line should be degenerate")
	}
	if horizontalLine(0, 0, 100).IsDegenerate() {
		t.Error("straight segment should not be degenerate")
	}
}

func TestLineStringDistanceToPoint(t *testing.T) {
	line := horizontalLine(0, 0, 100)

	testCases := []struct {
		name     string
		p        PlanarPoint
		expected float64
	}{
		{name: "on the line", p: NewPlanarPoint(50, 0), expected: 0},
		{name: "perpendicular above", p: NewPlanarPoint(50, 10), expected: 10},
		{name: "perpendicular below", p: NewPlanarPoint(25, -7), expected: 7},
		{name: "beyond start clamps to endpoint", p: NewPlanarPoint(-30, 40), expected: 50},
		{name: "beyond end clamps to endpoint", p: NewPlanarPoint(103, 4), expected: 5},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := line.DistanceToPoint(tt.p); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("expected distance %g, got %g", tt.expected, got)
			}
		})
	}
}

func TestLineStringPointAt(t *testing.T) {
	line := NewLineString([]PlanarPoint{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50},
	})

	testCases := []struct {
		distance float64
		expected PlanarPoint
	}{
		{distance: -5, expected: PlanarPoint{X: 0, Y: 0}},
		{distance: 0, expected: PlanarPoint{X: 0, Y: 0}},
		{distance: 60, expected: PlanarPoint{X: 60, Y: 0}},
		{distance: 125, expected: PlanarPoint{X: 100, Y: 25}},
		{distance: 1000, expected: PlanarPoint{X: 100, Y: 50}},
	}

	for _, tt := range testCases {
		got := line.PointAt(tt.distance)
		if math.Abs(got.X-tt.expected.X) > 1e-9 || math.Abs(got.Y-tt.expected.Y) > 1e-9 {
			t.Errorf("PointAt(%g): expected %+v, got %+v", tt.distance, tt.expected, got)
		}
	}
}

func TestLineStringSample(t *testing.T) {
	line := horizontalLine(0, 0, 100)

	samples := line.Sample(25)
	if len(samples) == 0 {
		t.Fatal("expected samples")
	}
	first, last := samples[0], samples[len(samples)-1]
	if first.X != 0 || last.X != 100 {
		t.Errorf("samples must include both endpoints, got first %+v last %+v", first, last)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].X < samples[i-1].X {
			t.Errorf("samples out of order at %d: %+v after %+v", i, samples[i], samples[i-1])
		}
	}

	if got := line.Sample(0); got != nil {
		t.Errorf("non positive spacing should return nil, got %v", got)
	}
	if got := NewLineString(nil).Sample(10); got != nil {
		t.Errorf("degenerate line should return nil samples, got %v", got)
	}
}
