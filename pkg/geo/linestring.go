package geo

import (
	"math"
)

type PlanarPoint struct {
	X float64
	Y float64
}

func NewPlanarPoint(x, y float64) PlanarPoint {
	return PlanarPoint{X: x, Y: y}
}

// LineString is an ordered polyline in a planar metric CRS (units = meters).
type LineString struct {
	points []PlanarPoint
}

func NewLineString(points []PlanarPoint) LineString {
	return LineString{points: points}
}

func (ls LineString) Points() []PlanarPoint {
	return ls.points
}

func (ls LineString) NumPoints() int {
	return len(ls.points)
}

// IsDegenerate reports whether the line cannot support distance or length
// computation (fewer than 2 points, or zero total length).
func (ls LineString) IsDegenerate() bool {
	return len(ls.points) < 2 || ls.Length() == 0
}

func planarDist(a, b PlanarPoint) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (ls LineString) Length() float64 {
	total := 0.0
	for i := 1; i < len(ls.points); i++ {
		total += planarDist(ls.points[i-1], ls.points[i])
	}
	return total
}

// pointSegmentDistance. perpendicular distance from p to segment [a,b],
// clamped to the segment endpoints.
func pointSegmentDistance(p, a, b PlanarPoint) float64 {
	d2 := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	if d2 == 0 {
		return planarDist(p, a)
	}
	t := ((p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)) / d2
	if t < 0 {
		return planarDist(p, a)
	} else if t > 1 {
		return planarDist(p, b)
	}
	proj := NewPlanarPoint(a.X+t*(b.X-a.X), a.Y+t*(b.Y-a.Y))
	return planarDist(p, proj)
}

// DistanceToPoint returns the minimum distance from p to any segment of the line.
func (ls LineString) DistanceToPoint(p PlanarPoint) float64 {
	if len(ls.points) == 0 {
		return math.Inf(1)
	}
	if len(ls.points) == 1 {
		return planarDist(p, ls.points[0])
	}
	minDist := math.Inf(1)
	for i := 1; i < len(ls.points); i++ {
		d := pointSegmentDistance(p, ls.points[i-1], ls.points[i])
		if d < minDist {
			minDist = d
		}
	}
	return minDist
}

// PointAt returns the point at the given distance along the line, measured
// from the first vertex. Distances beyond either end clamp to the endpoints.
func (ls LineString) PointAt(distance float64) PlanarPoint {
	if len(ls.points) == 0 {
		return PlanarPoint{}
	}
	if distance <= 0 {
		return ls.points[0]
	}
	walked := 0.0
	for i := 1; i < len(ls.points); i++ {
		seg := planarDist(ls.points[i-1], ls.points[i])
		if walked+seg >= distance && seg > 0 {
			t := (distance - walked) / seg
			a, b := ls.points[i-1], ls.points[i]
			return NewPlanarPoint(a.X+t*(b.X-a.X), a.Y+t*(b.Y-a.Y))
		}
		walked += seg
	}
	return ls.points[len(ls.points)-1]
}

// Sample returns points spaced `spacing` meters apart along the line,
// always including both endpoints.
func (ls LineString) Sample(spacing float64) []PlanarPoint {
	if len(ls.points) < 2 || spacing <= 0 {
		return nil
	}
	length := ls.Length()
	if length == 0 {
		return nil
	}
	n := int(math.Floor(length/spacing)) + 1
	samples := make([]PlanarPoint, 0, n+1)
	for d := 0.0; d < length; d += spacing {
		samples = append(samples, ls.PointAt(d))
	}
	samples = append(samples, ls.points[len(ls.points)-1])
	return samples
}
