package spatialindex

import (
	"math"

	"github.com/MOTRoundTables/google-control-sub000/pkg/dataset"
	"github.com/MOTRoundTables/google-control-sub000/pkg/geo"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

// Rtree indexes reference-link bounding boxes in (lon, lat) order. Used to
// suggest the nearest reference link for observations whose link name has no
// match in the reference table.
type Rtree struct {
	tr *rtree.RTreeG[LinkEntry]
}

type LinkEntry struct {
	key      string
	geometry []geo.Coordinate
}

func (le LinkEntry) GetKey() string {
	return le.key
}

func NewRtree() *Rtree {
	var tr rtree.RTreeG[LinkEntry]
	return &Rtree{
		tr: &tr,
	}
}

// Build inserts one bounding box per reference link.
func (rt *Rtree) Build(links []dataset.ReferenceLink, log *zap.Logger) {
	log.Info("Building reference link R-tree index...", zap.Int("links", len(links)))
	for _, link := range links {
		if len(link.Geometry) == 0 {
			continue
		}
		minLon, minLat := math.Inf(1), math.Inf(1)
		maxLon, maxLat := math.Inf(-1), math.Inf(-1)
		for _, c := range link.Geometry {
			minLon = math.Min(minLon, c.Lon)
			minLat = math.Min(minLat, c.Lat)
			maxLon = math.Max(maxLon, c.Lon)
			maxLat = math.Max(maxLat, c.Lat)
		}
		rt.tr.Insert([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat},
			LinkEntry{key: link.Key(), geometry: link.Geometry})
	}
}

// NearestLink returns the key of the reference link geometrically nearest to
// the coordinate, refining the box-distance candidates with the true
// point-to-segment distance.
func (rt *Rtree) NearestLink(c geo.Coordinate) (string, bool) {
	const maxCandidates = 8

	bestKey := ""
	bestDist := math.Inf(1)
	seen := 0
	point := [2]float64{c.Lon, c.Lat}
	rt.tr.Nearby(
		rtree.BoxDist[float64, LinkEntry](point, point, nil),
		func(min, max [2]float64, entry LinkEntry, dist float64) bool {
			d := distanceToLink(c, entry.geometry)
			if d < bestDist {
				bestDist = d
				bestKey = entry.key
			}
			seen++
			return seen < maxCandidates
		},
	)
	return bestKey, bestKey != ""
}

func distanceToLink(c geo.Coordinate, geometry []geo.Coordinate) float64 {
	if len(geometry) == 1 {
		return geo.HaversineDistanceM(c, geometry[0])
	}
	best := math.Inf(1)
	for i := 1; i < len(geometry); i++ {
		d := geo.PointLinePerpendicularDistance(geometry[i-1], geometry[i], c)
		if d < best {
			best = d
		}
	}
	return best
}
