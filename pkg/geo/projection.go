package geo

import (
	"math"

	"github.com/MOTRoundTables/google-control-sub000/pkg/util"
)

// Supported metric CRS targets. Geographic input is always WGS84 (EPSG:4326).
const (
	CRSIsraeliTM   = "EPSG:2039" // Israeli Transverse Mercator grid
	CRSWebMercator = "EPSG:3857" // spherical web mercator, anchor-scale corrected
	CRSLocal       = "local"     // equirectangular about the anchor point

	DefaultMetricCRS = CRSIsraeliTM
)

// Projector reprojects WGS84 coordinates into a planar metric CRS so that
// euclidean distances approximate true meters at link scale. The anchor
// coordinate parameterizes the local scale correction; callers must project
// every geometry of one comparison with the same anchor.
type Projector struct {
	crs string
}

func NewProjector(crs string) (*Projector, error) {
	switch crs {
	case CRSIsraeliTM, CRSWebMercator, CRSLocal:
		return &Projector{crs: crs}, nil
	}
	return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "unsupported metric CRS %q", crs)
}

func (p *Projector) CRS() string {
	return p.crs
}

// ProjectLine projects the coordinates into the target CRS. Fewer than 2
// points is a degenerate geometry and yields an error, not a panic.
func (p *Projector) ProjectLine(anchor Coordinate, coords []Coordinate) (LineString, error) {
	if len(coords) < 2 {
		return LineString{}, util.WrapErrorf(nil, util.ErrBadParamInput,
			"cannot project degenerate geometry with %d points", len(coords))
	}

	points := make([]PlanarPoint, len(coords))
	for i, c := range coords {
		points[i] = p.projectPoint(anchor, c)
	}
	return NewLineString(points), nil
}

func (p *Projector) projectPoint(anchor, c Coordinate) PlanarPoint {
	switch p.crs {
	case CRSWebMercator:
		return webMercator(anchor, c)
	case CRSLocal:
		return localEquirectangular(anchor, c)
	default:
		return israeliTM(c)
	}
}

// webMercator projects to spherical web mercator and rescales both axes by
// cos(anchor latitude), so planar distances near the anchor read in meters.
func webMercator(anchor, c Coordinate) PlanarPoint {
	k := math.Cos(util.DegreeToRadians(anchor.Lat))
	x := earthRadiusM * util.DegreeToRadians(c.Lon) * k
	y := earthRadiusM * math.Log(math.Tan(math.Pi/4+util.DegreeToRadians(c.Lat)/2)) * k
	return NewPlanarPoint(x, y)
}

func localEquirectangular(anchor, c Coordinate) PlanarPoint {
	x := earthRadiusM * util.DegreeToRadians(c.Lon-anchor.Lon) * math.Cos(util.DegreeToRadians(anchor.Lat))
	y := earthRadiusM * util.DegreeToRadians(c.Lat-anchor.Lat)
	return NewPlanarPoint(x, y)
}

// EPSG:2039 projection parameters (GRS80 ellipsoid, Israeli TM Grid).
const (
	grs80A  = 6378137.0
	grs80F  = 1.0 / 298.257222101
	itmK0   = 1.0000067
	itmLat0 = 31.734393611111109
	itmLon0 = 35.204516944444445
	itmFE   = 219529.584
	itmFN   = 626907.390
)

// israeliTM implements the transverse mercator forward projection with the
// Ordnance Survey series expansion, which is accurate to well under a
// millimeter within the grid's extent.
func israeliTM(c Coordinate) PlanarPoint {
	a := grs80A
	b := a * (1 - grs80F)
	e2 := (a*a - b*b) / (a * a)
	n := (a - b) / (a + b)

	lat := util.DegreeToRadians(c.Lat)
	lon := util.DegreeToRadians(c.Lon)
	lat0 := util.DegreeToRadians(itmLat0)
	lon0 := util.DegreeToRadians(itmLon0)

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	nu := a * itmK0 / math.Sqrt(1-e2*sinLat*sinLat)
	rho := a * itmK0 * (1 - e2) / math.Pow(1-e2*sinLat*sinLat, 1.5)
	eta2 := nu/rho - 1

	m := b * itmK0 * ((1+n+1.25*n*n+1.25*n*n*n)*(lat-lat0) -
		(3*n+3*n*n+2.625*n*n*n)*math.Sin(lat-lat0)*math.Cos(lat+lat0) +
		(1.875*n*n+1.875*n*n*n)*math.Sin(2*(lat-lat0))*math.Cos(2*(lat+lat0)) -
		(35.0/24.0)*n*n*n*math.Sin(3*(lat-lat0))*math.Cos(3*(lat+lat0)))

	termI := m + itmFN
	termII := nu / 2 * sinLat * cosLat
	termIII := nu / 24 * sinLat * math.Pow(cosLat, 3) * (5 - tanLat*tanLat + 9*eta2)
	termIIIA := nu / 720 * sinLat * math.Pow(cosLat, 5) *
		(61 - 58*tanLat*tanLat + math.Pow(tanLat, 4))
	termIV := nu * cosLat
	termV := nu / 6 * math.Pow(cosLat, 3) * (nu/rho - tanLat*tanLat)
	termVI := nu / 120 * math.Pow(cosLat, 5) *
		(5 - 18*tanLat*tanLat + math.Pow(tanLat, 4) + 14*eta2 - 58*tanLat*tanLat*eta2)

	dl := lon - lon0
	northing := termI + termII*dl*dl + termIII*math.Pow(dl, 4) + termIIIA*math.Pow(dl, 6)
	easting := itmFE + termIV*dl + termV*math.Pow(dl, 3) + termVI*math.Pow(dl, 5)

	return NewPlanarPoint(easting, northing)
}
