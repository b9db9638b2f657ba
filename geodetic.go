package giscore

// Geodetic2DPoint is a longitude/latitude pair in WGS-84 decimal degrees.
type Geodetic2DPoint struct {
	Longitude float64
	Latitude  float64
}

// Geodetic3DPoint adds an altitude in meters to a Geodetic2DPoint.
// HasAltitude distinguishes a point whose source actually carried an
// altitude component (a shapefile PointZ vertex, a KML coordinate tuple
// with a 3rd component) from one where Altitude is merely a zero-valued
// placeholder because the source format or record never supplied one.
type Geodetic3DPoint struct {
	Geodetic2DPoint
	Altitude    float64
	HasAltitude bool
}

// NewGeodetic2DPoint validates lon/lat and constructs a point, or returns
// ErrInvalidCoordinate if either is out of range.
func NewGeodetic2DPoint(lon, lat float64) (Geodetic2DPoint, error) {
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return Geodetic2DPoint{}, &ErrInvalidCoordinate{Lon: lon, Lat: lat}
	}
	return Geodetic2DPoint{Longitude: lon, Latitude: lat}, nil
}

// NewGeodetic3DPoint validates lon/lat and constructs a 3D point. hasAltitude
// must reflect whether alt was actually supplied by the source record, not
// merely defaulted to 0 — it drives Is3D.
func NewGeodetic3DPoint(lon, lat, alt float64, hasAltitude bool) (Geodetic3DPoint, error) {
	p2, err := NewGeodetic2DPoint(lon, lat)
	if err != nil {
		return Geodetic3DPoint{}, err
	}
	return Geodetic3DPoint{Geodetic2DPoint: p2, Altitude: alt, HasAltitude: hasAltitude}, nil
}

// Is3D reports whether p carries a real, source-supplied altitude component.
func (p Geodetic3DPoint) Is3D() bool { return p.HasAltitude }

// Bounds is an axis-aligned bounding box in geographic degrees.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Contains reports whether p falls within b, inclusive of the boundary.
func (b Bounds) Contains(p Geodetic2DPoint) bool {
	return p.Longitude >= b.MinLon && p.Longitude <= b.MaxLon &&
		p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinLon: min(b.MinLon, o.MinLon),
		MinLat: min(b.MinLat, o.MinLat),
		MaxLon: max(b.MaxLon, o.MaxLon),
		MaxLat: max(b.MaxLat, o.MaxLat),
	}
}

// BoundsFromPoints computes the bounding box of a non-empty point slice.
func BoundsFromPoints(pts []Geodetic2DPoint) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{MinLon: pts[0].Longitude, MaxLon: pts[0].Longitude, MinLat: pts[0].Latitude, MaxLat: pts[0].Latitude}
	for _, p := range pts[1:] {
		b.MinLon = min(b.MinLon, p.Longitude)
		b.MaxLon = max(b.MaxLon, p.Longitude)
		b.MinLat = min(b.MinLat, p.Latitude)
		b.MaxLat = max(b.MaxLat, p.Latitude)
	}
	return b
}
