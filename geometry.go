package giscore

// GeometryType tags the concrete shape carried by a Geometry value.
type GeometryType int

const (
	GeometryNone GeometryType = iota
	GeometryPoint
	GeometryLine
	GeometryLinearRing
	GeometryPolygon
	GeometryMultiPoint
	GeometryMultiLine
	GeometryMultiPolygons
	GeometryBag
	GeometryModel
)

func (t GeometryType) String() string {
	switch t {
	case GeometryPoint:
		return "Point"
	case GeometryLine:
		return "Line"
	case GeometryLinearRing:
		return "LinearRing"
	case GeometryPolygon:
		return "Polygon"
	case GeometryMultiPoint:
		return "MultiPoint"
	case GeometryMultiLine:
		return "MultiLine"
	case GeometryMultiPolygons:
		return "MultiPolygons"
	case GeometryBag:
		return "GeometryBag"
	case GeometryModel:
		return "Model"
	default:
		return "None"
	}
}

// AltitudeMode mirrors the KML altitudeMode enumeration; shapefile geometries
// always carry AltitudeClamp.
type AltitudeMode int

const (
	AltitudeClamp AltitudeMode = iota
	AltitudeRelative
	AltitudeAbsolute
)

// Attrs holds the attributes common to every Geometry variant.
type Attrs struct {
	AltitudeMode AltitudeMode
	Tessellate   bool
	Extrude      bool
}

// Geometry is a tagged-variant geometry value. Exactly one of the typed
// fields is populated according to Type; the rest are zero. This mirrors the
// design note's preference for a tagged variant over a class hierarchy while
// keeping a small accessor surface (NumPoints, Is3D, BoundingBox).
type Geometry struct {
	Type  GeometryType
	Attrs Attrs

	Point  *Geodetic3DPoint  // GeometryPoint
	Points []Geodetic3DPoint // GeometryLine, GeometryLinearRing, GeometryMultiPoint

	Outer  *Geometry   // GeometryPolygon: the outer LinearRing
	Inners []*Geometry // GeometryPolygon: inner LinearRings, CCW

	Parts []*Geometry // GeometryMultiLine, GeometryMultiPolygons, GeometryBag

	Location   *Geodetic3DPoint // GeometryModel
	ModelScale [3]float64       // GeometryModel
	ModelHeading float64        // GeometryModel
}

// NumPoints returns the total number of vertices in g: a Polygon counts its
// outer and inner rings, and a collection sums NumPoints over its Parts.
func (g *Geometry) NumPoints() int {
	if g == nil {
		return 0
	}
	switch g.Type {
	case GeometryPoint:
		if g.Point != nil {
			return 1
		}
		return 0
	case GeometryLine, GeometryLinearRing, GeometryMultiPoint:
		return len(g.Points)
	case GeometryPolygon:
		n := g.Outer.NumPoints()
		for _, inner := range g.Inners {
			n += inner.NumPoints()
		}
		return n
	default:
		n := 0
		for _, p := range g.Parts {
			n += p.NumPoints()
		}
		return n
	}
}

// Is3D reports whether any vertex in g carries a real, source-supplied
// altitude (Geodetic3DPoint.HasAltitude), not merely a zero placeholder.
func (g *Geometry) Is3D() bool {
	if g == nil {
		return false
	}
	if g.Point != nil && g.Point.Is3D() {
		return true
	}
	for _, p := range g.Points {
		if p.Is3D() {
			return true
		}
	}
	if g.Outer != nil && g.Outer.Is3D() {
		return true
	}
	for _, inner := range g.Inners {
		if inner.Is3D() {
			return true
		}
	}
	if g.Location != nil && g.Location.Is3D() {
		return true
	}
	for _, p := range g.Parts {
		if p.Is3D() {
			return true
		}
	}
	return false
}

// BoundingBox computes g's axis-aligned bounding box.
func (g *Geometry) BoundingBox() Bounds {
	var pts []Geodetic2DPoint
	g.collect(&pts)
	return BoundsFromPoints(pts)
}

func (g *Geometry) collect(out *[]Geodetic2DPoint) {
	if g == nil {
		return
	}
	if g.Point != nil {
		*out = append(*out, g.Point.Geodetic2DPoint)
	}
	for _, p := range g.Points {
		*out = append(*out, p.Geodetic2DPoint)
	}
	if g.Outer != nil {
		g.Outer.collect(out)
	}
	for _, inner := range g.Inners {
		inner.collect(out)
	}
	for _, p := range g.Parts {
		p.collect(out)
	}
	if g.Location != nil {
		*out = append(*out, g.Location.Geodetic2DPoint)
	}
}

// GeometryVisitor receives a typed callback per concrete Geometry variant,
// per the design note's accept(visitor) suggestion.
type GeometryVisitor interface {
	VisitPoint(*Geometry)
	VisitLine(*Geometry)
	VisitLinearRing(*Geometry)
	VisitPolygon(*Geometry)
	VisitMultiPoint(*Geometry)
	VisitMultiLine(*Geometry)
	VisitMultiPolygons(*Geometry)
	VisitGeometryBag(*Geometry)
	VisitModel(*Geometry)
}

// Accept dispatches g to the matching GeometryVisitor method.
func (g *Geometry) Accept(v GeometryVisitor) {
	if g == nil {
		return
	}
	switch g.Type {
	case GeometryPoint:
		v.VisitPoint(g)
	case GeometryLine:
		v.VisitLine(g)
	case GeometryLinearRing:
		v.VisitLinearRing(g)
	case GeometryPolygon:
		v.VisitPolygon(g)
	case GeometryMultiPoint:
		v.VisitMultiPoint(g)
	case GeometryMultiLine:
		v.VisitMultiLine(g)
	case GeometryMultiPolygons:
		v.VisitMultiPolygons(g)
	case GeometryBag:
		v.VisitGeometryBag(g)
	case GeometryModel:
		v.VisitModel(g)
	}
}

// NewLine constructs a Line geometry; the caller must supply at least two
// points per the data-model invariant.
func NewLine(pts []Geodetic3DPoint) *Geometry {
	return &Geometry{Type: GeometryLine, Points: pts}
}

// NewLinearRing constructs a LinearRing geometry; the caller must supply at
// least four points with the first and last coincident (or implying closure
// per the n-1 storage allowance).
func NewLinearRing(pts []Geodetic3DPoint) *Geometry {
	return &Geometry{Type: GeometryLinearRing, Points: pts}
}

// NewPoint constructs a Point geometry.
func NewPoint(p Geodetic3DPoint) *Geometry {
	return &Geometry{Type: GeometryPoint, Point: &p}
}
