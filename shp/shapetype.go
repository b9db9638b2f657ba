package shp

import "github.com/cdarbon/giscore"

// ShapeTypeFor returns the on-disk shape type that can represent g,
// including the Z offset when g carries real altitude. Used by external
// collaborators (e.g. a format-converting CLI) that build a Writer from an
// event stream whose geometries are known only at write time.
func ShapeTypeFor(g *giscore.Geometry) ShapeType {
	base := ShapePoint
	switch g.Type {
	case giscore.GeometryPoint:
		base = ShapePoint
	case giscore.GeometryLine, giscore.GeometryMultiLine:
		base = ShapeMultiLine
	case giscore.GeometryLinearRing, giscore.GeometryPolygon, giscore.GeometryMultiPolygons:
		base = ShapePolygon
	case giscore.GeometryMultiPoint:
		base = ShapeMultiPoint
	default:
		base = ShapePoint
	}
	if g.Is3D() {
		return base + shapeZOffset
	}
	return base
}
