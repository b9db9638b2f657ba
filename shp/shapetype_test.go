package shp

import (
	"testing"

	"github.com/cdarbon/giscore"
)

func z(lon, lat, alt float64) giscore.Geodetic3DPoint {
	return giscore.Geodetic3DPoint{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: lon, Latitude: lat}, Altitude: alt, HasAltitude: true}
}

// TestShapeTypeForBaseSelection checks the GeometryType-to-ShapeType base
// mapping for geometries whose vertices carry a real altitude, which must
// select the Z-offset variant.
func TestShapeTypeForBaseSelection(t *testing.T) {
	tests := []struct {
		name     string
		geom     *giscore.Geometry
		wantBase ShapeType
	}{
		{"point", giscore.NewPoint(z(1, 1, 30)), ShapePoint},
		{"line", giscore.NewLine([]giscore.Geodetic3DPoint{z(0, 0, 1), z(1, 1, 2)}), ShapeMultiLine},
		{"linear ring", giscore.NewLinearRing([]giscore.Geodetic3DPoint{z(0, 0, 1), z(0, 1, 1), z(1, 1, 1), z(1, 0, 1)}), ShapePolygon},
		{"multipoint", &giscore.Geometry{Type: giscore.GeometryMultiPoint, Points: []giscore.Geodetic3DPoint{z(1, 1, 5)}}, ShapeMultiPoint},
		{"polygon", &giscore.Geometry{Type: giscore.GeometryPolygon, Outer: giscore.NewLinearRing([]giscore.Geodetic3DPoint{z(0, 0, 1), z(0, 1, 1), z(1, 1, 1), z(1, 0, 1)})}, ShapePolygon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShapeTypeFor(tt.geom); got != tt.wantBase+shapeZOffset {
				t.Errorf("ShapeTypeFor() = %v, want %v", got, tt.wantBase+shapeZOffset)
			}
		})
	}
}

// TestShapeTypeForFlatGeometryIs2D checks that a geometry whose vertices
// carry no real altitude (HasAltitude false, the zero value) maps to the
// plain (non-Z) shape type, even when points are populated.
func TestShapeTypeForFlatGeometryIs2D(t *testing.T) {
	tests := []struct {
		name     string
		geom     *giscore.Geometry
		wantBase ShapeType
	}{
		{"point", giscore.NewPoint(giscore.Geodetic3DPoint{}), ShapePoint},
		{"line", giscore.NewLine([]giscore.Geodetic3DPoint{{}, {}}), ShapeMultiLine},
		{"linear ring", giscore.NewLinearRing([]giscore.Geodetic3DPoint{{}, {}, {}, {}}), ShapePolygon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShapeTypeFor(tt.geom); got != tt.wantBase {
				t.Errorf("ShapeTypeFor() = %v, want %v (no Z offset)", got, tt.wantBase)
			}
		})
	}
}

func TestShapeTypeForEmptyGeometryIs2D(t *testing.T) {
	g := &giscore.Geometry{Type: giscore.GeometryPoint}
	if got := ShapeTypeFor(g); got != ShapePoint {
		t.Errorf("ShapeTypeFor(empty point) = %v, want ShapePoint with no Z offset", got)
	}
}
