package shp

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/cdarbon/giscore"
)

func TestDecodePointPlain(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(-71.05))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(42.35))

	g, err := decodePoint(ShapePoint, buf)
	if err != nil {
		t.Fatalf("decodePoint() error: %v", err)
	}
	if g.Type != giscore.GeometryPoint {
		t.Fatalf("Type = %v, want GeometryPoint", g.Type)
	}
	if g.Point.Longitude != -71.05 || g.Point.Latitude != 42.35 {
		t.Errorf("point = %+v, want (-71.05, 42.35)", g.Point)
	}
}

func TestDecodePointTooShort(t *testing.T) {
	_, err := decodePoint(ShapePoint, make([]byte, 8))
	if err == nil {
		t.Fatal("expected an error for a too-short point record")
	}
}

func TestDecodePointZUnderflowTolerant(t *testing.T) {
	buf := make([]byte, 16) // no Z bytes present, even though ShapePoint+Z is requested
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(1))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(2))

	g, err := decodePoint(ShapePoint+shapeZOffset, buf)
	if err != nil {
		t.Fatalf("decodePoint() error: %v", err)
	}
	if g.Point.Altitude != 0 {
		t.Errorf("Altitude = %g, want 0 (tolerant underflow default)", g.Point.Altitude)
	}
}

func TestDecodePointInvalidCoordinateDropsGeometry(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(400)) // out of range longitude
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(0))

	g, err := decodePoint(ShapePoint, buf)
	if err != nil {
		t.Fatalf("decodePoint() should not error on an invalid coordinate, got: %v", err)
	}
	if g != nil {
		t.Errorf("decodePoint() = %+v, want nil geometry for an invalid coordinate", g)
	}
}

func TestDecodeGeometryDispatch(t *testing.T) {
	buf := make([]byte, 16)
	g, err := decodeGeometry(ShapePoint, buf)
	if err != nil || g == nil {
		t.Fatalf("decodeGeometry(ShapePoint) = %v, %v; want a geometry, no error", g, err)
	}

	_, err = decodeGeometry(ShapeType(99), make([]byte, 40))
	if err == nil {
		t.Fatal("expected an error for an unrecognized shape type")
	}
	if _, ok := err.(*giscore.ErrUnsupportedShapeType); !ok {
		t.Errorf("expected *giscore.ErrUnsupportedShapeType, got %T", err)
	}
}

func TestReadXYPairs(t *testing.T) {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(1))
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(2))
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(3))
	binary.LittleEndian.PutUint64(buf[24:32], math.Float64bits(4))

	pts, off, err := readXYPairs(buf, 0, 2)
	if err != nil {
		t.Fatalf("readXYPairs() error: %v", err)
	}
	if off != 32 {
		t.Errorf("off = %d, want 32", off)
	}
	want := []giscore.Geodetic2DPoint{{Longitude: 1, Latitude: 2}, {Longitude: 3, Latitude: 4}}
	if pts[0] != want[0] || pts[1] != want[1] {
		t.Errorf("pts = %+v, want %+v", pts, want)
	}
}

func TestReadXYPairsTruncated(t *testing.T) {
	_, _, err := readXYPairs(make([]byte, 8), 0, 2)
	if err == nil {
		t.Fatal("expected an error for a truncated point array")
	}
}

func TestDecodeMultiPointRoundTrip(t *testing.T) {
	g := &giscore.Geometry{Type: giscore.GeometryMultiPoint, Points: []giscore.Geodetic3DPoint{
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 1, Latitude: 1}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 2, Latitude: 2}},
	}}
	encoded, err := encodeMultiPoint(ShapeMultiPoint, g)
	if err != nil {
		t.Fatalf("encodeMultiPoint() error: %v", err)
	}
	decoded, err := decodeMultiPoint(ShapeMultiPoint, encoded[4:])
	if err != nil {
		t.Fatalf("decodeMultiPoint() error: %v", err)
	}
	if len(decoded.Points) != 2 {
		t.Fatalf("decoded %d points, want 2", len(decoded.Points))
	}
	if decoded.Points[0].Longitude != 1 || decoded.Points[1].Longitude != 2 {
		t.Errorf("decoded points = %+v, want longitudes 1 then 2", decoded.Points)
	}
}

func TestDecodePolygonSquareNoHoles(t *testing.T) {
	square := []giscore.Geodetic3DPoint{
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 0, Latitude: 0}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 0, Latitude: 10}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 10, Latitude: 10}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 10, Latitude: 0}},
	}
	poly := &giscore.Geometry{Type: giscore.GeometryPolygon, Outer: giscore.NewLinearRing(square)}
	encoded, err := encodeMultiPart(ShapePolygon, ShapePolygon, collectRings(poly))
	if err != nil {
		t.Fatalf("encodeMultiPart() error: %v", err)
	}

	decoded, err := decodePolygon(ShapePolygon, encoded[4:])
	if err != nil {
		t.Fatalf("decodePolygon() error: %v", err)
	}
	if decoded.Type != giscore.GeometryPolygon {
		t.Fatalf("decoded Type = %v, want GeometryPolygon for a single ring", decoded.Type)
	}
	if decoded.Outer.NumPoints() != 4 {
		t.Errorf("outer ring has %d points, want 4", decoded.Outer.NumPoints())
	}
}

func TestDecodePolygonMultiplePolygonsWhenMultipleOuters(t *testing.T) {
	squareA := []giscore.Geodetic3DPoint{
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 0, Latitude: 0}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 0, Latitude: 10}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 10, Latitude: 10}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 10, Latitude: 0}},
	}
	squareB := []giscore.Geodetic3DPoint{
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 20, Latitude: 0}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 20, Latitude: 10}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 30, Latitude: 10}},
		{Geodetic2DPoint: giscore.Geodetic2DPoint{Longitude: 30, Latitude: 0}},
	}
	parts := [][]giscore.Geodetic3DPoint{squareA, squareB}
	encoded, err := encodeMultiPart(ShapePolygon, ShapePolygon, parts)
	if err != nil {
		t.Fatalf("encodeMultiPart() error: %v", err)
	}

	decoded, err := decodePolygon(ShapePolygon, encoded[4:])
	if err != nil {
		t.Fatalf("decodePolygon() error: %v", err)
	}
	if decoded.Type != giscore.GeometryMultiPolygons {
		t.Fatalf("decoded Type = %v, want GeometryMultiPolygons for two disjoint outer rings", decoded.Type)
	}
	if len(decoded.Parts) != 2 {
		t.Errorf("decoded %d polygons, want 2", len(decoded.Parts))
	}
}
