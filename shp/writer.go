package shp

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdarbon/giscore"
)

// Writer serializes an event stream to a .shp/.dbf pair. It is a C7 output
// writer: a format-specific collaborator that shares the core event model,
// not part of the streaming-read core itself. Method surface (Open/Write/
// Close) is modeled on the jonas-p/go-shp API shape referenced in the
// retrieved corpus's gtfs2shp shapewriter, implemented here against
// encoding/binary directly so the writer's byte layout stays symmetric with
// Reader's.
type Writer struct {
	shapeType ShapeType

	shpFile *os.File
	shpBuf  *bufio.Writer
	dbfFile *os.File
	dbfBuf  *bufio.Writer

	schema      *giscore.Schema
	recordNum   int32
	shpOffset   int64 // bytes written to .shp after the header
	bounds      giscore.Bounds
	boundsKnown bool

	dbfRecordsWritten int32
	dbfHeaderPatched  bool
}

// Create opens a new shapefile pair at path (with or without extension) for
// writing geometries of shapeType, and a schema for the companion .dbf.
func Create(path string, shapeType ShapeType, schema *giscore.Schema) (*Writer, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	shpFile, err := os.Create(base + ".shp")
	if err != nil {
		return nil, &giscore.ErrIO{Op: "create shp", Err: err}
	}
	dbfFile, err := os.Create(base + ".dbf")
	if err != nil {
		shpFile.Close()
		return nil, &giscore.ErrIO{Op: "create dbf", Err: err}
	}

	w := &Writer{
		shapeType: shapeType,
		shpFile:   shpFile,
		shpBuf:    bufio.NewWriter(shpFile),
		dbfFile:   dbfFile,
		dbfBuf:    bufio.NewWriter(dbfFile),
		schema:    schema,
	}

	// Reserve the 100-byte .shp header; patched with final length on Close.
	if _, err := w.shpBuf.Write(make([]byte, 100)); err != nil {
		return nil, &giscore.ErrIO{Op: "reserve shp header", Err: err}
	}
	w.shpOffset = 100

	if err := w.writeDBFHeader(); err != nil {
		return nil, err
	}

	return w, nil
}

// Write serializes e. Only Feature events are written (the .dbf schema is
// fixed at Create); every other event kind, Schema included, is accepted
// and ignored, matching
// the write(event) contract's tolerance for heterogeneous input streams.
func (w *Writer) Write(e *giscore.Event) error {
	switch e.Kind {
	case giscore.EventFeature:
		return w.writeFeature(e.Feature)
	default:
		return nil
	}
}

func (w *Writer) writeFeature(f *giscore.Feature) error {
	w.recordNum++
	contentBytes, err := encodeGeometry(w.shapeType, f.Geometry)
	if err != nil {
		return err
	}

	if f.Geometry != nil {
		b := f.Geometry.BoundingBox()
		if !w.boundsKnown {
			w.bounds = b
			w.boundsKnown = true
		} else {
			w.bounds = w.bounds.Union(b)
		}
	}

	recHdr := make([]byte, 8)
	binary.BigEndian.PutUint32(recHdr[0:4], uint32(w.recordNum))
	binary.BigEndian.PutUint32(recHdr[4:8], uint32(len(contentBytes)/2))
	if _, err := w.shpBuf.Write(recHdr); err != nil {
		return &giscore.ErrIO{Op: "write shp record header", Err: err}
	}
	if _, err := w.shpBuf.Write(contentBytes); err != nil {
		return &giscore.ErrIO{Op: "write shp record content", Err: err}
	}
	w.shpOffset += int64(8 + len(contentBytes))

	return w.writeDBFRow(f)
}

func encodeGeometry(t ShapeType, g *giscore.Geometry) ([]byte, error) {
	if g == nil {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(ShapeNull))
		return buf, nil
	}

	switch t.base() {
	case ShapePoint:
		return encodePoint(t, g)
	case ShapeMultiLine:
		return encodeMultiPart(t, ShapeMultiLine, collectLines(g))
	case ShapePolygon:
		return encodeMultiPart(t, ShapePolygon, collectRings(g))
	case ShapeMultiPoint:
		return encodeMultiPoint(t, g)
	default:
		return nil, &giscore.ErrUnsupportedGeometry{Kind: g.Type}
	}
}

func encodePoint(t ShapeType, g *giscore.Geometry) ([]byte, error) {
	if g.Type != giscore.GeometryPoint || g.Point == nil {
		return nil, &giscore.ErrUnsupportedGeometry{Kind: g.Type}
	}
	size := 20
	if t.hasZ() {
		size += 8
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(t))
	writeLEDouble(buf[4:12], g.Point.Longitude)
	writeLEDouble(buf[12:20], g.Point.Latitude)
	if t.hasZ() {
		writeLEDouble(buf[20:28], g.Point.Altitude)
	}
	return buf, nil
}

func collectLines(g *giscore.Geometry) [][]giscore.Geodetic3DPoint {
	switch g.Type {
	case giscore.GeometryLine:
		return [][]giscore.Geodetic3DPoint{g.Points}
	case giscore.GeometryMultiLine:
		var out [][]giscore.Geodetic3DPoint
		for _, p := range g.Parts {
			out = append(out, collectLines(p)...)
		}
		return out
	default:
		return nil
	}
}

func collectRings(g *giscore.Geometry) [][]giscore.Geodetic3DPoint {
	switch g.Type {
	case giscore.GeometryPolygon:
		var out [][]giscore.Geodetic3DPoint
		if g.Outer != nil {
			out = append(out, g.Outer.Points)
		}
		for _, inner := range g.Inners {
			out = append(out, inner.Points)
		}
		return out
	case giscore.GeometryMultiPolygons:
		var out [][]giscore.Geodetic3DPoint
		for _, p := range g.Parts {
			out = append(out, collectRings(p)...)
		}
		return out
	default:
		return nil
	}
}

func encodeMultiPart(t ShapeType, base ShapeType, parts [][]giscore.Geodetic3DPoint) ([]byte, error) {
	if len(parts) == 0 {
		return nil, &giscore.ErrUnsupportedGeometry{Kind: giscore.GeometryNone}
	}
	nParts := len(parts)
	nPoints := 0
	for _, p := range parts {
		nPoints += len(p)
	}

	headerSize := 4 + 32 + 4 + 4 + nParts*4
	pointsSize := nPoints * 16
	size := headerSize + pointsSize
	hasZ := t.hasZ()
	if hasZ {
		size += 16 + nPoints*8
	}

	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(t))

	var allPts []giscore.Geodetic3DPoint
	for _, p := range parts {
		allPts = append(allPts, p...)
	}
	pts2d := make([]giscore.Geodetic2DPoint, len(allPts))
	for i, p := range allPts {
		pts2d[i] = p.Geodetic2DPoint
	}
	bbox := giscore.BoundsFromPoints(pts2d)
	writeLEDouble(buf[4:12], bbox.MinLon)
	writeLEDouble(buf[12:20], bbox.MinLat)
	writeLEDouble(buf[20:28], bbox.MaxLon)
	writeLEDouble(buf[28:36], bbox.MaxLat)

	off := 36
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(nParts))
	off += 4
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(nPoints))
	off += 4

	partOff := 0
	for _, p := range parts {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(partOff))
		off += 4
		partOff += len(p)
	}

	for _, p := range allPts {
		writeLEDouble(buf[off:off+8], p.Longitude)
		writeLEDouble(buf[off+8:off+16], p.Latitude)
		off += 16
	}

	if hasZ {
		zMin, zMax := allPts[0].Altitude, allPts[0].Altitude
		for _, p := range allPts {
			zMin = math.Min(zMin, p.Altitude)
			zMax = math.Max(zMax, p.Altitude)
		}
		writeLEDouble(buf[off:off+8], zMin)
		writeLEDouble(buf[off+8:off+16], zMax)
		off += 16
		for _, p := range allPts {
			writeLEDouble(buf[off:off+8], p.Altitude)
			off += 8
		}
	}

	return buf, nil
}

func encodeMultiPoint(t ShapeType, g *giscore.Geometry) ([]byte, error) {
	if g.Type != giscore.GeometryMultiPoint {
		return nil, &giscore.ErrUnsupportedGeometry{Kind: g.Type}
	}
	nPoints := len(g.Points)
	hasZ := t.hasZ()
	size := 4 + 32 + 4 + nPoints*16
	if hasZ {
		size += 16 + nPoints*8
	}
	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(t))

	pts2d := make([]giscore.Geodetic2DPoint, nPoints)
	for i, p := range g.Points {
		pts2d[i] = p.Geodetic2DPoint
	}
	bbox := giscore.BoundsFromPoints(pts2d)
	writeLEDouble(buf[4:12], bbox.MinLon)
	writeLEDouble(buf[12:20], bbox.MinLat)
	writeLEDouble(buf[20:28], bbox.MaxLon)
	writeLEDouble(buf[28:36], bbox.MaxLat)

	off := 36
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(nPoints))
	off += 4
	for _, p := range g.Points {
		writeLEDouble(buf[off:off+8], p.Longitude)
		writeLEDouble(buf[off+8:off+16], p.Latitude)
		off += 16
	}
	if hasZ {
		zMin, zMax := g.Points[0].Altitude, g.Points[0].Altitude
		for _, p := range g.Points {
			zMin = math.Min(zMin, p.Altitude)
			zMax = math.Max(zMax, p.Altitude)
		}
		writeLEDouble(buf[off:off+8], zMin)
		writeLEDouble(buf[off+8:off+16], zMax)
		off += 16
		for _, p := range g.Points {
			writeLEDouble(buf[off:off+8], p.Altitude)
			off += 8
		}
	}
	return buf, nil
}

func writeLEDouble(b []byte, v float64) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
}

// Close patches the .shp header's final length, flushes and closes both
// files. Idempotent is not required here: writers are used once.
func (w *Writer) Close() error {
	if err := w.finalizeDBF(); err != nil {
		return err
	}
	if err := w.shpBuf.Flush(); err != nil {
		return &giscore.ErrIO{Op: "flush shp", Err: err}
	}

	hdr := make([]byte, 100)
	binary.BigEndian.PutUint32(hdr[0:4], 9994)
	binary.BigEndian.PutUint32(hdr[24:28], uint32(w.shpOffset/2))
	binary.LittleEndian.PutUint32(hdr[28:32], 1000)
	binary.LittleEndian.PutUint32(hdr[32:36], uint32(w.shapeType))
	writeLEDouble(hdr[36:44], w.bounds.MinLon)
	writeLEDouble(hdr[44:52], w.bounds.MinLat)
	writeLEDouble(hdr[52:60], w.bounds.MaxLon)
	writeLEDouble(hdr[60:68], w.bounds.MaxLat)

	if _, err := w.shpFile.WriteAt(hdr, 0); err != nil {
		return &giscore.ErrIO{Op: "patch shp header", Err: err}
	}

	if err := w.shpFile.Close(); err != nil {
		return &giscore.ErrIO{Op: "close shp", Err: err}
	}
	return nil
}
