package shp

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
	"github.com/cdarbon/giscore/ring"
)

// Reader is a streaming Reader over a co-located .shp/.dbf/.prj triple. It
// surfaces the DBF-derived Schema first (if a .dbf exists), then one
// Feature per .shp record, per spec §4.2's DBF integration rule.
type Reader struct {
	giscore.StreamBase

	path string
	opts giscore.ShapefileOptions

	f   *os.File
	r   *bufio.Reader
	hdr *header
	dbf *dbfReader

	totalBytes     int64
	consumed       int64
	schemaEmitted  bool
	schemaRejected bool
	schemas        []*giscore.Schema
}

// Open opens the shapefile triple rooted at path (which may be given with
// or without the .shp extension) and reads its header.
func Open(path string, opts giscore.ShapefileOptions) (*Reader, error) {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	shpPath := base + ".shp"
	dbfPath := base + ".dbf"
	prjPath := base + ".prj"

	f, err := os.Open(shpPath)
	if err != nil {
		return nil, &giscore.ErrIO{Op: "open shapefile", Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &giscore.ErrIO{Op: "stat shapefile", Err: err}
	}

	br := bufio.NewReader(f)
	hdr, err := readHeader(br)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := checkPrj(prjPath, opts.StrictPrjCheck); err != nil {
		f.Close()
		return nil, err
	}

	dbf, err := openDBF(dbfPath)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Reader{
		path:       shpPath,
		opts:       opts,
		f:          f,
		r:          br,
		hdr:        hdr,
		dbf:        dbf,
		totalBytes: info.Size(),
		consumed:   100,
	}, nil
}

// EnumerateSchemas returns every Schema this reader has emitted so far.
func (rd *Reader) EnumerateSchemas() []*giscore.Schema { return rd.schemas }

// Close releases the shp and dbf file handles. Idempotent.
func (rd *Reader) Close() error {
	if rd.Closed {
		return nil
	}
	rd.Closed = true
	err := rd.f.Close()
	if derr := rd.dbf.close(); derr != nil && err == nil {
		err = derr
	}
	return err
}

// Read implements giscore.Reader.
func (rd *Reader) Read() (*giscore.Event, error) {
	if rd.Closed {
		return nil, &giscore.ErrStreamClosed{Op: "Read"}
	}
	if e, ok := rd.DrainSaved(); ok {
		return e, nil
	}

	if !rd.schemaEmitted {
		rd.schemaEmitted = true
		if rd.dbf != nil {
			if rd.opts.SchemaAccepter != nil && !rd.opts.SchemaAccepter(rd.dbf.schema) {
				rd.schemaRejected = true
				return nil, nil
			}
			rd.schemas = append(rd.schemas, rd.dbf.schema)
			return &giscore.Event{Kind: giscore.EventSchema, Schema: rd.dbf.schema}, nil
		}
	}

	if rd.schemaRejected {
		return nil, nil
	}

	return rd.readNextFeature()
}

func (rd *Reader) readNextFeature() (*giscore.Event, error) {
	if rd.consumed >= rd.totalBytes {
		return nil, nil
	}

	recHdr := make([]byte, 8)
	n, err := io.ReadFull(rd.r, recHdr)
	if err == io.EOF && n == 0 {
		return nil, nil
	}
	if err != nil {
		return nil, &giscore.ErrIO{Op: "read record header", Err: err}
	}

	contentLenWords := int32(binary.BigEndian.Uint32(recHdr[4:8]))
	if contentLenWords <= 4 {
		return nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "record content length too short"}
	}
	contentBytes := int(contentLenWords) * 2
	rd.consumed += 8 + int64(contentBytes)

	content := make([]byte, contentBytes)
	if _, err := io.ReadFull(rd.r, content); err != nil {
		return nil, &giscore.ErrIO{Op: "read record content", Err: err}
	}

	recShapeType := ShapeType(int32(binary.LittleEndian.Uint32(content[0:4])))
	var geom *giscore.Geometry
	if recShapeType == ShapeNull {
		geom = nil
	} else if recShapeType != rd.hdr.ShapeType {
		return nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "record shape type does not match header shape type"}
	} else {
		geom, err = decodeGeometry(recShapeType, content[4:])
		if err != nil {
			return nil, err
		}
	}

	feature := giscore.NewFeature()
	feature.Geometry = geom

	if rd.dbf != nil {
		row, err := rd.dbf.next()
		if err != nil && err != io.EOF {
			return nil, err
		}
		if row != nil {
			feature.SchemaURI = row.SchemaURI
			feature.Values = row.Values
		}
	}

	return &giscore.Event{Kind: giscore.EventFeature, Feature: feature}, nil
}

// decodeGeometry decodes the geometry content of one record (content[4:],
// i.e. past the per-record shape type) according to t.
func decodeGeometry(t ShapeType, buf []byte) (*giscore.Geometry, error) {
	switch t.base() {
	case ShapePoint:
		return decodePoint(t, buf)
	case ShapeMultiPoint:
		return decodeMultiPoint(t, buf)
	case ShapeMultiLine:
		return decodeMultiLine(t, buf)
	case ShapePolygon:
		return decodePolygon(t, buf)
	default:
		return nil, &giscore.ErrUnsupportedShapeType{Code: int32(t)}
	}
}

func decodePoint(t ShapeType, buf []byte) (*giscore.Geometry, error) {
	if len(buf) < 16 {
		return nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "point record too short"}
	}
	x := readLEDouble(buf[0:8])
	y := readLEDouble(buf[8:16])
	z := 0.0
	if t.hasZ() {
		if len(buf) >= 24 {
			z = readLEDouble(buf[16:24])
		} else {
			xlog.Log.Warn().Msg("shp: Z value underflow in PointZ record, defaulting to 0")
		}
	}
	p, err := giscore.NewGeodetic3DPoint(x, y, z, t.hasZ())
	if err != nil {
		xlog.Log.Warn().Float64("lon", x).Float64("lat", y).Msg("shp: invalid point coordinate, dropping record geometry")
		return nil, nil
	}
	return giscore.NewPoint(p), nil
}

func decodeMultiPoint(t ShapeType, buf []byte) (*giscore.Geometry, error) {
	if len(buf) < 36 {
		return nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "multipoint record too short"}
	}
	nPoints := int(int32(binary.LittleEndian.Uint32(buf[32:36])))
	off := 36
	pts2d, off, err := readXYPairs(buf, off, nPoints)
	if err != nil {
		return nil, err
	}
	zs := readZArrayTolerant(t, buf, off, nPoints, &off)

	out := make([]giscore.Geodetic3DPoint, 0, nPoints)
	for i, p := range pts2d {
		gp, err := giscore.NewGeodetic3DPoint(p.Longitude, p.Latitude, zs[i], t.hasZ())
		if err != nil {
			xlog.Log.Warn().Float64("lon", p.Longitude).Float64("lat", p.Latitude).Msg("shp: invalid multipoint coordinate, dropping point")
			continue
		}
		out = append(out, gp)
	}
	return &giscore.Geometry{Type: giscore.GeometryMultiPoint, Points: out}, nil
}

func decodeMultiLine(t ShapeType, buf []byte) (*giscore.Geometry, error) {
	parts, pts2d, zs, err := decodePartsAndPoints(t, buf)
	if err != nil {
		return nil, err
	}
	lines := buildPartGeometries(parts, pts2d, zs, t.hasZ())
	if len(lines) == 1 {
		return lines[0], nil
	}
	return &giscore.Geometry{Type: giscore.GeometryMultiLine, Parts: lines}, nil
}

func decodePolygon(t ShapeType, buf []byte) (*giscore.Geometry, error) {
	parts, pts2d, zs, err := decodePartsAndPoints(t, buf)
	if err != nil {
		return nil, err
	}

	var rings []ring.Ring
	start := 0
	for i, part := range parts {
		end := part
		if i == len(parts)-1 {
			end = len(pts2d)
		}
		pts := make([]giscore.Geodetic3DPoint, 0, end-start)
		for j := start; j < end; j++ {
			gp, err := giscore.NewGeodetic3DPoint(pts2d[j].Longitude, pts2d[j].Latitude, zs[j], t.hasZ())
			if err != nil {
				xlog.Log.Warn().Float64("lon", pts2d[j].Longitude).Float64("lat", pts2d[j].Latitude).Msg("shp: invalid polygon ring vertex, dropping vertex")
				continue
			}
			pts = append(pts, gp)
		}
		rings = append(rings, ring.Ring{Points: pts})
		start = end
	}

	polys, err := ring.Nest(rings)
	if err != nil {
		return nil, err
	}
	geoms := make([]*giscore.Geometry, 0, len(polys))
	for _, p := range polys {
		geoms = append(geoms, polygonToGeometry(p))
	}
	if len(geoms) == 1 {
		return geoms[0], nil
	}
	return &giscore.Geometry{Type: giscore.GeometryMultiPolygons, Parts: geoms}, nil
}

func polygonToGeometry(p ring.Polygon) *giscore.Geometry {
	outer := giscore.NewLinearRing(p.Outer.Points)
	var inners []*giscore.Geometry
	for _, in := range p.Inners {
		inners = append(inners, giscore.NewLinearRing(in.Points))
	}
	return &giscore.Geometry{Type: giscore.GeometryPolygon, Outer: outer, Inners: inners}
}

// decodePartsAndPoints decodes the shared MULTILINE/POLYGON record layout:
// bbox, NumParts, NumPoints, Parts[NumParts] offsets, Points[NumPoints]
// interleaved X,Y pairs, plus optional Z/M sections.
func decodePartsAndPoints(t ShapeType, buf []byte) (parts []int, pts []giscore.Geodetic2DPoint, zs []float64, err error) {
	if len(buf) < 40 {
		return nil, nil, nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "record too short for parts header"}
	}
	nParts := int(int32(binary.LittleEndian.Uint32(buf[32:36])))
	nPoints := int(int32(binary.LittleEndian.Uint32(buf[36:40])))
	off := 40

	if len(buf) < off+nParts*4 {
		return nil, nil, nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "truncated part-offset array"}
	}
	parts = make([]int, nParts)
	for i := 0; i < nParts; i++ {
		parts[i] = int(int32(binary.LittleEndian.Uint32(buf[off : off+4])))
		off += 4
	}

	pts, off, err = readXYPairs(buf, off, nPoints)
	if err != nil {
		return nil, nil, nil, err
	}
	zs = readZArrayTolerant(t, buf, off, nPoints, &off)
	return parts, pts, zs, nil
}

func readXYPairs(buf []byte, off, n int) ([]giscore.Geodetic2DPoint, int, error) {
	need := n * 16
	if len(buf) < off+need {
		return nil, off, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "truncated point array"}
	}
	out := make([]giscore.Geodetic2DPoint, n)
	for i := 0; i < n; i++ {
		x := readLEDouble(buf[off : off+8])
		y := readLEDouble(buf[off+8 : off+16])
		out[i] = giscore.Geodetic2DPoint{Longitude: x, Latitude: y}
		off += 16
	}
	return out, off, nil
}

// readZArrayTolerant reads the optional Z-range + Z-array for t's Z variant.
// Per spec's Z/M underflow tolerance, a short buffer yields zeroed Z values
// and a logged warning rather than a fatal error; M is read and discarded
// under the same tolerance (the data model carries no M dimension).
func readZArrayTolerant(t ShapeType, buf []byte, off int, n int, outOff *int) []float64 {
	zs := make([]float64, n)
	if !t.hasZ() {
		*outOff = off
		return zs
	}
	need := 16 + n*8
	if len(buf) < off+need {
		xlog.Log.Warn().Msg("shp: Z array underflow, defaulting remaining Z values to 0")
		*outOff = len(buf)
		return zs
	}
	off += 16 // Zmin, Zmax
	for i := 0; i < n; i++ {
		zs[i] = readLEDouble(buf[off : off+8])
		off += 8
	}

	if t.hasM() {
		mNeed := 16 + n*8
		if len(buf) >= off+mNeed {
			off += mNeed
		} else {
			xlog.Log.Warn().Msg("shp: M array underflow, ignoring remaining M values")
			off = len(buf)
		}
	}
	*outOff = off
	return zs
}

// buildPartGeometries slices pts/zs by part offsets into one Line geometry
// per part.
func buildPartGeometries(parts []int, pts []giscore.Geodetic2DPoint, zs []float64, hasZ bool) []*giscore.Geometry {
	out := make([]*giscore.Geometry, 0, len(parts))
	start := 0
	for i, part := range parts {
		end := part
		if i == len(parts)-1 {
			end = len(pts)
		}
		line := make([]giscore.Geodetic3DPoint, 0, end-start)
		for j := start; j < end; j++ {
			gp, err := giscore.NewGeodetic3DPoint(pts[j].Longitude, pts[j].Latitude, zs[j], hasZ)
			if err != nil {
				xlog.Log.Warn().Float64("lon", pts[j].Longitude).Float64("lat", pts[j].Latitude).Msg("shp: invalid line vertex, dropping vertex")
				continue
			}
			line = append(line, gp)
		}
		out = append(out, giscore.NewLine(line))
		start = end
	}
	return out
}
