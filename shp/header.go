// Package shp implements the binary ESRI shapefile reader and writer: the
// 100-byte header, the record loop, per-shape-type geometry decoding, ring
// nesting via the ring package, and DBF/.prj companion-file integration.
package shp

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cdarbon/giscore"
)

// ShapeType is the on-disk shape type code. Adding 10 yields the 3D-Z form;
// adding 20 further yields the measured form.
type ShapeType int32

const (
	ShapeNull       ShapeType = 0
	ShapePoint      ShapeType = 1
	ShapeMultiLine  ShapeType = 3
	ShapePolygon    ShapeType = 5
	ShapeMultiPoint ShapeType = 8

	shapeZOffset ShapeType = 10
	shapeMOffset ShapeType = 20
)

// base, hasZ and hasM decompose a shape type code into its 2D base shape
// plus the Z/M variant offsets ESRI defines (+10 for Z, +20 for measured).
func (t ShapeType) base() ShapeType {
	if isKnownBase(t) {
		return t
	}
	if isKnownBase(t - shapeZOffset - shapeMOffset) {
		return t - shapeZOffset - shapeMOffset
	}
	if isKnownBase(t - shapeMOffset) {
		return t - shapeMOffset
	}
	if isKnownBase(t - shapeZOffset) {
		return t - shapeZOffset
	}
	return t
}

func (t ShapeType) hasZ() bool {
	if isKnownBase(t) {
		return false
	}
	return isKnownBase(t-shapeZOffset) || isKnownBase(t-shapeZOffset-shapeMOffset)
}

func (t ShapeType) hasM() bool {
	if isKnownBase(t) {
		return false
	}
	return isKnownBase(t-shapeMOffset) || isKnownBase(t-shapeZOffset-shapeMOffset)
}

func isKnownBase(t ShapeType) bool {
	switch t {
	case ShapeNull, ShapePoint, ShapeMultiLine, ShapePolygon, ShapeMultiPoint:
		return true
	default:
		return false
	}
}

// header is the decoded 100-byte shapefile header.
type header struct {
	FileLengthWords int32
	ShapeType       ShapeType
	Bounds          giscore.Bounds
	ZMin, ZMax      float64
	MMin, MMax      float64
}

// readHeader validates the signature/version and decodes the fixed header.
// Header-level errors are fatal per spec §7.
func readHeader(r io.Reader) (*header, error) {
	buf := make([]byte, 100)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &giscore.ErrIO{Op: "read shapefile header", Err: err}
	}

	signature := int32(binary.BigEndian.Uint32(buf[0:4]))
	if signature != 9994 {
		return nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "invalid signature"}
	}

	fileLengthWords := int32(binary.BigEndian.Uint32(buf[24:28]))

	version := int32(binary.LittleEndian.Uint32(buf[28:32]))
	if version != 1000 {
		return nil, &giscore.ErrMalformedFormat{Format: "shapefile", Reason: "invalid version"}
	}

	shapeType := ShapeType(int32(binary.LittleEndian.Uint32(buf[32:36])))

	xMin := readLEDouble(buf[36:44])
	yMin := readLEDouble(buf[44:52])
	xMax := readLEDouble(buf[52:60])
	yMax := readLEDouble(buf[60:68])
	zMin := readLEDouble(buf[68:76])
	zMax := readLEDouble(buf[76:84])
	mMin := readLEDouble(buf[84:92])
	mMax := readLEDouble(buf[92:100])

	return &header{
		FileLengthWords: fileLengthWords,
		ShapeType:       shapeType,
		Bounds:          giscore.Bounds{MinLon: xMin, MinLat: yMin, MaxLon: xMax, MaxLat: yMax},
		ZMin:            zMin,
		ZMax:            zMax,
		MMin:            mMin,
		MMax:            mMax,
	}, nil
}

func readLEDouble(b []byte) float64 {
	bits := binary.LittleEndian.Uint64(b)
	return math.Float64frombits(bits)
}
