package shp

import (
	"encoding/binary"
	"fmt"

	"github.com/cdarbon/giscore"
)

// writeDBFHeader reserves the dBase III header and field descriptors for
// w.schema; the record count is patched in on finalizeDBF.
func (w *Writer) writeDBFHeader() error {
	if w.schema == nil {
		w.schema = giscore.NewSchema("", "")
	}
	fields := w.schema.Fields()
	headerLen := 32 + len(fields)*32 + 1
	recordLen := 1
	for range fields {
		recordLen += dbfColumnWidth
	}

	hdr := make([]byte, 32)
	hdr[0] = 0x03 // dBase III without memo
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(headerLen))
	binary.LittleEndian.PutUint16(hdr[10:12], uint16(recordLen))
	if _, err := w.dbfBuf.Write(hdr); err != nil {
		return &giscore.ErrIO{Op: "write dbf header", Err: err}
	}

	for _, f := range fields {
		fd := make([]byte, 32)
		name := f.Name
		if len(name) > 10 {
			name = name[:10]
		}
		copy(fd[0:11], name)
		fd[11] = dbfTypeCode(f.Type)
		fd[16] = dbfColumnWidth
		fd[17] = 0
		if _, err := w.dbfBuf.Write(fd); err != nil {
			return &giscore.ErrIO{Op: "write dbf field descriptor", Err: err}
		}
	}

	if _, err := w.dbfBuf.Write([]byte{0x0D}); err != nil {
		return &giscore.ErrIO{Op: "write dbf header terminator", Err: err}
	}
	return nil
}

// dbfColumnWidth is the fixed field width used for every written DBF
// column. Byte-exact round-trip formatting is a documented non-goal, so a
// single generous fixed width keeps the writer simple.
const dbfColumnWidth = 32

func dbfTypeCode(t giscore.FieldType) byte {
	switch t {
	case giscore.FieldString, giscore.FieldGeometry, giscore.FieldOID:
		return 'C'
	case giscore.FieldInt, giscore.FieldShort, giscore.FieldLong:
		return 'N'
	case giscore.FieldFloat, giscore.FieldDouble:
		return 'N'
	case giscore.FieldBool:
		return 'L'
	case giscore.FieldDate:
		return 'D'
	default:
		return 'C'
	}
}

func (w *Writer) writeDBFRow(f *giscore.Feature) error {
	row := make([]byte, 1+len(w.schema.Fields())*dbfColumnWidth)
	row[0] = ' ' // not deleted
	off := 1
	for _, field := range w.schema.Fields() {
		val, _ := f.Value(field)
		cell := fmt.Sprintf("%v", val)
		if len(cell) > dbfColumnWidth {
			cell = cell[:dbfColumnWidth]
		}
		copy(row[off:off+dbfColumnWidth], cell)
		for i := len(cell); i < dbfColumnWidth; i++ {
			row[off+i] = ' '
		}
		off += dbfColumnWidth
	}
	if _, err := w.dbfBuf.Write(row); err != nil {
		return &giscore.ErrIO{Op: "write dbf record", Err: err}
	}
	w.dbfRecordsWritten++
	return nil
}

func (w *Writer) finalizeDBF() error {
	if _, err := w.dbfBuf.Write([]byte{0x1A}); err != nil { // EOF marker
		return &giscore.ErrIO{Op: "write dbf eof marker", Err: err}
	}
	if err := w.dbfBuf.Flush(); err != nil {
		return &giscore.ErrIO{Op: "flush dbf", Err: err}
	}
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(w.dbfRecordsWritten))
	if _, err := w.dbfFile.WriteAt(countBuf[:], 4); err != nil {
		return &giscore.ErrIO{Op: "patch dbf record count", Err: err}
	}
	return w.dbfFile.Close()
}
