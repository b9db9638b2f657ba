package shp

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cdarbon/giscore"
)

// dbfFieldDesc is one 32-byte dBase III/IV field descriptor.
type dbfFieldDesc struct {
	Name    string
	Type    byte
	Length  byte
	Decimal byte
}

// dbfReader sequentially decodes dBase III/IV records, surfacing the schema
// derived from the field descriptors followed by one Row per record, per
// spec's DBF integration rule (§4.2).
type dbfReader struct {
	f            *os.File
	r            *bufio.Reader
	fields       []dbfFieldDesc
	simpleFields []*giscore.SimpleField
	schema       *giscore.Schema
	recordLength int
	numRecords   int32
	read         int32
}

// openDBF opens path and decodes its header and field descriptors into a
// Schema. Returns (nil, nil) if path does not exist, matching "if no
// DBF exists, Features carry no attributes".
func openDBF(path string) (*dbfReader, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &giscore.ErrIO{Op: "open dbf", Err: err}
	}

	br := bufio.NewReader(f)
	hdr := make([]byte, 32)
	if _, err := io.ReadFull(br, hdr); err != nil {
		f.Close()
		return nil, &giscore.ErrMalformedFormat{Format: "dbf", Reason: "short header", Err: err}
	}

	numRecords := int32(binary.LittleEndian.Uint32(hdr[4:8]))
	headerLength := binary.LittleEndian.Uint16(hdr[8:10])
	recordLength := int(binary.LittleEndian.Uint16(hdr[10:12]))

	fieldBytes := int(headerLength) - 32 - 1 // minus header, minus terminator byte
	numFields := fieldBytes / 32

	schema := giscore.NewSchema(strings.TrimSuffix(basename(path), ".dbf"), "")
	var fields []dbfFieldDesc
	var simpleFields []*giscore.SimpleField

	for i := 0; i < numFields; i++ {
		fd := make([]byte, 32)
		if _, err := io.ReadFull(br, fd); err != nil {
			f.Close()
			return nil, &giscore.ErrMalformedFormat{Format: "dbf", Reason: "short field descriptor", Err: err}
		}
		name := strings.TrimRight(string(fd[0:11]), "\x00")
		typ := fd[11]
		length := fd[16]
		decimal := fd[17]
		fields = append(fields, dbfFieldDesc{Name: name, Type: typ, Length: length, Decimal: decimal})

		sf := &giscore.SimpleField{Name: name, Type: dbfFieldType(typ, decimal), Length: int(length), Precision: int(decimal)}
		if err := schema.AddField(sf); err != nil {
			// Duplicate column name: dedupe by appending ordinal, tolerated.
			sf.Name = name + "_" + strconv.Itoa(i)
			_ = schema.AddField(sf)
		}
		simpleFields = append(simpleFields, sf)
	}

	// Consume the 0x0D header terminator byte.
	if _, err := br.ReadByte(); err != nil {
		f.Close()
		return nil, &giscore.ErrMalformedFormat{Format: "dbf", Reason: "missing header terminator", Err: err}
	}

	return &dbfReader{
		f: f, r: br,
		fields:       fields,
		simpleFields: simpleFields,
		schema:       schema,
		recordLength: recordLength,
		numRecords:   numRecords,
	}, nil
}

func basename(path string) string {
	i := strings.LastIndexAny(path, "/\\")
	if i < 0 {
		return path
	}
	return path[i+1:]
}

func dbfFieldType(typ byte, decimal byte) giscore.FieldType {
	switch typ {
	case 'C', 'c':
		return giscore.FieldString
	case 'N', 'n':
		if decimal > 0 {
			return giscore.FieldDouble
		}
		return giscore.FieldLong
	case 'F', 'f':
		return giscore.FieldFloat
	case 'L', 'l':
		return giscore.FieldBool
	case 'D', 'd':
		return giscore.FieldDate
	default:
		return giscore.FieldString
	}
}

// next reads the next data record and returns a Row, or (nil, io.EOF) once
// numRecords has been consumed.
func (d *dbfReader) next() (*giscore.Row, error) {
	if d.read >= d.numRecords {
		return nil, io.EOF
	}
	rec := make([]byte, d.recordLength)
	if _, err := io.ReadFull(d.r, rec); err != nil {
		return nil, &giscore.ErrMalformedFormat{Format: "dbf", Reason: "short record", Err: err}
	}
	d.read++

	if rec[0] == '*' {
		// Deleted record marker: deleted rows are still surfaced, per the
		// shapefile reader's "one Feature per record" contract (the
		// shapefile has no deletion marker of its own).
	}

	row := &giscore.Row{SchemaURI: d.schema.URI, Values: make(map[*giscore.SimpleField]any)}
	offset := 1
	for i, fd := range d.fields {
		raw := string(rec[offset : offset+int(fd.Length)])
		offset += int(fd.Length)
		sf := d.simpleFields[i]
		row.Values[sf] = parseDBFValue(raw, fd)
	}
	return row, nil
}

func parseDBFValue(raw string, fd dbfFieldDesc) any {
	trimmed := strings.TrimSpace(raw)
	switch fd.Type {
	case 'N', 'n':
		if trimmed == "" {
			return nil
		}
		if fd.Decimal > 0 {
			v, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return nil
			}
			return v
		}
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return nil
		}
		return v
	case 'F', 'f':
		if trimmed == "" {
			return nil
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil
		}
		return v
	case 'L', 'l':
		switch trimmed {
		case "Y", "y", "T", "t":
			return true
		case "N", "n", "F", "f":
			return false
		default:
			return nil
		}
	case 'D', 'd':
		return trimmed // yyyyMMdd, left as string; no reprojection/date-library in scope
	default:
		return strings.TrimRight(raw, " ")
	}
}

func (d *dbfReader) close() error {
	if d == nil {
		return nil
	}
	return d.f.Close()
}
