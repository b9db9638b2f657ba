package giscore

import "github.com/google/uuid"

// FieldType enumerates the value types a SimpleField may carry.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldShort
	FieldFloat
	FieldDouble
	FieldBool
	FieldDate
	FieldOID
	FieldGeometry
	FieldLong
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "STRING"
	case FieldInt:
		return "INT"
	case FieldShort:
		return "SHORT"
	case FieldFloat:
		return "FLOAT"
	case FieldDouble:
		return "DOUBLE"
	case FieldBool:
		return "BOOL"
	case FieldDate:
		return "DATE"
	case FieldOID:
		return "OID"
	case FieldGeometry:
		return "GEOMETRY"
	case FieldLong:
		return "LONG"
	default:
		return "STRING"
	}
}

// SimpleField describes one named, typed column of a Schema.
type SimpleField struct {
	Name      string
	AliasName string
	Type      FieldType
	Length    int
	Precision int
	Ordinal   int
}

// Schema is an ordered, named, typed field set identified by a URI. Field
// names are unique within a schema and insertion order is preserved.
type Schema struct {
	URI    string
	Name   string
	fields []*SimpleField
	byName map[string]*SimpleField
}

// NewSchema creates an empty schema. If uri is empty a synthetic
// "urn:uuid:<v4>" is generated, matching the documents that omit an explicit
// schema identifier.
func NewSchema(name, uri string) *Schema {
	if uri == "" {
		uri = "urn:uuid:" + uuid.NewString()
	}
	return &Schema{
		Name:   name,
		URI:    uri,
		byName: make(map[string]*SimpleField),
	}
}

// AddField appends f to the schema, assigning its ordinal, or returns
// ErrConfigurationError if the name already exists.
func (s *Schema) AddField(f *SimpleField) error {
	if _, exists := s.byName[f.Name]; exists {
		return &ErrConfigurationError{Reason: "duplicate field name " + f.Name}
	}
	f.Ordinal = len(s.fields)
	s.fields = append(s.fields, f)
	s.byName[f.Name] = f
	return nil
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (*SimpleField, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Fields returns the schema's fields in insertion order. The returned slice
// must not be mutated by the caller.
func (s *Schema) Fields() []*SimpleField { return s.fields }

// Len returns the number of fields in the schema.
func (s *Schema) Len() int { return len(s.fields) }
