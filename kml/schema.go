package kml

import "github.com/cdarbon/giscore"

// simpleFieldType maps a KML SimpleField type attribute to a FieldType.
// "wstring" is a legacy alias for string.
func simpleFieldType(kmlType string) giscore.FieldType {
	switch kmlType {
	case "int":
		return giscore.FieldInt
	case "short":
		return giscore.FieldShort
	case "float":
		return giscore.FieldFloat
	case "double":
		return giscore.FieldDouble
	case "bool":
		return giscore.FieldBool
	case "long":
		return giscore.FieldLong
	case "string", "wstring":
		return giscore.FieldString
	default:
		return giscore.FieldString
	}
}

// aliasTable tracks Schema "parent" attributes, which alias a user-chosen
// element name to a standard feature kind (usually Placemark), consulted
// when an unrecognized same-namespace element is encountered inside a
// Document.
type aliasTable struct {
	aliasToFeatureKind map[string]string
}

func newAliasTable() *aliasTable {
	return &aliasTable{aliasToFeatureKind: make(map[string]string)}
}

func (t *aliasTable) register(alias, featureKind string) {
	t.aliasToFeatureKind[alias] = featureKind
}

func (t *aliasTable) resolve(elementName string) (string, bool) {
	kind, ok := t.aliasToFeatureKind[elementName]
	return kind, ok
}
