package kml

import (
	"encoding/xml"

	"github.com/cdarbon/giscore"
)

// parseSchemaElement reads a top-level <Schema> element, registers it under
// its URI (its id, or a synthetic urn:uuid when it has none), and records a feature-kind alias when
// the document uses Schema's "parent" idiom to introduce a custom element
// name for Placemark (the teacher's typed-parser idiom treats an unknown tag
// as fatal; this reader instead consults the alias table before giving up).
func (r *Reader) parseSchemaElement(start xml.StartElement) (*giscore.Event, error) {
	id := attr(start, "id")
	name := attr(start, "name")
	schema := giscore.NewSchema(name, id)

	if parent := attr(start, "parent"); parent == "Placemark" && name != "" {
		r.aliases.register(name, "Placemark")
	}

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "SimpleField" {
				if err := skipElement(r.dec); err != nil {
					return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
				}
				continue
			}
			field := &giscore.SimpleField{
				Name: attr(t, "name"),
				Type: simpleFieldType(attr(t, "type")),
			}
			alias, err := r.parseSimpleFieldAlias()
			if err != nil {
				return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
			}
			field.AliasName = alias
			if err := schema.AddField(field); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == "Schema" {
				r.schemas[schema.URI] = schema
				r.schemaOrder = append(r.schemaOrder, schema)
				if r.opts.SchemaAccepter != nil && !r.opts.SchemaAccepter(schema) {
					return nil, nil
				}
				return &giscore.Event{Kind: giscore.EventSchema, Schema: schema}, nil
			}
		}
	}
}

// parseSimpleFieldAlias reads a SimpleField element's alias, carried per OGC
// KML 2.2 in a nested <displayName> child rather than the element's own
// character data.
func (r *Reader) parseSimpleFieldAlias() (string, error) {
	var alias string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "displayName" {
				text, err := readCharData(r.dec)
				if err != nil {
					return "", err
				}
				alias = text
			} else if err := skipElement(r.dec); err != nil {
				return "", err
			}
		case xml.EndElement:
			if t.Name.Local == "SimpleField" {
				return alias, nil
			}
		}
	}
}
