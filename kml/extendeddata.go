package kml

import (
	"encoding/xml"

	"github.com/cdarbon/giscore"
)

// parseExtendedData reads an <ExtendedData> element, applying each
// <Data name> entry directly to row (the text of its nested <value>, or the
// element's own text when it has no <value>) and, for SchemaData/SimpleData, resolving
// field names against the Schema named by schemaUrl (looked up in schemas).
// When multiple <SchemaData> blocks are present, the last one's values win,
// per spec §4.3's documented (not buggy) behavior.
func (r *Reader) parseExtendedData(dec *xml.Decoder, row *giscore.Row, adHocFields map[string]*giscore.SimpleField) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Data":
				name := attr(t, "name")
				var data struct {
					Text  string  `xml:",chardata"`
					Value *string `xml:"value"`
				}
				if err := dec.DecodeElement(&data, &t); err != nil {
					return err
				}
				text := data.Text
				if data.Value != nil {
					text = *data.Value
				}
				field := adHocField(adHocFields, name)
				row.Values[field] = text
			case "SchemaData":
				schemaURL := attr(t, "schemaUrl")
				if err := r.parseSchemaData(dec, row, schemaURL); err != nil {
					return err
				}
			default:
				if err := skipElement(dec); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "ExtendedData" {
				return nil
			}
		}
	}
}

func (r *Reader) parseSchemaData(dec *xml.Decoder, row *giscore.Row, schemaURL string) error {
	schemaURI := trimHashPrefix(schemaURL)
	schema := r.schemas[schemaURI]

	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "SimpleData" {
				name := attr(t, "name")
				text, err := readCharData(dec)
				if err != nil {
					return err
				}
				var field *giscore.SimpleField
				if schema != nil {
					if f, ok := schema.Field(name); ok {
						field = f
					}
				}
				if field == nil {
					field = &giscore.SimpleField{Name: name, Type: giscore.FieldString}
				}
				row.Values[field] = text
			} else if err := skipElement(dec); err != nil {
				return err
			}
		case xml.EndElement:
			if t.Name.Local == "SchemaData" {
				return nil
			}
		}
	}
}

func adHocField(cache map[string]*giscore.SimpleField, name string) *giscore.SimpleField {
	if f, ok := cache[name]; ok {
		return f
	}
	f := &giscore.SimpleField{Name: name, Type: giscore.FieldString}
	cache[name] = f
	return f
}

func trimHashPrefix(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}
