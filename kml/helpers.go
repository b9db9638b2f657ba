package kml

import (
	"encoding/xml"

	"github.com/cdarbon/giscore"
)

// attr returns the value of attribute name on start, or "" if absent.
func attr(start xml.StartElement, name string) string {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// readCharData accumulates character data until the current element's
// matching EndElement, skipping over any nested elements' own character
// data boundaries (a leaf text element never nests further in practice, but
// this stays correct if it does).
func readCharData(dec *xml.Decoder) (string, error) {
	depth := 0
	var text string
	for {
		tok, err := dec.Token()
		if err != nil {
			return text, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if depth == 0 {
				text += string(t)
			}
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return text, nil
			}
			depth--
		}
	}
}

// skipElement consumes tokens through the matching EndElement of the
// StartElement just read, discarding its content. Used for unrecognized
// same-namespace elements (logged at debug by the caller).
func skipElement(dec *xml.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// captureForeignElement reads an entire foreign-namespace sub-tree starting
// just after its StartElement token has been consumed, preserving it
// verbatim as an Element for round-trip on the owning Feature.
func captureForeignElement(dec *xml.Decoder, start xml.StartElement) (*giscore.Element, error) {
	el := &giscore.Element{
		Namespace: start.Name.Space,
		Name:      start.Name.Local,
		Attrs:     make(map[string]string, len(start.Attr)),
	}
	for _, a := range start.Attr {
		el.Attrs[a.Name.Local] = a.Value
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			el.Text += string(t)
		case xml.StartElement:
			child, err := captureForeignElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			return el, nil
		}
	}
}
