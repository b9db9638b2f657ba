package kml

import (
	"encoding/xml"
	"strings"
	"testing"
)

func nextStart(t *testing.T, dec *xml.Decoder) xml.StartElement {
	t.Helper()
	for {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("Token() error: %v", err)
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se
		}
	}
}

func TestAttr(t *testing.T) {
	dec := xml.NewDecoder(strings.NewReader(`<e id="42" name="x"></e>`))
	se := nextStart(t, dec)
	if got := attr(se, "id"); got != "42" {
		t.Errorf("attr(id) = %q, want %q", got, "42")
	}
	if got := attr(se, "missing"); got != "" {
		t.Errorf("attr(missing) = %q, want empty", got)
	}
}

func TestReadCharData(t *testing.T) {
	dec := xml.NewDecoder(strings.NewReader(`<e>hello</e>`))
	nextStart(t, dec)
	text, err := readCharData(dec)
	if err != nil {
		t.Fatalf("readCharData() error: %v", err)
	}
	if text != "hello" {
		t.Errorf("readCharData() = %q, want %q", text, "hello")
	}
}

func TestReadCharDataSkipsNestedElementBoundaries(t *testing.T) {
	// A leaf element in practice never nests, but readCharData should still
	// only collect depth-0 text if it somehow does.
	dec := xml.NewDecoder(strings.NewReader(`<e>a<sub>b</sub>c</e>`))
	nextStart(t, dec)
	text, err := readCharData(dec)
	if err != nil {
		t.Fatalf("readCharData() error: %v", err)
	}
	if text != "ac" {
		t.Errorf("readCharData() = %q, want %q", text, "ac")
	}
}

func TestSkipElement(t *testing.T) {
	dec := xml.NewDecoder(strings.NewReader(`<e><a><b/></a></e><next/>`))
	nextStart(t, dec) // consume <e>
	if err := skipElement(dec); err != nil {
		t.Fatalf("skipElement() error: %v", err)
	}
	tok, err := dec.Token()
	if err != nil {
		t.Fatalf("Token() error: %v", err)
	}
	se, ok := tok.(xml.StartElement)
	if !ok || se.Name.Local != "next" {
		t.Errorf("next token = %v, want <next> StartElement", tok)
	}
}

func TestCaptureForeignElement(t *testing.T) {
	dec := xml.NewDecoder(strings.NewReader(`<ext:track xmlns:ext="http://example.com/ext" id="t1">value<child>c</child></ext:track>`))
	se := nextStart(t, dec)
	el, err := captureForeignElement(dec, se)
	if err != nil {
		t.Fatalf("captureForeignElement() error: %v", err)
	}
	if el.Name != "track" {
		t.Errorf("Name = %q, want %q", el.Name, "track")
	}
	if el.Attrs["id"] != "t1" {
		t.Errorf("Attrs[id] = %q, want %q", el.Attrs["id"], "t1")
	}
	if el.Text != "value" {
		t.Errorf("Text = %q, want %q", el.Text, "value")
	}
	if len(el.Children) != 1 || el.Children[0].Name != "child" || el.Children[0].Text != "c" {
		t.Errorf("Children = %+v, want one child named 'child' with text 'c'", el.Children)
	}
}
