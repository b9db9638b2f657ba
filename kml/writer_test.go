package kml

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/cdarbon/giscore"
)

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func TestWriterFeatureRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := Create(nopWriteCloser{&buf})

	events := []*giscore.Event{
		{Kind: giscore.EventDocumentStart, DocumentStart: &giscore.DocumentStart{}},
		{Kind: giscore.EventContainerStart, ContainerStart: &giscore.ContainerStart{Kind: giscore.ContainerDocument, Name: "Root"}},
		{Kind: giscore.EventFeature, Feature: func() *giscore.Feature {
			f := giscore.NewFeature()
			f.Name = "A"
			f.Geometry = giscore.NewPoint(q(10, 20, 30))
			return f
		}()},
		{Kind: giscore.EventContainerEnd, ContainerEnd: &giscore.ContainerEnd{}},
	}
	for _, e := range events {
		if err := w.Write(e); err != nil {
			t.Fatalf("Write(%v) error: %v", e.Kind, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<Document>") {
		t.Errorf("output missing <Document>: %s", out)
	}
	if !strings.Contains(out, "<Placemark>") {
		t.Errorf("output missing <Placemark>: %s", out)
	}
	if !strings.Contains(out, "10,20,30") {
		t.Errorf("output missing coordinates: %s", out)
	}

	// Round trip the written bytes back through the Reader.
	r := newReader(t, out)
	defer r.Close()
	readEvents := drainAll(t, r)
	if len(readEvents) != 4 {
		t.Fatalf("got %d events reading back, want 4", len(readEvents))
	}
	if readEvents[1].Kind != giscore.EventContainerStart || readEvents[1].ContainerStart.Name != "Root" {
		t.Errorf("readEvents[1] = %+v, want ContainerStart(Root)", readEvents[1])
	}
	if readEvents[2].Kind != giscore.EventFeature || readEvents[2].Feature.Name != "A" {
		t.Errorf("readEvents[2] = %+v, want Feature(A)", readEvents[2])
	}
}

// TestWriterSchemaAliasRoundTrip confirms a SimpleField's AliasName is
// written as a nested <displayName> element (not as SimpleField's own
// character data) and reads back correctly.
func TestWriterSchemaAliasRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := Create(nopWriteCloser{&buf})

	schema := giscore.NewSchema("S1", "S1")
	if err := schema.AddField(&giscore.SimpleField{Name: "population", Type: giscore.FieldInt, AliasName: "Population"}); err != nil {
		t.Fatalf("AddField() error: %v", err)
	}

	if err := w.Write(&giscore.Event{Kind: giscore.EventDocumentStart, DocumentStart: &giscore.DocumentStart{}}); err != nil {
		t.Fatalf("Write(DocumentStart) error: %v", err)
	}
	if err := w.Write(&giscore.Event{Kind: giscore.EventSchema, Schema: schema}); err != nil {
		t.Fatalf("Write(Schema) error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<displayName>Population</displayName>") {
		t.Errorf("output missing nested displayName: %s", out)
	}

	r := newReader(t, out)
	defer r.Close()
	readEvents := drainAll(t, r)
	if len(readEvents) != 2 || readEvents[1].Kind != giscore.EventSchema {
		t.Fatalf("got %+v, want [DocumentStart, Schema]", readEvents)
	}
	f, ok := readEvents[1].Schema.Field("population")
	if !ok || f.AliasName != "Population" {
		t.Errorf("Field(population).AliasName = %q, want %q", f.AliasName, "Population")
	}
}

func TestWriterCloseUnwindsOpenContainers(t *testing.T) {
	var buf bytes.Buffer
	w := Create(nopWriteCloser{&buf})
	if err := w.Write(&giscore.Event{Kind: giscore.EventDocumentStart, DocumentStart: &giscore.DocumentStart{}}); err != nil {
		t.Fatalf("Write(DocumentStart) error: %v", err)
	}
	if err := w.Write(&giscore.Event{Kind: giscore.EventContainerStart, ContainerStart: &giscore.ContainerStart{Kind: giscore.ContainerFolder}}); err != nil {
		t.Fatalf("Write(ContainerStart) error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	out := buf.String()
	if strings.Count(out, "<Folder>") != 1 || strings.Count(out, "</Folder>") != 1 {
		t.Errorf("Close() did not balance the open Folder element: %s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</kml>") {
		t.Errorf("output does not end with </kml>: %s", out)
	}
}

var _ io.WriteCloser = nopWriteCloser{}
