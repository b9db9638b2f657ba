package kml

import "testing"

func TestReaderExtendedDataSimplePairs(t *testing.T) {
	doc := `<kml><Placemark><ExtendedData>` +
		`<Data name="population">1000</Data>` +
		`</ExtendedData></Placemark></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	feature := events[1].Feature
	if len(feature.Values) != 1 {
		t.Fatalf("got %d values, want 1", len(feature.Values))
	}
	for field, v := range feature.Values {
		if field.Name != "population" {
			t.Errorf("field name = %q, want %q", field.Name, "population")
		}
		if v != "1000" {
			t.Errorf("value = %v, want %q", v, "1000")
		}
	}
}

// TestReaderExtendedDataLastSchemaDataWins documents that when a
// Placemark's ExtendedData carries more than one SchemaData block, the
// values from the last one take precedence.
func TestReaderExtendedDataLastSchemaDataWins(t *testing.T) {
	doc := `<kml>` +
		`<Schema id="S1" name="S1"><SimpleField name="code" type="string"></SimpleField></Schema>` +
		`<Placemark><ExtendedData>` +
		`<SchemaData schemaUrl="#S1"><SimpleData name="code">first</SimpleData></SchemaData>` +
		`<SchemaData schemaUrl="#S1"><SimpleData name="code">second</SimpleData></SchemaData>` +
		`</ExtendedData></Placemark></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	// events: DocumentStart, Schema, Feature
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	feature := events[2].Feature
	if len(feature.Values) != 1 {
		t.Fatalf("got %d values, want 1", len(feature.Values))
	}
	for field, v := range feature.Values {
		if field.Name != "code" {
			t.Errorf("field name = %q, want %q", field.Name, "code")
		}
		if v != "second" {
			t.Errorf("value = %v, want %q (the last SchemaData should win)", v, "second")
		}
	}
}
