package kml

import "testing"

func TestSimpleFieldType(t *testing.T) {
	tests := []struct {
		kmlType string
		want    string
	}{
		{"int", "INT"},
		{"short", "SHORT"},
		{"float", "FLOAT"},
		{"double", "DOUBLE"},
		{"bool", "BOOL"},
		{"long", "LONG"},
		{"string", "STRING"},
		{"wstring", "STRING"},
		{"unknown-type", "STRING"},
	}
	for _, tt := range tests {
		if got := simpleFieldType(tt.kmlType).String(); got != tt.want {
			t.Errorf("simpleFieldType(%q) = %q, want %q", tt.kmlType, got, tt.want)
		}
	}
}

func TestAliasTableRegisterAndResolve(t *testing.T) {
	tbl := newAliasTable()
	if _, ok := tbl.resolve("MyPlace"); ok {
		t.Fatal("resolve() on an empty table should report not found")
	}

	tbl.register("MyPlace", "Placemark")
	kind, ok := tbl.resolve("MyPlace")
	if !ok || kind != "Placemark" {
		t.Errorf("resolve(MyPlace) = %q, %v; want Placemark, true", kind, ok)
	}

	if _, ok := tbl.resolve("SomethingElse"); ok {
		t.Error("resolve() on an unregistered name should report not found")
	}
}
