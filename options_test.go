package giscore

import "testing"

func TestDefaultShapefileOptions(t *testing.T) {
	opts := DefaultShapefileOptions()
	if opts.StrictPrjCheck {
		t.Error("DefaultShapefileOptions() should default StrictPrjCheck to false")
	}
	if opts.SchemaAccepter != nil {
		t.Error("DefaultShapefileOptions() should leave SchemaAccepter nil")
	}
}

func TestDefaultKMLOptions(t *testing.T) {
	opts := DefaultKMLOptions()
	if opts.Encoding != "UTF-8" {
		t.Errorf("Encoding = %q, want UTF-8", opts.Encoding)
	}
	if opts.FollowNetworkLinks {
		t.Error("DefaultKMLOptions() should default FollowNetworkLinks to false")
	}
}

func TestDefaultCSVOptions(t *testing.T) {
	opts := DefaultCSVOptions()
	if opts.ValueDelimiter != ',' {
		t.Errorf("ValueDelimiter = %q, want ','", opts.ValueDelimiter)
	}
	if opts.Quote != '"' {
		t.Errorf("Quote = %q, want '\"'", opts.Quote)
	}
}
