package kml

import (
	"testing"

	"github.com/cdarbon/giscore"
)

func TestReaderTopLevelStyle(t *testing.T) {
	doc := `<kml><Style id="s1"><LineStyle><color>ff0000ff</color><width>2</width></LineStyle></Style></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].Kind != giscore.EventStyle {
		t.Fatalf("events[1].Kind = %v, want EventStyle", events[1].Kind)
	}
	style := events[1].Style
	if style.ID != "s1" {
		t.Errorf("Style.ID = %q, want %q", style.ID, "s1")
	}
	if style.Line == nil || style.Line.Width != 2 {
		t.Fatalf("Style.Line = %+v, want Width=2", style.Line)
	}
	if style.Line.Color == nil || *style.Line.Color != 0xff0000ff {
		t.Errorf("Style.Line.Color = %v, want 0xff0000ff", style.Line.Color)
	}
}

func TestReaderStyleMap(t *testing.T) {
	doc := `<kml><StyleMap id="sm1">` +
		`<Pair><key>normal</key><styleUrl>#s1</styleUrl></Pair>` +
		`<Pair><key>highlight</key><styleUrl>#s2</styleUrl></Pair>` +
		`</StyleMap></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	sm := events[1].StyleMap
	if sm.ID != "sm1" {
		t.Errorf("StyleMap.ID = %q, want %q", sm.ID, "sm1")
	}
	if len(sm.Pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(sm.Pairs))
	}
	if sm.Pairs[0].Key != giscore.StyleMapNormal || sm.Pairs[0].StyleURL != "#s1" {
		t.Errorf("Pairs[0] = %+v", sm.Pairs[0])
	}
	if sm.Pairs[1].Key != giscore.StyleMapHighlight || sm.Pairs[1].StyleURL != "#s2" {
		t.Errorf("Pairs[1] = %+v", sm.Pairs[1])
	}
}

// TestReaderInlineStyleEmittedBeforeFeature confirms a Style defined inline
// on a Placemark reaches the consumer before the Feature event that
// references it, via styleUrl.
func TestReaderInlineStyleEmittedBeforeFeature(t *testing.T) {
	doc := `<kml><Placemark><Style><PolyStyle><fill>0</fill></PolyStyle></Style></Placemark></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3 (DocumentStart, Style, Feature)", len(events))
	}
	if events[1].Kind != giscore.EventStyle {
		t.Fatalf("events[1].Kind = %v, want EventStyle", events[1].Kind)
	}
	if events[2].Kind != giscore.EventFeature {
		t.Fatalf("events[2].Kind = %v, want EventFeature", events[2].Kind)
	}
	feature := events[2].Feature
	if feature.StyleURL != "#"+events[1].Style.ID {
		t.Errorf("Feature.StyleURL = %q, want %q", feature.StyleURL, "#"+events[1].Style.ID)
	}
	if feature.InlineStyle == nil || feature.InlineStyle.Poly == nil || feature.InlineStyle.Poly.Fill {
		t.Errorf("Feature.InlineStyle.Poly = %+v, want Fill=false", feature.InlineStyle)
	}
}
