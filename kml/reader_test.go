package kml

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cdarbon/giscore"
)

func newReader(t *testing.T, doc string) *Reader {
	t.Helper()
	return Open(io.NopCloser(strings.NewReader(doc)), giscore.DefaultKMLOptions())
}

func drainAll(t *testing.T, r *Reader) []*giscore.Event {
	t.Helper()
	var events []*giscore.Event
	for {
		e, err := r.Read()
		if err != nil {
			t.Fatalf("Read() error: %v", err)
		}
		if e == nil {
			return events
		}
		events = append(events, e)
	}
}

// TestReaderPlacemarkWithPoint exercises spec scenario 1: a Placemark with a
// named Point produces a DocumentStart followed by a single Feature event
// carrying the parsed geometry.
func TestReaderPlacemarkWithPoint(t *testing.T) {
	doc := `<kml><Placemark><name>A</name><Point><coordinates>10,20,30</coordinates></Point></Placemark></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Kind != giscore.EventDocumentStart {
		t.Fatalf("events[0].Kind = %v, want EventDocumentStart", events[0].Kind)
	}
	f := events[1]
	if f.Kind != giscore.EventFeature {
		t.Fatalf("events[1].Kind = %v, want EventFeature", f.Kind)
	}
	if f.Feature.Name != "A" {
		t.Errorf("Feature.Name = %q, want %q", f.Feature.Name, "A")
	}
	g := f.Feature.Geometry
	if g == nil || g.Type != giscore.GeometryPoint {
		t.Fatalf("Feature.Geometry = %v, want a Point", g)
	}
	if g.Point.Longitude != 10 || g.Point.Latitude != 20 || g.Point.Altitude != 30 {
		t.Errorf("Point = %+v, want (10,20,30)", g.Point)
	}
}

// TestReaderDegenerateRingCoercesToLine exercises spec scenario 2: a
// Polygon outer boundary with only two coordinate tuples cannot form a
// ring, so it is coerced down to a Line rather than rejected.
func TestReaderDegenerateRingCoercesToLine(t *testing.T) {
	doc := `<kml><Placemark><Polygon><outerBoundaryIs><LinearRing>` +
		`<coordinates>0,0 1,0</coordinates>` +
		`</LinearRing></outerBoundaryIs></Polygon></Placemark></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	g := events[1].Feature.Geometry
	if g == nil || g.Type != giscore.GeometryLine {
		t.Fatalf("Feature.Geometry = %v, want a Line", g)
	}
	if len(g.Points) != 2 {
		t.Fatalf("Line has %d points, want 2", len(g.Points))
	}
}

// TestReaderCoordinateCommaRecovery exercises spec scenario 3: a
// <coordinates> body with no whitespace tuple separators still yields two
// distinct (lon,lat,alt) points inside a LineString.
func TestReaderCoordinateCommaRecovery(t *testing.T) {
	doc := `<kml><Placemark><LineString><coordinates>1,2,3,4,5,6</coordinates></LineString></Placemark></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	g := events[1].Feature.Geometry
	if g == nil || g.Type != giscore.GeometryLine {
		t.Fatalf("Feature.Geometry = %v, want a Line", g)
	}
	if len(g.Points) != 2 {
		t.Fatalf("Line has %d points, want 2", len(g.Points))
	}
	if g.Points[0].Longitude != 1 || g.Points[0].Latitude != 2 || g.Points[0].Altitude != 3 {
		t.Errorf("Points[0] = %+v, want (1,2,3)", g.Points[0])
	}
	if g.Points[1].Longitude != 4 || g.Points[1].Latitude != 5 || g.Points[1].Altitude != 6 {
		t.Errorf("Points[1] = %+v, want (4,5,6)", g.Points[1])
	}
}

// TestReaderTimeStampLenience exercises spec scenario 6: a <TimeStamp><when>
// lacking seconds and a timezone still parses, normalized to UTC with
// seconds zeroed.
func TestReaderTimeStampLenience(t *testing.T) {
	doc := `<kml><Placemark><TimeStamp><when>2009-03-14T18:10</when></TimeStamp></Placemark></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	feature := events[1].Feature
	if feature.Time == nil {
		t.Fatal("Feature.Time is nil, want a TimeSpan")
	}
	want := time.Date(2009, 3, 14, 18, 10, 0, 0, time.UTC)
	if !feature.Time.Begin.Equal(want) || !feature.Time.End.Equal(want) {
		t.Errorf("Feature.Time = {Begin: %v, End: %v}, want both %v", feature.Time.Begin, feature.Time.End, want)
	}
}

// TestReaderEmptyDocumentBoundary matches the stated boundary behavior: a
// KML with a single empty <Document/> produces DocumentStart,
// ContainerStart(Document), ContainerEnd and nothing else.
func TestReaderEmptyDocumentBoundary(t *testing.T) {
	doc := `<kml><Document></Document></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Kind != giscore.EventDocumentStart {
		t.Errorf("events[0].Kind = %v, want EventDocumentStart", events[0].Kind)
	}
	if events[1].Kind != giscore.EventContainerStart || events[1].ContainerStart.Kind != giscore.ContainerDocument {
		t.Errorf("events[1] = %+v, want ContainerStart(Document)", events[1])
	}
	if events[2].Kind != giscore.EventContainerEnd {
		t.Errorf("events[2].Kind = %v, want EventContainerEnd", events[2].Kind)
	}
}

// TestReaderContainerNameAttachedAfterOpen confirms a <name> child of a
// just-opened Document mutates the already-emitted ContainerStart in place
// rather than arriving as a separate event.
func TestReaderContainerNameAttachedAfterOpen(t *testing.T) {
	doc := `<kml><Document><name>My Doc</name><Folder><name>Sub</name></Folder></Document></kml>`
	r := newReader(t, doc)
	defer r.Close()

	events := drainAll(t, r)
	// DocumentStart, ContainerStart(Document), ContainerStart(Folder), ContainerEnd, ContainerEnd
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	docStart := events[1].ContainerStart
	if docStart.Name != "My Doc" {
		t.Errorf("Document ContainerStart.Name = %q, want %q", docStart.Name, "My Doc")
	}
	folderStart := events[2].ContainerStart
	if folderStart.Name != "Sub" {
		t.Errorf("Folder ContainerStart.Name = %q, want %q", folderStart.Name, "Sub")
	}
}

func TestReaderReadAfterCloseErrors(t *testing.T) {
	r := newReader(t, `<kml></kml>`)
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	_, err := r.Read()
	if _, ok := err.(*giscore.ErrStreamClosed); !ok {
		t.Fatalf("Read() after Close() error = %v, want *ErrStreamClosed", err)
	}
}
