package kml

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
)

const kmlNamespace = "http://www.opengis.net/kml/2.2"

// Writer serializes an Event stream to KML. It is a C7 output writer driven
// token-by-token from the same Event model the Reader produces, rather than
// a fixed struct tree passed to xml.MarshalIndent — the element-name
// vocabulary below is grounded on a struct-tag KML exporter elsewhere in the
// corpus, adapted to a streaming writer so the output mirrors exactly the
// order events arrive in (including the look-ahead-queued Style/StyleMap
// ahead of the Feature that references them).
type Writer struct {
	out     io.WriteCloser
	enc     *xml.Encoder
	started bool
	stack   []string
}

// Create wraps w as a streaming KML Writer.
func Create(w io.WriteCloser) *Writer {
	return &Writer{out: w, enc: xml.NewEncoder(w)}
}

// Write implements giscore.Writer.
func (w *Writer) Write(e *giscore.Event) error {
	if !w.started {
		if err := w.writeProlog(); err != nil {
			return err
		}
	}

	switch e.Kind {
	case giscore.EventDocumentStart:
		return nil
	case giscore.EventContainerStart:
		return w.writeContainerStart(e.ContainerStart)
	case giscore.EventContainerEnd:
		return w.writeContainerEnd()
	case giscore.EventStyle:
		return w.writeStyle(e.Style)
	case giscore.EventStyleMap:
		return w.writeStyleMap(e.StyleMap)
	case giscore.EventSchema:
		return w.writeSchema(e.Schema)
	case giscore.EventFeature:
		return w.writeFeature(e.Feature)
	case giscore.EventComment:
		return w.enc.EncodeToken(xml.Comment(e.Comment.Text))
	default:
		xlog.Log.Debug().Str("kind", e.Kind.String()).Msg("kml writer: event kind not serialized")
		return nil
	}
}

func (w *Writer) writeProlog() error {
	w.started = true
	return w.startElement("kml", xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: kmlNamespace})
}

func (w *Writer) writeContainerStart(cs *giscore.ContainerStart) error {
	name := "Folder"
	if cs.Kind == giscore.ContainerDocument {
		name = "Document"
	}
	attrs := idAttr(cs.ID)
	if err := w.startElement(name, attrs...); err != nil {
		return err
	}
	if cs.Name != "" {
		if err := w.leafElement("name", cs.Name); err != nil {
			return err
		}
	}
	if cs.Description != "" {
		if err := w.leafElement("description", cs.Description); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeContainerEnd() error {
	return w.endElement()
}

func (w *Writer) writeStyle(s *giscore.Style) error {
	if err := w.startElement("Style", idAttr(s.ID)...); err != nil {
		return err
	}
	if s.Icon != nil {
		if err := w.startElement("IconStyle"); err != nil {
			return err
		}
		if s.Icon.Color != nil {
			w.leafElement("color", colorHex(*s.Icon.Color))
		}
		w.leafElement("scale", formatFloat(s.Icon.Scale))
		if s.Icon.Href != "" {
			w.startElement("Icon")
			w.leafElement("href", s.Icon.Href)
			w.endElement()
		}
		if err := w.endElement(); err != nil {
			return err
		}
	}
	if s.Line != nil {
		w.startElement("LineStyle")
		if s.Line.Color != nil {
			w.leafElement("color", colorHex(*s.Line.Color))
		}
		w.leafElement("width", formatFloat(s.Line.Width))
		w.endElement()
	}
	if s.Poly != nil {
		w.startElement("PolyStyle")
		if s.Poly.Color != nil {
			w.leafElement("color", colorHex(*s.Poly.Color))
		}
		w.leafElement("fill", formatBool(s.Poly.Fill))
		w.leafElement("outline", formatBool(s.Poly.Outline))
		w.endElement()
	}
	if s.Label != nil {
		w.startElement("LabelStyle")
		if s.Label.Color != nil {
			w.leafElement("color", colorHex(*s.Label.Color))
		}
		w.leafElement("scale", formatFloat(s.Label.Scale))
		w.endElement()
	}
	if s.Balloon != nil {
		w.startElement("BalloonStyle")
		if s.Balloon.Text != "" {
			w.leafElement("text", s.Balloon.Text)
		}
		w.endElement()
	}
	if s.List != nil {
		w.startElement("ListStyle")
		if s.List.ListItemType != "" {
			w.leafElement("listItemType", s.List.ListItemType)
		}
		w.endElement()
	}
	return w.endElement()
}

func (w *Writer) writeStyleMap(sm *giscore.StyleMap) error {
	if err := w.startElement("StyleMap", idAttr(sm.ID)...); err != nil {
		return err
	}
	for _, pair := range sm.Pairs {
		if err := w.startElement("Pair"); err != nil {
			return err
		}
		key := "normal"
		if pair.Key == giscore.StyleMapHighlight {
			key = "highlight"
		}
		w.leafElement("key", key)
		if pair.StyleURL != "" {
			w.leafElement("styleUrl", pair.StyleURL)
		}
		if pair.InlineStyle != nil {
			if err := w.writeStyle(pair.InlineStyle); err != nil {
				return err
			}
		}
		if err := w.endElement(); err != nil {
			return err
		}
	}
	return w.endElement()
}

func (w *Writer) writeSchema(s *giscore.Schema) error {
	attrs := []xml.Attr{{Name: xml.Name{Local: "name"}, Value: s.Name}, {Name: xml.Name{Local: "id"}, Value: s.URI}}
	if err := w.startElement("Schema", attrs...); err != nil {
		return err
	}
	for _, f := range s.Fields() {
		fa := []xml.Attr{
			{Name: xml.Name{Local: "name"}, Value: f.Name},
			{Name: xml.Name{Local: "type"}, Value: simpleFieldTypeName(f.Type)},
		}
		if err := w.startElement("SimpleField", fa...); err != nil {
			return err
		}
		if f.AliasName != "" {
			if err := w.leafElement("displayName", f.AliasName); err != nil {
				return err
			}
		}
		if err := w.endElement(); err != nil {
			return err
		}
	}
	return w.endElement()
}

func (w *Writer) writeFeature(f *giscore.Feature) error {
	if err := w.startElement("Placemark"); err != nil {
		return err
	}
	if f.Name != "" {
		w.leafElement("name", f.Name)
	}
	if f.Description != "" {
		w.leafElement("description", f.Description)
	}
	if !f.Visibility {
		w.leafElement("visibility", "0")
	}
	if f.StyleURL != "" {
		// The Style/StyleMap this references was already written as its own
		// preceding element (see Write's EventStyle/EventStyleMap cases),
		// matching the look-ahead ordering the reader itself produces —
		// the writer never re-nests a Style inside its Placemark.
		w.leafElement("styleUrl", f.StyleURL)
	}
	if f.Time != nil {
		if err := w.writeTimeSpan(f.Time); err != nil {
			return err
		}
	}
	if f.Geometry != nil {
		if err := w.writeGeometry(f.Geometry); err != nil {
			return err
		}
	}
	return w.endElement()
}

func (w *Writer) writeTimeSpan(ts *giscore.TimeSpan) error {
	if ts.Begin.Equal(ts.End) {
		w.startElement("TimeStamp")
		w.leafElement("when", ts.Begin.UTC().Format("2006-01-02T15:04:05Z"))
		return w.endElement()
	}
	w.startElement("TimeSpan")
	if !ts.Begin.IsZero() {
		w.leafElement("begin", ts.Begin.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if !ts.End.IsZero() {
		w.leafElement("end", ts.End.UTC().Format("2006-01-02T15:04:05Z"))
	}
	return w.endElement()
}

func (w *Writer) writeGeometry(g *giscore.Geometry) error {
	switch g.Type {
	case giscore.GeometryPoint:
		return w.writeCoordElement("Point", []giscore.Geodetic3DPoint{*g.Point}, g.Attrs)
	case giscore.GeometryLine:
		return w.writeCoordElement("LineString", g.Points, g.Attrs)
	case giscore.GeometryLinearRing:
		return w.writeCoordElement("LinearRing", g.Points, g.Attrs)
	case giscore.GeometryPolygon:
		return w.writePolygon(g)
	case giscore.GeometryMultiPoint, giscore.GeometryMultiLine, giscore.GeometryMultiPolygons, giscore.GeometryBag:
		return w.writeMultiGeometry(g)
	default:
		xlog.Log.Debug().Str("type", g.Type.String()).Msg("kml writer: geometry type not serialized")
		return nil
	}
}

func (w *Writer) writeCoordElement(name string, pts []giscore.Geodetic3DPoint, attrs giscore.Attrs) error {
	if err := w.startElement(name); err != nil {
		return err
	}
	w.writeGeomAttrs(attrs)
	if err := w.leafElement("coordinates", formatCoordinates(pts)); err != nil {
		return err
	}
	return w.endElement()
}

func (w *Writer) writeGeomAttrs(attrs giscore.Attrs) {
	if attrs.Extrude {
		w.leafElement("extrude", "1")
	}
	if attrs.Tessellate {
		w.leafElement("tessellate", "1")
	}
	if attrs.AltitudeMode != giscore.AltitudeClamp {
		w.leafElement("altitudeMode", altitudeModeName(attrs.AltitudeMode))
	}
}

func (w *Writer) writePolygon(g *giscore.Geometry) error {
	if err := w.startElement("Polygon"); err != nil {
		return err
	}
	w.writeGeomAttrs(g.Attrs)
	w.startElement("outerBoundaryIs")
	w.writeCoordElement("LinearRing", g.Outer.Points, giscore.Attrs{})
	w.endElement()
	for _, inner := range g.Inners {
		w.startElement("innerBoundaryIs")
		w.writeCoordElement("LinearRing", inner.Points, giscore.Attrs{})
		w.endElement()
	}
	return w.endElement()
}

func (w *Writer) writeMultiGeometry(g *giscore.Geometry) error {
	if err := w.startElement("MultiGeometry"); err != nil {
		return err
	}
	if g.Type == giscore.GeometryMultiPoint {
		for _, p := range g.Points {
			if err := w.writeGeometry(giscore.NewPoint(p)); err != nil {
				return err
			}
		}
	} else {
		for _, part := range g.Parts {
			if err := w.writeGeometry(part); err != nil {
				return err
			}
		}
	}
	return w.endElement()
}

// Close closes every still-open element and the underlying writer.
func (w *Writer) Close() error {
	for len(w.stack) > 0 {
		if err := w.endElement(); err != nil {
			return err
		}
	}
	if err := w.enc.Flush(); err != nil {
		return &giscore.ErrIO{Op: "flush kml", Err: err}
	}
	return w.out.Close()
}

func (w *Writer) startElement(name string, attrs ...xml.Attr) error {
	if err := w.enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}); err != nil {
		return &giscore.ErrIO{Op: "write kml element", Err: err}
	}
	w.stack = append(w.stack, name)
	return nil
}

func (w *Writer) endElement() error {
	if len(w.stack) == 0 {
		return nil
	}
	name := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	if err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}}); err != nil {
		return &giscore.ErrIO{Op: "write kml element", Err: err}
	}
	return nil
}

func (w *Writer) charData(text string) error {
	if err := w.enc.EncodeToken(xml.CharData(text)); err != nil {
		return &giscore.ErrIO{Op: "write kml char data", Err: err}
	}
	return nil
}

func (w *Writer) leafElement(name, text string) error {
	if err := w.startElement(name); err != nil {
		return err
	}
	if err := w.charData(text); err != nil {
		return err
	}
	return w.endElement()
}

func idAttr(id string) []xml.Attr {
	if id == "" {
		return nil
	}
	return []xml.Attr{{Name: xml.Name{Local: "id"}, Value: id}}
}

func colorHex(c uint32) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = hexDigits[c&0xF]
		c >>= 4
	}
	return string(b)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatCoordinates(pts []giscore.Geodetic3DPoint) string {
	var out []byte
	for i, p := range pts {
		if i > 0 {
			out = append(out, ' ')
		}
		out = strconv.AppendFloat(out, p.Longitude, 'g', -1, 64)
		out = append(out, ',')
		out = strconv.AppendFloat(out, p.Latitude, 'g', -1, 64)
		out = append(out, ',')
		out = strconv.AppendFloat(out, p.Altitude, 'g', -1, 64)
	}
	return string(out)
}

func simpleFieldTypeName(t giscore.FieldType) string {
	switch t {
	case giscore.FieldInt:
		return "int"
	case giscore.FieldShort:
		return "short"
	case giscore.FieldFloat:
		return "float"
	case giscore.FieldDouble:
		return "double"
	case giscore.FieldBool:
		return "bool"
	case giscore.FieldLong:
		return "long"
	default:
		return "string"
	}
}

func altitudeModeName(m giscore.AltitudeMode) string {
	switch m {
	case giscore.AltitudeRelative:
		return "relativeToGround"
	case giscore.AltitudeAbsolute:
		return "absolute"
	default:
		return "clampToGround"
	}
}
