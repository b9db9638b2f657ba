package kml

import (
	"encoding/xml"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
)

// parseFeatureElement parses a Placemark/NetworkLink/GroundOverlay/
// ScreenOverlay/PhotoOverlay subtree (handleProperties in spec §4.3's
// vocabulary) and returns the Feature event, having already queued ahead of
// it (via the embedded look-ahead Deque) any Style/StyleMap the feature
// defines inline — those must reach the consumer before the Feature that
// references them.
func (r *Reader) parseFeatureElement(start xml.StartElement) (*giscore.Event, error) {
	feature := giscore.NewFeature()
	adHocFields := make(map[string]*giscore.SimpleField)

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}

		t, ok := tok.(xml.StartElement)
		if !ok {
			if end, ok := tok.(xml.EndElement); ok && end.Name.Local == start.Name.Local {
				r.Queue.AddLast(&giscore.Event{Kind: giscore.EventFeature, Feature: feature})
				e, _ := r.DrainSaved()
				return e, nil
			}
			continue
		}

		switch classify(t.Name.Space, r.registeredNS) {
		case nsW3C:
			el, err := captureForeignElement(r.dec, t)
			if err != nil {
				return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
			}
			feature.ForeignElements = append(feature.ForeignElements, el)
			continue
		case nsGX:
			if t.Name.Local == "altitudeMode" {
				// Folded into the geometry's own altitudeMode when the
				// geometry is parsed; a bare gx:altitudeMode outside a
				// geometry has nothing to fold into, so it is preserved.
				text, err := readCharData(r.dec)
				if err != nil {
					return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
				}
				feature.ForeignElements = append(feature.ForeignElements, &giscore.Element{
					Namespace: t.Name.Space, Name: t.Name.Local, Text: text,
				})
				continue
			}
			el, err := captureForeignElement(r.dec, t)
			if err != nil {
				return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
			}
			feature.ForeignElements = append(feature.ForeignElements, el)
			continue
		case nsUnknown:
			if err := skipElement(r.dec); err != nil {
				return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
			}
			continue
		}

		if err := r.handleFeatureProperty(t, feature, adHocFields); err != nil {
			return nil, err
		}
	}
}

func (r *Reader) handleFeatureProperty(t xml.StartElement, feature *giscore.Feature, adHocFields map[string]*giscore.SimpleField) error {
	switch t.Name.Local {
	case "name":
		text, err := readCharData(r.dec)
		if err != nil {
			return wrapXMLErr(err)
		}
		feature.Name = text
	case "description":
		text, err := readCharData(r.dec)
		if err != nil {
			return wrapXMLErr(err)
		}
		feature.Description = text
	case "Snippet", "snippet":
		text, err := readCharData(r.dec)
		if err != nil {
			return wrapXMLErr(err)
		}
		feature.Snippet = text
	case "visibility":
		text, err := readCharData(r.dec)
		if err != nil {
			return wrapXMLErr(err)
		}
		if v, ok := parseVisibility(text); ok {
			feature.Visibility = v
		}
	case "styleUrl":
		text, err := readCharData(r.dec)
		if err != nil {
			return wrapXMLErr(err)
		}
		feature.StyleURL = text
	case "Style":
		style, err := r.parseStyleElement(t)
		if err != nil {
			return err
		}
		feature.InlineStyle = style
		feature.StyleURL = "#" + style.ID
		r.Queue.AddLast(&giscore.Event{Kind: giscore.EventStyle, Style: style})
	case "StyleMap":
		sm, err := r.parseStyleMapElement(t)
		if err != nil {
			return err
		}
		feature.StyleURL = "#" + sm.ID
		r.Queue.AddLast(&giscore.Event{Kind: giscore.EventStyleMap, StyleMap: sm})
	case "Region":
		b, err := r.parseRegion(t)
		if err != nil {
			return err
		}
		feature.Region = b
	case "TimeStamp":
		ts, err := r.parseTimeStamp(t)
		if err != nil {
			return err
		}
		feature.Time = ts
	case "TimeSpan":
		ts, err := r.parseTimeSpan(t)
		if err != nil {
			return err
		}
		feature.Time = ts
	case "LookAt", "Camera":
		v, err := r.parseViewGroup(t)
		if err != nil {
			return err
		}
		feature.View = v
	case "ExtendedData":
		if err := r.parseExtendedData(r.dec, &feature.Row, adHocFields); err != nil {
			return wrapXMLErr(err)
		}
	case "Point", "LineString", "LinearRing", "Polygon", "MultiGeometry", "Model":
		geom, err := r.parseGeometry(t)
		if err != nil {
			return err
		}
		feature.Geometry = geom
	default:
		xlog.Log.Debug().Str("element", t.Name.Local).Msg("kml: property not modeled, skipping")
		if err := skipElement(r.dec); err != nil {
			return wrapXMLErr(err)
		}
	}
	return nil
}

func wrapXMLErr(err error) error {
	return &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
}

func (r *Reader) parseRegion(start xml.StartElement) (*giscore.Bounds, error) {
	var b giscore.Bounds
	err := r.walkSimpleChildren(start.Name.Local, nil, func(child xml.StartElement) error {
		if child.Name.Local != "LatLonAltBox" {
			return skipElement(r.dec)
		}
		return r.walkSimpleChildren("LatLonAltBox", func(local, text string) {
			v := parseFloatLenient(text)
			switch local {
			case "north":
				b.MaxLat = v
			case "south":
				b.MinLat = v
			case "east":
				b.MaxLon = v
			case "west":
				b.MinLon = v
			}
		}, nil)
	})
	if err != nil {
		return nil, wrapXMLErr(err)
	}
	return &b, nil
}

func (r *Reader) parseTimeStamp(start xml.StartElement) (*giscore.TimeSpan, error) {
	var ts giscore.TimeSpan
	err := r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		if local == "when" {
			t := parseKMLTime(text)
			ts.Begin, ts.End = t, t
		}
	}, nil)
	if err != nil {
		return nil, wrapXMLErr(err)
	}
	return &ts, nil
}

func (r *Reader) parseTimeSpan(start xml.StartElement) (*giscore.TimeSpan, error) {
	var ts giscore.TimeSpan
	err := r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		switch local {
		case "begin":
			ts.Begin = parseKMLTime(text)
		case "end":
			ts.End = parseKMLTime(text)
		}
	}, nil)
	if err != nil {
		return nil, wrapXMLErr(err)
	}
	return &ts, nil
}

func (r *Reader) parseViewGroup(start xml.StartElement) (*giscore.ViewGroup, error) {
	vg := &giscore.ViewGroup{Kind: start.Name.Local, Values: make(map[string]float64)}
	err := r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		switch local {
		case "longitude", "latitude", "altitude", "heading", "tilt", "roll", "range":
			vg.Values[local] = parseFloatLenient(text)
		}
	}, nil)
	if err != nil {
		return nil, wrapXMLErr(err)
	}
	return vg, nil
}
