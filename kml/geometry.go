package kml

import (
	"encoding/xml"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
)

// parseGeometry dispatches a KML geometry element to its decoder, applying
// the degenerate-geometry coercion rules documented on coerceRing and
// coerceMultiGeometry. A LineString with a single point becomes a Point and
// one with no points yields no geometry.
func (r *Reader) parseGeometry(start xml.StartElement) (*giscore.Geometry, error) {
	switch start.Name.Local {
	case "Point":
		pts, attrs, err := r.readGeometryBody(start.Name.Local)
		if err != nil {
			return nil, err
		}
		if len(pts) == 0 {
			return nil, nil
		}
		g := giscore.NewPoint(pts[0])
		g.Attrs = attrs
		return g, nil
	case "LineString":
		pts, attrs, err := r.readGeometryBody(start.Name.Local)
		if err != nil {
			return nil, err
		}
		var g *giscore.Geometry
		switch len(pts) {
		case 0:
		case 1:
			g = giscore.NewPoint(pts[0])
		default:
			g = giscore.NewLine(pts)
		}
		if g != nil {
			g.Attrs = attrs
		}
		return g, nil
	case "LinearRing":
		pts, attrs, err := r.readGeometryBody(start.Name.Local)
		if err != nil {
			return nil, err
		}
		g := coerceRing(pts)
		if g != nil {
			g.Attrs = attrs
		}
		return g, nil
	case "Polygon":
		return r.parsePolygonGeometry(start)
	case "MultiGeometry":
		return r.parseMultiGeometry(start)
	case "Model":
		return r.parseModelGeometry(start)
	}
	if err := skipElement(r.dec); err != nil {
		return nil, wrapXMLErr(err)
	}
	return nil, nil
}

// coerceRing implements the degenerate-geometry rule shared by a bare
// LinearRing and a Polygon's outer boundary: 1 point collapses to a Point, 2
// or 3 points collapse to a Line, 4 or more remain a LinearRing. A
// zero-point ring yields no geometry at all.
func coerceRing(pts []giscore.Geodetic3DPoint) *giscore.Geometry {
	switch len(pts) {
	case 0:
		return nil
	case 1:
		return giscore.NewPoint(pts[0])
	case 2, 3:
		return giscore.NewLine(pts)
	default:
		return giscore.NewLinearRing(pts)
	}
}

func (r *Reader) parsePolygonGeometry(start xml.StartElement) (*giscore.Geometry, error) {
	var outerPts []giscore.Geodetic3DPoint
	var innerRings [][]giscore.Geodetic3DPoint
	var attrs giscore.Attrs
	sawGXAltitudeMode, sawKMLAltitudeMode := false, false

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, wrapXMLErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			isGXAltitudeMode := t.Name.Local == "altitudeMode" && classify(t.Name.Space, r.registeredNS) == nsGX
			switch {
			case t.Name.Local == "outerBoundaryIs":
				outerPts, err = r.readBoundaryRing(t.Name.Local)
			case t.Name.Local == "innerBoundaryIs":
				var pts []giscore.Geodetic3DPoint
				pts, err = r.readBoundaryRing(t.Name.Local)
				if err == nil && len(pts) > 0 {
					innerRings = append(innerRings, pts)
				}
			case isGXAltitudeMode:
				var text string
				text, err = readCharData(r.dec)
				if err == nil && !sawKMLAltitudeMode {
					attrs.AltitudeMode = parseAltitudeMode(text)
					sawGXAltitudeMode = true
				}
			case t.Name.Local == "altitudeMode":
				var text string
				text, err = readCharData(r.dec)
				if err == nil {
					attrs.AltitudeMode = parseAltitudeMode(text)
					sawKMLAltitudeMode = true
				}
			case t.Name.Local == "tessellate":
				var text string
				text, err = readCharData(r.dec)
				if err == nil {
					attrs.Tessellate = parseBoolText(text)
				}
			case t.Name.Local == "extrude":
				var text string
				text, err = readCharData(r.dec)
				if err == nil {
					attrs.Extrude = parseBoolText(text)
				}
			default:
				err = skipElement(r.dec)
			}
			if err != nil {
				return nil, wrapXMLErr(err)
			}
		case xml.EndElement:
			if t.Name.Local == "Polygon" {
				_ = sawGXAltitudeMode
				outer := coerceRing(outerPts)
				if outer == nil {
					return nil, nil
				}
				if outer.Type != giscore.GeometryLinearRing {
					// Degenerate outer ring collapses the whole polygon to
					// that Point/Line; inner rings are discarded, matching
					// a polygon that never closes a real area.
					outer.Attrs = attrs
					return outer, nil
				}
				var inners []*giscore.Geometry
				for _, pts := range innerRings {
					inners = append(inners, giscore.NewLinearRing(pts))
				}
				return &giscore.Geometry{Type: giscore.GeometryPolygon, Attrs: attrs, Outer: outer, Inners: inners}, nil
			}
		}
	}
}

// readBoundaryRing reads an outerBoundaryIs/innerBoundaryIs wrapper down to
// its LinearRing's coordinates.
func (r *Reader) readBoundaryRing(closingLocal string) ([]giscore.Geodetic3DPoint, error) {
	var pts []giscore.Geodetic3DPoint
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "LinearRing" {
				p, _, err := r.readGeometryBody("LinearRing")
				if err != nil {
					return nil, err
				}
				pts = p
			} else if err := skipElement(r.dec); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == closingLocal {
				return pts, nil
			}
		}
	}
}

// readGeometryBody reads the common direct children of Point/LineString/
// LinearRing: coordinates, altitudeMode (kml: wins over gx: on conflict),
// tessellate, extrude.
func (r *Reader) readGeometryBody(closingLocal string) ([]giscore.Geodetic3DPoint, giscore.Attrs, error) {
	var pts []giscore.Geodetic3DPoint
	var attrs giscore.Attrs
	sawKMLAltitudeMode := false

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, attrs, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "coordinates":
				text, err := readCharData(r.dec)
				if err != nil {
					return nil, attrs, err
				}
				pts = parseCoordinates(text)
			case t.Name.Local == "altitudeMode" && classify(t.Name.Space, r.registeredNS) == nsGX:
				text, err := readCharData(r.dec)
				if err != nil {
					return nil, attrs, err
				}
				if !sawKMLAltitudeMode {
					attrs.AltitudeMode = parseAltitudeMode(text)
				}
			case t.Name.Local == "altitudeMode":
				text, err := readCharData(r.dec)
				if err != nil {
					return nil, attrs, err
				}
				attrs.AltitudeMode = parseAltitudeMode(text)
				sawKMLAltitudeMode = true
			case t.Name.Local == "tessellate":
				text, err := readCharData(r.dec)
				if err != nil {
					return nil, attrs, err
				}
				attrs.Tessellate = parseBoolText(text)
			case t.Name.Local == "extrude":
				text, err := readCharData(r.dec)
				if err != nil {
					return nil, attrs, err
				}
				attrs.Extrude = parseBoolText(text)
			default:
				if err := skipElement(r.dec); err != nil {
					return nil, attrs, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == closingLocal {
				return pts, attrs, nil
			}
		}
	}
}

// parseMultiGeometry recurses into each child geometry and applies the
// collection-level coercion: no children yields nil, exactly one child is
// unwrapped to stand alone, an all-Point collection becomes a MultiPoint,
// and anything else becomes a GeometryBag.
func (r *Reader) parseMultiGeometry(start xml.StartElement) (*giscore.Geometry, error) {
	var children []*giscore.Geometry
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, wrapXMLErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Point", "LineString", "LinearRing", "Polygon", "MultiGeometry", "Model":
				child, err := r.parseGeometry(t)
				if err != nil {
					return nil, err
				}
				if child != nil {
					children = append(children, child)
				}
			default:
				if err := skipElement(r.dec); err != nil {
					return nil, wrapXMLErr(err)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "MultiGeometry" {
				return coerceMultiGeometry(children), nil
			}
		}
	}
}

func coerceMultiGeometry(children []*giscore.Geometry) *giscore.Geometry {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	allPoints := true
	for _, c := range children {
		if c.Type != giscore.GeometryPoint {
			allPoints = false
			break
		}
	}
	if allPoints {
		pts := make([]giscore.Geodetic3DPoint, 0, len(children))
		for _, c := range children {
			pts = append(pts, *c.Point)
		}
		return &giscore.Geometry{Type: giscore.GeometryMultiPoint, Points: pts}
	}
	return &giscore.Geometry{Type: giscore.GeometryBag, Parts: children}
}

func (r *Reader) parseModelGeometry(start xml.StartElement) (*giscore.Geometry, error) {
	g := &giscore.Geometry{Type: giscore.GeometryModel}
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, wrapXMLErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "altitudeMode":
				text, err := readCharData(r.dec)
				if err != nil {
					return nil, wrapXMLErr(err)
				}
				g.Attrs.AltitudeMode = parseAltitudeMode(text)
			case "Location":
				loc, err := r.parseModelLocation(t)
				if err != nil {
					return nil, err
				}
				g.Location = loc
			case "Scale":
				err := r.walkSimpleChildren("Scale", func(local, text string) {
					v := parseFloatLenient(text)
					switch local {
					case "x":
						g.ModelScale[0] = v
					case "y":
						g.ModelScale[1] = v
					case "z":
						g.ModelScale[2] = v
					}
				}, nil)
				if err != nil {
					return nil, wrapXMLErr(err)
				}
			case "Orientation":
				err := r.walkSimpleChildren("Orientation", func(local, text string) {
					if local == "heading" {
						g.ModelHeading = parseFloatLenient(text)
					}
				}, nil)
				if err != nil {
					return nil, wrapXMLErr(err)
				}
			default:
				if err := skipElement(r.dec); err != nil {
					return nil, wrapXMLErr(err)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "Model" {
				if g.ModelScale == ([3]float64{}) {
					g.ModelScale = [3]float64{1, 1, 1}
				}
				return g, nil
			}
		}
	}
}

func (r *Reader) parseModelLocation(start xml.StartElement) (*giscore.Geodetic3DPoint, error) {
	var lon, lat, alt float64
	hasAlt := false
	err := r.walkSimpleChildren("Location", func(local, text string) {
		v := parseFloatLenient(text)
		switch local {
		case "longitude":
			lon = v
		case "latitude":
			lat = v
		case "altitude":
			alt = v
			hasAlt = true
		}
	}, nil)
	if err != nil {
		return nil, wrapXMLErr(err)
	}
	p, err := giscore.NewGeodetic3DPoint(lon, lat, alt, hasAlt)
	if err != nil {
		xlog.Log.Warn().Float64("lon", lon).Float64("lat", lat).Msg("kml: invalid Model location, dropping")
		return nil, nil
	}
	return &p, nil
}
