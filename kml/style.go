package kml

import (
	"encoding/xml"
	"strconv"

	"github.com/cdarbon/giscore"
)

func (r *Reader) parseStyleElement(start xml.StartElement) (*giscore.Style, error) {
	style := &giscore.Style{ID: attr(start, "id")}
	if style.ID == "" {
		style.ID = newSyntheticID()
	}

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "IconStyle":
				style.Icon, err = r.parseIconStyle(t)
			case "LineStyle":
				style.Line, err = r.parseLineStyle(t)
			case "PolyStyle":
				style.Poly, err = r.parsePolyStyle(t)
			case "LabelStyle":
				style.Label, err = r.parseLabelStyle(t)
			case "BalloonStyle":
				style.Balloon, err = r.parseBalloonStyle(t)
			case "ListStyle":
				style.List, err = r.parseListStyle(t)
			default:
				err = skipElement(r.dec)
			}
			if err != nil {
				return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
			}
		case xml.EndElement:
			if t.Name.Local == "Style" {
				return style, nil
			}
		}
	}
}

func (r *Reader) parseIconStyle(start xml.StartElement) (*giscore.IconStyle, error) {
	s := &giscore.IconStyle{Scale: 1.0}
	onLeaf := func(local, text string) {
		switch local {
		case "scale":
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				s.Scale = v
			}
		case "color":
			s.Color = parseColor(text)
		case "href":
			s.Href = text
		}
	}
	return s, r.walkSimpleChildren(start.Name.Local, onLeaf, func(icon xml.StartElement) error {
		if icon.Name.Local == "Icon" {
			return r.walkSimpleChildren("Icon", func(local, text string) {
				if local == "href" {
					s.Href = text
				}
			}, nil)
		}
		text, err := readCharData(r.dec)
		if err != nil {
			return err
		}
		onLeaf(icon.Name.Local, text)
		return nil
	})
}

func (r *Reader) parseLineStyle(start xml.StartElement) (*giscore.LineStyle, error) {
	s := &giscore.LineStyle{Width: 1.0}
	return s, r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		switch local {
		case "width":
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				s.Width = v
			}
		case "color":
			s.Color = parseColor(text)
		}
	}, nil)
}

func (r *Reader) parsePolyStyle(start xml.StartElement) (*giscore.PolyStyle, error) {
	s := &giscore.PolyStyle{Fill: true, Outline: true}
	return s, r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		switch local {
		case "color":
			s.Color = parseColor(text)
		case "fill":
			s.Fill = parseBoolText(text)
		case "outline":
			s.Outline = parseBoolText(text)
		}
	}, nil)
}

func (r *Reader) parseLabelStyle(start xml.StartElement) (*giscore.LabelStyle, error) {
	s := &giscore.LabelStyle{Scale: 1.0}
	return s, r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		switch local {
		case "scale":
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				s.Scale = v
			}
		case "color":
			s.Color = parseColor(text)
		}
	}, nil)
}

func (r *Reader) parseBalloonStyle(start xml.StartElement) (*giscore.BalloonStyle, error) {
	s := &giscore.BalloonStyle{}
	return s, r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		switch local {
		case "text":
			s.Text = text
		case "bgColor":
			s.BackgroundColor = parseColor(text)
		case "textColor":
			s.TextColor = parseColor(text)
		}
	}, nil)
}

func (r *Reader) parseListStyle(start xml.StartElement) (*giscore.ListStyle, error) {
	s := &giscore.ListStyle{}
	return s, r.walkSimpleChildren(start.Name.Local, func(local, text string) {
		if local == "listItemType" {
			s.ListItemType = text
		}
	}, nil)
}

// walkSimpleChildren reads leaf-valued children of the element whose
// StartElement was already consumed (closing name is closingLocal), invoking
// onLeaf(local, text) for each. If onNested is non-nil, every child
// StartElement is handed to it instead of onLeaf (e.g. so IconStyle can
// descend into <Icon><href>), and it must consume that child through its
// end tag; a non-nil error from it aborts the walk.
func (r *Reader) walkSimpleChildren(closingLocal string, onLeaf func(local, text string), onNested func(xml.StartElement) error) error {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if onNested != nil {
				if err := onNested(t); err != nil {
					return err
				}
				continue
			}
			text, err := readCharData(r.dec)
			if err != nil {
				return err
			}
			onLeaf(t.Name.Local, text)
		case xml.EndElement:
			if t.Name.Local == closingLocal {
				return nil
			}
		}
	}
}

func (r *Reader) parseStyleMapElement(start xml.StartElement) (*giscore.StyleMap, error) {
	sm := &giscore.StyleMap{ID: attr(start, "id")}
	if sm.ID == "" {
		sm.ID = newSyntheticID()
	}
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "Pair" {
				if err := skipElement(r.dec); err != nil {
					return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
				}
				continue
			}
			pair, err := r.parseStyleMapPair(t)
			if err != nil {
				return nil, err
			}
			sm.Pairs = append(sm.Pairs, pair)
		case xml.EndElement:
			if t.Name.Local == "StyleMap" {
				return sm, nil
			}
		}
	}
}

func (r *Reader) parseStyleMapPair(start xml.StartElement) (giscore.StyleMapPair, error) {
	pair := giscore.StyleMapPair{Key: giscore.StyleMapNormal}
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return pair, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "key":
				text, err := readCharData(r.dec)
				if err != nil {
					return pair, err
				}
				if text == "highlight" {
					pair.Key = giscore.StyleMapHighlight
				}
			case "styleUrl":
				text, err := readCharData(r.dec)
				if err != nil {
					return pair, err
				}
				pair.StyleURL = text
			case "Style":
				style, err := r.parseStyleElement(t)
				if err != nil {
					return pair, err
				}
				pair.InlineStyle = style
			default:
				if err := skipElement(r.dec); err != nil {
					return pair, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "Pair" {
				return pair, nil
			}
		}
	}
}
