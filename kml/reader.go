package kml

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
	"github.com/google/uuid"
)

// Reader is a streaming KML Reader built directly on encoding/xml.Decoder's
// token API (not xml.Unmarshal — a batch marshal/unmarshal struct-tag
// reader cannot provide the look-ahead, out-of-order tolerance, and
// recoverable-error semantics spec §4.3 requires).
type Reader struct {
	giscore.StreamBase

	dec    *xml.Decoder
	closer io.Closer
	opts   giscore.KMLOptions

	registeredNS map[string]bool
	aliases      *aliasTable

	schemas     map[string]*giscore.Schema
	schemaOrder []*giscore.Schema

	containerStack []*giscore.ContainerStart
	pendingMeta    *giscore.ContainerStart

	documentStarted bool
	sawKMLRoot      bool
}

// Open wraps rc as a streaming KML Reader.
func Open(rc io.ReadCloser, opts giscore.KMLOptions) *Reader {
	return &Reader{
		dec:          xml.NewDecoder(rc),
		closer:       rc,
		opts:         opts,
		registeredNS: newRegisteredNamespaces(),
		aliases:      newAliasTable(),
		schemas:      make(map[string]*giscore.Schema),
	}
}

// EnumerateSchemas returns every Schema parsed so far, in emission order.
func (r *Reader) EnumerateSchemas() []*giscore.Schema { return r.schemaOrder }

// Close releases the underlying byte source. Idempotent.
func (r *Reader) Close() error {
	if r.Closed {
		return nil
	}
	r.Closed = true
	return r.closer.Close()
}

// Read implements giscore.Reader.
func (r *Reader) Read() (*giscore.Event, error) {
	if r.Closed {
		return nil, &giscore.ErrStreamClosed{Op: "Read"}
	}
	if e, ok := r.DrainSaved(); ok {
		return e, nil
	}
	if !r.documentStarted {
		r.documentStarted = true
		return &giscore.Event{Kind: giscore.EventDocumentStart, DocumentStart: &giscore.DocumentStart{Encoding: r.opts.Encoding}}, nil
	}

	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			event, err := r.dispatchStart(t)
			if err != nil {
				return nil, err
			}
			if event != nil {
				return event, nil
			}
			// event==nil, err==nil means "continue reading" (e.g. root
			// <kml> wrapper, or a skipped/unrecognized element).
		case xml.EndElement:
			if ev := r.dispatchEnd(t); ev != nil {
				return ev, nil
			}
		case xml.Comment:
			return &giscore.Event{Kind: giscore.EventComment, Comment: &giscore.Comment{Text: string(t)}}, nil
		}
	}
}

func (r *Reader) dispatchStart(t xml.StartElement) (*giscore.Event, error) {
	treatment := classify(t.Name.Space, r.registeredNS)
	switch treatment {
	case nsUnknown:
		xlog.Log.Debug().Str("element", t.Name.Local).Msg("kml: skipping element in unrecognized namespace")
		if err := skipElement(r.dec); err != nil {
			return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}
		return nil, nil
	case nsW3C, nsGX:
		// Top-level (non-feature-owned) foreign elements are captured and
		// discarded; handleProperties attaches them to a Feature when they
		// occur inside one (see parseFeatureElement).
		if _, err := captureForeignElement(r.dec, t); err != nil {
			return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
		}
		return nil, nil
	}

	r.clearPendingMetaIfNeeded(t.Name.Local)

	switch t.Name.Local {
	case "kml":
		r.sawKMLRoot = true
		return nil, nil
	case "Document", "Folder":
		return r.startContainer(t)
	case "Placemark", "NetworkLink", "GroundOverlay", "ScreenOverlay", "PhotoOverlay":
		return r.parseFeatureElement(t)
	case "Schema":
		return r.parseSchemaElement(t)
	case "Style":
		style, err := r.parseStyleElement(t)
		if err != nil {
			return nil, err
		}
		return &giscore.Event{Kind: giscore.EventStyle, Style: style}, nil
	case "StyleMap":
		sm, err := r.parseStyleMapElement(t)
		if err != nil {
			return nil, err
		}
		return &giscore.Event{Kind: giscore.EventStyleMap, StyleMap: sm}, nil
	case "name":
		if r.pendingMeta != nil {
			text, err := readCharData(r.dec)
			if err != nil {
				return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
			}
			r.pendingMeta.Name = text
			return nil, nil
		}
	case "description":
		if r.pendingMeta != nil {
			text, err := readCharData(r.dec)
			if err != nil {
				return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
			}
			r.pendingMeta.Description = text
			return nil, nil
		}
	}

	if kind, ok := r.aliases.resolve(t.Name.Local); ok && kind == "Placemark" {
		return r.parseFeatureElement(t)
	}

	xlog.Log.Debug().Str("element", t.Name.Local).Msg("kml: skipping unrecognized element")
	if err := skipElement(r.dec); err != nil {
		return nil, &giscore.ErrMalformedFormat{Format: "kml", Reason: "xml parse error", Err: err}
	}
	return nil, nil
}

// clearPendingMetaIfNeeded stops attributing loose <name>/<description>
// elements to the most recently opened container once a "real" child
// (feature, nested container, schema or style) begins.
func (r *Reader) clearPendingMetaIfNeeded(local string) {
	switch local {
	case "name", "description", "open", "visibility":
		return
	default:
		r.pendingMeta = nil
	}
}

func (r *Reader) startContainer(t xml.StartElement) (*giscore.Event, error) {
	kind := giscore.ContainerFolder
	if t.Name.Local == "Document" {
		kind = giscore.ContainerDocument
	}
	cs := &giscore.ContainerStart{Kind: kind, ID: attr(t, "id")}
	r.containerStack = append(r.containerStack, cs)
	r.pendingMeta = cs
	return &giscore.Event{Kind: giscore.EventContainerStart, ContainerStart: cs}, nil
}

func (r *Reader) dispatchEnd(t xml.EndElement) *giscore.Event {
	switch t.Name.Local {
	case "Document", "Folder":
		if len(r.containerStack) == 0 {
			return nil
		}
		r.containerStack = r.containerStack[:len(r.containerStack)-1]
		r.pendingMeta = nil
		return &giscore.Event{Kind: giscore.EventContainerEnd, ContainerEnd: &giscore.ContainerEnd{}}
	}
	return nil
}

func parseVisibility(s string) (bool, bool) {
	switch s {
	case "1", "true":
		return true, true
	case "0", "false":
		return false, true
	default:
		return false, false
	}
}

func parseAltitudeMode(s string) giscore.AltitudeMode {
	switch s {
	case "relativeToGround":
		return giscore.AltitudeRelative
	case "absolute":
		return giscore.AltitudeAbsolute
	case "clampToGround", "":
		return giscore.AltitudeClamp
	default:
		xlog.Log.Warn().Str("altitudeMode", s).Msg("kml: unknown altitudeMode, defaulting to clampToGround")
		return giscore.AltitudeClamp
	}
}

func parseBoolText(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return s == "1"
	}
	return b
}

// newSyntheticID returns a stable-looking synthetic id for objects the
// document does not name, so they can still be referenced by #id.
func newSyntheticID() string {
	return uuid.NewString()
}
