// Package atom defines the interface surface for the Atom feed reader and
// writer the core consumes/exposes AtomHeader events through. Like csv, the
// Atom format itself (feed-level author/link metadata wrapping a KML
// document) is an external collaborator per spec.md §1 — only the boundary
// with the core event stream is specified.
package atom

import "github.com/cdarbon/giscore"

// Reader surfaces an AtomHeader event (if the wrapped feed carries one)
// ahead of the wrapped document's own events, then delegates to it.
type Reader interface {
	giscore.Reader
}

// Writer mirrors Reader: it accepts an AtomHeader event and writes the
// feed-level wrapper before forwarding the rest of the stream.
type Writer interface {
	giscore.Writer
}

// Open is the integration point a full Atom reader would implement. Not
// implemented here; out of core per spec.md §1.
func Open(path string) (Reader, error) {
	return nil, &giscore.ErrConfigurationError{Reason: "atom: external collaborator, not implemented in core"}
}

// Create is the integration point a full Atom writer would implement. Not
// implemented here; out of core per spec.md §1.
func Create(path string) (Writer, error) {
	return nil, &giscore.ErrConfigurationError{Reason: "atom: external collaborator, not implemented in core"}
}
