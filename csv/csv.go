// Package csv defines the interface surface a CSV reader must present to
// the core event stream. CSV ingestion itself is an external collaborator
// (spec.md §1 Non-goals/out-of-core list): a tabular text format has none of
// the ring-nesting or streaming-XML complexity C5/C6 embody, so only the
// adapter boundary is specified here, grounded on giscore.Reader/Options.
package csv

import "github.com/cdarbon/giscore"

// Reader is the adapter surface a concrete CSV implementation must satisfy
// to plug into the core event stream; it is giscore.Reader plus nothing
// else, since a flat delimited file needs no additional capability beyond
// what every format adapter already exposes.
type Reader interface {
	giscore.Reader
}

// Open is the integration point a full CSV reader would implement: parse
// opts.Schema (or infer one from the header row) and return a Reader that
// emits a Schema event once, then one Feature per data row with
// Geometry==nil — CSV carries no geometry column by itself. Not implemented
// here; wiring a real implementation is out of core per spec.md §1.
func Open(path string, opts giscore.CSVOptions) (Reader, error) {
	return nil, &giscore.ErrConfigurationError{Reason: "csv: external collaborator, not implemented in core"}
}
