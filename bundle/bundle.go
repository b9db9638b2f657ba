// Package bundle defines the interface surface for the ZIP file-bundle
// extractor: the piece that unpacks a .kmz or zipped shapefile/geodatabase
// into a scratch directory a format adapter can then read from directly.
// Per spec.md §5's shared-resources note, that scratch directory is owned
// by exactly one stream and removed when the stream closes — Extracted
// models that ownership as an explicit Cleanup, not a finalizer.
package bundle

import "github.com/cdarbon/giscore"

// Extracted is a bundle's extraction result: the scratch directory holding
// its unpacked contents, and the Cleanup that removes it.
type Extracted struct {
	Dir     string
	Cleanup func() error
}

// Extractor is the adapter surface a concrete ZIP-bundle implementation
// must satisfy to hand a scratch directory to the shapefile or GDB reader
// that opens it next.
type Extractor interface {
	Extract(path string) (Extracted, error)
}

// New returns the package's Extractor implementation. Not implemented here;
// out of core per spec.md §1.
func New() (Extractor, error) {
	return nil, &giscore.ErrConfigurationError{Reason: "bundle: external collaborator, not implemented in core"}
}
