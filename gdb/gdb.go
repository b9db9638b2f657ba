// Package gdb defines the bridge surface to a native ESRI file-geodatabase
// library. Per spec.md §9's design note, the bridge's process-wide native
// library handle is isolated behind explicit init()/shutdown() calls rather
// than a package-level static initializer, so a process that never opens a
// GDB never pays for (or risks failing) native library loading.
package gdb

import "github.com/cdarbon/giscore"

// Bridge is the adapter surface a concrete file-geodatabase implementation
// must satisfy. Open/Close follow giscore.Reader's lifecycle; Init/Shutdown
// bracket the process-wide native handle independently of any one stream.
type Bridge interface {
	// Init loads the native geodatabase library. Must be called once,
	// before any Open, and is not implicitly triggered by package import.
	Init() error

	// Shutdown releases the native library handle. Safe to call only after
	// every Bridge-produced Reader has been closed.
	Shutdown() error

	// Open returns a Reader over the named feature class within the .gdb
	// at path.
	Open(path, featureClass string) (giscore.Reader, error)
}

// New returns the package's Bridge implementation. Not implemented here:
// wiring an actual native geodatabase library is out of core per spec.md §1
// and §9's global-state isolation note.
func New() (Bridge, error) {
	return nil, &giscore.ErrConfigurationError{Reason: "gdb: external collaborator, not implemented in core"}
}
