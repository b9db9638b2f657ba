// Package giscore implements a streaming, schema-aware engine for reading and
// writing vector GIS documents. Readers expose a single pull method, read(),
// that returns the next event in document order; writers mirror it with
// write(event). The package unifies features, geometries, schemas, styles and
// containers behind one event model so format-specific readers (shapefile,
// KML) and writers can share consumers.
package giscore

// Version identifies the module's data-model revision, bumped whenever the
// Event/Geometry/Feature shapes change in a way that affects serialized
// round-trips.
const Version = "0.1.0"
