package giscore

// ShapefileOptions configures a shapefile Reader.
type ShapefileOptions struct {
	// StrictPrjCheck makes a non-WGS-84 .prj datum a fatal error instead of a
	// logged warning.
	StrictPrjCheck bool

	// SchemaAccepter, when non-nil, is consulted once the DBF schema is
	// known; returning false causes the reader to skip the schema and every
	// feature associated with it.
	SchemaAccepter func(*Schema) bool
}

// DefaultShapefileOptions returns the documented defaults.
func DefaultShapefileOptions() ShapefileOptions {
	return ShapefileOptions{StrictPrjCheck: false}
}

// KMLOptions configures a KML Reader.
type KMLOptions struct {
	Encoding           string
	FollowNetworkLinks bool

	SchemaAccepter func(*Schema) bool
}

// DefaultKMLOptions returns the documented defaults.
func DefaultKMLOptions() KMLOptions {
	return KMLOptions{Encoding: "UTF-8", FollowNetworkLinks: false}
}

// CSVOptions configures the external CSV adapter's interface surface; the
// CSV reader itself is an out-of-core collaborator (see csv package).
type CSVOptions struct {
	Schema         *Schema
	LineDelimiter  string
	ValueDelimiter rune
	Quote          rune
}

// DefaultCSVOptions returns the documented defaults.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{ValueDelimiter: ',', Quote: '"'}
}
