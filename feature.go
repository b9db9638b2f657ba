package giscore

import "time"

// Element is a foreign (non-core-namespace) XML sub-tree preserved verbatim
// on its owning Feature, per spec's foreign-element handling.
type Element struct {
	Namespace string
	Name      string
	Attrs     map[string]string
	Text      string
	Children  []*Element
}

// TimeSpan is a begin/end interval; either end may be zero to denote an open
// interval. A bare TimeStamp is represented with Begin==End.
type TimeSpan struct {
	Begin time.Time
	End   time.Time
}

// ViewGroup holds the camera/look-at parameters attached to a Feature.
type ViewGroup struct {
	Kind   string // "LookAt" or "Camera"
	Values map[string]float64
}

// Row is a Feature without geometry; it shares the field-value map.
type Row struct {
	SchemaURI string
	Values    map[*SimpleField]any
}

// Feature owns an optional geometry plus the full set of properties a KML
// Placemark or shapefile record may carry.
type Feature struct {
	Row

	Geometry *Geometry

	Name        string
	Description string
	Snippet     string

	StyleURL    string
	InlineStyle *Style

	View   *ViewGroup
	Region *Bounds
	Time   *TimeSpan

	Visibility bool

	ForeignElements []*Element
}

// NewFeature returns a Feature with Visibility defaulted true, matching KML's
// default visibility semantics.
func NewFeature() *Feature {
	return &Feature{
		Row:        Row{Values: make(map[*SimpleField]any)},
		Visibility: true,
	}
}

// Value returns the feature's value for field f and whether it was set.
func (f *Feature) Value(field *SimpleField) (any, bool) {
	v, ok := f.Values[field]
	return v, ok
}

// SetValue stores val for field on the feature.
func (f *Feature) SetValue(field *SimpleField, val any) {
	if f.Values == nil {
		f.Values = make(map[*SimpleField]any)
	}
	f.Values[field] = val
}

// IconStyle, LineStyle, PolyStyle, LabelStyle, BalloonStyle and ListStyle are
// the KML sub-styles a Style aggregates.
type IconStyle struct {
	Href  string
	Scale float64
	Color *uint32
}

type LineStyle struct {
	Color *uint32
	Width float64
}

type PolyStyle struct {
	Color    *uint32
	Fill     bool
	Outline  bool
}

type LabelStyle struct {
	Color *uint32
	Scale float64
}

type BalloonStyle struct {
	Text            string
	BackgroundColor *uint32
	TextColor       *uint32
}

type ListStyle struct {
	ListItemType string
}

// Style is a set of sub-styles identified by an id. Any sub-style pointer may
// be nil when the document does not define it.
type Style struct {
	ID      string
	Icon    *IconStyle
	Line    *LineStyle
	Poly    *PolyStyle
	Label   *LabelStyle
	Balloon *BalloonStyle
	List    *ListStyle
}

// StyleMapKey is the selector key of a StyleMap pair.
type StyleMapKey int

const (
	StyleMapNormal StyleMapKey = iota
	StyleMapHighlight
)

// StyleMapPair is one (normal|highlight) → (styleUrl | inline Style) binding.
type StyleMapPair struct {
	Key         StyleMapKey
	StyleURL    string
	InlineStyle *Style
}

// StyleMap maps normal/highlight selectors to styles.
type StyleMap struct {
	ID    string
	Pairs []StyleMapPair
}
