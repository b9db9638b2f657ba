// Package kml implements the streaming KML reader and writer: XML
// pull-parsing with look-ahead queueing, namespace handling, schema
// aliasing, degenerate-geometry coercion, lenient time/color parsing and
// ExtendedData support (spec §4.3).
package kml

import "strings"

// nsTreatment classifies how elements in a namespace are handled per the
// namespace table in spec §4.3.
type nsTreatment int

const (
	nsKML nsTreatment = iota
	nsGX
	nsW3C
	nsUnknown
)

// kmlNamespaces is the set of recognized KML family namespaces
// (earth.google.com 2.0/2.1/2.2 and opengis.net 2.2/2.3), preloaded so
// elements in any of them parse normally; the gx: entry is not preloaded.
var kmlNamespaces = map[string]bool{
	"http://earth.google.com/kml/2.0": true,
	"http://earth.google.com/kml/2.1": true,
	"http://earth.google.com/kml/2.2": true,
	"http://www.opengis.net/kml/2.2":  true,
	"http://www.opengis.net/kml/2.3":  true,
	"http://www.google.com/kml/ext/2.2": false, // gx:, handled separately below
}

// classify returns the treatment for an element in namespace ns. If ns is
// empty (no namespace declared), it is treated as KML — many real-world KML
// documents omit the default namespace declaration entirely.
func classify(ns string, registered map[string]bool) nsTreatment {
	if ns == "" {
		return nsKML
	}
	if strings.HasPrefix(ns, "http://www.google.com/kml/ext/") {
		return nsGX
	}
	if strings.HasPrefix(ns, "http://www.w3.org/") {
		return nsW3C
	}
	if registered[ns] {
		return nsKML
	}
	// KML-shaped namespace sighted for the first time, on whichever element
	// carries it: register it so later elements in it are recognized too.
	if looksLikeKML(ns) {
		registered[ns] = true
		return nsKML
	}
	return nsUnknown
}

func looksLikeKML(ns string) bool {
	return strings.Contains(ns, "/kml/") || strings.Contains(ns, "kml.google") || strings.HasSuffix(ns, "kml2.2")
}

func newRegisteredNamespaces() map[string]bool {
	out := make(map[string]bool, len(kmlNamespaces))
	for k, v := range kmlNamespaces {
		if v {
			out[k] = true
		}
	}
	return out
}
