// Package ring implements the polygon ring-nesting algorithm used by the
// shapefile reader to reconstruct outer/inner polygon rings from a flat
// array of rings using winding and containment tests (spec §4.4).
package ring

import (
	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
)

// Ring is a closed sequence of vertices, without any inner/outer
// classification yet assigned.
type Ring struct {
	Points []giscore.Geodetic3DPoint
}

// Polygon groups one outer ring with zero or more inner (hole) rings, the
// result shape Nest produces per holder.
type Polygon struct {
	Outer  Ring
	Inners []Ring

	// ReversedRecovery is true when this polygon was produced by the
	// unmatched-inner-ring reversal fallback (spec §9 design notes): a
	// pragmatic, non-specified recovery, not a documented format behavior.
	ReversedRecovery bool
}

// signedArea returns twice the signed area of the ring's 2D (lon,lat)
// projection. Per spec's winding convention, a positive sign denotes
// clockwise winding, which is exterior (outer) in this library's
// cartographic convention.
func signedArea(pts []giscore.Geodetic3DPoint) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pts[j].Longitude*pts[i].Latitude - pts[i].Longitude*pts[j].Latitude
	}
	return sum
}

// IsClockwise reports whether r winds clockwise (i.e. is an outer ring per
// spec's convention).
func (r Ring) IsClockwise() bool {
	return signedArea(r.Points) > 0
}

// Reversed returns a copy of r with point order reversed, flipping its
// winding.
func (r Ring) Reversed() Ring {
	out := make([]giscore.Geodetic3DPoint, len(r.Points))
	for i, p := range r.Points {
		out[len(r.Points)-1-i] = p
	}
	return Ring{Points: out}
}

func (r Ring) bounds() giscore.Bounds {
	pts := make([]giscore.Geodetic2DPoint, len(r.Points))
	for i, p := range r.Points {
		pts[i] = p.Geodetic2DPoint
	}
	return giscore.BoundsFromPoints(pts)
}

// containsPoint runs an even-odd point-in-ring test, augmented by the
// caller's bbox prefilter (see index.go).
func (r Ring) containsPoint(p giscore.Geodetic2DPoint) bool {
	pts := r.Points
	n := len(pts)
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := pts[i].Longitude, pts[i].Latitude
		xj, yj := pts[j].Longitude, pts[j].Latitude
		if (yi > p.Latitude) != (yj > p.Latitude) {
			xIntersect := (xj-xi)*(p.Latitude-yi)/(yj-yi) + xi
			if p.Longitude < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

type holder struct {
	outer  Ring
	inners []Ring
}

// Nest reconstructs outer/inner polygon rings from a flat ring array per
// spec §4.4: rings are classified by winding; each inner ring is attached to
// the first still-open preceding holder whose outer ring (bbox-prefiltered)
// contains the inner ring's first vertex; unmatched inners are deferred and
// retried against all holders once the walk completes; any inner still
// unmatched is promoted to a standalone reversed-orientation polygon. Nest
// does not mutate its input.
func Nest(rings []Ring) ([]Polygon, error) {
	idx := newBoundsIndex()
	var holders []*holder
	var deferred []Ring

	for _, r := range rings {
		if r.IsClockwise() {
			h := &holder{outer: r}
			holders = append(holders, h)
			idx.insert(len(holders)-1, r.bounds())
			continue
		}
		if !attach(r, holders, idx) {
			deferred = append(deferred, r)
		}
	}

	var stillUnmatched []Ring
	for _, r := range deferred {
		if !attach(r, holders, idx) {
			stillUnmatched = append(stillUnmatched, r)
		}
	}

	polys := make([]Polygon, 0, len(holders)+len(stillUnmatched))
	for _, h := range holders {
		polys = append(polys, Polygon{Outer: h.outer, Inners: h.inners})
	}
	for _, r := range stillUnmatched {
		xlog.Log.Warn().
			Str("recovery", "unmatched-inner-ring-reversal").
			Msg("inner ring matched no outer holder; promoting to standalone reversed-orientation polygon")
		polys = append(polys, Polygon{Outer: r.Reversed(), ReversedRecovery: true})
	}
	return polys, nil
}

// attach tries to bind r to the first candidate holder (in original order)
// whose outer ring contains r's first vertex. Candidates are narrowed by the
// rtreego-backed bbox prefilter before the exact point-in-ring test runs.
func attach(r Ring, holders []*holder, idx *boundsIndex) bool {
	if len(r.Points) == 0 {
		return false
	}
	first := r.Points[0].Geodetic2DPoint
	for _, candidate := range idx.candidates(first) {
		if candidate >= len(holders) {
			continue
		}
		h := holders[candidate]
		if h.outer.containsPoint(first) {
			h.inners = append(h.inners, r)
			return true
		}
	}
	return false
}
