package ring

import (
	"sort"

	"github.com/cdarbon/giscore"
	"github.com/dhconnelly/rtreego"
)

// rectEntry adapts a holder's bounding box to rtreego.Spatial so the
// containment prefilter can run R-tree bbox queries instead of testing every
// holder's ring directly. This generalizes the teacher's pkg/s57/index.go
// use of rtreego.NewRect for chart/viewport bbox queries to ring/vertex
// containment queries.
type rectEntry struct {
	holderIndex int
	rect        rtreego.Rect
}

func (e *rectEntry) Bounds() rtreego.Rect { return e.rect }

// boundsIndex is an rtreego-backed prefilter: given a candidate vertex, it
// returns the holder indices whose bounding box could possibly contain that
// vertex, in original insertion order, so the exact point-in-ring test only
// runs against plausible candidates.
type boundsIndex struct {
	tree *rtreego.Rtree
}

func newBoundsIndex() *boundsIndex {
	return &boundsIndex{tree: rtreego.NewTree(2, 25, 50)}
}

func toRect(b giscore.Bounds) (rtreego.Rect, bool) {
	width := b.MaxLon - b.MinLon
	height := b.MaxLat - b.MinLat
	if width <= 0 {
		width = 1e-9
	}
	if height <= 0 {
		height = 1e-9
	}
	r, err := rtreego.NewRect(rtreego.Point{b.MinLon, b.MinLat}, []float64{width, height})
	if err != nil {
		return rtreego.Rect{}, false
	}
	return r, true
}

func (idx *boundsIndex) insert(holderIndex int, b giscore.Bounds) {
	rect, ok := toRect(b)
	if !ok {
		return
	}
	idx.tree.Insert(&rectEntry{holderIndex: holderIndex, rect: rect})
}

// candidates returns holder indices whose bbox contains p, ordered to match
// the holders' original insertion order so "first matching holder" selection
// downstream is deterministic and spec-conformant.
func (idx *boundsIndex) candidates(p giscore.Geodetic2DPoint) []int {
	pointRect, ok := toRect(giscore.Bounds{MinLon: p.Longitude, MinLat: p.Latitude, MaxLon: p.Longitude, MaxLat: p.Latitude})
	if !ok {
		return nil
	}
	hits := idx.tree.SearchIntersect(pointRect)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		if e, ok := h.(*rectEntry); ok {
			out = append(out, e.holderIndex)
		}
	}
	sort.Ints(out)
	return out
}
