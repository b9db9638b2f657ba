package ring

import (
	"testing"

	"github.com/cdarbon/giscore"
)

func TestBoundsIndexCandidates(t *testing.T) {
	idx := newBoundsIndex()
	idx.insert(0, giscore.Bounds{MinLon: 0, MinLat: 0, MaxLon: 10, MaxLat: 10})
	idx.insert(1, giscore.Bounds{MinLon: 20, MinLat: 20, MaxLon: 30, MaxLat: 30})

	got := idx.candidates(giscore.Geodetic2DPoint{Longitude: 5, Latitude: 5})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("candidates() = %v, want [0]", got)
	}

	got = idx.candidates(giscore.Geodetic2DPoint{Longitude: 25, Latitude: 25})
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("candidates() = %v, want [1]", got)
	}

	got = idx.candidates(giscore.Geodetic2DPoint{Longitude: 1000, Latitude: 1000})
	if len(got) != 0 {
		t.Errorf("candidates() = %v, want no matches far outside both boxes", got)
	}
}

func TestBoundsIndexDegenerateBox(t *testing.T) {
	idx := newBoundsIndex()
	// A single-point ring's bbox has zero width/height; toRect must still
	// produce a usable (epsilon-padded) rectangle rather than reject it.
	idx.insert(0, giscore.Bounds{MinLon: 5, MinLat: 5, MaxLon: 5, MaxLat: 5})

	got := idx.candidates(giscore.Geodetic2DPoint{Longitude: 5, Latitude: 5})
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("candidates() = %v, want [0] for a degenerate zero-area box", got)
	}
}
