package kml

import (
	"strconv"
	"strings"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
)

// parseCoordinates tokenizes a KML <coordinates> text body. Whitespace
// separates tuples; commas separate a tuple's own components, so each
// whitespace field is parsed as exactly one (lon,lat[,alt]) tuple — a
// 2-component field (no altitude) stays one 2D tuple rather than borrowing
// digits from its neighbor. The tokenizer also recovers from commas
// appearing between tuples instead of whitespace (scenario 3 in spec §8:
// "1,2,3,4,5,6" with no whitespace at all decodes as two (lon,lat,alt)
// tuples) by re-chunking a single over-long field into groups of 3. Missing
// altitude defaults to 0 with HasAltitude left false. Out-of-range lon/lat
// drop the tuple (logged) but parsing continues.
func parseCoordinates(text string) []giscore.Geodetic3DPoint {
	var out []giscore.Geodetic3DPoint
	for _, field := range strings.Fields(text) {
		var nums []float64
		for _, tok := range strings.Split(field, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				continue
			}
			nums = append(nums, v)
		}
		if len(nums) == 0 {
			continue
		}
		if len(nums) > 3 {
			// A single whitespace field carrying more than one tuple's worth
			// of comma-separated numbers means the document never used
			// whitespace to separate tuples at all; recover by chunking.
			for i := 0; i+3 <= len(nums); i += 3 {
				appendCoordinate(&out, nums[i], nums[i+1], nums[i+2], true)
			}
			continue
		}
		var lon, lat, alt float64
		hasAlt := false
		lon = nums[0]
		if len(nums) >= 2 {
			lat = nums[1]
		}
		if len(nums) >= 3 {
			alt = nums[2]
			hasAlt = true
		}
		appendCoordinate(&out, lon, lat, alt, hasAlt)
	}
	return out
}

func appendCoordinate(out *[]giscore.Geodetic3DPoint, lon, lat, alt float64, hasAlt bool) {
	p, err := giscore.NewGeodetic3DPoint(lon, lat, alt, hasAlt)
	if err != nil {
		xlog.Log.Warn().Float64("lon", lon).Float64("lat", lat).Msg("kml: coordinate out of range, dropping tuple")
		return
	}
	*out = append(*out, p)
}

// parseFloatLenient parses a single numeric leaf value, returning 0 for
// unparseable input rather than failing the whole document — KML view and
// region fields are cosmetic, not structural.
func parseFloatLenient(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
