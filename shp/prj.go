package shp

import (
	"os"
	"strings"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/internal/xlog"
)

// checkPrj parses the first WKT GEOGCS token out of a .prj file and logs a
// warning if the datum is not WGS-84. This is never fatal unless
// strictPrjCheck is set, per spec §4.2/§6. No example repo in the retrieved
// pack carries a WKT parsing library, so this is a small hand-written
// tokenizer (stdlib-only, justified in DESIGN.md).
func checkPrj(path string, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		// .prj is optional; a missing file is not an error.
		if os.IsNotExist(err) {
			return nil
		}
		return nil
	}

	datum := geogcsDatum(string(data))
	if datum == "" {
		xlog.Log.Warn().Str("file", path).Msg("prj: could not locate GEOGCS token")
		return nil
	}
	if !strings.Contains(datum, "WGS_1984") && !strings.Contains(datum, "WGS84") {
		msg := "prj: datum is not WGS-84, proceeding without reprojection"
		if strict {
			return &giscore.ErrMalformedFormat{Format: "prj", Reason: "datum " + datum + " is not WGS-84"}
		}
		xlog.Log.Warn().Str("file", path).Str("datum", datum).Msg(msg)
	}
	return nil
}

// geogcsDatum extracts the DATUM["..."] name nested within the first
// GEOGCS[...] token of wkt, or "" if none is found.
func geogcsDatum(wkt string) string {
	idx := strings.Index(wkt, "GEOGCS")
	if idx < 0 {
		return ""
	}
	rest := wkt[idx:]
	datumIdx := strings.Index(rest, "DATUM")
	if datumIdx < 0 {
		return ""
	}
	rest = rest[datumIdx:]
	open := strings.IndexByte(rest, '[')
	if open < 0 {
		return ""
	}
	rest = rest[open+1:]
	// First quoted token is the datum name.
	q1 := strings.IndexByte(rest, '"')
	if q1 < 0 {
		return ""
	}
	rest = rest[q1+1:]
	q2 := strings.IndexByte(rest, '"')
	if q2 < 0 {
		return ""
	}
	return rest[:q2]
}
