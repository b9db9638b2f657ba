package kml

import (
	"strconv"
	"strings"

	"github.com/cdarbon/giscore/internal/xlog"
)

// parseColor decodes an 8-hex-digit AABBGGRR KML color string (leading '#'
// ignored). Invalid input logs a warning and returns nil.
func parseColor(s string) *uint32 {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 8 {
		xlog.Log.Warn().Str("color", s).Msg("kml: invalid color length, expected 8 hex digits")
		return nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		xlog.Log.Warn().Str("color", s).Msg("kml: invalid color hex digits")
		return nil
	}
	u := uint32(v)
	return &u
}
