// Package xlog provides the single zerolog logger shared by every format
// reader/writer in giscore. The teacher repo this module was adapted from
// carries no logging calls at all; this wiring is sourced from elsewhere in
// the retrieved example corpus (repos depending on github.com/rs/zerolog).
package xlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-level logger used by every recoverable-error path
// named in the error handling design: bad coordinate, bad ring, unknown
// altitudeMode, malformed time/color, Z/M underflow, non-WGS-84 .prj datum.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

// SetLevel adjusts the global minimum level, e.g. to silence Debug-level
// "unrecognized element skipped" noise in production use.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}
