// Package main provides the giscat command-line entry point: a thin driver
// over the core event stream for golden-path smoke testing, not a full
// feature-complete GIS CLI (spec.md's CLI-wrapper non-goal excludes the
// latter, not this).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "giscat",
	Short: "giscat - stream GIS documents through the giscore event model",
	Long: `giscat is a thin driver over the giscore core: it opens a shapefile or
KML document, walks its event stream, and either dumps it as text or
converts it into another supported format.`,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(convertCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
