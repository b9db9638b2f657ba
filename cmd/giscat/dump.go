package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/kml"
	"github.com/cdarbon/giscore/shp"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Read a shapefile or KML document and print its event stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	r, err := openReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	for {
		event, err := r.Read()
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}
		printEvent(out, event)
	}
}

// openReader picks a Reader by the file extension, same boundary either a
// dump or convert command needs to cross from raw bytes into the event
// stream.
func openReader(path string) (giscore.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return shp.Open(path, giscore.DefaultShapefileOptions())
	case ".kml":
		f, err := os.Open(path)
		if err != nil {
			return nil, &giscore.ErrIO{Op: "open kml", Err: err}
		}
		return kml.Open(f, giscore.DefaultKMLOptions()), nil
	default:
		return nil, &giscore.ErrConfigurationError{Reason: "unrecognized file extension: " + path}
	}
}

func printEvent(w io.Writer, e *giscore.Event) {
	switch e.Kind {
	case giscore.EventDocumentStart:
		fmt.Fprintln(w, "DocumentStart")
	case giscore.EventContainerStart:
		fmt.Fprintf(w, "ContainerStart name=%q\n", e.ContainerStart.Name)
	case giscore.EventContainerEnd:
		fmt.Fprintln(w, "ContainerEnd")
	case giscore.EventFeature:
		geomType := "none"
		if e.Feature.Geometry != nil {
			geomType = e.Feature.Geometry.Type.String()
		}
		fmt.Fprintf(w, "Feature name=%q geometry=%s\n", e.Feature.Name, geomType)
	case giscore.EventSchema:
		fmt.Fprintf(w, "Schema uri=%s fields=%d\n", e.Schema.URI, e.Schema.Len())
	case giscore.EventStyle:
		fmt.Fprintf(w, "Style id=%s\n", e.Style.ID)
	case giscore.EventStyleMap:
		fmt.Fprintf(w, "StyleMap id=%s\n", e.StyleMap.ID)
	case giscore.EventComment:
		fmt.Fprintf(w, "Comment %q\n", e.Comment.Text)
	default:
		fmt.Fprintf(w, "%s\n", e.Kind)
	}
}
