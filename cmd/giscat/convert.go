package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cdarbon/giscore"
	"github.com/cdarbon/giscore/kml"
	"github.com/cdarbon/giscore/shp"
)

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Convert a shapefile or KML document to the other format",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]
	r, err := openReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	switch strings.ToLower(filepath.Ext(dst)) {
	case ".kml":
		return convertToKML(r, dst)
	case ".shp":
		return convertToShapefile(r, dst)
	default:
		return &giscore.ErrConfigurationError{Reason: "unrecognized output extension: " + dst}
	}
}

func convertToKML(r giscore.Reader, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return &giscore.ErrIO{Op: "create kml", Err: err}
	}
	w := kml.Create(f)
	for {
		event, err := r.Read()
		if err != nil {
			w.Close()
			return err
		}
		if event == nil {
			return w.Close()
		}
		if err := w.Write(event); err != nil {
			w.Close()
			return err
		}
	}
}

// convertToShapefile buffers the incoming stream: a shapefile writer must
// know its uniform shape type and schema before the first record is
// written, but the event stream only reveals the first feature's geometry
// (and the schema, if any) once it arrives.
func convertToShapefile(r giscore.Reader, dst string) error {
	var schema *giscore.Schema
	var features []*giscore.Feature

	for {
		event, err := r.Read()
		if err != nil {
			return err
		}
		if event == nil {
			break
		}
		switch event.Kind {
		case giscore.EventSchema:
			schema = event.Schema
		case giscore.EventFeature:
			features = append(features, event.Feature)
		}
	}

	var shapeType shp.ShapeType = shp.ShapeNull
	for _, f := range features {
		if f.Geometry != nil {
			shapeType = shp.ShapeTypeFor(f.Geometry)
			break
		}
	}

	w, err := shp.Create(dst, shapeType, schema)
	if err != nil {
		return err
	}
	for _, f := range features {
		if err := w.Write(&giscore.Event{Kind: giscore.EventFeature, Feature: f}); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
