package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gonspd/gonspd/internal/geo"
	"github.com/gonspd/gonspd/internal/layers"
	"github.com/gonspd/gonspd/internal/search"
)

var (
	contourCategoryID     int
	contourOnlyIntersects bool
	contourMaxDepth       int
)

var contourCmd = &cobra.Command{
	Use:   "contour <geojson-file>",
	Short: "Stream all objects of a category inside a polygonal contour",
	Long: `Reads a GeoJSON geometry (Polygon or MultiPolygon) and streams every
object of the category intersecting it as NDJSON, subdividing the area as
needed to stay under the portal's result-size limit. Request count grows
with the searched area.`,
	Args: cobra.ExactArgs(1),
	RunE: runContour,
}

func init() {
	contourCmd.Flags().IntVar(&contourCategoryID, "category-id", layers.Parcels.CategoryID, "portal category id to query")
	contourCmd.Flags().BoolVar(&contourOnlyIntersects, "only-intersects", false, "drop objects that only touch the envelope, not the contour itself")
	contourCmd.Flags().IntVar(&contourMaxDepth, "max-depth", 0, "override maximum subdivision depth")
}

func runContour(cmd *cobra.Command, args []string) error {
	contour, err := readContour(args[0])
	if err != nil {
		return err
	}

	client, cfg, err := setup()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := signalContext()
	defer cancel()

	maxDepth := cfg.Search.MaxDepth
	if contourMaxDepth > 0 {
		maxDepth = contourMaxDepth
	}
	it := client.SearchInContourIter(contour, contourCategoryID, search.Options{
		MaxDepth:       maxDepth,
		OnlyIntersects: contourOnlyIntersects,
	})

	enc := json.NewEncoder(os.Stdout)
	count := 0
	for {
		f, ok := it.Next(ctx)
		if !ok {
			break
		}
		if err := enc.Encode(f); err != nil {
			return err
		}
		count++
	}
	if err := it.Err(); err != nil {
		return err
	}
	slog.Info("contour search finished", "objects", count, "category", contourCategoryID)
	return nil
}

// readContour accepts a bare GeoJSON geometry or a single-feature wrapper.
func readContour(path string) (geo.Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geo.Geometry{}, fmt.Errorf("read contour file: %w", err)
	}

	var g geo.Geometry
	if err := json.Unmarshal(data, &g); err == nil && !g.IsZero() {
		return g, nil
	}

	var feature struct {
		Geometry geo.Geometry `json:"geometry"`
	}
	if err := json.Unmarshal(data, &feature); err == nil && !feature.Geometry.IsZero() {
		return feature.Geometry, nil
	}

	var collection struct {
		Features []struct {
			Geometry geo.Geometry `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &collection); err == nil && len(collection.Features) == 1 {
		return collection.Features[0].Geometry, nil
	}
	return geo.Geometry{}, fmt.Errorf("%s: expected a GeoJSON Polygon/MultiPolygon geometry or a single-feature collection", path)
}
