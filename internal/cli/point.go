package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gonspd/gonspd/internal/layers"
)

var pointLayerID int

var pointCmd = &cobra.Command{
	Use:   "point <lat> <lon>",
	Short: "Find layer objects covering a coordinate point",
	Args:  cobra.ExactArgs(2),
	RunE:  runPoint,
}

func init() {
	pointCmd.Flags().IntVar(&pointLayerID, "layer-id", layers.Parcels.LayerID, "portal layer id to query")
}

func runPoint(cmd *cobra.Command, args []string) error {
	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("parse longitude: %w", err)
	}

	client, _, err := setup()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := signalContext()
	defer cancel()

	feats, err := client.SearchAtCoords(ctx, lat, lon, pointLayerID)
	if err != nil {
		return err
	}
	if feats == nil {
		slog.Info("no objects at point", "lat", lat, "lon", lon, "layer", pointLayerID)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	for _, f := range feats {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}
