package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gonspd/gonspd/internal/core/domain"
)

var findBuilding bool

var findCmd = &cobra.Command{
	Use:   "find <cadastral-number>",
	Short: "Find a parcel or building by cadastral number",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	findCmd.Flags().BoolVar(&findBuilding, "building", false, "search the buildings layer instead of parcels")
}

func runFind(cmd *cobra.Command, args []string) error {
	client, _, err := setup()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := signalContext()
	defer cancel()

	query := args[0]
	if nums := domain.ExtractCadastralNumbers(query); len(nums) > 0 {
		query = nums[0]
	}

	var feat *domain.Feature
	if findBuilding {
		feat, err = client.FindBuilding(ctx, query)
	} else {
		feat, err = client.FindParcel(ctx, query)
	}
	if err != nil {
		return err
	}
	if feat == nil {
		slog.Info("no object found", "query", query)
		return nil
	}
	printOptions(*feat)
	return nil
}

func printOptions(f domain.Feature) {
	opts := f.Options()
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		v := opts[k]
		if v == nil || v == "" {
			continue
		}
		fmt.Fprintf(w, "%s\t%v\n", k, v)
	}
	w.Flush()
}
