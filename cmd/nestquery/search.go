package nestquery

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nestquery/nestquery/pkg/config"
	"github.com/nestquery/nestquery/pkg/logger"
	"github.com/nestquery/nestquery/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query text]",
	Short: "Run a one-shot search against the configured backends",
	Long: `Run a single hybrid search from the command line and print the ranked
results. Useful for smoke-testing a deployment and for relevance debugging.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchTopK     int
	searchNoBoost  bool
	searchAsJSON   bool
	searchPriceMin float64
	searchPriceMax float64
	searchBedrooms int
	searchCity     string
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchTopK, "top-k", 10, "Number of results to return")
	searchCmd.Flags().BoolVar(&searchNoBoost, "no-graph-boost", false, "Rank by vector similarity only")
	searchCmd.Flags().BoolVar(&searchAsJSON, "json", false, "Print the full response as JSON")
	searchCmd.Flags().Float64Var(&searchPriceMin, "price-min", 0, "Minimum price filter")
	searchCmd.Flags().Float64Var(&searchPriceMax, "price-max", 0, "Maximum price filter")
	searchCmd.Flags().IntVar(&searchBedrooms, "bedroom-min", 0, "Minimum bedroom filter")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "City filter (exact match)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	engine, err := buildEngine(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer engine.Close()

	query := &types.SearchQuery{
		Text:       strings.Join(args, " "),
		TopK:       searchTopK,
		GraphBoost: !searchNoBoost,
		Filters:    searchFilters(cmd),
	}

	resp, err := engine.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if searchAsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResults(os.Stdout, resp)
	return nil
}

// searchFilters builds a FilterSpec from the set flags, nil when none are.
func searchFilters(cmd *cobra.Command) *types.FilterSpec {
	spec := &types.FilterSpec{}
	set := false

	if cmd.Flags().Changed("price-min") {
		spec.PriceMin = &searchPriceMin
		set = true
	}
	if cmd.Flags().Changed("price-max") {
		spec.PriceMax = &searchPriceMax
		set = true
	}
	if cmd.Flags().Changed("bedroom-min") {
		spec.BedroomMin = &searchBedrooms
		set = true
	}
	if cmd.Flags().Changed("city") {
		spec.City = &searchCity
		set = true
	}

	if !set {
		return nil
	}
	return spec
}

func printResults(w io.Writer, resp *types.SearchResponse) {
	if len(resp.Results) == 0 {
		fmt.Fprintln(w, "No listings matched.")
	}
	for i, r := range resp.Results {
		fmt.Fprintf(w, "%2d. %s  combined=%.4f vector=%.4f graph=%.4f\n",
			i+1, r.ID, r.CombinedScore, r.VectorScore, r.GraphScore)
		if r.Attributes.Address != "" {
			fmt.Fprintf(w, "    %s, %s\n", r.Attributes.Address, r.Attributes.City)
		}
		if r.Attributes.Price > 0 {
			fmt.Fprintf(w, "    $%.0f  %d bd / %g ba  %.0f sqft\n",
				r.Attributes.Price, r.Attributes.Bedrooms, r.Attributes.Bathrooms, r.Attributes.AreaSqft)
		}
		if len(r.Features) > 0 {
			fmt.Fprintf(w, "    features: %s\n", strings.Join(r.Features, ", "))
		}
	}

	d := resp.Diagnostics
	fmt.Fprintf(w, "\nquery %s: %d candidates, %d returned, took %s\n",
		d.QueryID, d.CandidatesRetrieved, len(resp.Results), d.Took)
	if d.GraphDegraded {
		fmt.Fprintln(w, "warning: graph signals degraded for this query")
		for _, warning := range d.Warnings {
			fmt.Fprintln(w, "  -", warning)
		}
	}
}
