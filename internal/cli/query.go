package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-disaster-reports/internal/export"
	"github.com/mr1hm/go-disaster-reports/internal/geo"
	"github.com/mr1hm/go-disaster-reports/internal/models"
	"github.com/mr1hm/go-disaster-reports/internal/query"
)

var (
	queryType        string
	queryStart       string
	queryEnd         string
	queryWholeEndDay bool
	queryNear        []float64
	queryRadius      float64
	queryFormat      string
)

var queryCmd = &cobra.Command{
	Use:   "query <reports.yaml>",
	Short: "Load a YAML file of reports and print the ones matching the filters",
	Long: `Query admits every report of the file into an empty store, applies the
filters and prints the matches as Markdown or GeoJSON.

Example:
  reportctl query reports.yaml --type flood
  reportctl query reports.yaml --start 01/03/2024 --end 31/03/2024 --whole-end-day
  reportctl query reports.yaml --near=-23.5505,-46.6333 --radius 2 --format geojson`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryType, "type", "", "disaster type")
	queryCmd.Flags().StringVar(&queryStart, "start", "", "start date (DD/MM/YYYY)")
	queryCmd.Flags().StringVar(&queryEnd, "end", "", "end date (DD/MM/YYYY)")
	queryCmd.Flags().BoolVar(&queryWholeEndDay, "whole-end-day", false, "include the entire end date")
	queryCmd.Flags().Float64SliceVar(&queryNear, "near", nil, "reference point as lat,lon")
	queryCmd.Flags().Float64Var(&queryRadius, "radius", 0, "maximum distance from --near in km")
	queryCmd.Flags().StringVar(&queryFormat, "format", "markdown", "output format (markdown, geojson)")
}

func buildFilter() (query.Filter, error) {
	var f query.Filter

	if queryType != "" {
		t := models.ParseDisasterType(queryType)
		f.Type = &t
	}

	if queryStart != "" || queryEnd != "" {
		if queryStart == "" || queryEnd == "" {
			return f, errors.New("--start and --end must be given together")
		}
		r, err := query.ParseDateRange(queryStart, queryEnd, queryWholeEndDay)
		if err != nil {
			return f, err
		}
		f.Range = &r
	}

	if queryNear != nil {
		if len(queryNear) != 2 {
			return f, errors.New("--near expects lat,lon")
		}
		ref, err := geo.NewCoordinate(queryNear[0], queryNear[1])
		if err != nil {
			return f, err
		}
		if !(queryRadius >= 0) {
			return f, fmt.Errorf("invalid --radius %v", queryRadius)
		}
		f.Near = &query.Proximity{Reference: ref, MaxKm: queryRadius}
	}

	return f, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryFormat != "markdown" && queryFormat != "geojson" {
		return fmt.Errorf("unknown format: %s", queryFormat)
	}
	f, err := buildFilter()
	if err != nil {
		return err
	}

	st, mgr, err := newStore()
	if err != nil {
		return err
	}
	if err := preload(cmd, mgr, args[0]); err != nil {
		return err
	}

	matches := query.Apply(st.All(), f)
	near := f.Near != nil

	out := cmd.OutOrStdout()
	if queryFormat == "geojson" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(export.ToGeoJSON(matches, near))
	}
	return export.WriteMarkdown(out, "Disaster reports", matches, near)
}
