package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-disaster-reports/internal/geo"
)

var distanceCmd = &cobra.Command{
	Use:   "distance <lat1> <lon1> <lat2> <lon2>",
	Short: "Print the great-circle distance between two points in km",
	Long: `Distance prints the Haversine distance between two points.

Use -- before negative coordinates so they are not read as flags.

Example:
  reportctl distance -- -23.5505 -46.6333 -22.9068 -43.1729`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var v [4]float64
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return fmt.Errorf("argument %d: %w", i+1, err)
			}
			v[i] = f
		}

		a, err := geo.NewCoordinate(v[0], v[1])
		if err != nil {
			return err
		}
		b, err := geo.NewCoordinate(v[2], v[3])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%.3f km\n", geo.Distance(a, b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}
