package commands

import (
	"fmt"
	"os"

	"astrocompat/internal/chart"

	"github.com/spf13/cobra"
)

var parseHouses bool

func init() {
	parseCmd.Flags().BoolVar(&parseHouses, "houses", false, "Also read the house tables, the page must have been requested with a time of birth.")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <chart.html> [--houses]",
	Short: "Extracts signs and decans from a saved chart page.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		record, err := chart.Extract(string(doc), parseHouses)
		if err != nil {
			return fmt.Errorf("extract: %w", err)
		}
		record, err = chart.Enrich(record, parseHouses)
		if err != nil {
			return fmt.Errorf("derive decans: %w", err)
		}

		renderRecord(cmd.OutOrStdout(), record)
		return nil
	},
}
