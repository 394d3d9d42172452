package commands

import (
	"astrocompat/internal/scrapers/cafeastrology"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(locationsCmd)
}

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Lists the locations a chart can be computed for.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		renderLocations(cmd.OutOrStdout(), cafeastrology.Locations)
	},
}
