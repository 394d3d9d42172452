package commands

import (
	"fmt"

	"astrocompat/internal/scrapers/cafeastrology"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scoresCmd)
}

var scoresCmd = &cobra.Command{
	Use:   "scores <user id> <user id>",
	Short: "Fetches the synastry scores between two submitted charts.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := cafeastrology.ParseUserId(args[0])
		if err != nil {
			return err
		}
		b, err := cafeastrology.ParseUserId(args[1])
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		score, link, err := client.Scores(cmd.Context(), a, b)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderScore(out, score)
		fmt.Fprintf(out, "Report: %s\n", link)
		return nil
	},
}
