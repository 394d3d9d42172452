package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Interactively adds people, comparing each new person with everyone before them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := env.config.SessionOptions()
		if err != nil {
			return err
		}
		s, err := newSession(opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		p := newPrompter(cmd.InOrStdin(), out)

		for {
			req, err := p.chartRequest(len(s.People()) + 1)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			_, err = s.AddPerson(cmd.Context(), req)
			if err != nil {
				if cmd.Context().Err() != nil {
					return err
				}
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}

			result, _ := s.Latest()
			renderResult(out, opts.Columns, result)

			again, err := p.confirm("Add another person", true)
			if errors.Is(err, io.EOF) || (err == nil && !again) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	},
}
