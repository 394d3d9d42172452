package commands

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"astrocompat/internal/scrapers/cafeastrology"

	"github.com/spf13/cobra"
)

var chartFlags struct {
	year       int
	month      int
	day        int
	hour       int
	minute     int
	location   string
	sex        string
	references []string
}

func init() {
	flags := chartCmd.Flags()
	flags.IntVar(&chartFlags.year, "year", 2000, "Year of birth.")
	flags.IntVar(&chartFlags.month, "month", 1, "Month of birth.")
	flags.IntVar(&chartFlags.day, "day", 1, "Day of birth.")
	flags.IntVar(&chartFlags.hour, "hour", 12, "Hour of birth, houses are only computed when the hour is given.")
	flags.IntVar(&chartFlags.minute, "minute", 0, "Minute of birth.")
	flags.StringVar(&chartFlags.location, "location", "", "Location of birth, see the locations command.")
	flags.StringVar(&chartFlags.sex, "sex", "female", "female or male.")
	flags.StringArrayVar(&chartFlags.references, "reference", nil, "A name=id chart to compare against, replaces the configured references.")
	chartCmd.MarkFlagRequired("location")

	rootCmd.AddCommand(chartCmd)
}

// resolveLocation accepts the 1-based index of a location, its name or a
// close enough misspelling of it.
func resolveLocation(query string) (cafeastrology.Location, error) {
	query = strings.TrimSpace(query)
	index, err := strconv.Atoi(query)
	if err == nil {
		if index < 1 || index > len(cafeastrology.Locations) {
			return cafeastrology.Location{}, fmt.Errorf("location %d is outside of 1-%d", index, len(cafeastrology.Locations))
		}
		return cafeastrology.Locations[index-1], nil
	}

	location, similarity, ok := cafeastrology.MatchLocation(query)
	if !ok {
		return cafeastrology.Location{}, fmt.Errorf("unknown location %q", query)
	}
	if similarity < 1 {
		slog.Warn("using closest location", "query", query, "location", location.Name, "similarity", similarity)
	}
	return location, nil
}

var chartCmd = &cobra.Command{
	Use:   "chart --year <y> --month <m> --day <d> [--hour <h> --minute <m>] --location <name> [--sex <sex>]",
	Short: "Computes the decan chart of one person and their compatibility with the references.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		location, err := resolveLocation(chartFlags.location)
		if err != nil {
			return err
		}
		sex, err := cafeastrology.ParseSex(chartFlags.sex)
		if err != nil {
			return err
		}

		cfg := env.config
		if len(chartFlags.references) > 0 {
			cfg.References = nil
			for _, value := range chartFlags.references {
				ref, err := parseReference(value)
				if err != nil {
					return err
				}
				cfg.References = append(cfg.References, ref)
			}
		}
		opts, err := cfg.SessionOptions()
		if err != nil {
			return err
		}

		s, err := newSession(opts)
		if err != nil {
			return err
		}
		result, err := s.AddPerson(cmd.Context(), cafeastrology.ChartRequest{
			Year:      chartFlags.year,
			Month:     chartFlags.month,
			Day:       chartFlags.day,
			Hour:      chartFlags.hour,
			Minute:    chartFlags.minute,
			TimeKnown: flags.Changed("hour") || flags.Changed("minute"),
			Location:  location,
			Sex:       sex,
		})
		if err != nil {
			return err
		}

		renderResult(cmd.OutOrStdout(), opts.Columns, result)
		return nil
	},
}
