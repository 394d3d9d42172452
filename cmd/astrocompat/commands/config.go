package commands

import (
	"fmt"
	"strings"
	"time"

	"astrocompat/internal/chart"
	"astrocompat/internal/scrapers/cafeastrology"
	"astrocompat/internal/session"
)

type ReferenceConfig struct {
	Name string `json:"name"`
	Id   string `json:"id"`
}

type Config struct {
	ChartUrl          string            `json:"chart_url"`
	SynastryUrl       string            `json:"synastry_url"`
	Headers           map[string]string `json:"headers"`
	TimeoutSeconds    int               `json:"timeout_seconds"`
	RequestsPerSecond float64           `json:"requests_per_second"`
	// DisableBrowserTransport sends requests through the plain http
	// transport.
	DisableBrowserTransport bool `json:"disable_browser_transport"`

	MaxParallelLookups int               `json:"max_parallel_lookups"`
	References         []ReferenceConfig `json:"references"`
	Columns            []string          `json:"columns"`
	// Timezone is an IANA name used for the session clock, the local
	// timezone when empty.
	Timezone string `json:"timezone"`
}

func DefaultConfig() Config {
	client := cafeastrology.DefaultClientOptions()
	opts := session.DefaultOptions()

	references := make([]ReferenceConfig, len(opts.References))
	for i, ref := range opts.References {
		references[i] = ReferenceConfig{Name: ref.Name, Id: string(ref.Id)}
	}

	return Config{
		ChartUrl:           client.ChartUrl,
		SynastryUrl:        client.SynastryUrl,
		TimeoutSeconds:     int(client.Timeout / time.Second),
		RequestsPerSecond:  client.RequestsPerSecond,
		MaxParallelLookups: opts.MaxParallelLookups,
		References:         references,
		Columns:            opts.Columns,
	}
}

func (c Config) ClientOptions() cafeastrology.ClientOptions {
	return cafeastrology.ClientOptions{
		ChartUrl:          c.ChartUrl,
		SynastryUrl:       c.SynastryUrl,
		Headers:           c.Headers,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		BrowserTransport:  !c.DisableBrowserTransport,
	}
}

// SessionOptions fails on a reference whose id is not a user id, before
// anything is sent to the service.
func (c Config) SessionOptions() (session.Options, error) {
	references := make([]session.Reference, len(c.References))
	for i, ref := range c.References {
		id, err := cafeastrology.ParseUserId(strings.TrimSpace(ref.Id))
		if err != nil {
			return session.Options{}, fmt.Errorf("reference %q: %w", ref.Name, err)
		}
		references[i] = session.Reference{Name: ref.Name, Id: id}
	}
	columns := c.Columns
	if len(columns) == 0 {
		columns = chart.DisplayColumns
	}
	return session.Options{
		References:         references,
		Columns:            columns,
		MaxParallelLookups: c.MaxParallelLookups,
	}, nil
}

// parseReference reads a `name=id` pair.
func parseReference(value string) (ReferenceConfig, error) {
	name, id, ok := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	id = strings.TrimSpace(id)
	if !ok || name == "" || id == "" {
		return ReferenceConfig{}, fmt.Errorf("reference %q is not of the form name=id", value)
	}
	_, err := cafeastrology.ParseUserId(id)
	if err != nil {
		return ReferenceConfig{}, fmt.Errorf("reference %q: %w", value, err)
	}
	return ReferenceConfig{Name: name, Id: id}, nil
}
