package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"astrocompat/internal/chart"
	"astrocompat/internal/scrapers/cafeastrology"
	"astrocompat/internal/session"

	_ "embed"

	"github.com/stretchr/testify/require"
)

func run(t testing.TB, stdin string, args ...string) (string, error) {
	out := &bytes.Buffer{}
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		configPath = ""
		dumpHttp = ""
		parseHouses = false
		chartFlags.references = nil
		for _, name := range []string{"hour", "minute", "reference"} {
			chartCmd.Flags().Lookup(name).Changed = false
		}
		env.output = nil
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func execute(t testing.TB, args ...string) string {
	out, err := run(t, "", args...)
	require.NoError(t, err)
	return out
}

func TestLocationsCommand(t *testing.T) {
	out := execute(t, "locations")
	for _, l := range cafeastrology.Locations {
		require.Contains(t, out, l.Name)
	}
}

func TestParseCommand(t *testing.T) {
	out := execute(t, "parse", filepath.Join("testdata", "chart.html"))
	require.Contains(t, out, "Sun_D")
	require.Contains(t, out, "Leo_2")
	require.Contains(t, out, "Lilith_D")
	require.Contains(t, out, "Taurus_3")
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json5")
	err := os.WriteFile(path, []byte(`{
		requests_per_second: 0.5,
		references: [{ name: "Zz", id: "42" }],
	}`), 0600)
	require.NoError(t, err)

	execute(t, "--config", path, "locations")

	require.Equal(t, 0.5, env.config.RequestsPerSecond)
	require.Equal(t, cafeastrology.DefaultChartUrl, env.config.ChartUrl)
	require.Equal(t, []ReferenceConfig{{Name: "Zz", Id: "42"}}, env.config.References)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.SessionOptions()
	require.NoError(t, err)
	require.Equal(t, session.DefaultReferences, opts.References)
	require.Equal(t, chart.DisplayColumns, opts.Columns)

	client := cfg.ClientOptions()
	require.True(t, client.BrowserTransport)
	require.Equal(t, cafeastrology.DefaultSynastryUrl, client.SynastryUrl)
}

func TestParseReference(t *testing.T) {
	ref, err := parseReference(" Ar = 273725830 ")
	require.NoError(t, err)
	require.Equal(t, ReferenceConfig{Name: "Ar", Id: "273725830"}, ref)

	for _, value := range []string{"Ar", "=1", "Ar=", "Ar=12x"} {
		_, err := parseReference(value)
		require.Error(t, err, value)
	}
}

func TestSessionOptionsRejectsBadReference(t *testing.T) {
	cfg := DefaultConfig()
	cfg.References = append(cfg.References, ReferenceConfig{Name: "Zz", Id: "12x"})
	_, err := cfg.SessionOptions()
	require.ErrorIs(t, err, cafeastrology.ErrIdentifierNotFound)
	require.Contains(t, err.Error(), `"Zz"`)
}

//go:embed testdata/chart.html
var chartPage string

// fakeSite serves the chart page for every submitted chart and a synastry
// page whose scores depend on the reference.
type fakeSite struct {
	mutex    sync.Mutex
	requests int
	scores   map[string]chart.Score
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mutex.Lock()
	f.requests++
	f.mutex.Unlock()

	switch r.URL.Path {
	case "/natal.php":
		w.Write([]byte(chartPage))
	case "/synastry.php":
		ref := r.URL.Query().Get("index2")
		score, ok := f.scores[ref]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if ref == "42" {
			// finishes after the second reference
			time.Sleep(time.Millisecond * 50)
		}
		fmt.Fprintf(w, `<table>
			<tr><th>Positive</th><th>Negative</th><th>Total</th></tr>
			<tr><td>%d</td><td>%d</td><td>%d</td></tr>
		</table>`, score.Positive, score.Negative, score.Total)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func serveSite(t *testing.T, references string) (*fakeSite, string) {
	site := &fakeSite{scores: map[string]chart.Score{
		"42":        {Positive: 11, Negative: 2, Total: 9},
		"43":        {Positive: 1, Negative: 5, Total: -4},
		"274000123": {Positive: 6, Negative: 6, Total: 0},
	}}
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "astrocompat.json5")
	err := os.WriteFile(path, []byte(fmt.Sprintf(`{
		chart_url: %q,
		synastry_url: %q,
		requests_per_second: 1000,
		disable_browser_transport: true,
		max_parallel_lookups: 2,
		references: %s,
	}`, server.URL+"/natal.php", server.URL+"/synastry.php", references)), 0600)
	require.NoError(t, err)
	return site, path
}

const testReferences = `[{ name: "Zz", id: "42" }, { name: "Yy", id: "43" }]`

// requireOrdered checks that every part appears in out after the previous
// one.
func requireOrdered(t *testing.T, out string, parts ...string) {
	rest := out
	for _, part := range parts {
		index := strings.Index(rest, part)
		require.GreaterOrEqual(t, index, 0, "%q is missing or out of order in\n%s", part, out)
		rest = rest[index+len(part):]
	}
}

func TestChartCommand(t *testing.T) {
	_, path := serveSite(t, testReferences)
	dumps := t.TempDir()
	notes := filepath.Join(dumps, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep me"), 0600))

	out := execute(t,
		"--config", path,
		"--dump-http", dumps,
		"chart",
		"--year", "1990", "--month", "8", "--day", "7",
		"--location", "Dallas",
	)

	require.Contains(t, out, "Person 1 - Born 1990-08-07 (time unknown) in Dallas")
	require.Contains(t, out, "Leo_2")
	require.Contains(t, out, "natal.php?index=274000123")
	requireOrdered(t, out, "Compatibility scores", "Zz", "Yy")
	require.Contains(t, out, "-4")

	require.FileExists(t, notes)
	entries, err := os.ReadDir(dumps)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestChartCommandBadReference(t *testing.T) {
	site, path := serveSite(t, `[{ name: "Zz", id: "not-an-id" }]`)

	_, err := run(t, "",
		"--config", path,
		"chart", "--year", "1990", "--month", "8", "--day", "7",
		"--location", "Dallas",
	)
	require.ErrorIs(t, err, cafeastrology.ErrIdentifierNotFound)
	require.Zero(t, site.requests)

	// --reference replaces the configured references
	out := execute(t,
		"--config", path,
		"chart", "--year", "1990", "--month", "8", "--day", "7",
		"--location", "Dallas",
		"--reference", "Yy=43",
	)
	require.Contains(t, out, "Yy")
	require.NotContains(t, out, "Zz")
}

func TestSessionCommand(t *testing.T) {
	_, path := serveSite(t, testReferences)

	stdin := strings.Join([]string{
		// 2001-02-30 passes the prompts but not validation
		"2001", "2", "30", "n", "Dallas", "f",
		"1990", "8", "7", "n", "Dallas", "f",
		"n",
	}, "\n") + "\n"
	out, err := run(t, stdin, "--config", path, "session")
	require.NoError(t, err)

	require.Equal(t, 2, strings.Count(out, "Enter birth details for Person 1"))
	require.NotContains(t, out, "Enter birth details for Person 2")
	requireOrdered(t, out,
		"Enter birth details for Person 1",
		"Error: ",
		"Enter birth details for Person 1",
		"Person 1 - Born 1990-08-07 (time unknown) in Dallas",
		"Zz",
		"Yy",
		"Add another person",
	)
}
