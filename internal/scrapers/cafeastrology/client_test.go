package cafeastrology

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"astrocompat/internal/chart"
	"astrocompat/internal/components/telemetry"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/synastry.html
var synastryPage string

type fakeSite struct {
	chartStatus int
	chartPage   string
	forms       []map[string]string
	queries     [][2]string
	headers     []http.Header
}

func (f *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.headers = append(f.headers, r.Header.Clone())

	switch r.URL.Path {
	case "/natal.php":
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		form := map[string]string{}
		for key := range r.PostForm {
			form[key] = r.PostForm.Get(key)
		}
		f.forms = append(f.forms, form)

		if f.chartStatus != 0 {
			w.WriteHeader(f.chartStatus)
			w.Write([]byte("service unavailable"))
			return
		}
		w.Write([]byte(f.chartPage))
	case "/synastry.php":
		query := r.URL.Query()
		f.queries = append(f.queries, [2]string{query.Get("index"), query.Get("index2")})
		w.Write([]byte(synastryPage))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t testing.TB, site *fakeSite) (Client, *telemetry.RecordingAPI) {
	server := httptest.NewServer(site)
	t.Cleanup(server.Close)

	rec := telemetry.NewRecordingAPI()
	client, err := NewClient(ClientOptions{
		ChartUrl:    server.URL + "/natal.php",
		SynastryUrl: server.URL + "/synastry.php",
		Headers:     map[string]string{"x-test": "1"},
	}, rec)
	require.NoError(t, err)
	return client, rec
}

func TestSubmitChart(t *testing.T) {
	site := &fakeSite{chartPage: chartPage}
	client, _ := newTestClient(t, site)

	req := ChartRequest{
		Year:     1990,
		Month:    8,
		Day:      7,
		Location: dallas(t),
		Sex:      Female,
	}
	id, doc, err := client.SubmitChart(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, UserId("273999001"), id)
	require.Equal(t, chartPage, doc)

	require.Len(t, site.forms, 1)
	require.Equal(t, req.FormData(), site.forms[0])
	require.Equal(t, "1", site.headers[0].Get("x-test"))
	require.Contains(t, site.headers[0].Get("user-agent"), "Chrome/103")
}

func TestSubmitChartErrors(t *testing.T) {
	req := ChartRequest{Year: 1990, Month: 8, Day: 7, Location: dallas(t)}

	t.Run("status", func(t *testing.T) {
		client, rec := newTestClient(t, &fakeSite{chartStatus: http.StatusServiceUnavailable})
		_, _, err := client.SubmitChart(context.Background(), req)

		var transportErr TransportError
		require.True(t, errors.As(err, &transportErr))
		require.Equal(t, http.StatusServiceUnavailable, transportErr.Status)
		require.Equal(t, "service unavailable", transportErr.Body)

		broken := rec.Reports(telemetry.KindBroken)
		require.NotEmpty(t, broken)
		require.Equal(t, "cafeastrology: client.submit-chart", broken[len(broken)-1].Id)
	})

	t.Run("no identifier", func(t *testing.T) {
		client, _ := newTestClient(t, &fakeSite{chartPage: "<p>nothing</p>"})
		_, _, err := client.SubmitChart(context.Background(), req)
		require.True(t, errors.Is(err, ErrIdentifierNotFound))
	})
}

func TestScores(t *testing.T) {
	site := &fakeSite{}
	client, _ := newTestClient(t, site)

	score, link, err := client.Scores(context.Background(), "111", "273725830")
	require.NoError(t, err)
	require.Equal(t, chart.Score{Positive: 10, Negative: 3, Total: 7}, score)
	require.Equal(t, client.SynastryLink("111", "273725830"), link)
	require.Equal(t, [][2]string{{"111", "273725830"}}, site.queries)
}

func TestLinks(t *testing.T) {
	client, err := NewClient(DefaultClientOptions(), telemetry.NewRecordingAPI())
	require.NoError(t, err)

	require.Equal(
		t,
		"https://astro.cafeastrology.com/natal.php?index=42",
		client.ChartLink("42"),
	)
	require.Equal(
		t,
		"https://astro.cafeastrology.com/synastry.php?index=42&index2=273725830",
		client.SynastryLink("42", "273725830"),
	)
}
