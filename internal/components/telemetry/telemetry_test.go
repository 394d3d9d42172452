package telemetry

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := NewRecordingAPI()
	scoped := NewScopedAPI("cafeastrology", rec)

	scoped.ReportBroken("client.submit-chart", "boom")
	scoped.ReportWarning("client.scores")
	scoped.ReportCount("session.people", 3)

	reports := rec.Reports("")
	require.Len(t, reports, 3)
	require.Equal(t, "cafeastrology: client.submit-chart", reports[0].Id)
	require.Equal(t, []any{"boom"}, reports[0].Params)
	require.Equal(t, KindWarning, reports[1].Kind)
	require.Equal(t, int64(3), reports[2].Count)
	require.Len(t, rec.Reports(KindBroken), 1)
}

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (m *memoryOutput) Write(id string, contents string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages[id] = contents
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	rec := NewRecordingAPI()
	out := &memoryOutput{messages: map[string]string{}}

	client := resty.New()
	InstrumentResty(client, rec, out)

	res, err := client.R().
		SetFormData(map[string]string{"command": "new"}).
		Post(server.URL + "/natal.php")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	debug := rec.Reports(KindDebug)
	require.Len(t, debug, 2)
	require.Equal(t, report_resty_request, debug[0].Id)
	require.Equal(t, report_resty_response, debug[1].Id)

	message, ok := out.messages["1"]
	require.True(t, ok)
	require.True(t, strings.HasPrefix(message, "---- REQUEST ----"))
	require.Contains(t, message, "command=new")
	require.Contains(t, message, "<p>ok</p>")
}

func TestInstrumentRestyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := NewRecordingAPI()
	client := resty.New()
	InstrumentResty(client, rec, nil)

	_, err := client.R().Get(url)
	require.Error(t, err)

	broken := rec.Reports(KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, report_resty_response, broken[0].Id)
}

func TestSlogAPI(t *testing.T) {
	buffer := &bytes.Buffer{}
	api := SlogAPI{Logger: slog.New(newHandler(buffer, false))}

	api.ReportBroken("cafeastrology: client.scores", errors.New("boom"), "273725830")
	api.ReportDebug("hidden unless verbose")
	api.ReportCount("session: people", 2)

	out := buffer.String()
	require.Contains(t, out, `msg="broken component"`)
	require.Contains(t, out, "err=boom")
	require.Contains(t, out, "params.1=273725830")
	require.Contains(t, out, "n=2")
	require.NotContains(t, out, "hidden unless verbose")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	require.NoError(t, os.MkdirAll(dir, 0777))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep me"), 0600))

	first, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	first.Write("1", "---- REQUEST ----")
	second, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	second.Write("1", "---- RESPONSE ----")

	contents, err := os.ReadFile(notes)
	require.NoError(t, err)
	require.Equal(t, "keep me", string(contents))

	require.NotEqual(t, first.Directory(), second.Directory())
	require.Equal(t, dir, filepath.Dir(first.Directory()))
	for output, want := range map[FilesystemOutput]string{
		first:  "---- REQUEST ----",
		second: "---- RESPONSE ----",
	} {
		dump, err := os.ReadFile(filepath.Join(output.Directory(), "1.http"))
		require.NoError(t, err)
		require.Equal(t, want, string(dump))
	}

	// a missing directory is created
	nested, err := NewFilesystemOutput(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	require.DirExists(t, nested.Directory())
}

func TestInstrumentProcessStats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := InstrumentProcessStats(ctx, time.Millisecond*10)
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 30)
}
