// Package cafeastrology scrapes charts and synastry scores off of
// astro.cafeastrology.com.
package cafeastrology

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"astrocompat/internal/chart"
	"astrocompat/internal/components/assert"
	"astrocompat/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_submit_chart = "client.submit-chart"
	report_client_scores       = "client.scores"
)

const (
	DefaultChartUrl    = "https://astro.cafeastrology.com/natal.php"
	DefaultSynastryUrl = "https://astro.cafeastrology.com/synastry.php"
)

// DefaultHeaders are sent with every request so the service sees a browser.
var DefaultHeaders = map[string]string{
	"accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"cache-control":             "max-age=0",
	"user-agent":                "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_12_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/103.0.0.0 Safari/537.36",
	"sec-ch-ua":                 `".Not/A)Brand";v="99", "Google Chrome";v="103", "Chromium";v="103"`,
	"accept-language":           "en-US,en;q=0.9",
	"connection":                "keep-alive",
	"upgrade-insecure-requests": "1",
}

type ClientOptions struct {
	ChartUrl    string
	SynastryUrl string
	// Headers are added on top of DefaultHeaders.
	Headers map[string]string
	Timeout time.Duration
	// RequestsPerSecond <= 0 disables rate limiting.
	RequestsPerSecond float64
	// BrowserTransport wraps the transport so TLS and missing headers look
	// like they come from a browser.
	BrowserTransport bool
	// MessageOutput receives full request/response dumps, it may be nil.
	MessageOutput telemetry.MessageOutput
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		ChartUrl:          DefaultChartUrl,
		SynastryUrl:       DefaultSynastryUrl,
		Timeout:           time.Second * 30,
		RequestsPerSecond: 2,
		BrowserTransport:  true,
	}
}

type Client struct {
	http        *resty.Client
	chartUrl    *url.URL
	synastryUrl *url.URL

	tel telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.ChartUrl)
	assert.NotEmptyStr(opts.SynastryUrl)

	tel = telemetry.NewScopedAPI("cafeastrology", tel)

	chartUrl, err := url.Parse(opts.ChartUrl)
	if err != nil {
		return Client{}, fmt.Errorf("parse chart url: %w", err)
	}
	synastryUrl, err := url.Parse(opts.SynastryUrl)
	if err != nil {
		return Client{}, fmt.Errorf("parse synastry url: %w", err)
	}

	httpClient := resty.New()
	if opts.BrowserTransport {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeaders(DefaultHeaders)
	httpClient.SetHeaders(opts.Headers)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(
		chartUrl.Hostname(),
		synastryUrl.Hostname(),
	))
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	if opts.RequestsPerSecond > 0 {
		// max burst >= 1 just means that no requests will be dropped
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel, opts.MessageOutput)

	return Client{
		http:        httpClient,
		chartUrl:    chartUrl,
		synastryUrl: synastryUrl,
		tel:         tel,
	}, nil
}

func (c Client) get(ctx context.Context, endpoint string, query url.Values) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(endpoint)
	return checkResponse(endpoint, res, err)
}

func checkResponse(endpoint string, res *resty.Response, err error) (string, error) {
	if err != nil {
		return "", TransportError{Url: endpoint, Err: err}
	}
	if res.StatusCode() != http.StatusOK {
		return "", TransportError{
			Url:    endpoint,
			Status: res.StatusCode(),
			Reason: res.Status(),
			Body:   res.String(),
		}
	}
	return res.String(), nil
}

// SubmitChart posts the chart form and returns the id the service assigned
// to the chart together with the chart page.
func (c Client) SubmitChart(ctx context.Context, req ChartRequest) (UserId, string, error) {
	endpoint := c.chartUrl.String()
	c.tel.ReportDebug(report_client_submit_chart, endpoint, req.Location.Name, req.IncludeHouses())

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(req.FormData()).
		Post(endpoint)
	doc, err := checkResponse(endpoint, res, err)
	if err != nil {
		c.tel.ReportBroken(
			report_client_submit_chart,
			fmt.Errorf("fetch: %w", err),
		)
		return "", "", err
	}

	id, err := ExtractUserId(doc)
	if err != nil {
		c.tel.ReportBroken(
			report_client_submit_chart,
			fmt.Errorf("extract user id: %w", err),
		)
		return "", "", err
	}

	return id, doc, nil
}

func synastryQuery(a, b UserId) url.Values {
	query := url.Values{}
	query.Set("index", string(a))
	query.Set("index2", string(b))
	return query
}

// Scores fetches the synastry page between two charts and parses its scores,
// the link to the full report is returned alongside.
func (c Client) Scores(ctx context.Context, a, b UserId) (chart.Score, string, error) {
	link := c.SynastryLink(a, b)
	c.tel.ReportDebug(report_client_scores, link)

	doc, err := c.get(ctx, c.synastryUrl.String(), synastryQuery(a, b))
	if err != nil {
		c.tel.ReportBroken(
			report_client_scores,
			fmt.Errorf("fetch: %w", err),
			link,
		)
		return chart.Score{}, link, err
	}

	score, err := chart.ParseScores(doc)
	if err != nil {
		c.tel.ReportBroken(
			report_client_scores,
			fmt.Errorf("parse: %w", err),
			link,
		)
		return chart.Score{}, link, err
	}
	return score, link, nil
}

// ChartLink returns the link to the full chart page of a submitted chart.
func (c Client) ChartLink(id UserId) string {
	link := *c.chartUrl
	query := url.Values{}
	query.Set("index", string(id))
	link.RawQuery = query.Encode()
	return link.String()
}

// SynastryLink returns the link to the full synastry report of two charts.
func (c Client) SynastryLink(a, b UserId) string {
	link := *c.synastryUrl
	link.RawQuery = synastryQuery(a, b).Encode()
	return link.String()
}
