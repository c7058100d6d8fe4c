package geonames

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hcsolakoglu/country-list-updated-weekly/lib/retryutil"
	"github.com/hcsolakoglu/country-list-updated-weekly/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("countrylist.lib.scrapers.geonames")

// DefaultURL is the public geonames country list page.
const DefaultURL = "https://www.geonames.org/countries/"

// the page blocks obvious bots, so requests go out under a plausible
// browser identity
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Edge/120.0.0.0 Safari/537.36",
}

// FetchError is a network or HTTP failure that survived the retry
// schedule.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: giving up after %d attempt(s): %s", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	// defaults to DefaultURL
	URL string
	// defaults to retryutil.DefaultPolicy
	Retry retryutil.Policy
}

// Client is the sole network boundary of the pipeline.
type Client struct {
	url  string
	http *resty.Client
}

func NewClient(opts ClientOptions) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = retryutil.DefaultPolicy()
	}

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	ua := userAgents[0]
	if n, err := random.IntRange(0, len(userAgents)); err == nil {
		ua = userAgents[n]
	}
	client.SetHeader("User-Agent", ua)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")
	client.SetTimeout(time.Second * 30)

	opts.Retry.Apply(client, shouldRetry)

	telemetry.InstrumentResty(client, "scrapers/geonames/http")

	return &Client{
		url:  opts.URL,
		http: client,
	}
}

// transient failures are worth retrying; a page that refuses us outright
// (401/403/404) is not going to change its mind
func shouldRetry(res *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if res.StatusCode() == http.StatusTooManyRequests {
		return true
	}
	return res.StatusCode() >= 500
}

// Fetch retrieves the raw HTML of the country list page, retrying
// transient failures with exponential backoff.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Fetch")
	defer span.End()

	slog.InfoContext(ctx, "fetching country list", "url", c.url)

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.url)

	attempts := 1
	if res != nil && res.Request != nil {
		attempts = res.Request.Attempt
	}
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return "", &FetchError{URL: c.url, Attempts: attempts, Err: err}
	}
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
		return "", &FetchError{
			URL:      c.url,
			Attempts: attempts,
			Err:      fmt.Errorf("unexpected status %s", res.Status()),
		}
	}

	return res.String(), nil
}
