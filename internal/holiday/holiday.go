// Package holiday fetches upcoming public holidays per country and keeps a
// best-effort cache of the next one. Failures never leave this package.
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is the Nager.Date "next public holidays" API.
const DefaultEndpoint = "https://date.nager.at/api/v3/NextPublicHolidays"

// DateLayout is the layout of Holiday.Date.
const DateLayout = "2006-01-02"

// Holiday is one public holiday as returned by the remote service.
type Holiday struct {
	Date        string `json:"date"`
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// Day parses Date as a calendar day in loc.
func (h Holiday) Day(loc *time.Location) (time.Time, bool) {
	d, err := time.ParseInLocation(DateLayout, h.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Result is the tagged outcome of one fetch. Err is set on any failure;
// Holidays may be empty on success.
type Result struct {
	Holidays []Holiday
	Err      error
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Fetcher retrieves the upcoming holidays for one country code.
type Fetcher interface {
	Fetch(ctx context.Context, countryCode string) Result
}

// Client fetches holidays over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient returns a Client for endpoint (DefaultEndpoint when empty).
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, countryCode string) Result {
	holidays, err := c.fetch(ctx, countryCode)
	return Result{Holidays: holidays, Err: err}
}

func (c *Client) fetch(ctx context.Context, countryCode string) ([]Holiday, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return nil, fmt.Errorf("empty country code")
	}

	url := c.endpoint + "/" + code
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday service returned %d for %s", resp.StatusCode, code)
	}

	var holidays []Holiday
	if err := json.Unmarshal(body, &holidays); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return holidays, nil
}
