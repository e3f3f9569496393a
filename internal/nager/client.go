package nager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	appLog "holidaytracker/internal/log"
	"holidaytracker/internal/model"
)

const (
	// CountryCode is the only country this tool tracks.
	CountryCode = "TR"

	defaultBaseURL = "https://date.nager.at"
	defaultTimeout = 15 * time.Second

	// maxBodyBytes caps a single response; a year is a few KiB.
	maxBodyBytes = 4 << 20
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Parallel makes FetchAll issue all requests concurrently.
	Parallel bool
	// HTTPClient overrides the default client; Timeout is ignored if set.
	HTTPClient *http.Client
}

// Client fetches public holidays for CountryCode from a Nager.Date API.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
	parallel  bool
}

// FetchResult is the outcome of fetching one year. Exactly one of
// Holidays/Err is meaningful: on failure Holidays is nil.
type FetchResult struct {
	Year     int
	Holidays []model.Holiday
	Err      error
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "unexpected HTTP status: " + e.Status
}

// NewClient creates a new API client.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		client:    hc,
		baseURL:   baseURL,
		userAgent: opts.UserAgent,
		parallel:  opts.Parallel,
	}
}

// YearURL builds the request URL for the given year.
func (c *Client) YearURL(year int) string {
	return c.baseURL + "/api/v3/PublicHolidays/" + strconv.Itoa(year) + "/" + CountryCode
}

// FetchAll fetches every year and returns one result per year, in the
// order given. Failures are logged and carried in FetchResult.Err.
func (c *Client) FetchAll(ctx context.Context, years []int) []FetchResult {
	results := make([]FetchResult, len(years))

	if !c.parallel {
		for i, year := range years {
			results[i] = c.fetchResult(ctx, year)
		}
		return results
	}

	// Each goroutine owns one slot, so no locking is needed. Errors are
	// carried in the results rather than cancelling siblings.
	var g errgroup.Group
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			results[i] = c.fetchResult(ctx, year)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Client) fetchResult(ctx context.Context, year int) FetchResult {
	holidays, err := c.FetchYear(ctx, year)
	if err != nil {
		appLog.Error("holiday fetch failed", err, "year", year, "url", c.YearURL(year))
		return FetchResult{Year: year, Err: err}
	}
	return FetchResult{Year: year, Holidays: holidays}
}

// FetchYear performs a single GET for year and decodes the response.
func (c *Client) FetchYear(ctx context.Context, year int) ([]model.Holiday, error) {
	url := c.YearURL(year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	appLog.Info("holiday fetch start", "year", year, "url", url)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	holidays, err := Decode(body)
	if err != nil {
		return nil, err
	}

	appLog.Info("holiday fetch success", "year", year, "status", resp.StatusCode, "count", len(holidays))
	return holidays, nil
}

// holidayJSON is the wire shape of one API record.
type holidayJSON struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Fixed       bool     `json:"fixed"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	LaunchYear  *int     `json:"launchYear"`
	Types       []string `json:"types"`
}

// ErrEmptyBody is returned when the API answers 2xx with no content.
var ErrEmptyBody = errors.New("empty response body")

// Decode parses a JSON array of holidays. Dates are parsed here, once;
// an unparseable date fails the whole payload.
func Decode(body []byte) ([]model.Holiday, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyBody
	}

	var raw []holidayJSON
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}

	out := make([]model.Holiday, 0, len(raw))
	for i, r := range raw {
		d, err := time.Parse(model.DateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("decode holidays: record %d: invalid date %q: %w", i, r.Date, err)
		}
		out = append(out, model.Holiday{
			Date:        d,
			LocalName:   r.LocalName,
			Name:        r.Name,
			CountryCode: r.CountryCode,
			Fixed:       r.Fixed,
			Global:      r.Global,
			Counties:    r.Counties,
			LaunchYear:  r.LaunchYear,
			Types:       r.Types,
		})
	}
	return out, nil
}
