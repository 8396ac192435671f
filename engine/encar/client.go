// Package encar is the HTTP client for the car catalog API. It builds list
// queries, tolerates the handful of list envelopes the backend has used,
// and folds every failure into the typed errors of package catalog.
package encar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/WessleyAI/encarview/pkg/mid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:8000/api"
	DefaultTimeout = 10 * time.Second
)

// Endpoint labels reported to the Recorder.
const (
	EndpointList    = "list"
	EndpointDetail  = "detail"
	EndpointOptions = "options"
)

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

// Recorder receives one observation per upstream call. Status is 0 when
// no response arrived.
type Recorder interface {
	ObserveUpstream(endpoint string, status int, d time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Strict    bool
	Transport http.RoundTripper
	Recorder  Recorder
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client talks to the catalog API. It is safe for concurrent use.
type Client struct {
	base     string
	http     *http.Client
	strict   bool
	schema   *jsonschema.Schema
	recorder Recorder
	log      *slog.Logger
}

// New creates a Client. An empty BaseURL or zero Timeout take the defaults.
func New(opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("encar: base url %q must be http or https", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		base:     base,
		http:     &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(transport)},
		strict:   opts.Strict,
		recorder: opts.Recorder,
		log:      logger.With("component", "encar"),
	}
	if opts.Strict {
		s, err := compileListSchema()
		if err != nil {
			return nil, fmt.Errorf("encar: compile list schema: %w", err)
		}
		c.schema = s
	}
	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string { return c.base }

// ListCars fetches one page of cars. Any failure is a *catalog.LoadListError.
func (c *Client) ListCars(ctx context.Context, filters catalog.Filters, sort catalog.Sort, offset, limit int) ([]catalog.CarSummary, error) {
	body, _, err := c.get(ctx, EndpointList, "/cars?"+BuildListQuery(filters, sort, offset, limit))
	if err != nil {
		return nil, &catalog.LoadListError{Cause: err}
	}

	var cars []catalog.CarSummary
	if c.strict {
		cars, err = decodeListStrict(body, c.schema)
	} else {
		cars, err = decodeListTolerant(body, c.log)
	}
	if err != nil {
		c.log.Error("decode car list", "error", err, "offset", offset)
		return nil, &catalog.LoadListError{Cause: err}
	}
	return cars, nil
}

// GetCar fetches one car. A 404 yields *catalog.NotFoundError, anything else
// *catalog.LoadDetailError.
func (c *Client) GetCar(ctx context.Context, id int) (catalog.CarDetail, error) {
	body, status, err := c.get(ctx, EndpointDetail, "/cars/"+strconv.Itoa(id))
	if err != nil {
		if status == http.StatusNotFound {
			return catalog.CarDetail{}, &catalog.NotFoundError{ID: id}
		}
		return catalog.CarDetail{}, &catalog.LoadDetailError{ID: id, Cause: err}
	}

	var car catalog.CarDetail
	if err := json.Unmarshal(body, &car); err != nil {
		c.log.Error("decode car detail", "error", err, "id", id)
		return catalog.CarDetail{}, &catalog.LoadDetailError{ID: id, Cause: fmt.Errorf("decode: %w", err)}
	}
	return car, nil
}

// optionsPayload keeps the ranges as pointers so an absent range can be
// told apart from a zero one.
type optionsPayload struct {
	Manufacturers []string       `json:"manufacturers"`
	FuelTypes     []string       `json:"fuel_types"`
	Transmissions []string       `json:"transmissions"`
	Cities        []string       `json:"cities"`
	PriceRange    *catalog.Range `json:"price_range"`
	YearRange     *catalog.Range `json:"year_range"`
}

// GetFilterOptions fetches the filter vocabularies. Missing ranges take the
// catalog defaults. Any failure is a *catalog.LoadOptionsError.
func (c *Client) GetFilterOptions(ctx context.Context) (catalog.FilterOptions, error) {
	body, _, err := c.get(ctx, EndpointOptions, "/cars/filters/options")
	if err != nil {
		return catalog.FilterOptions{}, &catalog.LoadOptionsError{Cause: err}
	}

	var p optionsPayload
	if err := json.Unmarshal(body, &p); err != nil {
		c.log.Error("decode filter options", "error", err)
		return catalog.FilterOptions{}, &catalog.LoadOptionsError{Cause: fmt.Errorf("decode: %w", err)}
	}

	opts := catalog.DefaultFilterOptions()
	opts.Manufacturers = orEmpty(p.Manufacturers)
	opts.FuelTypes = orEmpty(p.FuelTypes)
	opts.Transmissions = orEmpty(p.Transmissions)
	opts.Cities = orEmpty(p.Cities)
	if p.PriceRange != nil {
		opts.PriceRange = *p.PriceRange
	}
	if p.YearRange != nil {
		opts.YearRange = *p.YearRange
	}
	return opts, nil
}

// get issues a GET and returns the body of a 2xx response. The returned
// status is the HTTP status when a response arrived, 0 otherwise.
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, int, error) {
	url := c.base + path
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := mid.RequestIDFrom(ctx); id != "" {
		req.Header.Set(mid.RequestIDHeader, id)
	}

	c.log.Debug("api request", "method", req.Method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(endpoint, 0, start)
		if errors.Is(err, context.Canceled) {
			c.log.Debug("api request cancelled", "url", url)
		} else {
			c.log.Error("api request failed", "method", req.Method, "url", url, "error", err, "duration", time.Since(start))
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.observe(endpoint, resp.StatusCode, start)
	if err != nil {
		c.log.Error("api read body", "url", url, "status", resp.StatusCode, "error", err)
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		level := slog.LevelError
		if resp.StatusCode == http.StatusNotFound {
			level = slog.LevelWarn
		}
		c.log.Log(ctx, level, "api error response",
			"method", req.Method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: snippet(body)}
	}

	c.log.Debug("api response", "method", req.Method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))
	return body, resp.StatusCode, nil
}

func (c *Client) observe(endpoint string, status int, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream(endpoint, status, time.Since(start))
	}
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
