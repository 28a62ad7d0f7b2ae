// Package intervals is the intervals.icu API client.
//
// Every fetch is attempted a fixed number of times with a fixed delay between
// attempts. A fetch that never succeeds returns errors.ErrFetchError; callers
// treat that as "no data" rather than a fatal failure.
package intervals

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	apperrors "github.com/dickravison/health-fitness-tracker/pkg/errors"
	"github.com/dickravison/health-fitness-tracker/pkg/metrics"
	"github.com/dickravison/health-fitness-tracker/pkg/types"
)

const (
	DefaultBaseURL    = "https://intervals.icu/api/v1"
	DefaultAttempts   = 3
	DefaultRetryDelay = 2 * time.Second
	DefaultTimeout    = 30 * time.Second

	// maxErrorBody bounds how much of a failed response is kept for logs.
	maxErrorBody = 512
)

// Options configure a Client. Zero values take the defaults; a zero
// RetryDelay retries immediately.
type Options struct {
	BaseURL    string
	APIKey     string
	Attempts   int
	RetryDelay time.Duration
	Timeout    time.Duration
	// RequestsPerSecond limits outgoing requests; zero disables the limit.
	RequestsPerSecond float64
	// Transport is the base transport under the auth layer; nil uses the default.
	Transport http.RoundTripper
}

type Client struct {
	baseURL    string
	http       *http.Client
	attempts   int
	retryDelay time.Duration
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

func NewClient(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "intervals")

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &Transport{APIKey: opts.APIKey, Base: opts.Transport},
		},
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		limiter:    limiter,
		breaker:    newBreaker(logger),
		logger:     logger,
	}
}

// Activities lists completed activities along with the response body exactly
// as received. An empty newest leaves the range open.
func (c *Client) Activities(ctx context.Context, athleteID, oldest, newest string) ([]types.RawActivity, []byte, error) {
	var out []types.RawActivity
	body, err := c.fetch(ctx, "activities", athleteID, "/activities", rangeParams(oldest, newest), &out)
	return out, body, err
}

// Wellness lists daily wellness entries along with the response body.
func (c *Client) Wellness(ctx context.Context, athleteID, oldest, newest string) ([]types.RawWellness, []byte, error) {
	var out []types.RawWellness
	body, err := c.fetch(ctx, "wellness", athleteID, "/wellness", rangeParams(oldest, newest), &out)
	return out, body, err
}

// Athlete returns the athlete profile with its sport settings.
func (c *Client) Athlete(ctx context.Context, athleteID string) (*types.RawAthlete, error) {
	var out types.RawAthlete
	if _, err := c.fetch(ctx, "athlete", athleteID, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Events lists planned workouts.
func (c *Client) Events(ctx context.Context, athleteID, oldest, newest string) ([]types.RawEvent, error) {
	var out []types.RawEvent
	params := append([]queryParam{{"category", "WORKOUT"}}, rangeParams(oldest, newest)...)
	_, err := c.fetch(ctx, "events", athleteID, "/events", params, &out)
	return out, err
}

type queryParam struct {
	name  string
	value string
}

func rangeParams(oldest, newest string) []queryParam {
	var params []queryParam
	if oldest != "" {
		params = append(params, queryParam{"oldest", oldest})
	}
	if newest != "" {
		params = append(params, queryParam{"newest", newest})
	}
	return params
}

// buildURL renders /athlete/{id}<suffix>?<params>.
func (c *Client) buildURL(athleteID, suffix string, params []queryParam) (string, error) {
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "id", runtime.ParamLocationPath, athleteID)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(c.baseURL + "/athlete/" + pathParam + suffix)
	if err != nil {
		return "", err
	}

	queryValues := u.Query()
	for _, p := range params {
		queryFrag, err := runtime.StyleParamWithLocation("form", true, p.name, runtime.ParamLocationQuery, p.value)
		if err != nil {
			return "", err
		}
		parsed, err := url.ParseQuery(queryFrag)
		if err != nil {
			return "", err
		}
		for k, v := range parsed {
			for _, v2 := range v {
				queryValues.Add(k, v2)
			}
		}
	}
	u.RawQuery = queryValues.Encode()
	return u.String(), nil
}

// fetch decodes the response into out and returns the undecoded body.
func (c *Client) fetch(ctx context.Context, endpoint, athleteID, suffix string, params []queryParam, out interface{}) ([]byte, error) {
	reqURL, err := c.buildURL(athleteID, suffix, params)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload.WithCause(err).WithMetadata("endpoint", endpoint)
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		body, err := c.get(ctx, endpoint, reqURL)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				// A malformed body will not improve on retry.
				return nil, apperrors.ErrFetchError.WithCause(fmt.Errorf("decode %s: %w", endpoint, err)).WithMetadata("endpoint", endpoint)
			}
			metrics.IntervalsRequests.WithLabelValues(endpoint, metrics.OutcomeSuccess).Inc()
			return body, nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.IntervalsRequests.WithLabelValues(endpoint, metrics.OutcomeRejected).Inc()
		} else {
			metrics.IntervalsRequests.WithLabelValues(endpoint, metrics.OutcomeRetry).Inc()
		}
		c.logger.Warn("Failed to fetch data", "endpoint", endpoint, "attempt", attempt, "error", err)

		if attempt == c.attempts {
			break
		}
		timer := time.NewTimer(c.retryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, apperrors.ErrFetchError.WithCause(ctx.Err()).WithMetadata("endpoint", endpoint)
		}
	}

	metrics.IntervalsRequests.WithLabelValues(endpoint, metrics.OutcomeFailure).Inc()
	return nil, apperrors.ErrFetchError.
		WithCause(fmt.Errorf("%s: giving up after %d attempts: %w", endpoint, c.attempts, lastErr)).
		WithMetadata("endpoint", endpoint)
}

// get performs one request through the limiter and circuit breaker and
// returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.IntervalsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return body, nil
	})
}
