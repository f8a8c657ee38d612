package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/wthr-dev/wthr/internal/models"
)

const (
	defaultTimeout = 10 * time.Second

	// maxErrorBody bounds how much of an error response is read for its message
	maxErrorBody = 64 << 10
)

// Cache interface for caching HTTP responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Client is the API client for OpenWeatherMap
type Client struct {
	httpClient   *http.Client
	baseURL      string
	geoURL       string
	apiKey       string
	units        string
	lang         string
	suggestLimit int
	cache        Cache
	breaker      *gobreaker.CircuitBreaker
	now          func() time.Time
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIKey sets the provider API key
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the data API base URL
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithGeoURL overrides the geocoding API base URL
func WithGeoURL(u string) ClientOption {
	return func(c *Client) {
		c.geoURL = strings.TrimRight(u, "/")
	}
}

// WithUnits sets the measurement units (metric, imperial, standard)
func WithUnits(units string) ClientOption {
	return func(c *Client) {
		c.units = units
	}
}

// WithLang sets the language of condition descriptions
func WithLang(lang string) ClientOption {
	return func(c *Client) {
		c.lang = lang
	}
}

// WithSuggestLimit sets the maximum number of suggestions requested
func WithSuggestLimit(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.suggestLimit = n
		}
	}
}

// WithCache enables caching of geocoding responses with the provided cache implementation
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithClock sets the time source used for UpdatedAt
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:      BaseURL,
		geoURL:       GeoBaseURL,
		units:        DefaultUnits,
		lang:         DefaultLang,
		suggestLimit: DefaultSuggestLimit,
		now:          time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		return nil, errors.New("http client is nil")
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Only transport and server failures count against the provider;
		// an unknown city or a bad key is the caller's problem.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.StatusCode < 500
			}
			return errors.Is(err, context.Canceled)
		},
	})

	return c, nil
}

// CurrentByQuery fetches current weather for a free-text city name
func (c *Client) CurrentByQuery(ctx context.Context, query string) (*models.City, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrMissingField("query")
	}

	params := url.Values{}
	params.Set("q", query)

	return c.current(ctx, params)
}

// CurrentByID fetches current weather for a provider city id
func (c *Client) CurrentByID(ctx context.Context, id int64) (*models.City, error) {
	if id <= 0 {
		return nil, ErrInvalidValue("id", id)
	}

	params := url.Values{}
	params.Set("id", strconv.FormatInt(id, 10))

	return c.current(ctx, params)
}

func (c *Client) current(ctx context.Context, params url.Values) (*models.City, error) {
	params.Set("units", c.units)
	params.Set("lang", c.lang)

	body, err := c.doRequest(ctx, c.baseURL+EndpointCurrent, params, false)
	if err != nil {
		return nil, err
	}

	var resp models.CurrentWeatherResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse current weather response: %w", err)
	}

	return resp.ToCity(c.now()), nil
}

// Forecast fetches the short-range forecast for coordinates, truncated to
// models.MaxForecastPoints points
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]models.ForecastPoint, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("cnt", strconv.Itoa(models.MaxForecastPoints))
	params.Set("units", c.units)
	params.Set("lang", c.lang)

	body, err := c.doRequest(ctx, c.baseURL+EndpointForecast, params, false)
	if err != nil {
		return nil, err
	}

	var resp models.ForecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	return resp.ToPoints(), nil
}

// Suggest returns city suggestions for a partial name. Queries shorter than
// two characters return no suggestions without contacting the provider.
func (c *Client) Suggest(ctx context.Context, query string) ([]models.CitySuggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestRunes {
		return []models.CitySuggestion{}, nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.suggestLimit))

	body, err := c.doRequest(ctx, c.geoURL+EndpointDirect, params, true)
	if err != nil {
		return nil, err
	}

	var resp []models.GeocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions response: %w", err)
	}

	suggestions := make([]models.CitySuggestion, 0, len(resp))
	for _, entry := range resp {
		suggestions = append(suggestions, *entry.ToSuggestion())
	}

	return suggestions, nil
}

// doRequest performs an HTTP GET request through the circuit breaker.
// Only cacheable requests consult and fill the cache.
func (c *Client) doRequest(ctx context.Context, endpointURL string, params url.Values, cacheable bool) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	// Cache keys never include the API key
	cacheKey := endpointURL + "?" + params.Encode()
	if cacheable && c.cache != nil {
		if data, ok := c.cache.Get(cacheKey); ok {
			return data, nil
		}
	}

	params.Set("appid", c.apiKey)
	reqURL := endpointURL + "?" + params.Encode()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, reqURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}

	if cacheable && c.cache != nil {
		_ = c.cache.Set(cacheKey, body)
	}

	return body, nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newResponseError(resp, extractEndpoint(reqURL))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// newResponseError builds an APIError, taking the message from the
// provider's JSON error body when it has one
func newResponseError(resp *http.Response, endpoint string) *APIError {
	var payload struct {
		Message string `json:"message"`
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err == nil && json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		apiErr := NewAPIErrorWithMessage(resp.StatusCode, endpoint, payload.Message)
		apiErr.Status = resp.Status
		return apiErr
	}

	return NewAPIError(resp.StatusCode, resp.Status, endpoint)
}

// extractEndpoint extracts the endpoint path from a full URL
func extractEndpoint(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return "unknown"
	}
	return u.Path
}
