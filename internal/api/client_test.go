package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wthr-dev/wthr/internal/models"
	"github.com/wthr-dev/wthr/internal/testutil"
)

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func TestNewClient(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, GeoBaseURL, client.geoURL)
	assert.Equal(t, DefaultUnits, client.units)
	assert.Equal(t, DefaultLang, client.lang)
	assert.Equal(t, DefaultSuggestLimit, client.suggestLimit)
	assert.NotNil(t, client.breaker)
}

func TestNewClient_WithTimeout(t *testing.T) {
	customTimeout := 30 * time.Second
	client, err := NewClient(WithTimeout(customTimeout))
	require.NoError(t, err)
	assert.Equal(t, customTimeout, client.httpClient.Timeout)
}

func TestNewClient_WithHTTPClient(t *testing.T) {
	customClient := &http.Client{Timeout: 5 * time.Second}
	client, err := NewClient(WithHTTPClient(customClient))
	require.NoError(t, err)
	assert.Same(t, customClient, client.httpClient)
}

func TestNewClient_NilHTTPClient(t *testing.T) {
	_, err := NewClient(WithHTTPClient(nil))
	assert.Error(t, err)
}

func TestNewClient_Options(t *testing.T) {
	client, err := NewClient(
		WithBaseURL("http://example.test/data/"),
		WithGeoURL("http://example.test/geo/"),
		WithUnits("imperial"),
		WithLang("en"),
		WithSuggestLimit(3),
		WithSuggestLimit(0),
		WithCache(newMockCache()),
	)
	require.NoError(t, err)
	assert.Equal(t, "http://example.test/data", client.baseURL)
	assert.Equal(t, "http://example.test/geo", client.geoURL)
	assert.Equal(t, "imperial", client.units)
	assert.Equal(t, "en", client.lang)
	assert.Equal(t, 3, client.suggestLimit)
	assert.NotNil(t, client.cache)
}

func TestCurrentByQuery_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, EndpointCurrent, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleCurrentResponse))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	city, err := client.CurrentByQuery(context.Background(), "  Kyiv ")
	require.NoError(t, err)

	assert.Equal(t, int64(703448), city.ID)
	assert.Equal(t, "Kyiv", city.Name)
	assert.Equal(t, "UA", city.Country)
	assert.InDelta(t, 12.4, city.Main.Temp, 0.001)
	assert.InDelta(t, 11.2, city.Main.FeelsLike, 0.001)
	assert.Equal(t, 71, city.Main.Humidity)
	assert.Equal(t, 75, city.Clouds)
	assert.Equal(t, "хмарно", city.Primary().Description)
	assert.Equal(t, testNow, city.UpdatedAt)

	query := ms.Queries()[0]
	assert.Equal(t, "Kyiv", query.Get("q"))
	assert.Equal(t, "metric", query.Get("units"))
	assert.Equal(t, "uk", query.Get("lang"))
	assert.Equal(t, "test-key", query.Get("appid"))
}

func TestCurrentByQuery_EmptyQuery(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	_, err := client.CurrentByQuery(context.Background(), "   ")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "query", ve.Field)
	assert.Equal(t, 0, ms.RequestCount())
}

func TestCurrentByID_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleLvivResponse))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	city, err := client.CurrentByID(context.Background(), 702550)
	require.NoError(t, err)
	assert.Equal(t, "Lviv", city.Name)
	assert.Equal(t, "702550", ms.Queries()[0].Get("id"))
	assert.Empty(t, ms.Queries()[0].Get("q"))
}

func TestCurrentByID_InvalidID(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")

	_, err := client.CurrentByID(context.Background(), 0)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCurrent_NotFoundCarriesProviderMessage(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(testutil.SampleErrorResponse))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	_, err := client.CurrentByQuery(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "city not found", apiErr.UserMessage())
	assert.Equal(t, EndpointCurrent, apiErr.Endpoint)
}

func TestCurrent_ServerErrorWithoutBody(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	_, err := client.CurrentByID(context.Background(), 703448)
	assert.ErrorIs(t, err, ErrServerError)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, DefaultErrorMessage, apiErr.UserMessage())
}

func TestCurrent_InvalidJSON(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`invalid json`))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	_, err := client.CurrentByQuery(context.Background(), "Kyiv")
	assert.Error(t, err)
}

func TestClient_MissingAPIKey(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	defer ms.Close()

	client, err := NewClient(WithBaseURL(ms.URL), WithGeoURL(ms.URL))
	require.NoError(t, err)

	_, err = client.CurrentByQuery(context.Background(), "Kyiv")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = client.Suggest(context.Background(), "Kyiv")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	assert.Equal(t, 0, ms.RequestCount())
}

func TestClient_ContextCancellation(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleCurrentResponse))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.CurrentByQuery(ctx, "Kyiv")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	for i := 0; i < 5; i++ {
		_, err := client.CurrentByID(context.Background(), 703448)
		require.ErrorIs(t, err, ErrServerError)
	}

	_, err := client.CurrentByID(context.Background(), 703448)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 5, ms.RequestCount())
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(testutil.SampleErrorResponse))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	for i := 0; i < 8; i++ {
		_, err := client.CurrentByQuery(context.Background(), "Atlantis")
		require.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 8, ms.RequestCount())
}

func TestForecast_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointForecast, r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleForecastResponse))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	points, err := client.Forecast(context.Background(), 50.4333, 30.5167)
	require.NoError(t, err)
	require.Len(t, points, models.MaxForecastPoints)
	assert.Equal(t, int64(1718010000), points[0].Timestamp)
	assert.InDelta(t, 10.0, points[0].Temperature, 0.001)

	query := ms.Queries()[0]
	assert.Equal(t, "50.4333", query.Get("lat"))
	assert.Equal(t, "30.5167", query.Get("lon"))
	assert.Equal(t, "8", query.Get("cnt"))
}

func TestSuggest_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EndpointDirect, r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleGeocodeResponse))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	suggestions, err := client.Suggest(context.Background(), "Kyi")
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, "Київ, Kyiv City, UA", suggestions[0].Label)
	assert.Equal(t, "50.4500:30.5241", suggestions[0].ID)
	assert.Equal(t, "Kyiv, Minnesota, US", suggestions[1].Label)

	query := ms.Queries()[0]
	assert.Equal(t, "Kyi", query.Get("q"))
	assert.Equal(t, "5", query.Get("limit"))
}

func TestSuggest_ShortQuery(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	})
	defer ms.Close()

	client := newTestClient(t, ms.URL)

	for _, q := range []string{"", " ", "К", " K "} {
		suggestions, err := client.Suggest(context.Background(), q)
		require.NoError(t, err)
		assert.NotNil(t, suggestions)
		assert.Empty(t, suggestions)
	}
	assert.Equal(t, 0, ms.RequestCount())
}

func TestSuggest_UsesCache(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleGeocodeResponse))
	})
	defer ms.Close()

	mc := newMockCache()
	client := newTestClient(t, ms.URL, WithCache(mc))

	_, err := client.Suggest(context.Background(), "Kyi")
	require.NoError(t, err)
	_, err = client.Suggest(context.Background(), "Kyi")
	require.NoError(t, err)

	assert.Equal(t, 1, ms.RequestCount())
	for key := range mc.data {
		assert.False(t, strings.Contains(key, "appid"), "cache key leaks the API key: %s", key)
	}
}

func TestCurrent_BypassesCache(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleCurrentResponse))
	})
	defer ms.Close()

	mc := newMockCache()
	client := newTestClient(t, ms.URL, WithCache(mc))

	for i := 0; i < 2; i++ {
		_, err := client.CurrentByQuery(context.Background(), "Kyiv")
		require.NoError(t, err)
	}

	assert.Equal(t, 2, ms.RequestCount())
	assert.Empty(t, mc.data)
}

func TestExtractEndpoint(t *testing.T) {
	assert.Equal(t, "/data/2.5/weather", extractEndpoint("https://api.openweathermap.org/data/2.5/weather?q=Kyiv"))
	assert.Equal(t, "unknown", extractEndpoint("://bad"))
}

// Mock cache implementation for testing
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Helper to create a client pointed at a mock server for testing
func newTestClient(t *testing.T, baseURL string, opts ...ClientOption) *Client {
	t.Helper()
	base := []ClientOption{
		WithBaseURL(baseURL),
		WithGeoURL(baseURL),
		WithAPIKey("test-key"),
		WithClock(func() time.Time { return testNow }),
	}
	client, err := NewClient(append(base, opts...)...)
	require.NoError(t, err)
	return client
}
