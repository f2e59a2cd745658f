package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestService(cfg Config) *Service {
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Second
	}
	return New(cfg, testLogger())
}

func TestReverseGeocode(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"principalSubdivision":"New York","countryName":"United States"}`))
	}))
	defer server.Close()

	svc := newTestService(Config{GeocodeURL: server.URL})

	loc, err := svc.ReverseGeocode(context.Background(), 40.7128, -74.006)
	require.NoError(t, err)
	assert.Equal(t, Location{State: "New York", Country: "United States"}, loc)

	assert.Equal(t, "40.7128", gotQuery.Get("latitude"))
	assert.Equal(t, "-74.006", gotQuery.Get("longitude"))
	assert.Equal(t, "en", gotQuery.Get("localityLanguage"))
}

func TestReverseGeocode_MissingFieldsAreBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"countryName":"France"}`))
	}))
	defer server.Close()

	svc := newTestService(Config{GeocodeURL: server.URL})

	loc, err := svc.ReverseGeocode(context.Background(), 48.85, 2.35)
	require.NoError(t, err)
	assert.Empty(t, loc.State)
	assert.Equal(t, "France", loc.Country)
}

func TestReverseGeocode_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestService(Config{GeocodeURL: server.URL})

	_, err := svc.ReverseGeocode(context.Background(), 0, 0)
	require.Error(t, err)
}
