package enrich

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Location is the administrative region a coordinate resolves to. Fields the
// provider cannot resolve stay empty; a partial result is not an error.
type Location struct {
	State   string
	Country string
}

// Enricher exposes the three external capabilities used to augment a raw
// submission. Each call is synchronous and independently fallible, so the
// ingestion pipeline can be tested against a deterministic fake.
type Enricher interface {
	ReverseGeocode(ctx context.Context, lat, long float64) (Location, error)
	CurrentTemperature(ctx context.Context, lat, long float64) (string, error)
	ClassifySentiment(ctx context.Context, text string) (string, error)
}

// Config holds provider endpoints and request parameters.
type Config struct {
	GeocodeURL      string
	WeatherURL      string
	SentimentURL    string
	TemperatureUnit string
	Timezone        string
	Timeout         time.Duration
}

// Service implements Enricher against HTTP providers.
type Service struct {
	client *resty.Client
	cfg    Config
	logger *logrus.Logger
}

func New(cfg Config, logger *logrus.Logger) *Service {
	if cfg.GeocodeURL == "" {
		cfg.GeocodeURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
	}
	if cfg.WeatherURL == "" {
		cfg.WeatherURL = "https://api.open-meteo.com/v1/forecast"
	}
	if cfg.TemperatureUnit == "" {
		cfg.TemperatureUnit = "fahrenheit"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/New_York"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := resty.New().SetTimeout(cfg.Timeout)

	return &Service{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}
