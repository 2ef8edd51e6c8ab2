// Package openweathermap implements the weather provider against the
// OpenWeatherMap current-weather API.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/routecast/routecast/internal/provider/resilience"
	"github.com/routecast/routecast/internal/traffic"
	"github.com/routecast/routecast/internal/weather"
)

const (
	// ProviderName identifies this provider in logs.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the current-weather API endpoint.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// heavyRainThresholdMM is hourly rainfall above which rain is
	// classified as heavy.
	heavyRainThresholdMM = 10.0
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is required for live calls.
	APIKey string

	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string

	// HTTPClient defaults to a resilient client when nil.
	HTTPClient *resilience.Client

	Logger zerolog.Logger
}

// Client fetches current weather readings for one coordinate.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CurrentWeather fetches and maps the current reading at a coordinate.
func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (*weather.Observation, error) {
	url := fmt.Sprintf("%s/weather?lat=%.4f&lon=%.4f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toObservation(&body), nil
}

func (c *Client) toObservation(resp *currentWeatherResponse) *weather.Observation {
	obs := &weather.Observation{
		Condition:       traffic.WeatherClear,
		TemperatureC:    resp.Main.Temp,
		HumidityPercent: resp.Main.Humidity,
		WindSpeedKMH:    resp.Wind.Speed * 3.6,
		ObservedAt:      time.Unix(resp.Dt, 0),
	}

	if len(resp.Weather) > 0 {
		obs.Condition = mapCondition(resp.Weather[0].Main, resp.Rain.OneHour)
		obs.Description = resp.Weather[0].Description
	}

	return obs
}

// mapCondition folds provider condition groups into route terms. Rain
// above the hourly threshold counts as heavy.
func mapCondition(main string, rainfallMM float64) traffic.Weather {
	switch strings.ToLower(main) {
	case "thunderstorm":
		return traffic.WeatherHeavyRain
	case "rain", "drizzle":
		if rainfallMM > heavyRainThresholdMM {
			return traffic.WeatherHeavyRain
		}
		return traffic.WeatherRain
	case "mist", "fog", "haze", "smoke":
		return traffic.WeatherFog
	default:
		return traffic.WeatherClear
	}
}

type currentWeatherResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
	Dt int64 `json:"dt"`
}
