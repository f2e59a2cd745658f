package enrich

import (
	"context"
	"fmt"
	"strconv"
)

type weatherResponse struct {
	Current struct {
		Temperature2m *float64 `json:"temperature_2m"`
	} `json:"current"`
	CurrentUnits struct {
		Temperature2m string `json:"temperature_2m"`
	} `json:"current_units"`
}

// CurrentTemperature fetches the current temperature at the coordinate,
// formatted as the value concatenated with the provider's unit string.
func (s *Service) CurrentTemperature(ctx context.Context, lat, long float64) (string, error) {
	var out weatherResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":         formatCoord(lat),
			"longitude":        formatCoord(long),
			"current":          "temperature_2m",
			"temperature_unit": s.cfg.TemperatureUnit,
			"timezone":         s.cfg.Timezone,
			"past_days":        "0",
		}).
		SetResult(&out).
		Get(s.cfg.WeatherURL)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("weather: status %s", resp.Status())
	}
	if out.Current.Temperature2m == nil {
		return "", fmt.Errorf("weather: temperature missing from response")
	}

	return strconv.FormatFloat(*out.Current.Temperature2m, 'f', -1, 64) + out.CurrentUnits.Temperature2m, nil
}
