package enrich

import (
	"context"
	"fmt"
	"strconv"
)

type geocodeResponse struct {
	PrincipalSubdivision string `json:"principalSubdivision"`
	CountryName          string `json:"countryName"`
}

// ReverseGeocode maps a coordinate to its state and country. Missing fields
// in the provider response yield empty strings rather than an error.
func (s *Service) ReverseGeocode(ctx context.Context, lat, long float64) (Location, error) {
	var out geocodeResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":         formatCoord(lat),
			"longitude":        formatCoord(long),
			"localityLanguage": "en",
		}).
		SetResult(&out).
		Get(s.cfg.GeocodeURL)
	if err != nil {
		return Location{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	if resp.IsError() {
		return Location{}, fmt.Errorf("reverse geocode: status %s", resp.Status())
	}

	return Location{
		State:   out.PrincipalSubdivision,
		Country: out.CountryName,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
