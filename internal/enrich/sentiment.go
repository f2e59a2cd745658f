package enrich

import (
	"context"
	"fmt"
)

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassifySentiment runs the description through the sentiment inference
// service and returns the categorical label (POSITIVE/NEGATIVE). The score
// is not exposed.
func (s *Service) ClassifySentiment(ctx context.Context, text string) (string, error) {
	if s.cfg.SentimentURL == "" {
		return "", fmt.Errorf("sentiment: classifier endpoint is not configured")
	}

	var out sentimentResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sentimentRequest{Text: text}).
		SetResult(&out).
		Post(s.cfg.SentimentURL)
	if err != nil {
		return "", fmt.Errorf("sentiment request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("sentiment: status %s", resp.Status())
	}
	if out.Label == "" {
		return "", fmt.Errorf("sentiment: label missing from response")
	}

	return out.Label, nil
}
