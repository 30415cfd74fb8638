package studio

import (
	"context"
	"errors"

	cohere "github.com/cohere-ai/cohere-go/v2"
)

// cohereGenerate runs a single chat turn against a Cohere model. Cohere sits
// in the chains as a different-vendor fallback, so a missing key is an
// ordinary provider failure rather than a configuration fatal.
func (s *Studio) cohereGenerate(ctx context.Context, model, preamble, message string) (string, error) {
	if s.cohere == nil {
		return "", errors.New("cohere credentials not configured")
	}
	resp, err := s.cohere.Chat(ctx, &cohere.ChatRequest{
		Model:    &model,
		Preamble: &preamble,
		Message:  message,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
