package studio

import (
	"context"
	"errors"

	"tooncraft/generation"

	"google.golang.org/genai"
)

// geminiClient builds a client against whichever credential the pool
// currently designates. A fresh client per call is cheap and means a
// rotation between attempts is always picked up.
func (s *Studio) geminiClient(ctx context.Context) (*genai.Client, error) {
	key := s.pool.Current()
	if key == "" {
		return nil, errors.New("no Gemini credentials configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, wrapGeminiErr(err)
	}
	return client, nil
}

// wrapGeminiErr lifts the SDK's structured API error into a StatusError so
// classification can key off the HTTP code instead of message text.
func wrapGeminiErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &generation.StatusError{Code: apiErr.Code, Message: apiErr.Message}
	}
	return err
}

func detectImageMIME(data []byte) string {
	if len(data) >= 8 && data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return "image/png"
	}
	return "image/jpeg"
}
