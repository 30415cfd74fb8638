package studio

import (
	"context"

	"tooncraft/config"
	"tooncraft/generation"

	"google.golang.org/genai"
)

// GenerateNarration speaks one scene's narrative and returns a playable WAV.
// There is a single TTS backend, so this retries rather than chains.
func (s *Studio) GenerateNarration(ctx context.Context, text string, age int) ([]byte, error) {
	ttsText := text
	if age < 8 {
		ttsText = "Speak cheerfully: " + text
	}
	return generation.Retry(ctx, s.pool, config.DefaultRetries, config.NarrationRetryDelay,
		func(ctx context.Context) ([]byte, error) {
			pcm, err := s.geminiSpeech(ctx, ttsText)
			if err != nil {
				return nil, err
			}
			return pcmToWAV(pcm), nil
		})
}

func (s *Studio) geminiSpeech(ctx context.Context, text string) ([]byte, error) {
	client, err := s.geminiClient(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.GenerateContent(ctx, s.ttsModels[0], genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	})
	if err != nil {
		return nil, wrapGeminiErr(err)
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, &generation.MalformedResponseError{Provider: s.ttsModels[0], Reason: "no audio returned"}
}
