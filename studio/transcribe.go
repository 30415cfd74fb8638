package studio

import (
	"context"
	"log"
	"strings"

	"tooncraft/generation"
)

// TranscribeAudio converts recorded speech to text. Transcription is a
// convenience on top of typed input, so every failure collapses to an empty
// string; the logs keep the distinction between a dead backend and silence.
func (s *Studio) TranscribeAudio(ctx context.Context, audio []byte) string {
	text, err := s.hf.transcribe(ctx, s.sttModel, audio)
	if err != nil {
		if generation.IsCancelled(err) {
			return ""
		}
		log.Printf("⚠️ Transcription backend unreachable: %v", err)
		return ""
	}
	if strings.TrimSpace(text) == "" {
		log.Printf("🔇 Transcription returned no speech")
		return ""
	}
	return text
}
