// Package studio normalizes every media capability (script, image,
// narration, video, transcription, chat) into a single call the fallback
// executor can drive, hiding per-backend quirks: Veo operation polling,
// hosted-inference cold starts, safety-rejection prompt sanitization.
package studio

import (
	"net/http"
	"time"

	"tooncraft/config"
	"tooncraft/keypool"

	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// Studio invokes concrete generative backends on behalf of the pipeline.
// All exported methods are safe for concurrent use; the shared mutable state
// is the credential pool, which coordinates internally.
type Studio struct {
	pool   *keypool.Pool
	voice  string
	hf     *hfClient
	cohere *cohereclient.Client

	scriptModels []string
	imageModels  []string
	videoModels  []string
	ttsModels    []string
	imagenModel  string
	sttModel     string
}

// New wires a Studio from configuration. A missing Hugging Face token or
// Cohere key disables those provider families; the Gemini chains still run.
func New(cfg config.Config) *Studio {
	s := &Studio{
		pool:  keypool.New(cfg.GeminiKeyPool, cfg.GeminiPrimaryKey),
		voice: cfg.Voice,
		hf: &hfClient{
			token:   cfg.HFToken,
			baseURL: hfDefaultBaseURL,
			client:  &http.Client{Timeout: 5 * time.Minute},
		},
		scriptModels: config.ScriptModels,
		imageModels:  config.ImageModels,
		videoModels:  config.VideoModels,
		ttsModels:    config.TTSModels,
		imagenModel:  config.ImagenModel,
		sttModel:     config.STTModel,
	}
	if s.voice == "" {
		s.voice = config.DefaultVoice
	}
	if cfg.CohereKey != "" {
		s.cohere = cohereclient.NewClient(cohereclient.WithToken(cfg.CohereKey))
	}
	return s
}

// Pool exposes the credential pool for callers that need rotation state
// (mainly tests and diagnostics).
func (s *Studio) Pool() *keypool.Pool { return s.pool }
