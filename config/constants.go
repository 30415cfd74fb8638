package config

import "time"

// Model chains. Order encodes preference: primary providers first, degraded
// fallbacks last. Entries with an "hf:" prefix are served by the Hugging Face
// Inference API, "cohere:" by Cohere; everything else is a Gemini model.
var (
	// ScriptModels is the fallback chain for structured script generation
	// and director chat.
	ScriptModels = []string{
		"gemini-2.5-flash",
		"gemini-3-flash-preview",
		"gemini-3-pro-preview",
		"cohere:command-r-08-2024",
	}

	// ImageModels is the multimodal image chain. These accept a reference
	// image for character consistency.
	ImageModels = []string{
		"gemini-2.5-flash-image",
		"gemini-3-pro-image-preview",
	}

	// VideoModels is the video chain: Veo variants first, then hosted
	// inference image-to-video models.
	VideoModels = []string{
		"veo-3.1-fast-generate-preview",
		"veo-3.1-generate-preview",
		"veo-3.0-generate-preview",
		"veo-3.0-generate-001",
		"hf:lightx2v/Wan2.2-Distill-Loras",
		"hf:Wan-AI/Wan2.2-I2V-A14B",
		"hf:Lightricks/LTX-Video",
		"hf:stabilityai/stable-video-diffusion-img2vid-xt-1-1",
	}

	// TTSModels currently holds a single specialized speech model.
	TTSModels = []string{"gemini-2.5-flash-preview-tts"}
)

const (
	// ImagenModel is the text-to-image fallback tried only after the whole
	// multimodal chain fails. It cannot take a reference image, so character
	// consistency is lost in that branch.
	ImagenModel = "imagen-4.0-generate-001"

	// STTModel transcribes recorded audio via the Hugging Face Inference API.
	STTModel = "openai/whisper-large-v3"
)

// Retry and fallback tuning.
const (
	// DefaultRetries is the retry budget for a standalone capability call.
	DefaultRetries = 2

	// NarrationRetryDelay is the slower backoff seed used for TTS calls.
	NarrationRetryDelay = 2 * time.Second
)

// Pipeline pacing. Scenes are processed strictly sequentially; these delays
// smooth the request rate against per-key provider limits.
const (
	// NarrationGap separates per-scene TTS calls.
	NarrationGap = 200 * time.Millisecond

	// StillSceneGap separates per-scene image generations in still mode.
	StillSceneGap = 1500 * time.Millisecond

	// PreVideoDelay runs after the base image and before the heavier video
	// call in movie mode.
	PreVideoDelay = 2 * time.Second

	// MovieSceneGap is the safety delay after each movie-mode scene.
	MovieSceneGap = 1 * time.Second

	// VideoPollInterval is the wait between Veo operation polls.
	VideoPollInterval = 10 * time.Second

	// MaxColdStartRetries bounds how often a "model is loading" response from
	// hosted inference is honored before the provider counts as failed.
	MaxColdStartRetries = 5

	// DefaultColdStartWait applies when the loading response carries no
	// estimated time.
	DefaultColdStartWait = 20 * time.Second
)

// Audio output format. TTS providers return headerless 16-bit PCM which the
// narration adapter wraps into a WAV container with these parameters.
const (
	AudioSampleRate    = 24000
	AudioChannels      = 1
	AudioBitsPerSample = 16
)

// Placeholder frame dimensions (16:9, matches generated stills).
const (
	PlaceholderWidth  = 1280
	PlaceholderHeight = 720
)

// DefaultVoice is the prebuilt TTS voice used when none is configured.
const DefaultVoice = "Kore"

// Entitlement limits for premium video generation.
const (
	// FreeVideoTrials is the number of movie-mode runs a new user gets.
	FreeVideoTrials = 3

	// DailyVideoLimit caps movie-mode scenes per day for unlimited-tier
	// users; the counter resets 24h after the first use.
	DailyVideoLimit = 6
)

// StyleSuffix returns the image style instructions for an age bracket:
// chunkier and brighter for younger kids, more cinematic for older ones.
func StyleSuffix(age int) string {
	if age < 8 {
		return "cartoon style, 3d render, cute, bright colors, chunky shapes, kid friendly, G-rated"
	}
	return "cartoon style, cinematic, detailed textures, vibrant, dynamic composition, G-rated"
}
