package types

import "time"

// Scene is one beat of the cartoon. It is created empty by script generation
// and filled in place by the narration and visual stages.
type Scene struct {
	ID int `json:"id"`
	// Narrative is the exact text the narrator speaks for this scene.
	Narrative string `json:"narrative"`
	// VisualDescription is the prompt handed to the image/video generators.
	VisualDescription string `json:"visualDescription"`
	// Image, Video and Audio are base64-encoded payloads (JPEG/PNG, MP4, WAV).
	// Base64 keeps them directly embeddable in data URIs by the UI.
	Image    string  `json:"imageUrl,omitempty"`
	Video    string  `json:"videoUrl,omitempty"`
	Audio    string  `json:"audioUrl,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	IsVideo  bool    `json:"isVideo"`
	// SFXURL tags a sound effect chosen by the user after playback starts.
	SFXURL string `json:"sfxUrl,omitempty"`
}

// Script is the full production aggregate. Scene order is playback order.
type Script struct {
	Title       string   `json:"title"`
	Characters  []string `json:"characters"`
	Scenes      []*Scene `json:"scenes"`
	TargetAge   int      `json:"targetAge,omitempty"`
	IsMovieMode bool     `json:"isMovieMode,omitempty"`
}

// Stage identifies the production stage a progress update belongs to.
type Stage string

const (
	StageScripting Stage = "scripting"
	StageAudio     Stage = "audio"
	StageVisuals   Stage = "visuals"
	StageReady     Stage = "ready"
)

// GenerationProgress is reported to the caller after every significant step.
// CurrentScene is 1-based for display; 0 means "not per-scene yet".
type GenerationProgress struct {
	Stage        Stage  `json:"stage"`
	CurrentScene int    `json:"currentScene"`
	TotalScenes  int    `json:"totalScenes"`
	Message      string `json:"message"`
}

// Message is one turn of the director brainstorm conversation.
type Message struct {
	ID   string `json:"id"`
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Project is a completed production saved to the archive.
type Project struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	SavedAt time.Time `json:"saved_at"`
	Script  *Script   `json:"script"`
}
