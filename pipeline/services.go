package pipeline

import (
	"context"

	"tooncraft/types"
)

// MediaServices is the capability surface the producer drives. *studio.Studio
// implements it; tests substitute fakes.
type MediaServices interface {
	GenerateScript(ctx context.Context, brief string, age int, movieMode bool, sceneCount int) (*types.Script, error)
	GenerateNarration(ctx context.Context, text string, age int) ([]byte, error)
	GenerateSceneImage(ctx context.Context, prompt string, age int, refImage []byte, isRetry bool) ([]byte, error)
	GenerateVideo(ctx context.Context, prompt string, seedImage []byte) ([]byte, error)
}

// Entitlements answers whether a user may spend a video production session.
type Entitlements interface {
	ConsumeVideoSession(ctx context.Context, userID string) (bool, error)
}

// ProgressFunc receives a snapshot after every pipeline step. Callbacks run
// on the producing goroutine and should return quickly.
type ProgressFunc func(types.GenerationProgress)

// VideoSlotFunc decides which scene indices get animated in movie mode.
type VideoSlotFunc func(sceneIndex int) bool

// EveryOtherScene animates even indices, alternating motion and stills to
// stretch the video budget across the whole cartoon.
func EveryOtherScene(i int) bool { return i%2 == 0 }
