// Package pipeline sequences a full cartoon production: script, narration,
// then visuals, strictly one scene at a time. Individual scene failures
// degrade to placeholders instead of aborting the run; only cancellation and
// script failure stop it.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"sync"
	"time"

	"tooncraft/config"
	"tooncraft/generation"
	"tooncraft/types"
)

// Request describes one production run.
type Request struct {
	UserID     string
	Brief      string
	Age        int
	MovieMode  bool
	SceneCount int
}

// Result carries the finished script plus signals the caller surfaces to the
// user instead of failing the run.
type Result struct {
	Script *types.Script

	// VideoAccessDenied is set when a movie-mode run had no video sessions
	// left and was produced as stills instead.
	VideoAccessDenied bool
}

// Producer owns production runs. Starting a run cancels any run already in
// flight, mirroring a user abandoning one story for another.
type Producer struct {
	services MediaServices
	ent      Entitlements
	slot     VideoSlotFunc
	gaps     pacing

	mu     sync.Mutex
	cancel context.CancelFunc
}

// pacing holds the inter-call delays that smooth request rate against
// per-key provider limits.
type pacing struct {
	narrationGap  time.Duration
	stillSceneGap time.Duration
	preVideoDelay time.Duration
	movieSceneGap time.Duration
}

func defaultPacing() pacing {
	return pacing{
		narrationGap:  config.NarrationGap,
		stillSceneGap: config.StillSceneGap,
		preVideoDelay: config.PreVideoDelay,
		movieSceneGap: config.MovieSceneGap,
	}
}

// NewProducer wires a producer. ent may be nil, which grants video
// unconditionally; slot may be nil and defaults to EveryOtherScene.
func NewProducer(services MediaServices, ent Entitlements, slot VideoSlotFunc) *Producer {
	if slot == nil {
		slot = EveryOtherScene
	}
	return &Producer{services: services, ent: ent, slot: slot, gaps: defaultPacing()}
}

// CancelActive aborts the run in flight, if any.
func (p *Producer) CancelActive() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Producer) begin(parent context.Context) (context.Context, context.CancelFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	return ctx, cancel
}

// Run produces a cartoon end to end. progress may be nil. A context error
// means the run was cancelled or superseded; any other error means scripting
// failed and the run can be retried with the same brief.
func (p *Producer) Run(parent context.Context, req Request, progress ProgressFunc) (*Result, error) {
	ctx, cancel := p.begin(parent)
	defer cancel()
	if progress == nil {
		progress = func(types.GenerationProgress) {}
	}

	progress(types.GenerationProgress{Stage: types.StageScripting, Message: "Writing the screenplay..."})
	script, err := p.services.GenerateScript(ctx, req.Brief, req.Age, req.MovieMode, req.SceneCount)
	if err != nil {
		return nil, err
	}
	total := len(script.Scenes)

	if err := p.narrate(ctx, script, req.Age, progress); err != nil {
		return nil, err
	}

	result := &Result{Script: script}
	if req.MovieMode {
		allowed, err := p.videoAllowed(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			log.Printf("🔒 No video sessions left for %s, producing stills instead", req.UserID)
			result.VideoAccessDenied = true
		}
		if err := p.movieVisuals(ctx, script, req.Age, allowed, progress); err != nil {
			return nil, err
		}
	} else {
		if err := p.stillVisuals(ctx, script, req.Age, progress); err != nil {
			return nil, err
		}
	}

	progress(types.GenerationProgress{
		Stage:       types.StageReady,
		TotalScenes: total,
		Message:     "Your cartoon is ready!",
	})
	return result, nil
}

// videoAllowed consumes one video session if the store grants it. A nil or
// unreachable store must not block production, so store errors grant access.
func (p *Producer) videoAllowed(ctx context.Context, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.ent == nil {
		return true, nil
	}
	ok, err := p.ent.ConsumeVideoSession(ctx, userID)
	if err != nil {
		if generation.IsCancelled(err) {
			return false, err
		}
		log.Printf("⚠️ Entitlement store unavailable, allowing video: %v", err)
		return true, nil
	}
	return ok, nil
}

// narrate voices every scene sequentially. A failed scene keeps an empty
// audio track; the show goes on.
func (p *Producer) narrate(ctx context.Context, script *types.Script, age int, progress ProgressFunc) error {
	total := len(script.Scenes)
	progress(types.GenerationProgress{Stage: types.StageAudio, TotalScenes: total, Message: "Casting voice actors..."})
	for i, scene := range script.Scenes {
		if err := ctx.Err(); err != nil {
			return err
		}
		progress(types.GenerationProgress{
			Stage:        types.StageAudio,
			CurrentScene: i + 1,
			TotalScenes:  total,
			Message:      fmt.Sprintf("Recording narration for scene %d...", i+1),
		})
		audio, err := p.services.GenerateNarration(ctx, scene.Narrative, age)
		if err != nil {
			if generation.IsCancelled(err) {
				return err
			}
			log.Printf("⚠️ Narration failed for scene %d: %v", i+1, err)
		} else {
			scene.Audio = base64.StdEncoding.EncodeToString(audio)
		}
		if err := generation.Wait(ctx, p.gaps.narrationGap); err != nil {
			return err
		}
	}
	return nil
}

// stillVisuals draws every scene as an image, feeding each scene's result to
// the next as a character-design reference so failures only break their own
// scene's continuity.
func (p *Producer) stillVisuals(ctx context.Context, script *types.Script, age int, progress ProgressFunc) error {
	total := len(script.Scenes)
	var prevImage []byte
	for i, scene := range script.Scenes {
		if err := ctx.Err(); err != nil {
			return err
		}
		progress(types.GenerationProgress{
			Stage:        types.StageVisuals,
			CurrentScene: i + 1,
			TotalScenes:  total,
			Message:      fmt.Sprintf("Drawing Scene %d...", i+1),
		})
		img, err := p.services.GenerateSceneImage(ctx, scene.VisualDescription, age, prevImage, false)
		if err != nil {
			if generation.IsCancelled(err) {
				return err
			}
			log.Printf("⚠️ Visuals failed for scene %d: %v", i+1, err)
			img = Placeholder(fmt.Sprintf("Scene %d Missing", i+1))
		}
		scene.Image = base64.StdEncoding.EncodeToString(img)
		prevImage = img
		if err := generation.Wait(ctx, p.gaps.stillSceneGap); err != nil {
			return err
		}
	}
	return nil
}

// movieVisuals produces mixed media: a base image for every scene, animated
// into video on the indices the slot strategy selects. A failed video keeps
// the still; a failed image gets a placeholder.
func (p *Producer) movieVisuals(ctx context.Context, script *types.Script, age int, videoAllowed bool, progress ProgressFunc) error {
	total := len(script.Scenes)
	var prevImage []byte
	for i, scene := range script.Scenes {
		if err := ctx.Err(); err != nil {
			return err
		}
		wantVideo := videoAllowed && p.slot(i)
		message := fmt.Sprintf("Drawing Scene %d...", i+1)
		if wantVideo {
			message = fmt.Sprintf("Filming Scene %d... (this takes a moment)", i+1)
		}
		progress(types.GenerationProgress{
			Stage:        types.StageVisuals,
			CurrentScene: i + 1,
			TotalScenes:  total,
			Message:      message,
		})

		img, err := p.services.GenerateSceneImage(ctx, scene.VisualDescription, age, prevImage, false)
		if err != nil {
			if generation.IsCancelled(err) {
				return err
			}
			log.Printf("⚠️ Visuals failed for scene %d: %v", i+1, err)
			scene.Image = base64.StdEncoding.EncodeToString(Placeholder("Visual Generation Failed"))
			if err := generation.Wait(ctx, p.gaps.movieSceneGap); err != nil {
				return err
			}
			continue
		}
		scene.Image = base64.StdEncoding.EncodeToString(img)
		prevImage = img

		if wantVideo {
			// Breathe between the two heavy calls.
			if err := generation.Wait(ctx, p.gaps.preVideoDelay); err != nil {
				return err
			}
			video, err := p.services.GenerateVideo(ctx, scene.VisualDescription, img)
			if err != nil {
				if generation.IsCancelled(err) {
					return err
				}
				log.Printf("⚠️ Video failed for scene %d, keeping the still: %v", i+1, err)
			} else {
				scene.Video = base64.StdEncoding.EncodeToString(video)
				scene.IsVideo = true
			}
		}
		if err := generation.Wait(ctx, p.gaps.movieSceneGap); err != nil {
			return err
		}
	}
	return nil
}
