package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"tooncraft/types"
)

type fakeServices struct {
	mu sync.Mutex

	scriptErr    error
	sceneCount   int
	narrationErr map[int]error // keyed by 0-based scene index
	imageErr     map[int]error
	videoErr     error

	narrationBlocked chan struct{} // when set, narration waits for ctx

	imageRefs  [][]byte
	videoSeeds [][]byte
	videoIdx   []int
	imageCalls int
}

func (f *fakeServices) GenerateScript(ctx context.Context, brief string, age int, movieMode bool, sceneCount int) (*types.Script, error) {
	if f.scriptErr != nil {
		return nil, f.scriptErr
	}
	n := f.sceneCount
	if n == 0 {
		n = sceneCount
	}
	script := &types.Script{Title: "Test Toon", TargetAge: age, IsMovieMode: movieMode}
	for i := 0; i < n; i++ {
		script.Scenes = append(script.Scenes, &types.Scene{
			ID:                i + 1,
			Narrative:         fmt.Sprintf("narrative %d", i),
			VisualDescription: fmt.Sprintf("visual %d", i),
		})
	}
	return script, nil
}

func (f *fakeServices) GenerateNarration(ctx context.Context, text string, age int) ([]byte, error) {
	f.mu.Lock()
	blocked := f.narrationBlocked
	f.narrationBlocked = nil
	f.mu.Unlock()
	if blocked != nil {
		close(blocked)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	var idx int
	fmt.Sscanf(text, "narrative %d", &idx)
	if err := f.narrationErr[idx]; err != nil {
		return nil, err
	}
	return []byte("pcm " + text), nil
}

func (f *fakeServices) GenerateSceneImage(ctx context.Context, prompt string, age int, refImage []byte, isRetry bool) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := f.imageCalls
	f.imageCalls++
	f.imageRefs = append(f.imageRefs, refImage)
	var idx int
	fmt.Sscanf(prompt, "visual %d", &idx)
	if err := f.imageErr[idx]; err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("img %d", call)), nil
}

func (f *fakeServices) GenerateVideo(ctx context.Context, prompt string, seedImage []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var idx int
	fmt.Sscanf(prompt, "visual %d", &idx)
	f.videoIdx = append(f.videoIdx, idx)
	f.videoSeeds = append(f.videoSeeds, seedImage)
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return []byte("vid " + prompt), nil
}

type fakeEntitlements struct {
	grant bool
	err   error
	calls int
}

func (f *fakeEntitlements) ConsumeVideoSession(ctx context.Context, userID string) (bool, error) {
	f.calls++
	return f.grant, f.err
}

func newTestProducer(services MediaServices, ent Entitlements, slot VideoSlotFunc) *Producer {
	p := NewProducer(services, ent, slot)
	p.gaps = pacing{} // no pacing in tests
	return p
}

func TestRunStillModeEndToEnd(t *testing.T) {
	fake := &fakeServices{sceneCount: 3}
	p := newTestProducer(fake, nil, nil)

	var stages []types.Stage
	result, err := p.Run(context.Background(), Request{Brief: "a brave cat", Age: 7, SceneCount: 3},
		func(prog types.GenerationProgress) { stages = append(stages, prog.Stage) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	script := result.Script
	if len(script.Scenes) != 3 {
		t.Fatalf("scene count = %d", len(script.Scenes))
	}
	for i, scene := range script.Scenes {
		if scene.Audio == "" {
			t.Errorf("scene %d has no audio", i)
		}
		if scene.Image == "" {
			t.Errorf("scene %d has no image", i)
		}
		if scene.IsVideo {
			t.Errorf("scene %d marked video in still mode", i)
		}
	}
	if stages[0] != types.StageScripting || stages[len(stages)-1] != types.StageReady {
		t.Errorf("stage walk = %v", stages)
	}

	// Character consistency: scene 0 has no reference, each later scene sees
	// its predecessor's image.
	if fake.imageRefs[0] != nil {
		t.Error("scene 0 should have no reference image")
	}
	if string(fake.imageRefs[1]) != "img 0" || string(fake.imageRefs[2]) != "img 1" {
		t.Errorf("references = %q, %q", fake.imageRefs[1], fake.imageRefs[2])
	}
}

func TestRunSceneFailuresDegrade(t *testing.T) {
	fake := &fakeServices{
		sceneCount:   3,
		narrationErr: map[int]error{1: errors.New("tts down")},
		imageErr:     map[int]error{1: errors.New("all image generation strategies failed")},
	}
	p := newTestProducer(fake, nil, nil)

	result, err := p.Run(context.Background(), Request{Brief: "b", Age: 9, SceneCount: 3}, nil)
	if err != nil {
		t.Fatalf("per-scene failures must not fail the run: %v", err)
	}
	scenes := result.Script.Scenes
	if scenes[1].Audio != "" {
		t.Error("failed narration should leave audio empty")
	}
	if scenes[0].Audio == "" || scenes[2].Audio == "" {
		t.Error("healthy scenes should keep their audio")
	}
	if scenes[1].Image == "" {
		t.Error("failed visual should get a placeholder, not stay empty")
	}
	placeholder, _ := base64.StdEncoding.DecodeString(scenes[1].Image)
	if strings.HasPrefix(string(placeholder), "img ") {
		t.Error("scene 1 should carry a placeholder, not a generated image")
	}
	// The placeholder becomes the next scene's reference.
	if string(fake.imageRefs[2]) != string(placeholder) {
		t.Error("scene 2 should reference the placeholder frame")
	}
}

func TestRunMovieModeAlternation(t *testing.T) {
	fake := &fakeServices{sceneCount: 5}
	ent := &fakeEntitlements{grant: true}
	p := newTestProducer(fake, ent, nil)

	result, err := p.Run(context.Background(), Request{UserID: "kid-1", Brief: "b", Age: 10, MovieMode: true, SceneCount: 5}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ent.calls != 1 {
		t.Errorf("entitlement consumed %d times, want 1", ent.calls)
	}
	if len(fake.videoIdx) != 3 || fake.videoIdx[0] != 0 || fake.videoIdx[1] != 2 || fake.videoIdx[2] != 4 {
		t.Fatalf("video scene indices = %v, want [0 2 4]", fake.videoIdx)
	}
	for i, scene := range result.Script.Scenes {
		wantVideo := i%2 == 0
		if scene.IsVideo != wantVideo {
			t.Errorf("scene %d IsVideo = %v, want %v", i, scene.IsVideo, wantVideo)
		}
		if scene.Image == "" {
			t.Errorf("scene %d missing base image", i)
		}
	}
	// Each video is seeded with its own scene's base image.
	if string(fake.videoSeeds[0]) != "img 0" {
		t.Errorf("first video seed = %q", fake.videoSeeds[0])
	}
}

func TestRunMovieModeCustomSlot(t *testing.T) {
	fake := &fakeServices{sceneCount: 3}
	onlyLast := func(i int) bool { return i == 2 }
	p := newTestProducer(fake, nil, onlyLast)

	_, err := p.Run(context.Background(), Request{Brief: "b", Age: 10, MovieMode: true, SceneCount: 3}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.videoIdx) != 1 || fake.videoIdx[0] != 2 {
		t.Errorf("video scene indices = %v, want [2]", fake.videoIdx)
	}
}

func TestRunMovieModeAccessDenied(t *testing.T) {
	fake := &fakeServices{sceneCount: 3}
	ent := &fakeEntitlements{grant: false}
	p := newTestProducer(fake, ent, nil)

	result, err := p.Run(context.Background(), Request{UserID: "kid-1", Brief: "b", Age: 10, MovieMode: true, SceneCount: 3}, nil)
	if err != nil {
		t.Fatalf("denied access must degrade, not fail: %v", err)
	}
	if !result.VideoAccessDenied {
		t.Error("VideoAccessDenied not surfaced")
	}
	if len(fake.videoIdx) != 0 {
		t.Errorf("no videos should be attempted, got %v", fake.videoIdx)
	}
	for i, scene := range result.Script.Scenes {
		if scene.Image == "" || scene.IsVideo {
			t.Errorf("scene %d should be a plain still", i)
		}
	}
}

func TestRunMovieModeVideoFailureKeepsStill(t *testing.T) {
	fake := &fakeServices{sceneCount: 2, videoErr: errors.New("veo down")}
	p := newTestProducer(fake, nil, nil)

	result, err := p.Run(context.Background(), Request{Brief: "b", Age: 10, MovieMode: true, SceneCount: 2}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scene := result.Script.Scenes[0]
	if scene.IsVideo || scene.Video != "" {
		t.Error("failed video should not be marked on the scene")
	}
	if scene.Image == "" {
		t.Error("base still should survive a video failure")
	}
}

func TestRunScriptFailureFailsRun(t *testing.T) {
	fake := &fakeServices{scriptErr: errors.New("all providers down")}
	p := newTestProducer(fake, nil, nil)
	if _, err := p.Run(context.Background(), Request{Brief: "b", Age: 7}, nil); err == nil {
		t.Fatal("script failure must fail the run")
	}
}

func TestRunCancellation(t *testing.T) {
	fake := &fakeServices{sceneCount: 3, narrationBlocked: make(chan struct{})}
	blocked := fake.narrationBlocked
	p := newTestProducer(fake, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.Run(ctx, Request{Brief: "b", Age: 7, SceneCount: 3}, nil)
		done <- err
	}()

	<-blocked
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
}

func TestRunSupersedesActiveRun(t *testing.T) {
	fake := &fakeServices{sceneCount: 2, narrationBlocked: make(chan struct{})}
	blocked := fake.narrationBlocked
	p := newTestProducer(fake, nil, nil)

	first := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), Request{Brief: "first story", Age: 7, SceneCount: 2}, nil)
		first <- err
	}()
	<-blocked

	// Starting a new run cancels the one in flight.
	if _, err := p.Run(context.Background(), Request{Brief: "second story", Age: 7, SceneCount: 2}, nil); err != nil {
		t.Fatalf("replacement run failed: %v", err)
	}
	select {
	case err := <-first:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("first run error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first run was not superseded")
	}
}

func TestCancelActive(t *testing.T) {
	fake := &fakeServices{sceneCount: 2, narrationBlocked: make(chan struct{})}
	blocked := fake.narrationBlocked
	p := newTestProducer(fake, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), Request{Brief: "b", Age: 7, SceneCount: 2}, nil)
		done <- err
	}()
	<-blocked
	p.CancelActive()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after CancelActive")
	}
}
