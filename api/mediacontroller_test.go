package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tooncraft/archive"
	"tooncraft/entitlements"
	"tooncraft/pipeline"
	"tooncraft/types"

	"github.com/gin-gonic/gin"
)

type fakeMedia struct {
	scriptErr      error
	lastRef        []byte
	narrationDelay time.Duration
}

func (f *fakeMedia) GenerateScript(ctx context.Context, brief string, age int, movieMode bool, sceneCount int) (*types.Script, error) {
	if f.scriptErr != nil {
		return nil, f.scriptErr
	}
	script := &types.Script{Title: "T", TargetAge: age, IsMovieMode: movieMode}
	for i := 0; i < sceneCount; i++ {
		script.Scenes = append(script.Scenes, &types.Scene{ID: i + 1, Narrative: "n", VisualDescription: "v"})
	}
	return script, nil
}

func (f *fakeMedia) GenerateNarration(ctx context.Context, text string, age int) ([]byte, error) {
	if f.narrationDelay > 0 {
		select {
		case <-time.After(f.narrationDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []byte("wav"), nil
}

func (f *fakeMedia) GenerateSceneImage(ctx context.Context, prompt string, age int, ref []byte, isRetry bool) ([]byte, error) {
	f.lastRef = ref
	return []byte("img"), nil
}

func (f *fakeMedia) GenerateVideo(ctx context.Context, prompt string, seed []byte) ([]byte, error) {
	return []byte("vid"), nil
}

func (f *fakeMedia) TranscribeAudio(ctx context.Context, audio []byte) string {
	return "a pink dragon"
}

func (f *fakeMedia) ChatWithDirector(ctx context.Context, history []types.Message, input string, age int) (string, error) {
	return "Is the hero a cat or a dog?", nil
}

func newTestRouter(media *fakeMedia) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(Deps{
		Media:    media,
		Producer: pipeline.NewProducer(media, nil, nil),
		Ent:      entitlements.NewMemoryStore(),
		Archive:  archive.NewMemoryStore(),
	})
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGenerateScriptEndpoint(t *testing.T) {
	router := newTestRouter(&fakeMedia{})
	w := postJSON(t, router, "/api/media/script", GenerateScriptRequest{Context: "a brave cat", Age: 7, SceneCount: 3})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var script types.Script
	if err := json.Unmarshal(w.Body.Bytes(), &script); err != nil {
		t.Fatal(err)
	}
	if len(script.Scenes) != 3 {
		t.Errorf("scene count = %d", len(script.Scenes))
	}
}

func TestGenerateScriptEndpointRejectsMissingFields(t *testing.T) {
	router := newTestRouter(&fakeMedia{})
	w := postJSON(t, router, "/api/media/script", gin.H{"context": "no age"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGenerateScriptEndpointBackendFailure(t *testing.T) {
	router := newTestRouter(&fakeMedia{scriptErr: errors.New("all providers down")})
	w := postJSON(t, router, "/api/media/script", GenerateScriptRequest{Context: "c", Age: 7})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestGenerateImageEndpointDecodesReference(t *testing.T) {
	media := &fakeMedia{}
	router := newTestRouter(media)
	ref := base64.StdEncoding.EncodeToString([]byte("previous-frame"))
	w := postJSON(t, router, "/api/media/image", GenerateImageRequest{Prompt: "p", Age: 9, ReferenceImage: ref})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if string(media.lastRef) != "previous-frame" {
		t.Errorf("reference not decoded: %q", media.lastRef)
	}

	var resp struct {
		Image string `json:"image"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if decoded, _ := base64.StdEncoding.DecodeString(resp.Image); string(decoded) != "img" {
		t.Errorf("image payload = %q", resp.Image)
	}
}

func TestGenerateImageEndpointRejectsBadBase64(t *testing.T) {
	router := newTestRouter(&fakeMedia{})
	w := postJSON(t, router, "/api/media/image", GenerateImageRequest{Prompt: "p", Age: 9, ReferenceImage: "***"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTranscribeEndpoint(t *testing.T) {
	router := newTestRouter(&fakeMedia{})
	audio := base64.StdEncoding.EncodeToString([]byte("RIFF"))
	w := postJSON(t, router, "/api/media/transcribe", TranscribeRequest{Audio: audio})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Text string `json:"text"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Text != "a pink dragon" {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestChatEndpoint(t *testing.T) {
	router := newTestRouter(&fakeMedia{})
	w := postJSON(t, router, "/api/media/chat", ChatRequest{
		History: []types.Message{{Role: "user", Text: "a dragon"}},
		Message: "it breathes bubbles",
		Age:     6,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Reply == "" {
		t.Error("empty reply")
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeMedia{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}
