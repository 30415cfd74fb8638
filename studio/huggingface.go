package studio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tooncraft/config"
	"tooncraft/generation"
)

const hfDefaultBaseURL = "https://api-inference.huggingface.co/models/"

// hfClient talks to the Hugging Face hosted inference API. Serverless models
// there are scaled to zero when idle and answer 503 with an estimated load
// time until the weights are warm, so every call loops over cold starts.
type hfClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func (h *hfClient) post(ctx context.Context, model, contentType string, body []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+model, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

// coldStartWait reads the estimated_time hint out of a 503 body, falling back
// to a fixed wait when the body is not the loading notice.
func coldStartWait(body []byte) time.Duration {
	var notice struct {
		EstimatedTime float64 `json:"estimated_time"`
	}
	if err := json.Unmarshal(body, &notice); err == nil && notice.EstimatedTime > 0 {
		return time.Duration(notice.EstimatedTime * float64(time.Second))
	}
	return config.DefaultColdStartWait
}

// videoPayload builds the request body for an image-to-video model. Most
// models take the seed frame directly as "inputs"; the LTX and Wan families
// want a prompt plus the frame as a parameter.
func videoPayload(model, prompt string, seedImage []byte, simple bool) ([]byte, error) {
	imageB64 := base64.StdEncoding.EncodeToString(seedImage)
	if simple || !(strings.Contains(model, "LTX") || strings.Contains(model, "Wan")) {
		return json.Marshal(map[string]any{"inputs": imageB64})
	}
	return json.Marshal(map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"image":               imageB64,
			"num_inference_steps": 25,
		},
	})
}

// generateVideo runs one hosted model to completion, riding out cold starts
// and downgrading the LTX/Wan payload once if the rich form is rejected.
func (h *hfClient) generateVideo(ctx context.Context, model, prompt string, seedImage []byte) ([]byte, error) {
	if h.token == "" {
		return nil, errors.New("hugging face token not configured")
	}

	simple := false
	coldStarts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := videoPayload(model, prompt, seedImage, simple)
		if err != nil {
			return nil, err
		}
		body, status, err := h.post(ctx, model, "application/json", payload)
		if err != nil {
			return nil, err
		}

		switch {
		case status == http.StatusServiceUnavailable:
			coldStarts++
			if coldStarts > config.MaxColdStartRetries {
				return nil, &generation.StatusError{Code: status, Message: fmt.Sprintf("model %s still loading after %d waits", model, config.MaxColdStartRetries)}
			}
			wait := coldStartWait(body)
			log.Printf("⏳ HF model %s loading, waiting %s (attempt %d)", model, wait, coldStarts)
			if err := generation.Wait(ctx, wait); err != nil {
				return nil, err
			}
		case status >= 400:
			if !simple && (strings.Contains(model, "LTX") || strings.Contains(model, "Wan")) {
				log.Printf("⚠️ Complex payload rejected by %s, retrying with image-only payload", model)
				simple = true
				continue
			}
			return nil, &generation.StatusError{Code: status, Message: string(body)}
		default:
			if len(body) == 0 {
				return nil, &generation.MalformedResponseError{Provider: model, Reason: "empty video body"}
			}
			return body, nil
		}
	}
}

// transcribe sends raw audio to the speech-to-text model and returns the
// recognized text.
func (h *hfClient) transcribe(ctx context.Context, model string, audio []byte) (string, error) {
	if h.token == "" {
		return "", errors.New("hugging face token not configured")
	}
	body, status, err := h.post(ctx, model, "audio/wav", audio)
	if err != nil {
		return "", err
	}
	if status >= 400 {
		return "", &generation.StatusError{Code: status, Message: string(body)}
	}
	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &generation.MalformedResponseError{Provider: model, Reason: "unparseable transcription"}
	}
	return result.Text, nil
}
