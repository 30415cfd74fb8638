package studio

import (
	"context"
	"strings"

	"tooncraft/config"
	"tooncraft/generation"

	"google.golang.org/genai"
)

// GenerateVideo animates a scene from its seed still. The chain mixes Veo
// models with "hf:"-prefixed hosted inference fallbacks so the same fallback
// walk covers both vendors.
func (s *Studio) GenerateVideo(ctx context.Context, prompt string, seedImage []byte) ([]byte, error) {
	return generation.WithFallbacks(ctx, s.pool, s.videoModels, "Veo Video",
		func(ctx context.Context, model string) ([]byte, error) {
			if name, ok := strings.CutPrefix(model, "hf:"); ok {
				return s.hf.generateVideo(ctx, name, prompt, seedImage)
			}
			return s.veoVideo(ctx, model, prompt, seedImage)
		})
}

// veoVideo submits a long-running Veo operation, polls it to completion and
// downloads the finished clip.
func (s *Studio) veoVideo(ctx context.Context, model, prompt string, seedImage []byte) ([]byte, error) {
	client, err := s.geminiClient(ctx)
	if err != nil {
		return nil, err
	}

	op, err := client.Models.GenerateVideos(ctx, model, prompt,
		&genai.Image{ImageBytes: seedImage, MIMEType: detectImageMIME(seedImage)},
		&genai.GenerateVideosConfig{
			NumberOfVideos: 1,
			Resolution:     "720p",
			AspectRatio:    "16:9",
		})
	if err != nil {
		return nil, wrapGeminiErr(err)
	}

	for !op.Done {
		if err := generation.Wait(ctx, config.VideoPollInterval); err != nil {
			return nil, err
		}
		op, err = client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return nil, wrapGeminiErr(err)
		}
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return nil, &generation.MalformedResponseError{Provider: model, Reason: "no video in completed operation"}
	}
	video := op.Response.GeneratedVideos[0].Video
	data, err := client.Files.Download(ctx, video, nil)
	if err != nil {
		return nil, wrapGeminiErr(err)
	}
	if len(data) == 0 {
		data = video.VideoBytes
	}
	if len(data) == 0 {
		return nil, &generation.MalformedResponseError{Provider: model, Reason: "empty video download"}
	}
	return data, nil
}
