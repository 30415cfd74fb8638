package studio

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tooncraft/config"
	"tooncraft/generation"

	"google.golang.org/genai"
)

// safePrompt replaces the caller's prompt after both image tiers fail, on the
// assumption that the prompt itself tripped content filters.
const safePrompt = "A magical happy place"

// GenerateSceneImage renders one scene still. The multimodal Gemini chain
// runs first because it can take the previous scene as a character-design
// reference; Imagen is the text-only second tier. If both tiers fail the call
// recurses exactly once with a sanitized prompt and no reference image.
func (s *Studio) GenerateSceneImage(ctx context.Context, prompt string, age int, refImage []byte, isRetry bool) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	style := config.StyleSuffix(age)
	finalPrompt := "Create a scene: " + prompt + ". Style: " + style
	if isRetry {
		finalPrompt = "A cute safe cartoon scene: " + prompt
	}

	img, chainErr := generation.WithFallbacks(ctx, s.pool, s.imageModels, "Gemini Image",
		func(ctx context.Context, model string) ([]byte, error) {
			return s.geminiImage(ctx, model, finalPrompt, refImage, isRetry)
		})
	if chainErr == nil {
		return img, nil
	}
	if generation.IsCancelled(chainErr) {
		return nil, chainErr
	}
	log.Printf("⚠️ Gemini image models failed, falling back to Imagen: %v", chainErr)

	img, imagenErr := generation.Retry(ctx, s.pool, config.DefaultRetries, 2*time.Second,
		func(ctx context.Context) ([]byte, error) {
			return s.imagenImage(ctx, finalPrompt+" "+style)
		})
	if imagenErr == nil {
		return img, nil
	}
	if generation.IsCancelled(imagenErr) {
		return nil, imagenErr
	}
	if !isRetry {
		log.Printf("⚠️ Safety fallback triggered for image generation")
		return s.GenerateSceneImage(ctx, safePrompt, age, nil, true)
	}
	return nil, errors.New("all image generation strategies failed")
}

func (s *Studio) geminiImage(ctx context.Context, model, prompt string, refImage []byte, isRetry bool) ([]byte, error) {
	client, err := s.geminiClient(ctx)
	if err != nil {
		return nil, err
	}

	var parts []*genai.Part
	if len(refImage) > 0 && !isRetry {
		parts = append(parts,
			genai.NewPartFromBytes(refImage, detectImageMIME(refImage)),
			genai.NewPartFromText("Use this previous scene as a reference. Maintain character design."))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	cfg := &genai.GenerateContentConfig{}
	if strings.Contains(model, "pro") {
		cfg.ImageConfig = &genai.ImageConfig{AspectRatio: "16:9", ImageSize: "2K"}
	}

	resp, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return nil, wrapGeminiErr(err)
	}
	if len(resp.Candidates) == 0 {
		return nil, &generation.MalformedResponseError{Provider: model, Reason: "no candidates"}
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return nil, generation.ErrSafetyBlocked
	}
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, &generation.MalformedResponseError{Provider: model, Reason: "no image data in response"}
}

func (s *Studio) imagenImage(ctx context.Context, prompt string) ([]byte, error) {
	client, err := s.geminiClient(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.GenerateImages(ctx, s.imagenModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    "16:9",
	})
	if err != nil {
		return nil, wrapGeminiErr(err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil || len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, &generation.MalformedResponseError{Provider: s.imagenModel, Reason: "no image data in response"}
	}
	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
