package studio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tooncraft/generation"
	"tooncraft/types"

	"google.golang.org/genai"
)

// GenerateScript turns a story brief into a structured script, walking the
// script model chain until one yields parseable JSON with at least one scene.
func (s *Studio) GenerateScript(ctx context.Context, brief string, age int, movieMode bool, sceneCount int) (*types.Script, error) {
	instruction := scriptInstruction(age, movieMode, sceneCount) + scriptJSONGuard
	userPrompt := "Context: " + brief

	return generation.WithFallbacks(ctx, s.pool, s.scriptModels, "Script",
		func(ctx context.Context, model string) (*types.Script, error) {
			var raw string
			var err error
			if name, ok := strings.CutPrefix(model, "cohere:"); ok {
				raw, err = s.cohereGenerate(ctx, name, instruction, userPrompt)
			} else {
				raw, err = s.geminiScriptText(ctx, model, instruction, userPrompt)
			}
			if err != nil {
				return nil, err
			}
			script, err := parseScript(model, raw)
			if err != nil {
				return nil, err
			}
			script.TargetAge = age
			script.IsMovieMode = movieMode
			return script, nil
		})
}

func (s *Studio) geminiScriptText(ctx context.Context, model, instruction, prompt string) (string, error) {
	client, err := s.geminiClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", wrapGeminiErr(err)
	}
	return resp.Text(), nil
}

// parseScript tolerates the usual model misbehavior: markdown fences, chatter
// around the JSON, and the scenes array nested under a "script" or "story"
// wrapper object.
func parseScript(provider, raw string) (*types.Script, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, &generation.MalformedResponseError{Provider: provider, Reason: "no JSON object in response"}
	}

	var script types.Script
	if err := json.Unmarshal([]byte(cleaned), &script); err != nil {
		return nil, &generation.MalformedResponseError{Provider: provider, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if len(script.Scenes) == 0 {
		// Some models wrap the payload one level deep.
		var nested struct {
			Script *types.Script `json:"script"`
			Story  *types.Script `json:"story"`
		}
		if err := json.Unmarshal([]byte(cleaned), &nested); err == nil {
			if nested.Script != nil && len(nested.Script.Scenes) > 0 {
				script = *nested.Script
			} else if nested.Story != nil && len(nested.Story.Scenes) > 0 {
				script = *nested.Story
			}
		}
	}
	if len(script.Scenes) == 0 {
		return nil, &generation.MalformedResponseError{Provider: provider, Reason: "script has no scenes"}
	}
	for i, scene := range script.Scenes {
		if scene.ID == 0 {
			scene.ID = i + 1
		}
	}
	return &script, nil
}

// extractJSON strips markdown fences and any prose surrounding the outermost
// JSON object.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
