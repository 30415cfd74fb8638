package studio

import (
	"context"
	"fmt"
	"strings"

	"tooncraft/generation"
	"tooncraft/types"

	"google.golang.org/genai"
)

const fallbackReply = "I didn't catch that, can you say it again?"

// ChatWithDirector runs one turn of the story-brainstorm conversation. The
// history is flattened into a single prompt so every model in the chain,
// chat-tuned or not, sees the same thing.
func (s *Studio) ChatWithDirector(ctx context.Context, history []types.Message, userInput string, age int) (string, error) {
	var b strings.Builder
	b.WriteString(brainstormInstruction(age))
	b.WriteString("\n\nExisting Conversation:\n")
	for _, m := range history {
		speaker := "Director"
		if m.Role == "user" {
			speaker = "Kid"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, m.Text)
	}
	fmt.Fprintf(&b, "\nKid says: %q\n\nDirector response:", userInput)
	prompt := b.String()

	return generation.WithFallbacks(ctx, s.pool, s.scriptModels, "Director Chat",
		func(ctx context.Context, model string) (string, error) {
			var text string
			var err error
			if name, ok := strings.CutPrefix(model, "cohere:"); ok {
				text, err = s.cohereGenerate(ctx, name, brainstormInstruction(age), prompt)
			} else {
				text, err = s.geminiChatText(ctx, model, prompt)
			}
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(text) == "" {
				return fallbackReply, nil
			}
			return text, nil
		})
}

func (s *Studio) geminiChatText(ctx context.Context, model, prompt string) (string, error) {
	client, err := s.geminiClient(ctx)
	if err != nil {
		return "", err
	}
	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", wrapGeminiErr(err)
	}
	return resp.Text(), nil
}
