package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"careline/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient calls the Gemini API for text generation.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

// NewGeminiClient constructs a Gemini-backed Client. timeout bounds every
// generation call so a stalled backend never hangs a conversation turn.
func NewGeminiClient(apiKey, modelName string, timeout time.Duration) (*GeminiClient, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName, timeout: timeout}, nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, opts Options, history []models.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := g.client.GenerativeModel(g.modelName)
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	chat := model.StartChat()
	chat.History = toGenaiHistory(history)

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", ErrUpstreamError)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text parts", ErrUpstreamError)
	}
	return sb.String(), nil
}

// toGenaiHistory maps conversation turns onto Gemini chat roles. Gemini
// rejects histories that do not start with a user turn, so leading
// assistant turns are dropped.
func toGenaiHistory(history []models.Turn) []*genai.Content {
	var out []*genai.Content
	for _, t := range history {
		role := "user"
		if t.Role == models.RoleAssistant {
			if len(out) == 0 {
				continue
			}
			role = "model"
		}
		out = append(out, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(t.Content)},
		})
	}
	return out
}
