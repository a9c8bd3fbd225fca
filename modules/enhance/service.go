package enhance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/AppleLamps/free-photo-or/modules/common/config"
)

// systemInstruction is the fixed rewriting behavior: expand the user's idea
// into a single detailed image prompt, nothing else.
const systemInstruction = `You are an expert prompt writer for AI image generation. ` +
	`Rewrite the user's prompt into a single richly detailed, descriptive image prompt. ` +
	`Describe subject, composition, lighting, mood and style. ` +
	`Keep it under 120 words. Return only the rewritten prompt with no quotes, ` +
	`labels or markdown.`

// ErrNotConfigured reports a missing OPENAI_API_KEY secret.
var ErrNotConfigured = errors.New("OPENAI_API_KEY not configured")

type Service struct {
	cfg    *config.Config
	client *openai.Client
}

func NewService(cfg *config.Config) *Service {
	if cfg.OpenAIAPIKey == "" {
		log.Println("⚠️ [Enhance] OPENAI_API_KEY not configured")
		return &Service{cfg: cfg}
	}

	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}

	log.Println("✅ [Enhance] Service initialized")
	return &Service{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Enhance wraps the prompt in the rewriting instruction and extracts the
// first completion. One attempt per user action, no retries.
func (s *Service) Enhance(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("prompt is required")
	}
	if s.client == nil {
		return "", ErrNotConfigured
	}

	log.Printf("✨ [Enhance] Enhancing prompt: %s", truncateString(prompt, 50))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   300,
		Temperature: 0.8,
	})
	if err != nil {
		log.Printf("❌ [Enhance] Completion failed: %v", err)
		return "", fmt.Errorf("enhancement upstream error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("enhancement response contained no choices")
	}

	enhanced := strings.TrimSpace(resp.Choices[0].Message.Content)
	if enhanced == "" {
		return "", fmt.Errorf("enhancement response contained no text")
	}

	log.Printf("✅ [Enhance] Prompt enhanced (%d chars)", len(enhanced))
	return enhanced, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
