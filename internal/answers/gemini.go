package answers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider asks Gemini directly instead of going through OpenRouter.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg config.AIConfig) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("AI API key is required for gemini")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	// OpenRouter-style ids like "google/gemini-2.5-flash" are not valid
	// Gemini API model names.
	if model == "" || strings.Contains(model, "/") {
		model = defaultGeminiModel
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Ask(ctx context.Context, product Product, question string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(questionPrompt(product, question)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		})
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", errors.New("gemini returned an empty answer")
	}
	return answer, nil
}
