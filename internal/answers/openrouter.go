package answers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

const (
	defaultOpenRouterModel    = "google/gemini-2.5-flash"
	defaultOpenRouterEndpoint = "https://openrouter.ai/api/v1"
)

const systemPrompt = `Eres el asistente de respuestas de una tienda en línea.
Respondes preguntas de compradores sobre un producto usando únicamente la
información del producto que se te entrega. Responde en español, en un tono
amable y directo, con máximo dos oraciones. Si la información no alcanza para
responder, dilo claramente en lugar de inventar.`

// OpenRouterProvider asks an OpenRouter-hosted model through the OpenAI
// compatible chat completions API, with structured output so the answer
// comes back as a single JSON field.
type OpenRouterProvider struct {
	client openai.Client
	model  string
	schema map[string]any
}

type answerPayload struct {
	Answer string `json:"answer" jsonschema:"required"`
}

func NewOpenRouterProvider(cfg config.AIConfig) *OpenRouterProvider {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schema := r.Reflect(&answerPayload{})
	schemaJSON, _ := json.Marshal(schema)

	var m map[string]any
	_ = json.Unmarshal(schemaJSON, &m)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenRouterModel
	}

	endpoint := os.Getenv("OPENROUTER_ENDPOINT")
	if endpoint == "" {
		endpoint = defaultOpenRouterEndpoint
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	rc.HTTPClient.Timeout = 90 * time.Second

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(endpoint),
		option.WithHTTPClient(rc.StandardClient()),
	)

	return &OpenRouterProvider{
		client: client,
		model:  model,
		schema: m,
	}
}

func (p *OpenRouterProvider) Ask(ctx context.Context, product Product, question string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(questionPrompt(product, question)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "answer",
					Strict: openai.Bool(true),
					Schema: p.schema,
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)
	var payload answerPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return "", fmt.Errorf("parse answer payload: %w", err)
	}
	if strings.TrimSpace(payload.Answer) == "" {
		return "", fmt.Errorf("openrouter returned an empty answer")
	}
	return payload.Answer, nil
}

func questionPrompt(product Product, question string) string {
	var b strings.Builder
	b.WriteString("Producto: " + product.Title + "\n")
	if product.Description != "" {
		b.WriteString("Descripción: " + product.Description + "\n")
	}
	if product.Specs != "" {
		b.WriteString("Características: " + product.Specs + "\n")
	}
	b.WriteString("\nPregunta del comprador: " + strings.TrimSpace(question))
	return b.String()
}

// Some models wrap structured output in a markdown fence despite the schema.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
