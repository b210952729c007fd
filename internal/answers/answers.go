// Package answers generates replies to shopper questions about a product,
// memoizing them so a repeated question never pays for a second generation.
package answers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/jaolave/ml-challenge-frontend/internal/cache"
	"github.com/jaolave/ml-challenge-frontend/internal/config"
)

// Apology is what the shopper sees when no answer could be generated.
const Apology = "No pudimos generar una respuesta en este momento. Intenta nuevamente más tarde."

// Product is the slice of the product record a provider gets to see.
type Product struct {
	ID          int
	Title       string
	Description string
	Specs       string
}

// Provider turns a shopper question into an answer.
type Provider interface {
	Ask(ctx context.Context, product Product, question string) (string, error)
}

// Service answers questions through a provider, with a cache in front.
type Service struct {
	provider Provider
	cache    cache.Cache
}

// New picks the provider from config: the mock when mocks are enabled,
// Gemini when selected, OpenRouter otherwise.
func New(ctx context.Context, cfg *config.Config, store cache.Cache) (*Service, error) {
	var provider Provider
	switch {
	case cfg.Mocks.Enable:
		provider = NewMockProvider()
	case cfg.AI.Provider == "gemini":
		p, err := NewGeminiProvider(ctx, cfg.AI)
		if err != nil {
			return nil, err
		}
		provider = p
	default:
		provider = NewOpenRouterProvider(cfg.AI)
	}
	return &Service{provider: provider, cache: store}, nil
}

// NewWithProvider wires an explicit provider, mainly for tests.
func NewWithProvider(provider Provider, store cache.Cache) *Service {
	return &Service{provider: provider, cache: store}
}

// Ask returns the answer for a question about a product. Provider failures
// never surface to the page: the shopper gets the apology line instead, and
// the apology is never cached so the next attempt asks again.
func (s *Service) Ask(ctx context.Context, product Product, question string) string {
	key := answerKey(product.ID, question)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached
	}

	answer, err := s.provider.Ask(ctx, product, question)
	if err != nil {
		slog.ErrorContext(ctx, "answer generation failed", "product", product.ID, "error", err)
		return Apology
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		slog.ErrorContext(ctx, "answer generation returned nothing", "product", product.ID)
		return Apology
	}

	if err := s.cache.Put(ctx, key, answer, cache.Unconditional()); err != nil {
		slog.WarnContext(ctx, "answer cache write failed", "key", key, "error", err)
	}
	return answer
}

func (s *Service) lookup(ctx context.Context, key string) (string, bool) {
	r, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			slog.WarnContext(ctx, "answer cache read failed", "key", key, "error", err)
		}
		return "", false
	}
	defer func() {
		_ = r.Close()
	}()

	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

// answerKey hashes product id and question so every distinct wording gets
// its own entry.
func answerKey(productID int, question string) string {
	h := fnv.New128a()
	lo.Must(fmt.Fprintf(h, "%d\n", productID))
	lo.Must(io.WriteString(h, strings.ToLower(strings.TrimSpace(question))))
	return "answer/" + base64.URLEncoding.EncodeToString(h.Sum(nil))
}
