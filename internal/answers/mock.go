package answers

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider answers deterministically so the page runs without an API key.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Ask(_ context.Context, product Product, question string) (string, error) {
	return fmt.Sprintf("Respuesta simulada: gracias por tu pregunta sobre %s. %s",
		product.Title, rephrase(question)), nil
}

func rephrase(question string) string {
	q := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(question), "?¿"))
	if q == "" {
		return "Un representante te responderá pronto."
	}
	return fmt.Sprintf("Sobre \"%s\": un representante te responderá pronto.", q)
}
