package port

import (
	"context"

	"github.com/medguard/procedure-audit/internal/domain"
)

// Prompt is a single text-plus-image payload for the reasoning model.
type Prompt struct {
	Text  string
	Image *domain.Artifact
}

// ReasoningProvider abstracts the external reasoning model. Implementations
// must be configured once at startup before Generate may be called; an
// unconfigured provider fails with ErrNotConfigured.
type ReasoningProvider interface {
	// ModelName returns the identifier of the bound model version.
	ModelName() string

	// Generate submits the prompt and returns the model's raw text reply.
	// A blocking remote call; failures surface as errors, never swallowed here.
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
