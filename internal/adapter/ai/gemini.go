package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/medguard/procedure-audit/internal/port"
)

// GeminiConfig holds the credentials and model version for the Gemini API.
type GeminiConfig struct {
	APIKey string
	Model  string // e.g. gemini-2.0-flash
}

// GeminiProvider implements port.ReasoningProvider using the Gemini API.
// The provider has a two-phase lifecycle: Configure binds the credentials and
// builds the SDK client, then Generate may be called any number of times.
// Configuration is read-only after startup, so concurrent Generate calls are safe.
type GeminiProvider struct {
	cfg    GeminiConfig
	client *genai.Client
}

// NewGeminiProvider creates an unconfigured Gemini provider.
func NewGeminiProvider(cfg GeminiConfig) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	return &GeminiProvider{cfg: cfg}
}

// Configure binds the API key and model and builds the SDK client.
// Idempotent: a second call on a configured provider is a no-op.
func (g *GeminiProvider) Configure(ctx context.Context) error {
	if g.client != nil {
		return nil
	}
	if g.cfg.APIKey == "" {
		return fmt.Errorf("gemini: API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("gemini: create client: %w", err)
	}

	g.client = client
	return nil
}

// ModelName returns the bound model identifier.
func (g *GeminiProvider) ModelName() string {
	return g.cfg.Model
}

// Generate submits a text-plus-image prompt and returns the raw text reply.
// An empty reply is returned as-is; interpreting it is the caller's concern.
func (g *GeminiProvider) Generate(ctx context.Context, prompt port.Prompt) (string, error) {
	if g.client == nil {
		return "", port.ErrNotConfigured
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt.Text)}
	if prompt.Image != nil {
		parts = append(parts, genai.NewPartFromBytes(prompt.Image.Data, prompt.Image.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	return resp.Text(), nil
}
