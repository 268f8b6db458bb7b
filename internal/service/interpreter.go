package service

import (
	"encoding/json"
	"strings"

	"github.com/medguard/procedure-audit/internal/domain"
)

const parseFailureMessage = "Failed to parse AI response."

// Interpret extracts a structured evaluation from the model's raw text reply.
// Malformed or unparseable output yields an error-shaped result, never a
// fault: a result is always producible for a reachable model response.
// Field-level correctness of a successfully parsed object is not validated.
func Interpret(raw string) domain.EvaluationResult {
	text := stripJSONFence(strings.TrimSpace(raw))

	var result domain.EvaluationResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return domain.ErrorResult(parseFailureMessage)
	}
	return result
}

// stripJSONFence removes a leading ```json marker and its closing fence.
// Defensive normalization against verbose model output; already-clean JSON
// passes through untouched, so Interpret is idempotent on it.
func stripJSONFence(text string) string {
	if !strings.HasPrefix(text, "```json") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
