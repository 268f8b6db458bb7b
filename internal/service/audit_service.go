package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/medguard/procedure-audit/internal/domain"
	"github.com/medguard/procedure-audit/internal/metrics"
	"github.com/medguard/procedure-audit/internal/port"
)

// User-visible failure messages. The pipeline never surfaces raw internal
// errors; every failure becomes one of these inside an error-shaped result.
const (
	unsupportedFormatMessage = "Unsupported file type or PDF with no images."
	corruptFileMessage       = "Invalid or corrupted image file."
	unexpectedFailureMessage = "An unexpected error occurred during processing."
)

// AuditService runs the evaluation pipeline for one audit request:
// load artifact -> decode -> compose prompt -> invoke model -> interpret.
// Its output is always an EvaluationResult; any fault raised by a stage is
// converted to an error-shaped result at this boundary.
type AuditService struct {
	artifacts port.ArtifactSource
	decoder   port.ArtifactDecoder
	ai        port.ReasoningProvider
}

// NewAuditService creates an evaluation pipeline over the given ports.
func NewAuditService(artifacts port.ArtifactSource, decoder port.ArtifactDecoder, ai port.ReasoningProvider) *AuditService {
	return &AuditService{
		artifacts: artifacts,
		decoder:   decoder,
		ai:        ai,
	}
}

// Evaluate audits a single procedure. It never returns an error: decode
// failures short-circuit before the remote call, and every other fault is
// converted to the generic failure message.
func (s *AuditService) Evaluate(ctx context.Context, req domain.AuditRequest) (result domain.EvaluationResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("evaluation pipeline panic",
				"procedure_code", req.ProcedureCode, "panic", r)
			result = domain.ErrorResult(unexpectedFailureMessage)
		}
		outcome := "success"
		if result.IsError() {
			outcome = "error"
		}
		metrics.EvaluationCompleted(outcome, time.Since(start))
	}()

	data, err := s.artifacts.Load(req.XRayURL)
	if err != nil {
		slog.Warn("artifact load failed", "xray_url", req.XRayURL, "error", err)
		return domain.ErrorResult(unexpectedFailureMessage)
	}

	image, err := s.decoder.Decode(data, req.XRayURL)
	if err != nil {
		slog.Warn("artifact decode failed", "xray_url", req.XRayURL, "error", err)
		if errors.Is(err, port.ErrCorruptFile) {
			metrics.DecodeFailed("corrupt")
			return domain.ErrorResult(corruptFileMessage)
		}
		metrics.DecodeFailed("unsupported")
		return domain.ErrorResult(unsupportedFormatMessage)
	}

	prompt := ComposePrompt(req, image)

	raw, err := s.ai.Generate(ctx, prompt)
	if err != nil {
		slog.Error("reasoning model invocation failed",
			"model", s.ai.ModelName(), "procedure_code", req.ProcedureCode, "error", err)
		return domain.ErrorResult(unexpectedFailureMessage)
	}

	result = Interpret(raw)
	slog.Info("evaluation complete",
		"procedure_code", req.ProcedureCode,
		"approval_status", result.ApprovalStatus,
		"is_error", result.IsError(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}
