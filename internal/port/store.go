package port

import (
	"context"

	"github.com/medguard/procedure-audit/internal/domain"
)

// ProcedureStore is append-only persistence of completed audits plus the
// query operations over them. Records are never updated or deleted here.
type ProcedureStore interface {
	// Append persists a request together with its evaluation as a single
	// self-contained record, assigning created_at at call time, and returns
	// the new record's id.
	Append(ctx context.Context, req domain.AuditRequest, result domain.EvaluationResult) (string, error)

	// Filter returns records with a present evaluation_result matching all
	// supplied criteria, in insertion order.
	Filter(ctx context.Context, criteria domain.FilterCriteria) ([]domain.ProcedureRecord, error)

	// Statistics computes aggregate counts over the entire store.
	Statistics(ctx context.Context) (*domain.Statistics, error)
}
