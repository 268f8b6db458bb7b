package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/medguard/procedure-audit/internal/domain"
	"github.com/medguard/procedure-audit/internal/port"
)

// ReportService answers reporting queries over stored procedure records.
// Storage and query faults are not swallowed here: losing a persistence or
// query failure silently would corrupt reporting integrity.
type ReportService struct {
	store port.ProcedureStore
}

// NewReportService creates a report service over the given store.
func NewReportService(store port.ProcedureStore) *ReportService {
	return &ReportService{store: store}
}

// Filter normalizes the supplied criteria and returns matching records in
// insertion order.
func (s *ReportService) Filter(ctx context.Context, criteria domain.FilterCriteria) ([]domain.ProcedureRecord, error) {
	criteria.DoctorName = strings.TrimSpace(criteria.DoctorName)
	criteria.ProcedureCode = strings.TrimSpace(criteria.ProcedureCode)
	criteria.Status = strings.TrimSpace(criteria.Status)
	criteria.DateFrom = strings.TrimSpace(criteria.DateFrom)

	records, err := s.store.Filter(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("filter procedures: %w", err)
	}
	return records, nil
}

// Statistics computes aggregate counts over the entire store.
func (s *ReportService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute statistics: %w", err)
	}
	return stats, nil
}
