package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medguard/procedure-audit/internal/domain"
)

// MemoryStore keeps procedure records in process memory with the same
// semantics as the Postgres store. It backs tests and database-free
// development runs. Implements port.ProcedureStore.
type MemoryStore struct {
	mu      sync.Mutex
	records []domain.ProcedureRecord
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock creates a store whose created_at assignment and
// statistics window use the supplied clock.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{now: now}
}

// Append stores a new record with a fresh id and the current clock time.
func (s *MemoryStore) Append(_ context.Context, req domain.AuditRequest, result domain.EvaluationResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := domain.ProcedureRecord{
		ID:               uuid.New().String(),
		AuditRequest:     req,
		EvaluationResult: result,
		CreatedAt:        s.now().UTC(),
	}
	s.records = append(s.records, rec)
	return rec.ID, nil
}

// Filter returns records matching all supplied criteria, in insertion order.
// Every appended record carries an evaluation, so no presence check is needed;
// an empty evaluation is still a present one, same as the Postgres predicate.
func (s *MemoryStore) Filter(_ context.Context, c domain.FilterCriteria) ([]domain.ProcedureRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []domain.ProcedureRecord
	for _, rec := range s.records {
		if !matchesCriteria(rec, c) {
			continue
		}
		matches = append(matches, rec)
	}
	return matches, nil
}

func matchesCriteria(rec domain.ProcedureRecord, c domain.FilterCriteria) bool {
	if c.DoctorName != "" &&
		!strings.Contains(strings.ToLower(rec.DoctorName), strings.ToLower(c.DoctorName)) {
		return false
	}
	if c.ProcedureCode != "" &&
		!strings.Contains(strings.ToLower(rec.ProcedureCode), strings.ToLower(c.ProcedureCode)) {
		return false
	}
	if c.Status != "" && !domain.IsAllStatuses(c.Status) &&
		rec.EvaluationResult.ApprovalStatus != c.Status {
		return false
	}
	if c.DateFrom != "" && !strings.Contains(rec.ExecutionDate, c.DateFrom) {
		return false
	}
	return true
}

// Statistics computes aggregate counts over the entire store at the clock's
// current instant.
func (s *MemoryStore) Statistics(_ context.Context) (*domain.Statistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &domain.Statistics{
		RiskLevels: make(map[string]int),
		ByDoctor:   make(map[string]int),
	}
	weekAgo := s.now().UTC().Add(-7 * 24 * time.Hour)

	for _, rec := range s.records {
		stats.Total++

		switch status := rec.EvaluationResult.ApprovalStatus; {
		case status == domain.StatusApproved:
			stats.Approved++
		case status == domain.StatusRejected:
			stats.Rejected++
		}
		if strings.Contains(rec.EvaluationResult.ApprovalStatus, domain.StatusNeedsReviewMarker) {
			stats.NeedsReview++
		}

		if !rec.CreatedAt.Before(weekAgo) {
			stats.Last7Days++
		}

		stats.ByDoctor[rec.DoctorName]++
		if analysis := rec.EvaluationResult.AIAnalysis; analysis != nil {
			stats.RiskLevels[analysis.RiskLevel]++
			if analysis.MedicalJustification {
				stats.MedicalJustifications++
			}
			if analysis.Contraindications {
				stats.Contraindications++
			}
		} else {
			stats.RiskLevels[""]++
		}
	}
	return stats, nil
}
