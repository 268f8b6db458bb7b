package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/medguard/procedure-audit/internal/domain"
)

// PostgresStore persists procedure records in a single procedures table with
// the evaluation embedded as JSONB. Implements port.ProcedureStore.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Append inserts a single self-contained record. created_at is assigned by
// the database at insertion time, never supplied by the caller.
func (s *PostgresStore) Append(ctx context.Context, req domain.AuditRequest, result domain.EvaluationResult) (string, error) {
	evaluation, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal evaluation result: %w", err)
	}

	query := `INSERT INTO procedures
	            (procedure_code, procedure_name, execution_date, patient_id, doctor_name, notes, xray_url, evaluation_result)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
	          RETURNING id`

	var id string
	err = s.db.QueryRowContext(ctx, query,
		req.ProcedureCode, req.ProcedureName, req.ExecutionDate,
		req.PatientID, req.DoctorName, req.Notes, req.XRayURL,
		string(evaluation),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("append procedure record: %w", err)
	}
	return id, nil
}

// Filter returns records with a present evaluation_result matching all
// supplied criteria, in insertion order.
func (s *PostgresStore) Filter(ctx context.Context, c domain.FilterCriteria) ([]domain.ProcedureRecord, error) {
	query := `SELECT id, procedure_code, procedure_name, execution_date, patient_id,
	                 doctor_name, notes, xray_url, evaluation_result::text, created_at
	          FROM procedures
	          WHERE evaluation_result IS NOT NULL`
	args := []interface{}{}
	argIdx := 1

	if c.DoctorName != "" {
		query += fmt.Sprintf(" AND doctor_name ILIKE $%d", argIdx)
		args = append(args, "%"+c.DoctorName+"%")
		argIdx++
	}
	if c.ProcedureCode != "" {
		query += fmt.Sprintf(" AND procedure_code ILIKE $%d", argIdx)
		args = append(args, "%"+c.ProcedureCode+"%")
		argIdx++
	}
	if c.Status != "" && !domain.IsAllStatuses(c.Status) {
		query += fmt.Sprintf(" AND evaluation_result->>'approval_status' = $%d", argIdx)
		args = append(args, c.Status)
		argIdx++
	}
	if c.DateFrom != "" {
		query += fmt.Sprintf(" AND execution_date LIKE $%d", argIdx)
		args = append(args, "%"+c.DateFrom+"%")
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter procedures: %w", err)
	}
	defer rows.Close()

	var records []domain.ProcedureRecord
	for rows.Next() {
		var rec domain.ProcedureRecord
		var evaluation string
		if err := rows.Scan(
			&rec.ID, &rec.ProcedureCode, &rec.ProcedureName, &rec.ExecutionDate,
			&rec.PatientID, &rec.DoctorName, &rec.Notes, &rec.XRayURL,
			&evaluation, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan procedure record: %w", err)
		}
		if err := json.Unmarshal([]byte(evaluation), &rec.EvaluationResult); err != nil {
			return nil, fmt.Errorf("unmarshal evaluation result: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Statistics computes aggregate counts over the entire store at the query instant.
func (s *PostgresStore) Statistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		RiskLevels: make(map[string]int),
		ByDoctor:   make(map[string]int),
	}

	counts := []struct {
		dest  *int
		query string
		args  []interface{}
	}{
		{&stats.Total, `SELECT COUNT(*) FROM procedures`, nil},
		{&stats.Approved, `SELECT COUNT(*) FROM procedures WHERE evaluation_result->>'approval_status' = $1`, []interface{}{domain.StatusApproved}},
		{&stats.NeedsReview, `SELECT COUNT(*) FROM procedures WHERE evaluation_result->>'approval_status' LIKE $1`, []interface{}{"%" + domain.StatusNeedsReviewMarker + "%"}},
		{&stats.Rejected, `SELECT COUNT(*) FROM procedures WHERE evaluation_result->>'approval_status' = $1`, []interface{}{domain.StatusRejected}},
		{&stats.Last7Days, `SELECT COUNT(*) FROM procedures WHERE created_at >= NOW() - INTERVAL '7 days'`, nil},
		{&stats.MedicalJustifications, `SELECT COUNT(*) FROM procedures WHERE (evaluation_result->'ai_analysis'->>'medical_justification')::boolean IS TRUE`, nil},
		{&stats.Contraindications, `SELECT COUNT(*) FROM procedures WHERE (evaluation_result->'ai_analysis'->>'contraindications')::boolean IS TRUE`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("count procedures: %w", err)
		}
	}

	if err := s.groupCount(ctx, stats.RiskLevels,
		`SELECT COALESCE(evaluation_result->'ai_analysis'->>'risk_level', ''), COUNT(*) FROM procedures GROUP BY 1`); err != nil {
		return nil, fmt.Errorf("group by risk level: %w", err)
	}
	if err := s.groupCount(ctx, stats.ByDoctor,
		`SELECT doctor_name, COUNT(*) FROM procedures GROUP BY doctor_name`); err != nil {
		return nil, fmt.Errorf("group by doctor: %w", err)
	}

	return stats, nil
}

func (s *PostgresStore) groupCount(ctx context.Context, dest map[string]int, query string) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		dest[key] = count
	}
	return rows.Err()
}
