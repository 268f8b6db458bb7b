package domain

import "time"

// AuditRequest describes one clinical procedure submitted for evaluation.
// procedure_code and procedure_name are required; everything else is optional.
// xray_url is the bare filename of a previously uploaded artifact.
type AuditRequest struct {
	ProcedureCode string `json:"procedure_code"`
	ProcedureName string `json:"procedure_name"`
	ExecutionDate string `json:"execution_date,omitempty"`
	PatientID     string `json:"patient_id,omitempty"`
	DoctorName    string `json:"doctor_name,omitempty"`
	Notes         string `json:"notes,omitempty"`
	XRayURL       string `json:"xray_url,omitempty"`
}

// AIAnalysis is the risk assessment portion of a successful evaluation.
type AIAnalysis struct {
	RiskLevel            string `json:"risk_level"`
	MedicalJustification bool   `json:"medical_justification"`
	Contraindications    bool   `json:"contraindications"`
	Summary              string `json:"summary,omitempty"`
	Recommendation       string `json:"recommendation,omitempty"`
}

// EvaluationResult is the pipeline's output: either a success shape
// (approval_status + ai_analysis) or an error shape (error message).
// The two are mutually exclusive; consumers branch on Error.
type EvaluationResult struct {
	ApprovalStatus string      `json:"approval_status,omitempty"`
	AIAnalysis     *AIAnalysis `json:"ai_analysis,omitempty"`
	Error          string      `json:"error,omitempty"`
}

// IsError reports whether the result is error-shaped.
func (r EvaluationResult) IsError() bool { return r.Error != "" }

// ErrorResult builds an error-shaped evaluation result.
func ErrorResult(message string) EvaluationResult {
	return EvaluationResult{Error: message}
}

// ProcedureRecord is a persisted audit: the request, its evaluation and a
// store-assigned creation timestamp. Records are append-only and never
// mutated after insertion.
type ProcedureRecord struct {
	ID string `json:"id"`
	AuditRequest
	EvaluationResult EvaluationResult `json:"evaluation_result"`
	CreatedAt        time.Time        `json:"created_at"`
}

// FilterCriteria narrows a record query. All fields are optional and
// conjunctive. Field names follow the frontend's request payload.
type FilterCriteria struct {
	DoctorName    string `json:"doctorName,omitempty"`    // case-insensitive substring
	ProcedureCode string `json:"procedureCode,omitempty"` // case-insensitive substring
	Status        string `json:"status,omitempty"`        // exact match, skipped for the all-statuses sentinels
	DateFrom      string `json:"dateFrom,omitempty"`      // literal substring of execution_date
}

// Statistics aggregates the entire store at a single instant.
type Statistics struct {
	Total                 int            `json:"total"`
	Approved              int            `json:"approved"`
	NeedsReview           int            `json:"needs_review"`
	Rejected              int            `json:"rejected"`
	Last7Days             int            `json:"last_7_days"`
	RiskLevels            map[string]int `json:"risk_levels"`
	ByDoctor              map[string]int `json:"by_doctor"`
	MedicalJustifications int            `json:"medical_justifications"`
	Contraindications     int            `json:"contraindications"`
}

// Approval status sentinels. These are literal protocol constants shared with
// the stored data and the frontend, so they stay in their original language.
const (
	StatusApproved = "מאושר"
	StatusRejected = "נדחו"

	// StatusNeedsReviewMarker is matched as a substring: any status
	// containing it counts as "needs review".
	StatusNeedsReviewMarker = "בדיקה"
)

// All-statuses wildcards accepted in FilterCriteria.Status.
const (
	StatusAll       = "all"
	StatusAllHebrew = "כל הסטטוסים"
)

// IsAllStatuses reports whether s is an all-statuses wildcard, meaning the
// status criterion should be skipped entirely.
func IsAllStatuses(s string) bool {
	return s == StatusAll || s == StatusAllHebrew
}
