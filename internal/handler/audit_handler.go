package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/medguard/procedure-audit/internal/domain"
	"github.com/medguard/procedure-audit/internal/metrics"
	"github.com/medguard/procedure-audit/internal/port"
	"github.com/medguard/procedure-audit/internal/service"
)

// AuditHandler handles evaluation and reporting endpoints.
type AuditHandler struct {
	audit   *service.AuditService
	reports *service.ReportService
	store   port.ProcedureStore
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(audit *service.AuditService, reports *service.ReportService, store port.ProcedureStore) *AuditHandler {
	return &AuditHandler{
		audit:   audit,
		reports: reports,
		store:   store,
	}
}

// Register sets up audit and reporting routes.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Post("/audit", h.Audit)
	router.Post("/procedures/filter", h.FilterProcedures)
	router.Get("/stats", h.Stats)
}

// Audit evaluates one procedure and persists the audited record. Evaluation
// and persistence are two distinct operations composed here: the evaluation
// result is produced first and survives a storage failure, which is reported
// explicitly rather than swallowed.
func (h *AuditHandler) Audit(c fiber.Ctx) error {
	var req domain.AuditRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ProcedureCode == "" || req.ProcedureName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "procedure_code and procedure_name are required",
		})
	}

	result := h.audit.Evaluate(c.Context(), req)

	recordID, err := h.store.Append(c.Context(), req, result)
	if err != nil {
		slog.Error("failed to persist audit record",
			"procedure_code", req.ProcedureCode, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":             "failed to persist audit record",
			"evaluation_result": result,
		})
	}
	metrics.RecordStored()

	return c.JSON(fiber.Map{
		"message":           "Audit received",
		"inserted":          recordID,
		"procedure_code":    req.ProcedureCode,
		"procedure_name":    req.ProcedureName,
		"xray_url":          req.XRayURL,
		"evaluation_result": result,
	})
}

// FilterProcedures returns stored records matching the supplied criteria.
func (h *AuditHandler) FilterProcedures(c fiber.Ctx) error {
	var criteria domain.FilterCriteria
	if err := c.Bind().JSON(&criteria); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid filter criteria"})
	}

	records, err := h.reports.Filter(c.Context(), criteria)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if records == nil {
		records = []domain.ProcedureRecord{}
	}
	return c.JSON(records)
}

// Stats returns aggregate statistics over the entire store.
func (h *AuditHandler) Stats(c fiber.Ctx) error {
	stats, err := h.reports.Statistics(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stats)
}
