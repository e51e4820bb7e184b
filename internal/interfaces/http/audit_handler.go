package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/application/report"
)

// AuditHandler expone la bitácora y los reportes de auditoría (protegido).
type AuditHandler struct {
	logger  *audit.Logger
	reports *report.Service
}

// NewAuditHandler construye el handler.
func NewAuditHandler(logger *audit.Logger, reports *report.Service) *AuditHandler {
	return &AuditHandler{logger: logger, reports: reports}
}

// Logs lista la bitácora filtrada y paginada.
// GET /api/audit/logs
func (h *AuditHandler) Logs(c *fiber.Ctx) error {
	var q dto.AuditLogsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	if q.StoreID == "" {
		q.StoreID = GetStoreID(c)
	}
	rng, err := parseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	res, err := h.logger.GetAuditLogs(q, rng.From, rng.To)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// History historial de cambios de una entidad, ascendente.
// GET /api/audit/history/:entityType/:entityId
func (h *AuditHandler) History(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	logs, err := h.logger.GetEntityHistory(c.Params("entityType"), c.Params("entityId"), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"history": logs})
}

// Validate validación heurística de integridad del trail de una entidad.
// GET /api/audit/validate/:entityId
func (h *AuditHandler) Validate(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	res, err := h.logger.ValidateAuditTrail(c.Params("entityId"), storeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Reverse marca un registro de la bitácora como revertido y crea la fila
// espejo que documenta la reversión.
// PATCH /api/audit/logs/:id/reverse
func (h *AuditHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReverseAuditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es obligatorio"})
	}
	mirror, err := h.logger.ReverseEntry(c.Params("id"), GetUserID(c), GetStoreID(c), in.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mirror)
}

// Reconciliation reporte de reconciliación financiera.
// GET /api/audit/reconciliation
func (h *AuditHandler) Reconciliation(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	rng, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rep, err := h.reports.GetFinancialReconciliation(c.Context(), storeID, rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rep)
}

// Integrity reporte de integridad contable de devoluciones completadas.
// GET /api/audit/integrity
func (h *AuditHandler) Integrity(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	rng, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rep, err := h.reports.GetAccountingIntegrityReport(c.Context(), storeID, rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rep)
}

// Trail trail de auditoría agrupado por tipo de acción.
// GET /api/audit/trail
func (h *AuditHandler) Trail(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	rng, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rep, err := h.reports.GetComprehensiveAuditTrail(storeID, c.Query("entityType"), c.Query("entityId"), rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rep)
}

// ReturnsReport reporte de devoluciones y reembolsos.
// GET /api/audit/returns-report
func (h *AuditHandler) ReturnsReport(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	rng, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	rep, err := h.reports.GetReturnsAndRefundsReport(storeID, rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rep)
}

// Export exporta el paquete de auditoría en json, xml o pdf.
// GET /api/audit/export
func (h *AuditHandler) Export(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	format := c.Query("format", report.FormatJSON)
	rng, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	res, err := h.reports.ExportAuditDataForExternal(c.Context(), storeID, GetUserID(c), format, rng)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, res.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
	if res.Fingerprint != "" {
		c.Set("X-Document-Fingerprint", res.Fingerprint)
	}
	return c.Send(res.Content)
}
