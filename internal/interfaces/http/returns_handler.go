package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/application/returns"
)

// ReturnsHandler maneja las peticiones HTTP de devoluciones (protegido).
type ReturnsHandler struct {
	uc *returns.UseCase
}

// NewReturnsHandler construye el handler.
func NewReturnsHandler(uc *returns.UseCase) *ReturnsHandler {
	return &ReturnsHandler{uc: uc}
}

// Create registra una solicitud de devolución.
// POST /api/returns/request
func (h *ReturnsHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	rr, err := h.uc.CreateReturnRequest(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Solicitud de devolución creada",
		"return_request": rr,
	})
}

// Approve transiciona pending → approved.
// PATCH /api/returns/:returnRequestId/approve
func (h *ReturnsHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	id := c.Params("returnRequestId")
	var in dto.ApproveReturnRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rr, err := h.uc.ApproveReturnRequest(c.Context(), id, userID, in.ApprovalNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":        "Devolución aprobada",
		"return_request": rr,
	})
}

// Process transiciona approved → completed y procesa el reembolso.
// PATCH /api/returns/:returnRequestId/process
func (h *ReturnsHandler) Process(c *fiber.Ctx) error {
	userID := GetUserID(c)
	id := c.Params("returnRequestId")
	var in dto.ProcessReturnRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rr, rt, err := h.uc.ProcessReturnAndRefund(c.Context(), id, userID, in.ProcessNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProcessReturnResponse{
		Message:           "Devolución procesada y reembolso registrado",
		ReturnRequest:     rr,
		RefundTransaction: rt,
	})
}

// Reject transiciona pending|approved → rejected.
// PATCH /api/returns/:returnRequestId/reject
func (h *ReturnsHandler) Reject(c *fiber.Ctx) error {
	userID := GetUserID(c)
	id := c.Params("returnRequestId")
	var in dto.RejectReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	rr, err := h.uc.RejectReturnRequest(c.Context(), id, userID, in.RejectionReason, in.InternalNotes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":        "Devolución rechazada",
		"return_request": rr,
	})
}

// List lista devoluciones con filtros y agregados.
// GET /api/returns
func (h *ReturnsHandler) List(c *fiber.Ctx) error {
	var q dto.ReturnsListQuery
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
	res, err := h.uc.GetReturnsWithFilters(q, rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// GetByID obtiene una solicitud de devolución.
// GET /api/returns/:returnRequestId
func (h *ReturnsHandler) GetByID(c *fiber.Ctx) error {
	rr, err := h.uc.GetReturnRequest(c.Params("returnRequestId"), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rr)
}

// OrderNetView devuelve la orden con sus devoluciones descontadas.
// GET /api/returns/orders/:orderId/net
func (h *ReturnsHandler) OrderNetView(c *fiber.Ctx) error {
	view, err := h.uc.GetOrderNetView(c.Params("orderId"), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}
