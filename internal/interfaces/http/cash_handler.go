package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bellezapp/backend/internal/application/cash"
	"github.com/bellezapp/backend/internal/application/dto"
)

// CashHandler maneja las sesiones y movimientos de caja (protegido).
type CashHandler struct {
	uc *cash.UseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cash.UseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Open abre la caja de la tienda.
// POST /api/cash/open
func (h *CashHandler) Open(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.OpenRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	cr, err := h.uc.OpenRegister(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Caja abierta",
		"cash_register": cr,
	})
}

// Close cierra la caja calculando el arqueo.
// PATCH /api/cash/:id/close
func (h *CashHandler) Close(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CloseRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cr, err := h.uc.CloseRegister(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":       "Caja cerrada",
		"cash_register": cr,
	})
}

// AddMovement registra un movimiento manual.
// POST /api/cash/movements
func (h *CashHandler) AddMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.AddCashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.StoreID == "" {
		in.StoreID = GetStoreID(c)
	}
	mov, err := h.uc.AddMovement(c.Context(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement": mov})
}

// ListMovements lista el ledger de caja.
// GET /api/cash/movements
func (h *CashHandler) ListMovements(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	rng, err := parseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	movements, err := h.uc.ListMovements(storeID, c.Query("type"), rng)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"results":   len(movements),
		"movements": movements,
	})
}

// Status devuelve la caja abierta de la tienda, si hay.
// GET /api/cash/status
func (h *CashHandler) Status(c *fiber.Ctx) error {
	storeID := c.Query("storeId", GetStoreID(c))
	cr, err := h.uc.GetStatus(storeID)
	if err != nil {
		return respondError(c, err)
	}
	if cr == nil {
		return c.JSON(fiber.Map{"open": false, "message": "no hay caja abierta"})
	}
	return c.JSON(fiber.Map{"open": true, "cash_register": cr})
}
