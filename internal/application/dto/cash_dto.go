package dto

import "github.com/shopspring/decimal"

// OpenRegisterRequest body para POST /api/cash/open.
type OpenRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	StoreID       string          `json:"store_id"`
}

// CloseRegisterRequest body para PATCH /api/cash/:id/close.
type CloseRegisterRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount"`
}

// AddCashMovementRequest body para POST /api/cash/movements.
type AddCashMovementRequest struct {
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	OrderID     string          `json:"order_id,omitempty"`
	StoreID     string          `json:"store_id"`
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token y datos básicos del usuario autenticado.
type LoginResponse struct {
	Token   string `json:"token"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID string `json:"store_id"`
}
