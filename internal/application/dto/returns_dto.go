package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// ReturnItemRequest línea del body de POST /api/returns/request.
type ReturnItemRequest struct {
	ProductID        string          `json:"product_id"`
	OriginalQuantity int             `json:"original_quantity"`
	ReturnQuantity   int             `json:"return_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ReturnReason     string          `json:"return_reason"`
	Notes            string          `json:"notes,omitempty"`
}

// CreateReturnRequest body para POST /api/returns/request.
type CreateReturnRequest struct {
	OrderID        string              `json:"order_id"`
	Type           string              `json:"type"`
	Items          []ReturnItemRequest `json:"items"`
	RefundMethod   string              `json:"refund_method"`
	ReasonCategory string              `json:"reason_category"`
	ReasonDetails  string              `json:"reason_details"`
	Notes          []string            `json:"notes,omitempty"`
	AttachmentURLs []string            `json:"attachment_urls,omitempty"`
	CustomerName   string              `json:"customer_name,omitempty"`
	StoreID        string              `json:"store_id"`
}

// ApproveReturnRequest body para PATCH /api/returns/:id/approve.
type ApproveReturnRequest struct {
	ApprovalNotes string `json:"approval_notes,omitempty"`
}

// ProcessReturnRequest body para PATCH /api/returns/:id/process.
type ProcessReturnRequest struct {
	ProcessNotes string `json:"process_notes,omitempty"`
}

// RejectReturnRequest body para PATCH /api/returns/:id/reject.
type RejectReturnRequest struct {
	RejectionReason string `json:"rejection_reason"`
	InternalNotes   string `json:"internal_notes,omitempty"`
}

// ReturnsListQuery filtros de GET /api/returns.
type ReturnsListQuery struct {
	StoreID      string `query:"storeId"`
	Status       string `query:"status"`
	Type         string `query:"type"`
	CustomerID   string `query:"customerId"`
	RefundMethod string `query:"refundMethod"`
	StartDate    string `query:"startDate"`
	EndDate      string `query:"endDate"`
}

// ReturnsSummary agregados del listado de devoluciones.
type ReturnsSummary struct {
	Total             int             `json:"total"`
	TotalRefundAmount decimal.Decimal `json:"total_refund_amount"`
	ByStatus          map[string]int  `json:"by_status"`
	ByType            map[string]int  `json:"by_type"`
}

// ReturnsListResponse respuesta de GET /api/returns.
type ReturnsListResponse struct {
	Returns []*entity.ReturnRequest `json:"returns"`
	Summary ReturnsSummary          `json:"summary"`
}

// ProcessReturnResponse respuesta de PATCH /api/returns/:id/process.
type ProcessReturnResponse struct {
	Message           string                    `json:"message"`
	ReturnRequest     *entity.ReturnRequest     `json:"return_request"`
	RefundTransaction *entity.RefundTransaction `json:"refund_transaction"`
}

// DateRange rango de fechas parseado de query params.
type DateRange struct {
	From *time.Time
	To   *time.Time
}
