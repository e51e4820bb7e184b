package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/domain/entity"
)

// Estados del reporte de reconciliación.
const (
	ReconciliationOK          = "RECONCILED"
	ReconciliationNeedsReview = "NEEDS_REVIEW"
)

// Period rango reportado.
type Period struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// LedgerSummary ingresos, egresos y neto de un ledger.
type LedgerSummary struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Total    decimal.Decimal `json:"total"`
}

// AmountCountSummary total y conteo de una agregación.
type AmountCountSummary struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Discrepancies detalle de la diferencia entre ledgers.
type Discrepancies struct {
	Detected   bool            `json:"detected"`
	Difference decimal.Decimal `json:"difference"`
	Percentage string          `json:"percentage"` // "N/A" si el neto financiero es 0
}

// ReconciliationReport respuesta de GET /api/audit/reconciliation.
type ReconciliationReport struct {
	Period           Period             `json:"period"`
	CashSummary      LedgerSummary      `json:"cash_summary"`
	FinancialSummary LedgerSummary      `json:"financial_summary"`
	RefundsSummary   AmountCountSummary `json:"refunds_summary"`
	ReturnsSummary   AmountCountSummary `json:"returns_summary"`
	Discrepancies    Discrepancies      `json:"discrepancies"`
	Status           string             `json:"status"`
}

// IntegrityIssue discrepancia detectada para una devolución completada.
type IntegrityIssue struct {
	ReturnID string `json:"return_id"`
	Issue    string `json:"issue"`
}

// IntegrityChecks ratios de cobertura de cada verificación.
type IntegrityChecks struct {
	AllHaveAuditLog             string           `json:"all_have_audit_log"`
	AllHaveRefundTransaction    string           `json:"all_have_refund_transaction"`
	AllHaveCashMovement         string           `json:"all_have_cash_movement"`
	AllHaveFinancialTransaction string           `json:"all_have_financial_transaction"`
	DiscrepanciesFound          []IntegrityIssue `json:"discrepancies_found"`
}

// IntegrityReport respuesta de GET /api/audit/integrity.
type IntegrityReport struct {
	Timestamp    time.Time       `json:"timestamp"`
	TotalReturns int             `json:"total_returns"`
	Checks       IntegrityChecks `json:"checks"`
}

// ActionTypeSummary conteo e impacto por tipo de acción.
type ActionTypeSummary struct {
	Count       int             `json:"count"`
	TotalImpact decimal.Decimal `json:"total_impact"`
}

// TrailEntry fila proyectada del trail de auditoría.
type TrailEntry struct {
	Timestamp       time.Time               `json:"timestamp"`
	ActionType      string                  `json:"action_type"`
	Description     string                  `json:"description"`
	User            string                  `json:"user"`
	EntityType      string                  `json:"entity_type"`
	Status          string                  `json:"status"`
	FinancialImpact *entity.FinancialImpact `json:"financial_impact,omitempty"`
	Changes         []entity.AuditChange    `json:"changes,omitempty"`
}

// AuditTrailReport respuesta de GET /api/audit/trail.
type AuditTrailReport struct {
	Period  Period `json:"period"`
	Summary struct {
		TotalEvents          int             `json:"total_events"`
		TotalFinancialImpact decimal.Decimal `json:"total_financial_impact"`
		Debits               decimal.Decimal `json:"debits"`
		Credits              decimal.Decimal `json:"credits"`
	} `json:"summary"`
	ByActionType map[string]*ActionTypeSummary `json:"by_action_type"`
	AuditTrail   []TrailEntry                  `json:"audit_trail"`
}

// BreakdownEntry conteo y monto agrupado (por razón, método o tipo).
type BreakdownEntry struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ReturnsReportDetail fila de detalle del reporte de devoluciones.
type ReturnsReportDetail struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CustomerID     string          `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Type           string          `json:"type"`
	ReasonCategory string          `json:"reason_category"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	RefundMethod   string          `json:"refund_method"`
	Status         string          `json:"status"`
	RequestedAt    time.Time       `json:"requested_at"`
	ProcessedAt    *time.Time      `json:"processed_at,omitempty"`
}

// ReturnsReport respuesta de GET /api/audit/returns-report.
type ReturnsReport struct {
	Period  Period `json:"period"`
	Summary struct {
		TotalReturns        int             `json:"total_returns"`
		TotalRefundAmount   decimal.Decimal `json:"total_refund_amount"`
		AverageRefundAmount decimal.Decimal `json:"average_refund_amount"`
	} `json:"summary"`
	ByReasonCategory map[string]*BreakdownEntry `json:"by_reason_category"`
	ByRefundMethod   map[string]*BreakdownEntry `json:"by_refund_method"`
	ByType           map[string]*BreakdownEntry `json:"by_type"`
	Details          []ReturnsReportDetail      `json:"details"`
}

// AuditExport paquete de datos para auditoría externa.
type AuditExport struct {
	ExportDate            time.Time                      `json:"export_date"`
	Period                Period                         `json:"period"`
	StoreID               string                         `json:"store_id"`
	Returns               []*entity.ReturnRequest        `json:"returns"`
	Refunds               []*entity.RefundTransaction    `json:"refunds"`
	AuditLogs             []*entity.AuditLog             `json:"audit_logs"`
	CashMovements         []*entity.CashMovement         `json:"cash_movements"`
	FinancialTransactions []*entity.FinancialTransaction `json:"financial_transactions"`
}
