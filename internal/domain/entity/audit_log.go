package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de acción auditables.
const (
	// Transacciones financieras
	ActionOrderCreated      = "order_created"
	ActionOrderCancelled    = "order_cancelled"
	ActionRefundProcessed   = "refund_processed"
	ActionPartialRefund     = "partial_refund"
	ActionExchangeProcessed = "exchange_processed"

	// Devoluciones
	ActionReturnRequested = "return_requested"
	ActionReturnApproved  = "return_approved"
	ActionReturnRejected  = "return_rejected"
	ActionReturnCompleted = "return_completed"

	// Caja
	ActionCashOpening    = "cash_opening"
	ActionCashClosing    = "cash_closing"
	ActionCashAdjustment = "cash_adjustment"
	ActionCashDeposit    = "cash_deposit"
	ActionCashWithdrawal = "cash_withdrawal"

	// Inventario
	ActionInventoryAdjusted = "inventory_adjusted"
	ActionInventoryRestored = "inventory_restored"

	// Acceso
	ActionUserLogin  = "user_login"
	ActionUserLogout = "user_logout"

	// Reportes
	ActionReportGenerated = "report_generated"
	ActionExportPerformed = "export_performed"

	// Discrepancias
	ActionDiscrepancyDetected = "discrepancy_detected"
	ActionDiscrepancyResolved = "discrepancy_resolved"
)

// Estados de un registro de auditoría.
const (
	AuditStatusSuccess  = "success"
	AuditStatusPending  = "pending"
	AuditStatusFailed   = "failed"
	AuditStatusReversed = "reversed"
)

// Sentido del impacto financiero de una acción.
const (
	ImpactDebit  = "debit"
	ImpactCredit = "credit"
)

// AuditChange cambio a nivel de campo registrado en la bitácora.
type AuditChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// FinancialImpact impacto monetario de la acción auditada.
type FinancialImpact struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Type     string          `json:"type"` // debit | credit
	Reason   string          `json:"reason,omitempty"`
}

// RelatedEntity referencia cruzada débil (por id) a otra entidad.
type RelatedEntity struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// AuditLog es un registro append-only de una acción que cambió estado.
// Una fila nunca se muta salvo para marcarla reversed y enlazar la reversión;
// es la fuente canónica para reconciliación.
type AuditLog struct {
	ID          string
	ActionType  string
	Description string

	EntityType string // 'Order', 'ReturnRequest', 'CashRegister', ...
	EntityID   string

	UserID   string
	UserName string // denormalizado al escribir

	StoreID string

	Changes         []AuditChange
	FinancialImpact *FinancialImpact
	RelatedEntities []RelatedEntity

	Status       string
	ErrorMessage string

	ReversedBy     string
	ReversedAt     *time.Time
	ReversalReason string
	ReversalID     string

	Timestamp time.Time
	CreatedAt time.Time
}
