package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/auth"
	"github.com/bellezapp/backend/internal/application/cash"
	"github.com/bellezapp/backend/internal/application/report"
	"github.com/bellezapp/backend/internal/application/returns"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ReturnsUC   *returns.UseCase
	CashUC      *cash.UseCase
	AuthUC      *auth.UseCase
	AuditLogger *audit.Logger
	Reports     *report.Service
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/logout", authHandler.Logout)

	// Devoluciones (protegido)
	returnsGroup := protected.Group("/returns")
	returnsHandler := NewReturnsHandler(deps.ReturnsUC)
	returnsGroup.Post("/request", returnsHandler.Create)
	returnsGroup.Get("/", returnsHandler.List)
	returnsGroup.Get("/orders/:orderId/net", returnsHandler.OrderNetView)
	returnsGroup.Get("/:returnRequestId", returnsHandler.GetByID)
	returnsGroup.Patch("/:returnRequestId/approve", returnsHandler.Approve)
	returnsGroup.Patch("/:returnRequestId/process", returnsHandler.Process)
	returnsGroup.Patch("/:returnRequestId/reject", returnsHandler.Reject)

	// Auditoría y reportes (protegido; reportes financieros solo admin/gerente)
	auditGroup := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditLogger, deps.Reports)
	auditGroup.Get("/logs", auditHandler.Logs)
	auditGroup.Get("/history/:entityType/:entityId", auditHandler.History)
	auditGroup.Get("/validate/:entityId", auditHandler.Validate)

	managers := RequireRole("admin", "gerente")
	auditGroup.Get("/reconciliation", managers, auditHandler.Reconciliation)
	auditGroup.Get("/integrity", managers, auditHandler.Integrity)
	auditGroup.Get("/trail", managers, auditHandler.Trail)
	auditGroup.Get("/returns-report", managers, auditHandler.ReturnsReport)
	auditGroup.Get("/export", managers, auditHandler.Export)
	auditGroup.Patch("/logs/:id/reverse", managers, auditHandler.Reverse)

	// Caja (protegido)
	cashGroup := protected.Group("/cash")
	cashHandler := NewCashHandler(deps.CashUC)
	cashGroup.Post("/open", cashHandler.Open)
	cashGroup.Patch("/:id/close", cashHandler.Close)
	cashGroup.Post("/movements", cashHandler.AddMovement)
	cashGroup.Get("/movements", cashHandler.ListMovements)
	cashGroup.Get("/status", cashHandler.Status)
}
