// Package report implementa la capa de reportes de solo lectura:
// reconciliación financiera, integridad contable, trail de auditoría,
// reporte de devoluciones y exportación para auditores externos.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bellezapp/backend/internal/application/audit"
	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/domain"
	"github.com/bellezapp/backend/internal/domain/entity"
	"github.com/bellezapp/backend/internal/domain/repository"
	"github.com/bellezapp/backend/pkg/logger"
)

// Tolerancia de reconciliación entre el ledger de caja y el contable.
var reconciliationTolerance = decimal.NewFromFloat(0.01)

// Formatos de exportación soportados.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatPDF  = "pdf"
)

// ExportResult documento exportado listo para responder.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
	Fingerprint string // solo XML
}

// Service capa de reportes. Todas las operaciones son lecturas; la única
// escritura es la fila de auditoría de una exportación.
type Service struct {
	recon   repository.ReconciliationRepository
	returns repository.ReturnRequestRepository
	refunds repository.RefundTransactionRepository
	audits  repository.AuditLogRepository
	cashMov repository.CashMovementRepository
	fin     repository.FinancialTransactionRepository
	auditor *audit.Logger
	pdf     PDFGenerator
	xml     XMLExporter
	cache   Cache
	log     *logger.Logger
}

// NewService construye la capa de reportes.
func NewService(
	recon repository.ReconciliationRepository,
	returns repository.ReturnRequestRepository,
	refunds repository.RefundTransactionRepository,
	audits repository.AuditLogRepository,
	cashMov repository.CashMovementRepository,
	fin repository.FinancialTransactionRepository,
	auditor *audit.Logger,
	pdf PDFGenerator,
	xml XMLExporter,
	cache Cache,
	log *logger.Logger,
) *Service {
	return &Service{
		recon:   recon,
		returns: returns,
		refunds: refunds,
		audits:  audits,
		cashMov: cashMov,
		fin:     fin,
		auditor: auditor,
		pdf:     pdf,
		xml:     xml,
		cache:   cache,
		log:     log,
	}
}

// GetFinancialReconciliation cruza el ledger de caja contra el contable,
// los reembolsos procesados y las devoluciones completadas del período.
func (s *Service) GetFinancialReconciliation(ctx context.Context, storeID string, rng dto.DateRange) (*dto.ReconciliationReport, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}

	key := reconCacheKey(storeID, rng)
	if cached, err := s.cache.GetReconciliation(ctx, key); err == nil && cached != nil {
		return cached, nil
	}

	cash, err := s.recon.SumCashMovements(ctx, storeID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	fin, err := s.recon.SumFinancialTransactions(ctx, storeID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	refunds, err := s.recon.SumProcessedRefunds(ctx, storeID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	returns, err := s.recon.SumCompletedReturns(ctx, storeID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}

	diff := cash.Net().Sub(fin.Net()).Abs()
	detected := diff.GreaterThan(reconciliationTolerance)

	percentage := "N/A"
	if !fin.Net().IsZero() {
		pct := diff.Div(fin.Net().Abs()).Mul(decimal.NewFromInt(100))
		percentage = pct.StringFixed(2) + "%"
	}

	status := dto.ReconciliationOK
	if detected {
		status = dto.ReconciliationNeedsReview
	}

	rep := &dto.ReconciliationReport{
		Period: dto.Period{Start: rng.From, End: rng.To},
		CashSummary: dto.LedgerSummary{
			Income:   cash.Income,
			Expenses: cash.Expenses,
			Total:    cash.Net(),
		},
		FinancialSummary: dto.LedgerSummary{
			Income:   fin.Income,
			Expenses: fin.Expenses,
			Total:    fin.Net(),
		},
		RefundsSummary: dto.AmountCountSummary{Total: refunds.Total, Count: refunds.Count},
		ReturnsSummary: dto.AmountCountSummary{Total: returns.Total, Count: returns.Count},
		Discrepancies: dto.Discrepancies{
			Detected:   detected,
			Difference: diff,
			Percentage: percentage,
		},
		Status: status,
	}

	if err := s.cache.SetReconciliation(ctx, key, rep); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo cachear el reporte de reconciliación")
	}
	return rep, nil
}

func reconCacheKey(storeID string, rng dto.DateRange) string {
	from, to := "-", "-"
	if rng.From != nil {
		from = rng.From.UTC().Format(time.RFC3339)
	}
	if rng.To != nil {
		to = rng.To.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("reconciliation:%s:%s:%s", storeID, from, to)
}

// GetAccountingIntegrityReport verifica, para cada devolución completada del
// período, que existan sus cuatro contrapartes: fila de auditoría, reembolso
// procesado, movimiento de caja tipo refund y egreso contable enlazado por FK.
func (s *Service) GetAccountingIntegrityReport(ctx context.Context, storeID string, rng dto.DateRange) (*dto.IntegrityReport, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}

	completed, err := s.returns.ListProcessedInRange(storeID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}

	total := len(completed)
	var withAudit, withRefund, withCash, withFin int
	issues := []dto.IntegrityIssue{}

	for _, rr := range completed {
		hasAudit, err := s.audits.HasEntityAction(rr.ID, entity.ActionReturnCompleted)
		if err != nil {
			return nil, err
		}
		if hasAudit {
			withAudit++
		} else {
			issues = append(issues, dto.IntegrityIssue{ReturnID: rr.ID, Issue: "sin registro de auditoría"})
		}

		rt, err := s.refunds.GetByReturnRequest(rr.ID)
		if err != nil {
			return nil, err
		}
		if rt != nil && rt.Status == entity.RefundStatusProcessed {
			withRefund++
		} else {
			issues = append(issues, dto.IntegrityIssue{ReturnID: rr.ID, Issue: "sin transacción de reembolso procesada"})
		}

		hasCash, err := s.recon.HasRefundCashMovement(ctx, rr.ID)
		if err != nil {
			return nil, err
		}
		if hasCash {
			withCash++
		} else {
			issues = append(issues, dto.IntegrityIssue{ReturnID: rr.ID, Issue: "sin movimiento de caja de reembolso"})
		}

		hasFin, err := s.fin.HasExpenseForReturn(rr.ID)
		if err != nil {
			return nil, err
		}
		if hasFin {
			withFin++
		} else {
			issues = append(issues, dto.IntegrityIssue{ReturnID: rr.ID, Issue: "sin egreso contable enlazado"})
		}
	}

	return &dto.IntegrityReport{
		Timestamp:    time.Now(),
		TotalReturns: total,
		Checks: dto.IntegrityChecks{
			AllHaveAuditLog:             ratio(withAudit, total),
			AllHaveRefundTransaction:    ratio(withRefund, total),
			AllHaveCashMovement:         ratio(withCash, total),
			AllHaveFinancialTransaction: ratio(withFin, total),
			DiscrepanciesFound:          issues,
		},
	}, nil
}

func ratio(n, total int) string {
	return fmt.Sprintf("%d/%d", n, total)
}

// GetComprehensiveAuditTrail agrupa el trail por tipo de acción con totales
// de débitos y créditos.
func (s *Service) GetComprehensiveAuditTrail(storeID, entityType, entityID string, rng dto.DateRange) (*dto.AuditTrailReport, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}

	logs, err := s.audits.List(repository.AuditFilters{
		StoreID:    storeID,
		EntityType: entityType,
		EntityID:   entityID,
		From:       rng.From,
		To:         rng.To,
		Limit:      1000,
	})
	if err != nil {
		return nil, err
	}

	rep := &dto.AuditTrailReport{
		Period:       dto.Period{Start: rng.From, End: rng.To},
		ByActionType: map[string]*dto.ActionTypeSummary{},
		AuditTrail:   make([]dto.TrailEntry, 0, len(logs)),
	}
	rep.Summary.TotalEvents = len(logs)
	rep.Summary.TotalFinancialImpact = decimal.Zero
	rep.Summary.Debits = decimal.Zero
	rep.Summary.Credits = decimal.Zero

	for _, l := range logs {
		sum, ok := rep.ByActionType[l.ActionType]
		if !ok {
			sum = &dto.ActionTypeSummary{TotalImpact: decimal.Zero}
			rep.ByActionType[l.ActionType] = sum
		}
		sum.Count++

		if fi := l.FinancialImpact; fi != nil {
			sum.TotalImpact = sum.TotalImpact.Add(fi.Amount)
			rep.Summary.TotalFinancialImpact = rep.Summary.TotalFinancialImpact.Add(fi.Amount)
			switch fi.Type {
			case entity.ImpactDebit:
				rep.Summary.Debits = rep.Summary.Debits.Add(fi.Amount)
			case entity.ImpactCredit:
				rep.Summary.Credits = rep.Summary.Credits.Add(fi.Amount)
			}
		}

		user := l.UserName
		if user == "" {
			user = l.UserID
		}
		rep.AuditTrail = append(rep.AuditTrail, dto.TrailEntry{
			Timestamp:       l.Timestamp,
			ActionType:      l.ActionType,
			Description:     l.Description,
			User:            user,
			EntityType:      l.EntityType,
			Status:          l.Status,
			FinancialImpact: l.FinancialImpact,
			Changes:         l.Changes,
		})
	}
	return rep, nil
}

// GetReturnsAndRefundsReport totales, promedios y desgloses de devoluciones.
func (s *Service) GetReturnsAndRefundsReport(storeID string, rng dto.DateRange) (*dto.ReturnsReport, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}

	list, err := s.returns.ListWithFilters(repository.ReturnFilters{
		StoreID: storeID,
		From:    rng.From,
		To:      rng.To,
	})
	if err != nil {
		return nil, err
	}

	rep := &dto.ReturnsReport{
		Period:           dto.Period{Start: rng.From, End: rng.To},
		ByReasonCategory: map[string]*dto.BreakdownEntry{},
		ByRefundMethod:   map[string]*dto.BreakdownEntry{},
		ByType:           map[string]*dto.BreakdownEntry{},
		Details:          make([]dto.ReturnsReportDetail, 0, len(list)),
	}
	rep.Summary.TotalReturns = len(list)
	rep.Summary.TotalRefundAmount = decimal.Zero

	for _, rr := range list {
		rep.Summary.TotalRefundAmount = rep.Summary.TotalRefundAmount.Add(rr.TotalRefundAmount)
		bump(rep.ByReasonCategory, rr.ReasonCategory, rr.TotalRefundAmount)
		bump(rep.ByRefundMethod, rr.RefundMethod, rr.TotalRefundAmount)
		bump(rep.ByType, rr.Type, rr.TotalRefundAmount)

		rep.Details = append(rep.Details, dto.ReturnsReportDetail{
			ID:             rr.ID,
			OrderNumber:    rr.OrderNumber,
			CustomerID:     rr.CustomerID,
			CustomerName:   rr.CustomerName,
			Type:           rr.Type,
			ReasonCategory: rr.ReasonCategory,
			TotalAmount:    rr.TotalRefundAmount,
			RefundMethod:   rr.RefundMethod,
			Status:         rr.Status,
			RequestedAt:    rr.RequestedAt,
			ProcessedAt:    rr.ProcessedAt,
		})
	}
	if len(list) > 0 {
		rep.Summary.AverageRefundAmount = rep.Summary.TotalRefundAmount.
			Div(decimal.NewFromInt(int64(len(list)))).Round(2)
	} else {
		rep.Summary.AverageRefundAmount = decimal.Zero
	}
	return rep, nil
}

func bump(m map[string]*dto.BreakdownEntry, key string, amount decimal.Decimal) {
	e, ok := m[key]
	if !ok {
		e = &dto.BreakdownEntry{Total: decimal.Zero}
		m[key] = e
	}
	e.Count++
	e.Total = e.Total.Add(amount)
}

// ExportAuditDataForExternal arma el paquete del período y lo serializa en el
// formato pedido. La exportación queda registrada en la bitácora.
func (s *Service) ExportAuditDataForExternal(ctx context.Context, storeID, userID, format string, rng dto.DateRange) (*ExportResult, error) {
	if storeID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch format {
	case FormatJSON, FormatXML, FormatPDF:
	default:
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}

	exp, err := s.buildExport(storeID, rng)
	if err != nil {
		return nil, err
	}

	stamp := exp.ExportDate.Format("20060102-150405")
	var res *ExportResult
	switch format {
	case FormatJSON:
		body, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return nil, err
		}
		res = &ExportResult{
			Content:     body,
			ContentType: "application/json",
			Filename:    fmt.Sprintf("auditoria-%s-%s.json", storeID, stamp),
		}
	case FormatXML:
		doc, fingerprint, err := s.xml.Export(exp)
		if err != nil {
			return nil, err
		}
		res = &ExportResult{
			Content:     doc,
			ContentType: "application/xml",
			Filename:    fmt.Sprintf("auditoria-%s-%s.xml", storeID, stamp),
			Fingerprint: fingerprint,
		}
	case FormatPDF:
		returnsRep, err := s.GetReturnsAndRefundsReport(storeID, rng)
		if err != nil {
			return nil, err
		}
		body, err := s.pdf.ReturnsReport(returnsRep)
		if err != nil {
			return nil, err
		}
		res = &ExportResult{
			Content:     body,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("auditoria-%s-%s.pdf", storeID, stamp),
		}
	}

	if err := s.auditor.Record(s.audits, audit.Entry{
		ActionType:  entity.ActionExportPerformed,
		Description: fmt.Sprintf("Exportación de auditoría (%s) de la tienda %s", format, storeID),
		EntityType:  "store",
		EntityID:    storeID,
		UserID:      userID,
		StoreID:     storeID,
	}); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo registrar la exportación en la bitácora")
	}

	s.log.Info().
		Str("store_id", storeID).
		Str("format", format).
		Int("bytes", len(res.Content)).
		Msg("exportación de auditoría generada")
	return res, nil
}

func (s *Service) buildExport(storeID string, rng dto.DateRange) (*dto.AuditExport, error) {
	returns, err := s.returns.ListWithFilters(repository.ReturnFilters{
		StoreID: storeID, From: rng.From, To: rng.To,
	})
	if err != nil {
		return nil, err
	}
	refunds, err := s.refunds.ListByStore(storeID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	logs, err := s.audits.List(repository.AuditFilters{
		StoreID: storeID, From: rng.From, To: rng.To, Limit: 10000,
	})
	if err != nil {
		return nil, err
	}
	movements, err := s.cashMov.List(repository.CashMovementFilters{
		StoreID: storeID, From: rng.From, To: rng.To,
	})
	if err != nil {
		return nil, err
	}
	fin, err := s.fin.List(storeID, rng.From, rng.To)
	if err != nil {
		return nil, err
	}
	return &dto.AuditExport{
		ExportDate:            time.Now(),
		Period:                dto.Period{Start: rng.From, End: rng.To},
		StoreID:               storeID,
		Returns:               returns,
		Refunds:               refunds,
		AuditLogs:             logs,
		CashMovements:         movements,
		FinancialTransactions: fin,
	}, nil
}
