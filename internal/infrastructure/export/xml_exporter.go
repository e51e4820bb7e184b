// Package export serializa el paquete de auditoría a XML canónico para
// auditores externos. El documento se canonicaliza (C14N) antes de calcular
// la huella, para que dos exportaciones del mismo contenido den el mismo hash
// sin importar diferencias cosméticas de serialización.
package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/application/report"
)

var _ report.XMLExporter = (*XMLExporter)(nil)

// XMLExporter implementa report.XMLExporter con etree + C14N + SHA-256.
type XMLExporter struct{}

// NewXMLExporter construye el exportador.
func NewXMLExporter() *XMLExporter { return &XMLExporter{} }

// Export serializa el paquete y devuelve el XML canónico con su huella.
func (e *XMLExporter) Export(exp *dto.AuditExport) ([]byte, string, error) {
	if exp == nil {
		return nil, "", fmt.Errorf("export: paquete vacío")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("auditoria")
	root.CreateAttr("store_id", exp.StoreID)
	root.CreateAttr("export_date", exp.ExportDate.UTC().Format(time.RFC3339))

	period := root.CreateElement("periodo")
	if exp.Period.Start != nil {
		period.CreateAttr("desde", exp.Period.Start.UTC().Format(time.RFC3339))
	}
	if exp.Period.End != nil {
		period.CreateAttr("hasta", exp.Period.End.UTC().Format(time.RFC3339))
	}

	returnsEl := root.CreateElement("devoluciones")
	for _, rr := range exp.Returns {
		el := returnsEl.CreateElement("devolucion")
		el.CreateAttr("id", rr.ID)
		addChild(el, "orden", rr.OrderNumber)
		addChild(el, "tipo", rr.Type)
		addChild(el, "estado", rr.Status)
		addChild(el, "razon", rr.ReasonCategory)
		addChild(el, "metodo_reembolso", rr.RefundMethod)
		addMoney(el, "monto", rr.TotalRefundAmount)
		addChild(el, "solicitada", rr.RequestedAt.UTC().Format(time.RFC3339))
		if rr.ProcessedAt != nil {
			addChild(el, "procesada", rr.ProcessedAt.UTC().Format(time.RFC3339))
		}
		for _, it := range rr.Items {
			itemEl := el.CreateElement("item")
			itemEl.CreateAttr("product_id", it.ProductID)
			itemEl.CreateAttr("cantidad", fmt.Sprintf("%d", it.ReturnQuantity))
			itemEl.CreateAttr("precio_unitario", it.UnitPrice.StringFixed(2))
		}
	}

	refundsEl := root.CreateElement("reembolsos")
	for _, rt := range exp.Refunds {
		el := refundsEl.CreateElement("reembolso")
		el.CreateAttr("id", rt.ID)
		addChild(el, "devolucion_id", rt.ReturnRequestID)
		addChild(el, "orden_id", rt.OrderID)
		addMoney(el, "monto", rt.Amount)
		addChild(el, "moneda", rt.Currency)
		addChild(el, "metodo", rt.RefundMethod)
		addChild(el, "estado", rt.Status)
		if rt.ProcessedAt != nil {
			addChild(el, "procesado", rt.ProcessedAt.UTC().Format(time.RFC3339))
		}
	}

	logsEl := root.CreateElement("bitacora")
	for _, l := range exp.AuditLogs {
		el := logsEl.CreateElement("registro")
		el.CreateAttr("id", l.ID)
		addChild(el, "accion", l.ActionType)
		addChild(el, "entidad", l.EntityType)
		addChild(el, "entidad_id", l.EntityID)
		addChild(el, "usuario", l.UserName)
		addChild(el, "estado", l.Status)
		addChild(el, "timestamp", l.Timestamp.UTC().Format(time.RFC3339))
		if fi := l.FinancialImpact; fi != nil {
			impEl := el.CreateElement("impacto")
			impEl.CreateAttr("tipo", fi.Type)
			impEl.CreateAttr("monto", fi.Amount.StringFixed(2))
		}
	}

	movementsEl := root.CreateElement("movimientos_caja")
	for _, m := range exp.CashMovements {
		el := movementsEl.CreateElement("movimiento")
		el.CreateAttr("id", m.ID)
		addChild(el, "tipo", m.Type)
		addMoney(el, "monto", m.Amount)
		addChild(el, "fecha", m.Date.UTC().Format(time.RFC3339))
	}

	finEl := root.CreateElement("transacciones_financieras")
	for _, t := range exp.FinancialTransactions {
		el := finEl.CreateElement("transaccion")
		el.CreateAttr("id", t.ID)
		addChild(el, "tipo", t.Type)
		addMoney(el, "monto", t.Amount)
		addChild(el, "categoria", t.Category)
		if t.SourceReturnRequestID != "" {
			addChild(el, "devolucion_id", t.SourceReturnRequestID)
		}
		addChild(el, "fecha", t.Date.UTC().Format(time.RFC3339))
	}

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("export: serializar XML: %w", err)
	}

	canonical, err := canonicalize(raw)
	if err != nil {
		return nil, "", fmt.Errorf("export: canonicalizar XML: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return canonical, hex.EncodeToString(sum[:]), nil
}

func canonicalize(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}

func addChild(parent *etree.Element, tag, value string) {
	if value == "" {
		return
	}
	parent.CreateElement(tag).SetText(value)
}

func addMoney(parent *etree.Element, tag string, amount decimal.Decimal) {
	parent.CreateElement(tag).SetText(amount.StringFixed(2))
}
