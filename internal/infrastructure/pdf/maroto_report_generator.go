// Package pdf genera el reporte imprimible de devoluciones y reembolsos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Período                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: total devoluciones / monto total / promedio       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESGLOSE: por categoría de razón y método de reembolso     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Orden | Tipo | Razón | Método | Estado | Monto      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/bellezapp/backend/internal/application/dto"
	"github.com/bellezapp/backend/internal/application/report"
)

var _ report.PDFGenerator = (*MarotoReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implementa report.PDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	printer *message.Printer
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator {
	return &MarotoReportGenerator{printer: message.NewPrinter(language.Spanish)}
}

// ReturnsReport genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoReportGenerator) ReturnsReport(rep *dto.ReturnsReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de devoluciones y reembolsos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("Por categoría de razón"))
	for _, r := range g.breakdownRows(rep.ByReasonCategory) {
		m.AddRows(r)
	}
	m.AddRows(sectionTitle("Por método de reembolso"))
	for _, r := range g.breakdownRows(rep.ByRefundMethod) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.tableHeaderRow())
	for _, r := range g.detailRows(rep.Details) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReportGenerator) headerRow(rep *dto.ReturnsReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Reporte de devoluciones y reembolsos", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Período: "+formatPeriod(rep.Period), props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoReportGenerator) summaryRow(rep *dto.ReturnsReport) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 7, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		cell("Devoluciones", fmt.Sprintf("%d", rep.Summary.TotalReturns)),
		cell("Monto total", "$"+g.money(rep.Summary.TotalRefundAmount)),
		cell("Promedio", "$"+g.money(rep.Summary.AverageRefundAmount)),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(
		col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		})),
	)
}

func (g *MarotoReportGenerator) breakdownRows(m map[string]*dto.BreakdownEntry) []core.Row {
	rows := make([]core.Row, 0, len(m))
	for key, e := range m {
		rows = append(rows, row.New(6).Add(
			col.New(6).Add(text.New(key, props.Text{Size: 8, Left: 2})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", e.Count), props.Text{Size: 8, Align: align.Center})),
			col.New(4).Add(text.New("$"+g.money(e.Total), props.Text{Size: 8, Align: align.Right, Right: 2})),
		))
	}
	return rows
}

func (g *MarotoReportGenerator) tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Orden", 2, align.Left),
		h("Tipo", 2, align.Left),
		h("Razón", 2, align.Left),
		h("Método", 2, align.Left),
		h("Estado", 2, align.Center),
		h("Monto", 2, align.Right),
	)
}

func (g *MarotoReportGenerator) detailRows(details []dto.ReturnsReportDetail) []core.Row {
	rows := make([]core.Row, 0, len(details))
	for _, d := range details {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7, Align: a, Left: 1, Right: 1}))
		}
		rows = append(rows, row.New(6).Add(
			cell(d.OrderNumber, 2, align.Left),
			cell(d.Type, 2, align.Left),
			cell(d.ReasonCategory, 2, align.Left),
			cell(d.RefundMethod, 2, align.Left),
			cell(d.Status, 2, align.Center),
			cell("$"+g.money(d.TotalAmount), 2, align.Right),
		))
	}
	return rows
}

// money formatea un monto con separadores de miles según el locale.
func (g *MarotoReportGenerator) money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return g.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func formatPeriod(p dto.Period) string {
	const layout = "02/01/2006"
	switch {
	case p.Start != nil && p.End != nil:
		return p.Start.Format(layout) + " - " + p.End.Format(layout)
	case p.Start != nil:
		return "desde " + p.Start.Format(layout)
	case p.End != nil:
		return "hasta " + p.End.Format(layout)
	}
	return "todo el historial"
}
