package report

import (
	"context"

	"github.com/bellezapp/backend/internal/application/dto"
)

// PDFGenerator genera el PDF del reporte de devoluciones y reembolsos.
type PDFGenerator interface {
	ReturnsReport(rep *dto.ReturnsReport) ([]byte, error)
}

// XMLExporter serializa el paquete de exportación a XML canónico y devuelve
// el documento junto con su huella SHA-256.
type XMLExporter interface {
	Export(exp *dto.AuditExport) (doc []byte, fingerprint string, err error)
}

// Cache cachea reportes de reconciliación por tienda+rango con TTL corto.
// Un miss devuelve (nil, nil).
type Cache interface {
	GetReconciliation(ctx context.Context, key string) (*dto.ReconciliationReport, error)
	SetReconciliation(ctx context.Context, key string, rep *dto.ReconciliationReport) error
}
