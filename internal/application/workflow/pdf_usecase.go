package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// DocumentLineForPDF línea enriquecida con el nombre del producto para la
// representación impresa.
type DocumentLineForPDF struct {
	entity.DocumentLine
	ProductName string
}

// DocumentPDFGenerator genera el comprobante impreso (recepción o despacho).
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(ctx context.Context, doc *entity.Document, counterpartyName string, lines []DocumentLineForPDF) ([]byte, error)
}

// PDFUseCase genera el comprobante PDF de un documento confirmado.
type PDFUseCase struct {
	docRepo      repository.DocumentRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
	generator    DocumentPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	docRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	customerRepo repository.CustomerRepository,
	generator DocumentPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		docRepo:      docRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadDocumentPDF genera el comprobante de un documento confirmado.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el documento no existe.
//   - domain.ErrInvalidState     si el documento aún no está confirmado.
func (uc *PDFUseCase) DownloadDocumentPDF(ctx context.Context, documentID string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.docRepo.GetByID(documentID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, "", domain.ErrNotFound
	}
	if doc.Status != entity.StatusImported && doc.Status != entity.StatusExported {
		return nil, "", fmt.Errorf("%w: el documento está en estado %s, solo los confirmados tienen comprobante",
			domain.ErrInvalidState, doc.Status)
	}

	counterparty := uc.counterpartyName(doc)

	enriched := make([]DocumentLineForPDF, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		name := "Producto " + l.ProductID // fallback
		if product, pErr := uc.productRepo.GetByID(l.ProductID); pErr == nil && product != nil {
			name = product.Name
		}
		enriched = append(enriched, DocumentLineForPDF{DocumentLine: l, ProductName: name})
	}

	pdfBytes, err = uc.generator.GenerateDocumentPDF(ctx, doc, counterparty, enriched)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	filename = fmt.Sprintf("comprobante_%s.pdf", strings.ToLower(doc.Code))
	return pdfBytes, filename, nil
}

// counterpartyName resuelve el nombre de la contraparte; lectura decorativa,
// degrada a vacío o al nombre directo del documento.
func (uc *PDFUseCase) counterpartyName(doc *entity.Document) string {
	if doc.Kind == entity.KindImport {
		if s, err := uc.supplierRepo.GetByID(doc.SupplierID); err == nil && s != nil {
			return s.Name
		}
		return ""
	}
	if doc.CustomerID != "" {
		if c, err := uc.customerRepo.GetByID(doc.CustomerID); err == nil && c != nil {
			return c.Name
		}
	}
	return doc.CustomerName
}
