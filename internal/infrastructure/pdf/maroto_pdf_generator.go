// Package pdf implementa el comprobante impreso de un documento de inventario
// confirmado (acta de recepción para entradas, nota de despacho para salidas).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de comprobante  │  Código + Fecha              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTRAPARTE: Proveedor o Cliente                            │
//	│  BODEGA: Bodega de cabecera                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Bodega | P.Unit | Desc% | Total    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: TOTAL DEL DOCUMENTO                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Auditoría (creado/aprobado/confirmado por)          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa workflow.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDocumentPDF genera el comprobante y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDocumentPDF(
	_ context.Context,
	doc *entity.Document,
	counterpartyName string,
	lines []workflow.DocumentLineForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTitle(doc), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(counterpartyRow(doc, counterpartyName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(doc, lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(auditFooterRow(doc))

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func docTitle(doc *entity.Document) string {
	if doc.Kind == entity.KindImport {
		return "ACTA DE RECEPCIÓN DE MERCANCÍA"
	}
	return "NOTA DE DESPACHO DE MERCANCÍA"
}

// headerRow: tipo de comprobante (izq) y código + fecha (der).
func headerRow(doc *entity.Document) core.Row {
	fecha := doc.CreatedAt.Format("02/01/2006")
	if doc.ConfirmedAt != nil {
		fecha = doc.ConfirmedAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(docTitle(doc), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Origen: "+doc.Type, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 4,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// counterpartyRow: contraparte (proveedor o cliente) + bodega de cabecera.
func counterpartyRow(doc *entity.Document, counterpartyName string) core.Row {
	label := "PROVEEDOR"
	if doc.Kind == entity.KindExport {
		label = "CLIENTE"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(counterpartyName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Bodega: "+doc.WarehouseID, props.Text{
				Size: 8, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("Bodega", 2, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea del documento.
func tableDetailRows(doc *entity.Document, lines []workflow.DocumentLineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.EffectiveWarehouse(doc.WarehouseID),
				props.Text{Size: 7, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(l.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(l.Total().StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: total del documento alineado a la derecha.
func totalsRow(doc *entity.Document) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL DEL DOCUMENTO:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(doc.Total().StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// auditFooterRow: cadena de auditoría de la máquina de estados.
func auditFooterRow(doc *entity.Document) core.Row {
	confirmado := "—"
	if doc.ConfirmedAt != nil {
		confirmado = fmt.Sprintf("%s el %s", doc.ConfirmedBy, doc.ConfirmedAt.Format("02/01/2006 15:04"))
	}
	aprobado := "—"
	if doc.ApprovedAt != nil {
		aprobado = fmt.Sprintf("%s el %s", doc.ApprovedBy, doc.ApprovedAt.Format("02/01/2006 15:04"))
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("AUDITORÍA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Creado por: %s el %s",
				doc.CreatedBy, doc.CreatedAt.Format("02/01/2006 15:04")),
				props.Text{Size: 7.5, Top: 6, Color: colorGray}),
			text.New("Aprobado por: "+aprobado, props.Text{Size: 7.5, Top: 10, Color: colorGray}),
			text.New("Confirmado por: "+confirmado, props.Text{Size: 7.5, Top: 14, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
