package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del documento. PENDING es el estado inicial; IMPORTED/EXPORTED son
// los terminales de confirmación (el único punto que muta el stock);
// REJECTED/CANCELLED son terminales sin efecto sobre el stock.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusImported  = "IMPORTED"
	StatusExported  = "EXPORTED"
	StatusRejected  = "REJECTED"
	StatusCancelled = "CANCELLED"
)

// Clase de documento: entrada (recepción de mercancía) o salida (despacho).
const (
	KindImport = "IMPORT"
	KindExport = "EXPORT"
)

// Origen del documento según su clase.
const (
	ImportTypeSupplier = "SUPPLIER" // compra a proveedor
	ImportTypeInternal = "INTERNAL" // traslado entre bodegas
	ImportTypeStaff    = "STAFF"    // devolución de personal

	ExportTypeOrder    = "ORDER"    // pedido de cliente
	ExportTypeInternal = "INTERNAL" // traslado entre bodegas
	ExportTypeStaff    = "STAFF"    // entrega a personal
)

// Document es un documento de entrada o salida de mercancía que avanza por la
// máquina de estados de aprobación. Cada transición registra actor y fecha.
// RejectedBy/RejectedAt se usan tanto para REJECTED como para CANCELLED.
type Document struct {
	ID           string
	Code         string
	Kind         string // IMPORT | EXPORT
	Type         string // SUPPLIER/INTERNAL/STAFF (entradas) u ORDER/INTERNAL/STAFF (salidas)
	WarehouseID  string // bodega de cabecera
	SupplierID   string // contraparte en entradas
	CustomerID   string // contraparte en salidas
	CustomerName string // identidad alternativa cuando la salida no tiene cliente registrado
	Status       string
	Note         string
	Attachments  []string
	CreatedBy    string
	CreatedAt    time.Time
	ApprovedBy   string
	ApprovedAt   *time.Time
	ConfirmedBy  string
	ConfirmedAt  *time.Time
	RejectedBy   string
	RejectedAt   *time.Time
	Lines        []DocumentLine
}

// DocumentLine es una línea del documento. Las líneas son inmutables una vez
// el documento sale de PENDING; actualizar un documento PENDING las reemplaza
// todas.
type DocumentLine struct {
	ID          string
	DocumentID  string
	ProductID   string
	WarehouseID string // bodega de la línea; por defecto la de cabecera
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal // 0–100
}

// CanTransition indica si la arista from→to pertenece al grafo fijo:
// PENDING→{APPROVED, REJECTED, CANCELLED} y APPROVED→{IMPORTED, EXPORTED}.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCancelled
	case StatusApproved:
		return to == StatusImported || to == StatusExported
	}
	return false
}

// ConfirmedStatus devuelve el estado terminal de confirmación para la clase.
func ConfirmedStatus(kind string) string {
	if kind == KindImport {
		return StatusImported
	}
	return StatusExported
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(status string) bool {
	switch status {
	case StatusImported, StatusExported, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// EffectiveWarehouse devuelve la bodega de la línea, o la de cabecera si la
// línea no especifica una.
func (l DocumentLine) EffectiveWarehouse(headerWarehouseID string) string {
	if l.WarehouseID != "" {
		return l.WarehouseID
	}
	return headerWarehouseID
}

// Total calcula el total de la línea: cantidad · precio · (1 − descuento/100).
func (l DocumentLine) Total() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(l.DiscountPct).Div(hundred)
	return l.Quantity.Mul(l.UnitPrice).Mul(factor)
}

// Total calcula el total del documento al momento de lectura. No se persiste.
func (d *Document) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// CounterpartyID devuelve la contraparte del documento según su clase.
func (d *Document) CounterpartyID() string {
	if d.Kind == KindImport {
		return d.SupplierID
	}
	return d.CustomerID
}
