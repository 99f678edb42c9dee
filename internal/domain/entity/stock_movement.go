package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de movimiento confirmado.
const (
	MovementImport = "IMPORT" // entrada confirmada
	MovementExport = "EXPORT" // salida confirmada
)

// StockMovement es el registro de auditoría de cada mutación del ledger.
// Se escribe exactamente una fila por línea al confirmar un documento, en la
// misma transacción. La suma de Quantity por (producto, bodega) reconcilia
// con StockCell.Quantity en todo momento.
type StockMovement struct {
	ID          string
	DocumentID  string
	ProductID   string
	WarehouseID string
	Kind        string          // IMPORT | EXPORT
	Quantity    decimal.Decimal // positiva en entradas, negativa en salidas
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
	CreatedBy   string
}
