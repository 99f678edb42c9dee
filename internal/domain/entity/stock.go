package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellKey identifica la celda (producto, bodega), la unidad de consistencia
// del ledger de stock.
type CellKey struct {
	ProductID   string
	WarehouseID string
}

// Less define el orden estable (producto, bodega) usado para bloquear varias
// celdas sin interbloqueo entre confirmaciones concurrentes.
func (k CellKey) Less(o CellKey) bool {
	if k.ProductID != o.ProductID {
		return k.ProductID < o.ProductID
	}
	return k.WarehouseID < o.WarehouseID
}

// StockCell es la cantidad disponible de un producto en una bodega. Se crea
// perezosamente la primera vez que se confirma una entrada y nunca se borra.
// MinStock/MaxStock son límites sugeridos (reposición); no se aplican al
// escribir. Quantity nunca es negativa.
type StockCell struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	MinStock    decimal.Decimal
	MaxStock    decimal.Decimal
	UpdatedAt   time.Time
}

// Key devuelve la clave de la celda.
func (c *StockCell) Key() CellKey {
	return CellKey{ProductID: c.ProductID, WarehouseID: c.WarehouseID}
}
