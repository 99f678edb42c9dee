package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// El stock se maneja por bodega en StockCell, nunca aquí.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta por defecto
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
