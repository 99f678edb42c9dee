package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStockResponse total de un producto y su desglose por bodega.
type ProductStockResponse struct {
	ProductID   string                     `json:"product_id"`
	Total       decimal.Decimal            `json:"total"`
	ByWarehouse map[string]decimal.Decimal `json:"by_warehouse"`
}

// StockCellResponse una celda del snapshot por bodega.
type StockCellResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"min_stock"`
	MaxStock    decimal.Decimal `json:"max_stock"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// AvailabilityResponse resultado de la pre-verificación consultiva.
type AvailabilityResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Requested   decimal.Decimal `json:"requested"`
	Available   decimal.Decimal `json:"available"`
	Sufficient  bool            `json:"sufficient"`
}

// BelowMinCell celda por debajo de su mínimo sugerido.
type BelowMinCell struct {
	ProductID    string          `json:"product_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinStock     decimal.Decimal `json:"min_stock"`
	MaxStock     decimal.Decimal `json:"max_stock"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
}

// StockConflictResponse error 409 de confirmación de salida: identifica la
// celda que impidió la operación y las cantidades en juego.
type StockConflictResponse struct {
	Code        string          `json:"code"`
	Message     string          `json:"message"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Requested   decimal.Decimal `json:"requested"`
	Available   decimal.Decimal `json:"available"`
}

// StockMovementResponse fila del diario de movimientos confirmados.
type StockMovementResponse struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"document_id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Kind        string          `json:"kind"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by"`
}
