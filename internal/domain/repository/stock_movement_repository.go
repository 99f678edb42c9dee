package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockMovementRepository define el puerto del diario de movimientos
// confirmados (solo inserción; el diario nunca se edita).
type StockMovementRepository interface {
	Create(m *entity.StockMovement) error
	ListByDocument(documentID string) ([]*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// SumByCell suma las cantidades firmadas del diario para la celda.
	// Debe coincidir con StockCell.Quantity (invariante de reconciliación).
	SumByCell(productID, warehouseID string) (decimal.Decimal, error)
}
