package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// Lado de lectura del ledger, consumido por reporting y pronóstico.

// TotalByProduct devuelve el total disponible del producto y su desglose por
// bodega.
func (uc *UseCase) TotalByProduct(productID string) (decimal.Decimal, map[string]decimal.Decimal, error) {
	byWarehouse, err := uc.GetByProduct(productID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	total := decimal.Zero
	for _, qty := range byWarehouse {
		total = total.Add(qty)
	}
	return total, byWarehouse, nil
}

// HasAvailable indica si hay al menos qty unidades del producto en la bodega.
// Es una pre-verificación barata y consultiva: la verificación autoritativa
// es DecreaseAllInTx bajo bloqueo de fila.
func (uc *UseCase) HasAvailable(productID, warehouseID string, qty decimal.Decimal) (bool, decimal.Decimal, error) {
	available, err := uc.Get(productID, warehouseID)
	if err != nil {
		return false, decimal.Zero, err
	}
	return available.GreaterThanOrEqual(qty), available, nil
}

// Snapshot devuelve las celdas de una bodega.
func (uc *UseCase) Snapshot(warehouseID string, limit, offset int) ([]*entity.StockCell, error) {
	return uc.stockRepo.ListByWarehouse(warehouseID, limit, offset)
}

// BelowMin devuelve las celdas por debajo de su mínimo sugerido, con la
// cantidad de pedido propuesta para volver al máximo (o al doble del mínimo
// si no hay máximo definido). warehouseID vacío considera todas las bodegas.
func (uc *UseCase) BelowMin(warehouseID string) ([]dto.BelowMinCell, error) {
	cells, err := uc.stockRepo.ListBelowMin(warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BelowMinCell, 0, len(cells))
	for _, c := range cells {
		target := c.MaxStock
		if !target.GreaterThan(c.MinStock) {
			target = c.MinStock.Mul(decimal.NewFromInt(2))
		}
		suggested := target.Sub(c.Quantity)
		if suggested.LessThan(decimal.Zero) {
			suggested = decimal.Zero
		}
		out = append(out, dto.BelowMinCell{
			ProductID:    c.ProductID,
			WarehouseID:  c.WarehouseID,
			Quantity:     c.Quantity,
			MinStock:     c.MinStock,
			MaxStock:     c.MaxStock,
			SuggestedQty: suggested,
		})
	}
	return out, nil
}

// MovementsByProduct lista el diario de movimientos confirmados del producto.
func (uc *UseCase) MovementsByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}
