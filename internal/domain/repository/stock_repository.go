package repository

import "github.com/jhoicas/Almacen-api/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar celdas de stock
// por (producto, bodega). Las operaciones de bloqueo solo tienen sentido
// dentro de una transacción (repos atados a la tx del TxRunner).
type StockRepository interface {
	// Get devuelve la celda; si no existe, una celda con cantidad 0.
	Get(productID, warehouseID string) (*entity.StockCell, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(productID, warehouseID string) (*entity.StockCell, error)
	// LockAll bloquea todas las celdas en orden estable (producto, bodega)
	// y las devuelve en ese mismo orden. Celdas ausentes llegan con cantidad 0.
	LockAll(keys []entity.CellKey) ([]*entity.StockCell, error)
	// Upsert inserta o actualiza la celda.
	Upsert(cell *entity.StockCell) error

	ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockCell, error)
	ListByProduct(productID string) ([]*entity.StockCell, error)
	// ListBelowMin devuelve las celdas con cantidad por debajo de su mínimo
	// sugerido. warehouseID vacío considera todas las bodegas.
	ListBelowMin(warehouseID string) ([]*entity.StockCell, error)
}
