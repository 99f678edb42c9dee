package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Line es una mutación solicitada sobre una celda (producto, bodega).
type Line struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// UseCase es el ledger de stock: lecturas por celda/producto/bodega y las dos
// primitivas de mutación (aumentar, descontar todo-o-nada). Las mutaciones
// solo se ejecutan dentro de la transacción del caller (repos atados a la tx),
// que es siempre la confirmación de un documento.
type UseCase struct {
	stockRepo repository.StockRepository
	movRepo   repository.StockMovementRepository
}

// NewUseCase construye el ledger con repos atados al pool (solo lecturas).
func NewUseCase(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository) *UseCase {
	return &UseCase{stockRepo: stockRepo, movRepo: movRepo}
}

// Get devuelve la cantidad disponible de la celda (0 si no existe).
func (uc *UseCase) Get(productID, warehouseID string) (decimal.Decimal, error) {
	cell, err := uc.stockRepo.Get(productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return cell.Quantity, nil
}

// GetByProduct devuelve bodega → cantidad para un producto.
func (uc *UseCase) GetByProduct(productID string) (map[string]decimal.Decimal, error) {
	cells, err := uc.stockRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(cells))
	for _, c := range cells {
		out[c.WarehouseID] = c.Quantity
	}
	return out, nil
}

// GetByWarehouse devuelve producto → cantidad para una bodega.
func (uc *UseCase) GetByWarehouse(warehouseID string, limit, offset int) (map[string]decimal.Decimal, error) {
	cells, err := uc.stockRepo.ListByWarehouse(warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(cells))
	for _, c := range cells {
		out[c.ProductID] = c.Quantity
	}
	return out, nil
}

// IncreaseInTx suma cada línea a su celda usando los repos del caller (misma
// transacción). Bloquea las celdas en orden estable, crea las ausentes con
// cantidad 0 y escribe un movimiento por línea. Aumentar siempre es legal:
// nunca falla por contenido del ledger.
func (uc *UseCase) IncreaseInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	documentID, actorID string,
	lines []Line,
	now time.Time,
) error {
	keys, deltas, err := mergeByCell(lines)
	if err != nil {
		return err
	}
	cells, err := stockRepo.LockAll(keys)
	if err != nil {
		return err
	}
	for _, cell := range cells {
		cell.Quantity = cell.Quantity.Add(deltas[cell.Key()])
		cell.UpdatedAt = now
		if err := stockRepo.Upsert(cell); err != nil {
			return err
		}
	}
	return writeMovements(movRepo, documentID, actorID, entity.MovementImport, lines, now, false)
}

// DecreaseAllInTx descuenta todas las líneas o ninguna. Primero bloquea todas
// las celdas en orden estable (producto, bodega) para evitar interbloqueo con
// confirmaciones que se solapen, verifica cada línea contra ese snapshot y
// solo entonces aplica los descuentos. Si alguna celda no alcanza, retorna
// InsufficientStockError sin haber escrito nada (el caller hace rollback).
func (uc *UseCase) DecreaseAllInTx(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	documentID, actorID string,
	lines []Line,
	now time.Time,
) error {
	keys, deltas, err := mergeByCell(lines)
	if err != nil {
		return err
	}
	cells, err := stockRepo.LockAll(keys)
	if err != nil {
		return err
	}
	// Verificación completa antes de la primera escritura.
	for _, cell := range cells {
		requested := deltas[cell.Key()]
		if cell.Quantity.LessThan(requested) {
			return &domain.InsufficientStockError{
				ProductID:   cell.ProductID,
				WarehouseID: cell.WarehouseID,
				Requested:   requested,
				Available:   cell.Quantity,
			}
		}
	}
	for _, cell := range cells {
		cell.Quantity = cell.Quantity.Sub(deltas[cell.Key()])
		cell.UpdatedAt = now
		if err := stockRepo.Upsert(cell); err != nil {
			return err
		}
	}
	return writeMovements(movRepo, documentID, actorID, entity.MovementExport, lines, now, true)
}

// mergeByCell agrupa líneas por celda (un documento puede repetir el mismo
// producto en la misma bodega) y devuelve las claves en orden estable.
func mergeByCell(lines []Line) ([]entity.CellKey, map[entity.CellKey]decimal.Decimal, error) {
	if len(lines) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}
	deltas := make(map[entity.CellKey]decimal.Decimal, len(lines))
	for _, l := range lines {
		if l.ProductID == "" || l.WarehouseID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		key := entity.CellKey{ProductID: l.ProductID, WarehouseID: l.WarehouseID}
		deltas[key] = deltas[key].Add(l.Quantity)
	}
	keys := make([]entity.CellKey, 0, len(deltas))
	for k := range deltas {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys, deltas, nil
}

func writeMovements(
	movRepo repository.StockMovementRepository,
	documentID, actorID, kind string,
	lines []Line,
	now time.Time,
	negate bool,
) error {
	for _, l := range lines {
		qty := l.Quantity
		if negate {
			qty = qty.Neg()
		}
		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			DocumentID:  documentID,
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Kind:        kind,
			Quantity:    qty,
			UnitPrice:   l.UnitPrice,
			CreatedAt:   now,
			CreatedBy:   actorID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
	}
	return nil
}
