package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, warehouse_id, quantity, min_stock, max_stock, updated_at`

func scanStockCell(row pgx.Row) (*entity.StockCell, error) {
	var c entity.StockCell
	err := row.Scan(&c.ProductID, &c.WarehouseID, &c.Quantity, &c.MinStock, &c.MaxStock, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get obtiene la celda de stock; si no existe devuelve una celda con cantidad 0.
func (r *StockRepo) Get(productID, warehouseID string) (*entity.StockCell, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	c, err := scanStockCell(r.q.QueryRow(context.Background(), query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyCell(productID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene la celda y bloquea la fila (SELECT FOR UPDATE).
// Una celda ausente no tiene fila que bloquear; las mutaciones deben pasar
// por LockAll, que materializa la fila antes de bloquearla.
func (r *StockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockCell, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	c, err := scanStockCell(r.q.QueryRow(context.Background(), query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptyCell(productID, warehouseID), nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return c, nil
}

// LockAll bloquea las celdas en orden estable (producto, bodega) y las
// devuelve en ese mismo orden. El orden fijo evita interbloqueo entre
// confirmaciones concurrentes que comparten celdas. Cada clave termina con
// una fila real bloqueada: sin eso, dos transacciones que estrenan la misma
// celda leerían ambas cero y la segunda pisaría el incremento de la primera.
func (r *StockRepo) LockAll(keys []entity.CellKey) ([]*entity.StockCell, error) {
	sorted := make([]entity.CellKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	cells := make([]*entity.StockCell, 0, len(sorted))
	for _, k := range sorted {
		c, err := r.lockCell(k.ProductID, k.WarehouseID)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// lockCell bloquea la fila de la celda, creándola en cero si no existe. El
// INSERT ... ON CONFLICT DO NOTHING serializa en el índice único contra otra
// transacción que esté estrenando la misma celda; al volver del insert la
// fila ya existe (propia o ajena) y el re-SELECT la bloquea.
func (r *StockRepo) lockCell(productID, warehouseID string) (*entity.StockCell, error) {
	selectQuery := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	insertQuery := `
		INSERT INTO stock (product_id, warehouse_id, quantity, min_stock, max_stock, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	for {
		c, err := scanStockCell(r.q.QueryRow(context.Background(), selectQuery, productID, warehouseID))
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("lock stock cell: %w", err)
		}
		if _, err := r.q.Exec(context.Background(), insertQuery, productID, warehouseID); err != nil {
			return nil, fmt.Errorf("init stock cell: %w", err)
		}
	}
}

// Upsert inserta o actualiza la celda (por producto y bodega).
func (r *StockRepo) Upsert(cell *entity.StockCell) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, min_stock, max_stock, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_stock = EXCLUDED.min_stock,
		              max_stock = EXCLUDED.max_stock, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query,
		cell.ProductID, cell.WarehouseID, cell.Quantity, cell.MinStock, cell.MaxStock)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByWarehouse lista las celdas de una bodega con paginación.
func (r *StockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockCell, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE warehouse_id = $1
		ORDER BY product_id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	return collectCells(rows)
}

// ListByProduct lista las celdas de un producto en todas las bodegas.
func (r *StockRepo) ListByProduct(productID string) ([]*entity.StockCell, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1
		ORDER BY warehouse_id`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	return collectCells(rows)
}

// ListBelowMin devuelve las celdas con cantidad por debajo de su mínimo.
// warehouseID vacío considera todas las bodegas.
func (r *StockRepo) ListBelowMin(warehouseID string) ([]*entity.StockCell, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE min_stock > 0 AND quantity < min_stock`
	args := []any{}
	if warehouseID != "" {
		query += ` AND warehouse_id = $1`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY warehouse_id, product_id`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock below min: %w", err)
	}
	defer rows.Close()
	return collectCells(rows)
}

func collectCells(rows pgx.Rows) ([]*entity.StockCell, error) {
	var list []*entity.StockCell
	for rows.Next() {
		var c entity.StockCell
		if err := rows.Scan(&c.ProductID, &c.WarehouseID, &c.Quantity, &c.MinStock, &c.MaxStock, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func emptyCell(productID, warehouseID string) *entity.StockCell {
	return &entity.StockCell{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		MinStock:    decimal.Zero,
		MaxStock:    decimal.Zero,
	}
}
