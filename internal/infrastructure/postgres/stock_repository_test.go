package postgres_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
)

// fakeStockTable implementa Querier sobre un mapa para verificar el protocolo
// de bloqueo del repo de stock sin una base de datos.
type fakeStockTable struct {
	rows   map[entity.CellKey]*entity.StockCell
	locked []entity.CellKey // claves bloqueadas con SELECT ... FOR UPDATE sobre fila real
	inits  int              // INSERT ... ON CONFLICT DO NOTHING ejecutados
}

func newFakeStockTable() *fakeStockTable {
	return &fakeStockTable{rows: make(map[entity.CellKey]*entity.StockCell)}
}

type fakeRow struct {
	err  error
	cell *entity.StockCell
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.cell.ProductID
	*dest[1].(*string) = r.cell.WarehouseID
	*dest[2].(*decimal.Decimal) = r.cell.Quantity
	*dest[3].(*decimal.Decimal) = r.cell.MinStock
	*dest[4].(*decimal.Decimal) = r.cell.MaxStock
	*dest[5].(*time.Time) = r.cell.UpdatedAt
	return nil
}

func (q *fakeStockTable) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	key := entity.CellKey{ProductID: args[0].(string), WarehouseID: args[1].(string)}
	c, ok := q.rows[key]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	if strings.Contains(sql, "FOR UPDATE") {
		q.locked = append(q.locked, key)
	}
	return fakeRow{cell: c}
}

func (q *fakeStockTable) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	key := entity.CellKey{ProductID: args[0].(string), WarehouseID: args[1].(string)}
	if strings.Contains(sql, "DO NOTHING") {
		q.inits++
		if _, ok := q.rows[key]; !ok {
			q.rows[key] = &entity.StockCell{
				ProductID: key.ProductID, WarehouseID: key.WarehouseID,
				Quantity: decimal.Zero, MinStock: decimal.Zero, MaxStock: decimal.Zero,
				UpdatedAt: time.Now(),
			}
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	q.rows[key] = &entity.StockCell{
		ProductID: key.ProductID, WarehouseID: key.WarehouseID,
		Quantity: args[2].(decimal.Decimal), MinStock: args[3].(decimal.Decimal), MaxStock: args[4].(decimal.Decimal),
		UpdatedAt: time.Now(),
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *fakeStockTable) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, errors.New("no usado en este test")
}

func TestLockAll_MaterializaYBloqueaCeldasNuevas(t *testing.T) {
	table := newFakeStockTable()
	repo := postgres.NewStockRepository(table)

	keys := []entity.CellKey{
		{ProductID: "p1", WarehouseID: "w1"},
		{ProductID: "p2", WarehouseID: "w1"},
	}
	cells, err := repo.LockAll(keys)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	// Cada celda ausente se crea en cero antes de bloquearse: sin fila real
	// bajo lock, dos transacciones que estrenan la celda leerían ambas cero.
	assert.Equal(t, 2, table.inits, "cada celda nueva debe materializarse con un insert")
	assert.Len(t, table.locked, 2, "el re-select debe bloquear una fila real por clave")
	for _, c := range cells {
		assert.True(t, c.Quantity.IsZero(), "la celda recién creada nace en cero")
		_, ok := table.rows[c.Key()]
		assert.True(t, ok, "la fila debe existir en la tabla tras LockAll")
	}
}

func TestLockAll_CeldaExistenteNoSeReinserta(t *testing.T) {
	table := newFakeStockTable()
	table.rows[entity.CellKey{ProductID: "p1", WarehouseID: "w1"}] = &entity.StockCell{
		ProductID: "p1", WarehouseID: "w1",
		Quantity: decimal.NewFromInt(40), MinStock: decimal.Zero, MaxStock: decimal.Zero,
		UpdatedAt: time.Now(),
	}
	repo := postgres.NewStockRepository(table)

	cells, err := repo.LockAll([]entity.CellKey{{ProductID: "p1", WarehouseID: "w1"}})
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.True(t, cells[0].Quantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 0, table.inits, "una celda existente se bloquea directo, sin insert")
	assert.Len(t, table.locked, 1)
}

func TestLockAll_OrdenEstablePorClave(t *testing.T) {
	table := newFakeStockTable()
	repo := postgres.NewStockRepository(table)

	keys := []entity.CellKey{
		{ProductID: "p2", WarehouseID: "w1"},
		{ProductID: "p1", WarehouseID: "w2"},
		{ProductID: "p1", WarehouseID: "w1"},
	}
	cells, err := repo.LockAll(keys)
	require.NoError(t, err)
	require.Len(t, cells, 3)

	// El orden (producto, bodega) es el que evita interbloqueos entre
	// confirmaciones que comparten celdas.
	assert.Equal(t, entity.CellKey{ProductID: "p1", WarehouseID: "w1"}, cells[0].Key())
	assert.Equal(t, entity.CellKey{ProductID: "p1", WarehouseID: "w2"}, cells[1].Key())
	assert.Equal(t, entity.CellKey{ProductID: "p2", WarehouseID: "w1"}, cells[2].Key())
	assert.Equal(t, []entity.CellKey{
		{ProductID: "p1", WarehouseID: "w1"},
		{ProductID: "p1", WarehouseID: "w2"},
		{ProductID: "p2", WarehouseID: "w1"},
	}, table.locked, "los locks se toman en el mismo orden estable")
}
