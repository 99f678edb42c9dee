package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func newLedger() (*memory.Store, *ledger.UseCase) {
	store := memory.NewStore()
	return store, ledger.NewUseCase(store.StockRepo(), store.MovementRepo())
}

func line(productID, warehouseID string, qty int64) ledger.Line {
	return ledger.Line{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.NewFromInt(qty),
		UnitPrice:   decimal.NewFromInt(10),
	}
}

func TestIncrease_CreaCeldaPerezosamente(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	qty, err := uc.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, qty.IsZero(), "una celda inexistente se lee como cero")

	err = uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1",
		[]ledger.Line{line("p1", "w1", 15)}, now)
	require.NoError(t, err)

	qty, err = uc.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(15)), "la primera entrada crea la celda con la cantidad sumada")
}

func TestIncrease_AgrupaLineasRepetidas(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	// Un documento puede repetir el mismo producto en la misma bodega.
	err := uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1",
		[]ledger.Line{line("p1", "w1", 5), line("p1", "w1", 7)}, now)
	require.NoError(t, err)

	qty, err := uc.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(12)), "5 + 7 sobre la misma celda deben sumar 12")

	movs, err := store.MovementRepo().ListByDocument("doc-1")
	require.NoError(t, err)
	assert.Len(t, movs, 2, "el diario conserva una fila por línea, no por celda")
}

func TestDecreaseAll_LineasRepetidasSeVerificanJuntas(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	require.NoError(t, uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-in", "u1",
		[]ledger.Line{line("p1", "w1", 10)}, now))

	// 6 + 6 = 12 contra 10 disponibles: debe fallar aunque cada línea quepa sola.
	err := uc.DecreaseAllInTx(store.StockRepo(), store.MovementRepo(), "doc-out", "u1",
		[]ledger.Line{line("p1", "w1", 6), line("p1", "w1", 6)}, now)
	require.Error(t, err)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(12)), "la verificación es sobre el total agrupado")

	qty, err := uc.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(10)), "nada debe haberse descontado")
}

func TestDecreaseAll_MultiplesCeldas_NoEscribeParcial(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	require.NoError(t, uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-in", "u1",
		[]ledger.Line{line("p1", "w1", 100), line("p2", "w1", 3)}, now))

	err := uc.DecreaseAllInTx(store.StockRepo(), store.MovementRepo(), "doc-out", "u1",
		[]ledger.Line{line("p1", "w1", 50), line("p2", "w1", 9)}, now)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p1, err := uc.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, p1.Equal(decimal.NewFromInt(100)), "la celda suficiente no debe tocarse si otra falla")
	p2, err := uc.Get("p2", "w1")
	require.NoError(t, err)
	assert.True(t, p2.Equal(decimal.NewFromInt(3)))
}

func TestMutaciones_EntradaInvalida(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	err := uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1", nil, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas no hay nada que aplicar")

	err = uc.DecreaseAllInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1",
		[]ledger.Line{line("p1", "", 5)}, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una línea sin bodega es inválida")

	err = uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1",
		[]ledger.Line{line("p1", "w1", 0)}, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad no positiva es inválida")
}

func TestTotalByProduct_SumaTodasLasBodegas(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	require.NoError(t, uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1",
		[]ledger.Line{line("p1", "w1", 30), line("p1", "w2", 12)}, now))

	total, byWarehouse, err := uc.TotalByProduct("p1")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(42)))
	require.Len(t, byWarehouse, 2)
	assert.True(t, byWarehouse["w1"].Equal(decimal.NewFromInt(30)))
	assert.True(t, byWarehouse["w2"].Equal(decimal.NewFromInt(12)))
}

func TestHasAvailable(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	require.NoError(t, uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1",
		[]ledger.Line{line("p1", "w1", 10)}, now))

	ok, available, err := uc.HasAvailable("p1", "w1", decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, ok, "10 disponibles alcanzan para 10 solicitadas")
	assert.True(t, available.Equal(decimal.NewFromInt(10)))

	ok, _, err = uc.HasAvailable("p1", "w1", decimal.NewFromInt(11))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, available, err = uc.HasAvailable("p-nunca-visto", "w1", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.False(t, ok, "una celda inexistente no tiene disponibilidad")
	assert.True(t, available.IsZero())
}

func TestBelowMin_SugiereReposicion(t *testing.T) {
	store, uc := newLedger()

	// Celdas sembradas directamente con mínimos y máximos definidos.
	require.NoError(t, store.StockRepo().Upsert(&entity.StockCell{
		ProductID: "p1", WarehouseID: "w1",
		Quantity: decimal.NewFromInt(2), MinStock: decimal.NewFromInt(10), MaxStock: decimal.NewFromInt(50),
	}))
	require.NoError(t, store.StockRepo().Upsert(&entity.StockCell{
		ProductID: "p2", WarehouseID: "w1",
		Quantity: decimal.NewFromInt(3), MinStock: decimal.NewFromInt(10),
	}))
	require.NoError(t, store.StockRepo().Upsert(&entity.StockCell{
		ProductID: "p3", WarehouseID: "w1",
		Quantity: decimal.NewFromInt(99), MinStock: decimal.NewFromInt(10),
	}))
	require.NoError(t, store.StockRepo().Upsert(&entity.StockCell{
		ProductID: "p4", WarehouseID: "w1",
		Quantity: decimal.Zero,
	}))

	cells, err := uc.BelowMin("")
	require.NoError(t, err)
	require.Len(t, cells, 2, "solo cuentan las celdas con mínimo definido y por debajo de él")

	byProduct := map[string]decimal.Decimal{}
	for _, c := range cells {
		byProduct[c.ProductID] = c.SuggestedQty
	}
	assert.True(t, byProduct["p1"].Equal(decimal.NewFromInt(48)), "con máximo definido se repone hasta el máximo: 50 - 2")
	assert.True(t, byProduct["p2"].Equal(decimal.NewFromInt(17)), "sin máximo se repone hasta el doble del mínimo: 20 - 3")
}

func TestSnapshot_PaginaPorBodega(t *testing.T) {
	store, uc := newLedger()
	now := time.Now()

	require.NoError(t, uc.IncreaseInTx(store.StockRepo(), store.MovementRepo(), "doc-1", "u1",
		[]ledger.Line{line("p1", "w1", 1), line("p2", "w1", 2), line("p3", "w1", 3), line("p1", "w2", 9)}, now))

	page, err := uc.Snapshot("w1", 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := uc.Snapshot("w1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1, "la tercera celda queda en la segunda página")
}
