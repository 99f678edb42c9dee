package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func TestTxRunner_RevierteTodoSiElCallbackFalla(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	require.NoError(t, store.StockRepo().Upsert(&entity.StockCell{
		ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(10),
	}))

	boom := errors.New("fallo a mitad de camino")
	err := runner.Run(context.Background(), func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Escrituras sobre los tres agregados antes de fallar.
		require.NoError(t, docRepo.Create(&entity.Document{
			ID: "doc-1", Kind: entity.KindImport, Status: entity.StatusPending, CreatedAt: time.Now(),
		}))
		require.NoError(t, stockRepo.Upsert(&entity.StockCell{
			ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(999),
		}))
		require.NoError(t, movRepo.Create(&entity.StockMovement{
			ID: "mov-1", DocumentID: "doc-1", ProductID: "p1", WarehouseID: "w1",
			Kind: entity.MovementImport, Quantity: decimal.NewFromInt(989),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom, "el error del callback se propaga intacto")

	doc, err := store.DocumentRepo().GetByID("doc-1")
	require.NoError(t, err)
	assert.Nil(t, doc, "el documento creado dentro de la tx fallida no debe existir")

	cell, err := store.StockRepo().Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, cell.Quantity.Equal(decimal.NewFromInt(10)), "el stock debe volver al valor previo")

	movs, err := store.MovementRepo().ListByDocument("doc-1")
	require.NoError(t, err)
	assert.Empty(t, movs, "los movimientos de la tx fallida no deben quedar")
}

func TestTxRunner_ConfirmaSiElCallbackTermina(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	err := runner.Run(context.Background(), func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		return stockRepo.Upsert(&entity.StockCell{
			ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(7),
		})
	})
	require.NoError(t, err)

	cell, err := store.StockRepo().Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, cell.Quantity.Equal(decimal.NewFromInt(7)))
}

func TestSetStatusIf_EsCondicional(t *testing.T) {
	store := memory.NewStore()
	repo := store.DocumentRepo()
	now := time.Now()

	require.NoError(t, repo.Create(&entity.Document{
		ID: "doc-1", Kind: entity.KindImport, Status: entity.StatusPending, CreatedAt: now,
	}))

	ok, err := repo.SetStatusIf("doc-1", entity.StatusApproved, entity.StatusImported, "u1", now)
	require.NoError(t, err)
	assert.False(t, ok, "el estado actual no coincide con from, no debe cambiar")

	ok, err = repo.SetStatusIf("doc-1", entity.StatusPending, entity.StatusApproved, "u1", now)
	require.NoError(t, err)
	assert.True(t, ok)

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, doc.Status)
	assert.Equal(t, "u1", doc.ApprovedBy)
	require.NotNil(t, doc.ApprovedAt)

	// Segunda aplicación de la misma transición: pierde.
	ok, err = repo.SetStatusIf("doc-1", entity.StatusPending, entity.StatusApproved, "u2", now)
	require.NoError(t, err)
	assert.False(t, ok, "la transición es de una sola vez")
}

func TestSetStatusIf_CancelledCompartesColumnasDeRechazo(t *testing.T) {
	store := memory.NewStore()
	repo := store.DocumentRepo()
	now := time.Now()

	require.NoError(t, repo.Create(&entity.Document{
		ID: "doc-1", Kind: entity.KindExport, Status: entity.StatusPending, CreatedAt: now,
	}))
	ok, err := repo.SetStatusIf("doc-1", entity.StatusPending, entity.StatusCancelled, "u1", now)
	require.NoError(t, err)
	require.True(t, ok)

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, doc.Status)
	assert.Equal(t, "u1", doc.RejectedBy, "cancelar registra la auditoría en las columnas de rechazo")
	require.NotNil(t, doc.RejectedAt)
}

func TestGetByID_DevuelveCopia(t *testing.T) {
	store := memory.NewStore()
	repo := store.DocumentRepo()

	require.NoError(t, repo.Create(&entity.Document{
		ID: "doc-1", Kind: entity.KindImport, Status: entity.StatusPending, Note: "original",
		Lines: []entity.DocumentLine{{ID: "l1", ProductID: "p1", Quantity: decimal.NewFromInt(1)}},
	}))

	doc, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	doc.Note = "mutado por el caller"
	doc.Lines[0].Quantity = decimal.NewFromInt(999)

	fresh, err := repo.GetByID("doc-1")
	require.NoError(t, err)
	assert.Equal(t, "original", fresh.Note, "mutar la copia devuelta no debe afectar al store")
	assert.True(t, fresh.Lines[0].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestStockUpsert_ConservaElInstanteDeLaTransaccion(t *testing.T) {
	store := memory.NewStore()
	repo := store.StockRepo()

	sellado := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, repo.Upsert(&entity.StockCell{
		ProductID: "p1", WarehouseID: "w1",
		Quantity: decimal.NewFromInt(12), UpdatedAt: sellado,
	}))

	cell, err := repo.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, cell.UpdatedAt.Equal(sellado),
		"la celda debe conservar el instante con que el ledger selló la confirmación")
}

func TestProductRepo_SKUDuplicado(t *testing.T) {
	store := memory.NewStore()
	repo := store.ProductRepo()

	require.NoError(t, repo.Create(&entity.Product{ID: "p1", SKU: "SKU-1", Name: "Café"}))
	err := repo.Create(&entity.Product{ID: "p2", SKU: "SKU-1", Name: "Otro café"})
	assert.Error(t, err, "el SKU es único")
}
