package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func setup(t *testing.T, stock int64) (*memory.Store, *ledger.UseCase, *orders.PlaceOrderUseCase) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.WarehouseRepo().Create(&entity.Warehouse{ID: "w1", Name: "Central"}))
	require.NoError(t, store.ProductRepo().Create(&entity.Product{
		ID: "p1", SKU: "SKU-1", Name: "Café", Price: decimal.NewFromInt(25),
	}))
	require.NoError(t, store.CustomerRepo().Create(&entity.Customer{ID: "c1", Name: "Tienda"}))
	if stock > 0 {
		require.NoError(t, store.StockRepo().Upsert(&entity.StockCell{
			ProductID: "p1", WarehouseID: "w1", Quantity: decimal.NewFromInt(stock),
		}))
	}

	ledgerUC := ledger.NewUseCase(store.StockRepo(), store.MovementRepo())
	exports := workflow.NewExportUseCase(
		memory.NewTxRunner(store), store.DocumentRepo(), store.ProductRepo(),
		store.WarehouseRepo(), store.CustomerRepo(), ledgerUC, nil,
	)
	return store, ledgerUC, orders.NewPlaceOrderUseCase(exports)
}

func TestPlaceOrder_CheckoutCompleto(t *testing.T) {
	_, ledgerUC, uc := setup(t, 50)

	doc, err := uc.PlaceOrder(context.Background(), "vendedor-1", dto.PlaceOrderRequest{
		WarehouseID: "w1",
		CustomerID:  "c1",
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusExported, doc.Status, "el checkout deja el documento confirmado")
	assert.Equal(t, entity.ExportTypeOrder, doc.Type)
	assert.Equal(t, "vendedor-1", doc.CreatedBy)
	assert.Equal(t, "vendedor-1", doc.ConfirmedBy, "el mismo actor crea, aprueba y confirma")
	require.Len(t, doc.Lines, 1)
	assert.True(t, doc.Lines[0].UnitPrice.Equal(decimal.NewFromInt(25)), "sin precio el ítem toma el de catálogo")

	qty, err := ledgerUC.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(30)), "50 - 20 debe dejar 30, quedó %s", qty)
}

func TestPlaceOrder_StockInsuficiente_PropagaElError(t *testing.T) {
	store, ledgerUC, uc := setup(t, 5)

	_, err := uc.PlaceOrder(context.Background(), "vendedor-1", dto.PlaceOrderRequest{
		WarehouseID:  "w1",
		CustomerName: "Cliente de mostrador",
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", Quantity: decimal.NewFromInt(20)},
		},
	})
	require.Error(t, err, "el pedido nunca se descarta en silencio")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(5)))

	// El documento queda en APPROVED a la espera de reposición.
	docs, err := store.DocumentRepo().Search(repository.DocumentFilter{
		Kind:   entity.KindExport,
		Status: entity.StatusApproved,
	})
	require.NoError(t, err)
	require.Len(t, docs, 1, "el pedido fallido queda aprobado, no descartado")
	assert.Equal(t, entity.ExportTypeOrder, docs[0].Type)

	qty, err := ledgerUC.Get("p1", "w1")
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.NewFromInt(5)), "el stock no debe cambiar")
}

func TestPlaceOrder_SinItems(t *testing.T) {
	_, _, uc := setup(t, 50)

	_, err := uc.PlaceOrder(context.Background(), "vendedor-1", dto.PlaceOrderRequest{
		WarehouseID: "w1",
		CustomerID:  "c1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un pedido sin ítems es inválido")
}
