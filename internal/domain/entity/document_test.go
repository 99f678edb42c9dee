package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestCanTransition_GrafoFijo(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{entity.StatusPending, entity.StatusApproved, true},
		{entity.StatusPending, entity.StatusRejected, true},
		{entity.StatusPending, entity.StatusCancelled, true},
		{entity.StatusPending, entity.StatusImported, false},
		{entity.StatusPending, entity.StatusExported, false},
		{entity.StatusApproved, entity.StatusImported, true},
		{entity.StatusApproved, entity.StatusExported, true},
		{entity.StatusApproved, entity.StatusRejected, false},
		{entity.StatusApproved, entity.StatusCancelled, false},
		{entity.StatusApproved, entity.StatusPending, false},
		{entity.StatusImported, entity.StatusExported, false},
		{entity.StatusExported, entity.StatusApproved, false},
		{entity.StatusRejected, entity.StatusApproved, false},
		{entity.StatusCancelled, entity.StatusApproved, false},
		{"", entity.StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, entity.CanTransition(tc.from, tc.to),
			"%s → %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, entity.IsTerminal(entity.StatusPending))
	assert.False(t, entity.IsTerminal(entity.StatusApproved))
	assert.True(t, entity.IsTerminal(entity.StatusImported))
	assert.True(t, entity.IsTerminal(entity.StatusExported))
	assert.True(t, entity.IsTerminal(entity.StatusRejected))
	assert.True(t, entity.IsTerminal(entity.StatusCancelled))
}

func TestConfirmedStatus_PorClase(t *testing.T) {
	assert.Equal(t, entity.StatusImported, entity.ConfirmedStatus(entity.KindImport))
	assert.Equal(t, entity.StatusExported, entity.ConfirmedStatus(entity.KindExport))
}

func TestLineTotal_ConDescuento(t *testing.T) {
	l := entity.DocumentLine{
		Quantity:    decimal.NewFromInt(4),
		UnitPrice:   decimal.NewFromInt(25),
		DiscountPct: decimal.NewFromInt(10),
	}
	assert.True(t, l.Total().Equal(decimal.NewFromInt(90)), "4 x 25 con 10%% de descuento = 90, dio %s", l.Total())

	sinDescuento := entity.DocumentLine{Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(7)}
	assert.True(t, sinDescuento.Total().Equal(decimal.NewFromInt(21)))

	gratis := entity.DocumentLine{
		Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(100), DiscountPct: decimal.NewFromInt(100),
	}
	assert.True(t, gratis.Total().IsZero(), "100%% de descuento anula la línea")
}

func TestDocumentTotal_SumaLineas(t *testing.T) {
	d := &entity.Document{
		Lines: []entity.DocumentLine{
			{Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(10)},
			{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50), DiscountPct: decimal.NewFromInt(50)},
		},
	}
	assert.True(t, d.Total().Equal(decimal.NewFromInt(45)), "20 + 25 = 45, dio %s", d.Total())
}

func TestEffectiveWarehouse(t *testing.T) {
	conBodega := entity.DocumentLine{WarehouseID: "wh-norte"}
	assert.Equal(t, "wh-norte", conBodega.EffectiveWarehouse("wh-central"), "la bodega de línea manda")

	sinBodega := entity.DocumentLine{}
	assert.Equal(t, "wh-central", sinBodega.EffectiveWarehouse("wh-central"), "sin bodega propia hereda la de cabecera")
}

func TestCounterpartyID_PorClase(t *testing.T) {
	imp := &entity.Document{Kind: entity.KindImport, SupplierID: "sup-1", CustomerID: "cus-1"}
	assert.Equal(t, "sup-1", imp.CounterpartyID())

	exp := &entity.Document{Kind: entity.KindExport, SupplierID: "sup-1", CustomerID: "cus-1"}
	assert.Equal(t, "cus-1", exp.CounterpartyID())
}

func TestCellKey_OrdenEstable(t *testing.T) {
	a := entity.CellKey{ProductID: "p1", WarehouseID: "w2"}
	b := entity.CellKey{ProductID: "p2", WarehouseID: "w1"}
	c := entity.CellKey{ProductID: "p1", WarehouseID: "w1"}

	assert.True(t, a.Less(b), "primero ordena por producto")
	assert.True(t, c.Less(a), "a producto igual, ordena por bodega")
	assert.False(t, a.Less(a), "el orden es estricto")
}
