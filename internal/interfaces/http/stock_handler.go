package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ledger"
)

// StockHandler expone las consultas del ledger de stock (protegido).
type StockHandler struct {
	uc *ledger.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetByProduct godoc
// @Summary      Stock de un producto: total y desglose por bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductStockResponse
// @Router       /api/stock/products/{productId} [get]
func (h *StockHandler) GetByProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	total, byWarehouse, err := h.uc.TotalByProduct(productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ProductStockResponse{
		ProductID:   productID,
		Total:       total,
		ByWarehouse: byWarehouse,
	})
}

// Snapshot godoc
// @Summary      Snapshot de celdas de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouseId  path   string  true   "ID de la bodega"
// @Param        limit        query  int     false  "máximo de celdas (default 100)"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {array}  dto.StockCellResponse
// @Router       /api/stock/warehouses/{warehouseId} [get]
func (h *StockHandler) Snapshot(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	cells, err := h.uc.Snapshot(c.Params("warehouseId"), limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockCellResponse, 0, len(cells))
	for _, cell := range cells {
		out = append(out, dto.StockCellResponse{
			ProductID:   cell.ProductID,
			WarehouseID: cell.WarehouseID,
			Quantity:    cell.Quantity,
			MinStock:    cell.MinStock,
			MaxStock:    cell.MaxStock,
			UpdatedAt:   cell.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "cells": out})
}

// Availability godoc
// @Summary      Pre-verificación consultiva de disponibilidad
// @Description  Indica si hoy alcanza el stock para la cantidad pedida. Es
//               solo informativa: la verificación vinculante ocurre dentro de
//               la transacción de confirmación.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true  "ID del producto"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Param        qty           query  string  true  "cantidad solicitada"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/availability [get]
func (h *StockHandler) Availability(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	qtyStr := c.Query("qty")
	if productID == "" || warehouseID == "" || qtyStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, warehouse_id y qty son requeridos"})
	}
	qty, err := decimal.NewFromString(qtyStr)
	if err != nil || !qty.IsPositive() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty debe ser un número positivo"})
	}
	ok, available, err := h.uc.HasAvailable(productID, warehouseID, qty)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.AvailabilityResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Requested:   qty,
		Available:   available,
		Sufficient:  ok,
	})
}

// BelowMin godoc
// @Summary      Celdas por debajo de su stock mínimo con cantidad sugerida
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega. Vacío = todas."
// @Success      200  {array}  dto.BelowMinCell
// @Router       /api/stock/below-min [get]
func (h *StockHandler) BelowMin(c *fiber.Ctx) error {
	cells, err := h.uc.BelowMin(c.Query("warehouse_id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"total": len(cells), "cells": cells})
}

// Movements godoc
// @Summary      Diario de movimientos confirmados de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        from        query  string  false  "RFC3339"
// @Param        to          query  string  false  "RFC3339"
// @Param        limit       query  int     false  "máximo de filas (default 50)"
// @Param        offset      query  int     false  "desplazamiento"
// @Success      200  {array}  dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			to = &t
		}
	}
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	movements, err := h.uc.MovementsByProduct(productID, from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:          m.ID,
			DocumentID:  m.DocumentID,
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			Kind:        m.Kind,
			Quantity:    m.Quantity,
			UnitPrice:   m.UnitPrice,
			CreatedAt:   m.CreatedAt,
			CreatedBy:   m.CreatedBy,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}
