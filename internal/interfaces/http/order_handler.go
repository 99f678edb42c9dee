package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/orders"
)

// OrderHandler maneja la toma de pedidos (protegido).
type OrderHandler struct {
	uc *orders.PlaceOrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.PlaceOrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PlaceOrder godoc
// @Summary      Tomar pedido: crear, aprobar y confirmar una salida ORDER
// @Description  Flujo completo de checkout en una sola llamada. Si el stock
//               no alcanza responde 409 y el documento queda en APPROVED a la
//               espera de reposición.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PlaceOrderRequest  true  "warehouse_id, customer_id o customer_name, items"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockConflictResponse
// @Router       /api/orders [post]
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.PlaceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.PlaceOrder(c.Context(), userID, in)
	if err != nil {
		return respondDocumentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}
