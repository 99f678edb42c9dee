package orders

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PlaceOrderUseCase es el colaborador de toma de pedidos: como parte del
// checkout crea una salida tipo ORDER, la aprueba y la confirma. Si la
// confirmación falla por stock insuficiente el error se propaga intacto al
// caller (nunca se descarta el pedido en silencio); el documento queda en
// APPROVED a la espera de reposición.
type PlaceOrderUseCase struct {
	exports *workflow.UseCase
}

// NewPlaceOrderUseCase construye el caso de uso sobre el workflow de salidas.
func NewPlaceOrderUseCase(exports *workflow.UseCase) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{exports: exports}
}

// PlaceOrder ejecuta el flujo completo crear → aprobar → confirmar.
func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, actorID string, in dto.PlaceOrderRequest) (*dto.DocumentResponse, error) {
	lines := make([]dto.DocumentLineRequest, 0, len(in.Items))
	for _, item := range in.Items {
		lines = append(lines, dto.DocumentLineRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	doc, err := uc.exports.Create(ctx, actorID, dto.CreateDocumentRequest{
		WarehouseID:  in.WarehouseID,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Type:         entity.ExportTypeOrder,
		Note:         in.Note,
		Lines:        lines,
	})
	if err != nil {
		return nil, err
	}
	if _, err := uc.exports.Approve(ctx, actorID, doc.ID); err != nil {
		return nil, err
	}
	return uc.exports.Confirm(ctx, actorID, doc.ID)
}
