package workflow

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre la transición de
// estado del documento y la mutación del ledger. La estrategia de bloqueo
// (fila PostgreSQL o mutex en memoria) es intercambiable sin tocar el
// workflow.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// StockLedger son las dos primitivas de mutación que el workflow ejecuta al
// confirmar, siempre con los repos de la transacción en curso.
type StockLedger interface {
	IncreaseInTx(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository,
		documentID, actorID string, lines []ledger.Line, now time.Time) error
	DecreaseAllInTx(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository,
		documentID, actorID string, lines []ledger.Line, now time.Time) error
}

// SupplierTypeLookup colaborador decorativo que etiqueta el origen de un
// documento de entrada. Sus fallos degradan a la etiqueta por defecto y nunca
// bloquean el workflow.
type SupplierTypeLookup interface {
	SupplierType(supplierID string) string
}

// IdentityLookup colaborador decorativo para nombres de auditoría. Sus fallos
// dejan el campo vacío y nunca bloquean una transición.
type IdentityLookup interface {
	DisplayName(userID string) string
	Role(userID string) string
}
