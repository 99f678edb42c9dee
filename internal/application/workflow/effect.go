package workflow

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// LedgerEffect es la estrategia que distingue entrada de salida: el estado
// terminal de confirmación y el efecto sobre el ledger. Es la única
// diferencia entre ambas máquinas de estados.
type LedgerEffect interface {
	TerminalStatus() string
	Apply(stockRepo repository.StockRepository, movRepo repository.StockMovementRepository,
		doc *entity.Document, actorID string, now time.Time) error
}

// increaseEffect: entradas. Sumar siempre es legal, así que confirmar una
// entrada solo puede fallar por estado del documento.
type increaseEffect struct {
	ledger StockLedger
}

func (e increaseEffect) TerminalStatus() string { return entity.StatusImported }

func (e increaseEffect) Apply(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	doc *entity.Document, actorID string, now time.Time,
) error {
	return e.ledger.IncreaseInTx(stockRepo, movRepo, doc.ID, actorID, effectLines(doc), now)
}

// decreaseAllEffect: salidas. Verifica suficiencia de todas las líneas en un
// snapshot consistente y descuenta todo o nada.
type decreaseAllEffect struct {
	ledger StockLedger
}

func (e decreaseAllEffect) TerminalStatus() string { return entity.StatusExported }

func (e decreaseAllEffect) Apply(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	doc *entity.Document, actorID string, now time.Time,
) error {
	return e.ledger.DecreaseAllInTx(stockRepo, movRepo, doc.ID, actorID, effectLines(doc), now)
}

// effectLines traduce las líneas del documento a líneas de ledger,
// resolviendo la bodega efectiva de cada una.
func effectLines(doc *entity.Document) []ledger.Line {
	lines := make([]ledger.Line, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		lines = append(lines, ledger.Line{
			ProductID:   l.ProductID,
			WarehouseID: l.EffectiveWarehouse(doc.WarehouseID),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return lines
}
