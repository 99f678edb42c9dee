package workflow

import (
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// NewExportUseCase construye el workflow de salidas: la confirmación verifica
// suficiencia y descuenta todas las líneas como unidad atómica (EXPORTED).
func NewExportUseCase(
	txRunner TxRunner,
	docRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	customerRepo repository.CustomerRepository,
	stockLedger StockLedger,
	identity IdentityLookup,
) *UseCase {
	return &UseCase{
		kind:          entity.KindExport,
		codePrefix:    "EXP",
		effect:        decreaseAllEffect{ledger: stockLedger},
		txRunner:      txRunner,
		docRepo:       docRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		customerRepo:  customerRepo,
		identity:      identity,
	}
}
