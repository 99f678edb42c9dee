package workflow

import (
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// NewImportUseCase construye el workflow de entradas: la confirmación suma
// cada línea al ledger (IMPORTED).
func NewImportUseCase(
	txRunner TxRunner,
	docRepo repository.DocumentRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
	stockLedger StockLedger,
	supplierType SupplierTypeLookup,
	identity IdentityLookup,
) *UseCase {
	return &UseCase{
		kind:          entity.KindImport,
		codePrefix:    "IMP",
		effect:        increaseEffect{ledger: stockLedger},
		txRunner:      txRunner,
		docRepo:       docRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
		supplierType:  supplierType,
		identity:      identity,
	}
}
