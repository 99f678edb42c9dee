// Package memory implementa todos los puertos de persistencia sobre mapas en
// memoria. Sirve para desarrollo sin base de datos y para las pruebas de los
// casos de uso. El TxRunner serializa transacciones con un mutex y restaura
// un snapshot si el callback falla, de modo que conserva la semántica
// todo-o-nada del runner PostgreSQL.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Store contiene todo el estado. Un solo mutex protege los mapas; las
// transacciones lo retienen completo, así que un Store no es apto para
// producción con carga alta, pero reproduce fielmente el aislamiento
// que dan los locks de fila en PostgreSQL.
type Store struct {
	mu sync.Mutex

	stock     map[entity.CellKey]*entity.StockCell
	documents map[string]*entity.Document
	movements []*entity.StockMovement

	warehouses map[string]*entity.Warehouse
	products   map[string]*entity.Product
	suppliers  map[string]*entity.Supplier
	customers  map[string]*entity.Customer
	users      map[string]*entity.User
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		stock:      make(map[entity.CellKey]*entity.StockCell),
		documents:  make(map[string]*entity.Document),
		warehouses: make(map[string]*entity.Warehouse),
		products:   make(map[string]*entity.Product),
		suppliers:  make(map[string]*entity.Supplier),
		customers:  make(map[string]*entity.Customer),
		users:      make(map[string]*entity.User),
	}
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

var _ workflow.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el callback bajo el mutex del Store y deshace todos los
// cambios de stock, documentos y movimientos si el callback devuelve error.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el mutex, captura un snapshot y ejecuta fn con repos sin lock
// propio (el lock ya está tomado). Si fn falla, restaura el snapshot.
func (r *TxRunner) Run(_ context.Context, fn func(
	docRepo repository.DocumentRepository,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked()
	err := fn(&txDocumentRepo{s}, &txStockRepo{s}, &txMovementRepo{s})
	if err != nil {
		s.restoreLocked(snap)
		return err
	}
	return nil
}

type snapshot struct {
	stock     map[entity.CellKey]*entity.StockCell
	documents map[string]*entity.Document
	movements []*entity.StockMovement
}

func (s *Store) snapshotLocked() snapshot {
	stock := make(map[entity.CellKey]*entity.StockCell, len(s.stock))
	for k, c := range s.stock {
		stock[k] = cloneCell(c)
	}
	docs := make(map[string]*entity.Document, len(s.documents))
	for id, d := range s.documents {
		docs[id] = cloneDocument(d)
	}
	movs := make([]*entity.StockMovement, len(s.movements))
	copy(movs, s.movements)
	return snapshot{stock: stock, documents: docs, movements: movs}
}

func (s *Store) restoreLocked(snap snapshot) {
	s.stock = snap.stock
	s.documents = snap.documents
	s.movements = snap.movements
}

// ── Repos fuera de transacción ────────────────────────────────────────────────

// DocumentRepo devuelve un DocumentRepository con lock propio (modo pool).
func (s *Store) DocumentRepo() repository.DocumentRepository { return &lockedDocumentRepo{s} }

// StockRepo devuelve un StockRepository con lock propio (modo pool).
func (s *Store) StockRepo() repository.StockRepository { return &lockedStockRepo{s} }

// MovementRepo devuelve un StockMovementRepository con lock propio (modo pool).
func (s *Store) MovementRepo() repository.StockMovementRepository { return &lockedMovementRepo{s} }

// ── DocumentRepository ────────────────────────────────────────────────────────

type txDocumentRepo struct{ s *Store }
type lockedDocumentRepo struct{ s *Store }

var _ repository.DocumentRepository = (*txDocumentRepo)(nil)
var _ repository.DocumentRepository = (*lockedDocumentRepo)(nil)

func (r *txDocumentRepo) Create(doc *entity.Document) error { return r.s.createDocumentLocked(doc) }
func (r *txDocumentRepo) GetByID(id string) (*entity.Document, error) {
	return r.s.getDocumentLocked(id), nil
}
func (r *txDocumentRepo) GetForUpdate(id string) (*entity.Document, error) {
	// El mutex del Store ya serializa; no hay fila que bloquear.
	return r.s.getDocumentLocked(id), nil
}
func (r *txDocumentRepo) UpdateHeader(doc *entity.Document) error {
	return r.s.updateHeaderLocked(doc)
}
func (r *txDocumentRepo) ReplaceLines(documentID string, lines []entity.DocumentLine) error {
	return r.s.replaceLinesLocked(documentID, lines)
}
func (r *txDocumentRepo) SetStatusIf(id, from, to, actorID string, at time.Time) (bool, error) {
	return r.s.setStatusIfLocked(id, from, to, actorID, at)
}
func (r *txDocumentRepo) Search(f repository.DocumentFilter) ([]*entity.Document, error) {
	return r.s.searchDocumentsLocked(f), nil
}

func (r *lockedDocumentRepo) Create(doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.createDocumentLocked(doc)
}
func (r *lockedDocumentRepo) GetByID(id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.getDocumentLocked(id), nil
}
func (r *lockedDocumentRepo) GetForUpdate(id string) (*entity.Document, error) {
	return r.GetByID(id)
}
func (r *lockedDocumentRepo) UpdateHeader(doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateHeaderLocked(doc)
}
func (r *lockedDocumentRepo) ReplaceLines(documentID string, lines []entity.DocumentLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.replaceLinesLocked(documentID, lines)
}
func (r *lockedDocumentRepo) SetStatusIf(id, from, to, actorID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.setStatusIfLocked(id, from, to, actorID, at)
}
func (r *lockedDocumentRepo) Search(f repository.DocumentFilter) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.searchDocumentsLocked(f), nil
}

func (s *Store) createDocumentLocked(doc *entity.Document) error {
	if _, ok := s.documents[doc.ID]; ok {
		return domain.ErrDuplicate
	}
	s.documents[doc.ID] = cloneDocument(doc)
	return nil
}

func (s *Store) getDocumentLocked(id string) *entity.Document {
	d, ok := s.documents[id]
	if !ok {
		return nil
	}
	return cloneDocument(d)
}

func (s *Store) updateHeaderLocked(doc *entity.Document) error {
	d, ok := s.documents[doc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	d.Type = doc.Type
	d.WarehouseID = doc.WarehouseID
	d.SupplierID = doc.SupplierID
	d.CustomerID = doc.CustomerID
	d.CustomerName = doc.CustomerName
	d.Note = doc.Note
	d.Attachments = append([]string(nil), doc.Attachments...)
	return nil
}

func (s *Store) replaceLinesLocked(documentID string, lines []entity.DocumentLine) error {
	d, ok := s.documents[documentID]
	if !ok {
		return domain.ErrNotFound
	}
	d.Lines = append([]entity.DocumentLine(nil), lines...)
	return nil
}

func (s *Store) setStatusIfLocked(id, from, to, actorID string, at time.Time) (bool, error) {
	d, ok := s.documents[id]
	if !ok || d.Status != from {
		return false, nil
	}
	d.Status = to
	ts := at
	switch to {
	case entity.StatusApproved:
		d.ApprovedBy = actorID
		d.ApprovedAt = &ts
	case entity.StatusImported, entity.StatusExported:
		d.ConfirmedBy = actorID
		d.ConfirmedAt = &ts
	default:
		d.RejectedBy = actorID
		d.RejectedAt = &ts
	}
	return true, nil
}

func (s *Store) searchDocumentsLocked(f repository.DocumentFilter) []*entity.Document {
	var out []*entity.Document
	for _, d := range s.documents {
		if f.Kind != "" && d.Kind != f.Kind {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Code != "" && !strings.Contains(strings.ToLower(d.Code), strings.ToLower(f.Code)) {
			continue
		}
		if f.From != nil && d.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && d.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, cloneDocument(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// ── StockRepository ───────────────────────────────────────────────────────────

type txStockRepo struct{ s *Store }
type lockedStockRepo struct{ s *Store }

var _ repository.StockRepository = (*txStockRepo)(nil)
var _ repository.StockRepository = (*lockedStockRepo)(nil)

func (r *txStockRepo) Get(productID, warehouseID string) (*entity.StockCell, error) {
	return r.s.getCellLocked(productID, warehouseID), nil
}
func (r *txStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockCell, error) {
	return r.s.getCellLocked(productID, warehouseID), nil
}
func (r *txStockRepo) LockAll(keys []entity.CellKey) ([]*entity.StockCell, error) {
	return r.s.lockAllLocked(keys), nil
}
func (r *txStockRepo) Upsert(cell *entity.StockCell) error { return r.s.upsertCellLocked(cell) }
func (r *txStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockCell, error) {
	return r.s.listCellsLocked(func(c *entity.StockCell) bool { return c.WarehouseID == warehouseID }, limit, offset), nil
}
func (r *txStockRepo) ListByProduct(productID string) ([]*entity.StockCell, error) {
	return r.s.listCellsLocked(func(c *entity.StockCell) bool { return c.ProductID == productID }, 0, 0), nil
}
func (r *txStockRepo) ListBelowMin(warehouseID string) ([]*entity.StockCell, error) {
	return r.s.listBelowMinLocked(warehouseID), nil
}

func (r *lockedStockRepo) Get(productID, warehouseID string) (*entity.StockCell, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.getCellLocked(productID, warehouseID), nil
}
func (r *lockedStockRepo) GetForUpdate(productID, warehouseID string) (*entity.StockCell, error) {
	return r.Get(productID, warehouseID)
}
func (r *lockedStockRepo) LockAll(keys []entity.CellKey) ([]*entity.StockCell, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.lockAllLocked(keys), nil
}
func (r *lockedStockRepo) Upsert(cell *entity.StockCell) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.upsertCellLocked(cell)
}
func (r *lockedStockRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockCell, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listCellsLocked(func(c *entity.StockCell) bool { return c.WarehouseID == warehouseID }, limit, offset), nil
}
func (r *lockedStockRepo) ListByProduct(productID string) ([]*entity.StockCell, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listCellsLocked(func(c *entity.StockCell) bool { return c.ProductID == productID }, 0, 0), nil
}
func (r *lockedStockRepo) ListBelowMin(warehouseID string) ([]*entity.StockCell, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listBelowMinLocked(warehouseID), nil
}

func (s *Store) getCellLocked(productID, warehouseID string) *entity.StockCell {
	k := entity.CellKey{ProductID: productID, WarehouseID: warehouseID}
	if c, ok := s.stock[k]; ok {
		return cloneCell(c)
	}
	return &entity.StockCell{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.Zero}
}

func (s *Store) lockAllLocked(keys []entity.CellKey) []*entity.StockCell {
	sorted := make([]entity.CellKey, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	cells := make([]*entity.StockCell, 0, len(sorted))
	for _, k := range sorted {
		cells = append(cells, s.getCellLocked(k.ProductID, k.WarehouseID))
	}
	return cells
}

func (s *Store) upsertCellLocked(cell *entity.StockCell) error {
	// Se respeta el UpdatedAt que trae la celda: el ledger sella todas las
	// celdas de una confirmación con el mismo instante.
	s.stock[cell.Key()] = cloneCell(cell)
	return nil
}

func (s *Store) listCellsLocked(match func(*entity.StockCell) bool, limit, offset int) []*entity.StockCell {
	var out []*entity.StockCell
	for _, c := range s.stock {
		if match(c) {
			out = append(out, cloneCell(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	if offset > 0 {
		if offset >= len(out) {
			return nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) listBelowMinLocked(warehouseID string) []*entity.StockCell {
	return s.listCellsLocked(func(c *entity.StockCell) bool {
		if warehouseID != "" && c.WarehouseID != warehouseID {
			return false
		}
		return c.MinStock.IsPositive() && c.Quantity.LessThan(c.MinStock)
	}, 0, 0)
}

// ── StockMovementRepository ───────────────────────────────────────────────────

type txMovementRepo struct{ s *Store }
type lockedMovementRepo struct{ s *Store }

var _ repository.StockMovementRepository = (*txMovementRepo)(nil)
var _ repository.StockMovementRepository = (*lockedMovementRepo)(nil)

func (r *txMovementRepo) Create(m *entity.StockMovement) error { return r.s.createMovementLocked(m) }
func (r *txMovementRepo) ListByDocument(documentID string) ([]*entity.StockMovement, error) {
	return r.s.listMovementsLocked(func(m *entity.StockMovement) bool { return m.DocumentID == documentID }, 0, 0), nil
}
func (r *txMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.listMovementsByProductLocked(productID, from, to, limit, offset), nil
}
func (r *txMovementRepo) SumByCell(productID, warehouseID string) (decimal.Decimal, error) {
	return r.s.sumByCellLocked(productID, warehouseID), nil
}

func (r *lockedMovementRepo) Create(m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.createMovementLocked(m)
}
func (r *lockedMovementRepo) ListByDocument(documentID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listMovementsLocked(func(m *entity.StockMovement) bool { return m.DocumentID == documentID }, 0, 0), nil
}
func (r *lockedMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.listMovementsByProductLocked(productID, from, to, limit, offset), nil
}
func (r *lockedMovementRepo) SumByCell(productID, warehouseID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sumByCellLocked(productID, warehouseID), nil
}

func (s *Store) createMovementLocked(m *entity.StockMovement) error {
	cp := *m
	s.movements = append(s.movements, &cp)
	return nil
}

func (s *Store) listMovementsLocked(match func(*entity.StockMovement) bool, limit, offset int) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if match(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) listMovementsByProductLocked(productID string, from, to *time.Time, limit, offset int) []*entity.StockMovement {
	return s.listMovementsLocked(func(m *entity.StockMovement) bool {
		if m.ProductID != productID {
			return false
		}
		if from != nil && m.CreatedAt.Before(*from) {
			return false
		}
		if to != nil && m.CreatedAt.After(*to) {
			return false
		}
		return true
	}, limit, offset)
}

func (s *Store) sumByCellLocked(productID, warehouseID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range s.movements {
		if m.ProductID == productID && m.WarehouseID == warehouseID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum
}

// ── Repos de catálogo ─────────────────────────────────────────────────────────

type warehouseRepo struct{ s *Store }
type productRepo struct{ s *Store }
type supplierRepo struct{ s *Store }
type customerRepo struct{ s *Store }
type userRepo struct{ s *Store }

var _ repository.WarehouseRepository = (*warehouseRepo)(nil)
var _ repository.ProductRepository = (*productRepo)(nil)
var _ repository.SupplierRepository = (*supplierRepo)(nil)
var _ repository.CustomerRepository = (*customerRepo)(nil)
var _ repository.UserRepository = (*userRepo)(nil)

// WarehouseRepo devuelve el repo de bodegas.
func (s *Store) WarehouseRepo() repository.WarehouseRepository { return &warehouseRepo{s} }

// ProductRepo devuelve el repo de productos.
func (s *Store) ProductRepo() repository.ProductRepository { return &productRepo{s} }

// SupplierRepo devuelve el repo de proveedores.
func (s *Store) SupplierRepo() repository.SupplierRepository { return &supplierRepo{s} }

// CustomerRepo devuelve el repo de clientes.
func (s *Store) CustomerRepo() repository.CustomerRepository { return &customerRepo{s} }

// UserRepo devuelve el repo de usuarios.
func (s *Store) UserRepo() repository.UserRepository { return &userRepo{s} }

func (r *warehouseRepo) Create(w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.warehouses[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *warehouseRepo) Update(w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.warehouses[w.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *w
	r.s.warehouses[w.ID] = &cp
	return nil
}

func (r *warehouseRepo) List(limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Warehouse
	for _, w := range r.s.warehouses {
		cp := *w
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *warehouseRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.warehouses, id)
	return nil
}

func (r *productRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.products {
		if other.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) GetBySKU(sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *productRepo) List(limit, offset int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *supplierRepo) Create(sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sup.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *sup
	r.s.suppliers[sup.ID] = &cp
	return nil
}

func (r *supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sup
	return &cp, nil
}

func (r *supplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Supplier
	for _, sup := range r.s.suppliers {
		cp := *sup
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *customerRepo) Create(c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *customerRepo) GetByID(id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *customerRepo) List(limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Customer
	for _, c := range r.s.customers {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *userRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if other.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.s.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func cloneCell(c *entity.StockCell) *entity.StockCell {
	cp := *c
	return &cp
}

func cloneDocument(d *entity.Document) *entity.Document {
	cp := *d
	cp.Attachments = append([]string(nil), d.Attachments...)
	cp.Lines = append([]entity.DocumentLine(nil), d.Lines...)
	if d.ApprovedAt != nil {
		t := *d.ApprovedAt
		cp.ApprovedAt = &t
	}
	if d.ConfirmedAt != nil {
		t := *d.ConfirmedAt
		cp.ConfirmedAt = &t
	}
	if d.RejectedAt != nil {
		t := *d.RejectedAt
		cp.RejectedAt = &t
	}
	return &cp
}
