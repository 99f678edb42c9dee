package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// UseCase es la máquina de estados genérica sobre documentos de entrada y
// salida. Ambas clases comparten esta implementación; solo cambian la
// validación de contraparte y el LedgerEffect de la confirmación.
//
// PENDING → {APPROVED, REJECTED, CANCELLED}; APPROVED → {IMPORTED|EXPORTED}.
// La confirmación es el único punto que toca el ledger, dentro de una sola
// transacción con la fila del documento bloqueada: de N confirmaciones
// concurrentes exactamente una gana y el resto reciben ErrInvalidState.
type UseCase struct {
	kind       string
	codePrefix string
	effect     LedgerEffect
	txRunner   TxRunner

	docRepo       repository.DocumentRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository // solo entradas
	customerRepo  repository.CustomerRepository // solo salidas

	supplierType SupplierTypeLookup // solo entradas, decorativo
	identity     IdentityLookup
}

// Create valida cabecera y líneas, y persiste el documento en PENDING.
// Las líneas inválidas (cantidad no positiva, precio negativo) rechazan el
// documento completo; un precio en cero toma el precio de catálogo.
func (uc *UseCase) Create(ctx context.Context, actorID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	doc, err := uc.buildDocument(actorID, in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		return docRepo.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(doc), nil
}

// Update reemplaza cabecera y líneas. Solo es legal mientras el documento
// sigue en PENDING.
func (uc *UseCase) Update(ctx context.Context, actorID, id string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	replacement, err := uc.buildDocument(actorID, in)
	if err != nil {
		return nil, err
	}
	var updated *entity.Document
	err = uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		doc, err := docRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if doc == nil || doc.Kind != uc.kind {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StatusPending {
			return &domain.InvalidTransitionError{DocumentID: id, From: doc.Status, To: entity.StatusPending}
		}
		doc.Type = replacement.Type
		doc.WarehouseID = replacement.WarehouseID
		doc.SupplierID = replacement.SupplierID
		doc.CustomerID = replacement.CustomerID
		doc.CustomerName = replacement.CustomerName
		doc.Note = replacement.Note
		doc.Attachments = replacement.Attachments
		if err := docRepo.UpdateHeader(doc); err != nil {
			return err
		}
		for i := range replacement.Lines {
			replacement.Lines[i].DocumentID = doc.ID
		}
		if err := docRepo.ReplaceLines(doc.ID, replacement.Lines); err != nil {
			return err
		}
		doc.Lines = replacement.Lines
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated), nil
}

// Approve registra aprobador y fecha. Solo desde PENDING.
func (uc *UseCase) Approve(ctx context.Context, actorID, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, actorID, id, entity.StatusApproved)
}

// Reject termina el documento sin tocar el ledger. Solo desde PENDING.
func (uc *UseCase) Reject(ctx context.Context, actorID, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, actorID, id, entity.StatusRejected)
}

// Cancel termina el documento sin tocar el ledger. Solo desde PENDING.
func (uc *UseCase) Cancel(ctx context.Context, actorID, id string) (*dto.DocumentResponse, error) {
	return uc.transition(ctx, actorID, id, entity.StatusCancelled)
}

// Confirm ejecuta la transición terminal: bloquea la fila del documento,
// aplica el efecto sobre el ledger y marca IMPORTED/EXPORTED, todo en una
// transacción. Si el efecto falla (stock insuficiente en salidas) la
// transacción se revierte y el documento permanece en APPROVED, listo para
// reintentarse tras una reposición.
func (uc *UseCase) Confirm(ctx context.Context, actorID, id string) (*dto.DocumentResponse, error) {
	now := time.Now()
	terminal := uc.effect.TerminalStatus()
	var updated *entity.Document
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		doc, err := docRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		// El ID es global a ambas clases: un documento de la otra clase no
		// existe para este workflow, o su efecto aplicaría el signo contrario.
		if doc == nil || doc.Kind != uc.kind {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StatusApproved {
			return &domain.InvalidTransitionError{DocumentID: id, From: doc.Status, To: terminal}
		}
		if err := uc.effect.Apply(stockRepo, movRepo, doc, actorID, now); err != nil {
			return err
		}
		ok, err := docRepo.SetStatusIf(id, entity.StatusApproved, terminal, actorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.InvalidTransitionError{DocumentID: id, From: doc.Status, To: terminal}
		}
		doc.Status = terminal
		doc.ConfirmedBy = actorID
		doc.ConfirmedAt = &now
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated), nil
}

// GetByID devuelve el documento con nombres de auditoría enriquecidos.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.Kind != uc.kind {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(doc), nil
}

// Search busca documentos de esta clase por estado, código y rango de fechas.
func (uc *UseCase) Search(ctx context.Context, in dto.SearchDocumentsRequest) ([]dto.DocumentResponse, error) {
	limit := in.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	docs, err := uc.docRepo.Search(repository.DocumentFilter{
		Kind:   uc.kind,
		Status: in.Status,
		Code:   in.Code,
		From:   in.From,
		To:     in.To,
		Limit:  limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *uc.toResponse(d))
	}
	return out, nil
}

// transition aplica una arista sin efecto de ledger (aprobar, rechazar,
// cancelar) bajo bloqueo de la fila del documento.
func (uc *UseCase) transition(ctx context.Context, actorID, id, to string) (*dto.DocumentResponse, error) {
	now := time.Now()
	var updated *entity.Document
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		doc, err := docRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if doc == nil || doc.Kind != uc.kind {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(doc.Status, to) {
			return &domain.InvalidTransitionError{DocumentID: id, From: doc.Status, To: to}
		}
		ok, err := docRepo.SetStatusIf(id, doc.Status, to, actorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.InvalidTransitionError{DocumentID: id, From: doc.Status, To: to}
		}
		doc.Status = to
		switch to {
		case entity.StatusApproved:
			doc.ApprovedBy = actorID
			doc.ApprovedAt = &now
		case entity.StatusRejected, entity.StatusCancelled:
			doc.RejectedBy = actorID
			doc.RejectedAt = &now
		}
		updated = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated), nil
}

// buildDocument valida la petición y arma un documento PENDING nuevo.
func (uc *UseCase) buildDocument(actorID string, in dto.CreateDocumentRequest) (*entity.Document, error) {
	if in.WarehouseID == "" {
		return nil, fmt.Errorf("%w: warehouse_id es requerido", domain.ErrInvalidInput)
	}
	wh, err := uc.warehouseRepo.GetByID(in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	docType, err := uc.resolveCounterparty(&in)
	if err != nil {
		return nil, err
	}

	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: el documento requiere al menos una línea", domain.ErrInvalidInput)
	}
	lines := make([]entity.DocumentLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" {
			return nil, fmt.Errorf("%w: línea sin producto", domain.ErrInvalidInput)
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: cantidad no positiva para el producto %s", domain.ErrInvalidInput, l.ProductID)
		}
		if l.UnitPrice.LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: precio negativo para el producto %s", domain.ErrInvalidInput, l.ProductID)
		}
		if l.DiscountPct.LessThan(decimal.Zero) || l.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: descuento fuera de rango para el producto %s", domain.ErrInvalidInput, l.ProductID)
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if l.UnitPrice.IsZero() {
			l.UnitPrice = product.Price
		}
		if l.WarehouseID != "" && l.WarehouseID != in.WarehouseID {
			lineWh, err := uc.warehouseRepo.GetByID(l.WarehouseID)
			if err != nil {
				return nil, err
			}
			if lineWh == nil {
				return nil, domain.ErrNotFound
			}
		}
		lines = append(lines, entity.DocumentLine{
			ID:          uuid.New().String(),
			ProductID:   l.ProductID,
			WarehouseID: l.WarehouseID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			DiscountPct: l.DiscountPct,
		})
	}

	now := time.Now()
	doc := &entity.Document{
		ID:           uuid.New().String(),
		Kind:         uc.kind,
		Type:         docType,
		WarehouseID:  in.WarehouseID,
		SupplierID:   in.SupplierID,
		CustomerID:   in.CustomerID,
		CustomerName: in.CustomerName,
		Status:       entity.StatusPending,
		Note:         in.Note,
		Attachments:  in.Attachments,
		CreatedBy:    actorID,
		CreatedAt:    now,
		Lines:        lines,
	}
	doc.Code = uc.newCode(doc.ID)
	for i := range doc.Lines {
		doc.Lines[i].DocumentID = doc.ID
	}
	return doc, nil
}

// resolveCounterparty valida la contraparte según la clase y resuelve la
// etiqueta de origen del documento.
func (uc *UseCase) resolveCounterparty(in *dto.CreateDocumentRequest) (string, error) {
	if uc.kind == entity.KindImport {
		if in.SupplierID == "" {
			return "", fmt.Errorf("%w: supplier_id es requerido", domain.ErrInvalidInput)
		}
		supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
		if err != nil {
			return "", err
		}
		if supplier == nil {
			return "", domain.ErrNotFound
		}
		docType := in.Type
		if docType == "" {
			// Etiqueta decorativa: si el lookup falla, queda SUPPLIER.
			docType = entity.ImportTypeSupplier
			if uc.supplierType != nil {
				docType = uc.supplierType.SupplierType(in.SupplierID)
			}
		}
		if !validImportType(docType) {
			return "", fmt.Errorf("%w: tipo de entrada %q desconocido", domain.ErrInvalidInput, docType)
		}
		return docType, nil
	}

	// Salidas: cliente registrado o nombre directo, al menos uno.
	if in.CustomerID == "" && strings.TrimSpace(in.CustomerName) == "" {
		return "", fmt.Errorf("%w: customer_id o customer_name es requerido", domain.ErrInvalidInput)
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return "", err
		}
		if customer == nil {
			return "", domain.ErrNotFound
		}
	}
	docType := in.Type
	if docType == "" {
		docType = entity.ExportTypeOrder
	}
	if !validExportType(docType) {
		return "", fmt.Errorf("%w: tipo de salida %q desconocido", domain.ErrInvalidInput, docType)
	}
	return docType, nil
}

func validImportType(t string) bool {
	return t == entity.ImportTypeSupplier || t == entity.ImportTypeInternal || t == entity.ImportTypeStaff
}

func validExportType(t string) bool {
	return t == entity.ExportTypeOrder || t == entity.ExportTypeInternal || t == entity.ExportTypeStaff
}

// newCode genera el código humano: prefijo + primeros 8 hex del UUID.
func (uc *UseCase) newCode(id string) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return uc.codePrefix + "-" + short
}

// toResponse mapea a DTO y enriquece nombres de auditoría fuera de la
// transacción (el lookup es decorativo y puede fallar sin consecuencias).
func (uc *UseCase) toResponse(doc *entity.Document) *dto.DocumentResponse {
	lines := make([]dto.DocumentLineResponse, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		lines = append(lines, dto.DocumentLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			WarehouseID: l.EffectiveWarehouse(doc.WarehouseID),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			DiscountPct: l.DiscountPct,
			Total:       l.Total(),
		})
	}
	resp := &dto.DocumentResponse{
		ID:           doc.ID,
		Code:         doc.Code,
		Kind:         doc.Kind,
		Type:         doc.Type,
		WarehouseID:  doc.WarehouseID,
		SupplierID:   doc.SupplierID,
		CustomerID:   doc.CustomerID,
		CustomerName: doc.CustomerName,
		Status:       doc.Status,
		Note:         doc.Note,
		Attachments:  doc.Attachments,
		Total:        doc.Total(),
		CreatedBy:    doc.CreatedBy,
		CreatedAt:    doc.CreatedAt,
		ApprovedBy:   doc.ApprovedBy,
		ApprovedAt:   doc.ApprovedAt,
		ConfirmedBy:  doc.ConfirmedBy,
		ConfirmedAt:  doc.ConfirmedAt,
		RejectedBy:   doc.RejectedBy,
		RejectedAt:   doc.RejectedAt,
		Lines:        lines,
	}
	if uc.identity != nil {
		resp.CreatedByName = uc.identity.DisplayName(doc.CreatedBy)
		if doc.ApprovedBy != "" {
			resp.ApprovedByName = uc.identity.DisplayName(doc.ApprovedBy)
		}
		if doc.ConfirmedBy != "" {
			resp.ConfirmedByName = uc.identity.DisplayName(doc.ConfirmedBy)
		}
	}
	return resp
}
