package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable
// con pool o tx). Cabecera en documents, líneas en document_lines.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador de documentos. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, code, kind, type, warehouse_id, supplier_id, customer_id, customer_name,
		status, note, attachments, created_by, created_at,
		approved_by, approved_at, confirmed_by, confirmed_at, rejected_by, rejected_at`

// Create persiste cabecera y líneas.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Code, doc.Kind, doc.Type, doc.WarehouseID,
		nullIfEmpty(doc.SupplierID), nullIfEmpty(doc.CustomerID), nullIfEmpty(doc.CustomerName),
		doc.Status, nullIfEmpty(doc.Note), doc.Attachments,
		doc.CreatedBy, doc.CreatedAt,
		nullIfEmpty(doc.ApprovedBy), doc.ApprovedAt,
		nullIfEmpty(doc.ConfirmedBy), doc.ConfirmedAt,
		nullIfEmpty(doc.RejectedBy), doc.RejectedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return r.insertLines(doc.ID, doc.Lines)
}

// GetByID devuelve el documento con sus líneas, o nil si no existe.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate bloquea la fila del documento (SELECT FOR UPDATE) y lo
// devuelve con sus líneas. Serializa transiciones concurrentes.
func (r *DocumentRepo) GetForUpdate(id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *DocumentRepo) getOne(query, id string) (*entity.Document, error) {
	doc, err := scanDocument(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	lines, err := r.loadLines([]string{doc.ID})
	if err != nil {
		return nil, err
	}
	doc.Lines = lines[doc.ID]
	return doc, nil
}

// UpdateHeader reescribe los campos de cabecera editables en PENDING.
func (r *DocumentRepo) UpdateHeader(doc *entity.Document) error {
	query := `
		UPDATE documents
		SET type = $2, warehouse_id = $3, supplier_id = $4, customer_id = $5,
		    customer_name = $6, note = $7, attachments = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Type, doc.WarehouseID,
		nullIfEmpty(doc.SupplierID), nullIfEmpty(doc.CustomerID), nullIfEmpty(doc.CustomerName),
		nullIfEmpty(doc.Note), doc.Attachments,
	)
	if err != nil {
		return fmt.Errorf("update document header: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceLines borra y recrea todas las líneas del documento.
func (r *DocumentRepo) ReplaceLines(documentID string, lines []entity.DocumentLine) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM document_lines WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete document lines: %w", err)
	}
	return r.insertLines(documentID, lines)
}

// SetStatusIf cambia el estado solo si el actual es from, registrando actor y
// fecha en las columnas de la transición destino. Devuelve false si la fila no
// estaba en from (otro actor ganó la carrera).
func (r *DocumentRepo) SetStatusIf(id, from, to, actorID string, at time.Time) (bool, error) {
	var query string
	switch to {
	case entity.StatusApproved:
		query = `UPDATE documents SET status = $3, approved_by = $4, approved_at = $5
			WHERE id = $1 AND status = $2`
	case entity.StatusImported, entity.StatusExported:
		query = `UPDATE documents SET status = $3, confirmed_by = $4, confirmed_at = $5
			WHERE id = $1 AND status = $2`
	default:
		// REJECTED y CANCELLED comparten columnas de auditoría.
		query = `UPDATE documents SET status = $3, rejected_by = $4, rejected_at = $5
			WHERE id = $1 AND status = $2`
	}
	tag, err := r.q.Exec(context.Background(), query, id, from, to, actorID, at)
	if err != nil {
		return false, fmt.Errorf("set document status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Search busca documentos por filtros y devuelve cabeceras con líneas.
func (r *DocumentRepo) Search(f repository.DocumentFilter) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, f.Kind)
		pos++
	}
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.Code != "" {
		query += fmt.Sprintf(" AND code ILIKE $%d", pos)
		args = append(args, "%"+f.Code+"%")
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	var ids []string
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
		ids = append(ids, doc.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return docs, nil
	}
	linesByDoc, err := r.loadLines(ids)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		doc.Lines = linesByDoc[doc.ID]
	}
	return docs, nil
}

func (r *DocumentRepo) insertLines(documentID string, lines []entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (id, document_id, product_id, warehouse_id, quantity, unit_price, discount_pct)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range lines {
		l := &lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.DocumentID = documentID
		_, err := r.q.Exec(context.Background(), query,
			l.ID, l.DocumentID, l.ProductID, nullIfEmpty(l.WarehouseID),
			l.Quantity, l.UnitPrice, l.DiscountPct,
		)
		if err != nil {
			return fmt.Errorf("insert document line: %w", err)
		}
	}
	return nil
}

func (r *DocumentRepo) loadLines(documentIDs []string) (map[string][]entity.DocumentLine, error) {
	query := `
		SELECT id, document_id, product_id, warehouse_id, quantity, unit_price, discount_pct
		FROM document_lines WHERE document_id = ANY($1)
		ORDER BY document_id, id`
	rows, err := r.q.Query(context.Background(), query, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("load document lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]entity.DocumentLine, len(documentIDs))
	for rows.Next() {
		var l entity.DocumentLine
		var lineWarehouse *string
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ProductID, &lineWarehouse,
			&l.Quantity, &l.UnitPrice, &l.DiscountPct); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		l.WarehouseID = derefOrEmpty(lineWarehouse)
		out[l.DocumentID] = append(out[l.DocumentID], l)
	}
	return out, rows.Err()
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var supplierID, customerID, customerName, note *string
	var approvedBy, confirmedBy, rejectedBy *string
	err := row.Scan(
		&d.ID, &d.Code, &d.Kind, &d.Type, &d.WarehouseID,
		&supplierID, &customerID, &customerName,
		&d.Status, &note, &d.Attachments, &d.CreatedBy, &d.CreatedAt,
		&approvedBy, &d.ApprovedAt, &confirmedBy, &d.ConfirmedAt, &rejectedBy, &d.RejectedAt,
	)
	if err != nil {
		return nil, err
	}
	d.SupplierID = derefOrEmpty(supplierID)
	d.CustomerID = derefOrEmpty(customerID)
	d.CustomerName = derefOrEmpty(customerName)
	d.Note = derefOrEmpty(note)
	d.ApprovedBy = derefOrEmpty(approvedBy)
	d.ConfirmedBy = derefOrEmpty(confirmedBy)
	d.RejectedBy = derefOrEmpty(rejectedBy)
	return &d, nil
}
