package repository

import (
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// DocumentFilter filtros de búsqueda de documentos.
type DocumentFilter struct {
	Kind   string // IMPORT | EXPORT (obligatorio en la práctica)
	Status string
	Code   string // coincidencia parcial, insensible a mayúsculas
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// DocumentRepository define el puerto de persistencia de documentos y sus
// líneas. Almacenamiento puro: las reglas de negocio viven en el workflow.
type DocumentRepository interface {
	// Create persiste cabecera y líneas.
	Create(doc *entity.Document) error
	// GetByID devuelve el documento con sus líneas, o nil si no existe.
	GetByID(id string) (*entity.Document, error)
	// GetForUpdate bloquea la fila del documento (SELECT FOR UPDATE) y lo
	// devuelve con sus líneas. Serializa transiciones concurrentes.
	GetForUpdate(id string) (*entity.Document, error)
	// UpdateHeader reescribe los campos de cabecera editables en PENDING.
	UpdateHeader(doc *entity.Document) error
	// ReplaceLines borra y recrea todas las líneas del documento.
	ReplaceLines(documentID string, lines []entity.DocumentLine) error
	// SetStatusIf cambia el estado solo si el actual es from, registrando
	// actor y fecha de la transición. Devuelve false si no hubo cambio.
	SetStatusIf(id, from, to, actorID string, at time.Time) (bool, error)
	Search(f DocumentFilter) ([]*entity.Document, error)
}
