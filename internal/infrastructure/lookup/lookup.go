// Package lookup adapta los repos de catálogo a los colaboradores decorativos
// del workflow. Los fallos de lectura degradan al valor por defecto y nunca
// bloquean una transición.
package lookup

import (
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ workflow.SupplierTypeLookup = (*SupplierTypeLookup)(nil)
var _ workflow.IdentityLookup = (*IdentityLookup)(nil)

// SupplierTypeLookup resuelve la etiqueta de origen de un documento de entrada
// a partir del tipo del proveedor.
type SupplierTypeLookup struct {
	suppliers repository.SupplierRepository
}

// NewSupplierTypeLookup construye el lookup.
func NewSupplierTypeLookup(suppliers repository.SupplierRepository) *SupplierTypeLookup {
	return &SupplierTypeLookup{suppliers: suppliers}
}

// SupplierType devuelve el tipo del proveedor, o SUPPLIER si no se puede leer.
func (l *SupplierTypeLookup) SupplierType(supplierID string) string {
	s, err := l.suppliers.GetByID(supplierID)
	if err != nil {
		log.Warn().Err(err).Str("supplier_id", supplierID).Msg("lookup de tipo de proveedor falló, usando SUPPLIER")
		return entity.ImportTypeSupplier
	}
	if s == nil || s.Type == "" {
		return entity.ImportTypeSupplier
	}
	return s.Type
}

// IdentityLookup resuelve nombre y rol de un usuario para los campos de
// auditoría de las respuestas.
type IdentityLookup struct {
	users repository.UserRepository
}

// NewIdentityLookup construye el lookup.
func NewIdentityLookup(users repository.UserRepository) *IdentityLookup {
	return &IdentityLookup{users: users}
}

// DisplayName devuelve el nombre del usuario, o vacío si no se puede leer.
func (l *IdentityLookup) DisplayName(userID string) string {
	u, err := l.users.GetByID(userID)
	if err != nil || u == nil {
		return ""
	}
	return u.Name
}

// Role devuelve el rol del usuario, o vacío si no se puede leer.
func (l *IdentityLookup) Role(userID string) string {
	u, err := l.users.GetByID(userID)
	if err != nil || u == nil {
		return ""
	}
	return u.Role
}
