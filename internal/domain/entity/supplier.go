package entity

import "time"

// Supplier representa un proveedor. Type alimenta la etiqueta de origen de
// los documentos de entrada (SUPPLIER/INTERNAL/STAFF).
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Type      string // SUPPLIER | INTERNAL | STAFF
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
