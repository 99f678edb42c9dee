package entity

import "time"

// Customer representa un cliente registrado (contraparte de salidas).
type Customer struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
