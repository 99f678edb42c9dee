package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrInvalidState       = errors.New("operación no válida para el estado actual del documento")
	ErrInsufficientStock  = errors.New("stock insuficiente")
)

// InsufficientStockError identifica la celda (producto, bodega) que impidió
// confirmar una salida, con lo solicitado y lo disponible al momento de la
// verificación. Compatible con errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: producto %s en bodega %s (solicitado %s, disponible %s)",
		e.ProductID, e.WarehouseID, e.Requested.String(), e.Available.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidTransitionError describe un intento de transición fuera del grafo
// fijo de estados. Compatible con errors.Is(err, ErrInvalidState).
type InvalidTransitionError struct {
	DocumentID string
	From       string
	To         string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("documento %s: transición %s → %s no permitida", e.DocumentID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidState }
