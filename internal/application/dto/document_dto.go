package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea de un documento de entrada o salida.
// warehouse_id vacío usa la bodega de cabecera.
type DocumentLineRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPct decimal.Decimal `json:"discount_pct,omitempty"`
}

// CreateDocumentRequest body para crear o actualizar (en PENDING) un
// documento. supplier_id aplica a entradas; customer_id o customer_name a
// salidas.
type CreateDocumentRequest struct {
	WarehouseID  string                `json:"warehouse_id"`
	SupplierID   string                `json:"supplier_id,omitempty"`
	CustomerID   string                `json:"customer_id,omitempty"`
	CustomerName string                `json:"customer_name,omitempty"`
	Type         string                `json:"type,omitempty"`
	Note         string                `json:"note,omitempty"`
	Attachments  []string              `json:"attachments,omitempty"`
	Lines        []DocumentLineRequest `json:"lines"`
}

// DocumentLineResponse línea con su total calculado.
type DocumentLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Total       decimal.Decimal `json:"total"`
}

// DocumentResponse documento completo. Los nombres de actores son
// enriquecimiento decorativo: pueden venir vacíos si el lookup falla.
type DocumentResponse struct {
	ID              string                 `json:"id"`
	Code            string                 `json:"code"`
	Kind            string                 `json:"kind"`
	Type            string                 `json:"type"`
	WarehouseID     string                 `json:"warehouse_id"`
	SupplierID      string                 `json:"supplier_id,omitempty"`
	CustomerID      string                 `json:"customer_id,omitempty"`
	CustomerName    string                 `json:"customer_name,omitempty"`
	Status          string                 `json:"status"`
	Note            string                 `json:"note,omitempty"`
	Attachments     []string               `json:"attachments,omitempty"`
	Total           decimal.Decimal        `json:"total"`
	CreatedBy       string                 `json:"created_by"`
	CreatedByName   string                 `json:"created_by_name,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	ApprovedBy      string                 `json:"approved_by,omitempty"`
	ApprovedByName  string                 `json:"approved_by_name,omitempty"`
	ApprovedAt      *time.Time             `json:"approved_at,omitempty"`
	ConfirmedBy     string                 `json:"confirmed_by,omitempty"`
	ConfirmedByName string                 `json:"confirmed_by_name,omitempty"`
	ConfirmedAt     *time.Time             `json:"confirmed_at,omitempty"`
	RejectedBy      string                 `json:"rejected_by,omitempty"`
	RejectedAt      *time.Time             `json:"rejected_at,omitempty"`
	Lines           []DocumentLineResponse `json:"lines"`
}

// SearchDocumentsRequest filtros de búsqueda (query params).
type SearchDocumentsRequest struct {
	Status string     `json:"status,omitempty"`
	Code   string     `json:"code,omitempty"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

// OrderItemRequest ítem del checkout.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
}

// PlaceOrderRequest body del colaborador de pedidos: crea, aprueba y confirma
// una salida tipo ORDER en un solo paso.
type PlaceOrderRequest struct {
	WarehouseID  string             `json:"warehouse_id"`
	CustomerID   string             `json:"customer_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	Note         string             `json:"note,omitempty"`
	Items        []OrderItemRequest `json:"items"`
}
