package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/workflow"
	"github.com/jhoicas/Almacen-api/internal/domain"
)

// DocumentHandler maneja el ciclo de vida de documentos de entrada o salida.
// Se instancia dos veces (una por workflow) y comparte todo el código: la
// única diferencia entre /api/imports y /api/exports es el caso de uso
// inyectado.
type DocumentHandler struct {
	uc    *workflow.UseCase
	pdfUC *workflow.PDFUseCase
}

// NewDocumentHandler construye el handler para un workflow concreto.
func NewDocumentHandler(uc *workflow.UseCase, pdfUC *workflow.PDFUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear documento en PENDING
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "cabecera y líneas"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/imports [post]
// @Router       /api/exports [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return respondDocumentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Update godoc
// @Summary      Actualizar documento (solo en PENDING)
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del documento"
// @Param        body  body  dto.CreateDocumentRequest  true  "cabecera y líneas de reemplazo"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/imports/{id} [put]
// @Router       /api/exports/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Update(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return respondDocumentError(c, err)
	}
	return c.JSON(doc)
}

// Approve godoc
// @Summary      Aprobar documento (PENDING → APPROVED)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/approve [post]
// @Router       /api/exports/{id}/approve [post]
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Approve)
}

// Reject godoc
// @Summary      Rechazar documento (PENDING → REJECTED)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/reject [post]
// @Router       /api/exports/{id}/reject [post]
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Reject)
}

// Cancel godoc
// @Summary      Cancelar documento (PENDING → CANCELLED)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/cancel [post]
// @Router       /api/exports/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

// Confirm godoc
// @Summary      Confirmar documento aprobado y mutar el stock
// @Description  Entradas: APPROVED → IMPORTED suma las cantidades. Salidas:
//               APPROVED → EXPORTED descuenta todo-o-nada; si alguna celda no
//               alcanza, responde 409 con la celda culpable y no muta nada.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.StockConflictResponse
// @Router       /api/imports/{id}/confirm [post]
// @Router       /api/exports/{id}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Confirm)
}

// GetByID godoc
// @Summary      Obtener documento por ID
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/imports/{id} [get]
// @Router       /api/exports/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondDocumentError(c, err)
	}
	return c.JSON(doc)
}

// Search godoc
// @Summary      Buscar documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING, APPROVED, IMPORTED, EXPORTED, REJECTED, CANCELLED"
// @Param        code    query  string  false  "coincidencia parcial del código"
// @Param        limit   query  int     false  "máximo de resultados (default 50)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}   dto.DocumentResponse
// @Router       /api/imports [get]
// @Router       /api/exports [get]
func (h *DocumentHandler) Search(c *fiber.Ctx) error {
	in := dto.SearchDocumentsRequest{
		Status: c.Query("status"),
		Code:   c.Query("code"),
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	}
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			in.From = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			in.To = &t
		}
	}
	docs, err := h.uc.Search(c.Context(), in)
	if err != nil {
		return respondDocumentError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(docs), "documents": docs})
}

// DownloadPDF godoc
// @Summary      Descargar comprobante PDF de un documento confirmado
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/imports/{id}/pdf [get]
// @Router       /api/exports/{id}/pdf [get]
func (h *DocumentHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pdfUC.DownloadDocumentPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondDocumentError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

func (h *DocumentHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, actorID, id string) (*dto.DocumentResponse, error)) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	doc, err := fn(c.Context(), userID, c.Params("id"))
	if err != nil {
		return respondDocumentError(c, err)
	}
	return c.JSON(doc)
}

func respondDocumentError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.StockConflictResponse{
			Code:        "INSUFFICIENT_STOCK",
			Message:     insufficient.Error(),
			ProductID:   insufficient.ProductID,
			WarehouseID: insufficient.WarehouseID,
			Requested:   insufficient.Requested,
			Available:   insufficient.Available,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "documento o recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
