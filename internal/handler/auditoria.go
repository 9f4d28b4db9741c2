package handler

import (
	"errors"
	"net/http"

	"bodega/internal/apierror"
	"bodega/internal/dto"
	"bodega/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuditoriaHandler struct{ svc service.AuditoriaService }

func NewAuditoriaHandler(svc service.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

// statusForAuditError maps the audit sentinels onto HTTP codes.
func statusForAuditError(err error) int {
	switch {
	case errors.Is(err, service.ErrPedidoNoEncontrado):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTransicionInvalida):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (h *AuditoriaHandler) pedidoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// Abrir opens an audit session: the order plus its current buffer metrics.
func (h *AuditoriaHandler) Abrir(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.AbrirSesion(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuditoriaHandler) GuardarProgreso(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	var req dto.GuardarProgresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarProgreso(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finalizar commits the audit. Unconfirmed discrepancies come back as 409
// with the count so the client can prompt the operator.
func (h *AuditoriaHandler) Finalizar(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	var req dto.FinalizarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Finalizar(c.Request.Context(), id, req)
	if err != nil {
		var discrep *service.DiscrepanciasError
		if errors.As(err, &discrep) {
			c.JSON(http.StatusConflict, apierror.NewDiscrepancias(err.Error(), discrep.Count))
			return
		}
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuditoriaHandler) GuardarCorreccion(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	var req dto.GuardarCorreccionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.GuardarCorreccion(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuditoriaHandler) AplicarSustitucion(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("itemID invalido"))
		return
	}
	var req dto.SustitucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AplicarSustitucion(c.Request.Context(), id, itemID, req)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuditoriaHandler) CambiarEstadoItem(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("itemID invalido"))
		return
	}
	var req dto.CambiarEstadoItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstadoItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuditoriaHandler) RegresarAPendiente(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegresarAPendiente(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuditoriaHandler) MoverAPapelera(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.MoverAPapelera(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuditoriaHandler) EliminarDefinitivo(c *gin.Context) {
	id, ok := h.pedidoID(c)
	if !ok {
		return
	}
	if err := h.svc.EliminarDefinitivo(c.Request.Context(), id); err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
