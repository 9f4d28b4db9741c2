package handler

import (
	"net/http"

	"bodega/internal/apierror"
	"bodega/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

func (h *ReportesHandler) Faltantes(c *gin.Context) {
	resp, err := h.svc.Faltantes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte de faltantes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) AccionRequerida(c *gin.Context) {
	resp, err := h.svc.AccionRequerida(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte de acción requerida"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Desempeno(c *gin.Context) {
	resp, err := h.svc.DesempenoProveedores(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el reporte de desempeño"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SolicitarRecepcion queues PDF generation + delivery for an audited order.
func (h *ReportesHandler) SolicitarRecepcion(c *gin.Context) {
	pedidoID, err := uuid.Parse(c.Param("pedidoID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("pedidoID invalido"))
		return
	}
	resp, err := h.svc.SolicitarReporteRecepcion(c.Request.Context(), pedidoID)
	if err != nil {
		c.JSON(statusForAuditError(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
