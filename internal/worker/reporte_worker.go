package worker

// reporte_worker.go
// Processes reception-report jobs from QueueReporte: renders the PDF for an
// audited order and, when a recipient is configured, chains an email job.

import (
	"context"
	"encoding/json"
	"fmt"

	"bodega/internal/config"
	"bodega/internal/infra"
	"bodega/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReporteJobPayload is the job envelope sent to QueueReporte.
type ReporteJobPayload struct {
	PedidoID string `json:"pedido_id"`
}

type ReporteWorker struct {
	pedidoRepo repository.PedidoRepository
	dispatcher *Dispatcher
	cfg        *config.Config
}

func NewReporteWorker(pedidoRepo repository.PedidoRepository, dispatcher *Dispatcher, cfg *config.Config) *ReporteWorker {
	return &ReporteWorker{pedidoRepo: pedidoRepo, dispatcher: dispatcher, cfg: cfg}
}

func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("reporte_worker: invalid payload: %w", err)
	}
	pedidoID, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		return fmt.Errorf("reporte_worker: invalid pedido_id: %w", err)
	}

	pedido, err := w.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		return fmt.Errorf("reporte_worker: pedido %s: %w", pedidoID, err)
	}

	pdfPath, err := infra.GenerateReporteRecepcionPDF(pedido, w.cfg.ReportStoragePath)
	if err != nil {
		return err
	}
	log.Info().Str("pedido_id", payload.PedidoID).Str("pdf", pdfPath).Msg("reporte_worker: reception report generated")

	if w.cfg.ReportesEmail == "" {
		return nil
	}

	titulo := pedido.ID.String()
	if pedido.Titulo != nil && *pedido.Titulo != "" {
		titulo = *pedido.Titulo
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: w.cfg.ReportesEmail,
		Subject: fmt.Sprintf("Reporte de recepción — %s", titulo),
		Body:    fmt.Sprintf("Se adjunta el reporte de recepción del pedido %q.", titulo),
		PDFPath: pdfPath,
	})
}
