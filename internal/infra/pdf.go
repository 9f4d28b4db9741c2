package infra

// pdf.go — reception report generation using go-pdf/fpdf.
// One A4 page (or more, the table flows) per audited order:
//   - order title, supplier and reception date header
//   - line table: product, ordered, received, status
//   - substitution note under the line when another product arrived
//   - totals footer with perfect/discrepancy counts
//
// The output file is saved to storagePath/recepcion_{pedidoID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"bodega/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReporteRecepcionPDF writes the reception report of an audited
// order and returns the absolute path to the generated file.
func GenerateReporteRecepcionPDF(pedido *model.Pedido, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recepcion_%s.pdf", pedido.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Reporte de Recepción"), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	titulo := "Pedido " + pedido.ID.String()
	if pedido.Titulo != nil && *pedido.Titulo != "" {
		titulo = *pedido.Titulo
	}
	pdf.CellFormat(contentW, 6, tr(titulo), "", 1, "L", false, 0, "")
	if pedido.Proveedor != nil {
		pdf.CellFormat(contentW, 6, tr("Proveedor: "+pedido.Proveedor.Nombre), "", 1, "L", false, 0, "")
	}
	if pedido.FechaRecepcion != nil {
		pdf.CellFormat(contentW, 6, "Recibido: "+pedido.FechaRecepcion.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Line table ───────────────────────────────────────────────────────────
	colProducto := contentW - 75
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(colProducto, 7, "Producto", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Pedido", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Recibido", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Estado", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	perfectos := 0
	for i := range pedido.Items {
		it := &pedido.Items[i]
		nombre := it.ProductoID.String()
		if it.Producto != nil {
			nombre = it.Producto.Nombre
		}
		pdf.CellFormat(colProducto, 6, tr(nombre), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", it.CantidadPedida), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", it.CantidadRecibida), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, tr(string(it.EstadoItem)), "1", 1, "C", false, 0, "")

		if it.ProductoReal != nil {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(contentW, 5, tr("    Sustituido por: "+it.ProductoReal.Nombre), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
		}
		if it.EstadoItem == model.ItemCompleto {
			perfectos++
		}
	}
	pdf.Ln(4)

	// ── Summary ──────────────────────────────────────────────────────────────
	discrepancias := len(pedido.Items) - perfectos
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Items: %d    Completos: %d    Discrepancias: %d    Progreso: %d%%",
		len(pedido.Items), perfectos, discrepancias, pedido.Progreso()), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
