package infra

// pdf.go — thermal receipt PDF via go-pdf/fpdf. A7-ish custom page size,
// written to storagePath/ticket_{folio}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"puntoventa/internal/config"
	"puntoventa/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateTicketPDF renders the receipt for a posted sale and returns the
// absolute path of the written file. Line amounts come from the sale's
// snapshotted figures, never from the live catalog.
func GenerateTicketPDF(venta *model.Venta, negocio config.Negocio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("ticket_%s.pdf", venta.Folio))

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, negocio.Nombre, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	if negocio.Direccion != "" {
		pdf.CellFormat(contentW, 4, negocio.Direccion, "", 1, "C", false, 0, "")
	}
	if negocio.Telefono != "" {
		pdf.CellFormat(contentW, 4, "Tel: "+negocio.Telefono, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Folio "+venta.Folio, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venta.Cliente != nil {
		pdf.CellFormat(contentW, 4, "Cliente: "+venta.Cliente.Nombre, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		descripcion := d.Descripcion
		if len(descripcion) > 22 {
			descripcion = descripcion[:21] + "…"
		}
		pdf.CellFormat(col1, 5, descripcion, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+d.TotalLinea.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Pago ("+venta.MetodoPago+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "$"+venta.MontoRecibido.StringFixed(2), "", 1, "R", false, 0, "")
	if venta.MetodoPago == model.MetodoEfectivo {
		pdf.CellFormat(col1+col2, 4, "Cambio:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+venta.Cambio.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if negocio.Leyenda != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 4, negocio.Leyenda, "", 1, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
