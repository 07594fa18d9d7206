package infra

// pdf.go: printable order summary using go-pdf/fpdf.
//   - supplier / client header
//   - order number, date and status
//   - item table (name, bar code, quantity, unit price, line total)
//   - subtotal, tax and total
//   - notes log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"bclick/internal/model"

	"github.com/go-pdf/fpdf"
)

// OrderDocument is what the PDF renders: the order snapshot plus display
// names resolved by the caller.
type OrderDocument struct {
	Order        *model.Order
	ClientName   string
	SupplierName string
}

// RenderOrderPDF writes the order summary to w.
func RenderOrderPDF(doc OrderDocument, w io.Writer) error {
	o := doc.Order
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr(fmt.Sprintf("Order #%d", o.OrderNumber)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW/2, 5, tr("Supplier: "+doc.SupplierName), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, o.CreatedAt.Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW/2, 5, tr("Client: "+doc.ClientName), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 5, "Status: "+string(o.Status), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// ── Items ────────────────────────────────────────────────────────────────
	cols := []struct {
		title string
		w     float64
		align string
	}{
		{"Product", contentW * 0.40, "L"},
		{"Bar code", contentW * 0.20, "L"},
		{"Qty", contentW * 0.10, "C"},
		{"Price", contentW * 0.15, "R"},
		{"Total", contentW * 0.15, "R"},
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for _, c := range cols {
		pdf.CellFormat(c.w, 7, c.title, "B", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, it := range o.Items {
		name := it.Name
		if len(name) > 48 {
			name = name[:47] + "..."
		}
		pdf.CellFormat(cols[0].w, 6, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1].w, 6, it.BarCode, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2].w, 6, fmt.Sprintf("%d", it.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(cols[3].w, 6, "$"+it.Price.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4].w, 6, "$"+it.Total.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	labelW := contentW * 0.85
	valueW := contentW * 0.15
	pdf.CellFormat(labelW, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 6, "$"+o.Total.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(labelW, 6, fmt.Sprintf("Tax (%s%%)", o.TaxRate.Shift(2).String()), "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 6, "$"+o.Tax.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 8, "$"+o.Total.Add(o.Tax).StringFixed(2), "", 1, "R", false, 0, "")

	// ── Notes ────────────────────────────────────────────────────────────────
	if len(o.Notes) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, n := range o.Notes {
			line := n.CreatedAt.Format("02/01/2006 15:04") + "  " + n.Message
			pdf.MultiCell(contentW, 5, tr(line), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render order %d: %w", o.OrderNumber, err)
	}
	return nil
}

// SaveOrderPDF renders the order into storagePath/order_{number}.pdf and
// returns the file path.
func SaveOrderPDF(doc OrderDocument, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("order_%d.pdf", doc.Order.OrderNumber))

	f, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("pdf: create file: %w", err)
	}
	defer f.Close()

	if err := RenderOrderPDF(doc, f); err != nil {
		return "", err
	}
	return filePath, nil
}
