package infra

// pdf.go — Adjustment report generation using go-pdf/fpdf.
// Produces an A4 summary of one price adjustment: header with record metadata,
// one table row per affected product with the three price fields before and
// after, and the reversal footer when applicable.
//
// The output file is saved to storagePath/adjustment_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"javopos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateAdjustmentPDF renders the report for one adjustment record.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateAdjustmentPDF(rec *model.AdjustmentRecord, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("adjustment_%d.pdf", rec.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, fmt.Sprintf("Price Adjustment #%d", rec.ID), "", 1, "L", false, 0, "")

	direction := "decrease"
	if rec.IsIncrease {
		direction = "increase"
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("%s%% %s — %s", rec.Percentage.StringFixed(2), direction, rec.Description), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Created %s by %s", rec.CreatedAt.Format("02/01/2006 15:04"), rec.CreatedBy), "", 1, "L", false, 0, "")

	if rec.IsTemporary {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Window: %s – %s  (%s, status %s)",
			rec.StartTime.Format("02/01/2006 15:04"), rec.EndTime.Format("02/01/2006 15:04"),
			rec.TemporalKind, rec.Status), "", 1, "L", false, 0, "")
	}
	if rec.Reverted && rec.RevertedAt != nil {
		pdf.CellFormat(contentW, 5, fmt.Sprintf("Reverted %s by %s", rec.RevertedAt.Format("02/01/2006 15:04"), rec.RevertedBy), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	colName := contentW * 0.28
	colPrice := contentW * 0.12

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colName, 6, "Product", "B", 0, "L", false, 0, "")
	for _, h := range []string{"Cost before", "Cost after", "Cash before", "Cash after", "List before", "List after"} {
		pdf.CellFormat(colPrice, 6, h, "B", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, d := range rec.Details {
		name := d.ProductName
		if len(name) > 40 {
			name = name[:39] + "…"
		}
		pdf.CellFormat(colName, 5, name, "", 0, "L", false, 0, "")
		for _, v := range []string{
			d.CostBefore.StringFixed(2), d.CostAfter.StringFixed(2),
			d.CashPriceBefore.StringFixed(2), d.CashPriceAfter.StringFixed(2),
			d.ListPriceBefore.StringFixed(2), d.ListPriceAfter.StringFixed(2),
		} {
			pdf.CellFormat(colPrice, 5, "$"+v, "", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%d product(s) affected", len(rec.Details)), "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
