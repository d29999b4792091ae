package billing

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"

	"mandi-backend/internal/timeutil"
)

// RenderPDF renders the receipt as an A4 PDF, same layout as the text receipt.
func RenderPDF(data *ReceiptData) ([]byte, error) {
	d := data.view()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(180, 10, fmt.Sprintf("Bill %s", d.Bill.BillNumber), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(90, 7, fmt.Sprintf("Farmer: %s", d.FarmerName), "", 0, "L", false, 0, "")
	pdf.CellFormat(90, 7, fmt.Sprintf("Product: %s", d.ProductName), "", 1, "L", false, 0, "")
	pdf.CellFormat(180, 7, fmt.Sprintf("Session: %s", timeutil.ToIST(d.SessionDate).Format(timeutil.DisplayLayout)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Rate group table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	pdf.CellFormat(30, 7, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(90, 7, "Quantities", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Bags", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, g := range d.Groups {
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", g.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(90, 6, joinQuantities(g.Quantities), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", g.Bags), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", g.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(30, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(90, 7, trimZeros(d.Bill.TotalQuantity), "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, fmt.Sprintf("%d", d.TotalBags), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", d.Bill.GrossAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Deductions
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(140, 7, "Gross amount", "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", d.Bill.GrossAmount), "", 1, "R", false, 0, "")
	pdf.CellFormat(140, 7, fmt.Sprintf("Commission (%.2f%%)", d.Bill.CommissionRate), "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, fmt.Sprintf("-%.2f", d.Bill.CommissionAmount), "", 1, "R", false, 0, "")
	for _, c := range d.Charges {
		pdf.CellFormat(140, 7, c.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("-%.2f", c.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// Net payable, boxed
	pdf.SetFont("Arial", "B", 13)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(140, 10, "NET PAYABLE", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", d.Bill.NetPayable), "1", 1, "R", true, 0, "")

	if d.Paid {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(0, 128, 0)
		pdf.CellFormat(180, 7, fmt.Sprintf("PAID via %s on %s", d.Bill.PaymentMethod, d.PaidDate), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	if d.Bill.Notes != "" {
		pdf.Ln(3)
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(180, 6, "Notes: "+d.Bill.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
