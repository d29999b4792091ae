package billing

import (
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"mandi-backend/internal/models"
	"mandi-backend/internal/timeutil"
)

// ReceiptData is everything the formatters need, read straight from storage.
// Amounts are the persisted bill figures; the formatters never recalculate.
type ReceiptData struct {
	Bill        *models.Bill
	FarmerName  string
	ProductName string
	SessionDate time.Time
	Groups      []RateGroup
}

// chargeLine is one other-charge row in label order.
type chargeLine struct {
	Label  string
	Amount float64
}

func sortedCharges(charges models.OtherCharges) []chargeLine {
	labels := make([]string, 0, len(charges))
	for label := range charges {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	lines := make([]chargeLine, 0, len(labels))
	for _, label := range labels {
		lines = append(lines, chargeLine{Label: label, Amount: charges[label]})
	}
	return lines
}

func joinQuantities(quantities []float64) string {
	parts := make([]string, 0, len(quantities))
	for _, q := range quantities {
		parts = append(parts, trimZeros(q))
	}
	return strings.Join(parts, ", ")
}

// trimZeros formats a quantity without trailing decimal noise (15 not 15.00).
func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

var htmlReceiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"qty":   trimZeros,
	"join":  joinQuantities,
	"date":  func(t time.Time) string { return timeutil.ToIST(t).Format(timeutil.DisplayLayout) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Bill.BillNumber}}</title>
<style>
body { font-family: monospace; max-width: 420px; margin: 20px auto; }
table { width: 100%; border-collapse: collapse; }
th, td { text-align: right; padding: 2px 4px; }
th:first-child, td:first-child { text-align: left; }
.total td { border-top: 1px solid #000; font-weight: bold; }
.net { border: 2px solid #000; font-weight: bold; font-size: 1.1em; padding: 6px; margin-top: 8px; display: flex; justify-content: space-between; }
.paid { color: green; font-weight: bold; margin-top: 8px; }
.notes { margin-top: 8px; font-style: italic; }
</style>
</head>
<body>
<h2>Bill {{.Bill.BillNumber}}</h2>
<p>Farmer: {{.FarmerName}}<br>
Product: {{.ProductName}}<br>
Session: {{date .SessionDate}}</p>
<table>
<tr><th>Rate</th><th>Quantities</th><th>Bags</th><th>Amount</th></tr>
{{range .Groups}}<tr><td>{{money .Rate}}</td><td>{{join .Quantities}}</td><td>{{.Bags}}</td><td>{{money .Amount}}</td></tr>
{{end}}<tr class="total"><td>Total</td><td>{{qty .Bill.TotalQuantity}}</td><td>{{.TotalBags}}</td><td>{{money .Bill.GrossAmount}}</td></tr>
</table>
<table>
<tr><td>Gross amount</td><td>{{money .Bill.GrossAmount}}</td></tr>
<tr><td>Commission ({{money .Bill.CommissionRate}}%)</td><td>-{{money .Bill.CommissionAmount}}</td></tr>
{{range .Charges}}<tr><td>{{.Label}}</td><td>-{{money .Amount}}</td></tr>
{{end}}</table>
<div class="net"><span>Net payable</span><span>{{money .Bill.NetPayable}}</span></div>
{{if .Paid}}<p class="paid">PAID via {{.Bill.PaymentMethod}} on {{.PaidDate}}</p>{{end}}
{{if .Bill.Notes}}<p class="notes">{{.Bill.Notes}}</p>{{end}}
</body>
</html>
`))

type receiptView struct {
	*ReceiptData
	TotalBags int
	Charges   []chargeLine
	Paid      bool
	PaidDate  string
}

func (d *ReceiptData) view() *receiptView {
	totalBags := 0
	for _, g := range d.Groups {
		totalBags += g.Bags
	}
	v := &receiptView{
		ReceiptData: d,
		TotalBags:   totalBags,
		Charges:     sortedCharges(d.Bill.OtherCharges),
		Paid:        d.Bill.PaymentStatus == models.BillStatusPaid && d.Bill.PaymentDate != nil,
	}
	if v.Paid {
		v.PaidDate = timeutil.ToIST(*d.Bill.PaymentDate).Format(timeutil.DisplayLayout)
	}
	return v
}

// RenderHTML renders the receipt as a standalone HTML page.
func RenderHTML(data *ReceiptData) (string, error) {
	var sb strings.Builder
	if err := htmlReceiptTmpl.Execute(&sb, data.view()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

const textWidth = 42

// RenderText renders a fixed-width receipt for thermal-printer output.
func RenderText(data *ReceiptData) string {
	d := data.view()
	var sb strings.Builder

	rule := strings.Repeat("-", textWidth)
	center := func(s string) {
		pad := (textWidth - len(s)) / 2
		if pad < 0 {
			pad = 0
		}
		sb.WriteString(strings.Repeat(" ", pad) + s + "\n")
	}
	row := func(left, right string) {
		gap := textWidth - len(left) - len(right)
		if gap < 1 {
			gap = 1
		}
		sb.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
	}

	center("BILL " + d.Bill.BillNumber)
	sb.WriteString(rule + "\n")
	row("Farmer:", d.FarmerName)
	row("Product:", d.ProductName)
	row("Session:", timeutil.ToIST(d.SessionDate).Format(timeutil.DisplayLayout))
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("%8s %-16s %4s %10s\n", "Rate", "Qty", "Bags", "Amount"))
	for _, g := range d.Groups {
		sb.WriteString(fmt.Sprintf("%8.2f %-16s %4d %10.2f\n",
			g.Rate, joinQuantities(g.Quantities), g.Bags, g.Amount))
	}
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("%8s %-16s %4d %10.2f\n",
		"Total", trimZeros(d.Bill.TotalQuantity), d.TotalBags, d.Bill.GrossAmount))
	sb.WriteString(rule + "\n")
	row("Gross amount", fmt.Sprintf("%.2f", d.Bill.GrossAmount))
	row(fmt.Sprintf("Commission (%.2f%%)", d.Bill.CommissionRate), fmt.Sprintf("-%.2f", d.Bill.CommissionAmount))
	for _, c := range d.Charges {
		row(c.Label, fmt.Sprintf("-%.2f", c.Amount))
	}
	sb.WriteString(rule + "\n")
	row("NET PAYABLE", fmt.Sprintf("%.2f", d.Bill.NetPayable))
	sb.WriteString(rule + "\n")

	if d.Paid {
		row("PAID via "+d.Bill.PaymentMethod,
			timeutil.ToIST(*d.Bill.PaymentDate).Format(timeutil.DisplayLayout))
	}
	if d.Bill.Notes != "" {
		sb.WriteString("Notes: " + d.Bill.Notes + "\n")
	}

	return sb.String()
}
