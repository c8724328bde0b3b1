package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

// BuildInvoicePDF renders the invoice breakdown as an A4 PDF.
func BuildInvoicePDF(inv types.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Factura PVPC")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Tarifa: %s", inv.Scheme))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Dias facturados: %d", inv.BillingDays))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Consumo total: %.3f kWh", inv.TotalKWh))
	pdf.Ln(8)

	// Per-period table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(40, 6, "Periodo", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Energia (kWh)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Coste (EUR)", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for p := types.Period(0); p < types.NumPeriods; p++ {
		totals := inv.Periods[p]
		if totals.KWh == 0 && totals.Cost == 0 {
			continue
		}
		pdf.CellFormat(40, 6, p.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.3f", totals.KWh), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", totals.Cost), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	lines := []struct {
		label string
		value float64
	}{
		{"Termino de energia", inv.EnergySubtotal},
		{"Termino de potencia", inv.PowerSubtotal},
		{"Descuento bono social", -inv.Subsidy},
		{"Subtotal", inv.TaxableSubtotal},
		{"Impuesto electricidad", inv.ElectricityTax},
		{"Alquiler contador", inv.MeterRental},
		{"Total", inv.PreVATTotal},
		{fmt.Sprintf("IVA (%d%%)", DisplayVATPercent(inv)), inv.VATAmount},
		{"TOTAL con IVA", inv.GrandTotal},
	}
	for _, l := range lines {
		if l.label == "Descuento bono social" && inv.Subsidy == 0 {
			continue
		}
		pdf.CellFormat(90, 6, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.2f", l.value), "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
