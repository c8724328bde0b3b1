package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

// BuildStatsXLSX renders the invoice summary and the consumption statistics
// as an XLSX workbook with summary and per-day sheets.
func BuildStatsXLSX(inv types.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "resumen"
	daysSheet := "dias"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(daysSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Factura PVPC")
	_ = f.SetCellValue(summarySheet, "A3", "Tarifa")
	_ = f.SetCellValue(summarySheet, "B3", string(inv.Scheme))
	_ = f.SetCellValue(summarySheet, "A4", "Dias facturados")
	_ = f.SetCellValue(summarySheet, "B4", inv.BillingDays)
	_ = f.SetCellValue(summarySheet, "A5", "Consumo total (kWh)")
	_ = f.SetCellValue(summarySheet, "B5", inv.TotalKWh)
	_ = f.SetCellValue(summarySheet, "A6", "Termino de energia")
	_ = f.SetCellValue(summarySheet, "B6", inv.EnergySubtotal)
	_ = f.SetCellValue(summarySheet, "A7", "Termino de potencia")
	_ = f.SetCellValue(summarySheet, "B7", inv.PowerSubtotal)
	_ = f.SetCellValue(summarySheet, "A8", "Descuento bono social")
	_ = f.SetCellValue(summarySheet, "B8", inv.Subsidy)
	_ = f.SetCellValue(summarySheet, "A9", "Impuesto electricidad")
	_ = f.SetCellValue(summarySheet, "B9", inv.ElectricityTax)
	_ = f.SetCellValue(summarySheet, "A10", "Alquiler contador")
	_ = f.SetCellValue(summarySheet, "B10", inv.MeterRental)
	_ = f.SetCellValue(summarySheet, "A11", "IVA")
	_ = f.SetCellValue(summarySheet, "B11", inv.VATAmount)
	_ = f.SetCellValue(summarySheet, "A12", "TOTAL con IVA")
	_ = f.SetCellValue(summarySheet, "B12", inv.GrandTotal)

	row := 14
	for p := types.Period(0); p < types.NumPeriods; p++ {
		totals := inv.Periods[p]
		if totals.KWh == 0 && totals.Cost == 0 {
			continue
		}
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), p.String())
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), totals.KWh)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", row), totals.Cost)
		row++
	}

	_ = f.SetCellValue(daysSheet, "A1", "Dia")
	_ = f.SetCellValue(daysSheet, "B1", "Consumo (kWh)")
	for i, d := range sortedDates(inv.DailyKWh) {
		r := i + 2
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("A%d", r), d.ISO())
		_ = f.SetCellValue(daysSheet, fmt.Sprintf("B%d", r), inv.DailyKWh[d])
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
