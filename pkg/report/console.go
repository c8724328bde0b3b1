// Package report renders a computed invoice for humans: the classic console
// printout, a PDF to archive next to the utility's bill, and an XLSX with the
// consumption statistics.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

// WriteConsole prints the itemized invoice to w, with the optional
// statistics block appended.
func WriteConsole(w io.Writer, inv types.Invoice, stats bool) {
	for p := types.Period(0); p < types.NumPeriods; p++ {
		totals := inv.Periods[p]
		if totals.KWh == 0 && totals.Cost == 0 {
			continue
		}
		fmt.Fprintf(w, "Periodo %s: %.3f kWh (%.2f)\n", p, totals.KWh, totals.Cost)
	}

	fmt.Fprintf(w, "Precio kWh: %.2f\n", inv.EnergySubtotal)
	fmt.Fprintf(w, "Precio kW: %.2f\n", inv.PowerSubtotal)
	if inv.Subsidy > 0 {
		fmt.Fprintf(w, "Descuento bono social: %.2f\n", -inv.Subsidy)
	}
	fmt.Fprintf(w, "Subtotal: %.2f\n", inv.TaxableSubtotal)
	fmt.Fprintf(w, "Impuesto electricidad: %.2f\n", inv.ElectricityTax)
	fmt.Fprintf(w, "Alquiler contador: %.2f\n", inv.MeterRental)
	fmt.Fprintf(w, "Total: %.2f\n", inv.PreVATTotal)
	fmt.Fprintf(w, "IVA (%d%%): %.2f\n", DisplayVATPercent(inv), inv.VATAmount)
	fmt.Fprintf(w, "TOTAL con IVA: %.2f\n", inv.GrandTotal)

	if stats {
		fmt.Fprintf(w, "\nConsumo total: %.3f kWh en %d dias\n", inv.TotalKWh, inv.BillingDays)
		for _, d := range sortedDates(inv.DailyKWh) {
			fmt.Fprintf(w, "  %s: %.3f kWh\n", d, inv.DailyKWh[d])
		}
		for i, kwh := range inv.WeekdayKWh {
			if kwh == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s: %.3f kWh\n", types.WeekdayName(i), kwh)
		}
	}
}

// DisplayVATPercent is the effective VAT rate as a whole percent, for
// display only; the invoice keeps the exact rate.
func DisplayVATPercent(inv types.Invoice) int {
	return int(math.Round(inv.VATRate * 100))
}

func sortedDates(daily map[types.Date]float64) []types.Date {
	dates := make([]types.Date, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
