package types

import "time"

// Invoice is the final breakdown for one billing run. All monetary fields are
// rounded to 2 decimals except VATRate, which is the raw effective rate (the
// renderer rounds it to a whole percent for display). An Invoice is built
// once and never mutated afterward.
type Invoice struct {
	Scheme      Scheme `json:"scheme"`
	BillingDays int    `json:"billingDays"`

	// Per-period energy breakdown. Schemes with fewer bands leave the unused
	// entries zeroed.
	Periods  [NumPeriods]PeriodTotals `json:"periods"`
	TotalKWh float64                  `json:"totalKWh"`

	EnergySubtotal float64 `json:"energySubtotal"`

	// Power term, split into the component billed on contracted peak power
	// (including the commercialization markup) and the one billed on
	// contracted off-peak power.
	PowerPeakTerm    float64 `json:"powerPeakTerm"`
	PowerOffPeakTerm float64 `json:"powerOffPeakTerm"`
	PowerSubtotal    float64 `json:"powerSubtotal"`

	Subsidy         float64 `json:"subsidy"`
	TaxableSubtotal float64 `json:"taxableSubtotal"`
	ElectricityTax  float64 `json:"electricityTax"`
	MeterRental     float64 `json:"meterRental"`
	PreVATTotal     float64 `json:"preVATTotal"`
	VATRate         float64 `json:"vatRate"`
	VATAmount       float64 `json:"vatAmount"`
	GrandTotal      float64 `json:"grandTotal"`

	// Reporting aggregates. Auxiliary output only; they never feed into the
	// financial totals above.
	DailyKWh   map[Date]float64 `json:"dailyKWh"`
	WeekdayKWh [7]float64       `json:"weekdayKWh"`
}

// WeekdayName returns the label for a WeekdayKWh index.
func WeekdayName(i int) string {
	return time.Weekday(i).String()
}
