// Package billing turns classified hourly consumption into an itemized
// invoice: per-period energy costs, the fixed power term, the bono social
// subsidy, the electricity tax, meter rental and VAT.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/polhenarejos/factura-luz/pkg/log"
	"github.com/polhenarejos/factura-luz/pkg/pricing"
	"github.com/polhenarejos/factura-luz/pkg/tariff"
	"github.com/polhenarejos/factura-luz/pkg/types"
)

// Engine computes invoices. The price cache and classifier are pure lookups
// from its point of view; the Engine owns the accumulators and the Invoice.
type Engine struct {
	cache      *pricing.Cache
	classifier *tariff.Classifier
}

// NewEngine wires an Engine over its collaborators.
func NewEngine(cache *pricing.Cache, classifier *tariff.Classifier) *Engine {
	return &Engine{cache: cache, classifier: classifier}
}

// dayContext is everything date-dependent, resolved once per distinct date.
type dayContext struct {
	scheme types.Scheme
	prices pricing.DayPrices
}

// Compute runs one billing pass over the records and returns the invoice.
// Any failure aborts the run with no partial invoice; scheme/era mismatches
// are auto-corrected and recorded on diags instead of failing.
func (e *Engine) Compute(ctx context.Context, records []types.Record, opts Options, diags *types.Diagnostics) (types.Invoice, error) {
	if len(records) == 0 {
		return types.Invoice{}, fmt.Errorf("no consumption records")
	}
	if opts.PeakPowerKW <= 0 {
		return types.Invoice{}, fmt.Errorf("contracted peak power must be positive, got %v", opts.PeakPowerKW)
	}
	offPeakKW := opts.OffPeakPowerKW
	if offPeakKW == 0 {
		offPeakKW = opts.PeakPowerKW
	}

	// Validate every record before the first price lookup so bad input never
	// costs a network round trip.
	for _, r := range records {
		if r.Hour < 0 || r.Hour > 23 {
			return types.Invoice{}, fmt.Errorf("%w: %d on %s", types.ErrInvalidHour, r.Hour, r.Date)
		}
		if r.KWh < 0 {
			return types.Invoice{}, fmt.Errorf("negative consumption %v kWh on %s hour %d", r.KWh, r.Date, r.Hour)
		}
	}

	dates := distinctDates(records)
	days := make(map[types.Date]dayContext, len(dates))
	for _, d := range dates {
		scheme := tariff.Resolve(opts.Scheme, d, opts.CeutaMelilla, diags)
		series, err := tariff.SeriesID(scheme)
		if err != nil {
			return types.Invoice{}, err
		}
		prices, err := e.cache.Day(ctx, d, series, diags)
		if err != nil {
			return types.Invoice{}, err
		}
		days[d] = dayContext{scheme: scheme, prices: prices}
	}

	inv := types.Invoice{
		Scheme:      opts.Scheme,
		BillingDays: len(dates),
		DailyKWh:    make(map[types.Date]float64, len(dates)),
	}

	for _, r := range records {
		day := days[r.Date]
		price, ok := day.prices[r.Hour]
		if !ok {
			return types.Invoice{}, fmt.Errorf("%w: %s hour %d", types.ErrPriceMissing, r.Date, r.Hour)
		}
		period, err := e.classifier.Classify(day.scheme, r.Date, r.Hour)
		if err != nil {
			return types.Invoice{}, err
		}
		inv.Periods[period].KWh += r.KWh
		inv.Periods[period].Cost += price * r.KWh
		inv.TotalKWh += r.KWh
		inv.DailyKWh[r.Date] += r.KWh
		inv.WeekdayKWh[r.Date.Weekday()] += r.KWh
	}

	var energy float64
	for _, p := range inv.Periods {
		energy += p.Cost
	}
	inv.EnergySubtotal = round2(energy)

	// Power term, re-evaluated per date so a period straddling the cutover
	// bills each day under its own coefficients.
	var peakTerm, offPeakTerm float64
	for _, d := range dates {
		if days[d].scheme.PostCutover() {
			peakTerm += opts.PeakPowerKW * (opts.PowerRates.PeakPerKWYear + opts.PowerRates.MarkupPerKWYear) / 365
			offPeakTerm += offPeakKW * opts.PowerRates.ShoulderPerKWYear / 365
		} else {
			peakTerm += opts.PeakPowerKW * (opts.PowerRates.LegacyPerKWYear + opts.PowerRates.MarkupPerKWYear) / 365
		}
	}
	inv.PowerPeakTerm = round2(peakTerm)
	inv.PowerOffPeakTerm = round2(offPeakTerm)
	inv.PowerSubtotal = round2(peakTerm + offPeakTerm)

	inv.Subsidy = e.subsidy(opts, inv)

	inv.TaxableSubtotal = round2(inv.PowerSubtotal + inv.EnergySubtotal - inv.Subsidy)
	inv.ElectricityTax = round2(inv.TaxableSubtotal * opts.ElectricityTaxRate)
	inv.MeterRental = round2(opts.MeterRentalPerYear * float64(inv.BillingDays) / 365)
	inv.PreVATTotal = round2(inv.TaxableSubtotal + inv.ElectricityTax + inv.MeterRental)

	// Effective VAT is the plain mean of the per-date rates, not weighted by
	// consumption.
	var vat float64
	for _, d := range dates {
		vat += opts.VAT.RateFor(d)
	}
	inv.VATRate = vat / float64(len(dates))
	inv.VATAmount = round2(inv.PreVATTotal * inv.VATRate)
	inv.GrandTotal = round2(inv.PreVATTotal + inv.VATAmount)

	log.Ctx(ctx).DebugContext(
		ctx,
		"computed invoice",
		slog.Int("billingDays", inv.BillingDays),
		slog.Float64("totalKWh", inv.TotalKWh),
		slog.Float64("grandTotal", inv.GrandTotal),
	)
	return inv, nil
}

// subsidy computes the bono social discount: the configured rate over the
// power term plus the cap-limited share of the energy term. The annual cap
// is prorated by billing days; consumption past the prorated cap earns no
// further discount but never reduces it either.
func (e *Engine) subsidy(opts Options, inv types.Invoice) float64 {
	if opts.SubsidyTier < 0 || int(opts.SubsidyTier) >= len(annualCapsKWh) {
		return 0
	}
	prorated := annualCapsKWh[opts.SubsidyTier] * float64(inv.BillingDays) / 365

	capFactor := 1.0
	if inv.TotalKWh > prorated {
		capFactor = prorated / inv.TotalKWh
	}

	discount := round2(opts.subsidyRate() * (inv.PowerSubtotal + capFactor*inv.EnergySubtotal))
	if discount <= 0 {
		return 0
	}
	return discount
}

func distinctDates(records []types.Record) []types.Date {
	seen := make(map[types.Date]struct{}, len(records))
	var dates []types.Date
	for _, r := range records {
		if _, ok := seen[r.Date]; !ok {
			seen[r.Date] = struct{}{}
			dates = append(dates, r.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
