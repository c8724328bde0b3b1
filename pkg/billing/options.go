package billing

import (
	"fmt"
	"time"

	"github.com/polhenarejos/factura-luz/pkg/types"
)

// SubsidyTier selects the bono social annual consumption cap. SubsidyNone
// disables the subsidy entirely.
type SubsidyTier int

const SubsidyNone SubsidyTier = -1

// Annual kWh caps per tier, prorated over the billing period.
var annualCapsKWh = [4]float64{1380, 1932, 2346, 4140}

// ParseSubsidyTier maps the CLI selector ("none", "0".."3") to a tier.
func ParseSubsidyTier(s string) (SubsidyTier, error) {
	switch s {
	case "none", "":
		return SubsidyNone, nil
	case "0":
		return 0, nil
	case "1":
		return 1, nil
	case "2":
		return 2, nil
	case "3":
		return 3, nil
	}
	return 0, fmt.Errorf("unknown subsidy tier: %s", s)
}

const (
	subsidyRateStandard = 0.25
	subsidyRateSevere   = 0.40
)

// PowerRates are the published per-kW-year coefficients for the fixed power
// term. Post-cutover dates bill peak and shoulder coefficients on the two
// contracted powers plus the commercialization markup; pre-cutover dates bill
// the single legacy coefficient plus the markup on peak power only.
type PowerRates struct {
	PeakPerKWYear     float64
	ShoulderPerKWYear float64
	MarkupPerKWYear   float64
	LegacyPerKWYear   float64
}

// DefaultPowerRates returns the published 2021 coefficients.
func DefaultPowerRates() PowerRates {
	return PowerRates{
		PeakPerKWYear:     30.67266,
		ShoulderPerKWYear: 1.4243591,
		MarkupPerKWYear:   3.113,
		LegacyPerKWYear:   38.043426,
	}
}

// VATConfig defines the VAT policy: the standard rate, and a reduced rate
// inside a closed date window.
type VATConfig struct {
	StandardRate float64
	ReducedRate  float64
	// ReducedFrom/ReducedTo bound the reduced-rate window, inclusive.
	// NOTE: published calculators disagree on the window start for the 2021
	// relief measure: 2021-06-01 in some, 2021-06-26 in others. The boundary
	// is configurable so a disputed June-2021 bill can be checked both ways;
	// confirm with the utility which one applies before relying on either.
	ReducedFrom types.Date
	ReducedTo   types.Date
}

// DefaultVAT returns the 21%/10% policy with the 2021 relief window.
func DefaultVAT() VATConfig {
	return VATConfig{
		StandardRate: 0.21,
		ReducedRate:  0.10,
		ReducedFrom:  types.MustDate(2021, time.June, 1),
		ReducedTo:    types.MustDate(2021, time.December, 31),
	}
}

// RateFor returns the VAT rate applying on one date.
func (v VATConfig) RateFor(d types.Date) float64 {
	if !d.Before(v.ReducedFrom) && !d.After(v.ReducedTo) {
		return v.ReducedRate
	}
	return v.StandardRate
}

// Options configure one billing run. Exactly one scheme selector applies to
// the whole run; era resolution still happens per date.
type Options struct {
	Scheme       types.Scheme
	CeutaMelilla bool

	// PeakPowerKW is the contracted power, required. OffPeakPowerKW defaults
	// to PeakPowerKW when zero.
	PeakPowerKW    float64
	OffPeakPowerKW float64

	SubsidyTier SubsidyTier
	Severe      bool

	PowerRates         PowerRates
	VAT                VATConfig
	ElectricityTaxRate float64
	MeterRentalPerYear float64
}

// DefaultOptions returns Options with the published constants and the
// era-resolved automatic scheme. PeakPowerKW must still be set by the caller.
func DefaultOptions() Options {
	return Options{
		Scheme:             types.SchemeAuto,
		SubsidyTier:        SubsidyNone,
		PowerRates:         DefaultPowerRates(),
		VAT:                DefaultVAT(),
		ElectricityTaxRate: 0.0511269632,
		MeterRentalPerYear: 9.72,
	}
}

func (o Options) subsidyRate() float64 {
	if o.Severe {
		return subsidyRateSevere
	}
	return subsidyRateStandard
}
