package types

import "fmt"

// Scheme identifies the contracted tariff plan. The regulatory cutover on
// 2021-06-01 split these into two families: 2.0A/2.0DHA/2.0DHS existed only
// before it, 2.0TD (and its Ceuta/Melilla variant) only after.
type Scheme string

const (
	// SchemeSinglePeriod is the legacy 2.0A plan: one period, no banding.
	SchemeSinglePeriod Scheme = "2.0A"
	// SchemeTwoPeriodNight is the legacy 2.0DHA plan with a night discount.
	SchemeTwoPeriodNight Scheme = "2.0DHA"
	// SchemeThreePeriodNight is the legacy 2.0DHS plan with night and
	// supervalle banding.
	SchemeThreePeriodNight Scheme = "2.0DHS"
	// SchemeThreePeriodStandard is the current peninsular 2.0TD plan.
	SchemeThreePeriodStandard Scheme = "2.0TD"
	// SchemeThreePeriodCeutaMelilla is 2.0TD with the Ceuta/Melilla hour
	// windows, shifted one hour later than the peninsular ones.
	SchemeThreePeriodCeutaMelilla Scheme = "2.0TD-CM"
	// SchemeAuto selects the era-appropriate default for each billed date.
	SchemeAuto Scheme = "auto"
)

// ParseScheme maps a selector string to a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case SchemeSinglePeriod, SchemeTwoPeriodNight, SchemeThreePeriodNight,
		SchemeThreePeriodStandard, SchemeThreePeriodCeutaMelilla, SchemeAuto:
		return Scheme(s), nil
	}
	return "", fmt.Errorf("unknown tariff scheme: %s", s)
}

// PostCutover reports whether the scheme belongs to the post-cutover family.
// SchemeAuto belongs to neither; it resolves per date.
func (s Scheme) PostCutover() bool {
	return s == SchemeThreePeriodStandard || s == SchemeThreePeriodCeutaMelilla
}
