package types

import "fmt"

// Period is a billing time-band. It doubles as an index into fixed-size
// per-period arrays so there is no string-keyed map to typo.
type Period uint8

const (
	// PeriodPeak is P1.
	PeriodPeak Period = iota
	// PeriodShoulder is P2.
	PeriodShoulder
	// PeriodOffPeak is P3.
	PeriodOffPeak

	// NumPeriods sizes per-period arrays.
	NumPeriods
)

func (p Period) String() string {
	switch p {
	case PeriodPeak:
		return "P1"
	case PeriodShoulder:
		return "P2"
	case PeriodOffPeak:
		return "P3"
	}
	return fmt.Sprintf("Period(%d)", uint8(p))
}

// Record is one hour of metered consumption. Hour is 0-23 in the end-hour
// convention: hour h covers the interval [h-1, h), with hour 0 standing for
// the day's final 23:00-24:00 interval (the raw export labels it 24).
type Record struct {
	Date Date    `json:"date"`
	Hour int     `json:"hour"`
	KWh  float64 `json:"kwh"`
}

// PeriodTotals is the running accumulator for one billing period: consumed
// energy and its cost at the hourly prices.
type PeriodTotals struct {
	KWh  float64 `json:"kwh"`
	Cost float64 `json:"cost"`
}
