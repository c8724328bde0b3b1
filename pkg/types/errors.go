package types

import "errors"

var (
	// ErrInvalidDate indicates a date string that could not be parsed or a
	// date that does not exist on the calendar.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidHour indicates an hour outside 0-23 after normalization.
	ErrInvalidHour = errors.New("invalid hour")

	// ErrPriceUnavailable indicates the remote price source was unreachable
	// or returned malformed data and no persisted copy exists.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrPriceMissing indicates a consumption record whose date/hour has no
	// corresponding cached price. This is a data-integrity failure between
	// the export and the price archive, not a transient condition.
	ErrPriceMissing = errors.New("price missing")
)
