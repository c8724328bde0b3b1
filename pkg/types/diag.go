package types

import "fmt"

// DiagKind classifies a diagnostic event.
type DiagKind string

const (
	// DiagSchemeEraMismatch is recorded when an explicitly selected scheme
	// disagrees with the regulatory era of a billed date and the
	// era-appropriate default was substituted. It never fails the run.
	DiagSchemeEraMismatch DiagKind = "schemeEraMismatch"
	// DiagPriceFetched is recorded when a date's prices were fetched from
	// the remote source and persisted.
	DiagPriceFetched DiagKind = "priceFetched"
	// DiagPriceCached is recorded when a date's prices were served from the
	// persisted store without network access.
	DiagPriceCached DiagKind = "priceCached"
)

// Diagnostic is one structured event emitted during a billing run.
type Diagnostic struct {
	Kind    DiagKind `json:"kind"`
	Date    Date     `json:"date"`
	Message string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Kind, d.Date, d.Message)
}

// Diagnostics is an append-only sink for events the caller may render or
// discard. It replaces ambient logging for business events so that the same
// run always produces the same invoice regardless of log configuration.
// A nil *Diagnostics is valid and drops everything.
type Diagnostics struct {
	events []Diagnostic
}

// Add records an event. Safe on a nil receiver.
func (d *Diagnostics) Add(kind DiagKind, date Date, format string, args ...any) {
	if d == nil {
		return
	}
	d.events = append(d.events, Diagnostic{
		Kind:    kind,
		Date:    date,
		Message: fmt.Sprintf(format, args...),
	})
}

// Events returns the recorded events in order.
func (d *Diagnostics) Events() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.events
}
