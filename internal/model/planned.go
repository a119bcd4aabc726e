package model

import "time"

// Recurrence describes how often a planned entry repeats.
type Recurrence string

const (
	// RecurrenceUnico is a one-off planned entry.
	RecurrenceUnico Recurrence = "unico"
	// RecurrenceMensal repeats every month on the due date's day.
	RecurrenceMensal Recurrence = "mensal"
	// RecurrenceSemanal repeats every week.
	RecurrenceSemanal Recurrence = "semanal"
	// RecurrenceAnual repeats every year.
	RecurrenceAnual Recurrence = "anual"
)

// PlannedEntry is a budgeted transaction the user expects to happen. It stays
// unreconciled until the reconciliation engine (or a manual toggle) matches it
// to an uploaded transaction.
type PlannedEntry struct {
	DueDate       time.Time
	ID            string
	Name          string
	Category      string
	Recurrence    Recurrence
	SpouseProfile SpouseProfile
	Amount        float64
	RealAmount    *float64 // Set once matched to an actual transaction
	Conciliado    bool
}

// Occurrences expands the entry into concrete due dates inside [start, end).
// A unico entry yields at most its own due date; recurring entries yield one
// date per period.
func (p *PlannedEntry) Occurrences(start, end time.Time) []time.Time {
	var dates []time.Time
	switch p.Recurrence {
	case RecurrenceMensal:
		d := time.Date(start.Year(), start.Month(), p.DueDate.Day(), 0, 0, 0, 0, time.UTC)
		if d.Before(start) {
			d = d.AddDate(0, 1, 0)
		}
		for d.Before(end) {
			dates = append(dates, d)
			d = d.AddDate(0, 1, 0)
		}
	case RecurrenceSemanal:
		d := p.DueDate
		for d.Before(start) {
			d = d.AddDate(0, 0, 7)
		}
		for d.Before(end) {
			dates = append(dates, d)
			d = d.AddDate(0, 0, 7)
		}
	case RecurrenceAnual:
		d := p.DueDate
		for d.Before(start) {
			d = d.AddDate(1, 0, 0)
		}
		for d.Before(end) {
			dates = append(dates, d)
			d = d.AddDate(1, 0, 0)
		}
	default:
		if !p.DueDate.Before(start) && p.DueDate.Before(end) {
			dates = append(dates, p.DueDate)
		}
	}
	return dates
}
