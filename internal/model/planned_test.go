package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestPlannedEntryOccurrences(t *testing.T) {
	start := d(2026, 3, 1)
	end := d(2026, 6, 1)

	tests := []struct {
		name  string
		entry PlannedEntry
		want  []time.Time
	}{
		{
			name:  "unico inside range",
			entry: PlannedEntry{Recurrence: RecurrenceUnico, DueDate: d(2026, 4, 10)},
			want:  []time.Time{d(2026, 4, 10)},
		},
		{
			name:  "unico before range",
			entry: PlannedEntry{Recurrence: RecurrenceUnico, DueDate: d(2026, 2, 10)},
			want:  nil,
		},
		{
			name:  "mensal repeats on the due day",
			entry: PlannedEntry{Recurrence: RecurrenceMensal, DueDate: d(2026, 1, 5)},
			want:  []time.Time{d(2026, 3, 5), d(2026, 4, 5), d(2026, 5, 5)},
		},
		{
			name:  "semanal advances into the range",
			entry: PlannedEntry{Recurrence: RecurrenceSemanal, DueDate: d(2026, 2, 23)},
			want: []time.Time{
				d(2026, 3, 2), d(2026, 3, 9), d(2026, 3, 16), d(2026, 3, 23), d(2026, 3, 30),
				d(2026, 4, 6), d(2026, 4, 13), d(2026, 4, 20), d(2026, 4, 27),
				d(2026, 5, 4), d(2026, 5, 11), d(2026, 5, 18), d(2026, 5, 25),
			},
		},
		{
			name:  "anual lands once inside the range",
			entry: PlannedEntry{Recurrence: RecurrenceAnual, DueDate: d(2024, 4, 15)},
			want:  []time.Time{d(2026, 4, 15)},
		},
		{
			name:  "anual outside the range",
			entry: PlannedEntry{Recurrence: RecurrenceAnual, DueDate: d(2024, 7, 15)},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.entry.Occurrences(start, end))
		})
	}
}
