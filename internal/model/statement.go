package model

import (
	"strings"
	"time"
)

// StatementFormat identifies the file format of an uploaded statement.
type StatementFormat string

const (
	// FormatOFX is the Open Financial Exchange export format.
	FormatOFX StatementFormat = "OFX"
	// FormatCSV is a delimited text export.
	FormatCSV StatementFormat = "CSV"
)

// ParseStatementFormat maps a user-supplied format name to a StatementFormat,
// case-insensitively. Unknown names are rejected.
func ParseStatementFormat(value string) (StatementFormat, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(FormatOFX):
		return FormatOFX, true
	case string(FormatCSV):
		return FormatCSV, true
	}
	return "", false
}

// RawRow is one raw statement line as produced by the parser: just the
// (date, description, amount) triple, before any classification.
type RawRow struct {
	Date        time.Time
	Description string
	Amount      float64
}
