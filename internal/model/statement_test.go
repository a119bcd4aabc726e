package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatementFormat(t *testing.T) {
	tests := []struct {
		input string
		want  StatementFormat
		ok    bool
	}{
		{"OFX", FormatOFX, true},
		{"ofx", FormatOFX, true},
		{"CSV", FormatCSV, true},
		{"csv", FormatCSV, true},
		{" Csv ", FormatCSV, true},
		{"qif", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatementFormat(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
