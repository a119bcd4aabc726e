// Package parser turns raw OFX/CSV statement exports into sequences of raw
// (date, description, amount) rows. Malformed rows and blocks are skipped,
// never surfaced as errors: absence from the output is the signal.
package parser

import (
	"strings"

	"github.com/Dan-Lay/moni/internal/common"
	"github.com/Dan-Lay/moni/internal/model"
)

// Parser implements statement parsing for the supported export formats.
type Parser struct{}

// NewParser creates a new statement parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse dispatches on format and returns the parsed rows in source order.
// A single pass is made over the content.
func (p *Parser) Parse(content string, format model.StatementFormat) ([]model.RawRow, error) {
	switch format {
	case model.FormatOFX:
		return p.ParseOFX(content), nil
	case model.FormatCSV:
		return p.ParseCSV(content), nil
	default:
		return nil, common.ErrUnsupportedFormat
	}
}

// DetectFormat guesses the statement format from the file name and content.
func DetectFormat(fileName, content string) model.StatementFormat {
	lower := strings.ToLower(fileName)
	if strings.HasSuffix(lower, ".ofx") || strings.HasSuffix(lower, ".qfx") {
		return model.FormatOFX
	}
	if strings.HasSuffix(lower, ".csv") {
		return model.FormatCSV
	}
	if strings.Contains(content, "<OFX>") || strings.Contains(content, "<STMTTRN>") {
		return model.FormatOFX
	}
	return model.FormatCSV
}
