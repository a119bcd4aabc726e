package parser

import (
	"encoding/csv"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Dan-Lay/moni/internal/model"
)

var (
	dateHeaderRegex   = regexp.MustCompile(`(?i)\b(data|date|dia)\b`)
	amountHeaderRegex = regexp.MustCompile(`(?i)\b(valor|amount|montante|quantia)\b`)
	descHeaderRegex   = regexp.MustCompile(`(?i)(descri|hist[oó]rico|lan[cç]amento|estabelecimento|title|memo)`)

	// "1.234,56" style: a dot followed by exactly three digits and a comma
	// marks the dot as a thousands separator.
	brazilianAmountRegex = regexp.MustCompile(`\d\.\d{3},`)
	commaDecimalRegex    = regexp.MustCompile(`,\d{1,2}$`)
)

var csvDateLayouts = []string{"02/01/2006", "02-01-2006", "2006-01-02"}

// ParseCSV extracts statement rows from delimited text. The delimiter and the
// date/description/amount columns are detected from the header row; without a
// recognizable header, columns fall back to the positional order
// date,description,amount. Rows without a valid date or amount are dropped.
func (p *Parser) ParseCSV(content string) []model.RawRow {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	header := firstNonEmptyLine(lines)
	if header == "" {
		return nil
	}

	delimiter := detectDelimiter(header)

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil || len(records) == 0 {
		slog.Warn("Failed to read CSV content", "error", err)
		return nil
	}

	dateCol, descCol, amountCol, headerMatched := locateColumns(records[0])
	start := 0
	if headerMatched {
		start = 1
	}

	var rows []model.RawRow
	skipped := 0
	for _, record := range records[start:] {
		maxCol := dateCol
		if descCol > maxCol {
			maxCol = descCol
		}
		if amountCol > maxCol {
			maxCol = amountCol
		}
		if len(record) <= maxCol {
			skipped++
			continue
		}

		date, ok := ParseDate(record[dateCol])
		if !ok {
			skipped++
			continue
		}

		amount, ok := ParseAmount(record[amountCol])
		if !ok {
			skipped++
			continue
		}

		rows = append(rows, model.RawRow{
			Date:        date,
			Description: strings.TrimSpace(record[descCol]),
			Amount:      amount,
		})
	}

	if skipped > 0 {
		slog.Debug("Dropped unparseable CSV rows", "skipped", skipped, "parsed", len(rows))
	}

	return rows
}

func firstNonEmptyLine(lines []string) string {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// detectDelimiter picks between ; and , by counting occurrences in the header
// row. Semicolon wins ties: Brazilian bank exports use it together with comma
// decimals.
func detectDelimiter(header string) rune {
	if strings.Count(header, ";") >= strings.Count(header, ",") && strings.Contains(header, ";") {
		return ';'
	}
	return ','
}

// locateColumns matches localized header names to find the date, description,
// and amount columns. Without a header match it falls back to positional
// columns 0=date, 1=description, 2=amount.
func locateColumns(header []string) (dateCol, descCol, amountCol int, matched bool) {
	dateCol, descCol, amountCol = 0, 1, 2

	for i, cell := range header {
		switch {
		case dateHeaderRegex.MatchString(cell):
			dateCol = i
			matched = true
		case amountHeaderRegex.MatchString(cell):
			amountCol = i
			matched = true
		case descHeaderRegex.MatchString(cell):
			descCol = i
			matched = true
		}
	}

	return dateCol, descCol, amountCol, matched
}

// ParseDate accepts dd/mm/yyyy, dd-mm-yyyy, and yyyy-mm-dd.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a statement amount, disambiguating the Brazilian
// "1.234,56" format from the plain "1234.56" format. "999,99" is read as a
// comma-decimal amount.
func ParseAmount(value string) (float64, bool) {
	cleaned := strings.TrimSpace(value)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return 0, false
	}

	switch {
	case brazilianAmountRegex.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case commaDecimalRegex.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
