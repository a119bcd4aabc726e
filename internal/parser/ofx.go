package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/Dan-Lay/moni/internal/model"
)

var (
	stmtTrnRegex  = regexp.MustCompile(`(?s)<STMTTRN>(.*?)</STMTTRN>`)
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in bank OFX exports before the
// strict parser sees them.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style exports sometimes drop the closing angle bracket on a tag
	// that ends its line.
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseOFX extracts statement rows from OFX content. Well-formed files go
// through the typed ofxgo parser; files it rejects fall back to a lenient
// block scan. In both paths a block missing its posted date, amount, or any
// usable description (NAME and MEMO both absent) is skipped and parsing
// continues with the next block.
func (p *Parser) ParseOFX(content string) []model.RawRow {
	processed := preprocessOFX(content)

	if resp, err := ofxgo.ParseResponse(strings.NewReader(processed)); err == nil {
		return rowsFromResponse(resp)
	} else {
		slog.Debug("Strict OFX parse failed, scanning blocks", "error", err)
	}

	return scanStmtTrnBlocks(processed)
}

func rowsFromResponse(resp *ofxgo.Response) []model.RawRow {
	var rows []model.RawRow

	appendTxns := func(txns []ofxgo.Transaction) {
		for _, ofxTx := range txns {
			amount, _ := ofxTx.TrnAmt.Float64()
			desc := string(ofxTx.Name)
			if desc == "" {
				desc = string(ofxTx.Memo)
			}
			if desc == "" {
				continue
			}
			rows = append(rows, model.RawRow{
				Date:        truncateToDay(ofxTx.DtPosted.Time),
				Description: desc,
				Amount:      amount,
			})
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			appendTxns(stmt.BankTranList.Transactions)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			appendTxns(stmt.BankTranList.Transactions)
		}
	}

	return rows
}

// scanStmtTrnBlocks is the lenient path for SGML exports the strict parser
// rejects: pull each <STMTTRN> block and read its fields with regexes.
func scanStmtTrnBlocks(content string) []model.RawRow {
	var rows []model.RawRow
	skipped := 0

	for _, match := range stmtTrnRegex.FindAllStringSubmatch(content, -1) {
		block := match[1]

		date, ok := parseOFXDate(ofxField(block, "DTPOSTED"))
		if !ok {
			skipped++
			continue
		}

		amount, err := strconv.ParseFloat(strings.Replace(ofxField(block, "TRNAMT"), ",", ".", 1), 64)
		if err != nil {
			skipped++
			continue
		}

		desc := ofxField(block, "NAME")
		if desc == "" {
			desc = ofxField(block, "MEMO")
		}
		if desc == "" {
			skipped++
			continue
		}

		rows = append(rows, model.RawRow{
			Date:        date,
			Description: strings.TrimSpace(desc),
			Amount:      amount,
		})
	}

	if skipped > 0 {
		slog.Warn("Skipped malformed OFX blocks", "skipped", skipped, "parsed", len(rows))
	}

	return rows
}

// ofxField reads the value of an SGML tag inside a block. Values run to the
// next tag or end of line; closing tags are optional in SGML OFX.
func ofxField(block, tag string) string {
	re := regexp.MustCompile(`<` + tag + `>([^<\r\n]*)`)
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseOFXDate reads the YYYYMMDD prefix of an OFX date stamp, ignoring any
// time and timezone suffix.
func parseOFXDate(value string) (time.Time, bool) {
	if len(value) < 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", value[:8])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
