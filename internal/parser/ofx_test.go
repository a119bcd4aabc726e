package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Raw SGML statements, as Brazilian banks actually export them: no XML
// declaration, optional closing tags. The strict parser rejects these, so
// they exercise the lenient block scanner.
const sgmlStatement = `OFXHEADER:100
DATA:OFXSGML

<OFX>
<BANKMSGSRSV1>
<STMTTRNRS>
<BANKTRANLIST>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240310120000[-3:BRT]
<TRNAMT>-230.50
<NAME>COMPRA ASSAI ATACADISTA
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240311
<TRNAMT>1500.00
<MEMO>PIX RECEBIDO SALARIO
</STMTTRN>
</BANKTRANLIST>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseOFX_SGMLStatement(t *testing.T) {
	rows := NewParser().ParseOFX(sgmlStatement)
	require.Len(t, rows, 2)

	assert.Equal(t, "COMPRA ASSAI ATACADISTA", rows[0].Description)
	assert.InDelta(t, -230.50, rows[0].Amount, 0.001)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), rows[0].Date)

	// NAME absent, MEMO used as fallback.
	assert.Equal(t, "PIX RECEBIDO SALARIO", rows[1].Description)
	assert.InDelta(t, 1500.00, rows[1].Amount, 0.001)
}

func TestParseOFX_SkipsBlocksMissingFields(t *testing.T) {
	content := `<OFX>
<STMTTRN>
<TRNAMT>-10.00
<NAME>MISSING DATE
</STMTTRN>
<STMTTRN>
<DTPOSTED>20240312
<NAME>MISSING AMOUNT
</STMTTRN>
<STMTTRN>
<DTPOSTED>20240313
<TRNAMT>-30.00
<NAME>GOOD BLOCK
</STMTTRN>
</OFX>`

	rows := NewParser().ParseOFX(content)
	require.Len(t, rows, 1)
	assert.Equal(t, "GOOD BLOCK", rows[0].Description)
	assert.InDelta(t, -30.00, rows[0].Amount, 0.001)
}

// A block with a date and amount but neither NAME nor MEMO has nothing to
// classify or fingerprint on; it must be dropped instead of producing a row
// with an empty description that storage later rejects.
func TestParseOFX_SkipsBlocksMissingDescription(t *testing.T) {
	content := `<OFX>
<STMTTRN>
<DTPOSTED>20240310
<TRNAMT>-120.00
<NAME>COMPRA MERCADO
</STMTTRN>
<STMTTRN>
<DTPOSTED>20240311
<TRNAMT>-55.00
</STMTTRN>
</OFX>`

	rows := NewParser().ParseOFX(content)
	require.Len(t, rows, 1)
	assert.Equal(t, "COMPRA MERCADO", rows[0].Description)
}

func TestParseOFX_CommaDecimalAmount(t *testing.T) {
	content := `<OFX>
<STMTTRN>
<DTPOSTED>20240315
<TRNAMT>-45,90
<NAME>FARMACIA SANTANDER
</STMTTRN>
</OFX>`

	rows := NewParser().ParseOFX(content)
	require.Len(t, rows, 1)
	assert.InDelta(t, -45.90, rows[0].Amount, 0.001)
}

func TestParseOFX_EmptyContent(t *testing.T) {
	assert.Empty(t, NewParser().ParseOFX(""))
	assert.Empty(t, NewParser().ParseOFX("<OFX></OFX>"))
}

func TestPreprocessOFX(t *testing.T) {
	t.Run("uppercases severity", func(t *testing.T) {
		got := preprocessOFX("<SEVERITY>Info</SEVERITY>")
		assert.Equal(t, "<SEVERITY>INFO</SEVERITY>", got)
	})

	t.Run("closes dangling tags", func(t *testing.T) {
		got := preprocessOFX("<BANKTRANLIST\n")
		assert.Contains(t, got, "<BANKTRANLIST>")
	})

	t.Run("trims leading blank lines", func(t *testing.T) {
		got := preprocessOFX("\n\n  OFXHEADER:100")
		assert.Equal(t, "OFXHEADER:100", got)
	})
}
