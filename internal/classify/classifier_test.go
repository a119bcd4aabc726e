package classify

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan-Lay/moni/internal/model"
)

func testClassifier() *Classifier {
	i := 0
	return NewClassifier(model.FinancialConfig{}, func() string {
		i++
		return fmt.Sprintf("tx-%d", i)
	})
}

func row(desc string, amount float64) model.RawRow {
	return model.RawRow{
		Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: desc,
		Amount:      amount,
	}
}

func TestDetectSource(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		fileHint string
		want     model.Source
	}{
		{"santander in description", "COMPRA SANTANDER MC", "", model.SourceSantander},
		{"bradesco in description", "PGTO FATURA BRADESCO", "", model.SourceBradesco},
		{"nubank in file hint", "UBER TRIP", "nubank_marco.csv", model.SourceNubank},
		{"case insensitive", "compra Santander", "", model.SourceSantander},
		{"santander wins over nubank", "SANTANDER VIA NUBANK", "", model.SourceSantander},
		{"no match", "MERCADO X", "extrato.csv", model.SourceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSource(tt.desc, tt.fileHint))
		})
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		// Supermarket rule must win over the generic compras catch-all.
		{"ASSAI ATACADISTA COMPRA", model.CategorySupermercado},
		{"CARREFOUR SP", model.CategorySupermercado},
		{"IFOOD *RESTAURANTE", model.CategoryAlimentacao},
		{"UBER *TRIP", model.CategoryTransporte},
		{"POSTO IPIRANGA", model.CategoryTransporte},
		{"PIX MAE", model.CategoryAjudaMae},
		{"DROGASIL 123", model.CategorySaude},
		{"NETFLIX.COM", model.CategoryLazer},
		{"TESOURO DIRETO", model.CategoryInvestimentos},
		{"CONDOMINIO ED AURORA", model.CategoryFixas},
		{"AMAZON MARKETPLACE", model.CategoryCompras},
		{"COMPRA LOJA QUALQUER", model.CategoryCompras},
		{"ZZZ DESCONHECIDO", model.CategoryOutros},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCategory(tt.desc))
		})
	}
}

func TestDetectInternational(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"AMAZON.COM SEATTLE USD", true},
		{"PAYPAL INTL", true},
		{"COMPRA DOLAR TURISMO", true},
		{"SPOTIFY.COM", true},
		{"AMERICANAS.COM.BR", false},
		{"MAGAZINELUIZA.COM.BR SP", false},
		{"PADARIA DO ZE", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectInternational(tt.desc))
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(model.FinancialConfig{}, func() string { return "fixed" })
	r := row("COMPRA SANTANDER ASSAI ATACADISTA", -230.50)

	first := c.Classify(r, "extrato.ofx")
	second := c.Classify(r, "extrato.ofx")
	assert.Equal(t, first, second)
}

func TestClassify_MilesAndIOF(t *testing.T) {
	cfg := model.FinancialConfig{
		DollarRate: 5.0,
		IOFRate:    0.0438,
		MileFactors: model.MileFactors{
			MastercardBRL: 0.4,
			MastercardUSD: 2.0,
			VisaBRL:       0.4,
			VisaUSD:       2.0,
		},
	}
	c := NewClassifier(cfg, func() string { return "id" })

	t.Run("domestic reward spend earns miles, no IOF", func(t *testing.T) {
		tx := c.Classify(row("COMPRA SANTANDER MERCADO", -500), "")
		// 500 / 5.0 * 0.4 = 40
		assert.Equal(t, 40, tx.MilesGenerated)
		assert.Zero(t, tx.IOFAmount)
		assert.False(t, tx.IsInefficient)
	})

	t.Run("international reward spend pays IOF and earns USD-factor miles", func(t *testing.T) {
		tx := c.Classify(row("SANTANDER AMAZON.COM USD", -500), "")
		require.True(t, tx.IsInternational)
		// IOF = 500 * 0.0438 = 21.90; (500+21.90) / 5.0 * 2.0 = 208.76 → 209
		assert.InDelta(t, 21.90, tx.IOFAmount, 0.001)
		assert.Equal(t, 209, tx.MilesGenerated)
	})

	t.Run("credits never earn miles", func(t *testing.T) {
		tx := c.Classify(row("ESTORNO SANTANDER", 500), "")
		assert.Zero(t, tx.MilesGenerated)
		assert.Zero(t, tx.IOFAmount)
	})

	t.Run("non-reward issuers earn nothing and are inefficient", func(t *testing.T) {
		tx := c.Classify(row("NUBANK COMPRA MERCADO", -500), "")
		assert.Zero(t, tx.MilesGenerated)
		assert.Zero(t, tx.IOFAmount)
		assert.True(t, tx.IsInefficient)
	})

	t.Run("unknown source still categorized but earns nothing", func(t *testing.T) {
		tx := c.Classify(row("ASSAI ATACADISTA", -100), "")
		assert.Equal(t, model.CategorySupermercado, tx.Category)
		assert.Equal(t, model.SourceUnknown, tx.Source)
		assert.Zero(t, tx.MilesGenerated)
	})
}

// Miles and IOF must be non-negative for every input, and zero whenever the
// source is not the reward issuer or the amount is a credit.
func TestClassify_MilesZeroFloor(t *testing.T) {
	c := testClassifier()

	descs := []string{
		"COMPRA SANTANDER X", "BRADESCO Y", "NUBANK Z", "PLAIN MERCHANT",
		"SANTANDER AMAZON.COM USD", "VISA SANTANDER INTL",
	}
	amounts := []float64{-1000, -0.01, 0, 0.01, 2500}

	for _, desc := range descs {
		for _, amount := range amounts {
			tx := c.Classify(row(desc, amount), "")
			assert.GreaterOrEqual(t, tx.MilesGenerated, 0, "%s %f", desc, amount)
			assert.GreaterOrEqual(t, tx.IOFAmount, 0.0, "%s %f", desc, amount)
			if tx.Source != model.SourceSantander || amount >= 0 {
				assert.Zero(t, tx.MilesGenerated, "%s %f", desc, amount)
				assert.Zero(t, tx.IOFAmount, "%s %f", desc, amount)
			}
		}
	}
}

func TestExtractEstablishment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strips compra prefix", "COMPRA ASSAI ATACADISTA", "ASSAI ATACADISTA"},
		{"strips stacked prefixes", "PIX TRANSF JOAO DA SILVA", "JOAO DA SILVA"},
		{"collapses whitespace", "UBER   TRIP    SP", "UBER TRIP SP"},
		{"keeps plain names", "PADARIA DO ZE", "PADARIA DO ZE"},
		{"truncates to 50 chars", "COMPRA " + "ABCDEFGHIJ" + "ABCDEFGHIJ" + "ABCDEFGHIJ" + "ABCDEFGHIJ" + "ABCDEFGHIJ" + "XYZ",
			"ABCDEFGHIJABCDEFGHIJABCDEFGHIJABCDEFGHIJABCDEFGHIJ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEstablishment(tt.input))
		})
	}
}
