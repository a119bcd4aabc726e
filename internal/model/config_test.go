package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinancialConfig_MergeDefaults(t *testing.T) {
	t.Run("empty config gets all defaults", func(t *testing.T) {
		cfg := FinancialConfig{}.MergeDefaults()
		assert.Equal(t, DefaultFinancialConfig(), cfg)
	})

	t.Run("partial config keeps stored values", func(t *testing.T) {
		cfg := FinancialConfig{Salary: 8500, SafetyFloor: 1500}.MergeDefaults()
		assert.InDelta(t, 8500.0, cfg.Salary, 0.001)
		assert.InDelta(t, 1500.0, cfg.SafetyFloor, 0.001)
		assert.InDelta(t, DefaultFinancialConfig().IOFRate, cfg.IOFRate, 0.0001)
		assert.NotZero(t, cfg.MileFactors.MastercardUSD)
	})
}

func TestMileFactors_Factor(t *testing.T) {
	f := MileFactors{
		MastercardBRL: 0.5,
		MastercardUSD: 2.5,
		VisaBRL:       0.3,
		VisaUSD:       1.8,
	}

	assert.InDelta(t, 0.5, f.Factor(NetworkMastercard, false), 0.001)
	assert.InDelta(t, 2.5, f.Factor(NetworkMastercard, true), 0.001)
	assert.InDelta(t, 0.3, f.Factor(NetworkVisa, false), 0.001)
	assert.InDelta(t, 1.8, f.Factor(NetworkVisa, true), 0.001)
}

func TestCategoryRegistry(t *testing.T) {
	r := NewCategoryRegistry()

	assert.Len(t, r.Visible(), len(BuiltinCategories()))

	r.Add("pets")
	assert.Equal(t, "pets", r.Label("pets"))

	assert.True(t, r.Rename(CategoryAjudaMae, "Ajuda Mãe"))
	assert.Equal(t, "Ajuda Mãe", r.Label(CategoryAjudaMae))

	assert.True(t, r.Hide(CategoryLazer))
	for _, c := range r.Visible() {
		assert.NotEqual(t, CategoryLazer, c.Key)
	}

	// Unknown keys fall back to the key itself and refuse mutation.
	assert.Equal(t, "ghost", r.Label("ghost"))
	assert.False(t, r.Rename("ghost", "x"))
	assert.False(t, r.Hide("ghost"))
}
