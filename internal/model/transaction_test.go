package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "collapses whitespace runs",
			input: "PIX  TRANSF   JOAO",
			want:  "pix transf joao",
		},
		{
			name:  "trims and lowercases",
			input: "  Compra Cartao  ",
			want:  "compra cartao",
		},
		{
			name:  "single spaces untouched",
			input: "uber trip",
			want:  "uber trip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDescription(tt.input))
		})
	}
}

func TestTransaction_GenerateFingerprint(t *testing.T) {
	base := Transaction{
		Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Description: "ASSAI ATACADISTA",
		Amount:      -230.50,
	}

	t.Run("stable for identical inputs", func(t *testing.T) {
		other := base
		assert.Equal(t, base.GenerateFingerprint(), other.GenerateFingerprint())
	})

	t.Run("whitespace noise does not change it", func(t *testing.T) {
		noisy := base
		noisy.Description = "ASSAI   ATACADISTA "
		assert.Equal(t, base.GenerateFingerprint(), noisy.GenerateFingerprint())
	})

	t.Run("amount changes it", func(t *testing.T) {
		other := base
		other.Amount = -230.51
		assert.NotEqual(t, base.GenerateFingerprint(), other.GenerateFingerprint())
	})

	t.Run("date changes it", func(t *testing.T) {
		other := base
		other.Date = base.Date.AddDate(0, 0, 1)
		assert.NotEqual(t, base.GenerateFingerprint(), other.GenerateFingerprint())
	})
}

func TestTransaction_IsFromUpload(t *testing.T) {
	assert.True(t, (&Transaction{Status: StatusNovo}).IsFromUpload())
	assert.True(t, (&Transaction{Status: StatusJaConciliado}).IsFromUpload())
	assert.False(t, (&Transaction{Status: StatusPendente}).IsFromUpload())
	assert.False(t, (&Transaction{Status: StatusConciliadoAuto}).IsFromUpload())
}
