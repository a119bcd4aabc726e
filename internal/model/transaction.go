// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Source identifies which card/bank issued a transaction.
type Source string

const (
	// SourceSantander is the reward-earning card issuer.
	SourceSantander Source = "santander"
	// SourceBradesco is a non-reward card issuer.
	SourceBradesco Source = "bradesco"
	// SourceNubank is a non-reward card issuer.
	SourceNubank Source = "nubank"
	// SourceUnknown is used when no issuer can be detected.
	SourceUnknown Source = "unknown"
)

// ReconciliationStatus tracks a transaction through the reconciliation lifecycle.
type ReconciliationStatus string

const (
	// StatusPendente marks a manually created entry awaiting a statement match.
	StatusPendente ReconciliationStatus = "pendente"
	// StatusNovo marks a row inserted from a statement upload with no prior match.
	StatusNovo ReconciliationStatus = "novo"
	// StatusConciliadoAuto marks a planned/manual entry merged with an upload.
	StatusConciliadoAuto ReconciliationStatus = "conciliado_auto"
	// StatusJaConciliado marks a prior upload confirmed by a re-upload.
	StatusJaConciliado ReconciliationStatus = "ja_conciliado"
)

// SpouseProfile attributes a transaction to a household member.
type SpouseProfile string

const (
	// ProfileMarido attributes to the husband.
	ProfileMarido SpouseProfile = "marido"
	// ProfileEsposa attributes to the wife.
	ProfileEsposa SpouseProfile = "esposa"
	// ProfileFamilia attributes to the household as a whole.
	ProfileFamilia SpouseProfile = "familia"
)

// Transaction represents a single financial transaction, either uploaded from
// a bank statement or entered manually. Amounts are signed: negative is an
// expense, positive is income.
type Transaction struct {
	Date            time.Time
	ID              string
	Description     string // Raw statement text; source of truth for re-matching
	TreatedName     string // Optional user-friendly override; never used for matching
	Establishment   string // Normalized merchant name
	Source          Source
	Category        string
	Status          ReconciliationStatus
	SpouseProfile   SpouseProfile
	Amount          float64
	IOFAmount       float64
	MilesGenerated  int
	IsInternational bool
	IsInefficient   bool
	Confirmed       bool
}

// GenerateFingerprint creates a stable hash for duplicate detection across
// uploads. Description is normalized so whitespace noise in exports does not
// change the fingerprint.
func (t *Transaction) GenerateFingerprint() string {
	data := fmt.Sprintf("%s|%.2f|%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		NormalizeDescription(t.Description))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

var whitespaceRun = regexp.MustCompile(`\s{2,}`)

// NormalizeDescription collapses runs of whitespace, trims, and lowercases a
// statement description. Reconciliation matches require exact equality of the
// normalized forms.
func NormalizeDescription(desc string) string {
	return strings.ToLower(strings.TrimSpace(whitespaceRun.ReplaceAllString(desc, " ")))
}

// IsFromUpload reports whether the transaction originated from a statement
// upload rather than a manual/planned entry.
func (t *Transaction) IsFromUpload() bool {
	return t.Status == StatusNovo || t.Status == StatusJaConciliado
}

// DisplayName returns the user-facing name for the transaction.
func (t *Transaction) DisplayName() string {
	if t.TreatedName != "" {
		return t.TreatedName
	}
	return t.Description
}
