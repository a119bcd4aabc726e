// Package classify assigns category, source, reward miles, and tax surcharge
// to raw statement rows. Classification is a total pure function of the input
// row plus the static rule tables and the household config: it never fails,
// unmatched patterns fall through to the defaults.
package classify

import (
	"math"
	"regexp"
	"strings"

	"github.com/Dan-Lay/moni/internal/model"
	"github.com/Dan-Lay/moni/internal/service"
)

// Classifier turns raw rows into classified transactions.
type Classifier struct {
	newID service.IDGenerator
	cfg   model.FinancialConfig
}

// NewClassifier creates a classifier with the given household config and
// id generator. The generator is injected so the classifier owns no counter
// state.
func NewClassifier(cfg model.FinancialConfig, newID service.IDGenerator) *Classifier {
	return &Classifier{cfg: cfg.MergeDefaults(), newID: newID}
}

// Classify builds a transaction from a raw row. The file hint (typically the
// upload's file name) participates in source detection only. The
// reconciliation status is left unset for the reconciliation engine to fill.
func (c *Classifier) Classify(row model.RawRow, fileHint string) model.Transaction {
	source := DetectSource(row.Description, fileHint)
	international := DetectInternational(row.Description)
	miles, iof := c.milesAndIOF(row.Amount, source, international, row.Description)

	return model.Transaction{
		ID:              c.newID(),
		Date:            row.Date,
		Description:     row.Description,
		Amount:          row.Amount,
		Source:          source,
		Category:        DetectCategory(row.Description),
		IsInternational: international,
		MilesGenerated:  miles,
		IOFAmount:       iof,
		IsInefficient:   source == model.SourceBradesco || source == model.SourceNubank,
		Establishment:   ExtractEstablishment(row.Description),
		SpouseProfile:   model.ProfileFamilia,
	}
}

// DetectSource finds the issuing bank by case-insensitive substring match
// over the description and file hint. First match wins in declaration order.
func DetectSource(description, fileHint string) model.Source {
	haystack := strings.ToLower(description + " " + fileHint)
	for _, p := range sourcePatterns {
		if strings.Contains(haystack, p.name) {
			return p.source
		}
	}
	return model.SourceUnknown
}

// DetectCategory applies the ordered rule table to the upper-cased
// description. The first matching rule wins; no match yields outros.
func DetectCategory(description string) string {
	upper := strings.ToUpper(description)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(upper) {
			return rule.category
		}
	}
	return model.CategoryOutros
}

// DetectInternational flags foreign spend from currency codes and merchant
// keywords, ignoring Brazilian .com.br domains.
func DetectInternational(description string) bool {
	cleaned := comBrRegex.ReplaceAllString(description, "")
	return internationalRegex.MatchString(strings.ToUpper(cleaned))
}

// milesAndIOF computes reward miles and the IOF surcharge. Only spending
// (negative amounts) on the reward-earning issuer qualifies; every other
// combination earns zero of both.
func (c *Classifier) milesAndIOF(amount float64, source model.Source, international bool, description string) (miles int, iof float64) {
	if source != model.SourceSantander || amount >= 0 {
		return 0, 0
	}

	charged := math.Abs(amount)
	if international {
		iof = charged * c.cfg.IOFRate
		charged += iof
	}

	factor := c.cfg.MileFactors.Factor(detectNetwork(description), international)
	miles = int(math.Round(charged / c.cfg.DollarRate * factor))
	return miles, iof
}

// detectNetwork reads the card network from the description; the reward card
// is Mastercard, so that is the default.
func detectNetwork(description string) model.CardNetwork {
	if visaRegex.MatchString(strings.ToUpper(description)) {
		return model.NetworkVisa
	}
	return model.NetworkMastercard
}

var collapseSpaces = regexp.MustCompile(`\s+`)

// ExtractEstablishment normalizes a merchant name out of the raw description:
// strip leading transaction-type prefixes, collapse whitespace, cap at 50
// characters.
func ExtractEstablishment(description string) string {
	name := strings.TrimSpace(description)

	upper := strings.ToUpper(name)
	for {
		loc := establishmentPrefixRegex.FindStringIndex(upper)
		if loc == nil {
			break
		}
		name = name[loc[1]:]
		upper = upper[loc[1]:]
	}

	name = strings.TrimSpace(collapseSpaces.ReplaceAllString(name, " "))
	if runes := []rune(name); len(runes) > 50 {
		name = string(runes[:50])
	}
	return name
}
