// Package stats provides the derived-metric reducers layered on top of
// classified transactions: category breakdowns, establishment rankings, and
// reward-mile efficiency.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/Dan-Lay/moni/internal/model"
	"github.com/Dan-Lay/moni/internal/service"
)

// EstablishmentRank is one entry of the top-establishment ranking.
type EstablishmentRank struct {
	Establishment string
	Count         int
	Total         float64
}

// MilesReport summarizes reward-mile production and the miles lost to
// spending on non-reward cards.
type MilesReport struct {
	TotalMiles       int
	InefficientSpend float64
	LostMiles        int
	EfficiencyPct    float64
}

// CategoryBreakdown sums expenses per category and annotates configured
// limits. Only expenses count; amounts are reported as positive totals,
// rounded to whole currency units.
func CategoryBreakdown(txns []model.Transaction, cfg model.FinancialConfig) map[string]service.CategorySummary {
	cfg = cfg.MergeDefaults()
	out := make(map[string]service.CategorySummary)

	for _, t := range txns {
		if t.Amount >= 0 {
			continue
		}
		s := out[t.Category]
		s.Count++
		s.Amount += -t.Amount
		s.Limit = cfg.CategoryLimits[t.Category]
		out[t.Category] = s
	}

	for k, s := range out {
		s.Amount = math.Round(s.Amount)
		out[k] = s
	}
	return out
}

// TopEstablishments ranks establishments by total spend, descending. Ties
// break alphabetically so the ranking is stable.
func TopEstablishments(txns []model.Transaction, limit int) []EstablishmentRank {
	totals := make(map[string]*EstablishmentRank)
	for _, t := range txns {
		if t.Amount >= 0 || t.Establishment == "" {
			continue
		}
		r, ok := totals[t.Establishment]
		if !ok {
			r = &EstablishmentRank{Establishment: t.Establishment}
			totals[t.Establishment] = r
		}
		r.Count++
		r.Total += -t.Amount
	}

	ranks := make([]EstablishmentRank, 0, len(totals))
	for _, r := range totals {
		r.Total = math.Round(r.Total)
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Total != ranks[j].Total {
			return ranks[i].Total > ranks[j].Total
		}
		return ranks[i].Establishment < ranks[j].Establishment
	})

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// MilesEfficiency reports earned miles, spend routed through non-reward
// cards, and an estimate of the miles that spend would have earned on the
// reward card.
func MilesEfficiency(txns []model.Transaction, cfg model.FinancialConfig) MilesReport {
	cfg = cfg.MergeDefaults()
	var report MilesReport

	var rewardSpend float64
	for _, t := range txns {
		report.TotalMiles += t.MilesGenerated
		if t.Amount >= 0 {
			continue
		}
		if t.IsInefficient {
			report.InefficientSpend += -t.Amount
		} else if t.Source == model.SourceSantander {
			rewardSpend += -t.Amount
		}
	}

	report.LostMiles = int(math.Round(report.InefficientSpend / cfg.DollarRate * cfg.MileFactors.MastercardBRL))

	totalCardSpend := report.InefficientSpend + rewardSpend
	if totalCardSpend > 0 {
		report.EfficiencyPct = math.Round(rewardSpend / totalCardSpend * 100)
	}
	report.InefficientSpend = math.Round(report.InefficientSpend)
	return report
}

// MonthlySummary sums income and expenses for the calendar month containing
// the reference date.
func MonthlySummary(txns []model.Transaction, ref time.Time) (income, expenses float64) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	for _, t := range txns {
		if t.Date.Before(start) || !t.Date.Before(end) {
			continue
		}
		if t.Amount >= 0 {
			income += t.Amount
		} else {
			expenses += -t.Amount
		}
	}
	return math.Round(income), math.Round(expenses)
}
