package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dan-Lay/moni/internal/service"
	"github.com/Dan-Lay/moni/internal/stats"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show category breakdown, top establishments, and miles efficiency",
		RunE:  runStats,
	}

	cmd.Flags().Int("top", 10, "number of establishments to rank")
	cmd.Flags().String("month", "", "month to summarize (yyyy-mm, default current)")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	topN, _ := cmd.Flags().GetInt("top")
	monthFlag, _ := cmd.Flags().GetString("month")

	ref := time.Now().UTC()
	if monthFlag != "" {
		parsed, err := time.Parse("2006-01", monthFlag)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected yyyy-mm)", monthFlag)
		}
		ref = parsed
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cfg, err := store.GetFinancialConfig(ctx)
	if err != nil {
		return err
	}
	registry, err := store.GetCategoryRegistry(ctx)
	if err != nil {
		return err
	}

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	txns, err := store.GetTransactions(ctx, service.TransactionFilter{
		StartDate: &monthStart,
		EndDate:   &monthEnd,
	})
	if err != nil {
		return err
	}

	income, expenses := stats.MonthlySummary(txns, ref)
	fmt.Printf("%s: income %.0f, expenses %.0f, net %.0f\n\n",
		monthStart.Format("January 2006"), income, expenses, income-expenses)

	fmt.Println("By category:")
	breakdown := stats.CategoryBreakdown(txns, cfg)
	for _, cat := range registry.Visible() {
		s, ok := breakdown[cat.Key]
		if !ok {
			continue
		}
		line := fmt.Sprintf("  %-16s %8.0f (%d txns)", registry.Label(cat.Key), s.Amount, s.Count)
		if s.Limit > 0 {
			line += fmt.Sprintf("  limit %.0f", s.Limit)
			if s.Amount > s.Limit {
				line += " EXCEEDED"
			}
		}
		fmt.Println(line)
	}

	fmt.Println("\nTop establishments:")
	for i, r := range stats.TopEstablishments(txns, topN) {
		fmt.Printf("  %2d. %-40s %8.0f (%d)\n", i+1, r.Establishment, r.Total, r.Count)
	}

	miles := stats.MilesEfficiency(txns, cfg)
	fmt.Printf("\nMiles: %d earned, %d lost to non-reward cards (%.0f%% efficient, goal %d)\n",
		miles.TotalMiles, miles.LostMiles, miles.EfficiencyPct, cfg.MilesGoal)

	return nil
}
