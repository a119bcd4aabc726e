package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dan-Lay/moni/internal/projection"
	"github.com/Dan-Lay/moni/internal/service"
)

func projectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the cash-flow balance trajectory",
		Long: `Build a forward-and-backward balance series from the transaction history
and planned entries, and warn if the projection crosses the safety floor.`,
		RunE: runProject,
	}

	cmd.Flags().String("window", string(projection.Window3M), "1M, 3M, 6M, 1A, or All")

	return cmd
}

func runProject(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	windowFlag, _ := cmd.Flags().GetString("window")
	window, ok := projection.ParseWindow(windowFlag)
	if !ok {
		return fmt.Errorf("invalid window %q (expected 1M, 3M, 6M, 1A, or All)", windowFlag)
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
	txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return err
	}
	planned, err := store.GetPlannedEntries(ctx)
	if err != nil {
		return err
	}

	series := projection.Project(txns, cfg, planned, window, time.Now().UTC())

	fmt.Printf("Cash-flow projection (%s window, floor %.0f)\n\n", window, cfg.SafetyFloor)
	for _, p := range series.Points {
		switch {
		case p.ActualBalance != nil:
			fmt.Printf("  %-8s %10.0f", p.Label, *p.ActualBalance)
		case p.ProjectedBalance != nil:
			fmt.Printf("  %-8s %10.0f (projected)", p.Label, *p.ProjectedBalance)
		}
		if p.TrailingAverage != nil {
			fmt.Printf("   avg %.0f", *p.TrailingAverage)
		}
		fmt.Println()
	}

	fmt.Printf("\nTrend: %s\n", series.Trend)
	if series.CrossesFloor {
		fmt.Printf("WARNING: the balance trajectory crosses the safety floor (%.0f)\n", cfg.SafetyFloor)
	}
	return nil
}
