package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dan-Lay/moni/internal/config"
	"github.com/Dan-Lay/moni/internal/projection"
	"github.com/Dan-Lay/moni/internal/service"
	"github.com/Dan-Lay/moni/internal/sheets"
	"github.com/Dan-Lay/moni/internal/stats"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the monthly dashboard report to Google Sheets",
		RunE:  runExport,
	}

	cmd.Flags().String("month", "", "month to export (yyyy-mm, default current)")
	cmd.Flags().String("window", string(projection.Window3M), "projection window")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	monthFlag, _ := cmd.Flags().GetString("month")
	windowFlag, _ := cmd.Flags().GetString("window")
	window, ok := projection.ParseWindow(windowFlag)
	if !ok {
		return fmt.Errorf("invalid window %q (expected 1M, 3M, 6M, 1A, or All)", windowFlag)
	}

	ref := time.Now().UTC()
	if monthFlag != "" {
		parsed, err := time.Parse("2006-01", monthFlag)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected yyyy-mm)", monthFlag)
		}
		ref = parsed
	}

	sheetsCfg, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
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
	txns, err := store.GetTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return err
	}
	planned, err := store.GetPlannedEntries(ctx)
	if err != nil {
		return err
	}

	monthStart := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	income, expenses := stats.MonthlySummary(txns, ref)

	report := &sheets.Report{
		Month:         monthStart,
		Categories:    stats.CategoryBreakdown(txns, cfg),
		TopSpots:      stats.TopEstablishments(txns, 10),
		Miles:         stats.MilesEfficiency(txns, cfg),
		Income:        income,
		Expenses:      expenses,
		Projection:    projection.Project(txns, cfg, planned, window, time.Now().UTC()),
		CategoryLabel: registry.Label,
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return err
	}

	if err := writer.Write(ctx, report); err != nil {
		return err
	}
	fmt.Println("Report exported.")
	return nil
}
