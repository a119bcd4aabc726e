package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Dan-Lay/moni/internal/classify"
	"github.com/Dan-Lay/moni/internal/common"
	"github.com/Dan-Lay/moni/internal/model"
	"github.com/Dan-Lay/moni/internal/parser"
	"github.com/Dan-Lay/moni/internal/reconcile"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/CSV statement exports",
		Long: `Import bank statement exports. Each row is parsed, categorized, and
reconciled against the stored history: re-uploaded rows are discarded as
duplicates and rows matching a planned/manual entry merge into it.

Examples:
  # Import a single statement
  moni import ~/Downloads/santander_jan.ofx

  # Import several exports at once
  moni import ~/Downloads/*.ofx ~/Downloads/nubank_*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	cmd.Flags().String("format", "", "Force statement format (OFX or CSV)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	forcedFormat, _ := cmd.Flags().GetString("format")
	ctx := cmd.Context()

	var forced model.StatementFormat
	if forcedFormat != "" {
		f, ok := model.ParseStatementFormat(forcedFormat)
		if !ok {
			return fmt.Errorf("invalid format %q (expected OFX or CSV)", forcedFormat)
		}
		forced = f
	}

	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				common.LogInfo("No files found matching pattern", common.Fields{"pattern": pattern})
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}
	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	cfg, err := store.GetFinancialConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load financial config: %w", err)
	}

	statementParser := parser.NewParser()
	classifier := classify.NewClassifier(cfg, newIDGenerator())
	engine := reconcile.New(store)

	var totalNew, totalDup, totalRec int

	for _, filePath := range allFiles {
		content, err := os.ReadFile(filePath)
		if err != nil {
			common.LogError(err, "Failed to read file", common.Fields{"file": filePath})
			continue
		}

		fileName := filepath.Base(filePath)
		format := forced
		if format == "" {
			format = parser.DetectFormat(fileName, string(content))
		}

		rows, err := statementParser.Parse(string(content), format)
		if err != nil {
			common.LogError(err, "Failed to parse statement", common.Fields{"file": fileName})
			continue
		}
		if len(rows) == 0 {
			common.LogInfo("No parseable rows in statement", common.Fields{"file": fileName})
			continue
		}

		txns := make([]model.Transaction, 0, len(rows))
		for _, row := range rows {
			txns = append(txns, classifier.Classify(row, fileName))
		}

		bar := progressbar.NewOptions(len(txns),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(fmt.Sprintf("Reconciling %s", fileName)),
		)

		batch := engine.ReconcileBatch(ctx, txns, func(done, _ int) {
			_ = bar.Set(done)
		})
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)

		if !dryRun && len(batch.ToInsert) > 0 {
			if err := store.SaveTransactions(ctx, batch.ToInsert); err != nil {
				// Surfaced once at the batch level, not per row.
				return common.NewUserError(fmt.Sprintf("failed to save transactions from %s", fileName), err)
			}
		}

		totalNew += batch.Summary.NewCount
		totalDup += batch.Summary.DuplicateCount
		totalRec += batch.Summary.ReconciledCount

		common.LogInfo("Imported statement", common.Fields{
			"file":       fileName,
			"new":        batch.Summary.NewCount,
			"duplicates": batch.Summary.DuplicateCount,
			"reconciled": batch.Summary.ReconciledCount,
		})
	}

	fmt.Printf("\nImport summary:\n")
	fmt.Printf("  new:        %d\n", totalNew)
	fmt.Printf("  duplicates: %d\n", totalDup)
	fmt.Printf("  reconciled: %d\n", totalRec)
	if dryRun {
		fmt.Println("  (dry run: nothing was saved)")
	}

	return nil
}
