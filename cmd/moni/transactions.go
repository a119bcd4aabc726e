package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dan-Lay/moni/internal/model"
	"github.com/Dan-Lay/moni/internal/service"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "List and correct stored transactions",
	}

	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txSetCmd())
	cmd.AddCommand(txDeleteCmd())

	return cmd
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			category, _ := cmd.Flags().GetString("category")
			source, _ := cmd.Flags().GetString("source")
			monthFlag, _ := cmd.Flags().GetString("month")
			limit, _ := cmd.Flags().GetInt("limit")

			filter := service.TransactionFilter{
				Category: category,
				Source:   model.Source(source),
				Limit:    limit,
			}
			if monthFlag != "" {
				parsed, err := time.Parse("2006-01", monthFlag)
				if err != nil {
					return fmt.Errorf("invalid month %q (expected yyyy-mm)", monthFlag)
				}
				start := time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC)
				end := start.AddDate(0, 1, 0).Add(-time.Second)
				filter.StartDate = &start
				filter.EndDate = &end
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txns, err := store.GetTransactions(ctx, filter)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				fmt.Println("No transactions.")
				return nil
			}

			for _, t := range txns {
				flags := ""
				if t.IsInternational {
					flags += " intl"
				}
				if t.MilesGenerated > 0 {
					flags += fmt.Sprintf(" %dmi", t.MilesGenerated)
				}
				fmt.Printf("%s  %-40s %10.2f  %-14s %-10s %s%s  [%s]\n",
					t.Date.Format("02/01/2006"), t.DisplayName(), t.Amount,
					t.Category, t.Source, t.Status, flags, t.ID)
			}
			return nil
		},
	}

	cmd.Flags().String("category", "", "filter by category key")
	cmd.Flags().String("source", "", "filter by source (santander, bradesco, nubank, unknown)")
	cmd.Flags().String("month", "", "filter by month (yyyy-mm)")
	cmd.Flags().Int("limit", 50, "maximum number of rows")

	return cmd
}

func txSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Correct a transaction's category, display name, or profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			category, _ := cmd.Flags().GetString("category")
			name, _ := cmd.Flags().GetString("name")
			profile, _ := cmd.Flags().GetString("profile")

			if category == "" && name == "" && profile == "" {
				return fmt.Errorf("nothing to set; use --category, --name, or --profile")
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			txn, err := store.GetTransactionByID(ctx, args[0])
			if err != nil {
				return err
			}

			if category != "" {
				registry, err := store.GetCategoryRegistry(ctx)
				if err != nil {
					return err
				}
				known := false
				for _, c := range registry.All() {
					if c.Key == category {
						known = true
						break
					}
				}
				if !known {
					return fmt.Errorf("unknown category %s", category)
				}
				txn.Category = category
			}
			if name != "" {
				txn.TreatedName = name
			}
			if profile != "" {
				txn.SpouseProfile = model.SpouseProfile(profile)
			}

			if err := store.UpdateTransaction(ctx, txn); err != nil {
				return err
			}
			fmt.Printf("Updated %s\n", txn.ID)
			return nil
		},
	}

	cmd.Flags().String("category", "", "new category key")
	cmd.Flags().String("name", "", "user-friendly display name (matching still uses the raw description)")
	cmd.Flags().String("profile", "", "marido, esposa, familia")

	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted transaction %s\n", args[0])
			return nil
		},
	}
}
