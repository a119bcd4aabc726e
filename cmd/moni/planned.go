package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Dan-Lay/moni/internal/model"
	"github.com/Dan-Lay/moni/internal/parser"
)

func plannedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planned",
		Short: "Manage planned (budgeted) entries",
	}

	cmd.AddCommand(plannedAddCmd())
	cmd.AddCommand(plannedListCmd())
	cmd.AddCommand(plannedCheckCmd())
	cmd.AddCommand(plannedDeleteCmd())

	return cmd
}

func plannedAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name> <amount> <due-date>",
		Short: "Add a planned entry (amount is signed, date is dd/mm/yyyy)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}
			dueDate, ok := parser.ParseDate(args[2])
			if !ok {
				return fmt.Errorf("invalid date %q (expected dd/mm/yyyy)", args[2])
			}

			category, _ := cmd.Flags().GetString("category")
			recurrence, _ := cmd.Flags().GetString("recurrence")
			profile, _ := cmd.Flags().GetString("profile")

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entry := &model.PlannedEntry{
				ID:            newIDGenerator()(),
				Name:          args[0],
				Amount:        amount,
				DueDate:       dueDate,
				Category:      category,
				Recurrence:    model.Recurrence(recurrence),
				SpouseProfile: model.SpouseProfile(profile),
			}
			if err := store.SavePlannedEntry(ctx, entry); err != nil {
				return err
			}

			fmt.Printf("Added planned entry %s (%s)\n", entry.Name, entry.ID)
			return nil
		},
	}

	cmd.Flags().String("category", model.CategoryOutros, "category key")
	cmd.Flags().String("recurrence", string(model.RecurrenceUnico), "unico, mensal, semanal, anual")
	cmd.Flags().String("profile", string(model.ProfileFamilia), "marido, esposa, familia")

	return cmd
}

func plannedListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List planned entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetPlannedEntries(ctx)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No planned entries.")
				return nil
			}

			for _, e := range entries {
				status := "pending"
				if e.Conciliado {
					status = "reconciled"
					if e.RealAmount != nil {
						status = fmt.Sprintf("reconciled (real %.2f)", *e.RealAmount)
					}
				}
				fmt.Printf("%s  %-30s %10.2f  %s  %s  [%s]\n",
					e.DueDate.Format("02/01/2006"), e.Name, e.Amount, e.Recurrence, status, e.ID)
			}
			return nil
		},
	}
}

func plannedCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <id>",
		Short: "Manually mark a planned entry as reconciled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			realAmount, _ := cmd.Flags().GetFloat64("real-amount")

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetPlannedEntries(ctx)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if e.ID != args[0] {
					continue
				}
				e.Conciliado = true
				if cmd.Flags().Changed("real-amount") {
					e.RealAmount = &realAmount
				}
				if err := store.UpdatePlannedEntry(ctx, &e); err != nil {
					return err
				}
				fmt.Printf("Marked %s as reconciled\n", e.Name)
				return nil
			}
			return fmt.Errorf("planned entry %s not found", args[0])
		},
	}

	cmd.Flags().Float64("real-amount", 0, "actual amount confirmed by the statement")

	return cmd
}

func plannedDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a planned entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeletePlannedEntry(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted planned entry %s\n", args[0])
			return nil
		},
	}
}
