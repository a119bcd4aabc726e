package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dan-Lay/moni/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage the category registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List visible categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			registry, err := store.GetCategoryRegistry(ctx)
			if err != nil {
				return err
			}
			for _, c := range registry.Visible() {
				kind := "custom"
				if c.Builtin {
					kind = "builtin"
				}
				fmt.Printf("  %-20s %-20s %s\n", c.Key, c.Label, kind)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <key>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.SaveCategory(ctx, model.Category{Key: args[0], Label: args[0]}); err != nil {
				return err
			}
			fmt.Printf("Added category %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <key> <label>",
		Short: "Rename a category's display label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			registry, err := store.GetCategoryRegistry(ctx)
			if err != nil {
				return err
			}
			if !registry.Rename(args[0], args[1]) {
				return fmt.Errorf("unknown category %s", args[0])
			}
			for _, c := range registry.All() {
				if c.Key == args[0] {
					if err := store.SaveCategory(ctx, c); err != nil {
						return err
					}
				}
			}
			fmt.Printf("Renamed %s to %q\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "hide <key>",
		Short: "Hide a category from listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			registry, err := store.GetCategoryRegistry(ctx)
			if err != nil {
				return err
			}
			if !registry.Hide(args[0]) {
				return fmt.Errorf("unknown category %s", args[0])
			}
			for _, c := range registry.All() {
				if c.Key == args[0] {
					if err := store.SaveCategory(ctx, c); err != nil {
						return err
					}
				}
			}
			fmt.Printf("Hid category %s\n", args[0])
			return nil
		},
	})

	return cmd
}
