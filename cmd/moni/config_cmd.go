package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the household financial configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (defaults merged in)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cfg, err := store.GetFinancialConfig(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("salary:        %.2f\n", cfg.Salary)
			fmt.Printf("safety-floor:  %.2f\n", cfg.SafetyFloor)
			fmt.Printf("savings-goal:  %.2f\n", cfg.SavingsGoal)
			fmt.Printf("miles-goal:    %d\n", cfg.MilesGoal)
			fmt.Printf("dollar-rate:   %.4f\n", cfg.DollarRate)
			fmt.Printf("iof-rate:      %.4f\n", cfg.IOFRate)
			fmt.Printf("miles factors: mc-brl %.2f, mc-usd %.2f, visa-brl %.2f, visa-usd %.2f\n",
				cfg.MileFactors.MastercardBRL, cfg.MileFactors.MastercardUSD,
				cfg.MileFactors.VisaBRL, cfg.MileFactors.VisaUSD)
			for cat, limit := range cfg.CategoryLimits {
				fmt.Printf("limit %-14s %.2f\n", cat+":", limit)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value (partial update, defaults preserved)",
		Long: `Set a single financial config value. Keys:
  salary, safety-floor, savings-goal, miles-goal, dollar-rate, iof-rate,
  mc-brl, mc-usd, visa-brl, visa-usd, limit.<category>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
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

			switch key := args[0]; key {
			case "salary":
				cfg.Salary = value
			case "safety-floor":
				cfg.SafetyFloor = value
			case "savings-goal":
				cfg.SavingsGoal = value
			case "miles-goal":
				cfg.MilesGoal = int(value)
			case "dollar-rate":
				cfg.DollarRate = value
			case "iof-rate":
				cfg.IOFRate = value
			case "mc-brl":
				cfg.MileFactors.MastercardBRL = value
			case "mc-usd":
				cfg.MileFactors.MastercardUSD = value
			case "visa-brl":
				cfg.MileFactors.VisaBRL = value
			case "visa-usd":
				cfg.MileFactors.VisaUSD = value
			default:
				if len(key) > 6 && key[:6] == "limit." {
					if cfg.CategoryLimits == nil {
						cfg.CategoryLimits = make(map[string]float64)
					}
					cfg.CategoryLimits[key[6:]] = value
				} else {
					return fmt.Errorf("unknown config key %q", key)
				}
			}

			if err := store.SaveFinancialConfig(ctx, cfg); err != nil {
				return err
			}
			fmt.Printf("Set %s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}
