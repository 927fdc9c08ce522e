package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theronnieguidry/teachers-assistant/internal/db"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

var creditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Inspect and manage a user's credit account",
}

var (
	creditsUserID string
	creditsAmount int
	creditsReason string
	creditsLimit  int
)

var creditsBalanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current credit balance",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withCreditsDB(func(ctx context.Context, database *db.DB, uid uuid.UUID) error {
			balance, err := database.GetBalance(ctx, uid)
			if err != nil {
				return fmt.Errorf("failed to fetch balance: %w", err)
			}
			fmt.Printf("Balance for %s: %d credits\n", uid, balance)
			return nil
		})
	},
}

var creditsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Credit a user's account",
	RunE: func(_ *cobra.Command, _ []string) error {
		if creditsAmount <= 0 {
			return fmt.Errorf("--amount must be positive")
		}
		return withCreditsDB(func(ctx context.Context, database *db.DB, uid uuid.UUID) error {
			reason := creditsReason
			if reason == "" {
				reason = "credit purchase"
			}
			if err := database.AddCredits(ctx, uid, creditsAmount, types.LedgerPurchase, reason); err != nil {
				return fmt.Errorf("failed to add credits: %w", err)
			}
			balance, err := database.GetBalance(ctx, uid)
			if err != nil {
				return fmt.Errorf("failed to fetch balance: %w", err)
			}
			fmt.Printf("Added %d credits. New balance: %d\n", creditsAmount, balance)
			return nil
		})
	},
}

var creditsLedgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show recent credit ledger entries",
	RunE: func(_ *cobra.Command, _ []string) error {
		return withCreditsDB(func(ctx context.Context, database *db.DB, uid uuid.UUID) error {
			entries, err := database.ListLedger(ctx, uid, creditsLimit)
			if err != nil {
				return fmt.Errorf("failed to list ledger: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No ledger entries.")
				return nil
			}
			for _, entry := range entries {
				fmt.Printf("%s  %-10s %+5d  %s\n",
					entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Kind, entry.Amount, entry.Reason)
			}
			return nil
		})
	},
}

func init() {
	creditsCmd.PersistentFlags().StringVar(&creditsUserID, "user-id", "", "User UUID (required)")
	creditsAddCmd.Flags().IntVar(&creditsAmount, "amount", 0, "Credits to add")
	creditsAddCmd.Flags().StringVar(&creditsReason, "reason", "", "Ledger reason")
	creditsLedgerCmd.Flags().IntVar(&creditsLimit, "limit", 20, "Maximum entries to show")

	creditsCmd.AddCommand(creditsBalanceCmd)
	creditsCmd.AddCommand(creditsAddCmd)
	creditsCmd.AddCommand(creditsLedgerCmd)
	rootCmd.AddCommand(creditsCmd)
}

// withCreditsDB handles the shared user-id parsing and database setup for the
// credits subcommands.
func withCreditsDB(fn func(ctx context.Context, database *db.DB, uid uuid.UUID) error) error {
	if creditsUserID == "" {
		return fmt.Errorf("--user-id is required")
	}
	uid, err := uuid.Parse(creditsUserID)
	if err != nil {
		return fmt.Errorf("invalid user_id format: %w", err)
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	return fn(ctx, database, uid)
}
