// Package service defines the contracts between the core engines and their
// external collaborators (persistence, id generation, reporting).
package service

import (
	"context"
	"time"

	"github.com/Dan-Lay/moni/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Source    model.Source
	Limit     int
}

// Storage defines the persistence contract the core expects. All four
// reconciliation-facing operations are idempotent.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionsInRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	UpdateTransactionStatus(ctx context.Context, id string, status model.ReconciliationStatus, confirmed bool) error
	DeleteTransaction(ctx context.Context, id string) error

	// Planned entry operations
	SavePlannedEntry(ctx context.Context, entry *model.PlannedEntry) error
	GetPlannedEntries(ctx context.Context) ([]model.PlannedEntry, error)
	UpdatePlannedEntry(ctx context.Context, entry *model.PlannedEntry) error
	DeletePlannedEntry(ctx context.Context, id string) error

	// Configuration operations
	GetFinancialConfig(ctx context.Context) (model.FinancialConfig, error)
	SaveFinancialConfig(ctx context.Context, cfg model.FinancialConfig) error

	// Category registry operations
	GetCategoryRegistry(ctx context.Context) (*model.CategoryRegistry, error)
	SaveCategory(ctx context.Context, category model.Category) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// IDGenerator supplies unique identifiers for new records. The core never
// owns counter state; callers inject a generator (UUID or database identity).
type IDGenerator func() string

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// CategorySummary contains aggregated statistics for a category.
type CategorySummary struct {
	Count  int
	Amount float64
	Limit  float64
}

// UploadSummary is the per-batch result surfaced after a statement import:
// counts rather than per-row error detail.
type UploadSummary struct {
	NewCount        int
	DuplicateCount  int
	ReconciledCount int
}
