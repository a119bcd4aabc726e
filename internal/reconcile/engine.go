// Package reconcile merges statement uploads into the stored transaction
// history, preventing double-counting when overlapping statement periods are
// uploaded repeatedly.
package reconcile

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Dan-Lay/moni/internal/common"
	"github.com/Dan-Lay/moni/internal/model"
	"github.com/Dan-Lay/moni/internal/service"
)

// Action describes the decision taken for one inbound row.
type Action string

const (
	// ActionNew inserts the inbound row as a new transaction.
	ActionNew Action = "new"
	// ActionDuplicate discards the inbound row; it re-uploads a prior statement row.
	ActionDuplicate Action = "duplicate"
	// ActionReconciled merges the inbound row into a planned/manual entry.
	ActionReconciled Action = "reconciled"
)

// matchWindowDays is the symmetric date window searched for candidates.
const matchWindowDays = 3

// Result reports the decision for a single inbound transaction.
type Result struct {
	Action      Action
	Status      model.ReconciliationStatus
	MatchedID   string
	Transaction model.Transaction
}

// BatchResult aggregates the decisions for one statement upload.
type BatchResult struct {
	ToInsert   []model.Transaction
	Duplicates []model.Transaction
	Reconciled []model.Transaction
	Results    []Result
	Summary    service.UploadSummary
}

// ProgressFunc is called after each processed row of a batch.
type ProgressFunc func(done, total int)

// Engine decides, per inbound row, whether it duplicates a prior upload,
// merges into a planned/manual entry, or is genuinely new. The mutex makes
// the serialization of match decisions explicit: at most one in-flight
// decision per household, even under a concurrent runtime.
type Engine struct {
	storage service.Storage
	retry   service.RetryOptions
	mu      sync.Mutex
}

// New creates a reconciliation engine backed by the given storage.
func New(storage service.Storage) *Engine {
	return &Engine{
		storage: storage,
		retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 50 * time.Millisecond,
		},
	}
}

// Reconcile decides the fate of a single inbound transaction. It never
// returns an error: storage failures degrade to "insert as new" so uploads
// always complete.
func (e *Engine) Reconcile(ctx context.Context, txn model.Transaction) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reconcileLocked(ctx, txn)
}

func (e *Engine) reconcileLocked(ctx context.Context, txn model.Transaction) Result {
	match, found := e.findMatch(ctx, txn)
	if !found {
		txn.Status = model.StatusNovo
		e.reconcilePlanned(ctx, txn)
		return Result{Action: ActionNew, Status: model.StatusNovo, Transaction: txn}
	}

	if match.IsFromUpload() {
		// Cenário A: the candidate itself came from a prior upload, so the
		// inbound row is a re-upload. Confirm the existing record and drop
		// the inbound one.
		if err := e.storage.UpdateTransactionStatus(ctx, match.ID, model.StatusJaConciliado, true); err != nil {
			common.LogError(err, "Failed to confirm duplicate, keeping decision", common.Fields{
				"transaction_id": match.ID,
			})
		}
		return Result{Action: ActionDuplicate, Status: model.StatusJaConciliado, MatchedID: match.ID, Transaction: txn}
	}

	// Cenário B: the candidate is a manual/planned entry awaiting its bank
	// row. Bank data is authoritative, so its amount overwrites the estimate.
	match.Amount = txn.Amount
	match.Status = model.StatusConciliadoAuto
	match.Confirmed = true
	if err := e.storage.UpdateTransaction(ctx, match); err != nil {
		common.LogError(err, "Failed to merge into planned entry, inserting as new", common.Fields{
			"transaction_id": match.ID,
		})
		txn.Status = model.StatusNovo
		return Result{Action: ActionNew, Status: model.StatusNovo, Transaction: txn}
	}
	return Result{Action: ActionReconciled, Status: model.StatusConciliadoAuto, MatchedID: match.ID, Transaction: txn}
}

// findMatch looks for an existing transaction within the date window whose
// normalized description equals the inbound one exactly. Candidates are
// ordered by date distance, so ties resolve to the closest date. Storage
// failures report no match.
func (e *Engine) findMatch(ctx context.Context, txn model.Transaction) (*model.Transaction, bool) {
	start := txn.Date.AddDate(0, 0, -matchWindowDays)
	end := txn.Date.AddDate(0, 0, matchWindowDays)

	var candidates []model.Transaction
	err := common.WithRetry(ctx, func() error {
		var qErr error
		candidates, qErr = e.storage.GetTransactionsInRange(ctx, start, end)
		return qErr
	}, e.retry)
	if err != nil {
		common.LogError(err, "Match query failed, treating row as new", common.Fields{
			"description": txn.Description,
		})
		return nil, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return dateDistance(candidates[i].Date, txn.Date) < dateDistance(candidates[j].Date, txn.Date)
	})

	want := model.NormalizeDescription(txn.Description)
	matched := 0
	var first *model.Transaction
	for i := range candidates {
		if model.NormalizeDescription(candidates[i].Description) == want {
			matched++
			if first == nil {
				first = &candidates[i]
			}
		}
	}

	if matched > 1 {
		slog.Debug("Multiple reconciliation candidates, using closest date",
			"description", txn.Description,
			"candidates", matched)
	}
	return first, first != nil
}

// reconcilePlanned marks a planned entry as fulfilled when a new upload
// matches its name inside the date window. Best-effort: failures only log.
func (e *Engine) reconcilePlanned(ctx context.Context, txn model.Transaction) {
	entries, err := e.storage.GetPlannedEntries(ctx)
	if err != nil {
		slog.Debug("Planned entry lookup failed", "error", err)
		return
	}

	want := model.NormalizeDescription(txn.Description)
	for i := range entries {
		entry := entries[i]
		if entry.Conciliado {
			continue
		}
		if model.NormalizeDescription(entry.Name) != want {
			continue
		}
		if dateDistance(entry.DueDate, txn.Date) > matchWindowDays*24*time.Hour {
			continue
		}

		real := txn.Amount
		entry.Conciliado = true
		entry.RealAmount = &real
		if err := e.storage.UpdatePlannedEntry(ctx, &entry); err != nil {
			common.LogError(err, "Failed to mark planned entry reconciled", common.Fields{
				"entry_id": entry.ID,
			})
		}
		return
	}
}

func dateDistance(a, b time.Time) time.Duration {
	return time.Duration(math.Abs(float64(a.Sub(b))))
}
