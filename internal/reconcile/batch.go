package reconcile

import (
	"context"

	"github.com/Dan-Lay/moni/internal/model"
)

// ReconcileBatch processes one statement upload strictly sequentially: rows
// are decided one at a time under the engine mutex so two near-duplicate rows
// can never race past each other and both insert. Cancellation is cooperative
// between rows; already-decided rows stand on their own, no rollback is
// needed.
func (e *Engine) ReconcileBatch(ctx context.Context, txns []model.Transaction, progress ProgressFunc) BatchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var batch BatchResult
	// Rows already slated for insertion are not yet visible to storage, so
	// in-batch duplicates are tracked by fingerprint.
	pending := make(map[string]bool)

	for i, txn := range txns {
		if ctx.Err() != nil {
			break
		}

		fp := txn.GenerateFingerprint()
		if pending[fp] {
			batch.Duplicates = append(batch.Duplicates, txn)
			batch.Results = append(batch.Results, Result{
				Action:      ActionDuplicate,
				Status:      model.StatusJaConciliado,
				Transaction: txn,
			})
			batch.Summary.DuplicateCount++
			if progress != nil {
				progress(i+1, len(txns))
			}
			continue
		}

		result := e.reconcileLocked(ctx, txn)
		batch.Results = append(batch.Results, result)

		switch result.Action {
		case ActionNew:
			pending[fp] = true
			batch.ToInsert = append(batch.ToInsert, result.Transaction)
			batch.Summary.NewCount++
		case ActionDuplicate:
			batch.Duplicates = append(batch.Duplicates, txn)
			batch.Summary.DuplicateCount++
		case ActionReconciled:
			batch.Reconciled = append(batch.Reconciled, txn)
			batch.Summary.ReconciledCount++
		}

		if progress != nil {
			progress(i+1, len(txns))
		}
	}

	return batch
}
