package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dan-Lay/moni/internal/common"
	"github.com/Dan-Lay/moni/internal/model"
	"github.com/Dan-Lay/moni/internal/service"
)

const transactionColumns = `id, fingerprint, date, description, treated_name, establishment,
	source, category, status, spouse_profile, amount, iof_amount,
	miles_generated, is_international, is_inefficient, confirmed`

// SaveTransactions inserts transactions, ignoring rows whose id already
// exists so repeated inserts stay idempotent.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if _, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.GenerateFingerprint(),
			txn.Date,
			txn.Description,
			txn.TreatedName,
			txn.Establishment,
			string(txn.Source),
			txn.Category,
			string(txn.Status),
			string(txn.SpouseProfile),
			txn.Amount,
			txn.IOFAmount,
			txn.MilesGenerated,
			txn.IsInternational,
			txn.IsInefficient,
			txn.Confirmed,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactionByID fetches one transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions WHERE id = ?
	`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetTransactionsInRange returns transactions with date in [start, end],
// ordered by date. This backs the reconciliation match window.
func (s *SQLiteStorage) GetTransactionsInRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: %v after %v", ErrInvalidDateRange, start, end)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+transactionColumns+` FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date, id
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactions returns transactions matching the filter, newest first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []any

	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.EndDate)
	}
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, string(filter.Source))
	}
	query += ` ORDER BY date DESC, id`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// UpdateTransaction overwrites the mutable fields of an existing transaction.
func (s *SQLiteStorage) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET
			date = ?, description = ?, treated_name = ?, establishment = ?,
			source = ?, category = ?, status = ?, spouse_profile = ?,
			amount = ?, iof_amount = ?, miles_generated = ?,
			is_international = ?, is_inefficient = ?, confirmed = ?,
			fingerprint = ?
		WHERE id = ?
	`,
		txn.Date,
		txn.Description,
		txn.TreatedName,
		txn.Establishment,
		string(txn.Source),
		txn.Category,
		string(txn.Status),
		string(txn.SpouseProfile),
		txn.Amount,
		txn.IOFAmount,
		txn.MilesGenerated,
		txn.IsInternational,
		txn.IsInefficient,
		txn.Confirmed,
		txn.GenerateFingerprint(),
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrNotFound)
	}
	return nil
}

// UpdateTransactionStatus sets the reconciliation status and confirmation
// flag of a single transaction. Re-applying the same status is a no-op, so
// the operation stays idempotent.
func (s *SQLiteStorage) UpdateTransactionStatus(ctx context.Context, id string, status model.ReconciliationStatus, confirmed bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET status = ?, confirmed = ? WHERE id = ?
	`, string(status), confirmed, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteTransaction removes a transaction.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var fingerprint, source, status, profile string
	var treatedName, establishment sql.NullString

	err := row.Scan(
		&txn.ID,
		&fingerprint,
		&txn.Date,
		&txn.Description,
		&treatedName,
		&establishment,
		&source,
		&txn.Category,
		&status,
		&profile,
		&txn.Amount,
		&txn.IOFAmount,
		&txn.MilesGenerated,
		&txn.IsInternational,
		&txn.IsInefficient,
		&txn.Confirmed,
	)
	if err != nil {
		return nil, err
	}

	txn.TreatedName = treatedName.String
	txn.Establishment = establishment.String
	txn.Source = model.Source(source)
	txn.Status = model.ReconciliationStatus(status)
	txn.SpouseProfile = model.SpouseProfile(profile)
	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}
