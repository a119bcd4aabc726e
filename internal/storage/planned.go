package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dan-Lay/moni/internal/common"
	"github.com/Dan-Lay/moni/internal/model"
)

// SavePlannedEntry inserts a planned entry.
func (s *SQLiteStorage) SavePlannedEntry(ctx context.Context, entry *model.PlannedEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePlannedEntry(entry); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO planned_entries (
			id, name, category, due_date, recurrence,
			spouse_profile, amount, real_amount, conciliado
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.Name,
		entry.Category,
		entry.DueDate,
		string(entry.Recurrence),
		string(entry.SpouseProfile),
		entry.Amount,
		entry.RealAmount,
		entry.Conciliado,
	)
	if err != nil {
		return fmt.Errorf("failed to insert planned entry: %w", err)
	}
	return nil
}

// GetPlannedEntries returns all planned entries ordered by due date.
func (s *SQLiteStorage) GetPlannedEntries(ctx context.Context) ([]model.PlannedEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, due_date, recurrence,
			spouse_profile, amount, real_amount, conciliado
		FROM planned_entries
		ORDER BY due_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query planned entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.PlannedEntry
	for rows.Next() {
		var entry model.PlannedEntry
		var recurrence, profile string
		var realAmount sql.NullFloat64

		if err := rows.Scan(
			&entry.ID,
			&entry.Name,
			&entry.Category,
			&entry.DueDate,
			&recurrence,
			&profile,
			&entry.Amount,
			&realAmount,
			&entry.Conciliado,
		); err != nil {
			return nil, fmt.Errorf("failed to scan planned entry: %w", err)
		}

		entry.Recurrence = model.Recurrence(recurrence)
		entry.SpouseProfile = model.SpouseProfile(profile)
		if realAmount.Valid {
			v := realAmount.Float64
			entry.RealAmount = &v
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate planned entries: %w", err)
	}
	return entries, nil
}

// UpdatePlannedEntry overwrites an existing planned entry.
func (s *SQLiteStorage) UpdatePlannedEntry(ctx context.Context, entry *model.PlannedEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePlannedEntry(entry); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE planned_entries SET
			name = ?, category = ?, due_date = ?, recurrence = ?,
			spouse_profile = ?, amount = ?, real_amount = ?, conciliado = ?
		WHERE id = ?
	`,
		entry.Name,
		entry.Category,
		entry.DueDate,
		string(entry.Recurrence),
		string(entry.SpouseProfile),
		entry.Amount,
		entry.RealAmount,
		entry.Conciliado,
		entry.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update planned entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("planned entry %s: %w", entry.ID, common.ErrNotFound)
	}
	return nil
}

// DeletePlannedEntry removes a planned entry.
func (s *SQLiteStorage) DeletePlannedEntry(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `DELETE FROM planned_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete planned entry: %w", err)
	}
	return nil
}
