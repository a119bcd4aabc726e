package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan-Lay/moni/internal/model"
)

// GetFinancialConfig loads the stored household config with defaults merged
// over any missing fields. A database without a stored config yields the
// full default table.
func (s *SQLiteStorage) GetFinancialConfig(ctx context.Context) (model.FinancialConfig, error) {
	if err := validateContext(ctx); err != nil {
		return model.FinancialConfig{}, err
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM financial_config WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultFinancialConfig(), nil
	}
	if err != nil {
		return model.FinancialConfig{}, fmt.Errorf("failed to load financial config: %w", err)
	}

	var cfg model.FinancialConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return model.FinancialConfig{}, fmt.Errorf("failed to decode financial config: %w", err)
	}
	return cfg.MergeDefaults(), nil
}

// SaveFinancialConfig stores the household config as a single snapshot.
func (s *SQLiteStorage) SaveFinancialConfig(ctx context.Context, cfg model.FinancialConfig) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode financial config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO financial_config (id, data, updated_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP
	`, string(data))
	if err != nil {
		return fmt.Errorf("failed to save financial config: %w", err)
	}
	return nil
}

// GetCategoryRegistry rebuilds the category registry: built-ins seeded first,
// stored customizations (custom categories, renames, hides) layered on top.
func (s *SQLiteStorage) GetCategoryRegistry(ctx context.Context) (*model.CategoryRegistry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	registry := model.NewCategoryRegistry()

	rows, err := s.db.QueryContext(ctx, `SELECT key, label, builtin, hidden FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Key, &c.Label, &c.Builtin, &c.Hidden); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		if !c.Builtin {
			registry.Add(c.Key)
		}
		if c.Label != "" && c.Label != c.Key {
			registry.Rename(c.Key, c.Label)
		}
		if c.Hidden {
			registry.Hide(c.Key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return registry, nil
}

// SaveCategory persists one category customization.
func (s *SQLiteStorage) SaveCategory(ctx context.Context, category model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category.Key, "category.Key"); err != nil {
		return err
	}
	if category.Label == "" {
		category.Label = category.Key
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (key, label, builtin, hidden)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET label = excluded.label, hidden = excluded.hidden
	`, category.Key, category.Label, category.Builtin, category.Hidden)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}
