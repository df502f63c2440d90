package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mfalcone/soldi/internal/common"
	"github.com/mfalcone/soldi/internal/model"
)

// ListCategories returns every category, ordered by id.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, keywords, is_income
		FROM categories
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows.Scan)
		if scanErr != nil {
			return nil, scanErr
		}
		categories = append(categories, *cat)
	}

	return categories, rows.Err()
}

// GetCategoryByName retrieves a category by its exact name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, keywords, is_income
		FROM categories
		WHERE name = ?
	`, name)

	cat, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return cat, err
}

// CreateCategory inserts a new category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string, keywords []string, isIncome bool) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	if keywords == nil {
		keywords = []string{}
	}

	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keywords: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, keywords, is_income)
		VALUES (?, ?, ?)
	`, name, string(keywordsJSON), isIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to create category %q: %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return &model.Category{
		ID:       int(id),
		Name:     name,
		Keywords: keywords,
		IsIncome: isIncome,
	}, nil
}

func scanCategory(scan func(dest ...any) error) (*model.Category, error) {
	var (
		cat          model.Category
		keywordsJSON string
	)
	if err := scan(&cat.ID, &cat.Name, &keywordsJSON, &cat.IsIncome); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}

	if keywordsJSON != "" {
		if err := json.Unmarshal([]byte(keywordsJSON), &cat.Keywords); err != nil {
			return nil, fmt.Errorf("corrupt keywords for category %d: %w", cat.ID, err)
		}
	}
	return &cat, nil
}
