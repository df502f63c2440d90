package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application
// expects. Failure to reach it is fatal.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					keywords TEXT NOT NULL DEFAULT '[]',
					is_income INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					date DATETIME NOT NULL,
					amount TEXT NOT NULL,
					description TEXT NOT NULL,
					details TEXT NOT NULL DEFAULT '',
					currency TEXT NOT NULL DEFAULT 'EUR',
					account TEXT NOT NULL DEFAULT '',
					category_id INTEGER NOT NULL DEFAULT 0,
					tags TEXT NOT NULL DEFAULT '[]',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_category ON transactions(category_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed default categories",
		Up:          seedDefaultCategories,
	},
}

// Default category set. "Altre uscite" is first so that it lands on id 1,
// the absolute classification fallback.
var defaultCategories = []struct {
	name     string
	keywords []string
	isIncome bool
}{
	{name: "Altre uscite"},
	{name: "Spesa alimentare", keywords: []string{"esselunga", "coop", "conad", "carrefour", "lidl", "eurospin", "supermercato"}},
	{name: "Ristoranti e bar", keywords: []string{"ristorante", "pizzeria", "trattoria", "osteria", "caffe", "mcdonald", "burger"}},
	{name: "Trasporti", keywords: []string{"trenitalia", "italo", "autostrade", "telepass", "benzina", "esso", "eni station", "q8"}},
	{name: "Shopping online", keywords: []string{"amazon", "ebay", "zalando", "aliexpress", "paypal"}},
	{name: "Utenze", keywords: []string{"enel", "eni gas", "hera", "tim", "vodafone", "fastweb", "iliad", "bolletta"}},
	{name: "Salute", keywords: []string{"farmacia", "parafarmacia", "ospedale", "ticket sanitario"}},
	{name: "Bonifici ricevuti", keywords: []string{"bonifico ricevuto", "stipendio", "emolumenti"}, isIncome: true},
	{name: "Altre entrate", keywords: []string{"rimborso", "storno"}, isIncome: true},
}

func seedDefaultCategories(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO categories (name, keywords, is_income)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, cat := range defaultCategories {
		keywords := cat.keywords
		if keywords == nil {
			keywords = []string{}
		}
		keywordsJSON, marshalErr := json.Marshal(keywords)
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal keywords for %q: %w", cat.name, marshalErr)
		}
		if _, err := stmt.Exec(cat.name, string(keywordsJSON), cat.isIncome); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", cat.name, err)
		}
	}
	return nil
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}

		// PRAGMA does not support placeholders.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		slog.Info("applied migration", "version", migration.Version, "description", migration.Description)
		current = migration.Version
	}

	if current != ExpectedSchemaVersion {
		return fmt.Errorf("schema version %d does not match expected %d", current, ExpectedSchemaVersion)
	}
	return nil
}
