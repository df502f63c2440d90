package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/soldi/internal/common"
	"github.com/mfalcone/soldi/internal/model"
)

// SaveTransactions inserts transactions in a single database transaction.
// Inserted rows receive their generated ids.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(transactions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (date, amount, description, details, currency, account, category_id, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]

		tagsJSON, marshalErr := marshalTags(txn.Tags)
		if marshalErr != nil {
			return marshalErr
		}

		result, execErr := stmt.ExecContext(ctx,
			txn.Date,
			txn.Amount.String(),
			txn.Description,
			txn.Details,
			txn.Currency,
			txn.Account,
			txn.CategoryID,
			tagsJSON,
		)
		if execErr != nil {
			return fmt.Errorf("failed to insert transaction %q: %w", txn.Description, execErr)
		}

		id, idErr := result.LastInsertId()
		if idErr != nil {
			return fmt.Errorf("failed to read inserted id: %w", idErr)
		}
		txn.ID = id
	}

	return tx.Commit()
}

// ListTransactions returns every persisted transaction, oldest first.
func (s *SQLiteStorage) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, `
		SELECT id, date, amount, description, details, currency, account, category_id, tags
		FROM transactions
		ORDER BY date, id
	`)
}

// GetTransactionsByPeriod returns transactions within [start, end).
func (s *SQLiteStorage) GetTransactionsByPeriod(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %v before start %v", ErrInvalidInput, end, start)
	}
	return s.queryTransactions(ctx, `
		SELECT id, date, amount, description, details, currency, account, category_id, tags
		FROM transactions
		WHERE date >= ? AND date < ?
		ORDER BY date, id
	`, start, end)
}

// UpdateTransactionCategory reassigns a transaction to a category.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, id int64, categoryID int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category_id = ? WHERE id = ?
	`, categoryID, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}
	return requireRowsAffected(result)
}

// UpdateTransactionAmount corrects a transaction's amount, used when an
// import preview marks a row as modified.
func (s *SQLiteStorage) UpdateTransactionAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET amount = ? WHERE id = ?
	`, amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to update transaction amount: %w", err)
	}
	return requireRowsAffected(result)
}

// DeleteTransactions removes the given transactions.
func (s *SQLiteStorage) DeleteTransactions(ctx context.Context, ids []int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM transactions WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("failed to delete transaction %d: %w", id, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var (
			txn       model.Transaction
			amountStr string
			tagsJSON  string
		)
		if err := rows.Scan(
			&txn.ID,
			&txn.Date,
			&amountStr,
			&txn.Description,
			&txn.Details,
			&txn.Currency,
			&txn.Account,
			&txn.CategoryID,
			&tagsJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amount, parseErr := decimal.NewFromString(amountStr)
		if parseErr != nil {
			return nil, fmt.Errorf("corrupt amount %q for transaction %d: %w", amountStr, txn.ID, parseErr)
		}
		txn.Amount = amount

		if tagsJSON != "" {
			if err := json.Unmarshal([]byte(tagsJSON), &txn.Tags); err != nil {
				return nil, fmt.Errorf("corrupt tags for transaction %d: %w", txn.ID, err)
			}
		}

		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tags: %w", err)
	}
	return string(data), nil
}

func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
