// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/soldi/internal/model"
)

// CategoryStore is the read-side contract for the category collaborator.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	CreateCategory(ctx context.Context, name string, keywords []string, isIncome bool) (*model.Category, error)
}

// TransactionStore is the contract for the transaction collaborator. The
// core expects materialized sequences, never streams.
type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	GetTransactionsByPeriod(ctx context.Context, start, end time.Time) ([]model.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	UpdateTransactionCategory(ctx context.Context, id int64, categoryID int) error
	UpdateTransactionAmount(ctx context.Context, id int64, amount decimal.Decimal) error
	DeleteTransactions(ctx context.Context, ids []int64) error
}

// Storage is the full persistence contract.
type Storage interface {
	CategoryStore
	TransactionStore

	Migrate(ctx context.Context) error
	Close() error
}
