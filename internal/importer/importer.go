// Package importer commits already-decoded spreadsheet rows into the
// transaction store. Decoding the spreadsheet format itself is an external
// collaborator's job; rows arrive as structured tuples.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/soldi/internal/classifier"
	"github.com/mfalcone/soldi/internal/model"
	"github.com/mfalcone/soldi/internal/reconcile"
	"github.com/mfalcone/soldi/internal/service"
)

// Row is one decoded spreadsheet row. CategoryHint carries the external
// system's own category label, if any.
type Row struct {
	Date         time.Time
	Description  string
	Details      string
	Currency     string
	Account      string
	CategoryHint string
	Amount       decimal.Decimal
}

// Importer previews and commits row batches.
type Importer struct {
	classifier *classifier.Classifier
	store      service.TransactionStore
	logger     *slog.Logger
}

// CommitResult summarizes a committed import.
type CommitResult struct {
	Imported int
	Updated  int
	Skipped  int
}

// New creates an importer.
func New(cls *classifier.Classifier, store service.TransactionStore) *Importer {
	return &Importer{
		classifier: cls,
		store:      store,
		logger:     slog.Default(),
	}
}

// Preview classifies each row as new, duplicate, or modified against the
// persisted population without changing anything.
func (i *Importer) Preview(ctx context.Context, rows []Row) (reconcile.PreviewResult, error) {
	existing, err := i.store.ListTransactions(ctx)
	if err != nil {
		return reconcile.PreviewResult{}, fmt.Errorf("loading existing transactions: %w", err)
	}
	return reconcile.PreviewBatch(toCandidates(rows), existing), nil
}

// Commit applies a batch: new rows are classified and inserted, duplicates
// skipped, modified rows update the existing record's amount. A content
// hash set guards against the same row appearing twice within one batch.
func (i *Importer) Commit(ctx context.Context, rows []Row) (CommitResult, error) {
	var result CommitResult

	existing, err := i.store.ListTransactions(ctx)
	if err != nil {
		return result, fmt.Errorf("loading existing transactions: %w", err)
	}

	preview := reconcile.PreviewBatch(toCandidates(rows), existing)
	hashes := reconcile.NewHashSet(existing)

	var toSave []model.Transaction
	for idx, item := range preview.Items {
		row := rows[idx]

		switch item.Status {
		case reconcile.StatusDuplicate:
			result.Skipped++

		case reconcile.StatusModified:
			if err := i.store.UpdateTransactionAmount(ctx, item.ExistingID, row.Amount); err != nil {
				return result, fmt.Errorf("updating transaction %d: %w", item.ExistingID, err)
			}
			result.Updated++

		case reconcile.StatusNew:
			hash := model.ContentHash(row.Date, row.Amount, row.Description, row.Details)
			if hashes.Contains(hash) {
				result.Skipped++
				continue
			}

			classification, err := i.classifier.Classify(ctx, row.Description, row.Details, row.Amount, row.CategoryHint)
			if err != nil {
				return result, fmt.Errorf("classifying %q: %w", row.Description, err)
			}

			currency := row.Currency
			if currency == "" {
				currency = "EUR"
			}

			toSave = append(toSave, model.Transaction{
				Date:        row.Date,
				Amount:      row.Amount,
				Description: row.Description,
				Details:     row.Details,
				Currency:    currency,
				Account:     row.Account,
				CategoryID:  classification.CategoryID,
			})
			hashes.Add(hash)
			result.Imported++
		}
	}

	if len(toSave) > 0 {
		if err := i.store.SaveTransactions(ctx, toSave); err != nil {
			return result, fmt.Errorf("saving transactions: %w", err)
		}
	}

	i.logger.Info("import committed",
		"imported", result.Imported,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

func toCandidates(rows []Row) []reconcile.Candidate {
	candidates := make([]reconcile.Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = reconcile.Candidate{
			Date:        row.Date,
			Description: row.Description,
			Details:     row.Details,
			Amount:      row.Amount,
		}
	}
	return candidates
}
