package gmail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mfalcone/soldi/internal/classifier"
	"github.com/mfalcone/soldi/internal/common"
	"github.com/mfalcone/soldi/internal/model"
	"github.com/mfalcone/soldi/internal/parser"
	"github.com/mfalcone/soldi/internal/reconcile"
	"github.com/mfalcone/soldi/internal/service"
)

// MessageSource is the slice of the Gmail client the syncer needs.
type MessageSource interface {
	ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (*Message, error)
}

// Syncer runs the email pipeline: fetch, parse, classify, suppress
// duplicates, persist. Saved transactions are tagged with their Gmail
// message id so later cleanup can spot provenance duplicates.
type Syncer struct {
	source     MessageSource
	parser     *parser.EmailParser
	classifier *classifier.Classifier
	store      service.TransactionStore
	logger     *slog.Logger
	query      string
	max        int64
}

// SyncResult summarizes one sync run.
type SyncResult struct {
	Fetched  int
	Imported int
	Skipped  int
	Failed   int
}

// NewSyncer creates a sync pipeline over the given message source.
func NewSyncer(source MessageSource, cls *classifier.Classifier, store service.TransactionStore, query string, max int64) *Syncer {
	return &Syncer{
		source:     source,
		parser:     parser.NewEmailParser(),
		classifier: cls,
		store:      store,
		logger:     slog.Default(),
		query:      query,
		max:        max,
	}
}

// Sync fetches matching messages and persists the transactions they
// describe. Messages with no extractable amount are skipped and logged,
// never fatal. The duplicate hash set is seeded from the persisted
// population, so re-running a sync does not re-import old notifications.
func (s *Syncer) Sync(ctx context.Context, onMessage func()) (SyncResult, error) {
	var result SyncResult

	existing, err := s.store.ListTransactions(ctx)
	if err != nil {
		return result, fmt.Errorf("loading existing transactions: %w", err)
	}
	hashes := reconcile.NewHashSet(existing)

	seenMessages := make(map[string]struct{}, len(existing))
	for _, txn := range existing {
		if msgID := txn.GmailMessageID(); msgID != "" {
			seenMessages[msgID] = struct{}{}
		}
	}

	ids, err := s.source.ListMessageIDs(ctx, s.query, s.max)
	if err != nil {
		return result, err
	}
	result.Fetched = len(ids)

	var toSave []model.Transaction
	for _, id := range ids {
		if onMessage != nil {
			onMessage()
		}

		if _, seen := seenMessages[id]; seen {
			result.Skipped++
			continue
		}

		msg, err := s.source.GetMessage(ctx, id)
		if err != nil {
			common.LogError(err, "failed to fetch message", common.Fields{"message_id": id})
			result.Failed++
			continue
		}

		candidate := s.parser.Parse(msg.Body, msg.Received)
		if candidate == nil {
			s.logger.Debug("no transaction in message", "message_id", id)
			result.Skipped++
			continue
		}

		hash := model.ContentHash(candidate.Date, candidate.Amount, candidate.Merchant, candidate.Details)
		if hashes.Contains(hash) {
			s.logger.Debug("duplicate notification", "message_id", id, "merchant", candidate.Merchant)
			result.Skipped++
			continue
		}

		classification, err := s.classifier.Classify(ctx, candidate.Merchant, candidate.Details, candidate.Amount, "")
		if err != nil {
			return result, fmt.Errorf("classifying %q: %w", candidate.Merchant, err)
		}

		toSave = append(toSave, model.Transaction{
			Date:        candidate.Date,
			Amount:      candidate.Amount,
			Description: candidate.Merchant,
			Details:     candidate.Details,
			Currency:    candidate.Currency,
			CategoryID:  classification.CategoryID,
			Tags:        []string{model.GmailMessageTagPrefix + id},
		})
		hashes.Add(hash)
		result.Imported++
	}

	if len(toSave) > 0 {
		if err := s.store.SaveTransactions(ctx, toSave); err != nil {
			return result, fmt.Errorf("saving transactions: %w", err)
		}
	}

	s.logger.Info("sync complete",
		"fetched", result.Fetched,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}
