package reconcile

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/soldi/internal/common"
	"github.com/mfalcone/soldi/internal/model"
	"github.com/mfalcone/soldi/internal/parser"
)

// IndexEntry is one existing transaction under a date+amount key.
type IndexEntry struct {
	Description string
	Details     string
}

// DateAmountKey keys a transaction by calendar day and exact signed amount.
func DateAmountKey(date time.Time, amount decimal.Decimal) string {
	return fmt.Sprintf("%s|%s", date.Format("2006-01-02"), amount.StringFixed(2))
}

// BuildDateAmountIndex indexes existing transactions for
// IsLikelyDuplicateByDateAmount.
func BuildDateAmountIndex(existing []model.Transaction) map[string][]IndexEntry {
	index := make(map[string][]IndexEntry, len(existing))
	for _, txn := range existing {
		key := DateAmountKey(txn.Date, txn.Amount)
		index[key] = append(index[key], IndexEntry{
			Description: txn.Description,
			Details:     txn.Details,
		})
	}
	return index
}

// IsLikelyDuplicateByDateAmount is the single-candidate form of the
// generic-vs-specific scan: a generic candidate is a likely duplicate when
// any existing transaction shares its amount within one calendar day; a
// specific candidate only when an existing entry on the exact day+amount
// key shares its normalized description.
func IsLikelyDuplicateByDateAmount(date time.Time, amount decimal.Decimal, description string, index map[string][]IndexEntry) bool {
	if parser.IsGenericMerchant(description) {
		for _, day := range adjacentDays(date) {
			if len(index[DateAmountKey(day, amount)]) > 0 {
				return true
			}
		}
		return false
	}

	normalized := common.NormalizeText(description)
	for _, entry := range index[DateAmountKey(date, amount)] {
		if common.NormalizeText(entry.Description) == normalized {
			return true
		}
	}
	return false
}

// FindLikelyDuplicateIDs scans an already-persisted population for two
// duplicate classes: transactions sharing a Gmail message tag (all but the
// first are duplicates), and generic-described transactions whose signed
// amount matches a specific-described transaction within one calendar day.
// The generic transaction is always the one reported; a specific one is
// never removed for having a generic counterpart, and two generic
// transactions never flag each other.
func FindLikelyDuplicateIDs(transactions []model.Transaction) map[int64]struct{} {
	duplicates := make(map[int64]struct{})

	seenMessages := make(map[string]struct{})
	for _, txn := range transactions {
		msgID := txn.GmailMessageID()
		if msgID == "" {
			continue
		}
		if _, seen := seenMessages[msgID]; seen {
			duplicates[txn.ID] = struct{}{}
		} else {
			seenMessages[msgID] = struct{}{}
		}
	}

	// Index the specific transactions; generics probe it. Matching is by
	// exact signed amount, with one day of slack to absorb timezone drift
	// between a local record and an email timestamp.
	specificIndex := make(map[string][]int64)
	for _, txn := range transactions {
		if parser.IsGenericMerchant(txn.Description) {
			continue
		}
		key := DateAmountKey(txn.Date, txn.Amount)
		specificIndex[key] = append(specificIndex[key], txn.ID)
	}

	for _, txn := range transactions {
		if !parser.IsGenericMerchant(txn.Description) {
			continue
		}
		if _, already := duplicates[txn.ID]; already {
			continue
		}
		for _, day := range adjacentDays(txn.Date) {
			if len(specificIndex[DateAmountKey(day, txn.Amount)]) > 0 {
				duplicates[txn.ID] = struct{}{}
				break
			}
		}
	}

	return duplicates
}

// adjacentDays returns the day before, the day itself, and the day after,
// truncated to midnight in the transaction's own location.
func adjacentDays(date time.Time) [3]time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return [3]time.Time{day.AddDate(0, 0, -1), day, day.AddDate(0, 0, 1)}
}
