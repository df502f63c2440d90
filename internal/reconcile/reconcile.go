// Package reconcile decides whether candidate transactions are new,
// duplicates, or modifications of what is already persisted, and finds
// likely duplicates inside an already-imported population. Everything here
// is pure computation: absent or empty inputs yield empty results.
package reconcile

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/soldi/internal/common"
	"github.com/mfalcone/soldi/internal/model"
)

// Status classifies a candidate against the existing population.
type Status string

// Preview statuses.
const (
	StatusNew       Status = "new"
	StatusDuplicate Status = "duplicate"
	StatusModified  Status = "modified"
)

// Candidate is one row under consideration for import.
type Candidate struct {
	Date        time.Time
	Description string
	Details     string
	Amount      decimal.Decimal
}

// PreviewItem is a candidate with its assigned status. ExistingID targets
// the record to update when the status is modified.
type PreviewItem struct {
	Candidate
	Status     Status
	ExistingID int64
}

// PreviewResult summarizes a preview pass over a batch.
type PreviewResult struct {
	Items          []PreviewItem
	NewCount       int
	DuplicateCount int
	ModifiedCount  int
}

type previewSlot struct {
	amount decimal.Decimal
	id     int64
}

// previewKey matches on day + description + details, deliberately ignoring
// the amount so that an amount correction on an otherwise-identical row
// surfaces as modified instead of as a new row.
func previewKey(date time.Time, description, details string) string {
	return fmt.Sprintf("%s|%s|%s",
		date.Format("2006-01-02"),
		common.NormalizeText(description),
		common.NormalizeText(details),
	)
}

// buildPreviewIndex maps preview keys to existing records. Known
// limitation: two existing transactions identical on day+description+
// details collide, the later one claims the slot and the other becomes
// invisible to preview matching.
func buildPreviewIndex(existing []model.Transaction) map[string]previewSlot {
	index := make(map[string]previewSlot, len(existing))
	for _, txn := range existing {
		index[previewKey(txn.Date, txn.Description, txn.Details)] = previewSlot{
			id:     txn.ID,
			amount: txn.Amount,
		}
	}
	return index
}

// PreviewBatch classifies each candidate as new, duplicate, or modified
// against the existing population. Nothing is mutated.
func PreviewBatch(candidates []Candidate, existing []model.Transaction) PreviewResult {
	index := buildPreviewIndex(existing)

	result := PreviewResult{Items: make([]PreviewItem, 0, len(candidates))}
	for _, candidate := range candidates {
		item := PreviewItem{Candidate: candidate, Status: StatusNew}

		if slot, ok := index[previewKey(candidate.Date, candidate.Description, candidate.Details)]; ok {
			if slot.amount.Equal(candidate.Amount) {
				item.Status = StatusDuplicate
			} else {
				item.Status = StatusModified
				item.ExistingID = slot.id
			}
		}

		switch item.Status {
		case StatusNew:
			result.NewCount++
		case StatusDuplicate:
			result.DuplicateCount++
		case StatusModified:
			result.ModifiedCount++
		}
		result.Items = append(result.Items, item)
	}

	return result
}

// HashSet suppresses full-content duplicates within one import run and
// across runs. Each pipeline seeds its own set from persisted transactions.
type HashSet map[string]struct{}

// NewHashSet seeds a hash set from the existing population.
func NewHashSet(existing []model.Transaction) HashSet {
	set := make(HashSet, len(existing))
	for i := range existing {
		set[existing[i].Hash()] = struct{}{}
	}
	return set
}

// Contains reports whether the hash is already present.
func (h HashSet) Contains(hash string) bool {
	_, ok := h[hash]
	return ok
}

// Add records a hash.
func (h HashSet) Add(hash string) {
	h[hash] = struct{}{}
}
