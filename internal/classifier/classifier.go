// Package classifier assigns categories to transactions using a layered
// strategy backed by an online-learned merchant cache.
package classifier

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/soldi/internal/common"
	"github.com/mfalcone/soldi/internal/model"
)

// Default-tier category names. These are looked up by exact name; renaming
// either category in the store silently degrades the default tier to the
// absolute fallback id.
const (
	DefaultIncomeCategory  = "Bonifici ricevuti"
	DefaultExpenseCategory = "Altre uscite"

	fallbackCategoryID = 1
)

// Confidence values per tier. Ordering is part of the contract:
// external-hint > merchant-cache > keyword > default.
const (
	hintConfidence    = 1.0
	cacheConfidence   = 0.9
	maxKeywordScore   = 0.8
	defaultConfidence = 0.3

	keywordThreshold = 0.05
)

// CategorySource lists the categories available for classification. The
// sequence only needs to be stable within one call.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Classifier owns the merchant cache. The cache is process-wide state,
// rebuilt from transaction history at startup; it grows without bound and
// has no expiry. A read in tier 1 and a write in tiers 2/3 are not atomic
// together: two concurrent first classifications of the same merchant may
// both compute and write the same key. Last-write-wins makes that benign.
type Classifier struct {
	categories CategorySource
	cache      map[string]int
	mu         sync.RWMutex
}

// New creates a classifier with an empty merchant cache.
func New(categories CategorySource) *Classifier {
	return &Classifier{
		categories: categories,
		cache:      make(map[string]int),
	}
}

// MerchantKey normalizes a description into the cache key: lowercase,
// diacritics folded, punctuation dropped, first three tokens.
func MerchantKey(description string) string {
	tokens := strings.Fields(common.NormalizeAlnum(description))
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, " ")
}

// Classify assigns a category. Tiers, first applicable wins:
// merchant cache, external hint, keyword scoring, sign-based default.
// hint is an external system's own category label ("" when absent); an
// unknown hint is silently ignored. Malformed input never errors; the only
// error source is the category store.
func (c *Classifier) Classify(ctx context.Context, description, details string, amount decimal.Decimal, hint string) (model.Classification, error) {
	key := MerchantKey(description)

	c.mu.RLock()
	categoryID, hit := c.cache[key]
	c.mu.RUnlock()
	if hit {
		return model.Classification{
			CategoryID: categoryID,
			Confidence: cacheConfidence,
			Method:     model.MethodMerchantCache,
		}, nil
	}

	categories, err := c.categories.ListCategories(ctx)
	if err != nil {
		return model.Classification{}, err
	}

	if hint != "" {
		for _, cat := range categories {
			if strings.EqualFold(cat.Name, hint) {
				c.remember(key, cat.ID)
				return model.Classification{
					CategoryID: cat.ID,
					Confidence: hintConfidence,
					Method:     model.MethodExternalHint,
				}, nil
			}
		}
	}

	if result, ok := c.classifyByKeyword(key, description, details, categories); ok {
		return result, nil
	}

	// Low-confidence guess: deliberately not cached, so a later call with
	// better context is not poisoned by this one.
	return model.Classification{
		CategoryID: defaultCategoryID(categories, amount),
		Confidence: defaultConfidence,
		Method:     model.MethodDefault,
	}, nil
}

// classifyByKeyword scores every category keyword by containment in the
// normalized description+details and keeps the best match.
func (c *Classifier) classifyByKeyword(key, description, details string, categories []model.Category) (model.Classification, bool) {
	searchText := common.NormalizeAlnum(description + " " + details)
	if searchText == "" {
		return model.Classification{}, false
	}

	bestScore := 0.0
	bestCategory := 0
	for _, cat := range categories {
		for _, keyword := range cat.Keywords {
			normalized := common.NormalizeAlnum(keyword)
			if normalized == "" || !strings.Contains(searchText, normalized) {
				continue
			}
			score := float64(len(normalized)) / float64(len(searchText))
			if score > bestScore {
				bestScore = score
				bestCategory = cat.ID
			}
		}
	}

	if bestScore <= keywordThreshold {
		return model.Classification{}, false
	}

	c.remember(key, bestCategory)

	confidence := bestScore * 10
	if confidence > maxKeywordScore {
		confidence = maxKeywordScore
	}
	return model.Classification{
		CategoryID: bestCategory,
		Confidence: confidence,
		Method:     model.MethodKeyword,
	}, true
}

func defaultCategoryID(categories []model.Category, amount decimal.Decimal) int {
	name := DefaultExpenseCategory
	if amount.Sign() > 0 {
		name = DefaultIncomeCategory
	}
	for _, cat := range categories {
		if cat.Name == name {
			return cat.ID
		}
	}
	return fallbackCategoryID
}

// LearnFromCorrection records a user's category edit, overwriting any
// previous mapping for the merchant.
func (c *Classifier) LearnFromCorrection(description string, categoryID int) {
	c.remember(MerchantKey(description), categoryID)
}

// RebuildCacheFromHistory replays persisted transactions into the cache.
// Unlike single corrections, replay is first-seen-wins: a key already
// present is left alone.
func (c *Classifier) RebuildCacheFromHistory(transactions []model.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, txn := range transactions {
		if txn.CategoryID == 0 {
			continue
		}
		key := MerchantKey(txn.Description)
		if key == "" {
			continue
		}
		if _, exists := c.cache[key]; !exists {
			c.cache[key] = txn.CategoryID
		}
	}
}

// ClearCache empties the merchant cache.
func (c *Classifier) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]int)
}

// CacheSize returns the number of learned merchant mappings.
func (c *Classifier) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Classifier) remember(key string, categoryID int) {
	if key == "" {
		return
	}
	c.mu.Lock()
	c.cache[key] = categoryID
	c.mu.Unlock()
}
