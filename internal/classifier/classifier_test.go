package classifier

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfalcone/soldi/internal/model"
)

type staticCategories []model.Category

func (s staticCategories) ListCategories(_ context.Context) ([]model.Category, error) {
	return s, nil
}

func testCategories() staticCategories {
	return staticCategories{
		{ID: 1, Name: "Altre uscite"},
		{ID: 2, Name: "Spesa alimentare", Keywords: []string{"esselunga", "coop", "conad"}},
		{ID: 3, Name: "Shopping online", Keywords: []string{"amazon", "ebay"}},
		{ID: 4, Name: "Ristoranti e bar", Keywords: []string{"ristorante", "pizzeria"}},
		{ID: 5, Name: "Bonifici ricevuti", IsIncome: true},
	}
}

func TestMerchantKey(t *testing.T) {
	assert.Equal(t, "shop a", MerchantKey("SHOP A"))
	assert.Equal(t, "shop a", MerchantKey("  Shop   a  "))
	assert.Equal(t, "shop a roma", MerchantKey("SHOP A ROMA VIA GARIBALDI 12"))
	assert.Equal(t, "caffe dell angolo", MerchantKey("Caffè dell'angolo"))
	assert.Equal(t, "", MerchantKey("  --  "))
}

func TestClassifyMerchantCacheTier(t *testing.T) {
	cls := New(testCategories())
	ctx := context.Background()

	// Two corrections for variants of the same merchant collapse onto one
	// cache key.
	cls.LearnFromCorrection("Shop A", 4)
	cls.LearnFromCorrection("  SHOP   a ", 4)

	got, err := cls.Classify(ctx, "SHOP A", "", decimal.NewFromInt(-10), "")
	require.NoError(t, err)
	assert.Equal(t, model.Classification{CategoryID: 4, Confidence: 0.9, Method: model.MethodMerchantCache}, got)
}

func TestClassifyExternalHintTier(t *testing.T) {
	cls := New(testCategories())
	ctx := context.Background()

	got, err := cls.Classify(ctx, "NUOVO NEGOZIO MILANO", "", decimal.NewFromInt(-5), "spesa ALIMENTARE")
	require.NoError(t, err)
	assert.Equal(t, model.Classification{CategoryID: 2, Confidence: 1.0, Method: model.MethodExternalHint}, got)

	// The hint tier wrote the cache: a second call without the hint is a
	// cache hit.
	got, err = cls.Classify(ctx, "NUOVO NEGOZIO MILANO", "", decimal.NewFromInt(-5), "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodMerchantCache, got.Method)
	assert.Equal(t, 2, got.CategoryID)
}

func TestClassifyUnknownHintFallsThrough(t *testing.T) {
	cls := New(testCategories())
	ctx := context.Background()

	got, err := cls.Classify(ctx, "ESSELUNGA MILANO", "", decimal.NewFromInt(-50), "Categoria Inesistente")
	require.NoError(t, err)
	assert.Equal(t, model.MethodKeyword, got.Method)
	assert.Equal(t, 2, got.CategoryID)
}

func TestClassifyKeywordTier(t *testing.T) {
	cls := New(testCategories())
	ctx := context.Background()

	got, err := cls.Classify(ctx, "ESSELUNGA MILANO", "", decimal.NewFromInt(-50), "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodKeyword, got.Method)
	assert.Equal(t, 2, got.CategoryID)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9) // 9/16*10 capped at 0.8
	assert.Equal(t, 1, cls.CacheSize())

	// Cached: the next classification of the same merchant is tier 1.
	got, err = cls.Classify(ctx, "ESSELUNGA MILANO", "", decimal.NewFromInt(-12), "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodMerchantCache, got.Method)
}

func TestClassifyKeywordScoreBelowThreshold(t *testing.T) {
	cls := New(testCategories())
	ctx := context.Background()

	// "coop" inside a long haystack scores 4/len < 0.05 and must not win.
	longDetails := "bonifico disposto tramite apppay riferimento operazione coop numero 0012345678 del mese corrente con causale generica di servizio"
	got, err := cls.Classify(ctx, "XY", longDetails, decimal.NewFromInt(-10), "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodDefault, got.Method)
}

func TestClassifyDefaultTier(t *testing.T) {
	cls := New(testCategories())
	ctx := context.Background()

	expense, err := cls.Classify(ctx, "QWERTY", "", decimal.NewFromInt(-10), "")
	require.NoError(t, err)
	assert.Equal(t, model.Classification{CategoryID: 1, Confidence: 0.3, Method: model.MethodDefault}, expense)

	income, err := cls.Classify(ctx, "QWERTY", "", decimal.NewFromInt(10), "")
	require.NoError(t, err)
	assert.Equal(t, 5, income.CategoryID)
	assert.Equal(t, model.MethodDefault, income.Method)
}

func TestClassifyDefaultTierDoesNotPoisonCache(t *testing.T) {
	cls := New(testCategories())
	ctx := context.Background()

	first, err := cls.Classify(ctx, "QWERTY", "", decimal.NewFromInt(-10), "")
	require.NoError(t, err)
	require.Equal(t, model.MethodDefault, first.Method)
	assert.Equal(t, 0, cls.CacheSize())

	second, err := cls.Classify(ctx, "QWERTY", "", decimal.NewFromInt(-10), "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodDefault, second.Method)
}

func TestClassifyDefaultFallbackWhenNamesMissing(t *testing.T) {
	// Without the literal default-name categories, the absolute fallback
	// id applies.
	cls := New(staticCategories{{ID: 7, Name: "Qualcosa"}})
	ctx := context.Background()

	got, err := cls.Classify(ctx, "QWERTY", "", decimal.NewFromInt(-10), "")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CategoryID)
	assert.Equal(t, model.MethodDefault, got.Method)
}

func TestLearnFromCorrectionOverwrites(t *testing.T) {
	cls := New(testCategories())

	cls.LearnFromCorrection("BAR CENTRALE", 2)
	cls.LearnFromCorrection("BAR CENTRALE", 4)

	got, err := cls.Classify(context.Background(), "BAR CENTRALE", "", decimal.NewFromInt(-3), "")
	require.NoError(t, err)
	assert.Equal(t, 4, got.CategoryID)
}

func TestRebuildCacheFromHistoryFirstSeenWins(t *testing.T) {
	cls := New(testCategories())

	cls.RebuildCacheFromHistory([]model.Transaction{
		{Description: "BAR CENTRALE", CategoryID: 4},
		{Description: "bar centrale", CategoryID: 2}, // later duplicate key is ignored
		{Description: "ESSELUNGA MILANO", CategoryID: 2},
		{Description: "SENZA CATEGORIA", CategoryID: 0}, // uncategorized rows don't teach
	})

	got, err := cls.Classify(context.Background(), "BAR CENTRALE", "", decimal.NewFromInt(-3), "")
	require.NoError(t, err)
	assert.Equal(t, 4, got.CategoryID)
	assert.Equal(t, model.MethodMerchantCache, got.Method)

	assert.Equal(t, 2, cls.CacheSize())
}

func TestClearCache(t *testing.T) {
	cls := New(testCategories())
	cls.LearnFromCorrection("BAR CENTRALE", 4)
	require.Equal(t, 1, cls.CacheSize())

	cls.ClearCache()
	assert.Equal(t, 0, cls.CacheSize())

	got, err := cls.Classify(context.Background(), "BAR CENTRALE", "", decimal.NewFromInt(-3), "")
	require.NoError(t, err)
	assert.Equal(t, model.MethodDefault, got.Method)
}
