package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailParserParse(t *testing.T) {
	p := NewEmailParser()
	fallback := time.Date(2026, 2, 12, 9, 0, 0, 0, time.UTC)

	t.Run("expense notification", func(t *testing.T) {
		got := p.Parse("Hai effettuato una spesa di € 12,34 presso AMAZON MARKETPLACE il 10/02/2026 alle 14:21.", fallback)
		require.NotNil(t, got)

		assert.True(t, got.Amount.Equal(decimal.RequireFromString("-12.34")), "got %s", got.Amount)
		assert.Equal(t, "AMAZON MARKETPLACE", got.Merchant)
		assert.True(t, got.Date.Equal(time.Date(2026, 2, 10, 14, 21, 0, 0, time.UTC)), "got %v", got.Date)
		assert.Equal(t, "EUR", got.Currency)
	})

	t.Run("income keyword overrides literal sign", func(t *testing.T) {
		got := p.Parse("Rimborso di EUR 5,00 da PAYPAL in data 07/02/2026.", fallback)
		require.NotNil(t, got)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("5")), "got %s", got.Amount)
		assert.Equal(t, "PAYPAL", got.Merchant)
	})

	t.Run("no amount means no transaction", func(t *testing.T) {
		assert.Nil(t, p.Parse("La tua carta è pronta all'uso.", fallback))
		assert.Nil(t, p.Parse("", fallback))
	})

	t.Run("html is stripped before extraction", func(t *testing.T) {
		body := "<html><body><p>Hai effettuato un <b>pagamento</b> di&nbsp;€&nbsp;9,99 presso NETFLIX.COM il 01/02/2026.</p></body></html>"
		got := p.Parse(body, fallback)
		require.NotNil(t, got)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString("-9.99")), "got %s", got.Amount)
		assert.NotContains(t, got.Details, "<")
	})

	t.Run("generic body falls back to sentinel merchant and receipt time", func(t *testing.T) {
		got := p.Parse("Operazione eseguita: transazione carta di € 30,00", fallback)
		require.NotNil(t, got)
		assert.Equal(t, GenericMerchant, got.Merchant)
		assert.True(t, got.Date.Equal(fallback))
	})

	t.Run("details are normalized and bounded", func(t *testing.T) {
		body := "spesa di € 1,00 presso BAR SPORT. " + strings.Repeat("x ", 400)
		got := p.Parse(body, fallback)
		require.NotNil(t, got)
		assert.LessOrEqual(t, len([]rune(got.Details)), maxDetailsLen)
	})
}
