package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedTransaction is the candidate produced by parsing one bank
// notification. It is consumed immediately by classification and
// reconciliation and never persisted in this form.
type ParsedTransaction struct {
	Date     time.Time
	Merchant string
	Currency string
	Details  string
	Amount   decimal.Decimal
}
