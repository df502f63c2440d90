// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mfalcone/soldi/internal/common"
)

// GmailMessageTagPrefix marks a transaction as originating from a specific
// Gmail message. The suffix is the Gmail message id.
const GmailMessageTagPrefix = "gmail-msg:"

// Transaction represents a persisted financial transaction from any source.
type Transaction struct {
	Date        time.Time
	Description string
	Details     string
	Currency    string
	Account     string
	Tags        []string
	Amount      decimal.Decimal
	ID          int64
	CategoryID  int
}

// ContentHash builds the full-content identity used for duplicate
// suppression across import runs. Case and whitespace variations of the
// description and details hash identically.
func ContentHash(date time.Time, amount decimal.Decimal, description, details string) string {
	data := fmt.Sprintf("%s|%s|%s|%s",
		date.Format("20060102"),
		amount.StringFixed(2),
		common.NormalizeText(description),
		common.NormalizeText(details),
	)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Hash returns the transaction's content hash.
func (t *Transaction) Hash() string {
	return ContentHash(t.Date, t.Amount, t.Description, t.Details)
}

// HasTag reports whether the transaction carries the given tag.
func (t *Transaction) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// GmailMessageID returns the Gmail message id this transaction was synced
// from, or "" when it did not come from the email pipeline.
func (t *Transaction) GmailMessageID() string {
	for _, tag := range t.Tags {
		if strings.HasPrefix(tag, GmailMessageTagPrefix) {
			return strings.TrimPrefix(tag, GmailMessageTagPrefix)
		}
	}
	return ""
}
