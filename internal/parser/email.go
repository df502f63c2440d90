package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/mfalcone/soldi/internal/common"
	"github.com/mfalcone/soldi/internal/model"
)

const (
	defaultCurrency = "EUR"
	maxDetailsLen   = 400
)

// incomeKeywords force a positive amount regardless of the sign the raw
// numeral carried: the textual context is authoritative.
var incomeKeywords = []string{
	"rimborso",
	"storno",
	"riaccredito",
	"accredito",
	"bonifico ricevuto",
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// EmailParser turns one notification's text into a parsed transaction
// candidate by composing the amount, merchant and date extractors.
type EmailParser struct{}

// NewEmailParser creates an email transaction parser.
func NewEmailParser() *EmailParser {
	return &EmailParser{}
}

// Parse extracts a transaction candidate from a message body. fallback is
// used for the timestamp when the text carries no date (typically the
// message receipt time). Returns nil when no amount can be found, which is
// the only failure mode: no amount means this is not a transaction
// notification.
func (p *EmailParser) Parse(text string, fallback time.Time) *model.ParsedTransaction {
	normalized := NormalizeBody(text)

	amount, ok := ExtractAmount(normalized)
	if !ok {
		return nil
	}

	amount = amount.Abs()
	if !containsIncomeKeyword(normalized) {
		amount = amount.Neg()
	}

	return &model.ParsedTransaction{
		Amount:   amount,
		Merchant: ExtractMerchant(normalized),
		Date:     ExtractDate(normalized, fallback),
		Currency: defaultCurrency,
		Details:  truncateRunes(normalized, maxDetailsLen),
	}
}

// NormalizeBody strips HTML tags and non-breaking-space entities and
// collapses whitespace.
func NormalizeBody(text string) string {
	text = htmlTagRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return common.CollapseWhitespace(text)
}

func containsIncomeKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range incomeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
