// Package parser extracts structured transaction candidates from the free
// text of Italian bank-notification emails.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount patterns, tried in priority order. Only the first match of the
// first matching pattern is used.
var amountPatterns = []*regexp.Regexp{
	// A transaction verb, an optional filler word, an optional currency
	// marker, then the numeral: "spesa di € 12,34", "rimborso di EUR 5,00".
	regexp.MustCompile(`(?i)\b(?:spesa|pagamento|acquisto|addebito|rimborso|storno|accredito)\b(?:\s+(?:di|per|pari\s+a))?\s*(?:€|euro|eur)?\s*(\d(?:[\d.,\s]*\d)?)`),
	// Currency marker followed by the numeral: "€ 12,34", "EUR 5,00".
	regexp.MustCompile(`(?i)(?:€|euro|eur)\s*(\d(?:[\d.,\s]*\d)?)`),
	// Numeral followed by a currency marker: "12,34 €", "20,00 euro".
	regexp.MustCompile(`(?i)(\d(?:[\d.,\s]*\d)?)\s*(?:€|euro|eur)\b`),
}

// ExtractAmount pulls a monetary amount out of notification text. The
// returned amount carries whatever sign the literal had; callers decide the
// final sign from context. Returns false when no pattern matches or the
// matched literal is not a parseable number.
func ExtractAmount(text string) (decimal.Decimal, bool) {
	for _, re := range amountPatterns {
		match := re.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		return parseLocalizedNumeral(match[1])
	}
	return decimal.Decimal{}, false
}

// parseLocalizedNumeral normalizes Italian/European number formatting:
// when both separators appear, "." groups thousands and "," marks decimals;
// a lone "," marks decimals; otherwise the literal is parsed as-is.
func parseLocalizedNumeral(literal string) (decimal.Decimal, bool) {
	literal = strings.Join(strings.Fields(literal), "")
	literal = strings.Trim(literal, ".,")

	hasDot := strings.Contains(literal, ".")
	hasComma := strings.Contains(literal, ",")

	switch {
	case hasDot && hasComma:
		literal = strings.ReplaceAll(literal, ".", "")
		literal = strings.ReplaceAll(literal, ",", ".")
	case hasComma:
		literal = strings.ReplaceAll(literal, ",", ".")
	}

	amount, err := decimal.NewFromString(literal)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return amount, true
}
