package parser

import (
	"regexp"
	"strings"

	"github.com/mfalcone/soldi/internal/common"
)

// GenericMerchant is the sentinel payee used when no specific merchant can
// be isolated from the notification text.
const GenericMerchant = "Transazione carta"

// genericTokens are banking boilerplate words. A candidate made up solely
// of these carries no merchant information.
var genericTokens = map[string]struct{}{
	"TRANSAZIONE": {},
	"CARTA":       {},
	"PAGAMENTO":   {},
	"OPERAZIONE":  {},
	"SPESA":       {},
	"ACQUISTO":    {},
	"ISYBANK":     {},
	"EUR":         {},
	"EURO":        {},
}

// merchantBoundary stops the captured span before trailing date/time
// clauses ("il 10/02", "alle 14:21", "con carta ...").
const merchantBoundary = `(?:\s+il\b|\s+in\s+data\b|\s+alle\b|\s+ore\b|\s+con\s+(?:la\s+)?carta\b|\s+su\s+carta\b|\s*,|\s*\.|$)`

const merchantCapture = `(.{1,100}?)` + merchantBoundary

// merchantMatcher attempts one extraction pattern, returning a sanitized,
// non-generic candidate when it applies.
type merchantMatcher func(text string) (string, bool)

var merchantMatchers = []merchantMatcher{
	regexMerchantMatcher(`(?i)\bpresso\s+` + merchantCapture),
	regexMerchantMatcher(`(?i)\besercente:?\s+` + merchantCapture),
	regexMerchantMatcher(`(?i)\ba\s+favore\s+di\s+` + merchantCapture),
	regexMerchantMatcher(`(?i)\bda\s+` + merchantCapture),
	regexMerchantMatcher(`(?i)\b(?:pagamento|spesa|acquisto)\s+carta\s+` + merchantCapture),
}

func regexMerchantMatcher(expr string) merchantMatcher {
	re := regexp.MustCompile(expr)
	return func(text string) (string, bool) {
		match := re.FindStringSubmatch(text)
		if len(match) < 2 {
			return "", false
		}
		candidate := sanitizeMerchant(match[1])
		if candidate == "" || IsGenericMerchant(candidate) {
			return "", false
		}
		return candidate, true
	}
}

// firstMerchantMatch runs the matchers in order and returns the first
// successful result.
func firstMerchantMatch(text string, matchers []merchantMatcher) (string, bool) {
	for _, match := range matchers {
		if candidate, ok := match(text); ok {
			return candidate, true
		}
	}
	return "", false
}

// ExtractMerchant isolates a merchant label from notification text. It
// never fails: when every pattern is exhausted without a specific payee,
// the generic sentinel is returned.
func ExtractMerchant(text string) string {
	if merchant, ok := firstMerchantMatch(text, merchantMatchers); ok {
		return merchant
	}
	return GenericMerchant
}

var (
	merchantRestatementRe = regexp.MustCompile(`(?i)^(?:esercente|merchant):?\s+`)
	leadingArticleRe      = regexp.MustCompile(`(?i)^(?:l'|(?:il|lo|la|i|gli|le|un|una|uno)\s+)`)
)

func sanitizeMerchant(raw string) string {
	s := strings.Trim(raw, " \t.,:;-")
	s = common.CollapseWhitespace(s)
	s = merchantRestatementRe.ReplaceAllString(s, "")
	s = leadingArticleRe.ReplaceAllString(s, "")
	s = strings.Trim(s, " .,:;-")
	return strings.ToUpper(s)
}

// IsGenericMerchant reports whether every token of the candidate belongs to
// the generic banking stoplist. The sentinel itself is generic by this
// test, as is an empty string.
func IsGenericMerchant(candidate string) bool {
	tokens := strings.Fields(strings.ToUpper(candidate))
	if len(tokens) == 0 {
		return true
	}
	for _, token := range tokens {
		token = strings.Trim(token, ".,:;")
		if token == "" {
			continue
		}
		if _, ok := genericTokens[token]; !ok {
			return false
		}
	}
	return true
}
