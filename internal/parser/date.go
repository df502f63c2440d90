package parser

import (
	"regexp"
	"strconv"
	"time"
)

// Matches DD/MM, optionally /YY or /YYYY, optionally followed by HH:MM with
// an optional connector ("alle", "alle ore", "ore").
var dateTimeRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2}|\d{4}))?(?:\s+(?:alle\s+ore|alle|ore))?(?:\s+(\d{1,2}):(\d{2}))?\b`)

// ExtractDate pulls a transaction timestamp out of notification text. When
// no date is found, or the matched date fails calendar validation, the
// caller-supplied fallback is returned unmodified: a message receipt time
// is a better ordering guess than any synthetic default.
func ExtractDate(text string, fallback time.Time) time.Time {
	match := dateTimeRe.FindStringSubmatch(text)
	if match == nil {
		return fallback
	}

	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])

	year := fallback.Year()
	if match[3] != "" {
		y, _ := strconv.Atoi(match[3])
		if len(match[3]) == 2 {
			y += 2000
		}
		year = y
	}

	hour, minute := 0, 0
	if match[4] != "" {
		hour, _ = strconv.Atoi(match[4])
		minute, _ = strconv.Atoi(match[5])
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, fallback.Location())

	// time.Date normalizes out-of-range components (31/04 becomes 01/05);
	// a mismatch means the literal was not a real calendar date.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day || t.Hour() != hour || t.Minute() != minute {
		return fallback
	}

	return t
}
