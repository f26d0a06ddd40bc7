package chronodate

import (
	"regexp"
	"strings"
	"time"
)

var (
	ordinalSuffix = regexp.MustCompile(`(\d+)(st|nd|rd|th)\b`)
	weekdayPrefix = regexp.MustCompile(`^(?i)(mon|tue|wed|thu|fri|sat|sun)[a-z]*,?\s+`)
)

var englishLayouts = []string{
	"January 2, 2006, 15:04:05",
	"January 2 2006, 15:04:05",
	"January 2, 2006 15:04:05",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006, 15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseEnglish parses an English human-readable date such as
// "June 1st, 2023" or "Thursday, June 1st 2023, 0:00:00" into a Date.
// The result is interpreted in UTC.
func ParseEnglish(s string) (Date, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = weekdayPrefix.ReplaceAllString(cleaned, "")
	cleaned = ordinalSuffix.ReplaceAllString(cleaned, "$1")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	for _, layout := range englishLayouts {
		t, err := time.ParseInLocation(layout, cleaned, time.UTC)
		if err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, &Error{Kind: KindInvalidDateFormat, Input: s}
}
