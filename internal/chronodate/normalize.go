package chronodate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// partialISO matches [+-]Y[-MM[-DD[THH[:MM[:SS[.fff]]]]]][Z]. Each
// component is only allowed when the preceding one is present.
var partialISO = regexp.MustCompile(
	`^([+-]?\d{1,9})` +
		`(?:-(\d{2})` +
		`(?:-(\d{2})` +
		`(?:T(\d{2})` +
		`(?::(\d{2})` +
		`(?::(\d{2})(?:\.\d+)?)?` +
		`)?)?)?)?Z?$`)

// Normalize parses a partial ISO date and returns its canonical Date.
// Missing trailing components default to month 01, day 01, 00:00:00.
//
// Validation runs in this order: structure, month, day (1-31), hour,
// minute, second, and finally calendar consistency (e.g. Feb 30).
func Normalize(partial string) (Date, error) {
	s := strings.TrimSpace(partial)
	m := partialISO.FindStringSubmatch(s)
	if m == nil {
		return Date{}, &Error{Kind: KindInvalidDateFormat, Input: partial}
	}

	year, err := strconv.Atoi(strings.TrimPrefix(m[1], "+"))
	if err != nil {
		return Date{}, &Error{Kind: KindInvalidDateFormat, Input: partial}
	}
	month := field(m[2], "01")
	day := field(m[3], "01")
	hour := field(m[4], "00")
	minute := field(m[5], "00")
	second := field(m[6], "00")

	mo, _ := strconv.Atoi(month)
	if mo < 1 || mo > 12 {
		return Date{}, &Error{Kind: KindInvalidMonth, Input: partial, Field: month}
	}
	dd, _ := strconv.Atoi(day)
	if dd < 1 || dd > 31 {
		return Date{}, &Error{Kind: KindInvalidDay, Input: partial, Field: day}
	}
	hh, _ := strconv.Atoi(hour)
	if hh > 23 {
		return Date{}, &Error{Kind: KindInvalidHour, Input: partial, Field: hour}
	}
	mi, _ := strconv.Atoi(minute)
	if mi > 59 {
		return Date{}, &Error{Kind: KindInvalidMinute, Input: partial, Field: minute}
	}
	ss, _ := strconv.Atoi(second)
	if ss > 59 {
		return Date{}, &Error{Kind: KindInvalidSecond, Input: partial, Field: second}
	}

	t := time.Date(year, time.Month(mo), dd, hh, mi, ss, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != mo || t.Day() != dd ||
		t.Hour() != hh || t.Minute() != mi || t.Second() != ss {
		return Date{}, &Error{
			Kind:  KindInvalidDate,
			Input: partial,
			Field: FormatYear(year) + "-" + month + "-" + day,
		}
	}

	return Date{t: t, valid: true}, nil
}

// MustNormalize is like Normalize but panics on error. Intended for
// constants and tests.
func MustNormalize(partial string) Date {
	d, err := Normalize(partial)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime converts an arbitrary instant to a canonical Date by truncating
// it to whole seconds in UTC.
func FromTime(t time.Time) Date {
	u := t.UTC()
	return Date{t: time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), 0, time.UTC), valid: true}
}

func field(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
