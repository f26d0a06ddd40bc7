// Package daterange renders one or two canonical dates as a compact,
// locale-aware string such as "Jun 1-20, 2023" or "2020 - 2022".
package daterange

import (
	"strconv"

	"chronos/internal/chronodate"
	"chronos/internal/locale"
)

// Separator joins the two sides of a range that spans months or years.
const Separator = " - "

// Formatter formats ranges using Locales for per-locale rules. The zero
// value uses the built-in locale table.
type Formatter struct {
	Locales locale.Provider
}

var defaultFormatter = Formatter{}

// Format formats start (and optional end) for the given locale using the
// built-in locale table.
func Format(start chronodate.Date, end *chronodate.Date, code string) string {
	return defaultFormatter.Format(start, end, code)
}

// Format never fails: an unknown locale, or a provider that cannot answer,
// yields the unlocalized default rules.
func (f Formatter) Format(start chronodate.Date, end *chronodate.Date, code string) string {
	r := f.rules(code)

	if end == nil {
		if start.IsYearStart() {
			return yearOnly(r, start.Year())
		}
		return fullDate(r, start)
	}

	e := *end
	switch {
	case start.SameDay(e):
		return fullDate(r, start)
	case start.SameMonth(e):
		return locale.Expand(r.MonthRangePattern,
			"{d1}", strconv.Itoa(start.Day()),
			"{d2}", strconv.Itoa(e.Day()),
			"{m}", r.Month(start.Month()),
			"{y}", strconv.Itoa(start.Year()),
		)
	case start.IsYearStart() && e.IsYearStart():
		// A whole-year range carries no finer information.
		return strconv.Itoa(start.Year()) + Separator + strconv.Itoa(e.Year())
	default:
		return fullDate(r, start) + Separator + fullDate(r, e)
	}
}

func (f Formatter) rules(code string) (r locale.Rules) {
	defer func() {
		// A misbehaving provider must not break a caller's render pass.
		if recover() != nil {
			r = locale.DefaultRules
		}
	}()
	p := f.Locales
	if p == nil {
		p = locale.Default()
	}
	r, ok := p.Lookup(code)
	if !ok || r.DatePattern == "" {
		return locale.DefaultRules
	}
	return r
}

func fullDate(r locale.Rules, d chronodate.Date) string {
	return locale.Expand(r.DatePattern,
		"{d}", strconv.Itoa(d.Day()),
		"{m}", r.Month(d.Month()),
		"{y}", strconv.Itoa(d.Year()),
	)
}

func yearOnly(r locale.Rules, year int) string {
	return locale.Expand(r.YearPattern, "{y}", strconv.Itoa(year))
}
