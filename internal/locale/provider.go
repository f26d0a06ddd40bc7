package locale

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Provider resolves a locale code to formatting rules. ok is false when
// the code is not known; callers then fall back to DefaultRules.
type Provider interface {
	Lookup(code string) (Rules, bool)
}

// Table is the default, static Provider. It is immutable; WithKnown
// returns a modified copy.
type Table struct {
	known map[string]struct{}
}

var defaultTable = newTable(append(append([]string{}, ltrLocales...), rtlLocales...))

// Default returns the built-in table of known locales.
func Default() *Table {
	return defaultTable
}

func newTable(codes []string) *Table {
	t := &Table{known: make(map[string]struct{}, len(codes))}
	for _, c := range codes {
		c = lowerCode(c)
		if c == "" {
			continue
		}
		t.known[c] = struct{}{}
	}
	return t
}

// WithKnown returns a table whose known-locale list is replaced by codes.
// An empty list restores the built-in list.
func (t *Table) WithKnown(codes []string) *Table {
	if len(codes) == 0 {
		return defaultTable
	}
	return newTable(codes)
}

// Known returns the sorted list of known codes.
func (t *Table) Known() []string {
	out := make([]string, 0, len(t.known))
	for c := range t.known {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Canonical maps a user-supplied code ("en-US", "zh_CN", "JA") to a known
// code. It tries the exact lower-case code, then the BCP 47 canonical
// form, then the base language.
func (t *Table) Canonical(code string) (string, bool) {
	c := lowerCode(code)
	if c == "" {
		return "", false
	}
	if _, ok := t.known[c]; ok {
		return c, true
	}
	tag, err := language.Parse(c)
	if err != nil {
		return "", false
	}
	if tc := strings.ToLower(tag.String()); tc != c {
		if _, ok := t.known[tc]; ok {
			return tc, true
		}
	}
	base, _ := tag.Base()
	if b := base.String(); b != "" {
		if _, ok := t.known[b]; ok {
			return b, true
		}
	}
	return "", false
}

// Lookup implements Provider.
func (t *Table) Lookup(code string) (Rules, bool) {
	c, ok := t.Canonical(code)
	if !ok {
		return DefaultRules, false
	}
	if r, ok := localeRules[c]; ok {
		r.Code = c
		return r, true
	}
	if r, ok := localeRules[baseOf(c)]; ok {
		r.Code = c
		return r, true
	}
	if IsRTL(c) {
		return rtlRules(c, englishMonths), true
	}
	return knownWithoutData(c), true
}

// DisplayName returns the native name of a locale ("日本語" for "ja"),
// or the code itself when no name is available.
func DisplayName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

func lowerCode(code string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
}

func baseOf(code string) string {
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}
