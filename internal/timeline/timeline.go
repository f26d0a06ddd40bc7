// Package timeline is the entry point of the compiler: it validates
// options, runs the line parser and assembles the final ParseResult.
package timeline

import (
	"errors"
	"fmt"

	"chronos/internal/locale"
	appLog "chronos/internal/log"
	"chronos/internal/model"
	"chronos/internal/parser"
)

// DefaultGroupID is the id of the synthetic lane for ungrouped items.
const DefaultGroupID = 0

// defaultGroupLabel is blank but non-empty so renderers still draw a lane.
const defaultGroupLabel = " "

// fallbackLocale replaces locale codes the table does not know.
const fallbackLocale = "en"

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid options")

// Options enumerates every setting a parse accepts.
type Options struct {
	// Locale is a known locale code; it is canonicalized during Validate.
	Locale string
	// RoundRanges asks the renderer to draw end caps on ranged items.
	RoundRanges bool
	// UseUTC asks the renderer to display times in UTC instead of local time.
	UseUTC bool
	// Locales resolves Locale; nil means the built-in table.
	Locales *locale.Table
	// Grammar overrides the DSL grammar; nil means parser.DefaultGrammar.
	Grammar *parser.Grammar
}

// DefaultOptions returns English, square range ends and UTC display.
func DefaultOptions() Options {
	return Options{
		Locale: fallbackLocale,
		UseUTC: true,
	}
}

// Validate canonicalizes the locale. An unknown code falls back to
// fallbackLocale; ErrInvalidOptions is returned only when the table does
// not know the fallback either.
func (o *Options) Validate() error {
	tbl := o.Locales
	if tbl == nil {
		tbl = locale.Default()
	}
	if o.Locale == "" {
		o.Locale = fallbackLocale
	}
	code, ok := tbl.Canonical(o.Locale)
	if !ok {
		appLog.Debug("unknown locale, using fallback", "locale", o.Locale, "fallback", fallbackLocale)
		if code, ok = tbl.Canonical(fallbackLocale); !ok {
			return fmt.Errorf("%w: unknown locale %q", ErrInvalidOptions, o.Locale)
		}
	}
	o.Locale = code
	return nil
}

// Parse compiles source into a ParseResult. When some lines fail, Parse
// still returns everything that parsed, together with a
// *parser.AggregateError listing each failing line.
func Parse(source string, opts Options) (model.ParseResult, error) {
	if err := opts.Validate(); err != nil {
		return model.ParseResult{}, err
	}

	g := parser.DefaultGrammar()
	if opts.Grammar != nil {
		g = *opts.Grammar
	}

	ents, perr := g.Parse(source)
	res := Assemble(ents.Items, ents.Markers, ents.Groups, ents.Flags)
	return res, perr
}

// Assemble packages parsed entities. When any group exists it appends the
// default group and places every ungrouped item on it. Inputs are not
// modified and no reordering or filtering takes place.
func Assemble(items []model.Item, markers []model.Marker, groups []model.Group, flags model.Flags) model.ParseResult {
	res := model.ParseResult{
		Items:   make([]model.Item, len(items)),
		Markers: make([]model.Marker, len(markers)),
		Groups:  make([]model.Group, len(groups), len(groups)+1),
		Flags:   flags,
	}
	copy(res.Items, items)
	copy(res.Markers, markers)
	copy(res.Groups, groups)

	if len(groups) == 0 {
		return res
	}

	res.Groups = append(res.Groups, model.Group{ID: DefaultGroupID, Label: defaultGroupLabel})
	for i := range res.Items {
		if res.Items[i].Group == nil {
			id := DefaultGroupID
			res.Items[i].Group = &id
		}
	}
	return res
}
