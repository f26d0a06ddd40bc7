package parser

import "chronos/internal/model"

// Grammar is the table of surface tokens the parser recognizes. It is
// plain data so hosts can adapt the sigils without touching the scanner.
type Grammar struct {
	// CommentPrefix starts a line that is skipped silently.
	CommentPrefix string
	// FlagPrefix starts a "KEYWORD [ARGS]" flag line.
	FlagPrefix string
	// RangeSeparator splits "[START~END]".
	RangeSeparator string
	// DescriptionSeparator splits "CONTENT | DESCRIPTION".
	DescriptionSeparator string
	// Sigils maps a leading character to the entity kind it introduces.
	Sigils map[rune]model.Kind
	// DefaultKind applies to lines that start directly with '['.
	DefaultKind model.Kind
}

// DefaultGrammar returns the standard timeline grammar:
//
//	# comment
//	> HEIGHT 300
//	- [2020~2021] Event #color {Group} | description
//	@ [2020~2024] Period
//	* [2020-06-01] Point
//	= [2021] Marker label
func DefaultGrammar() Grammar {
	return Grammar{
		CommentPrefix:        "#",
		FlagPrefix:           ">",
		RangeSeparator:       "~",
		DescriptionSeparator: "|",
		Sigils: map[rune]model.Kind{
			'-': model.KindEvent,
			'@': model.KindPeriod,
			'*': model.KindPoint,
			'=': model.KindMarker,
		},
		DefaultKind: model.KindEvent,
	}
}
