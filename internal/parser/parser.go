// Package parser turns timeline DSL text into items, markers, groups and
// display flags.
//
// Parsing never stops at the first bad line. Every line-level failure is
// recorded with its 1-based line number and returned together in a single
// *AggregateError, alongside everything that did parse.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"chronos/internal/chronodate"
	appLog "chronos/internal/log"
	"chronos/internal/model"
)

// Entities is the raw output of one parse, before assembly.
type Entities struct {
	Items   []model.Item
	Markers []model.Marker
	Groups  []model.Group
	Flags   model.Flags
}

var (
	colorTag = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_-]+)`)
	groupTag = regexp.MustCompile(`\{([^{}]*)\}`)
	wikiLink = regexp.MustCompile(`\[\[[^\[\]]+\]\]`)
	urlLink  = regexp.MustCompile(`https?://[^\s|]+`)
)

// OrderKeys are the item fields ORDERBY may name, each optionally
// prefixed with "-" for descending order.
var OrderKeys = map[string]struct{}{
	"start":       {},
	"end":         {},
	"content":     {},
	"color":       {},
	"group":       {},
	"type":        {},
	"description": {},
}

// ParseLines parses source with DefaultGrammar.
func ParseLines(source string) (Entities, error) {
	return DefaultGrammar().Parse(source)
}

// Parse scans source line by line. The returned Entities hold every line
// that parsed; err is a *AggregateError when any line failed.
func (g Grammar) Parse(source string) (Entities, error) {
	s := &scanner{
		g:        g,
		lines:    strings.Split(source, "\n"),
		groupIDs: make(map[string]int),
	}
	s.run()

	if len(s.errs) > 0 {
		return s.out, &AggregateError{Errors: s.errs}
	}
	return s.out, nil
}

// scanner holds all per-call state; nothing is shared between parses.
type scanner struct {
	g        Grammar
	lines    []string
	pos      int
	out      Entities
	groupIDs map[string]int
	errs     []*LineError
}

func (s *scanner) run() {
	for s.pos = 0; s.pos < len(s.lines); s.pos++ {
		line := strings.TrimSpace(strings.TrimSuffix(s.lines[s.pos], "\r"))
		lineNo := s.pos + 1

		var err error
		switch {
		case line == "":
		case s.g.CommentPrefix != "" && strings.HasPrefix(line, s.g.CommentPrefix):
		case s.g.FlagPrefix != "" && strings.HasPrefix(line, s.g.FlagPrefix):
			err = s.flagLine(strings.TrimSpace(strings.TrimPrefix(line, s.g.FlagPrefix)))
		default:
			err = s.entityLine(line, lineNo)
		}
		if err != nil {
			s.errs = append(s.errs, &LineError{Line: lineNo, Err: err})
		}
	}
}

func (s *scanner) flagLine(rest string) error {
	keyword, args := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		keyword, args = rest[:i], strings.TrimSpace(rest[i:])
	}

	switch strings.ToUpper(keyword) {
	case "ORDERBY":
		return s.orderBy(args)
	case "DEFAULTVIEW":
		return s.defaultView(args)
	case "NOTODAY":
		if args != "" {
			return fmt.Errorf("%w: NOTODAY takes no arguments, got %q", ErrMalformedFlagArgument, args)
		}
		s.out.Flags.NoToday = true
	case "HEIGHT":
		n, err := strconv.Atoi(args)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: HEIGHT must be a positive integer, got %q", ErrMalformedFlagArgument, args)
		}
		s.out.Flags.Height = n
	default:
		appLog.Debug("ignoring unknown flag", "keyword", keyword, "line", s.pos+1)
	}
	return nil
}

func (s *scanner) orderBy(args string) error {
	if args == "" {
		return fmt.Errorf("%w: ORDERBY needs at least one key", ErrMalformedFlagArgument)
	}
	var keys []string
	for _, raw := range strings.Split(args, "|") {
		key := strings.ToLower(strings.TrimSpace(raw))
		name := strings.TrimPrefix(key, "-")
		if _, ok := OrderKeys[name]; !ok {
			return fmt.Errorf("%w: ORDERBY unknown key %q", ErrMalformedFlagArgument, strings.TrimSpace(raw))
		}
		keys = append(keys, key)
	}
	s.out.Flags.OrderBy = keys
	return nil
}

func (s *scanner) defaultView(args string) error {
	startText, endText, ok := strings.Cut(args, "|")
	if !ok {
		startText, endText, ok = strings.Cut(args, s.g.RangeSeparator)
	}
	if !ok {
		return fmt.Errorf("%w: DEFAULTVIEW expects START|END, got %q", ErrMalformedFlagArgument, args)
	}
	start, err := chronodate.Normalize(startText)
	if err != nil {
		return fmt.Errorf("%w: DEFAULTVIEW start: %w", ErrMalformedFlagArgument, err)
	}
	end, err := chronodate.Normalize(endText)
	if err != nil {
		return fmt.Errorf("%w: DEFAULTVIEW end: %w", ErrMalformedFlagArgument, err)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: DEFAULTVIEW end %s is before start %s", ErrMalformedFlagArgument, end, start)
	}
	s.out.Flags.DefaultView = &model.ViewWindow{Start: start, End: end}
	return nil
}

func (s *scanner) entityLine(line string, lineNo int) error {
	kind, rest, err := s.sigil(line)
	if err != nil {
		return err
	}

	if !strings.HasPrefix(rest, "[") {
		return fmt.Errorf("%w: expected [DATE] after sigil in %q", ErrUnrecognizedEntityLine, line)
	}
	closeIdx := strings.IndexByte(rest, ']')
	if closeIdx < 0 {
		return fmt.Errorf("%w: missing closing ] in %q", ErrUnrecognizedEntityLine, line)
	}

	start, end, err := s.dates(rest[1:closeIdx], line)
	if err != nil {
		return err
	}
	if end != nil && (kind == model.KindPoint || kind == model.KindMarker) {
		return fmt.Errorf("%w: a %s cannot have an end date", ErrUnrecognizedEntityLine, kind)
	}

	text, desc, _ := strings.Cut(rest[closeIdx+1:], s.g.DescriptionSeparator)
	desc = strings.TrimSpace(desc)

	color := ""
	if m := colorTag.FindStringSubmatchIndex(text); m != nil {
		color = text[m[2]:m[3]]
		text = text[:m[0]] + " " + text[m[1]:]
	}
	groupName := ""
	if m := groupTag.FindStringSubmatchIndex(text); m != nil {
		groupName = strings.TrimSpace(text[m[2]:m[3]])
		text = text[:m[0]] + " " + text[m[1]:]
	}
	content := strings.Join(strings.Fields(text), " ")

	if kind == model.KindMarker {
		s.out.Markers = append(s.out.Markers, model.Marker{
			Start: start,
			Label: content,
			Line:  lineNo,
		})
		return nil
	}

	item := model.Item{
		Content:     content,
		Start:       start,
		End:         end,
		Kind:        kind,
		Color:       color,
		Description: desc,
		Link:        findLink(desc),
		Line:        lineNo,
	}
	if groupName != "" {
		id := s.groupID(groupName)
		item.Group = &id
	}
	s.out.Items = append(s.out.Items, item)
	return nil
}

func (s *scanner) sigil(line string) (model.Kind, string, error) {
	r, size := utf8.DecodeRuneInString(line)
	if kind, ok := s.g.Sigils[r]; ok {
		return kind, strings.TrimSpace(line[size:]), nil
	}
	if r == '[' {
		return s.g.DefaultKind, line, nil
	}
	return 0, "", fmt.Errorf("%w: %q", ErrUnrecognizedEntityLine, line)
}

func (s *scanner) dates(text, line string) (chronodate.Date, *chronodate.Date, error) {
	startText, endText, isRange := strings.Cut(text, s.g.RangeSeparator)
	if isRange && strings.TrimSpace(endText) == "" {
		return chronodate.Date{}, nil, fmt.Errorf("%w: missing end date in %q", ErrUnrecognizedEntityLine, line)
	}

	start, err := chronodate.Normalize(startText)
	if err != nil {
		return chronodate.Date{}, nil, err
	}
	if !isRange {
		return start, nil, nil
	}
	end, err := chronodate.Normalize(endText)
	if err != nil {
		return chronodate.Date{}, nil, err
	}
	return start, &end, nil
}

// groupID returns the id for label, allocating ids from 1 in order of
// first appearance.
func (s *scanner) groupID(label string) int {
	if id, ok := s.groupIDs[label]; ok {
		return id
	}
	id := len(s.out.Groups) + 1
	s.groupIDs[label] = id
	s.out.Groups = append(s.out.Groups, model.Group{ID: id, Label: label})
	return id
}

// findLink returns the first wiki link or URL in text, verbatim.
func findLink(text string) string {
	if m := wikiLink.FindString(text); m != "" {
		return m
	}
	return urlLink.FindString(text)
}
