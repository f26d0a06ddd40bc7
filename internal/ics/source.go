package ics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"chronos/internal/model"
)

// ImportOptions bounds the occurrence window used when turning a feed into
// timeline text.
type ImportOptions struct {
	// Now anchors the window; zero means time.Now().
	Now            time.Time
	HorizonDays    int
	BackfillDays   int
	MaxOccurrences int
}

// Window returns the [start, end] range the options describe.
func (o ImportOptions) Window() (time.Time, time.Time) {
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return now.AddDate(0, 0, -o.BackfillDays), now.AddDate(0, 0, o.HorizonDays)
}

// ToTimeline expands events inside the import window and renders them as
// timeline source text.
func ToTimeline(events []ParsedEvent, opts ImportOptions) (string, error) {
	start, end := opts.Window()
	res, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart:             start,
		RangeEnd:               end,
		MaxOccurrencesPerEvent: opts.MaxOccurrences,
	})
	if err != nil {
		return "", err
	}
	return ToSource(res.Occurrences), nil
}

var (
	// Characters the line grammar would read as tags or separators.
	contentEscaper = strings.NewReplacer("|", "/", "{", "(", "}", ")", "#", "＃", "[", "(", "]", ")")
	labelEscaper   = strings.NewReplacer("{", "(", "}", ")", "|", "/")
	colorName      = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)
)

// ToSource renders occurrences as one timeline line each, in order.
//
// All-day occurrences use date precision and timed ones second precision
// in UTC. A single all-day occurrence has no end date; a timed occurrence
// with no duration becomes a point.
func ToSource(occs []Occurrence) string {
	var b strings.Builder
	for _, o := range occs {
		b.WriteString(sourceLine(o))
		b.WriteByte('\n')
	}
	return b.String()
}

func sourceLine(o Occurrence) string {
	dates := formatOccurrenceDates(o)
	kind := occurrenceKind(o)

	var b strings.Builder
	b.WriteString(sigilFor(kind))
	b.WriteString(" [")
	b.WriteString(dates)
	b.WriteString("] ")

	content := strings.Join(strings.Fields(contentEscaper.Replace(o.Summary)), " ")
	if content == "" {
		content = "(untitled)"
	}
	b.WriteString(content)

	if kind != model.KindMarker {
		if c := strings.TrimPrefix(strings.TrimSpace(o.Color), "#"); colorName.MatchString(c) {
			b.WriteString(" #")
			b.WriteString(c)
		}
		if label := strings.TrimSpace(labelEscaper.Replace(o.Category)); label != "" {
			b.WriteString(" {")
			b.WriteString(label)
			b.WriteString("}")
		}
		if desc := occurrenceDescription(o); desc != "" {
			b.WriteString(" | ")
			b.WriteString(desc)
		}
	}
	return b.String()
}

func occurrenceKind(o Occurrence) model.Kind {
	if o.Kind != nil {
		return *o.Kind
	}
	if !o.AllDay && !o.End.After(o.Start) {
		return model.KindPoint
	}
	return model.KindEvent
}

func sigilFor(k model.Kind) string {
	switch k {
	case model.KindPeriod:
		return "@"
	case model.KindPoint:
		return "*"
	case model.KindMarker:
		return "="
	default:
		return "-"
	}
}

func formatOccurrenceDates(o Occurrence) string {
	kind := occurrenceKind(o)
	pointLike := kind == model.KindPoint || kind == model.KindMarker

	if o.AllDay {
		start := o.Start.Format("2006-01-02")
		// DTEND;VALUE=DATE is exclusive: a one day event ends the next day.
		oneDay := !o.End.After(o.Start.AddDate(0, 0, 1))
		if pointLike || (oneDay && kind != model.KindPeriod) || !o.End.After(o.Start) {
			return start
		}
		return fmt.Sprintf("%s~%s", start, o.End.Format("2006-01-02"))
	}

	const layout = "2006-01-02T15:04:05"
	start := o.Start.UTC().Format(layout)
	if pointLike || !o.End.After(o.Start) {
		return start
	}
	return fmt.Sprintf("%s~%s", start, o.End.UTC().Format(layout))
}

func occurrenceDescription(o Occurrence) string {
	var parts []string
	for _, p := range []string{o.Description, o.Location, o.URL} {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ; ")
}
