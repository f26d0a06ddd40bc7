package ics

import (
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"chronos/internal/chronodate"
	appLog "chronos/internal/log"
	"chronos/internal/model"
)

// uidNamespace seeds the name-based UUIDs of exported events.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("chronos:timeline"))

// ExportOptions configures Export.
type ExportOptions struct {
	// Name becomes X-WR-CALNAME when set.
	Name string
	// Now is written as DTSTAMP; zero means time.Now().
	Now time.Time
}

// ExportResult is the calendar plus the entries that could not be
// represented.
type ExportResult struct {
	Calendar *ical.Calendar
	// Skipped holds the source lines of entries outside years 1-9999,
	// which iCalendar cannot express.
	Skipped []int
}

// Export converts a parse result into a VCALENDAR. Items and markers become
// VEVENTs whose UID is derived from canonical start, content and line, so
// exporting the same source twice yields the same UIDs.
func Export(res model.ParseResult, opts ExportOptions) ExportResult {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ical.NewCalendarFor("chronos")
	cal.SetMethod(ical.MethodPublish)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	labels := make(map[int]string, len(res.Groups))
	for _, g := range res.Groups {
		labels[g.ID] = strings.TrimSpace(g.Label)
	}

	out := ExportResult{Calendar: cal}
	for _, it := range res.Items {
		if !representable(it.Start) || (it.IsRange() && !representable(*it.End)) {
			out.Skipped = append(out.Skipped, it.Line)
			continue
		}
		ev := cal.AddEvent(eventUID(it.Start, it.Content, it.Line))
		ev.SetDtStampTime(now)
		ev.SetSummary(it.Content)
		setDates(ev, it.Start, it.End)
		ev.SetProperty(kindProperty, it.Kind.String())
		if it.Description != "" {
			ev.SetDescription(it.Description)
		}
		if strings.HasPrefix(it.Link, "http://") || strings.HasPrefix(it.Link, "https://") {
			ev.SetURL(it.Link)
		}
		if it.Color != "" {
			ev.SetColor(it.Color)
		}
		if it.Group != nil {
			if label := labels[*it.Group]; label != "" {
				ev.AddCategory(label)
			}
		}
	}

	for _, m := range res.Markers {
		if !representable(m.Start) {
			out.Skipped = append(out.Skipped, m.Line)
			continue
		}
		ev := cal.AddEvent(eventUID(m.Start, m.Label, m.Line))
		ev.SetDtStampTime(now)
		ev.SetSummary(m.Label)
		setDates(ev, m.Start, nil)
		ev.SetProperty(kindProperty, model.KindMarker.String())
	}

	if len(out.Skipped) > 0 {
		appLog.Warn("ics export skipped entries outside years 1-9999", "lines", out.Skipped)
	}
	appLog.Info("ics export completed", "event_count", len(cal.Events()))
	return out
}

// Serialize writes the calendar as iCalendar text.
func (r ExportResult) Serialize(w io.Writer) error {
	return r.Calendar.SerializeTo(w)
}

func eventUID(start chronodate.Date, content string, line int) string {
	name := start.String() + "\x00" + content + "\x00" + strconv.Itoa(line)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@chronos"
}

func representable(d chronodate.Date) bool {
	return d.Year() >= 1 && d.Year() <= 9999
}

func isMidnight(d chronodate.Date) bool {
	return d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0
}

// setDates writes DTSTART/DTEND. Midnight-only values become all-day
// dates; an all-day entry without an end lasts one day.
func setDates(ev *ical.VEvent, start chronodate.Date, end *chronodate.Date) {
	allDay := isMidnight(start) && (end == nil || isMidnight(*end))
	if allDay {
		ev.SetAllDayStartAt(start.Time())
		stop := start.Time().AddDate(0, 0, 1)
		if end != nil && end.Time().After(start.Time()) {
			stop = end.Time()
		}
		ev.SetAllDayEndAt(stop)
		return
	}

	ev.SetStartAt(start.Time())
	if end != nil && !end.Before(start) {
		ev.SetEndAt(end.Time())
	}
}
