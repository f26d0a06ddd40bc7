package ics

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chronos/internal/model"
	"chronos/internal/parser"
	"chronos/internal/timeline"
)

func feed(lines ...string) []byte {
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

var sampleFeed = feed(
	"BEGIN:VCALENDAR",
	"VERSION:2.0",
	"PRODID:-//test//EN",
	"BEGIN:VEVENT",
	"UID:launch@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART;VALUE=DATE:20240510",
	"DTEND;VALUE=DATE:20240511",
	"SUMMARY:Launch day",
	"CATEGORIES:Release",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:standup@test",
	"DTSTAMP:20240101T000000Z",
	"DTSTART:20240506T090000Z",
	"DTEND:20240506T100000Z",
	"RRULE:FREQ=WEEKLY;COUNT=3",
	"EXDATE:20240513T090000Z",
	"SUMMARY:Standup",
	"END:VEVENT",
	"BEGIN:VEVENT",
	"UID:nostart@test",
	"SUMMARY:Broken",
	"END:VEVENT",
	"END:VCALENDAR",
)

func TestParseICS(t *testing.T) {
	events, err := ParseICS(Source{ID: "test"}, sampleFeed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events (one skipped), got %d", len(events))
	}

	launch := events[0]
	if !launch.AllDay || !launch.Start.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected all-day event %+v", launch)
	}
	if !launch.End.Equal(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected exclusive end 2024-05-11, got %v", launch.End)
	}
	if len(launch.Categories) != 1 || launch.Categories[0] != "Release" {
		t.Fatalf("unexpected categories %v", launch.Categories)
	}

	standup := events[1]
	if standup.AllDay || standup.RawRRule == "" || len(standup.ExDates) != 1 {
		t.Fatalf("unexpected recurring event %+v", standup)
	}
}

func TestParseICS_EmptyBody(t *testing.T) {
	if _, err := ParseICS(Source{}, nil); err == nil {
		t.Fatalf("expected error for empty body")
	}
}

func TestExpandOccurrences(t *testing.T) {
	events, err := ParseICS(Source{ID: "test"}, sampleFeed)
	if err != nil {
		t.Fatal(err)
	}
	res, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for _, o := range res.Occurrences {
		got = append(got, o.Start.Format("01-02 15:04")+" "+o.Summary)
	}
	want := []string{"05-06 09:00 Standup", "05-10 00:00 Launch day", "05-20 09:00 Standup"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExpandOccurrences_Cap(t *testing.T) {
	ev := ParsedEvent{
		UID:      "daily",
		Summary:  "Daily",
		Start:    time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		RawRRule: "FREQ=DAILY",
	}
	res, err := ExpandOccurrences([]ParsedEvent{ev}, ExpandConfig{
		RangeStart:             time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:               time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		MaxOccurrencesPerEvent: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Occurrences) != 10 || len(res.TruncatedEvents) != 1 {
		t.Fatalf("expected 10 occurrences and 1 truncated uid, got %d and %v", len(res.Occurrences), res.TruncatedEvents)
	}
}

func TestExpandOccurrences_InvalidRange(t *testing.T) {
	now := time.Now()
	if _, err := ExpandOccurrences(nil, ExpandConfig{RangeStart: now, RangeEnd: now.Add(-time.Hour)}); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestToTimeline_ParsesBack(t *testing.T) {
	events, err := ParseICS(Source{ID: "test"}, sampleFeed)
	if err != nil {
		t.Fatal(err)
	}
	src, err := ToTimeline(events, ImportOptions{
		Now:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		HorizonDays: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "- [2024-05-06T09:00:00~2024-05-06T10:00:00] Standup\n" +
		"- [2024-05-10] Launch day {Release}\n" +
		"- [2024-05-20T09:00:00~2024-05-20T10:00:00] Standup\n"
	if src != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, src)
	}

	ents, err := parser.ParseLines(src)
	if err != nil {
		t.Fatalf("generated source does not parse: %v", err)
	}
	if len(ents.Items) != 3 || len(ents.Groups) != 1 {
		t.Fatalf("unexpected entities %+v", ents)
	}
}

func TestToSource_EscapesGrammarCharacters(t *testing.T) {
	occ := Occurrence{
		Summary:     "Q3 #1 {draft} | review [x]",
		Description: "line one\nline two",
		AllDay:      true,
		Start:       time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
	}
	src := ToSource([]Occurrence{occ})

	ents, err := parser.ParseLines(src)
	if err != nil {
		t.Fatalf("unexpected error for %q: %v", src, err)
	}
	it := ents.Items[0]
	if it.Color != "" || it.Group != nil {
		t.Fatalf("summary leaked into tags: %+v", it)
	}
	if it.Description != "line one line two" {
		t.Fatalf("unexpected description %q", it.Description)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	src := "- [2020-05-01] Launch #blue {Team} | see https://example.com\n" +
		"@ [2020~2021] Build\n" +
		"= [2020-06-01] Freeze\n" +
		"* [2020-07-01T10:30] Demo\n" +
		"- [-500] Ancient"
	res, err := timeline.Parse(src, timeline.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := Export(res, ExportOptions{Name: "Plan", Now: now})
	if len(out.Skipped) != 1 || out.Skipped[0] != 5 {
		t.Fatalf("expected line 5 skipped, got %v", out.Skipped)
	}

	var buf bytes.Buffer
	if err := out.Serialize(&buf); err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}
	text := buf.String()
	for _, want := range []string{"X-WR-CALNAME:Plan", "CATEGORIES:Team", "COLOR:blue", "DTSTART;VALUE=DATE:20200501"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}

	again := Export(res, ExportOptions{Now: now})
	if again.Calendar.Events()[0].Id() != out.Calendar.Events()[0].Id() {
		t.Fatalf("expected stable UIDs across exports")
	}

	events, err := ParseICS(Source{ID: "export"}, buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error reading export back: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	exp, err := ExpandOccurrences(events, ExpandConfig{
		RangeStart: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}

	back, err := timeline.Parse(ToSource(exp.Occurrences), timeline.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error re-parsing: %v", err)
	}
	if len(back.Items) != 3 || len(back.Markers) != 1 {
		t.Fatalf("expected 3 items and 1 marker, got %d and %d", len(back.Items), len(back.Markers))
	}
	kinds := map[string]model.Kind{}
	for _, it := range back.Items {
		kinds[it.Content] = it.Kind
	}
	if kinds["Build"] != model.KindPeriod || kinds["Demo"] != model.KindPoint || kinds["Launch"] != model.KindEvent {
		t.Fatalf("kinds not preserved: %v", kinds)
	}
	if back.Markers[0].Label != "Freeze" {
		t.Fatalf("unexpected marker %+v", back.Markers[0])
	}
}

func TestFetcher_ConditionalRequests(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		w.Write(sampleFeed)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "feed", URL: srv.URL + "/private.ics?token=secret"}

	first, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.FromCache || !bytes.Equal(first.Body, sampleFeed) {
		t.Fatalf("expected fresh body on first fetch")
	}

	second, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.FromCache || !bytes.Equal(second.Body, sampleFeed) {
		t.Fatalf("expected cached body after 304")
	}
	if hits != 2 {
		t.Fatalf("expected 2 requests, got %d", hits)
	}
}

func TestFetcher_FallsBackOnServerError(t *testing.T) {
	fail := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(sampleFeed)
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir())
	src := Source{URL: srv.URL}
	if _, err := f.Fetch(context.Background(), src); err != nil {
		t.Fatal(err)
	}

	fail = true
	res, err := f.Fetch(context.Background(), src)
	if err != nil || !res.FromCache {
		t.Fatalf("expected cached fallback, got %+v %v", res, err)
	}

	if _, err := NewFetcher(t.TempDir()).Fetch(context.Background(), src); err == nil {
		t.Fatalf("expected error without cache")
	}
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://cal.example.com/private/abc.ics?token=secret")
	if got != "https://cal.example.com/...(redacted)" {
		t.Fatalf("unexpected redaction %q", got)
	}
	if strings.Contains(redactURL("not a url"), "not") {
		t.Fatalf("expected opaque redaction for invalid url")
	}
}

func TestExport_SkipsUnrepresentableEnd(t *testing.T) {
	res, err := timeline.Parse("@ [2020~10000] Far\n- [2020] Near", timeline.DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	out := Export(res, ExportOptions{Now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	if len(out.Skipped) != 1 || out.Skipped[0] != 1 {
		t.Fatalf("expected line 1 skipped, got %v", out.Skipped)
	}
	if n := len(out.Calendar.Events()); n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}
}
