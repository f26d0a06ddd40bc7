package chronodate

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNormalize_Defaults(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2020", "2020-01-01T00:00:00Z"},
		{"2020-06", "2020-06-01T00:00:00Z"},
		{"2020-06-15", "2020-06-15T00:00:00Z"},
		{"2020-06-15T08", "2020-06-15T08:00:00Z"},
		{"2020-06-15T08:30", "2020-06-15T08:30:00Z"},
		{"2020-06-15T08:30:45", "2020-06-15T08:30:45Z"},
		{"2020-06-15T08:30:45Z", "2020-06-15T08:30:45Z"},
		{"2020-06-15T08:30:45.123Z", "2020-06-15T08:30:45Z"},
		{"  1999-12-31 ", "1999-12-31T00:00:00Z"},
		{"776", "0776-01-01T00:00:00Z"},
		{"+2020", "2020-01-01T00:00:00Z"},
		{"2020Z", "2020-01-01T00:00:00Z"},
	}
	for _, tc := range cases {
		d, err := Normalize(tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q): unexpected error: %v", tc.in, err)
		}
		if got := d.String(); got != tc.want {
			t.Fatalf("Normalize(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalize_NegativeYear(t *testing.T) {
	d, err := Normalize("-0044-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != -44 {
		t.Fatalf("expected year -44, got %d", d.Year())
	}
	if got := d.String(); got != "-0044-03-15T00:00:00Z" {
		t.Fatalf("expected -0044-03-15T00:00:00Z, got %q", got)
	}

	short, err := Normalize("-500")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := short.String(); got != "-0500-01-01T00:00:00Z" {
		t.Fatalf("expected -0500-01-01T00:00:00Z, got %q", got)
	}
}

func TestNormalize_Errors(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		is   error
	}{
		{"", KindInvalidDateFormat, ErrInvalidDateFormat},
		{"abc", KindInvalidDateFormat, ErrInvalidDateFormat},
		{"2020-1-01", KindInvalidDateFormat, ErrInvalidDateFormat},
		{"2020T10", KindInvalidDateFormat, ErrInvalidDateFormat},
		{"2020-01-01T10:00:00+02:00", KindInvalidDateFormat, ErrInvalidDateFormat},
		{"2020-13-01", KindInvalidMonth, ErrInvalidMonth},
		{"2020-00", KindInvalidMonth, ErrInvalidMonth},
		{"2020-01-00", KindInvalidDay, ErrInvalidDay},
		{"2020-01-32", KindInvalidDay, ErrInvalidDay},
		{"2020-01-01T24", KindInvalidHour, ErrInvalidHour},
		{"2020-01-01T23:60", KindInvalidMinute, ErrInvalidMinute},
		{"2020-01-01T23:59:60", KindInvalidSecond, ErrInvalidSecond},
		{"2021-02-29", KindInvalidDate, ErrInvalidDate},
		{"2021-02-30", KindInvalidDate, ErrInvalidDate},
		{"2021-04-31", KindInvalidDate, ErrInvalidDate},
	}
	for _, tc := range cases {
		_, err := Normalize(tc.in)
		if err == nil {
			t.Fatalf("Normalize(%q): expected error %s, got nil", tc.in, tc.kind)
		}
		if !IsKind(err, tc.kind) {
			t.Fatalf("Normalize(%q): expected kind %s, got %v", tc.in, tc.kind, err)
		}
		if !errors.Is(err, tc.is) {
			t.Fatalf("Normalize(%q): expected errors.Is(%v)", tc.in, tc.is)
		}
	}
}

func TestNormalize_LeapDay(t *testing.T) {
	if _, err := Normalize("2020-02-29"); err != nil {
		t.Fatalf("expected 2020-02-29 to be valid, got %v", err)
	}
	if _, err := Normalize("1900-02-29"); !IsKind(err, KindInvalidDate) {
		t.Fatalf("expected 1900-02-29 to be InvalidDate, got %v", err)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"2020", "2020-02", "2020-02-29", "-0044-03-15", "-1", "0",
		"1999-12-31T23:59:59", "12345-06-07T01:02:03Z",
	}
	for _, in := range inputs {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		second, err := Normalize(first.String())
		if err != nil {
			t.Fatalf("Normalize(%q) round-trip: %v", first.String(), err)
		}
		if !first.Equal(second) || first.String() != second.String() {
			t.Fatalf("round-trip mismatch for %q: %s vs %s", in, first, second)
		}
	}
}

func TestNormalize_IgnoresLocalZone(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("UTC+14", 14*3600)
	defer func() { time.Local = saved }()

	d := MustNormalize("2020-01-01")
	if d.Time().Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", d.Time().Location())
	}
	if d.Day() != 1 || d.Hour() != 0 {
		t.Fatalf("expected 1st 00:00, got day=%d hour=%d", d.Day(), d.Hour())
	}
}

func TestDate_TextRoundTrip(t *testing.T) {
	var d Date
	if err := d.UnmarshalText([]byte("2023-06")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := d.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "2023-06-01T00:00:00Z" {
		t.Fatalf("expected canonical text, got %q", b)
	}
	if err := d.UnmarshalText([]byte("2023-02-30")); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestDate_Predicates(t *testing.T) {
	a := MustNormalize("2023-06-01")
	b := MustNormalize("2023-06-20")
	if !a.SameMonth(b) || a.SameDay(b) {
		t.Fatalf("expected same month, different day")
	}
	if !MustNormalize("2020").IsYearStart() {
		t.Fatalf("expected 2020 to be a year start")
	}
	if MustNormalize("2020-01-01T00:00:01").IsYearStart() {
		t.Fatalf("expected one second past midnight not to be a year start")
	}
}

func TestParseEnglish(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"June 1st, 2023", "2023-06-01T00:00:00Z"},
		{"Jun 22nd 2023", "2023-06-22T00:00:00Z"},
		{"Thursday, June 1st 2023, 0:00:00", "2023-06-01T00:00:00Z"},
		{"March 3rd, 2021, 14:05:09", "2021-03-03T14:05:09Z"},
		{"4 July 1776", "1776-07-04T00:00:00Z"},
	}
	for _, tc := range cases {
		d, err := ParseEnglish(tc.in)
		if err != nil {
			t.Fatalf("ParseEnglish(%q): %v", tc.in, err)
		}
		if d.String() != tc.want {
			t.Fatalf("ParseEnglish(%q): expected %s, got %s", tc.in, tc.want, d)
		}
	}
	if _, err := ParseEnglish("not a date"); !errors.Is(err, ErrInvalidDateFormat) {
		t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestDate_YearOneAndZeroSurviveJSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}
	cases := map[string]string{
		"0001": "0001-01-01T00:00:00Z",
		"0000": "0000-01-01T00:00:00Z",
	}
	for in, want := range cases {
		d := MustNormalize(in)
		if d.IsZero() {
			t.Fatalf("Normalize(%q): expected a valid date, got IsZero", in)
		}
		data, err := json.Marshal(wrapper{D: d})
		if err != nil {
			t.Fatalf("marshal %q: %v", in, err)
		}
		if string(data) != `{"d":"`+want+`"}` {
			t.Fatalf("expected %s, got %s", want, data)
		}
		var back wrapper
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if !back.D.Equal(d) || back.D.IsZero() {
			t.Fatalf("expected %s after round trip, got %s", want, back.D)
		}
	}

	var zero Date
	if !zero.IsZero() {
		t.Fatalf("expected the zero Date to report IsZero")
	}
	if !FromTime(time.Time{}).Equal(MustNormalize("0001")) || FromTime(time.Time{}).IsZero() {
		t.Fatalf("expected FromTime to produce a valid year-one date")
	}
}
