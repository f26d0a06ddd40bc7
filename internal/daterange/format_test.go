package daterange

import (
	"strings"
	"testing"

	"chronos/internal/chronodate"
	"chronos/internal/locale"
)

func d(s string) chronodate.Date { return chronodate.MustNormalize(s) }

func ptr(s string) *chronodate.Date {
	v := d(s)
	return &v
}

func TestFormat_English(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   *chronodate.Date
		want  string
	}{
		{"bare year", "2020", nil, "2020"},
		{"single date", "2023-06-01", nil, "Jun 1, 2023"},
		{"single date with time", "2023-06-01T10:30", nil, "Jun 1, 2023"},
		{"same day", "2023-06-01", ptr("2023-06-01"), "Jun 1, 2023"},
		{"same month", "2023-06-01", ptr("2023-06-20"), "Jun 1-20, 2023"},
		{"whole years", "2020", ptr("2022"), "2020 - 2022"},
		{"cross month", "2023-06-01", ptr("2023-07-04"), "Jun 1, 2023 - Jul 4, 2023"},
		{"cross year", "2022-12-30", ptr("2023-01-02"), "Dec 30, 2022 - Jan 2, 2023"},
		{"jan 1 to other day", "2020", ptr("2021-03-05"), "Jan 1, 2020 - Mar 5, 2021"},
		{"negative year", "-0044-03-15", nil, "Mar 15, -44"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Format(d(tc.start), tc.end, "en")
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormat_YearCollapseAnyLocale(t *testing.T) {
	for _, code := range []string{"en", "ja", "ko", "ru", "ar", "de", "unknown"} {
		got := Format(d("2020-01-01"), ptr("2022-01-01"), code)
		if got != "2020 - 2022" {
			t.Fatalf("locale %s: expected %q, got %q", code, "2020 - 2022", got)
		}
	}
}

func TestFormat_EastAsian(t *testing.T) {
	cases := []struct {
		code  string
		start string
		end   *chronodate.Date
		want  string
	}{
		{"ja", "2020", nil, "2020年"},
		{"zh", "2020", nil, "2020年"},
		{"zh-CN", "2020", nil, "2020年"},
		{"ko", "2020", nil, "2020년"},
		{"ja", "2023-06-01", ptr("2023-06-20"), "2023年6月1~20日"},
		{"zh", "2023-06-01", ptr("2023-06-20"), "2023年6月1~20日"},
		{"ko", "2023-06-01", ptr("2023-06-20"), "2023년 6월 1~20일"},
		{"ja", "2023-06-01", nil, "2023年6月1日"},
		{"ko", "2023-06-01", nil, "2023년 6월 1일"},
	}
	for _, tc := range cases {
		got := Format(d(tc.start), tc.end, tc.code)
		if got != tc.want {
			t.Fatalf("%s %s: expected %q, got %q", tc.code, tc.start, tc.want, got)
		}
	}
}

func TestFormat_Russian(t *testing.T) {
	if got := Format(d("2023-06-01"), ptr("2023-06-20"), "ru"); got != "1-20 июн. 2023 г." {
		t.Fatalf("expected month after day range, got %q", got)
	}
	if got := Format(d("2020"), nil, "ru"); got != "2020 г." {
		t.Fatalf("expected year suffix, got %q", got)
	}
}

func TestFormat_RTL(t *testing.T) {
	got := Format(d("2023-06-01"), nil, "ar")
	want := "1 \u200eيونيو \u200e2023"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	got = Format(d("2023-06-01"), ptr("2023-06-20"), "he")
	want = "1-20 \u200eיוני \u200e2023"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	got = Format(d("2023-06-01"), ptr("2024-02-03"), "ar")
	if !strings.Contains(got, Separator) || strings.Count(got, "\u200e") != 4 {
		t.Fatalf("expected two marked dates, got %q", got)
	}
}

func TestFormat_UnknownLocaleFallsBack(t *testing.T) {
	if got := Format(d("2023-06-01"), ptr("2023-06-20"), "tlh"); got != "Jun 1-20, 2023" {
		t.Fatalf("expected unlocalized default, got %q", got)
	}
	if got := Format(d("2023-06-01"), nil, ""); got != "Jun 1, 2023" {
		t.Fatalf("expected unlocalized default, got %q", got)
	}
}

type panickyProvider struct{}

func (panickyProvider) Lookup(string) (locale.Rules, bool) { panic("lookup failed") }

type emptyProvider struct{}

func (emptyProvider) Lookup(string) (locale.Rules, bool) { return locale.Rules{}, true }

func TestFormatter_ProviderFailureDegrades(t *testing.T) {
	for _, p := range []locale.Provider{panickyProvider{}, emptyProvider{}} {
		f := Formatter{Locales: p}
		if got := f.Format(d("2023-06-01"), nil, "en"); got != "Jun 1, 2023" {
			t.Fatalf("%T: expected default pattern, got %q", p, got)
		}
	}
}

func TestFormat_DoesNotMutateInputs(t *testing.T) {
	start := d("2023-06-01")
	end := d("2023-06-20")
	before := end.String()
	_ = Format(start, &end, "en")
	if end.String() != before || start.String() != "2023-06-01T00:00:00Z" {
		t.Fatalf("inputs were modified")
	}
}
