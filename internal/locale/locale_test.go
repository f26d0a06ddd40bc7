package locale

import (
	"testing"
	"time"
)

func TestIsRTL(t *testing.T) {
	for _, c := range []string{"ar", "fa", "he", "ks", "ku", "ur", "yi", "AR", "ar-EG"} {
		if !IsRTL(c) {
			t.Fatalf("expected %q to be RTL", c)
		}
	}
	for _, c := range []string{"en", "ja", "ru", "zh-cn", ""} {
		if IsRTL(c) {
			t.Fatalf("expected %q to be LTR", c)
		}
	}
}

func TestTable_Canonical(t *testing.T) {
	tbl := Default()
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"en", "en", true},
		{"EN", "en", true},
		{"en-US", "en", true},
		{"zh_CN", "zh-cn", true},
		{"zh-TW", "zh-tw", true},
		{"pt-BR", "pt", true},
		{"ja", "ja", true},
		{"xx", "", false},
		{"", "", false},
		{"!!", "", false},
	}
	for _, tc := range cases {
		got, ok := tbl.Canonical(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("Canonical(%q): expected (%q, %v), got (%q, %v)", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestTable_Lookup(t *testing.T) {
	tbl := Default()

	r, ok := tbl.Lookup("ja")
	if !ok || r.Code != "ja" {
		t.Fatalf("expected ja rules, got %+v ok=%v", r, ok)
	}
	if r.Month(time.June) != "6月" {
		t.Fatalf("expected 6月, got %q", r.Month(time.June))
	}

	r, ok = tbl.Lookup("ar")
	if !ok || !r.RTL {
		t.Fatalf("expected RTL rules for ar, got %+v", r)
	}

	// Known but without a month table: English months, known code.
	r, ok = tbl.Lookup("sw")
	if !ok || r.Code != "sw" || r.Month(time.January) != "Jan" {
		t.Fatalf("expected fallback rules for sw, got %+v ok=%v", r, ok)
	}

	// Known RTL without a month table keeps its direction.
	r, ok = tbl.Lookup("yi")
	if !ok || !r.RTL {
		t.Fatalf("expected RTL fallback for yi, got %+v", r)
	}

	r, ok = tbl.Lookup("tlh")
	if ok {
		t.Fatalf("expected unknown locale, got %+v", r)
	}
	if r.DatePattern != DefaultRules.DatePattern {
		t.Fatalf("expected default rules for unknown locale")
	}
}

func TestTable_WithKnown(t *testing.T) {
	tbl := Default().WithKnown([]string{"en", "DE"})
	if got := tbl.Known(); len(got) != 2 || got[0] != "de" || got[1] != "en" {
		t.Fatalf("expected [de en], got %v", got)
	}
	if _, ok := tbl.Lookup("ja"); ok {
		t.Fatalf("expected ja to be unknown after override")
	}
	if len(Default().Known()) < 80 {
		t.Fatalf("expected default table to be untouched")
	}
	if Default().WithKnown(nil) != Default() {
		t.Fatalf("expected empty override to restore the default table")
	}
}

func TestExpand(t *testing.T) {
	got := Expand("{m} {d1}-{d2}, {y}", "{m}", "Jun", "{d1}", "1", "{d2}", "20", "{y}", "2023")
	if got != "Jun 1-20, 2023" {
		t.Fatalf("expected %q, got %q", "Jun 1-20, 2023", got)
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("ja"); got != "日本語" {
		t.Fatalf("expected 日本語, got %q", got)
	}
	if got := DisplayName("??"); got != "??" {
		t.Fatalf("expected code passthrough, got %q", got)
	}
}
