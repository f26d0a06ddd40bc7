package locale

import (
	"strings"
	"time"
)

// Rules describes how dates are written in one locale. Patterns use the
// placeholders {d}, {d1}, {d2}, {m} and {y}.
type Rules struct {
	Code string
	RTL  bool

	// Months are the short month names, January first.
	Months [12]string

	// DatePattern renders one full date, e.g. "{m} {d}, {y}".
	DatePattern string
	// MonthRangePattern renders two days of the same month and year.
	MonthRangePattern string
	// YearPattern renders a bare year, e.g. "{y}年".
	YearPattern string
}

// Month returns the short name of m.
func (r Rules) Month(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return r.Months[m-1]
}

// Expand substitutes placeholders in pattern.
func Expand(pattern string, kv ...string) string {
	return strings.NewReplacer(kv...).Replace(pattern)
}

var englishMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// lrm keeps numeric tokens left-to-right inside RTL text.
const lrm = "\u200e"

// DefaultRules is the unlocalized fallback used for unknown codes.
var DefaultRules = Rules{
	Code:              "",
	Months:            englishMonths,
	DatePattern:       "{m} {d}, {y}",
	MonthRangePattern: "{m} {d1}-{d2}, {y}",
	YearPattern:       "{y}",
}

// knownWithoutData applies to known LTR locales with no month table.
func knownWithoutData(code string) Rules {
	return Rules{
		Code:              code,
		Months:            englishMonths,
		DatePattern:       "{m} {d}, {y}",
		MonthRangePattern: "{d1}-{d2} {m} {y}",
		YearPattern:       "{y}",
	}
}

func rtlRules(code string, months [12]string) Rules {
	return Rules{
		Code:              code,
		RTL:               true,
		Months:            months,
		DatePattern:       "{d} " + lrm + "{m} " + lrm + "{y}",
		MonthRangePattern: "{d1}-{d2} " + lrm + "{m} " + lrm + "{y}",
		YearPattern:       "{y}",
	}
}

func dayMonthYear(code string, months [12]string, datePattern string) Rules {
	return Rules{
		Code:              code,
		Months:            months,
		DatePattern:       datePattern,
		MonthRangePattern: "{d1}-{d2} {m} {y}",
		YearPattern:       "{y}",
	}
}

func numberedMonths(suffix string) [12]string {
	var out [12]string
	nums := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}
	for i, n := range nums {
		out[i] = n + suffix
	}
	return out
}

var cjkRules = Rules{
	Months:            numberedMonths("月"),
	DatePattern:       "{y}年{m}{d}日",
	MonthRangePattern: "{y}年{m}{d1}~{d2}日",
	YearPattern:       "{y}年",
}

// localeRules is keyed by canonical lower-case code.
var localeRules = map[string]Rules{
	"en": {
		Months:            englishMonths,
		DatePattern:       "{m} {d}, {y}",
		MonthRangePattern: "{m} {d1}-{d2}, {y}",
		YearPattern:       "{y}",
	},
	"ja":    cjkRules,
	"zh":    cjkRules,
	"zh-cn": cjkRules,
	"zh-tw": cjkRules,
	"ko": {
		Months:            numberedMonths("월"),
		DatePattern:       "{y}년 {m} {d}일",
		MonthRangePattern: "{y}년 {m} {d1}~{d2}일",
		YearPattern:       "{y}년",
	},
	"ru": {
		Months: [12]string{
			"янв.", "февр.", "мар.", "апр.", "мая", "июн.",
			"июл.", "авг.", "сент.", "окт.", "нояб.", "дек.",
		},
		DatePattern:       "{d} {m} {y} г.",
		MonthRangePattern: "{d1}-{d2} {m} {y} г.",
		YearPattern:       "{y} г.",
	},
	"uk": {
		Months: [12]string{
			"січ.", "лют.", "бер.", "квіт.", "трав.", "черв.",
			"лип.", "серп.", "вер.", "жовт.", "лист.", "груд.",
		},
		DatePattern:       "{d} {m} {y} р.",
		MonthRangePattern: "{d1}-{d2} {m} {y} р.",
		YearPattern:       "{y} р.",
	},
	"de": dayMonthYear("de", [12]string{
		"Jan.", "Feb.", "März", "Apr.", "Mai", "Juni",
		"Juli", "Aug.", "Sept.", "Okt.", "Nov.", "Dez.",
	}, "{d}. {m} {y}"),
	"fr": dayMonthYear("fr", [12]string{
		"janv.", "févr.", "mars", "avr.", "mai", "juin",
		"juil.", "août", "sept.", "oct.", "nov.", "déc.",
	}, "{d} {m} {y}"),
	"es": dayMonthYear("es", [12]string{
		"ene", "feb", "mar", "abr", "may", "jun",
		"jul", "ago", "sept", "oct", "nov", "dic",
	}, "{d} {m} {y}"),
	"it": dayMonthYear("it", [12]string{
		"gen", "feb", "mar", "apr", "mag", "giu",
		"lug", "ago", "set", "ott", "nov", "dic",
	}, "{d} {m} {y}"),
	"pt": dayMonthYear("pt", [12]string{
		"jan.", "fev.", "mar.", "abr.", "mai.", "jun.",
		"jul.", "ago.", "set.", "out.", "nov.", "dez.",
	}, "{d} de {m} de {y}"),
	"nl": dayMonthYear("nl", [12]string{
		"jan", "feb", "mrt", "apr", "mei", "jun",
		"jul", "aug", "sep", "okt", "nov", "dec",
	}, "{d} {m} {y}"),
	"pl": dayMonthYear("pl", [12]string{
		"sty", "lut", "mar", "kwi", "maj", "cze",
		"lip", "sie", "wrz", "paź", "lis", "gru",
	}, "{d} {m} {y}"),
	"sv": dayMonthYear("sv", [12]string{
		"jan.", "feb.", "mars", "apr.", "maj", "juni",
		"juli", "aug.", "sep.", "okt.", "nov.", "dec.",
	}, "{d} {m} {y}"),
	"tr": dayMonthYear("tr", [12]string{
		"Oca", "Şub", "Mar", "Nis", "May", "Haz",
		"Tem", "Ağu", "Eyl", "Eki", "Kas", "Ara",
	}, "{d} {m} {y}"),
	"ar": rtlRules("ar", [12]string{
		"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
		"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
	}),
	"he": rtlRules("he", [12]string{
		"ינו׳", "פבר׳", "מרץ", "אפר׳", "מאי", "יוני",
		"יולי", "אוג׳", "ספט׳", "אוק׳", "נוב׳", "דצמ׳",
	}),
	"fa": rtlRules("fa", [12]string{
		"ژانویه", "فوریه", "مارس", "آوریل", "مه", "ژوئن",
		"ژوئیه", "اوت", "سپتامبر", "اکتبر", "نوامبر", "دسامبر",
	}),
	"ur": rtlRules("ur", [12]string{
		"جنوری", "فروری", "مارچ", "اپریل", "مئی", "جون",
		"جولائی", "اگست", "ستمبر", "اکتوبر", "نومبر", "دسمبر",
	}),
}
