// Package locale holds the static locale data used by the range formatter:
// which codes are known, which are right-to-left, and per-locale date
// patterns. Nothing here consults the platform locale database.
package locale

var rtlLocales = []string{"ar", "fa", "he", "ks", "ku", "ur", "yi"}

var ltrLocales = []string{
	"af", "az", "be", "bg", "bn", "bs", "ca", "cs", "cy", "da",
	"de", "el", "en", "eo", "es", "et", "eu", "fi", "fr", "ga",
	"gl", "gu", "hi", "hr", "hu", "hy", "id", "is", "it", "ja",
	"jv", "ka", "kk", "km", "kn", "ko", "ky", "la", "lb", "lo",
	"lt", "lv", "mg", "mi", "mk", "ml", "mn", "mr", "ms", "mt",
	"my", "nb", "ne", "nl", "nn", "pl", "pt", "ro", "ru", "si",
	"sk", "sl", "so", "sq", "sr", "su", "sv", "sw", "ta", "te",
	"th", "tr", "uk", "vi", "xh", "zh", "zh-cn", "zh-tw", "zu",
}

var rtlSet = toSet(rtlLocales)

// IsRTL reports whether code is a right-to-left locale. The check is on the
// canonical lower-case code and its base language ("ar-eg" -> "ar").
func IsRTL(code string) bool {
	c := lowerCode(code)
	if _, ok := rtlSet[c]; ok {
		return true
	}
	_, ok := rtlSet[baseOf(c)]
	return ok
}

func toSet(codes []string) map[string]struct{} {
	m := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		m[c] = struct{}{}
	}
	return m
}
