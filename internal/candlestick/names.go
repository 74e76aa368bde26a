package candlestick

import (
	"sort"
	"strings"
	"unicode/utf8"

	"chartspoint/internal/htmltext"
)

// Alias maps a name used by writers to the pattern it refers to.
type Alias struct {
	Name    string
	Pattern Pattern
}

// Aliases lists Arabic names, common variations and English names.
var Aliases = []Alias{
	{"المطرقة", Hammer},
	{"نموذج المطرقة", Hammer},
	{"Hammer", Hammer},

	{"الرجل المعلق", HangingMan},
	{"الرجل المشنوق", HangingMan},
	{"نموذج الرجل المعلق", HangingMan},
	{"Hanging Man", HangingMan},

	{"النجم الساقط", ShootingStar},
	{"الشهاب", ShootingStar},
	{"نموذج الشهاب", ShootingStar},
	{"Shooting Star", ShootingStar},

	{"دوجي", Doji},
	{"شمعة دوجي", Doji},
	{"نموذج دوجي", Doji},
	{"Doji", Doji},

	{"ماروبوزو", MarubozuBullish},
	{"ماروبوزو صاعد", MarubozuBullish},
	{"ماروبوزو هابط", MarubozuBearish},
	{"Marubozu", MarubozuBullish},

	{"الابتلاع الصعودي", EngulfingBullish},
	{"نموذج الابتلاع الصعودي", EngulfingBullish},
	{"Bullish Engulfing", EngulfingBullish},

	{"الابتلاع الهبوطي", EngulfingBearish},
	{"نموذج الابتلاع الهبوطي", EngulfingBearish},
	{"Bearish Engulfing", EngulfingBearish},

	{"هارامي صعودي", HaramiBullish},
	{"نموذج هارامي الصعودي", HaramiBullish},
	{"Bullish Harami", HaramiBullish},

	{"هارامي هبوطي", HaramiBearish},
	{"نموذج هارامي الهبوطي", HaramiBearish},
	{"Bearish Harami", HaramiBearish},

	{"القمم المتساوية", TweezerTop},
	{"قمة الملقط", TweezerTop},
	{"Tweezer Top", TweezerTop},

	{"القيعان المتساوية", TweezerBottom},
	{"قاع الملقط", TweezerBottom},
	{"Tweezer Bottom", TweezerBottom},

	{"نجمة الصباح", MorningStar},
	{"نموذج نجمة الصباح", MorningStar},
	{"Morning Star", MorningStar},

	{"نجمة المساء", EveningStar},
	{"نموذج نجمة المساء", EveningStar},
	{"Evening Star", EveningStar},

	{"ثلاثة جنود بيض", ThreeWhiteSoldiers},
	{"الجنود الثلاثة البيض", ThreeWhiteSoldiers},
	{"Three White Soldiers", ThreeWhiteSoldiers},

	{"ثلاثة غربان سود", ThreeBlackCrows},
	{"الغربان الثلاثة السود", ThreeBlackCrows},
	{"Three Black Crows", ThreeBlackCrows},
}

type matcher struct {
	needle  string
	pattern Pattern
}

// longest aliases first so "ماروبوزو هابط" wins over "ماروبوزو"
var headingMatchers = buildMatchers()

func buildMatchers() []matcher {
	ms := make([]matcher, len(Aliases))
	for i, a := range Aliases {
		ms[i] = matcher{needle: normalizeName(a.Name), pattern: a.Pattern}
	}
	sort.SliceStable(ms, func(i, j int) bool {
		return utf8.RuneCountInString(ms[i].needle) > utf8.RuneCountInString(ms[j].needle)
	})
	return ms
}

func normalizeName(s string) string {
	return strings.ToLower(htmltext.StripDiacritics(s))
}

// PatternFromName resolves an exact alias, falling back to a
// case-insensitive comparison for English names.
func PatternFromName(name string) (Pattern, bool) {
	for _, a := range Aliases {
		if a.Name == name {
			return a.Pattern, true
		}
	}
	lower := strings.ToLower(name)
	for _, a := range Aliases {
		if strings.ToLower(a.Name) == lower {
			return a.Pattern, true
		}
	}
	return "", false
}

// DetectInHeading returns the pattern named anywhere in a heading's text.
func DetectInHeading(text string) (Pattern, bool) {
	normalized := normalizeName(text)
	if normalized == "" {
		return "", false
	}
	for _, m := range headingMatchers {
		if strings.Contains(normalized, m.needle) {
			return m.pattern, true
		}
	}
	return "", false
}
