// Package candlestick holds the Japanese candlestick pattern catalogue used
// across the site and injects inline SVG visuals into article HTML wherever a
// heading names a pattern.
package candlestick

// Pattern identifies one of the sixteen supported candlestick patterns.
type Pattern string

const (
	Doji            Pattern = "doji"
	Hammer          Pattern = "hammer"
	HangingMan      Pattern = "hanging-man"
	ShootingStar    Pattern = "shooting-star"
	MarubozuBullish Pattern = "marubozu-bullish"
	MarubozuBearish Pattern = "marubozu-bearish"

	EngulfingBullish Pattern = "engulfing-bullish"
	EngulfingBearish Pattern = "engulfing-bearish"
	HaramiBullish    Pattern = "harami-bullish"
	HaramiBearish    Pattern = "harami-bearish"
	TweezerTop       Pattern = "tweezer-top"
	TweezerBottom    Pattern = "tweezer-bottom"

	MorningStar        Pattern = "morning-star"
	EveningStar        Pattern = "evening-star"
	ThreeWhiteSoldiers Pattern = "three-white-soldiers"
	ThreeBlackCrows    Pattern = "three-black-crows"
)

// Category is the number of candles a pattern spans.
type Category string

const (
	Single Category = "single"
	Double Category = "double"
	Triple Category = "triple"
)

// Signal is the market direction a pattern suggests.
type Signal string

const (
	Bullish Signal = "bullish"
	Bearish Signal = "bearish"
	Neutral Signal = "neutral"
)

// Config describes a pattern for display.
type Config struct {
	NameAr      string
	NameEn      string
	Signal      Signal
	SignalAr    string
	Category    Category
	CategoryAr  string
	Reliability int // 1..5
	Description string
}

// ByCategory lists the patterns of each category in display order.
var ByCategory = map[Category][]Pattern{
	Single: {Doji, Hammer, HangingMan, ShootingStar, MarubozuBullish, MarubozuBearish},
	Double: {EngulfingBullish, EngulfingBearish, HaramiBullish, HaramiBearish, TweezerTop, TweezerBottom},
	Triple: {MorningStar, EveningStar, ThreeWhiteSoldiers, ThreeBlackCrows},
}

// All lists every pattern in display order.
func All() []Pattern {
	all := make([]Pattern, 0, 16)
	for _, c := range []Category{Single, Double, Triple} {
		all = append(all, ByCategory[c]...)
	}
	return all
}

// Configs indexes the catalogue by pattern.
var Configs = map[Pattern]Config{
	Doji: {
		NameAr: "دوجي", NameEn: "Doji",
		Signal: Neutral, SignalAr: "محايد",
		Category: Single, CategoryAr: "شمعة واحدة",
		Reliability: 3,
		Description: "يشير إلى تردد السوق وتوازن قوى العرض والطلب",
	},
	Hammer: {
		NameAr: "المطرقة", NameEn: "Hammer",
		Signal: Bullish, SignalAr: "صعودي",
		Category: Single, CategoryAr: "شمعة واحدة",
		Reliability: 4,
		Description: "نموذج انعكاسي صعودي يظهر في نهاية الاتجاه الهابط",
	},
	HangingMan: {
		NameAr: "الرجل المشنوق", NameEn: "Hanging Man",
		Signal: Bearish, SignalAr: "هبوطي",
		Category: Single, CategoryAr: "شمعة واحدة",
		Reliability: 3,
		Description: "نموذج انعكاسي هبوطي يظهر في نهاية الاتجاه الصاعد",
	},
	ShootingStar: {
		NameAr: "الشهاب", NameEn: "Shooting Star",
		Signal: Bearish, SignalAr: "هبوطي",
		Category: Single, CategoryAr: "شمعة واحدة",
		Reliability: 4,
		Description: "نموذج انعكاسي هبوطي يدل على ضعف المشترين",
	},
	MarubozuBullish: {
		NameAr: "ماروبوزو صاعد", NameEn: "Bullish Marubozu",
		Signal: Bullish, SignalAr: "صعودي قوي",
		Category: Single, CategoryAr: "شمعة واحدة",
		Reliability: 5,
		Description: "شمعة قوية بدون ظلال تدل على سيطرة المشترين",
	},
	MarubozuBearish: {
		NameAr: "ماروبوزو هابط", NameEn: "Bearish Marubozu",
		Signal: Bearish, SignalAr: "هبوطي قوي",
		Category: Single, CategoryAr: "شمعة واحدة",
		Reliability: 5,
		Description: "شمعة قوية بدون ظلال تدل على سيطرة البائعين",
	},
	EngulfingBullish: {
		NameAr: "الابتلاع الصعودي", NameEn: "Bullish Engulfing",
		Signal: Bullish, SignalAr: "صعودي قوي",
		Category: Double, CategoryAr: "شمعتان",
		Reliability: 5,
		Description: "نموذج انعكاسي قوي حيث تبتلع الشمعة الصاعدة السابقة",
	},
	EngulfingBearish: {
		NameAr: "الابتلاع الهبوطي", NameEn: "Bearish Engulfing",
		Signal: Bearish, SignalAr: "هبوطي قوي",
		Category: Double, CategoryAr: "شمعتان",
		Reliability: 5,
		Description: "نموذج انعكاسي قوي حيث تبتلع الشمعة الهابطة السابقة",
	},
	HaramiBullish: {
		NameAr: "هارامي صعودي", NameEn: "Bullish Harami",
		Signal: Bullish, SignalAr: "صعودي",
		Category: Double, CategoryAr: "شمعتان",
		Reliability: 3,
		Description: "شمعة صغيرة داخل جسم الشمعة السابقة تشير لانعكاس محتمل",
	},
	HaramiBearish: {
		NameAr: "هارامي هبوطي", NameEn: "Bearish Harami",
		Signal: Bearish, SignalAr: "هبوطي",
		Category: Double, CategoryAr: "شمعتان",
		Reliability: 3,
		Description: "شمعة صغيرة داخل جسم الشمعة السابقة تشير لانعكاس محتمل",
	},
	TweezerTop: {
		NameAr: "قمة الملقط", NameEn: "Tweezer Top",
		Signal: Bearish, SignalAr: "هبوطي",
		Category: Double, CategoryAr: "شمعتان",
		Reliability: 4,
		Description: "شمعتان بقمم متساوية تشيران لمقاومة قوية",
	},
	TweezerBottom: {
		NameAr: "قاع الملقط", NameEn: "Tweezer Bottom",
		Signal: Bullish, SignalAr: "صعودي",
		Category: Double, CategoryAr: "شمعتان",
		Reliability: 4,
		Description: "شمعتان بقيعان متساوية تشيران لدعم قوي",
	},
	MorningStar: {
		NameAr: "نجمة الصباح", NameEn: "Morning Star",
		Signal: Bullish, SignalAr: "صعودي قوي",
		Category: Triple, CategoryAr: "ثلاث شمعات",
		Reliability: 5,
		Description: "نموذج انعكاسي قوي يتكون من ثلاث شمعات يشير لبداية صعود",
	},
	EveningStar: {
		NameAr: "نجمة المساء", NameEn: "Evening Star",
		Signal: Bearish, SignalAr: "هبوطي قوي",
		Category: Triple, CategoryAr: "ثلاث شمعات",
		Reliability: 5,
		Description: "نموذج انعكاسي قوي يتكون من ثلاث شمعات يشير لبداية هبوط",
	},
	ThreeWhiteSoldiers: {
		NameAr: "ثلاثة جنود بيض", NameEn: "Three White Soldiers",
		Signal: Bullish, SignalAr: "صعودي قوي جدا",
		Category: Triple, CategoryAr: "ثلاث شمعات",
		Reliability: 5,
		Description: "ثلاث شمعات صاعدة متتالية تؤكد قوة الاتجاه الصعودي",
	},
	ThreeBlackCrows: {
		NameAr: "ثلاثة غربان سود", NameEn: "Three Black Crows",
		Signal: Bearish, SignalAr: "هبوطي قوي جدا",
		Category: Triple, CategoryAr: "ثلاث شمعات",
		Reliability: 5,
		Description: "ثلاث شمعات هابطة متتالية تؤكد قوة الاتجاه الهبوطي",
	},
}

// Lookup returns the configuration of a pattern.
func Lookup(p Pattern) (Config, bool) {
	c, ok := Configs[p]
	return c, ok
}

// BySignal returns the patterns with the given signal in display order.
func BySignal(s Signal) []Pattern {
	var out []Pattern
	for _, p := range All() {
		if Configs[p].Signal == s {
			out = append(out, p)
		}
	}
	return out
}
