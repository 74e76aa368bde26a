package htmltext

import "testing"

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Moving Averages (MA)":     "moving-averages-ma",
		"  مؤشر   القوة النسبية  ": "مؤشر-القوة-النسبية",
		"نَمُوذَجُ المِطْرَقَة":    "نَمُوذَجُ-المِطْرَقَة",
		"دوجـــي: تردد":            "دوجـــي-تردد",
		"--already--dashed--":      "already-dashed",
		"أنماط الشموع اليابانية":   "أنماط-الشموع-اليابانية",
		"RSI & MACD": "rsi-macd",
	}

	for input, want := range tests {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStripDiacritics(t *testing.T) {
	if got, want := StripDiacritics("المِطْرَقَة"), "المطرقة"; got != want {
		t.Fatalf("StripDiacritics() = %q, want %q", got, want)
	}
	if got, want := StripDiacritics("دوجـــي"), "دوجي"; got != want {
		t.Fatalf("StripDiacritics() = %q, want %q", got, want)
	}
	if got, want := StripDiacritics("إدارة"), "إدارة"; got != want {
		t.Fatalf("StripDiacritics() kept hamza letter: got %q, want %q", got, want)
	}
}
