package zmanim

import "time"

// Offsets in minutes relative to sunrise (netz) or sunset (shkiah).
const (
	VasikinBeforeSunrise       = 26
	MinchaMaarivBeforeSunset   = 15
	ShabbosMinchaBeforeSunset  = 45
	CandleLightingBeforeSunset = 18
	MinchaAfterCandleLighting  = 3
	MelachaAfterSunset         = 46
	RabbeinuTamAfterMelacha    = 27 // 73 minutes after sunset in total

	// Mincha times are posted on the five-minute mark.
	RoundingStep = 5
)

// Vasikin is 26 minutes before sunrise, rounded to the nearest minute.
func Vasikin(sunrise time.Time) Clock {
	return ClockOf(sunrise).AddMinutes(-VasikinBeforeSunrise).RoundMinute()
}

// MinchaMaariv is at least 15 minutes before sunset, on the five-minute mark.
func MinchaMaariv(sunset time.Time) Clock {
	return ClockOf(sunset).AddMinutes(-MinchaMaarivBeforeSunset).FloorMinute(RoundingStep)
}

// ShabbosMincha is at least 45 minutes before Saturday's sunset, on the five-minute mark.
func ShabbosMincha(sunset time.Time) Clock {
	return ClockOf(sunset).AddMinutes(-ShabbosMinchaBeforeSunset).FloorMinute(RoundingStep)
}

// ZmanMelacha returns the end of Shabbos: 46 minutes after sunset, and the
// Rabbeinu Tam time 27 minutes after that.
func ZmanMelacha(sunset time.Time) (early, rabbeinuTam Clock) {
	early = ClockOf(sunset).AddMinutes(MelachaAfterSunset)
	rabbeinuTam = early.AddMinutes(RabbeinuTamAfterMelacha)
	return early, rabbeinuTam
}

// CandleLighting is 18 minutes before Friday's sunset; mincha follows 3 minutes later.
func CandleLighting(sunset time.Time) (candles, mincha Clock) {
	lighting := ClockOf(sunset).AddMinutes(-CandleLightingBeforeSunset)
	return lighting.TruncateMinute(), lighting.AddMinutes(MinchaAfterCandleLighting).TruncateMinute()
}

// pair formats two times as "A / B".
func pair(a, b Clock) string {
	return a.String() + " / " + b.String()
}
