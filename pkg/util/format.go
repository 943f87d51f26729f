package util

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatNumberID renders v the way Indonesian locales print numbers:
// "." groups thousands, "," separates up to three decimals.
func FormatNumberID(v float64) string {
	negative := v < 0
	v = math.Round(math.Abs(v)*1000) / 1000
	whole, frac := math.Modf(v)

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	if negative && v != 0 {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac > 0 {
		decimals := strconv.FormatFloat(frac, 'f', 3, 64)[2:]
		decimals = strings.TrimRight(decimals, "0")
		if decimals != "" {
			b.WriteByte(',')
			b.WriteString(decimals)
		}
	}
	return b.String()
}

// FormatRupiah prefixes FormatNumberID with the currency symbol.
func FormatRupiah(v float64) string {
	return "Rp " + FormatNumberID(v)
}

// FormatTimestampID renders t in WIB as "1/8/2025, 07.05.09".
func FormatTimestampID(t time.Time) string {
	return t.In(Jakarta()).Format("2/1/2006, 15.04.05")
}
