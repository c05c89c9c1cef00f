package format

import (
	"strconv"
	"strings"
)

var units = [...]string{"", "satu", "dua", "tiga", "empat", "lima", "enam", "tujuh", "delapan", "sembilan", "sepuluh", "sebelas"}

// FormatRupiah renders amount with Indonesian thousands separators, e.g. "Rp 45.000.000".
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	raw := strconv.FormatInt(amount, 10)
	var b strings.Builder
	lead := len(raw) % 3
	if lead > 0 {
		b.WriteString(raw[:lead])
	}
	for i := lead; i < len(raw); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(raw[i : i+3])
	}
	return "Rp " + sign + b.String()
}

// ParseRupiah reads the digits of a formatted amount ("Rp 45.000.000" -> 45000000).
// Input without digits yields 0.
func ParseRupiah(s string) int64 {
	digits := Digits(s)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Terbilang spells amount in Indonesian words followed by "rupiah".
// Zero, negative and amounts of a quadrillion or more yield "".
func Terbilang(amount int64) string {
	if amount <= 0 {
		return ""
	}
	words := strings.Join(strings.Fields(spell(amount)), " ")
	if words == "" {
		return ""
	}
	return words + " rupiah"
}

func spell(n int64) string {
	switch {
	case n < 12:
		return units[n]
	case n < 20:
		return spell(n-10) + " belas"
	case n < 100:
		return spell(n/10) + " puluh " + spell(n%10)
	case n < 200:
		return "seratus " + spell(n-100)
	case n < 1_000:
		return spell(n/100) + " ratus " + spell(n%100)
	case n < 2_000:
		return "seribu " + spell(n-1_000)
	case n < 1_000_000:
		return spell(n/1_000) + " ribu " + spell(n%1_000)
	case n < 1_000_000_000:
		return spell(n/1_000_000) + " juta " + spell(n%1_000_000)
	case n < 1_000_000_000_000:
		return spell(n/1_000_000_000) + " miliar " + spell(n%1_000_000_000)
	case n < 1_000_000_000_000_000:
		return spell(n/1_000_000_000_000) + " triliun " + spell(n%1_000_000_000_000)
	default:
		return ""
	}
}
