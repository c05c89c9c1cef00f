// Package format holds the field masks and checks used by lecturer and
// publication forms. Every function is total over its string input.
package format

import (
	"regexp"
	"strings"
)

const (
	NIDNLength = 10
	NIPLength  = 18
	ISBNLength = 13
)

var (
	nidnGroups = []int{1, 6, 3}
	nipGroups  = []int{8, 6, 2, 2}
	isbnGroups = []int{3, 3, 2, 4, 1}

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Digits strips every non-ASCII-digit rune from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatNIDN masks s as D-DDDDDD-DDD, truncating to 10 digits.
func FormatNIDN(s string) string { return mask(s, NIDNLength, nidnGroups) }

// FormatNIP masks s as DDDDDDDD-DDDDDD-DD-DD, truncating to 18 digits.
func FormatNIP(s string) string { return mask(s, NIPLength, nipGroups) }

// FormatISBN masks s as DDD-DDD-DD-DDDD-D, truncating to 13 digits.
func FormatISBN(s string) string { return mask(s, ISBNLength, isbnGroups) }

// ValidNIDN reports whether s carries exactly 10 digits.
func ValidNIDN(s string) bool { return len(Digits(s)) == NIDNLength }

// ValidNIP reports whether s carries exactly 18 digits.
func ValidNIP(s string) bool { return len(Digits(s)) == NIPLength }

// ValidISBN reports whether s carries exactly 13 digits.
func ValidISBN(s string) bool { return len(Digits(s)) == ISBNLength }

// ValidEmail applies the local@domain.tld shape check used by the forms.
func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

// mask keeps at most max digits and inserts a dash before each group that has
// at least one digit, so partial input renders progressively.
func mask(s string, max int, groups []int) string {
	digits := Digits(s)
	if len(digits) > max {
		digits = digits[:max]
	}
	var b strings.Builder
	b.Grow(len(digits) + len(groups))
	pos := 0
	for i, size := range groups {
		if pos >= len(digits) {
			break
		}
		end := pos + size
		if end > len(digits) {
			end = len(digits)
		}
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(digits[pos:end])
		pos = end
	}
	return b.String()
}
