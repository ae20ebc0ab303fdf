package forms

import (
	"strconv"
	"strings"
)

// FormatUSD renders a non-negative integer amount as a USD string with no
// decimal places, e.g. 1234567 -> "$1,234,567". Returns "" when n is nil.
func FormatUSD(n *int64) string {
	if n == nil {
		return ""
	}

	digits := strconv.FormatInt(*n, 10)
	var b strings.Builder
	b.WriteByte('$')

	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

// ParseUSD strips every non-digit rune from s and parses the remainder as an
// integer. Returns nil when no digits remain. Decimal fractions are discarded
// by construction; this is the documented lossy transform, not a defect.
func ParseUSD(s string) *int64 {
	digits := stripNonDigits(s)
	if digits == "" {
		return nil
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ReformatUSD re-renders an in-progress money field for display: digits are
// extracted and grouped, everything else is dropped. "" stays "".
func ReformatUSD(s string) string {
	return FormatUSD(ParseUSD(s))
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
