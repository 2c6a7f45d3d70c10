package strategy

import (
	"strings"
	"unicode"

	"github.com/redactyl/anonymizer/internal/types"
)

// Mask reveals part of the value and stars out the rest.
//
//   - emails keep the first and last character of the local part and of the domain
//   - numeric values with at least 4 digits keep only the last 4 digits
//   - anything else keeps a third of its characters at each end
type Mask struct{}

func (Mask) Name() types.StrategyName { return types.StrategyMask }

func (Mask) Apply(m types.Match, _ string) string {
	return Token(types.StrategyMask, m.Type, MaskValue(m.Value))
}

// MaskValue returns the masked form of v.
func MaskValue(v string) string {
	if at := strings.LastIndexByte(v, '@'); at > 0 && at < len(v)-1 {
		return maskEnds(v[:at]) + "@" + maskEnds(v[at+1:])
	}
	if s, ok := maskDigits(v); ok {
		return s
	}
	return maskFraction(v)
}

// maskEnds keeps the first and last rune. Two runes or fewer keep only the
// first.
func maskEnds(s string) string {
	r := []rune(s)
	switch {
	case len(r) == 0:
		return ""
	case len(r) <= 2:
		return string(r[0]) + strings.Repeat("*", len(r)-1)
	}
	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1])
}

func isNumberSeparator(r rune) bool {
	switch r {
	case ' ', '-', '.', '(', ')', '+', '\u00a0':
		return true
	}
	return false
}

// maskDigits stars every digit except the last four and keeps separators.
// It fails for values containing anything but digits and separators.
func maskDigits(v string) (string, bool) {
	digits := 0
	for _, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case isNumberSeparator(r):
		default:
			return "", false
		}
	}
	if digits < 4 {
		return "", false
	}
	var b strings.Builder
	seen := 0
	for _, r := range v {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= digits-4 {
				b.WriteByte('*')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// maskFraction keeps len/3 runes at each end. Whitespace inside the value is
// kept so multi-word values stay readable.
func maskFraction(v string) string {
	r := []rune(v)
	k := len(r) / 3
	var b strings.Builder
	for i, c := range r {
		if i < k || i >= len(r)-k || unicode.IsSpace(c) {
			b.WriteRune(c)
			continue
		}
		b.WriteByte('*')
	}
	return b.String()
}
