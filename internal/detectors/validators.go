package detectors

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/redactyl/anonymizer/internal/types"
	v "github.com/redactyl/anonymizer/internal/validate"
)

// EnableValidators controls whether format validators run after a pattern
// matches. Raw matches of a type with a validator are dropped when it fails.
var EnableValidators = true

// cardKeywords gate acceptance of 16-digit numbers that fail the Luhn check.
var cardKeywords = []string{"card", "visa", "mastercard", "amex", "credit", "debit", "cc"}

const cardContextWindow = 32

type matchValidator func(text string, m types.Match) (types.Match, bool)

var typeValidators = map[types.EntityType]matchValidator{
	types.EntityCard: func(text string, m types.Match) (types.Match, bool) {
		if !v.LooksLikeCardNumber(m.Value) {
			return m, false
		}
		if v.Luhn(m.Value) {
			if m.Confidence < 0.95 {
				m.Confidence = 0.95
			}
			return m, true
		}
		// sample and test numbers often fail the checksum; accept them only
		// when the surrounding text says they are cards
		if keywordBefore(text, m.Start, cardContextWindow, cardKeywords) {
			m.Confidence = 0.6
			return m, true
		}
		return m, false
	},
	types.EntityNINumber:  func(_ string, m types.Match) (types.Match, bool) { return m, v.IsNINumber(m.Value) },
	types.EntityNHSNumber: func(_ string, m types.Match) (types.Match, bool) { return m, v.IsNHSNumber(m.Value) },
	types.EntityIBAN:      func(_ string, m types.Match) (types.Match, bool) { return m, v.IsIBAN(m.Value) },
	types.EntityPostcode:  func(_ string, m types.Match) (types.Match, bool) { return m, v.IsUKPostcode(m.Value) },
	types.EntitySortCode:  func(_ string, m types.Match) (types.Match, bool) { return m, v.IsSortCode(m.Value) },
	types.EntityIPAddress: func(_ string, m types.Match) (types.Match, bool) { return m, v.IsIPv4(m.Value) },
	types.EntityPhone: func(_ string, m types.Match) (types.Match, bool) {
		return m, isUKPhone(m.Value)
	},
	types.EntityEmail: func(_ string, m types.Match) (types.Match, bool) {
		at := strings.LastIndexByte(m.Value, '@')
		return m, v.LengthBetween(m.Value, 6, 254) && at > 0 && at <= 64
	},
	types.EntityURL: func(_ string, m types.Match) (types.Match, bool) {
		trimmed := strings.TrimRight(m.Value, ".,;:!?")
		m.End -= len(m.Value) - len(trimmed)
		m.Value = trimmed
		raw := trimmed
		if !strings.Contains(raw, "://") {
			raw = "http://" + raw
		}
		u, err := url.Parse(raw)
		return m, err == nil && strings.Contains(u.Hostname(), ".")
	},
	types.EntityDateOfBirth: func(_ string, m types.Match) (types.Match, bool) {
		return m, plausibleDate(m.Value)
	},
	types.EntityPassport: func(_ string, m types.Match) (types.Match, bool) {
		d := 0
		for i := 0; i < len(m.Value); i++ {
			if m.Value[i] >= '0' && m.Value[i] <= '9' {
				d++
			}
		}
		return m, d >= 6
	},
}

func applyValidators(text string, m types.Match) (types.Match, bool) {
	if !EnableValidators {
		return m, true
	}
	if vfn, ok := typeValidators[m.Type]; ok {
		nm, ok := vfn(text, m)
		return nm, ok && nm.Start < nm.End
	}
	return m, true
}

// isUKPhone accepts 10 or 11 digit national numbers starting with 0, also
// written with a +44 prefix and an optional (0).
func isUKPhone(s string) bool {
	var d strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			d.WriteByte(s[i])
		}
	}
	digits := d.String()
	if strings.HasPrefix(strings.TrimSpace(s), "+") {
		if !strings.HasPrefix(digits, "44") {
			return false
		}
		digits = strings.TrimPrefix(digits[2:], "0")
		digits = "0" + digits
	}
	if len(digits) < 10 || len(digits) > 11 || digits[0] != '0' {
		return false
	}
	return digits[1] != '0'
}

// plausibleDate checks day and month ranges of numeric d/m/y dates. Dates
// written with a month name are accepted as matched.
func plausibleDate(s string) bool {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' || r == '.' })
	if len(parts) != 3 {
		return true
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return true
	}
	return day >= 1 && day <= 31 && month >= 1 && month <= 12
}
