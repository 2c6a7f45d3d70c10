package validate

import (
	"math/big"
	"net/netip"
	"strconv"
	"strings"
)

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits     = "0123456789"
)

// LengthBetween returns true if n is within [min,max].
func LengthBetween(s string, min, max int) bool {
	n := len(s)
	return n >= min && n <= max
}

// IsAlphabet returns true if all characters in s are in allowed set.
func IsAlphabet(s, allowed string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(allowed, rune(s[i])) {
			return false
		}
	}
	return true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	return IsAlphabet(s, digits)
}

// StripSeparators drops spaces, tabs and hyphens.
func StripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '\u00a0':
			return -1
		}
		return r
	}, s)
}

// Luhn reports whether the digits of s (separators ignored) pass the
// mod-10 checksum used by payment cards.
func Luhn(s string) bool {
	d := StripSeparators(s)
	if len(d) < 2 || !IsDigits(d) {
		return false
	}
	sum := 0
	alternate := false
	for i := len(d) - 1; i >= 0; i-- {
		digit := int(d[i] - '0')
		if alternate {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		alternate = !alternate
	}
	return sum%10 == 0
}

// LooksLikeCardNumber checks for exactly 16 digits once separators are removed.
func LooksLikeCardNumber(s string) bool {
	d := StripSeparators(s)
	return len(d) == 16 && IsDigits(d)
}

// IsIBAN checks country/check-digit shape, length 15-34 and the ISO 13616
// mod-97 remainder.
func IsIBAN(s string) bool {
	v := strings.ToUpper(StripSeparators(s))
	if !LengthBetween(v, 15, 34) {
		return false
	}
	if !IsAlphabet(v[:2], upperAlpha) || !IsDigits(v[2:4]) {
		return false
	}
	if !IsAlphabet(v[4:], upperAlpha+digits) {
		return false
	}
	rearranged := v[4:] + v[:4]
	var b strings.Builder
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		if c >= 'A' && c <= 'Z' {
			b.WriteString(strconv.Itoa(int(c-'A') + 10))
			continue
		}
		b.WriteByte(c)
	}
	n, ok := new(big.Int).SetString(b.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

var niBadPrefixes = map[string]bool{
	"BG": true, "GB": true, "NK": true, "KN": true, "TN": true, "NT": true, "ZZ": true,
}

// IsNINumber checks the UK National Insurance shape: two prefix letters,
// six digits and a suffix letter A-D.
func IsNINumber(s string) bool {
	v := strings.ToUpper(StripSeparators(s))
	if len(v) != 9 {
		return false
	}
	prefix, nums, suffix := v[:2], v[2:8], v[8]
	if !IsAlphabet(prefix, upperAlpha) || !IsDigits(nums) {
		return false
	}
	if strings.ContainsRune("DFIQUV", rune(prefix[0])) || strings.ContainsRune("DFIOQUV", rune(prefix[1])) {
		return false
	}
	if niBadPrefixes[prefix] {
		return false
	}
	return suffix >= 'A' && suffix <= 'D'
}

// IsNHSNumber requires exactly ten digits once separators are stripped.
func IsNHSNumber(s string) bool {
	d := StripSeparators(s)
	return len(d) == 10 && IsDigits(d)
}

// IsUKPostcode checks outward code (A9, A99, A9A, AA9, AA99, AA9A) followed
// by inward code (9AA). GIR 0AA is accepted.
func IsUKPostcode(s string) bool {
	v := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if v == "GIR0AA" {
		return true
	}
	if !LengthBetween(v, 5, 7) {
		return false
	}
	outward, inward := v[:len(v)-3], v[len(v)-3:]
	if !IsDigits(inward[:1]) || !IsAlphabet(inward[1:], upperAlpha) {
		return false
	}
	switch len(outward) {
	case 2:
		return isAlpha(outward[0]) && isDigit(outward[1])
	case 3:
		// A99, A9A, AA9
		if !isAlpha(outward[0]) {
			return false
		}
		if isDigit(outward[1]) {
			return isDigit(outward[2]) || isAlpha(outward[2])
		}
		return isAlpha(outward[1]) && isDigit(outward[2])
	case 4:
		// AA99, AA9A
		return isAlpha(outward[0]) && isAlpha(outward[1]) && isDigit(outward[2]) &&
			(isDigit(outward[3]) || isAlpha(outward[3]))
	}
	return false
}

// IsSortCode checks for six digits in three pairs.
func IsSortCode(s string) bool {
	d := StripSeparators(s)
	return len(d) == 6 && IsDigits(d)
}

// IsIPv4 reports whether s is a dotted quad with every octet in 0-255.
func IsIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

func isAlpha(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
