package validate

import "testing"

func TestLengthBetween(t *testing.T) {
	if !LengthBetween("abcd", 2, 5) {
		t.Fatal("expected true for length between")
	}
	if LengthBetween("a", 2, 5) {
		t.Fatal("expected false for too short")
	}
	if LengthBetween("abcdef", 2, 5) {
		t.Fatal("expected false for too long")
	}
}

func TestIsAlphabet(t *testing.T) {
	if !IsAlphabet("abcXYZ09", "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789") {
		t.Fatal("expected alnum to be allowed")
	}
	if IsAlphabet("abc-", "abc") {
		t.Fatal("expected false when char not allowed")
	}
	if IsDigits("") {
		t.Fatal("empty string is not digits")
	}
}

func TestLuhn(t *testing.T) {
	if !Luhn("4111 1111 1111 1111") {
		t.Fatal("expected test visa number to pass")
	}
	if !Luhn("4532-0151-1283-0366") {
		t.Fatal("expected hyphenated number to pass")
	}
	if Luhn("4532 1234 5678 9012") {
		t.Fatal("expected checksum failure")
	}
	if Luhn("41a1") {
		t.Fatal("non-digits must fail")
	}
}

func TestLooksLikeCardNumber(t *testing.T) {
	if !LooksLikeCardNumber("4532 1234 5678 9012") {
		t.Fatal("expected 16 digits to look like a card")
	}
	if LooksLikeCardNumber("4532 1234 5678") {
		t.Fatal("12 digits is not a card")
	}
}

func TestIsIBAN(t *testing.T) {
	if !IsIBAN("GB82 WEST 1234 5698 7654 32") {
		t.Fatal("expected valid GB IBAN")
	}
	if !IsIBAN("DE89370400440532013000") {
		t.Fatal("expected valid DE IBAN")
	}
	if IsIBAN("GB82 WEST 1234 5698 7654 33") {
		t.Fatal("expected mod-97 failure")
	}
	if IsIBAN("GB82") {
		t.Fatal("too short")
	}
}

func TestIsNINumber(t *testing.T) {
	if !IsNINumber("AB 12 34 56 C") {
		t.Fatal("expected valid NI number")
	}
	if IsNINumber("GB123456A") {
		t.Fatal("GB prefix is not allocated")
	}
	if IsNINumber("DA123456A") {
		t.Fatal("D is not a valid first letter")
	}
	if IsNINumber("AB123456E") {
		t.Fatal("suffix must be A-D")
	}
}

func TestIsNHSNumber(t *testing.T) {
	if !IsNHSNumber("943 476 5919") {
		t.Fatal("expected ten digits to pass")
	}
	if IsNHSNumber("943 476 591") {
		t.Fatal("nine digits must fail")
	}
}

func TestIsUKPostcode(t *testing.T) {
	for _, ok := range []string{"SW1A 1AA", "M1 1AE", "B33 8TH", "CR2 6XH", "DN55 1PT", "EC1A1BB", "W1A 0AX"} {
		if !IsUKPostcode(ok) {
			t.Fatalf("expected %q to be a postcode", ok)
		}
	}
	for _, bad := range []string{"12345", "SW1A", "SW1A 1A1", "ABCD 1AA"} {
		if IsUKPostcode(bad) {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestIsSortCodeAndIPv4(t *testing.T) {
	if !IsSortCode("12-34-56") {
		t.Fatal("expected sort code")
	}
	if IsSortCode("12-34-5") {
		t.Fatal("five digits is not a sort code")
	}
	if !IsIPv4("192.168.0.1") {
		t.Fatal("expected valid ipv4")
	}
	if IsIPv4("256.1.1.1") {
		t.Fatal("octet out of range")
	}
}
