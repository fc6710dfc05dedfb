package patient

import (
	"strings"
	"unicode"
)

const NationalIDDigits = 16

// CanonicalNationalID strips every character that is not an ASCII digit.
func CanonicalNationalID(raw string) string {
	return strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

// ValidateNationalID returns the canonical form of raw, or a FormatError when
// it does not contain exactly 16 digits. Formatting characters are ignored, so
// "1234 5678 9012 3456" and "abcd-1234-5678-9012-3456" are both valid.
func ValidateNationalID(raw string) (string, error) {
	canonical := CanonicalNationalID(raw)
	if len(canonical) != NationalIDDigits {
		return "", &FormatError{Field: "nationalId", Reason: "national ID must be a 16-digit number"}
	}
	return canonical, nil
}
