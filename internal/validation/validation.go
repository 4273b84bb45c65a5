package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ErrNameEmpty is returned when a name is empty or whitespace-only after trim.
var ErrNameEmpty = errors.New("name is required")

// ErrNameTooLong is returned when a name exceeds the maximum length.
var ErrNameTooLong = errors.New("name too long")

// ErrNameInvalidChars is returned when a name contains disallowed characters.
var ErrNameInvalidChars = errors.New("name contains invalid characters")

// ErrInvalidAlpha2 is returned for malformed ISO alpha-2 country codes.
var ErrInvalidAlpha2 = errors.New("invalid alpha-2 country code")

// ValidateName trims the input, enforces the maximum length (in runes), and
// restricts to letters (Unicode), digits, space, comma, hyphen, apostrophe
// and period. Returns the trimmed string or an error suitable for 400
// responses. Normalization (e.g. lowercase) is left to the service layer.
func ValidateName(input string, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	r := []rune(s)
	n := len(r)
	if n == 0 {
		return "", ErrNameEmpty
	}
	if maxLen > 0 && n > maxLen {
		return "", ErrNameTooLong
	}
	for _, c := range r {
		if !isAllowedNameRune(c) {
			return "", ErrNameInvalidChars
		}
	}
	return s, nil
}

// ValidateAlpha2 checks for exactly two ASCII letters and returns the code
// uppercased.
func ValidateAlpha2(input string) (string, error) {
	s := strings.TrimSpace(input)
	if len(s) != 2 {
		return "", ErrInvalidAlpha2
	}
	for _, c := range s {
		if !(c >= 'A' && c <= 'Z') && !(c >= 'a' && c <= 'z') {
			return "", ErrInvalidAlpha2
		}
	}
	return strings.ToUpper(s), nil
}

// isAllowedNameRune returns true for letters (Unicode), digits, space, comma,
// hyphen, apostrophe and period. Covers names like "Val-d'Or" and "St. John's".
func isAllowedNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', ',', '-', '\'', '.':
		return true
	}
	return false
}
