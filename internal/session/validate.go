package session

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFullNameLength caps the accepted identity string.
const maxFullNameLength = 100

// ErrInvalidFullName is returned for identity strings that do not look like
// a real three-part full name.
var ErrInvalidFullName = errors.New("invalid full name")

// ValidateFullName checks a student identity string before any scrape is
// attempted: exactly three whitespace-separated tokens, letters only, at
// most 100 characters, all in one script. A single Latin letter anywhere
// rejects the whole string, which is what keeps mixed-script lookalike
// names ("Иванov") out of the impersonation search.
func ValidateFullName(name string) error {
	if utf8.RuneCountInString(name) > maxFullNameLength {
		return ErrInvalidFullName
	}

	tokens := strings.Fields(name)
	if len(tokens) != 3 {
		return ErrInvalidFullName
	}

	for _, token := range tokens {
		for _, r := range token {
			if !unicode.IsLetter(r) {
				return ErrInvalidFullName
			}
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
				return ErrInvalidFullName
			}
		}
	}
	return nil
}
