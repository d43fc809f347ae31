// Package validation provides custom validation rules built on jellydator/validation.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/journalcrypt/internal/errors"
)

// MaxIdentifierLength is the longest accepted key identifier, in runes.
const MaxIdentifierLength = 255

var sha256HexRegex = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// WrapValidationError wraps validation errors as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength validates that a password is hard enough to guess before
// any key derivation work is spent on it.
type PasswordStrength struct {
	MinLength      int // in runes
	MinCharClasses int // out of upper, lower, digit, symbol
}

// Validate checks if the password meets the configured requirements.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if utf8.RuneCountInString(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}

	if isSingleRune(s) {
		return validation.NewError(
			"validation_password_repeated",
			"password must not repeat a single character",
		)
	}

	if charClasses(s) < p.MinCharClasses {
		return validation.NewError(
			"validation_password_char_classes",
			"password must mix at least "+strconv.Itoa(p.MinCharClasses)+
				" of uppercase, lowercase, digits and symbols",
		)
	}

	if isCommonPassword(s) {
		return validation.NewError("validation_password_common", "password is too common")
	}

	return nil
}

// charClasses counts how many of upper, lower, digit and symbol appear in s.
func charClasses(s string) int {
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsNumber(r):
			digit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsSpace(r):
			symbol = true
		}
	}
	n := 0
	for _, present := range []bool{upper, lower, digit, symbol} {
		if present {
			n++
		}
	}
	return n
}

func isSingleRune(s string) bool {
	first, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return false
	}
	for _, r := range s[size:] {
		if r != first {
			return false
		}
	}
	return true
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoControlChars validates that a string holds no control characters.
var NoControlChars = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.IndexFunc(s, unicode.IsControl) < 0
	},
	validation.NewError("validation_no_control_chars", "must not contain control characters"),
)

// SHA256Hex validates a hex-encoded SHA-256 digest, in either case.
var SHA256Hex = validation.Match(sha256HexRegex).
	Error("must be a 64 character hex encoded sha-256 digest")

// KeyIdentifier returns the rules every key identifier must satisfy.
func KeyIdentifier() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		NotBlank,
		validation.RuneLength(1, MaxIdentifierLength),
		NoWhitespace,
		NoControlChars,
		validation.By(func(value interface{}) error {
			s, _ := value.(string)
			if !utf8.ValidString(s) {
				return validation.NewError("validation_utf8", "must be valid utf-8")
			}
			return nil
		}),
	}
}
