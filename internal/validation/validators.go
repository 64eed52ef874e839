// Package validation holds the per-field validators that gate wizard
// navigation, the error ledger they write to, and the whole-document
// checks run before submission.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/teacherhub/internal/form"
)

// Validator checks one field value. It returns the message to show, or ""
// when the value is acceptable.
type Validator func(value string) string

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

const (
	dateLayout = "2006-01-02"
	minAge     = 18
	maxAge     = 100
)

// Chain runs validators in order and returns the first message.
func Chain(validators ...Validator) Validator {
	return func(value string) string {
		for _, v := range validators {
			if msg := v(value); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// Optional skips v when the value is empty.
func Optional(v Validator) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		return v(value)
	}
}

// Required rejects blank values.
func Required(msg string) Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return msg
		}
		return ""
	}
}

// MinLength rejects values shorter than n characters.
func MinLength(n int, msg string) Validator {
	return func(value string) string {
		if utf8.RuneCountInString(value) < n {
			return msg
		}
		return ""
	}
}

// Matches rejects values that do not match re.
func Matches(re *regexp.Regexp, msg string) Validator {
	return func(value string) string {
		if !re.MatchString(value) {
			return msg
		}
		return ""
	}
}

// Email checks the loose user@host.tld shape.
func Email(msg string) Validator { return Matches(emailPattern, msg) }

// Phone accepts digits, spaces, hyphens and parentheses with an optional
// leading plus.
func Phone(msg string) Validator { return Matches(phonePattern, msg) }

// OneOf rejects values outside options. Empty values are rejected too.
func OneOf(options []string, msg string) Validator {
	return func(value string) string {
		if !form.Contains(options, value) {
			return msg
		}
		return ""
	}
}

// Age checks a YYYY-MM-DD birth date. Age is the difference of calendar
// years, so month and day are ignored.
func Age(now func() time.Time) Validator {
	return func(value string) string {
		dob, err := time.Parse(dateLayout, strings.TrimSpace(value))
		if err != nil {
			return "Please enter a valid date of birth"
		}
		age := now().Year() - dob.Year()
		switch {
		case age < minAge:
			return "Teacher must be at least 18 years old"
		case age > maxAge:
			return "Please enter a valid date of birth"
		}
		return ""
	}
}

// IsEmail reports whether s has a valid email shape.
func IsEmail(s string) bool { return emailPattern.MatchString(s) }

// IsPhone reports whether s is a valid phone number.
func IsPhone(s string) bool { return phonePattern.MatchString(s) }
