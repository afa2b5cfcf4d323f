package errors

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

// DateLayout is the calendar date format every upstream API accepts.
const DateLayout = "2006-01-02"

// ValidateIdentifier validates a value that will be substituted into a URL
// path segment (rover names, asteroid IDs, body IDs).
//
// The validation rules are intentionally conservative:
//   - No empty values
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateIdentifier(kind, value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}

	if len(value) > 128 {
		return New(ErrCodeInvalidInput, "%s too long (max 128 characters)", kind)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", kind)
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "?", "#"} {
		if strings.Contains(value, pattern) {
			return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", kind, pattern)
		}
	}

	return nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, New(ErrCodeInvalidDate, "invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// ValidateDate validates a YYYY-MM-DD date.
func ValidateDate(s string) error {
	_, err := ParseDate(s)
	return err
}

// ValidateDateRange validates an inclusive start/end range.
// A maxDays of zero disables the span limit.
func ValidateDateRange(start, end string, maxDays int) error {
	s, err := ParseDate(start)
	if err != nil {
		return err
	}
	e, err := ParseDate(end)
	if err != nil {
		return err
	}
	if e.Before(s) {
		return New(ErrCodeInvalidDate, "end date %s is before start date %s", end, start)
	}
	if maxDays > 0 {
		if days := int(e.Sub(s).Hours()/24) + 1; days > maxDays {
			return New(ErrCodeInvalidDate, "date range spans %d days (max %d)", days, maxDays)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateRange validates that n lies within [lo, hi].
func ValidateRange(kind string, n, lo, hi int) error {
	if n < lo || n > hi {
		return New(ErrCodeInvalidInput, "%s must be between %d and %d, got %d", kind, lo, hi, n)
	}
	return nil
}

var neoIDRegex = regexp.MustCompile(`^[0-9]{1,12}$`)

// ValidateNeoID validates a JPL small-body database ID as used by NeoWs.
func ValidateNeoID(id string) error {
	if !neoIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid asteroid id: %q", id)
	}
	return nil
}
