package astronomy

import (
	"fmt"
	"time"
)

// ParseError reports a malformed instant string.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s instant %q: %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatInstant formats an instant as RFC 3339 with its UTC offset.
func FormatInstant(t time.Time) string {
	return t.Format(time.RFC3339)
}

// ParseInstant parses an RFC 3339 instant and converts it to loc.
func ParseInstant(field, value string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &ParseError{Field: field, Value: value, Err: err}
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t, nil
}
