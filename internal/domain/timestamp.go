package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

var errEmptyTimestamp = errors.New("empty timestamp")

// ParseTimestamp parses an ISO8601 date or date-time. Values without a zone
// are read as UTC; a bare date means midnight UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}

	var d strfmt.Date
	if err := d.UnmarshalText([]byte(s)); err == nil {
		return time.Time(d).UTC(), nil
	}

	dt, err := strfmt.ParseDateTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Time(dt).UTC(), nil
}

// FormatTimestamp renders t as an ISO8601 string in UTC with millisecond precision
func FormatTimestamp(t time.Time) string {
	return strfmt.DateTime(t.UTC()).String()
}
