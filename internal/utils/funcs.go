package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

func IsIn(s string, arr []string) bool {
	for _, x := range arr {
		if s == x {
			return true
		}
	}
	return false
}

// ParseUTCTime parses a string-represented time of the format 2006-01-02T15:04:05Z07:00
func ParseUTCTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseTimestampMillis reads a timestamp given either as milliseconds since
// the Unix epoch or as an RFC3339 time. An empty string yields 0.
func ParseTimestampMillis(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, errors.Errorf("timestamp can't be negative: %d", ms)
		}
		return ms, nil
	}
	t, err := ParseUTCTime(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid timestamp %q", s)
	}
	return t.UnixNano() / int64(time.Millisecond), nil
}
