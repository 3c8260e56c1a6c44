package store

import (
	"database/sql"
	"time"
)

// parseTime parses an RFC3339 string stored by this package. Zero time on
// failure; the store only ever writes valid RFC3339.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseNullableTime converts a nullable column to *time.Time.
func parseNullableTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeValue converts a *time.Time to a SQLite-storable value.
func nullableTimeValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// nullableString converts "" to SQL NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// nowUTC returns the current UTC time truncated to second precision, which
// round-trips exactly through RFC3339 storage.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
