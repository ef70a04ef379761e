package models

import (
	"fmt"
	"strings"
	"time"
)

// UserColumns lists the users table columns in positional order
var UserColumns = []string{"id", "first_name", "last_name", "email", "comments", "created_at"}

// UserRecord is one row of the users table keyed by column name. Values keep
// whatever type the driver produced; only created_at is normalized. Field
// order matches UserColumns so the encoded JSON does too.
type UserRecord struct {
	ID        interface{} `json:"id" db:"id"`
	FirstName interface{} `json:"first_name" db:"first_name"`
	LastName  interface{} `json:"last_name" db:"last_name"`
	Email     interface{} `json:"email" db:"email"`
	Comments  interface{} `json:"comments" db:"comments"`
	CreatedAt interface{} `json:"created_at" db:"created_at"`
}

// NewUserRecord maps a positional row onto a UserRecord. Columns beyond the
// sixth are ignored; a shorter row is rejected. created_at is treated as a
// timestamp without time zone.
func NewUserRecord(values []interface{}) (UserRecord, error) {
	return MapUserRecord(values, false)
}

// MapUserRecord is NewUserRecord for a created_at column whose zone awareness
// is known. A zoned timestamp always carries its offset, +00:00 included.
func MapUserRecord(values []interface{}, zoned bool) (UserRecord, error) {
	if len(values) < len(UserColumns) {
		return UserRecord{}, fmt.Errorf("users row has %d columns, expected at least %d", len(values), len(UserColumns))
	}

	return UserRecord{
		ID:        normalize(values[0]),
		FirstName: normalize(values[1]),
		LastName:  normalize(values[2]),
		Email:     normalize(values[3]),
		Comments:  normalize(values[4]),
		CreatedAt: normalizeTimestamp(values[5], zoned),
	}, nil
}

// normalize turns raw driver bytes into text so they encode as JSON strings
// rather than base64.
func normalize(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func normalizeTimestamp(v interface{}, zoned bool) interface{} {
	format := FormatTimestamp
	if zoned {
		format = FormatZonedTimestamp
	}

	switch t := v.(type) {
	case time.Time:
		return format(t)
	case *time.Time:
		if t == nil {
			return nil
		}
		return format(*t)
	default:
		return normalize(v)
	}
}

// IsZonedTimestampType reports whether a driver column type name denotes a
// timestamp with time zone
func IsZonedTimestampType(name string) bool {
	switch strings.ToUpper(name) {
	case "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE":
		return true
	}
	return false
}

// FormatTimestamp renders t as ISO-8601 in the shape
// YYYY-MM-DDTHH:MM:SS[.ffffff][±HH:MM]. Fractional seconds appear only when
// the microsecond part is non-zero, and the offset only when it is non-zero.
func FormatTimestamp(t time.Time) string {
	_, offset := t.Zone()
	return formatISO(t, offset != 0)
}

// FormatZonedTimestamp is FormatTimestamp for zone-aware values: the offset
// is always present, so UTC renders as +00:00.
func FormatZonedTimestamp(t time.Time) string {
	return formatISO(t, true)
}

func formatISO(t time.Time, withOffset bool) string {
	layout := "2006-01-02T15:04:05"
	if t.Nanosecond()/int(time.Microsecond) != 0 {
		layout += ".000000"
	}
	if withOffset {
		layout += "-07:00"
	}
	return t.Format(layout)
}
