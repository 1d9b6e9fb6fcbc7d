// Package utils holds value coercion helpers for legacy rows. The legacy
// schema is generous with NULLs and inconsistent about empty strings, so
// transformers funnel everything through here instead of repeating the
// same nil checks.
package utils

import (
	"database/sql"
	"strings"
	"time"
)

// TrimmedString collapses a nullable legacy text column to a trimmed string,
// empty when NULL.
func TrimmedString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return strings.TrimSpace(ns.String)
}

// StringOrNil returns a pointer suitable for a nullable target column:
// nil when the source is NULL or blank.
func StringOrNil(ns sql.NullString) *string {
	s := TrimmedString(ns)
	if s == "" {
		return nil
	}
	return &s
}

// StringOrDefault returns the trimmed value, or def when NULL/blank.
func StringOrDefault(ns sql.NullString, def string) string {
	if s := TrimmedString(ns); s != "" {
		return s
	}
	return def
}

// Int64OrNil converts a nullable legacy integer to a pointer.
func Int64OrNil(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

// TimeOrNil converts a nullable legacy timestamp to a pointer.
func TimeOrNil(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// TimeOrNow returns the legacy timestamp when present, otherwise now.
// Used for created_at columns the legacy schema left NULL.
func TimeOrNow(nt sql.NullTime) time.Time {
	if nt.Valid {
		return nt.Time
	}
	return time.Now().UTC()
}

// BoolOrDefault converts a nullable legacy boolean.
func BoolOrDefault(nb sql.NullBool, def bool) bool {
	if !nb.Valid {
		return def
	}
	return nb.Bool
}

// FullName joins first/last name parts, tolerating blanks on either side.
func FullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
