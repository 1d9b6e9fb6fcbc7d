package utils

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrimmedString(t *testing.T) {
	assert.Equal(t, "", TrimmedString(sql.NullString{}))
	assert.Equal(t, "", TrimmedString(sql.NullString{String: "   ", Valid: true}))
	assert.Equal(t, "Austin", TrimmedString(sql.NullString{String: "  Austin ", Valid: true}))
}

func TestStringOrNil(t *testing.T) {
	assert.Nil(t, StringOrNil(sql.NullString{}))
	assert.Nil(t, StringOrNil(sql.NullString{String: " ", Valid: true}))

	got := StringOrNil(sql.NullString{String: "x", Valid: true})
	if assert.NotNil(t, got) {
		assert.Equal(t, "x", *got)
	}
}

func TestStringOrDefault(t *testing.T) {
	assert.Equal(t, "main", StringOrDefault(sql.NullString{}, "main"))
	assert.Equal(t, "refinement", StringOrDefault(sql.NullString{String: " refinement ", Valid: true}, "main"))
}

func TestInt64OrNil(t *testing.T) {
	assert.Nil(t, Int64OrNil(sql.NullInt64{}))

	got := Int64OrNil(sql.NullInt64{Int64: 42, Valid: true})
	if assert.NotNil(t, got) {
		assert.Equal(t, int64(42), *got)
	}
}

func TestTimeHelpers(t *testing.T) {
	assert.Nil(t, TimeOrNil(sql.NullTime{}))

	ts := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	got := TimeOrNil(sql.NullTime{Time: ts, Valid: true})
	if assert.NotNil(t, got) {
		assert.Equal(t, ts, *got)
	}

	assert.Equal(t, ts, TimeOrNow(sql.NullTime{Time: ts, Valid: true}))
	assert.WithinDuration(t, time.Now().UTC(), TimeOrNow(sql.NullTime{}), time.Second)
}

func TestBoolOrDefault(t *testing.T) {
	assert.True(t, BoolOrDefault(sql.NullBool{}, true))
	assert.False(t, BoolOrDefault(sql.NullBool{Bool: false, Valid: true}, true))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", FullName("Ada", "Lovelace"))
	assert.Equal(t, "Ada", FullName("Ada", ""))
	assert.Equal(t, "Lovelace", FullName(" ", "Lovelace"))
	assert.Equal(t, "", FullName("", ""))
}
