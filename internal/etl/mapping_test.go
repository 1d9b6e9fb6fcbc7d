package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRefRegistered(t *testing.T) {
	lookup := NewLookup()
	require.NoError(t, lookup.Register(KindProfile, 5, "uuid-5"))

	m := NewMappingResult(1)
	ref := m.ResolveRef(lookup, KindProfile, 5, "doctor_id", false)

	require.NotNil(t, ref)
	assert.Equal(t, "uuid-5", *ref)
	assert.Empty(t, m.Warnings)
	assert.Empty(t, m.Errors)
}

func TestResolveRefMissingOptional(t *testing.T) {
	m := NewMappingResult(1)
	ref := m.ResolveRef(NewLookup(), KindProfile, 5, "doctor_id", false)

	assert.Nil(t, ref, "unresolved optional reference must be null, never guessed")
	assert.Len(t, m.Warnings, 1)
	assert.False(t, m.Blocked())
	assert.Equal(t, 1, m.UnresolvedRefs)
}

func TestResolveRefMissingRequired(t *testing.T) {
	m := NewMappingResult(1)
	ref := m.ResolveRef(NewLookup(), KindPatient, 5, "patient_id", true)

	assert.Nil(t, ref)
	assert.True(t, m.Blocked())
	assert.Equal(t, 1, m.UnresolvedRefs)
}

func TestResolveRefZeroLegacyID(t *testing.T) {
	m := NewMappingResult(1)

	ref := m.ResolveRef(NewLookup(), KindOffice, 0, "office_id", false)
	assert.Nil(t, ref)
	assert.Empty(t, m.Warnings, "a NULL legacy reference is not an unresolved one")
	assert.False(t, m.Blocked())

	m.ResolveRef(NewLookup(), KindPatient, 0, "patient_id", true)
	assert.True(t, m.Blocked())
}

func TestProvenanceCarriesLegacyTimestamps(t *testing.T) {
	meta := Provenance("dispatch_office", 9, nil, nil)
	assert.Equal(t, "dispatch_office", meta["migrated_from"])
	assert.Equal(t, int64(9), meta["legacy_id"])
	assert.Contains(t, meta, "migrated_at")
	assert.NotContains(t, meta, "legacy_created_at")
}
