package etl

import (
	"fmt"
	"time"
)

// Record is one candidate row for the target schema, produced by a
// transformer. Fields holds entity-specific columns; Settings and Metadata
// are serialized to jsonb. Every record carries the legacy id that is
// preserved permanently in the target row.
type Record struct {
	Table        string
	LegacyColumn string
	LegacyID     int64
	Fields       map[string]any
	Settings     map[string]any
	Metadata     map[string]any
}

// MappingResult is the per-record outcome of a transform: the candidate
// record plus blocking errors and non-blocking warnings. TargetID is filled
// in by the batch writer once the row is durably written.
type MappingResult struct {
	LegacyID       int64
	Record         *Record
	Errors         []string
	Warnings       []string
	UnresolvedRefs int

	TargetID string
	Written  bool
}

// NewMappingResult starts a result for one legacy row.
func NewMappingResult(legacyID int64) *MappingResult {
	return &MappingResult{LegacyID: legacyID}
}

// Blocked reports whether the record must be excluded from the write batch.
func (m *MappingResult) Blocked() bool { return len(m.Errors) > 0 }

// Errorf records a blocking error against this record only.
func (m *MappingResult) Errorf(format string, args ...any) {
	m.Errors = append(m.Errors, fmt.Sprintf(format, args...))
}

// Warnf records a non-blocking warning; the record still proceeds to write.
func (m *MappingResult) Warnf(format string, args ...any) {
	m.Warnings = append(m.Warnings, fmt.Sprintf(format, args...))
}

// ResolveRef resolves a legacy foreign key through the lookup index.
// A missing required reference blocks the record; a missing optional one
// leaves the field null and records a warning. The field is never guessed.
func (m *MappingResult) ResolveRef(lookup *Lookup, kind LookupKind, legacyID int64, field string, required bool) *string {
	if legacyID == 0 {
		if required {
			m.Errorf("%s: required reference is missing", field)
		}
		return nil
	}
	if targetID, ok := lookup.Resolve(kind, legacyID); ok {
		return &targetID
	}
	m.UnresolvedRefs++
	if required {
		m.Errorf("%s: %s %d not found in lookup index", field, kind, legacyID)
	} else {
		m.Warnf("%s: %s %d not migrated yet, leaving null", field, kind, legacyID)
	}
	return nil
}

// Provenance builds the metadata object every migrated row carries for
// audit purposes.
func Provenance(sourceEntity string, legacyID int64, legacyCreated, legacyUpdated *time.Time) map[string]any {
	meta := map[string]any{
		"migrated_from": sourceEntity,
		"legacy_id":     legacyID,
		"migrated_at":   time.Now().UTC().Format(time.RFC3339),
	}
	if legacyCreated != nil {
		meta["legacy_created_at"] = legacyCreated.UTC().Format(time.RFC3339)
	}
	if legacyUpdated != nil {
		meta["legacy_updated_at"] = legacyUpdated.UTC().Format(time.RFC3339)
	}
	return meta
}
