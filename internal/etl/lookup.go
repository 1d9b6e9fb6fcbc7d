package etl

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

// LookupKind names one legacy-id namespace. Profiles and patients are
// separate kinds even though both land in the profiles table: the legacy
// schema keeps doctors (auth_user) and patients (dispatch_patient) in
// different id spaces.
type LookupKind string

const (
	KindOffice   LookupKind = "office"
	KindProfile  LookupKind = "profile"
	KindPatient  LookupKind = "patient"
	KindOrder    LookupKind = "order"
	KindProject  LookupKind = "project"
	KindState    LookupKind = "state"
	KindTemplate LookupKind = "template"
	KindMessage  LookupKind = "message"
)

// lookupSources maps each kind to the target table and legacy-id column
// scanned when prefilling the index.
var lookupSources = map[LookupKind]struct {
	Table  string
	Column string
}{
	KindOffice:   {models.TableOffices, models.ColLegacyOfficeID},
	KindProfile:  {models.TableProfiles, models.ColLegacyUserID},
	KindPatient:  {models.TableProfiles, models.ColLegacyPatientID},
	KindOrder:    {models.TableOrders, models.ColLegacyInstructionID},
	KindProject:  {models.TableProjects, models.ColLegacyProjectID},
	KindState:    {models.TableOrderStates, models.ColLegacyStateID},
	KindTemplate: {models.TableWorkflowTemplates, models.ColLegacyTemplateID},
	KindMessage:  {models.TableMessages, models.ColLegacyRecordID},
}

// Lookup is the in-memory index from (kind, legacy id) to target id.
// It is scoped to one orchestrator run and constructor-injected; an entry
// exists only once the corresponding target row has been durably written.
type Lookup struct {
	entries map[LookupKind]map[int64]string
}

// NewLookup returns an empty index.
func NewLookup() *Lookup {
	return &Lookup{entries: make(map[LookupKind]map[int64]string)}
}

// Register records a mapping. Re-registering the same pair is a no-op;
// re-registering with a different target id fails with ErrLookupConflict.
func (l *Lookup) Register(kind LookupKind, legacyID int64, targetID string) error {
	byID, ok := l.entries[kind]
	if !ok {
		byID = make(map[int64]string)
		l.entries[kind] = byID
	}
	if existing, ok := byID[legacyID]; ok {
		if existing == targetID {
			return nil
		}
		return fmt.Errorf("%w: %s/%d already mapped to %s, refusing %s",
			ErrLookupConflict, kind, legacyID, existing, targetID)
	}
	byID[legacyID] = targetID
	return nil
}

// Resolve returns the target id for a legacy id. Pure map access, no I/O.
func (l *Lookup) Resolve(kind LookupKind, legacyID int64) (string, bool) {
	id, ok := l.entries[kind][legacyID]
	return id, ok
}

// Size reports how many entries a kind holds.
func (l *Lookup) Size(kind LookupKind) int {
	return len(l.entries[kind])
}

// BuildLookup prefills an index for the given kinds by scanning the target
// store for already-migrated rows. This is how a rerun discovers prior
// progress: rows written by earlier runs resolve exactly like rows written
// in this one.
func BuildLookup(ctx context.Context, store TargetStore, kinds []LookupKind, logger *zap.Logger) (*Lookup, error) {
	lookup := NewLookup()
	for _, kind := range kinds {
		src, ok := lookupSources[kind]
		if !ok {
			return nil, fmt.Errorf("no lookup source declared for kind %q", kind)
		}
		pairs, err := store.SelectLegacyPairs(ctx, src.Table, src.Column)
		if err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", src.Table, src.Column, err)
		}
		for legacyID, targetID := range pairs {
			if err := lookup.Register(kind, legacyID, targetID); err != nil {
				return nil, err
			}
		}
		logger.Info("lookup prefilled",
			zap.String("kind", string(kind)),
			zap.Int("entries", len(pairs)))
	}
	return lookup, nil
}
