package entities

import (
	"context"
	"strings"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/utils"
)

// States migrates dispatch_state events into order_states. It also seeds
// the instruction_states reference table from the distinct status codes
// observed in the legacy data.
type States struct {
	reader   *legacy.Reader
	validate bool
}

// NewStates creates the states migrator.
func NewStates(reader *legacy.Reader, validate bool) *States {
	return &States{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*States)(nil)
var _ etl.Seeder = (*States)(nil)

func (s *States) Name() string                 { return "states" }
func (s *States) TargetTable() string          { return models.TableOrderStates }
func (s *States) LegacyIDColumn() string       { return models.ColLegacyStateID }
func (s *States) RegisterKind() etl.LookupKind { return etl.KindState }

func (s *States) RequiredLookups() []etl.LookupKind {
	return []etl.LookupKind{etl.KindOrder, etl.KindProfile}
}

func (s *States) Seed(ctx context.Context, store etl.TargetStore) error {
	codes, err := s.reader.DistinctStateCodes(ctx)
	if err != nil {
		return err
	}
	// "updated" is the fallback status for legacy rows with a NULL state.
	refs := map[string]string{"updated": "Updated"}
	for _, code := range codes {
		refs[code] = titleCase(code)
	}
	return seedReference(ctx, store, models.TableInstructionStates, refs)
}

func (s *States) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	states, err := s.reader.States(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]etl.LegacyRow, len(states))
	for i, st := range states {
		rows[i] = st
	}
	return rows, nil
}

func (s *States) Transform(row etl.LegacyRow, lookup *etl.Lookup) *etl.MappingResult {
	state, ok := row.(legacy.State)
	if !ok {
		m := etl.NewMappingResult(row.Key())
		m.Errorf("unexpected row type %T", row)
		return m
	}

	m := etl.NewMappingResult(state.ID)

	orderID := m.ResolveRef(lookup, etl.KindOrder, state.InstructionID.Int64, "order_id", true)
	changedBy := m.ResolveRef(lookup, etl.KindProfile, state.ActorID.Int64, "changed_by", false)

	status := strings.ToLower(utils.StringOrDefault(state.Status, "updated"))

	m.Record = &etl.Record{
		Table:        models.TableOrderStates,
		LegacyColumn: models.ColLegacyStateID,
		LegacyID:     state.ID,
		Fields: map[string]any{
			"order_id":   orderID,
			"status":     status,
			"state_id":   seedID(models.TableInstructionStates, status),
			"changed_by": changedBy,
			"changed_at": utils.TimeOrNow(state.ChangedAt),
			"on_hold":    utils.BoolOrDefault(state.OnHold, false),
		},
		Settings: map[string]any{},
		Metadata: etl.Provenance("dispatch_state", state.ID,
			utils.TimeOrNil(state.ChangedAt), nil),
	}
	return m
}

func titleCase(code string) string {
	words := strings.Fields(strings.ReplaceAll(code, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
