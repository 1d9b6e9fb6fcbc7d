package entities

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/utils"
)

// Templates migrates dispatch_template into workflow_templates and
// stitches one workflow_tasks row per template step once the template
// row has been written.
type Templates struct {
	reader   *legacy.Reader
	validate bool

	// template legacy id → ordered task names, loaded during FetchAll.
	tasks map[int64][]string
}

// NewTemplates creates the templates migrator.
func NewTemplates(reader *legacy.Reader, validate bool) *Templates {
	return &Templates{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*Templates)(nil)
var _ etl.RelationshipSource = (*Templates)(nil)

func (t *Templates) Name() string                      { return "templates" }
func (t *Templates) TargetTable() string               { return models.TableWorkflowTemplates }
func (t *Templates) LegacyIDColumn() string            { return models.ColLegacyTemplateID }
func (t *Templates) RegisterKind() etl.LookupKind      { return etl.KindTemplate }
func (t *Templates) RequiredLookups() []etl.LookupKind { return nil }

func (t *Templates) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	templates, err := t.reader.Templates(ctx)
	if err != nil {
		return nil, err
	}

	t.tasks = make(map[int64][]string, len(templates))
	rows := make([]etl.LegacyRow, len(templates))
	for i, tpl := range templates {
		t.tasks[tpl.ID] = tpl.Tasks
		rows[i] = tpl
	}
	return rows, nil
}

func (t *Templates) Transform(row etl.LegacyRow, _ *etl.Lookup) *etl.MappingResult {
	tpl, ok := row.(legacy.Template)
	if !ok {
		m := etl.NewMappingResult(row.Key())
		m.Errorf("unexpected row type %T", row)
		return m
	}

	m := etl.NewMappingResult(tpl.ID)

	name := utils.TrimmedString(tpl.Name)
	if t.validate && name == "" {
		m.Errorf("name is required")
	}

	m.Record = &etl.Record{
		Table:        models.TableWorkflowTemplates,
		LegacyColumn: models.ColLegacyTemplateID,
		LegacyID:     tpl.ID,
		Fields: map[string]any{
			"name":        name,
			"description": utils.StringOrNil(tpl.Description),
			"task_count":  len(tpl.Tasks),
			"is_active":   true,
		},
		Settings: map[string]any{},
		Metadata: etl.Provenance("dispatch_template", tpl.ID, nil, nil),
	}
	return m
}

// Relationships creates one task row per template step, in step order.
func (t *Templates) Relationships(m *etl.MappingResult, _ *etl.Lookup) []*etl.RelationshipRecord {
	names := t.tasks[m.LegacyID]
	rels := make([]*etl.RelationshipRecord, 0, len(names))
	now := time.Now().UTC()
	for i, name := range names {
		rels = append(rels, &etl.RelationshipRecord{
			Table: models.TableWorkflowTasks,
			Fields: map[string]any{
				"id":          uuid.NewString(),
				"template_id": m.TargetID,
				"name":        name,
				"position":    i + 1,
				"created_at":  now,
			},
		})
	}
	return rels
}
