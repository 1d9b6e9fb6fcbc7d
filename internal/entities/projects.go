package entities

import (
	"context"
	"fmt"
	"strings"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/utils"
)

// Projects migrates dispatch_project into projects. Every legacy project
// hangs off an instruction, so the order reference is required.
type Projects struct {
	reader   *legacy.Reader
	validate bool
}

// NewProjects creates the projects migrator.
func NewProjects(reader *legacy.Reader, validate bool) *Projects {
	return &Projects{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*Projects)(nil)

func (p *Projects) Name() string                      { return "projects" }
func (p *Projects) TargetTable() string               { return models.TableProjects }
func (p *Projects) LegacyIDColumn() string            { return models.ColLegacyProjectID }
func (p *Projects) RegisterKind() etl.LookupKind      { return etl.KindProject }
func (p *Projects) RequiredLookups() []etl.LookupKind { return []etl.LookupKind{etl.KindOrder} }

func (p *Projects) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	projects, err := p.reader.Projects(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]etl.LegacyRow, len(projects))
	for i, project := range projects {
		rows[i] = project
	}
	return rows, nil
}

func (p *Projects) Transform(row etl.LegacyRow, lookup *etl.Lookup) *etl.MappingResult {
	project, ok := row.(legacy.Project)
	if !ok {
		m := etl.NewMappingResult(row.Key())
		m.Errorf("unexpected row type %T", row)
		return m
	}

	m := etl.NewMappingResult(project.ID)

	orderID := m.ResolveRef(lookup, etl.KindOrder, project.InstructionID.Int64, "order_id", true)

	m.Record = &etl.Record{
		Table:        models.TableProjects,
		LegacyColumn: models.ColLegacyProjectID,
		LegacyID:     project.ID,
		Fields: map[string]any{
			"name":     utils.StringOrDefault(project.Name, fmt.Sprintf("Project %d", project.ID)),
			"order_id": orderID,
			"type":     strings.ToLower(utils.StringOrDefault(project.Type, "digital")),
			"status":   strings.ToLower(utils.StringOrDefault(project.Status, "active")),
		},
		Settings: map[string]any{},
		Metadata: etl.Provenance("dispatch_project", project.ID,
			utils.TimeOrNil(project.CreatedAt), nil),
	}
	return m
}
