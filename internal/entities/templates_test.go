package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

func TestTemplatesTransformValidRow(t *testing.T) {
	mig := NewTemplates(nil, true)

	m := mig.Transform(legacy.Template{
		ID:    1,
		Name:  nullStr("Standard Treatment"),
		Tasks: []string{"Scan", "Design", "Print"},
	}, etl.NewLookup())

	require.False(t, m.Blocked())
	assert.Equal(t, models.TableWorkflowTemplates, m.Record.Table)
	assert.Equal(t, "Standard Treatment", m.Record.Fields["name"])
	assert.Equal(t, 3, m.Record.Fields["task_count"])
}

func TestTemplatesRelationshipsPreserveStepOrder(t *testing.T) {
	mig := NewTemplates(nil, true)
	mig.tasks = map[int64][]string{1: {"Scan", "Design", "Print"}}

	m := etl.NewMappingResult(1)
	m.TargetID = "template-uuid"

	rels := mig.Relationships(m, etl.NewLookup())
	require.Len(t, rels, 3)
	for i, rel := range rels {
		assert.Equal(t, models.TableWorkflowTasks, rel.Table)
		assert.Equal(t, "template-uuid", rel.Fields["template_id"])
		assert.Equal(t, i+1, rel.Fields["position"])
	}
	assert.Equal(t, "Scan", rels[0].Fields["name"])
	assert.Equal(t, "Print", rels[2].Fields["name"])
}

func TestTemplatesRelationshipsEmptyTemplate(t *testing.T) {
	mig := NewTemplates(nil, true)
	mig.tasks = map[int64][]string{}

	m := etl.NewMappingResult(7)
	m.TargetID = "template-uuid"

	assert.Empty(t, mig.Relationships(m, etl.NewLookup()))
}
