package entities

import (
	"context"
	"strings"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/utils"
)

// orderTypes maps legacy course codes to the order_types reference rows
// seeded before batching. Unknown courses fall back to "main".
var orderTypes = map[string]string{
	"main":        "Main Treatment",
	"refinement":  "Refinement",
	"replacement": "Replacement",
	"invoice":     "Invoice",
	"any":         "Any",
}

// Orders migrates dispatch_instruction into orders. The patient reference
// is required: an instruction whose patient is missing from the lookup
// index is excluded with a blocking error.
type Orders struct {
	reader   *legacy.Reader
	validate bool
}

// NewOrders creates the orders migrator.
func NewOrders(reader *legacy.Reader, validate bool) *Orders {
	return &Orders{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*Orders)(nil)
var _ etl.Seeder = (*Orders)(nil)

func (o *Orders) Name() string                 { return "orders" }
func (o *Orders) TargetTable() string          { return models.TableOrders }
func (o *Orders) LegacyIDColumn() string       { return models.ColLegacyInstructionID }
func (o *Orders) RegisterKind() etl.LookupKind { return etl.KindOrder }

func (o *Orders) RequiredLookups() []etl.LookupKind {
	return []etl.LookupKind{etl.KindPatient, etl.KindProfile, etl.KindOffice}
}

func (o *Orders) Seed(ctx context.Context, store etl.TargetStore) error {
	return seedReference(ctx, store, models.TableOrderTypes, orderTypes)
}

func (o *Orders) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	instructions, err := o.reader.Instructions(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]etl.LegacyRow, len(instructions))
	for i, inst := range instructions {
		rows[i] = inst
	}
	return rows, nil
}

func (o *Orders) Transform(row etl.LegacyRow, lookup *etl.Lookup) *etl.MappingResult {
	inst, ok := row.(legacy.Instruction)
	if !ok {
		m := etl.NewMappingResult(row.Key())
		m.Errorf("unexpected row type %T", row)
		return m
	}

	m := etl.NewMappingResult(inst.ID)

	patientID := m.ResolveRef(lookup, etl.KindPatient, inst.PatientID.Int64, "patient_id", true)
	doctorID := m.ResolveRef(lookup, etl.KindProfile, inst.DoctorID.Int64, "doctor_id", false)
	officeID := m.ResolveRef(lookup, etl.KindOffice, inst.OfficeID.Int64, "office_id", false)

	course := strings.ToLower(utils.StringOrDefault(inst.Course, "main"))
	if _, known := orderTypes[course]; !known {
		m.Warnf("course %q not recognized, defaulting to main", course)
		course = "main"
	}

	m.Record = &etl.Record{
		Table:        models.TableOrders,
		LegacyColumn: models.ColLegacyInstructionID,
		LegacyID:     inst.ID,
		Fields: map[string]any{
			"patient_id":    patientID,
			"doctor_id":     doctorID,
			"office_id":     officeID,
			"order_type_id": seedID(models.TableOrderTypes, course),
			"status":        strings.ToLower(utils.StringOrDefault(inst.Status, "submitted")),
			"notes":         utils.StringOrNil(inst.Notes),
			"submitted_at":  utils.TimeOrNow(inst.SubmittedAt),
		},
		Settings: map[string]any{
			"course": course,
		},
		Metadata: etl.Provenance("dispatch_instruction", inst.ID,
			utils.TimeOrNil(inst.SubmittedAt), utils.TimeOrNil(inst.UpdatedAt)),
	}
	return m
}
