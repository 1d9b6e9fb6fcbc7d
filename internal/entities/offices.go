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

// Legacy addresses never carry a country; US is the documented default.
const defaultCountry = "US"

// Offices migrates dispatch_office into offices and stitches the primary
// doctor association per office from its earliest instruction.
type Offices struct {
	reader   *legacy.Reader
	validate bool

	// office legacy id → doctor legacy user id, loaded during FetchAll.
	primaryDoctors map[int64]int64
}

// NewOffices creates the offices migrator.
func NewOffices(reader *legacy.Reader, validate bool) *Offices {
	return &Offices{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*Offices)(nil)
var _ etl.RelationshipSource = (*Offices)(nil)

func (o *Offices) Name() string                      { return "offices" }
func (o *Offices) TargetTable() string               { return models.TableOffices }
func (o *Offices) LegacyIDColumn() string            { return models.ColLegacyOfficeID }
func (o *Offices) RegisterKind() etl.LookupKind      { return etl.KindOffice }
func (o *Offices) RequiredLookups() []etl.LookupKind { return []etl.LookupKind{etl.KindProfile} }

func (o *Offices) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	offices, err := o.reader.Offices(ctx)
	if err != nil {
		return nil, err
	}
	o.primaryDoctors, err = o.reader.PrimaryOfficeDoctors(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]etl.LegacyRow, len(offices))
	for i, office := range offices {
		rows[i] = office
	}
	return rows, nil
}

func (o *Offices) Transform(row etl.LegacyRow, _ *etl.Lookup) *etl.MappingResult {
	office, ok := row.(legacy.Office)
	if !ok {
		m := etl.NewMappingResult(row.Key())
		m.Errorf("unexpected row type %T", row)
		return m
	}

	m := etl.NewMappingResult(office.ID)

	name := utils.TrimmedString(office.Name)
	if o.validate && name == "" {
		m.Errorf("name is required")
	}

	m.Record = &etl.Record{
		Table:        models.TableOffices,
		LegacyColumn: models.ColLegacyOfficeID,
		LegacyID:     office.ID,
		Fields: map[string]any{
			"name":      name,
			"address":   utils.StringOrNil(office.Address),
			"city":      utils.StringOrNil(office.City),
			"state":     utils.StringOrNil(office.State),
			"zip_code":  utils.StringOrNil(office.ZipCode),
			"phone":     utils.StringOrNil(office.Phone),
			"country":   defaultCountry,
			"is_active": utils.BoolOrDefault(office.Valid, true),
		},
		Settings: map[string]any{
			"scheduling_enabled": true,
		},
		Metadata: etl.Provenance("dispatch_office", office.ID, nil, nil),
	}
	return m
}

// Relationships links the office to its primary doctor. An office without
// a matching instruction, or whose doctor is not in the lookup index,
// simply gets no association.
func (o *Offices) Relationships(m *etl.MappingResult, lookup *etl.Lookup) []*etl.RelationshipRecord {
	doctorLegacyID, ok := o.primaryDoctors[m.LegacyID]
	if !ok {
		return nil
	}
	doctorID, ok := lookup.Resolve(etl.KindProfile, doctorLegacyID)
	if !ok {
		return nil
	}

	return []*etl.RelationshipRecord{{
		Table: models.TableDoctorOffices,
		Fields: map[string]any{
			"id":         uuid.NewString(),
			"doctor_id":  doctorID,
			"office_id":  m.TargetID,
			"role":       models.RoleDoctor,
			"is_primary": true,
			"created_at": time.Now().UTC(),
		},
	}}
}
