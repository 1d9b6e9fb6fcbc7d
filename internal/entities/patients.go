package entities

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/utils"
)

// Patients migrates dispatch_patient into profiles with the patient role.
// Doctor and office references are optional: a patient whose doctor has
// not been migrated is written with the field null and a warning.
type Patients struct {
	reader   *legacy.Reader
	validate bool
}

// NewPatients creates the patients migrator.
func NewPatients(reader *legacy.Reader, validate bool) *Patients {
	return &Patients{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*Patients)(nil)

func (p *Patients) Name() string           { return "patients" }
func (p *Patients) TargetTable() string    { return models.TableProfiles }
func (p *Patients) LegacyIDColumn() string { return models.ColLegacyPatientID }

func (p *Patients) RegisterKind() etl.LookupKind { return etl.KindPatient }

func (p *Patients) RequiredLookups() []etl.LookupKind {
	return []etl.LookupKind{etl.KindProfile, etl.KindOffice}
}

func (p *Patients) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	patients, err := p.reader.Patients(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]etl.LegacyRow, len(patients))
	for i, patient := range patients {
		rows[i] = patient
	}
	return rows, nil
}

func (p *Patients) Transform(row etl.LegacyRow, lookup *etl.Lookup) *etl.MappingResult {
	patient, ok := row.(legacy.Patient)
	if !ok {
		m := etl.NewMappingResult(row.Key())
		m.Errorf("unexpected row type %T", row)
		return m
	}

	m := etl.NewMappingResult(patient.ID)

	first := utils.TrimmedString(patient.FirstName)
	last := utils.TrimmedString(patient.LastName)
	fullName := utils.FullName(first, last)
	if p.validate && fullName == "" {
		m.Errorf("display name is required")
	}

	doctorID := m.ResolveRef(lookup, etl.KindProfile, patient.DoctorID.Int64, "doctor_id", false)
	officeID := m.ResolveRef(lookup, etl.KindOffice, patient.OfficeID.Int64, "office_id", false)

	status := strings.ToLower(utils.StringOrDefault(patient.Status, "active"))

	m.Record = &etl.Record{
		Table:        models.TableProfiles,
		LegacyColumn: models.ColLegacyPatientID,
		LegacyID:     patient.ID,
		Fields: map[string]any{
			"first_name": first,
			"last_name":  last,
			"full_name":  fullName,
			"role":       models.RolePatient,
			"birth_date": utils.TimeOrNil(patient.BirthDate),
			"gender":     normalizeGender(patient.Sex),
			"doctor_id":  doctorID,
			"office_id":  officeID,
			"is_active":  status != "archived" && status != "inactive",
		},
		Settings: map[string]any{
			"notifications_enabled": true,
		},
		Metadata: etl.Provenance("dispatch_patient", patient.ID,
			utils.TimeOrNil(patient.CreatedAt), nil),
	}
	return m
}

func normalizeGender(sex sql.NullString) string {
	switch strings.ToUpper(utils.TrimmedString(sex)) {
	case "M":
		return "male"
	case "F":
		return "female"
	default:
		return "unknown"
	}
}
