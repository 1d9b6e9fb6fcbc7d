package entities

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
)

func TestPatientsTransformValidRow(t *testing.T) {
	mig := NewPatients(nil, true)
	lookup := etl.NewLookup()
	require.NoError(t, lookup.Register(etl.KindProfile, 5, "doctor-uuid"))

	m := mig.Transform(legacy.Patient{
		ID:        1,
		FirstName: nullStr("Ada"),
		LastName:  nullStr("Lovelace"),
		Sex:       nullStr("F"),
		DoctorID:  nullInt(5),
	}, lookup)

	require.False(t, m.Blocked())
	assert.Equal(t, models.TableProfiles, m.Record.Table)
	assert.Equal(t, models.ColLegacyPatientID, m.Record.LegacyColumn)
	assert.Equal(t, "Ada Lovelace", m.Record.Fields["full_name"])
	assert.Equal(t, models.RolePatient, m.Record.Fields["role"])
	assert.Equal(t, "female", m.Record.Fields["gender"])
	assert.Equal(t, "doctor-uuid", *m.Record.Fields["doctor_id"].(*string))
	assert.Equal(t, true, m.Record.Fields["is_active"], "NULL status defaults to active")
}

func TestPatientsTransformUnmigratedDoctorIsWarning(t *testing.T) {
	mig := NewPatients(nil, true)

	m := mig.Transform(legacy.Patient{
		ID:        1,
		FirstName: nullStr("Ada"),
		DoctorID:  nullInt(5),
		OfficeID:  nullInt(6),
	}, etl.NewLookup())

	require.False(t, m.Blocked(), "optional references never block a patient")
	assert.Nil(t, m.Record.Fields["doctor_id"])
	assert.Nil(t, m.Record.Fields["office_id"])
	assert.Len(t, m.Warnings, 2)
	assert.Equal(t, 2, m.UnresolvedRefs)
}

func TestPatientsTransformRejectsNamelessRow(t *testing.T) {
	mig := NewPatients(nil, true)

	m := mig.Transform(legacy.Patient{ID: 1}, etl.NewLookup())
	assert.True(t, m.Blocked())
}

func TestPatientsTransformArchivedStatusInactive(t *testing.T) {
	mig := NewPatients(nil, true)

	m := mig.Transform(legacy.Patient{
		ID:        1,
		FirstName: nullStr("Ada"),
		Status:    nullStr("Archived"),
	}, etl.NewLookup())

	require.False(t, m.Blocked())
	assert.Equal(t, false, m.Record.Fields["is_active"])
}

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, "male", normalizeGender(nullStr(" m ")))
	assert.Equal(t, "female", normalizeGender(nullStr("F")))
	assert.Equal(t, "unknown", normalizeGender(nullStr("x")))
	assert.Equal(t, "unknown", normalizeGender(sql.NullString{}))
}
