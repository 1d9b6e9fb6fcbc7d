// Package legacy reads the Django-era schema the migration copies from.
// Tables are consumed read-only and materialized fully in memory, one
// entity type per query.
package legacy

import (
	"database/sql"

	"github.com/lib/pq"
)

// Office is one row of dispatch_office.
type Office struct {
	ID      int64          `db:"id"`
	Name    sql.NullString `db:"name"`
	Address sql.NullString `db:"address"`
	City    sql.NullString `db:"city"`
	State   sql.NullString `db:"state"`
	ZipCode sql.NullString `db:"zip_code"`
	Phone   sql.NullString `db:"phone"`
	Valid   sql.NullBool   `db:"valid"`
}

func (o Office) Key() int64 { return o.ID }

// User is one row of auth_user. Only doctor accounts are migrated; the
// reader filters on group membership.
type User struct {
	ID         int64          `db:"id"`
	Username   string         `db:"username"`
	FirstName  sql.NullString `db:"first_name"`
	LastName   sql.NullString `db:"last_name"`
	Email      sql.NullString `db:"email"`
	IsActive   bool           `db:"is_active"`
	DateJoined sql.NullTime   `db:"date_joined"`
	LastLogin  sql.NullTime   `db:"last_login"`
}

func (u User) Key() int64 { return u.ID }

// Patient is one row of dispatch_patient.
type Patient struct {
	ID        int64          `db:"id"`
	FirstName sql.NullString `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	BirthDate sql.NullTime   `db:"birthdate"`
	Sex       sql.NullString `db:"sex"`
	DoctorID  sql.NullInt64  `db:"doctor_id"`
	OfficeID  sql.NullInt64  `db:"office_id"`
	Status    sql.NullString `db:"status"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func (p Patient) Key() int64 { return p.ID }

// Instruction is one row of dispatch_instruction, the legacy order. It
// links patient, doctor and office.
type Instruction struct {
	ID          int64          `db:"id"`
	PatientID   sql.NullInt64  `db:"patient_id"`
	DoctorID    sql.NullInt64  `db:"doctor_id"`
	OfficeID    sql.NullInt64  `db:"office_id"`
	Course      sql.NullString `db:"course"`
	Notes       sql.NullString `db:"notes"`
	Status      sql.NullString `db:"status"`
	SubmittedAt sql.NullTime   `db:"submitted_at"`
	UpdatedAt   sql.NullTime   `db:"updated_at"`
}

func (i Instruction) Key() int64 { return i.ID }

// Project is one row of dispatch_project.
type Project struct {
	ID            int64          `db:"id"`
	Name          sql.NullString `db:"name"`
	InstructionID sql.NullInt64  `db:"instruction_id"`
	Type          sql.NullString `db:"type"`
	Status        sql.NullString `db:"status"`
	CreatedAt     sql.NullTime   `db:"created_at"`
}

func (p Project) Key() int64 { return p.ID }

// State is one row of dispatch_state, a status-change event on an
// instruction.
type State struct {
	ID            int64          `db:"id"`
	InstructionID sql.NullInt64  `db:"instruction_id"`
	Status        sql.NullString `db:"status"`
	ActorID       sql.NullInt64  `db:"actor_id"`
	ChangedAt     sql.NullTime   `db:"changed_at"`
	OnHold        sql.NullBool   `db:"on_hold"`
}

func (s State) Key() int64 { return s.ID }

// Template is one row of dispatch_template with its task names aggregated
// from dispatch_task in step order.
type Template struct {
	ID          int64          `db:"id"`
	Name        sql.NullString `db:"name"`
	Description sql.NullString `db:"description"`
	Tasks       pq.StringArray `db:"tasks"`
}

func (t Template) Key() int64 { return t.ID }

// Record is one row of dispatch_record, the legacy message thread entry
// attached to an instruction.
type Record struct {
	ID        int64          `db:"id"`
	TargetID  sql.NullInt64  `db:"target_id"`
	AuthorID  sql.NullInt64  `db:"author_id"`
	Text      sql.NullString `db:"text"`
	Type      sql.NullInt64  `db:"type"`
	Public    sql.NullBool   `db:"public"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func (r Record) Key() int64 { return r.ID }

// OfficeDoctor pairs an office with the doctor of its earliest
// instruction, used to stitch the primary doctor_offices association.
type OfficeDoctor struct {
	OfficeID int64 `db:"office_id"`
	DoctorID int64 `db:"doctor_id"`
}
