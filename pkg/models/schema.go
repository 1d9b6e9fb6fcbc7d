// Package models fixes the target-schema contract the migration writes
// against. Table and column names here mirror the Supabase migrations and
// are consumed as-is; the SQL definitions themselves live outside this repo.
package models

// Target tables participating in the migration. Each carries a nullable,
// uniquely-constrained legacy id column used for resumption and audit.
const (
	TableOffices           = "offices"
	TableProfiles          = "profiles"
	TableDoctorOffices     = "doctor_offices"
	TableOrders            = "orders"
	TableOrderTypes        = "order_types"
	TableOrderStates       = "order_states"
	TableProjects          = "projects"
	TableMessages          = "messages"
	TableMessageTypes      = "message_types"
	TableWorkflowTemplates = "workflow_templates"
	TableWorkflowTasks     = "workflow_tasks"
	TableInstructionStates = "instruction_states"
	TableEmbeddingQueue    = "embedding_queue"
)

// Legacy id columns, one per migrated table.
const (
	ColLegacyOfficeID      = "legacy_office_id"
	ColLegacyUserID        = "legacy_user_id"
	ColLegacyPatientID     = "legacy_patient_id"
	ColLegacyInstructionID = "legacy_instruction_id"
	ColLegacyProjectID     = "legacy_project_id"
	ColLegacyStateID       = "legacy_state_id"
	ColLegacyTemplateID    = "legacy_template_id"
	ColLegacyRecordID      = "legacy_record_id"
)

// Profile roles used by the target schema.
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// QueueOperation is the embedding queue operation kind.
type QueueOperation string

const (
	QueueOpInsert QueueOperation = "INSERT"
	QueueOpUpdate QueueOperation = "UPDATE"
)

// QueueItem is one row of the embedding side channel. The migration only
// appends these; a separate worker consumes them.
type QueueItem struct {
	ID          int64          `db:"id"`
	SourceTable string         `db:"source_table"`
	SourceID    string         `db:"source_id"`
	Operation   QueueOperation `db:"operation"`
	Content     string         `db:"content"`
	DocumentID  *string        `db:"document_id"`
	Error       *string        `db:"error"`
	Processed   bool           `db:"processed"`
}
