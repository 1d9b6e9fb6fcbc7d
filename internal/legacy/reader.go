package legacy

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
)

// Reader issues the read-only queries against the legacy database. Each
// Fetch* is a single round trip materializing the full entity set; a
// connection-level failure is fatal to the orchestrator run.
type Reader struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewReader wraps an open legacy connection.
func NewReader(db *sqlx.DB, logger *zap.Logger) *Reader {
	return &Reader{db: db, logger: logger.Named("legacy-reader")}
}

func fetch[T any](ctx context.Context, r *Reader, entity, query string, args ...any) ([]T, error) {
	var rows []T
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%w: fetch legacy %s: %v", etl.ErrSourceUnavailable, entity, err)
	}
	r.logger.Debug("legacy fetch", zap.String("entity", entity), zap.Int("rows", len(rows)))
	return rows, nil
}

// Offices returns all legacy offices.
func (r *Reader) Offices(ctx context.Context) ([]Office, error) {
	return fetch[Office](ctx, r, "offices", `
		SELECT id, name, address, city, state, zip_code, phone, valid
		FROM dispatch_office
		ORDER BY id`)
}

// Doctors returns all auth_user rows belonging to the Doctor group.
func (r *Reader) Doctors(ctx context.Context) ([]User, error) {
	return fetch[User](ctx, r, "doctors", `
		SELECT u.id, u.username, u.first_name, u.last_name, u.email,
		       u.is_active, u.date_joined, u.last_login
		FROM auth_user u
		JOIN auth_user_groups ug ON ug.user_id = u.id
		JOIN auth_group g ON g.id = ug.group_id
		WHERE g.name = 'Doctor'
		ORDER BY u.id`)
}

// Patients returns all legacy patients.
func (r *Reader) Patients(ctx context.Context) ([]Patient, error) {
	return fetch[Patient](ctx, r, "patients", `
		SELECT id, first_name, last_name, birthdate, sex,
		       doctor_id, office_id, status, created_at
		FROM dispatch_patient
		ORDER BY id`)
}

// Instructions returns all legacy instructions (orders).
func (r *Reader) Instructions(ctx context.Context) ([]Instruction, error) {
	return fetch[Instruction](ctx, r, "instructions", `
		SELECT id, patient_id, doctor_id, office_id, course, notes,
		       status, submitted_at, updated_at
		FROM dispatch_instruction
		ORDER BY id`)
}

// Projects returns all legacy projects.
func (r *Reader) Projects(ctx context.Context) ([]Project, error) {
	return fetch[Project](ctx, r, "projects", `
		SELECT id, name, instruction_id, type, status, created_at
		FROM dispatch_project
		ORDER BY id`)
}

// States returns all legacy status-change events.
func (r *Reader) States(ctx context.Context) ([]State, error) {
	return fetch[State](ctx, r, "states", `
		SELECT id, instruction_id, status, actor_id, changed_at, on_hold
		FROM dispatch_state
		ORDER BY id`)
}

// DistinctStateCodes returns the normalized set of status codes present
// in dispatch_state, used to seed the instruction_states reference table.
func (r *Reader) DistinctStateCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.SelectContext(ctx, &codes, `
		SELECT DISTINCT LOWER(TRIM(status))
		FROM dispatch_state
		WHERE status IS NOT NULL AND TRIM(status) <> ''
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch legacy state codes: %v", etl.ErrSourceUnavailable, err)
	}
	return codes, nil
}

// Templates returns all legacy templates with task names aggregated in
// step order.
func (r *Reader) Templates(ctx context.Context) ([]Template, error) {
	return fetch[Template](ctx, r, "templates", `
		SELECT t.id, t.name, t.description,
		       COALESCE(array_agg(k.name ORDER BY k.step) FILTER (WHERE k.name IS NOT NULL), '{}') AS tasks
		FROM dispatch_template t
		LEFT JOIN dispatch_task k ON k.template_id = t.id
		GROUP BY t.id, t.name, t.description
		ORDER BY t.id`)
}

// Records returns all legacy message records.
func (r *Reader) Records(ctx context.Context) ([]Record, error) {
	return fetch[Record](ctx, r, "records", `
		SELECT id, target_id, author_id, text, type, public, created_at
		FROM dispatch_record
		ORDER BY id`)
}

// PrimaryOfficeDoctors returns, per office, the doctor on its earliest
// instruction. Feeds the doctor_offices stitch after offices are written.
func (r *Reader) PrimaryOfficeDoctors(ctx context.Context) (map[int64]int64, error) {
	rows, err := fetch[OfficeDoctor](ctx, r, "office doctors", `
		SELECT DISTINCT ON (office_id) office_id, doctor_id
		FROM dispatch_instruction
		WHERE office_id IS NOT NULL AND doctor_id IS NOT NULL
		ORDER BY office_id, submitted_at ASC NULLS LAST, id ASC`)
	if err != nil {
		return nil, err
	}
	byOffice := make(map[int64]int64, len(rows))
	for _, od := range rows {
		byOffice[od.OfficeID] = od.DoctorID
	}
	return byOffice, nil
}
