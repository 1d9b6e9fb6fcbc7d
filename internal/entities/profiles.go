package entities

import (
	"context"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/models"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/pkg/utils"
)

// Profiles migrates doctor accounts from auth_user into profiles.
type Profiles struct {
	reader   *legacy.Reader
	validate bool
}

// NewProfiles creates the doctors migrator.
func NewProfiles(reader *legacy.Reader, validate bool) *Profiles {
	return &Profiles{reader: reader, validate: validate}
}

var _ etl.EntityMigrator = (*Profiles)(nil)

func (p *Profiles) Name() string                      { return "profiles" }
func (p *Profiles) TargetTable() string               { return models.TableProfiles }
func (p *Profiles) LegacyIDColumn() string            { return models.ColLegacyUserID }
func (p *Profiles) RegisterKind() etl.LookupKind      { return etl.KindProfile }
func (p *Profiles) RequiredLookups() []etl.LookupKind { return nil }

func (p *Profiles) FetchAll(ctx context.Context) ([]etl.LegacyRow, error) {
	users, err := p.reader.Doctors(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]etl.LegacyRow, len(users))
	for i, u := range users {
		rows[i] = u
	}
	return rows, nil
}

func (p *Profiles) Transform(row etl.LegacyRow, _ *etl.Lookup) *etl.MappingResult {
	user, ok := row.(legacy.User)
	if !ok {
		m := etl.NewMappingResult(row.Key())
		m.Errorf("unexpected row type %T", row)
		return m
	}

	m := etl.NewMappingResult(user.ID)

	first := utils.TrimmedString(user.FirstName)
	last := utils.TrimmedString(user.LastName)
	fullName := utils.FullName(first, last)
	if fullName == "" {
		fullName = user.Username
	}
	if p.validate && fullName == "" {
		m.Errorf("display name is required")
	}

	m.Record = &etl.Record{
		Table:        models.TableProfiles,
		LegacyColumn: models.ColLegacyUserID,
		LegacyID:     user.ID,
		Fields: map[string]any{
			"username":   user.Username,
			"first_name": first,
			"last_name":  last,
			"full_name":  fullName,
			"email":      utils.StringOrNil(user.Email),
			"role":       models.RoleDoctor,
			"is_active":  user.IsActive,
		},
		Settings: map[string]any{
			"notifications_enabled": true,
		},
		Metadata: etl.Provenance("auth_user", user.ID,
			utils.TimeOrNil(user.DateJoined), utils.TimeOrNil(user.LastLogin)),
	}
	return m
}
