package entities

import (
	"fmt"

	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/etl"
	"github.com/Prometheus-AGS/brius-smile-nexus-sub004/internal/legacy"
)

// Order is the dependency order for a full migration: later entities
// resolve foreign keys against rows written by earlier ones.
var Order = []string{
	"profiles",
	"offices",
	"patients",
	"orders",
	"projects",
	"states",
	"templates",
	"messages",
}

// New returns the migrator for an entity name.
func New(name string, reader *legacy.Reader, validate bool) (etl.EntityMigrator, error) {
	switch name {
	case "profiles":
		return NewProfiles(reader, validate), nil
	case "offices":
		return NewOffices(reader, validate), nil
	case "patients":
		return NewPatients(reader, validate), nil
	case "orders":
		return NewOrders(reader, validate), nil
	case "projects":
		return NewProjects(reader, validate), nil
	case "states":
		return NewStates(reader, validate), nil
	case "templates":
		return NewTemplates(reader, validate), nil
	case "messages":
		return NewMessages(reader, validate), nil
	default:
		return nil, fmt.Errorf("unknown entity %q (known: %v)", name, Order)
	}
}
