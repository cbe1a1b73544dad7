package doctor

import (
	"context"
	"fmt"

	"github.com/hay-kot/tickdown/internal/data/db"
)

// DatabaseCheck verifies the task database is reachable, migrated, and intact.
type DatabaseCheck struct {
	db *db.DB
}

// NewDatabaseCheck creates a new database check.
func NewDatabaseCheck(database *db.DB) *DatabaseCheck {
	return &DatabaseCheck{db: database}
}

func (c *DatabaseCheck) Name() string {
	return "Database"
}

func (c *DatabaseCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if err := c.db.Conn().PingContext(ctx); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  c.db.Path(),
			Status: StatusFail,
			Detail: fmt.Sprintf("unreachable: %v", err),
		})
		return result
	}
	result.Items = append(result.Items, CheckItem{Label: c.db.Path(), Status: StatusPass})

	applied, known, err := c.db.SchemaStatus(ctx)
	switch {
	case err != nil:
		result.Items = append(result.Items, CheckItem{Label: "schema", Status: StatusFail, Detail: err.Error()})
	case applied < known:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d of %d migrations applied", applied, known),
		})
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  "schema",
			Status: StatusPass,
			Detail: fmt.Sprintf("version %d", applied),
		})
	}

	integrity, err := c.db.QuickCheck(ctx)
	switch {
	case err != nil:
		result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusFail, Detail: err.Error()})
	case integrity != "ok":
		result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusFail, Detail: integrity})
	default:
		result.Items = append(result.Items, CheckItem{Label: "integrity", Status: StatusPass})
	}

	return result
}
