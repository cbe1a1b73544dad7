package tickdown

import (
	"context"

	"github.com/hay-kot/tickdown/internal/core/config"
	"github.com/hay-kot/tickdown/internal/core/doctor"
	"github.com/hay-kot/tickdown/internal/data/db"
	"github.com/hay-kot/tickdown/pkg/clock"
)

// DoctorService runs health checks on the tickdown setup.
type DoctorService struct {
	store  doctor.TimerLister
	config *config.Config
	db     *db.DB
	expiry *Expiry
	clock  clock.Clock
}

// NewDoctorService creates a new DoctorService.
func NewDoctorService(store doctor.TimerLister, cfg *config.Config, database *db.DB, expiry *Expiry, clk clock.Clock) *DoctorService {
	return &DoctorService{
		store:  store,
		config: cfg,
		db:     database,
		expiry: expiry,
		clock:  clk,
	}
}

// RunChecks executes all doctor checks and returns results. With autofix,
// overdue timers are expired by running a sweep.
func (d *DoctorService) RunChecks(ctx context.Context, configPath string, autofix bool) []doctor.Result {
	var fix func(context.Context) error
	if autofix {
		fix = d.expiry.SweepExpired
	}

	checks := []doctor.Check{
		doctor.NewConfigCheck(d.config, configPath),
	}
	if d.db != nil {
		checks = append(checks, doctor.NewDatabaseCheck(d.db))
	}
	checks = append(checks,
		doctor.NewDocumentsCheck(d.config.DocumentPatterns()),
		doctor.NewTimersCheck(d.store, d.expiry.Timer(), d.config.Timer.SweepInterval, d.clock.Now, fix),
	)

	return doctor.RunAll(ctx, checks)
}
