package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/client"
)

// DefaultSchedule reloads the dashboard every five minutes
const DefaultSchedule = "*/5 * * * *"

const refreshTimeout = 30 * time.Second

// Refresher reloads an Adapter's snapshot on a cron schedule
type Refresher struct {
	adapter *Adapter
	cron    *cron.Cron
	ready   func() bool
	logger  zerolog.Logger
}

// NewRefresher validates schedule (standard five-field cron) and prepares the job.
// Runs are skipped while ready reports false; a nil ready always runs.
func NewRefresher(adapter *Adapter, schedule string, ready func() bool, logger zerolog.Logger) (*Refresher, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	r := &Refresher{
		adapter: adapter,
		ready:   ready,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
	}
	r.cron.Schedule(sched, cron.FuncJob(r.refresh))
	return r, nil
}

// Start loads once immediately, then on schedule
func (r *Refresher) Start() {
	r.refresh()
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}

// Next returns the next scheduled refresh, zero before Start
func (r *Refresher) Next() time.Time {
	entries := r.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (r *Refresher) refresh() {
	if r.ready != nil && !r.ready() {
		r.logger.Debug().Msg("Dashboard refresh skipped, no session")
		return
	}

	// Background loads never raise notices
	ctx, cancel := context.WithTimeout(client.WithSilent(context.Background()), refreshTimeout)
	defer cancel()

	if _, err := r.adapter.Refresh(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Dashboard refresh failed")
		return
	}
	r.logger.Debug().Time("next_refresh_at", r.Next()).Msg("Dashboard refreshed")
}
