// Package dashboard shapes club and activity data for the dashboard widgets.
// Data comes from a Provider so real and placeholder sources are interchangeable.
package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubdesk/console/internal/models"
)

// Stats are the headline counters
type Stats struct {
	TotalClubs       int64 `json:"totalClubs" yaml:"totalClubs"`
	TotalActivities  int64 `json:"totalActivities" yaml:"totalActivities"`
	PendingApprovals int64 `json:"pendingApprovals" yaml:"pendingApprovals"`
}

// ActivityPoint is one activity placed on the calendar
type ActivityPoint struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	ClubID       int64     `json:"clubId,omitempty"`
	ActivityTime time.Time `json:"activityTime"`
	Participants int       `json:"participants"`
}

// ClubMetrics are the per-club values plotted on the radar
type ClubMetrics struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	MemberCount      int     `json:"memberCount"`
	ActivityCount    int     `json:"activityCount"`
	AvgParticipation int     `json:"avgParticipation"`
	BudgetUsage      int     `json:"budgetUsage"`
	GrowthRate       float64 `json:"growthRate"`
}

// ApplicationSample is one club application feeding the funnel
type ApplicationSample struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"studentId"`
	Status    string `json:"status"`
}

// Gauge is the sign-up progress of the hottest activity
type Gauge struct {
	Title   string  `json:"title" yaml:"title"`
	Current int     `json:"current" yaml:"current"`
	Max     int     `json:"max" yaml:"max"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Slice is one category of a distribution
type Slice struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

// Snapshot is everything a provider loads in one pass
type Snapshot struct {
	Stats        Stats
	Activities   []ActivityPoint
	Clubs        []ClubMetrics
	Categories   []Slice
	Applications []ApplicationSample
	Gauge        Gauge
}

// Provider loads a dashboard snapshot
type Provider interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// MonthPoint is one month of the activity time series
type MonthPoint struct {
	Month        time.Month `json:"month" yaml:"month"`
	Activities   int        `json:"activities" yaml:"activities"`
	Participants int        `json:"participants" yaml:"participants"`
}

// Stage is one step of the application funnel
type Stage struct {
	Status string `json:"status" yaml:"status"`
	Count  int    `json:"count" yaml:"count"`
}

// FunnelStages are the application statuses in funnel order
var FunnelStages = []string{
	models.ApplicationPending,
	models.ApplicationInterviewing,
	models.ApplicationApproved,
	models.ApplicationJoined,
}

// Indicator is one radar axis
type Indicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

// Radar holds the radar axes and one value row per club
type Radar struct {
	Indicators []Indicator `json:"indicators"`
	Series     []RadarRow  `json:"series"`
}

// RadarRow is one club on the radar, values ordered like Indicators
type RadarRow struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Adapter caches the last snapshot and derives widget data from it
type Adapter struct {
	provider Provider
	logger   zerolog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
	loadedAt time.Time
}

// NewAdapter creates an adapter over provider
func NewAdapter(provider Provider, logger zerolog.Logger) *Adapter {
	return &Adapter{provider: provider, logger: logger}
}

// Refresh loads a new snapshot. On failure the previous one is kept.
func (a *Adapter) Refresh(ctx context.Context) (*Snapshot, error) {
	snap, err := a.provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	a.mu.Lock()
	a.snapshot = snap
	a.loadedAt = time.Now()
	a.mu.Unlock()

	a.logger.Debug().
		Int64("clubs", snap.Stats.TotalClubs).
		Int64("activities", snap.Stats.TotalActivities).
		Int64("pending", snap.Stats.PendingApprovals).
		Msg("Dashboard data loaded")
	return snap, nil
}

// Invalidate drops the cached snapshot; the next read loads a fresh one
func (a *Adapter) Invalidate() {
	a.mu.Lock()
	a.snapshot = nil
	a.loadedAt = time.Time{}
	a.mu.Unlock()
}

// LoadedAt returns when the cached snapshot was loaded, zero if never
func (a *Adapter) LoadedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loadedAt
}

func (a *Adapter) current(ctx context.Context) (*Snapshot, error) {
	a.mu.RLock()
	snap := a.snapshot
	a.mu.RUnlock()

	if snap != nil {
		return snap, nil
	}
	return a.Refresh(ctx)
}

// LoadStats reloads the snapshot and returns its counters
func (a *Adapter) LoadStats(ctx context.Context) (Stats, error) {
	snap, err := a.Refresh(ctx)
	if err != nil {
		return Stats{}, err
	}
	return snap.Stats, nil
}

// Stats returns the counters of the cached snapshot, loading one if needed
func (a *Adapter) Stats(ctx context.Context) (Stats, error) {
	snap, err := a.current(ctx)
	if err != nil {
		return Stats{}, err
	}
	return snap.Stats, nil
}

// TimeSeries counts activities and participants per calendar month
func (a *Adapter) TimeSeries(ctx context.Context) ([]MonthPoint, error) {
	snap, err := a.current(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]MonthPoint, 12)
	for i := range points {
		points[i].Month = time.Month(i + 1)
	}
	for _, act := range snap.Activities {
		if act.ActivityTime.IsZero() {
			continue
		}
		p := &points[act.ActivityTime.Month()-1]
		p.Activities++
		p.Participants += act.Participants
	}
	return points, nil
}

// Distribution returns clubs per category
func (a *Adapter) Distribution(ctx context.Context) ([]Slice, error) {
	snap, err := a.current(ctx)
	if err != nil {
		return nil, err
	}
	return append([]Slice(nil), snap.Categories...), nil
}

// Funnel counts applications per stage
func (a *Adapter) Funnel(ctx context.Context) ([]Stage, error) {
	snap, err := a.current(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(FunnelStages))
	for _, app := range snap.Applications {
		counts[app.Status]++
	}

	stages := make([]Stage, 0, len(FunnelStages))
	for _, status := range FunnelStages {
		stages = append(stages, Stage{Status: status, Count: counts[status]})
	}
	return stages, nil
}

// Gauge returns the hottest activity's fill
func (a *Adapter) Gauge(ctx context.Context) (Gauge, error) {
	snap, err := a.current(ctx)
	if err != nil {
		return Gauge{}, err
	}

	g := snap.Gauge
	if g.Max > 0 {
		g.Percent = float64(g.Current) * 100 / float64(g.Max)
	}
	return g, nil
}

// Radar returns per-club metrics scaled against the largest club
func (a *Adapter) Radar(ctx context.Context) (Radar, error) {
	snap, err := a.current(ctx)
	if err != nil {
		return Radar{}, err
	}

	indicators := []Indicator{
		{Name: "Members"},
		{Name: "Activities"},
		{Name: "Avg participation"},
		{Name: "Budget usage", Max: 100},
		{Name: "Growth rate", Max: 100},
	}

	rows := make([]RadarRow, 0, len(snap.Clubs))
	for _, c := range snap.Clubs {
		values := []float64{
			float64(c.MemberCount),
			float64(c.ActivityCount),
			float64(c.AvgParticipation),
			float64(c.BudgetUsage),
			c.GrowthRate * 100,
		}
		for i := 0; i < 3; i++ {
			indicators[i].Max = max(indicators[i].Max, values[i])
		}
		rows = append(rows, RadarRow{Name: c.Name, Values: values})
	}
	for i := range indicators {
		if indicators[i].Max == 0 {
			indicators[i].Max = 1
		}
	}

	return Radar{Indicators: indicators, Series: rows}, nil
}
