package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/models"
)

type countingProvider struct {
	snap   *Snapshot
	err    error
	calls  atomic.Int32
	silent atomic.Bool
}

func (p *countingProvider) Load(ctx context.Context) (*Snapshot, error) {
	p.calls.Add(1)
	p.silent.Store(client.IsSilent(ctx))
	if p.err != nil {
		return nil, p.err
	}
	return p.snap, nil
}

func TestMockProvider_Shape(t *testing.T) {
	p := NewMockProvider(42)
	snap, err := p.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{TotalClubs: 12, TotalActivities: 45, PendingApprovals: 8}, snap.Stats)
	assert.Len(t, snap.Activities, 45)
	assert.Len(t, snap.Applications, 100)
	assert.Equal(t, Gauge{Title: "Hottest activity sign-ups", Current: 85, Max: 100}, snap.Gauge)

	require.Len(t, snap.Clubs, 6)
	for _, c := range snap.Clubs {
		assert.GreaterOrEqual(t, c.MemberCount, 20)
		assert.Less(t, c.MemberCount, 120)
		assert.GreaterOrEqual(t, c.BudgetUsage, 60)
		assert.Less(t, c.BudgetUsage, 100)
		assert.Less(t, c.GrowthRate, 0.5)
	}

	total := 0
	for _, s := range snap.Categories {
		total += s.Value
	}
	assert.Equal(t, 12, total)

	for i, app := range snap.Applications {
		assert.Equal(t, int64(1000+i), app.StudentID)
		assert.Contains(t, FunnelStages, app.Status)
	}

	year := time.Now().Year()
	for _, a := range snap.Activities {
		assert.Equal(t, year, a.ActivityTime.Year())
		assert.LessOrEqual(t, a.ActivityTime.Day(), 28)
	}
}

func TestMockProvider_SeedIsReproducible(t *testing.T) {
	a, err := NewMockProvider(7).Load(context.Background())
	require.NoError(t, err)
	b, err := NewMockProvider(7).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Clubs, b.Clubs)
	assert.Equal(t, a.Applications, b.Applications)
}

func TestAdapter_Derived(t *testing.T) {
	snap := &Snapshot{
		Stats: Stats{TotalClubs: 2, TotalActivities: 3, PendingApprovals: 1},
		Activities: []ActivityPoint{
			{ID: 1, ActivityTime: time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), Participants: 10},
			{ID: 2, ActivityTime: time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), Participants: 5},
			{ID: 3, ActivityTime: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), Participants: 7},
			{ID: 4},
		},
		Clubs: []ClubMetrics{
			{Name: "Chess", MemberCount: 40, ActivityCount: 2, AvgParticipation: 6, BudgetUsage: 70, GrowthRate: 0.25},
			{Name: "Go", MemberCount: 10, ActivityCount: 4, AvgParticipation: 9, BudgetUsage: 90},
		},
		Categories: []Slice{{Name: "Games", Value: 2}},
		Applications: []ApplicationSample{
			{Status: models.ApplicationPending},
			{Status: models.ApplicationPending},
			{Status: models.ApplicationJoined},
			{Status: models.ApplicationRejected},
		},
		Gauge: Gauge{Title: "Hot", Current: 30, Max: 40},
	}
	provider := &countingProvider{snap: snap}
	a := NewAdapter(provider, zerolog.Nop())
	ctx := context.Background()

	stats, err := a.LoadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Stats, stats)

	series, err := a.TimeSeries(ctx)
	require.NoError(t, err)
	require.Len(t, series, 12)
	assert.Equal(t, MonthPoint{Month: time.March, Activities: 2, Participants: 15}, series[2])
	assert.Equal(t, MonthPoint{Month: time.June, Activities: 1, Participants: 7}, series[5])
	assert.Equal(t, MonthPoint{Month: time.January}, series[0])

	dist, err := a.Distribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Slice{{Name: "Games", Value: 2}}, dist)

	funnel, err := a.Funnel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Stage{
		{Status: models.ApplicationPending, Count: 2},
		{Status: models.ApplicationInterviewing, Count: 0},
		{Status: models.ApplicationApproved, Count: 0},
		{Status: models.ApplicationJoined, Count: 1},
	}, funnel)

	gauge, err := a.Gauge(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, gauge.Percent, 0.001)

	radar, err := a.Radar(ctx)
	require.NoError(t, err)
	require.Len(t, radar.Indicators, 5)
	assert.Equal(t, 40.0, radar.Indicators[0].Max)
	assert.Equal(t, 4.0, radar.Indicators[1].Max)
	assert.Equal(t, 100.0, radar.Indicators[3].Max)
	require.Len(t, radar.Series, 2)
	assert.Equal(t, []float64{40, 2, 6, 70, 25}, radar.Series[0].Values)

	// Only LoadStats hits the provider once a snapshot is cached
	assert.Equal(t, int32(1), provider.calls.Load())
	assert.False(t, a.LoadedAt().IsZero())
}

func TestAdapter_FailureKeepsPreviousSnapshot(t *testing.T) {
	provider := &countingProvider{snap: &Snapshot{Stats: Stats{TotalClubs: 5}}}
	a := NewAdapter(provider, zerolog.Nop())

	_, err := a.LoadStats(context.Background())
	require.NoError(t, err)

	provider.err = errors.New("boom")
	_, err = a.LoadStats(context.Background())
	require.Error(t, err)

	dist, err := a.Distribution(context.Background())
	require.NoError(t, err)
	assert.Empty(t, dist)

	funnel, err := a.Funnel(context.Background())
	require.NoError(t, err)
	assert.Len(t, funnel, len(FunnelStages))
}

type fakeClubs struct{ page *models.Page[models.Club] }

func (f fakeClubs) List(ctx context.Context, q models.ClubQuery) (*models.Page[models.Club], error) {
	return f.page, nil
}

type fakeActivities struct{ page *models.Page[models.Activity] }

func (f fakeActivities) List(ctx context.Context, q models.ActivityQuery) (*models.Page[models.Activity], error) {
	return f.page, nil
}

type fakeApplications struct {
	page  *models.Page[models.Application]
	calls int
}

func (f *fakeApplications) PendingApplications(ctx context.Context, q models.PageQuery) (*models.Page[models.Application], error) {
	f.calls++
	return f.page, nil
}

func TestAPIProvider(t *testing.T) {
	clubs := fakeClubs{page: &models.Page[models.Club]{Total: 3, Records: []models.Club{
		{ID: 1, Name: "Chess", Category: "Games", MemberCount: 30},
		{ID: 2, Name: "Go", Category: "Games", MemberCount: 12},
		{ID: 3, Name: "Choir", Category: "Music", MemberCount: 25},
	}}}
	activities := fakeActivities{page: &models.Page[models.Activity]{Total: 3, Records: []models.Activity{
		{ID: 10, ClubID: 1, Name: "Blitz", ActivityTime: "2025-03-01 18:00:00", CurrentParticipants: 20, MaxParticipants: 40},
		{ID: 11, ClubID: 1, Name: "Simul", ActivityTime: "2025-04-02T10:00:00", CurrentParticipants: 10, MaxParticipants: 10},
		{ID: 12, ClubID: 3, Name: "Concert", ActivityTime: "bad", CurrentParticipants: 50},
	}}}
	apps := &fakeApplications{page: &models.Page[models.Application]{Total: 2, Records: []models.Application{
		{ID: 1, StudentID: 7, Status: models.ApplicationPending},
		{ID: 2, StudentID: 8, Status: models.ApplicationPending},
	}}}

	t.Run("reviewer", func(t *testing.T) {
		p := &APIProvider{Clubs: clubs, Activities: activities, Applications: apps, CanReview: func() bool { return true }}
		snap, err := p.Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, Stats{TotalClubs: 3, TotalActivities: 3, PendingApprovals: 2}, snap.Stats)
		assert.Equal(t, []Slice{{Name: "Games", Value: 2}, {Name: "Music", Value: 1}}, snap.Categories)
		assert.Equal(t, Gauge{Title: "Simul", Current: 10, Max: 10}, snap.Gauge)
		assert.Len(t, snap.Applications, 2)

		require.Len(t, snap.Clubs, 3)
		assert.Equal(t, ClubMetrics{ID: 1, Name: "Chess", MemberCount: 30, ActivityCount: 2, AvgParticipation: 15}, snap.Clubs[0])
		assert.Equal(t, 0, snap.Clubs[1].ActivityCount)

		assert.Equal(t, time.March, snap.Activities[0].ActivityTime.Month())
		assert.Equal(t, time.April, snap.Activities[1].ActivityTime.Month())
		assert.True(t, snap.Activities[2].ActivityTime.IsZero())
	})

	t.Run("non reviewer skips applications", func(t *testing.T) {
		apps.calls = 0
		p := &APIProvider{Clubs: clubs, Activities: activities, Applications: apps, CanReview: func() bool { return false }}
		snap, err := p.Load(context.Background())
		require.NoError(t, err)

		assert.Zero(t, snap.Stats.PendingApprovals)
		assert.Empty(t, snap.Applications)
		assert.Zero(t, apps.calls)
	})
}

func TestCharts(t *testing.T) {
	line := LineChart([]MonthPoint{
		{Month: time.January, Activities: 5, Participants: 120},
		{Month: time.February, Activities: 8, Participants: 180},
	})
	assert.Equal(t, []string{"Jan", "Feb"}, line.XAxis.Data)
	require.Len(t, line.Series, 2)
	assert.Equal(t, []int{5, 8}, line.Series[0].Data)
	assert.Equal(t, []int{120, 180}, line.Series[1].Data)

	data, err := json.Marshal(line)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"boundaryGap":false`)

	pie := PieChart([]Slice{{Name: "a", Value: 4}, {Name: "b", Value: 3}})
	require.Len(t, pie.Series, 1)
	assert.Equal(t, "pie", pie.Series[0].Type)
	assert.Equal(t, Palette[1], pie.Series[0].Data[1].ItemStyle.Color)
}

func TestRefresher(t *testing.T) {
	provider := &countingProvider{snap: &Snapshot{}}
	a := NewAdapter(provider, zerolog.Nop())

	_, err := NewRefresher(a, "not a schedule", nil, zerolog.Nop())
	require.Error(t, err)

	r, err := NewRefresher(a, DefaultSchedule, nil, zerolog.Nop())
	require.NoError(t, err)

	r.Start()
	defer r.Stop()

	assert.Equal(t, int32(1), provider.calls.Load())
	assert.True(t, provider.silent.Load())
	assert.Eventually(t, func() bool { return !r.Next().IsZero() }, time.Second, 10*time.Millisecond)
	assert.True(t, r.Next().After(time.Now()))
}

func TestRefresher_SkipsWhileNotReady(t *testing.T) {
	provider := &countingProvider{snap: &Snapshot{}}
	a := NewAdapter(provider, zerolog.Nop())

	var ready atomic.Bool
	r, err := NewRefresher(a, DefaultSchedule, ready.Load, zerolog.Nop())
	require.NoError(t, err)

	r.Start()
	defer r.Stop()
	assert.Zero(t, provider.calls.Load())
	assert.True(t, a.LoadedAt().IsZero())

	ready.Store(true)
	r.refresh()
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestAdapter_Invalidate(t *testing.T) {
	provider := &countingProvider{snap: &Snapshot{Stats: Stats{PendingApprovals: 3}}}
	a := NewAdapter(provider, zerolog.Nop())

	stats, err := a.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.PendingApprovals)

	_, err = a.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())

	a.Invalidate()
	assert.True(t, a.LoadedAt().IsZero())

	provider.snap = &Snapshot{}
	stats, err = a.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.PendingApprovals)
	assert.Equal(t, int32(2), provider.calls.Load())
}
