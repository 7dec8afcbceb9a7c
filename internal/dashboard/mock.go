package dashboard

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/clubdesk/console/internal/models"
)

var mockClubNames = []string{
	"E-sports Club",
	"Volunteer Association",
	"Photography Society",
	"Music Club",
	"Dance Troupe",
	"Basketball Club",
}

var mockCategories = []Slice{
	{Name: "Academic & Technology", Value: 4},
	{Name: "Culture & Arts", Value: 3},
	{Name: "Sports & Fitness", Value: 2},
	{Name: "Volunteer Service", Value: 2},
	{Name: "Other", Value: 1},
}

// PENDING is weighted three times
var mockStatuses = []string{
	models.ApplicationPending,
	models.ApplicationPending,
	models.ApplicationPending,
	models.ApplicationInterviewing,
	models.ApplicationApproved,
	models.ApplicationJoined,
}

// MockProvider generates placeholder data. The same seed yields the same sequence of snapshots.
type MockProvider struct {
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockProvider creates a seeded placeholder provider
func NewMockProvider(seed uint64) *MockProvider {
	return &MockProvider{
		now: time.Now,
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

func (p *MockProvider) Load(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	year := p.now().Year()

	activities := make([]ActivityPoint, 45)
	for i := range activities {
		activities[i] = ActivityPoint{
			ID:           int64(i + 1),
			Name:         fmt.Sprintf("Activity %d", i+1),
			ActivityTime: time.Date(year, time.Month(p.rng.IntN(12)+1), p.rng.IntN(28)+1, 0, 0, 0, 0, time.Local),
			Participants: p.rng.IntN(30) + 5,
		}
	}

	clubs := make([]ClubMetrics, len(mockClubNames))
	for i, name := range mockClubNames {
		clubs[i] = ClubMetrics{
			ID:               int64(i + 1),
			Name:             name,
			MemberCount:      p.rng.IntN(100) + 20,
			ActivityCount:    p.rng.IntN(10) + 1,
			AvgParticipation: p.rng.IntN(10) + 1,
			BudgetUsage:      p.rng.IntN(40) + 60,
			GrowthRate:       p.rng.Float64() * 0.5,
		}
	}

	applications := make([]ApplicationSample, 100)
	for i := range applications {
		applications[i] = ApplicationSample{
			ID:        int64(i + 1),
			StudentID: int64(1000 + i),
			Status:    mockStatuses[p.rng.IntN(len(mockStatuses))],
		}
	}

	return &Snapshot{
		Stats:        Stats{TotalClubs: 12, TotalActivities: 45, PendingApprovals: 8},
		Activities:   activities,
		Clubs:        clubs,
		Categories:   append([]Slice(nil), mockCategories...),
		Applications: applications,
		Gauge:        Gauge{Title: "Hottest activity sign-ups", Current: 85, Max: 100},
	}, nil
}
