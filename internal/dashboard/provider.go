package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/clubdesk/console/internal/models"
)

// pageSize is large enough to pull every record the dashboard aggregates
const pageSize = 1000

type ClubLister interface {
	List(ctx context.Context, q models.ClubQuery) (*models.Page[models.Club], error)
}

type ActivityLister interface {
	List(ctx context.Context, q models.ActivityQuery) (*models.Page[models.Activity], error)
}

type ApplicationLister interface {
	PendingApplications(ctx context.Context, q models.PageQuery) (*models.Page[models.Application], error)
}

// APIProvider builds the snapshot from the club and activity endpoints.
// Pending applications are only read when Applications is set and CanReview allows it.
type APIProvider struct {
	Clubs        ClubLister
	Activities   ActivityLister
	Applications ApplicationLister
	CanReview    func() bool
}

func (p *APIProvider) Load(ctx context.Context) (*Snapshot, error) {
	clubs, err := p.Clubs.List(ctx, models.ClubQuery{PageQuery: models.PageQuery{PageNum: 1, PageSize: pageSize}})
	if err != nil {
		return nil, err
	}

	activities, err := p.Activities.List(ctx, models.ActivityQuery{PageQuery: models.PageQuery{PageNum: 1, PageSize: pageSize}})
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Stats: Stats{
			TotalClubs:      clubs.Total,
			TotalActivities: activities.Total,
		},
		Categories: categories(clubs.Records),
	}

	perClub := make(map[int64][]models.Activity)
	var hottest *models.Activity
	for i := range activities.Records {
		act := &activities.Records[i]
		snap.Activities = append(snap.Activities, ActivityPoint{
			ID:           act.ID,
			Name:         act.Name,
			ClubID:       act.ClubID,
			ActivityTime: parseTime(act.ActivityTime),
			Participants: act.CurrentParticipants,
		})
		perClub[act.ClubID] = append(perClub[act.ClubID], *act)

		if act.MaxParticipants > 0 && (hottest == nil || fill(act) > fill(hottest)) {
			hottest = act
		}
	}
	if hottest != nil {
		snap.Gauge = Gauge{Title: hottest.Name, Current: hottest.CurrentParticipants, Max: hottest.MaxParticipants}
	}

	for _, c := range clubs.Records {
		m := ClubMetrics{ID: c.ID, Name: c.Name, MemberCount: c.MemberCount}
		acts := perClub[c.ID]
		m.ActivityCount = len(acts)
		if len(acts) > 0 {
			total := 0
			for _, a := range acts {
				total += a.CurrentParticipants
			}
			m.AvgParticipation = total / len(acts)
		}
		snap.Clubs = append(snap.Clubs, m)
	}

	if p.Applications != nil && (p.CanReview == nil || p.CanReview()) {
		pending, err := p.Applications.PendingApplications(ctx, models.PageQuery{PageNum: 1, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		snap.Stats.PendingApprovals = pending.Total
		for _, app := range pending.Records {
			snap.Applications = append(snap.Applications, ApplicationSample{ID: app.ID, StudentID: app.StudentID, Status: app.Status})
		}
	}

	return snap, nil
}

func fill(a *models.Activity) float64 {
	return float64(a.CurrentParticipants) / float64(a.MaxParticipants)
}

// categories counts clubs per category, largest first
func categories(clubs []models.Club) []Slice {
	counts := make(map[string]int)
	for _, c := range clubs {
		name := c.Category
		if name == "" {
			name = "Other"
		}
		counts[name]++
	}

	slices := make([]Slice, 0, len(counts))
	for name, n := range counts {
		slices = append(slices, Slice{Name: name, Value: n})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Name < slices[j].Name
	})
	return slices
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
