package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/dashboard"
	"github.com/clubdesk/console/internal/router"
)

// dashboardView is the workbench in one document
type dashboardView struct {
	Stats        dashboard.Stats        `json:"stats" yaml:"stats"`
	Gauge        dashboard.Gauge        `json:"gauge" yaml:"gauge"`
	Funnel       []dashboard.Stage      `json:"funnel" yaml:"funnel"`
	Distribution []dashboard.Slice      `json:"distribution" yaml:"distribution"`
	Months       []dashboard.MonthPoint `json:"months" yaml:"months"`
}

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show the workbench statistics",
		Args:    cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runDashboard(ctx, e)
		}),
	}
}

func runDashboard(ctx context.Context, e *Env) error {
	if err := e.open(router.PathDashboard); err != nil {
		return err
	}

	d := e.App.Dashboard
	var view dashboardView
	var err error

	if view.Stats, err = d.LoadStats(ctx); err != nil {
		return err
	}
	if view.Gauge, err = d.Gauge(ctx); err != nil {
		return err
	}
	if view.Funnel, err = d.Funnel(ctx); err != nil {
		return err
	}
	if view.Distribution, err = d.Distribution(ctx); err != nil {
		return err
	}
	if view.Months, err = d.TimeSeries(ctx); err != nil {
		return err
	}

	return e.render(view, func(w io.Writer) {
		fmt.Fprintf(w, "Clubs:\t%d\n", view.Stats.TotalClubs)
		fmt.Fprintf(w, "Activities:\t%d\n", view.Stats.TotalActivities)
		fmt.Fprintf(w, "Pending approvals:\t%d\n", view.Stats.PendingApprovals)
		fmt.Fprintf(w, "%s:\t%d/%d (%.0f%%)\n", view.Gauge.Title, view.Gauge.Current, view.Gauge.Max, view.Gauge.Percent)

		fmt.Fprintln(w)
		header(w, "STAGE", "APPLICATIONS")
		for _, s := range view.Funnel {
			fmt.Fprintf(w, "%s\t%d\n", s.Status, s.Count)
		}

		fmt.Fprintln(w)
		header(w, "CATEGORY", "CLUBS")
		for _, s := range view.Distribution {
			fmt.Fprintf(w, "%s\t%d\n", s.Name, s.Value)
		}

		fmt.Fprintln(w)
		header(w, "MONTH", "ACTIVITIES", "PARTICIPANTS")
		for _, m := range view.Months {
			fmt.Fprintf(w, "%s\t%d\t%d\n", m.Month.String()[:3], m.Activities, m.Participants)
		}
		fmt.Fprintf(w, "\nLoaded %s\n", d.LoadedAt().Local().Format(time.DateTime))
	})
}
