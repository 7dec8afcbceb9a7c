package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/models"
)

// NewActivitiesCmd creates the activities command group
func NewActivitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity"},
		Short:   "Browse activities and manage your signups",
	}

	cmd.AddCommand(newActivitiesListCmd())
	cmd.AddCommand(newActivitiesShowCmd())
	cmd.AddCommand(newActivitiesMineCmd())
	cmd.AddCommand(newActivitiesSignupCmd())
	cmd.AddCommand(newActivitiesCancelCmd())

	return cmd
}

func newActivitiesListCmd() *cobra.Command {
	var q models.ActivityQuery

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List activities",
		Args:    cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runActivitiesList(ctx, e, q)
		}),
	}

	activityQueryFlags(cmd, &q)

	return cmd
}

func activityQueryFlags(cmd *cobra.Command, q *models.ActivityQuery) {
	cmd.Flags().StringVar(&q.Name, "name", "", "Filter by name")
	cmd.Flags().Int64Var(&q.ClubID, "club", 0, "Filter by club ID")
	cmd.Flags().StringVar(&q.Status, "status", "", "Filter by status (PENDING, PUBLISHED, REJECTED, CANCELLED, FINISHED)")
	pageFlags(cmd, &q.PageQuery)
}

func runActivitiesList(ctx context.Context, e *Env, q models.ActivityQuery) error {
	if err := e.open("/activities"); err != nil {
		return err
	}

	page, err := e.App.API.Activity.List(ctx, q)
	if err != nil {
		return err
	}

	return e.render(page, func(w io.Writer) {
		printActivities(w, page)
	})
}

func printActivities(w io.Writer, page *models.Page[models.Activity]) {
	if len(page.Records) == 0 {
		fmt.Fprintln(w, "No activities found")
		return
	}
	header(w, "ID", "NAME", "CLUB", "TIME", "LOCATION", "SEATS", "STATUS")
	for _, a := range page.Records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Name, orDash(a.ClubName), orDash(a.ActivityTime), orDash(a.Location), seats(a), a.Status)
	}
	pageFooter(w, page.Total, page.Current, page.Size)
}

func seats(a models.Activity) string {
	if a.MaxParticipants <= 0 {
		return fmt.Sprintf("%d", a.CurrentParticipants)
	}
	return fmt.Sprintf("%d/%d", a.CurrentParticipants, a.MaxParticipants)
}

func newActivitiesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <activity-id>",
		Short: "Show activity details",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			return runActivitiesShow(ctx, e, id)
		}),
	}
}

func runActivitiesShow(ctx context.Context, e *Env, id int64) error {
	if err := e.open(fmt.Sprintf("/activities/%d", id)); err != nil {
		return err
	}

	a, err := e.App.API.Activity.Detail(ctx, id)
	if err != nil {
		return err
	}

	return e.render(a, func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%d\n", a.ID)
		fmt.Fprintf(w, "Name:\t%s\n", a.Name)
		fmt.Fprintf(w, "Club:\t%s\n", orDash(a.ClubName))
		fmt.Fprintf(w, "Location:\t%s\n", orDash(a.Location))
		fmt.Fprintf(w, "Starts:\t%s\n", orDash(a.ActivityTime))
		fmt.Fprintf(w, "Ends:\t%s\n", orDash(a.EndTime))
		fmt.Fprintf(w, "Participants:\t%s\n", seats(*a))
		fmt.Fprintf(w, "Status:\t%s\n", a.Status)
		if a.Description != "" {
			fmt.Fprintf(w, "\n%s\n", a.Description)
		}
	})
}

func newActivitiesMineCmd() *cobra.Command {
	var q models.PageQuery

	cmd := &cobra.Command{
		Use:   "signups",
		Short: "List your activity signups",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runActivitiesMine(ctx, e, q)
		}),
	}
	pageFlags(cmd, &q)

	return cmd
}

func runActivitiesMine(ctx context.Context, e *Env, q models.PageQuery) error {
	if err := e.open("/my/signups"); err != nil {
		return err
	}

	page, err := e.App.API.Activity.MySignups(ctx, q)
	if err != nil {
		return err
	}

	return e.render(page, func(w io.Writer) {
		printSignups(w, page)
	})
}

func printSignups(w io.Writer, page *models.Page[models.Signup]) {
	if len(page.Records) == 0 {
		fmt.Fprintln(w, "No signups")
		return
	}
	header(w, "ID", "ACTIVITY", "USER", "STATUS", "SIGNED UP")
	for _, s := range page.Records {
		activity := s.ActivityName
		if activity == "" {
			activity = fmt.Sprint(s.ActivityID)
		}
		user := s.Username
		if user == "" {
			user = fmt.Sprint(s.UserID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.ID, activity, user, s.Status, orDash(s.SignupTime))
	}
	pageFooter(w, page.Total, page.Current, page.Size)
}

func newActivitiesSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup <activity-id>",
		Short: "Sign up for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			return runActivitiesSignup(ctx, e, id)
		}),
	}
}

func runActivitiesSignup(ctx context.Context, e *Env, id int64) error {
	if err := e.open(fmt.Sprintf("/activities/%d", id)); err != nil {
		return err
	}
	if err := e.App.API.Activity.Signup(ctx, id); err != nil {
		return err
	}
	return e.done("Signed up for activity %d", id)
}

func newActivitiesCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <activity-id>",
		Short: "Cancel your signup for an activity",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			return runActivitiesCancel(ctx, e, id)
		}),
	}
}

func runActivitiesCancel(ctx context.Context, e *Env, id int64) error {
	if err := e.open(fmt.Sprintf("/activities/%d", id)); err != nil {
		return err
	}
	if err := e.App.API.Activity.CancelSignup(ctx, id); err != nil {
		return err
	}
	return e.done("Signup for activity %d cancelled", id)
}
