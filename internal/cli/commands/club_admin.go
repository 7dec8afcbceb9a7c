package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/cli/clubselect"
	"github.com/clubdesk/console/internal/models"
)

// club resolves the club a club-admin command acts on
func (e *Env) club(ctx context.Context, flag int64) (int64, error) {
	info := e.App.Session.UserInfo()
	if info == nil {
		var err error
		if info, err = e.App.Session.FetchProfile(ctx); err != nil {
			return 0, err
		}
	}
	return clubselect.ResolveClub(ctx, info, flag, e.App.API.Club, e.Prompt)
}

// NewClubAdminCmd creates the club-admin command group
func NewClubAdminCmd() *cobra.Command {
	var clubID int64

	cmd := &cobra.Command{
		Use:   "club-admin",
		Short: "Manage the clubs you lead",
		Long: `Manage the clubs you lead.

The club is taken from --club, then from 'clubctl select-club', then from your
only managed club. With several clubs and no selection you will be prompted.`,
	}
	cmd.PersistentFlags().Int64Var(&clubID, "club", 0, "Club ID to act on")

	cmd.AddCommand(newClubInfoCmd(&clubID))
	cmd.AddCommand(newClubUpdateCmd(&clubID))
	cmd.AddCommand(newClubMembersCmd(&clubID))
	cmd.AddCommand(newClubApplicationsCmd(&clubID))
	cmd.AddCommand(newClubReviewCmd(&clubID))
	cmd.AddCommand(newManagedActivitiesCmd(&clubID))

	return cmd
}

func newClubInfoCmd(clubID *int64) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the managed club",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			if err := e.open("/club-admin/info"); err != nil {
				return err
			}
			id, err := e.club(ctx, *clubID)
			if err != nil {
				return err
			}
			return runClubsShowDetail(ctx, e, id)
		}),
	}
}

// runClubsShowDetail prints a club without re-running the member guard
func runClubsShowDetail(ctx context.Context, e *Env, id int64) error {
	club, err := e.App.API.Club.Detail(ctx, id)
	if err != nil {
		return err
	}
	return e.render(club, func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%d\n", club.ID)
		fmt.Fprintf(w, "Name:\t%s\n", club.Name)
		fmt.Fprintf(w, "Category:\t%s\n", club.Category)
		fmt.Fprintf(w, "Members:\t%d\n", club.MemberCount)
		fmt.Fprintf(w, "Description:\t%s\n", orDash(club.Description))
		fmt.Fprintf(w, "Logo:\t%s\n", orDash(club.Logo))
	})
}

func clubFormFlags(cmd *cobra.Command, form *models.ClubForm) {
	cmd.Flags().StringVar(&form.Name, "name", "", "Club name")
	cmd.Flags().StringVar(&form.Category, "category", "", "Club category")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&form.Logo, "logo", "", "Logo URL")
}

// mergeClub fills the fields left empty in form from the current club
func mergeClub(form models.ClubForm, current *models.Club) models.ClubForm {
	form.ID = current.ID
	if form.Name == "" {
		form.Name = current.Name
	}
	if form.Category == "" {
		form.Category = current.Category
	}
	if form.Description == "" {
		form.Description = current.Description
	}
	if form.Logo == "" {
		form.Logo = current.Logo
	}
	return form
}

func newClubUpdateCmd(clubID *int64) *cobra.Command {
	var form models.ClubForm

	cmd := &cobra.Command{
		Use:     "update",
		Aliases: []string{"update-club"},
		Short:   "Update the managed club",
		Args:    cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runClubUpdate(ctx, e, *clubID, form)
		}),
	}
	clubFormFlags(cmd, &form)

	return cmd
}

func runClubUpdate(ctx context.Context, e *Env, flag int64, form models.ClubForm) error {
	if err := e.open("/club-admin/info"); err != nil {
		return err
	}
	id, err := e.club(ctx, flag)
	if err != nil {
		return err
	}

	current, err := e.App.API.Club.Detail(ctx, id)
	if err != nil {
		return err
	}
	form = mergeClub(form, current)
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("invalid club: %w", err)
	}

	if err := e.App.API.ClubAdmin.UpdateClub(ctx, id, form); err != nil {
		return err
	}
	return e.done("Club %d updated", id)
}

func newClubMembersCmd(clubID *int64) *cobra.Command {
	var q models.PageQuery

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the members of the managed club",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			if err := e.open("/club-admin/members"); err != nil {
				return err
			}
			id, err := e.club(ctx, *clubID)
			if err != nil {
				return err
			}
			return runClubsMembers(ctx, e, id, q)
		}),
	}
	pageFlags(cmd, &q)

	return cmd
}

func newClubApplicationsCmd(clubID *int64) *cobra.Command {
	var q models.PageQuery

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List pending applications to the managed club",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runClubApplications(ctx, e, *clubID, q)
		}),
	}
	pageFlags(cmd, &q)

	return cmd
}

func runClubApplications(ctx context.Context, e *Env, flag int64, q models.PageQuery) error {
	if err := e.open("/club-admin/members"); err != nil {
		return err
	}
	id, err := e.club(ctx, flag)
	if err != nil {
		return err
	}

	page, err := e.App.API.ClubAdmin.PendingApplications(ctx, id, q)
	if err != nil {
		return err
	}
	return e.render(page, func(w io.Writer) {
		printApplications(w, page)
	})
}

func newClubReviewCmd(clubID *int64) *cobra.Command {
	var approve, reject bool
	var comment string

	cmd := &cobra.Command{
		Use:   "review <application-id>",
		Short: "Approve or reject an application to the managed club",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			appID, err := parseID(args[0], "application id")
			if err != nil {
				return err
			}
			req := models.ReviewRequest{ApplicationID: appID, Approved: approve && !reject, Comment: comment}
			return runClubReview(ctx, e, *clubID, req)
		}),
	}
	reviewFlags(cmd, &approve, &reject, &comment)

	return cmd
}

func runClubReview(ctx context.Context, e *Env, flag int64, req models.ReviewRequest) error {
	if err := e.open("/club-admin/members"); err != nil {
		return err
	}
	id, err := e.club(ctx, flag)
	if err != nil {
		return err
	}

	if err := e.App.API.ClubAdmin.ReviewApplication(ctx, id, req); err != nil {
		return err
	}
	return e.done("Application %d %s", req.ApplicationID, verdict(req.Approved))
}

func verdict(approved bool) string {
	if approved {
		return "approved"
	}
	return "rejected"
}

func newManagedActivitiesCmd(clubID *int64) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity"},
		Short:   "Manage the activities of the managed club",
	}

	cmd.AddCommand(newManagedActivitiesListCmd(clubID))
	cmd.AddCommand(newActivityCreateCmd(clubID))
	cmd.AddCommand(newActivityUpdateCmd(clubID))
	cmd.AddCommand(newActivityCancelCmd())
	cmd.AddCommand(newActivitySignupsCmd())
	cmd.AddCommand(newActivityCheckinCmd())

	return cmd
}

func newManagedActivitiesListCmd(clubID *int64) *cobra.Command {
	var q models.ActivityQuery

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the activities of the managed club",
		Args:    cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			if err := e.open("/club-admin/activities"); err != nil {
				return err
			}
			id, err := e.club(ctx, *clubID)
			if err != nil {
				return err
			}
			q.ClubID = id
			page, err := e.App.API.Activity.List(ctx, q)
			if err != nil {
				return err
			}
			return e.render(page, func(w io.Writer) {
				printActivities(w, page)
			})
		}),
	}
	cmd.Flags().StringVar(&q.Status, "status", "", "Filter by status")
	pageFlags(cmd, &q.PageQuery)

	return cmd
}

func activityFormFlags(cmd *cobra.Command, form *models.ActivityForm) {
	cmd.Flags().StringVar(&form.Name, "name", "", "Activity name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&form.Location, "location", "", "Location")
	cmd.Flags().StringVar(&form.ActivityTime, "time", "", "Start time (e.g. 2026-05-01 14:00:00)")
	cmd.Flags().StringVar(&form.EndTime, "end", "", "End time")
	cmd.Flags().IntVar(&form.MaxParticipants, "max", 0, "Maximum participants, 0 for unlimited")
}

func newActivityCreateCmd(clubID *int64) *cobra.Command {
	var form models.ActivityForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an activity; it is published after review",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runActivityCreate(ctx, e, *clubID, form)
		}),
	}
	activityFormFlags(cmd, &form)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func runActivityCreate(ctx context.Context, e *Env, flag int64, form models.ActivityForm) error {
	if err := e.open("/club-admin/activities"); err != nil {
		return err
	}
	id, err := e.club(ctx, flag)
	if err != nil {
		return err
	}
	form.ClubID = id
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}

	if err := e.App.API.ClubAdmin.CreateActivity(ctx, form); err != nil {
		return err
	}
	return e.done("Activity %q created, waiting for review", form.Name)
}

func newActivityUpdateCmd(clubID *int64) *cobra.Command {
	var form models.ActivityForm

	cmd := &cobra.Command{
		Use:   "update <activity-id>",
		Short: "Update an activity",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			return runActivityUpdate(ctx, e, *clubID, id, form)
		}),
	}
	activityFormFlags(cmd, &form)

	return cmd
}

func runActivityUpdate(ctx context.Context, e *Env, flag, id int64, form models.ActivityForm) error {
	if err := e.open("/club-admin/activities"); err != nil {
		return err
	}

	current, err := e.App.API.Activity.Detail(ctx, id)
	if err != nil {
		return err
	}
	if flag == 0 {
		flag = current.ClubID
	}
	clubID, err := e.club(ctx, flag)
	if err != nil {
		return err
	}
	if clubID != current.ClubID {
		return fmt.Errorf("activity %d does not belong to club %d", id, clubID)
	}

	form.ClubID = clubID
	if form.Name == "" {
		form.Name = current.Name
	}
	if form.Description == "" {
		form.Description = current.Description
	}
	if form.Location == "" {
		form.Location = current.Location
	}
	if form.ActivityTime == "" {
		form.ActivityTime = current.ActivityTime
	}
	if form.EndTime == "" {
		form.EndTime = current.EndTime
	}
	if form.MaxParticipants == 0 {
		form.MaxParticipants = current.MaxParticipants
	}
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("invalid activity: %w", err)
	}

	if err := e.App.API.ClubAdmin.UpdateActivity(ctx, id, form); err != nil {
		return err
	}
	return e.done("Activity %d updated", id)
}

func newActivityCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <activity-id>",
		Short: "Cancel an activity",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			if err := e.open("/club-admin/activities"); err != nil {
				return err
			}
			if err := e.App.API.ClubAdmin.CancelActivity(ctx, id); err != nil {
				return err
			}
			return e.done("Activity %d cancelled", id)
		}),
	}
}

func newActivitySignupsCmd() *cobra.Command {
	var q models.PageQuery

	cmd := &cobra.Command{
		Use:   "signups <activity-id>",
		Short: "List the signups of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			if err := e.open("/club-admin/activities"); err != nil {
				return err
			}
			page, err := e.App.API.ClubAdmin.Signups(ctx, id, q)
			if err != nil {
				return err
			}
			return e.render(page, func(w io.Writer) {
				printSignups(w, page)
			})
		}),
	}
	pageFlags(cmd, &q)

	return cmd
}

func newActivityCheckinCmd() *cobra.Command {
	var req models.CheckinRequest

	cmd := &cobra.Command{
		Use:   "checkin <activity-id>",
		Short: "Record attendance for a participant",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			return runActivityCheckin(ctx, e, id, req)
		}),
	}
	cmd.Flags().Int64Var(&req.UserID, "user", 0, "User ID of the participant")
	cmd.Flags().BoolVar(&req.Absent, "absent", false, "Mark the participant absent")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runActivityCheckin(ctx context.Context, e *Env, id int64, req models.CheckinRequest) error {
	if err := e.open("/club-admin/activities"); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid check-in: %w", err)
	}
	if err := e.App.API.ClubAdmin.Checkin(ctx, id, req); err != nil {
		return err
	}
	if req.Absent {
		return e.done("User %d marked absent", req.UserID)
	}
	return e.done("User %d checked in", req.UserID)
}
