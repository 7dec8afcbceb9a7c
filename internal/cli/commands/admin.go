package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/models"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform administration",
	}

	cmd.AddCommand(newAdminClubsCmd())
	cmd.AddCommand(newAdminActivitiesCmd())

	return cmd
}

func newAdminClubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clubs",
		Aliases: []string{"club"},
		Short:   "Create, update and delete clubs",
	}

	cmd.AddCommand(newAdminClubCreateCmd())
	cmd.AddCommand(newAdminClubUpdateCmd())
	cmd.AddCommand(newAdminClubDeleteCmd())
	cmd.AddCommand(newAdminLeaderCmd(true))
	cmd.AddCommand(newAdminLeaderCmd(false))
	cmd.AddCommand(newAdminApplicationsCmd())
	cmd.AddCommand(newAdminReviewApplicationCmd())

	return cmd
}

func newAdminClubCreateCmd() *cobra.Command {
	var form models.ClubForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a club",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runAdminClubCreate(ctx, e, form)
		}),
	}
	clubFormFlags(cmd, &form)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runAdminClubCreate(ctx context.Context, e *Env, form models.ClubForm) error {
	if err := e.open("/admin/clubs"); err != nil {
		return err
	}
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("invalid club: %w", err)
	}
	if err := e.App.API.Admin.CreateClub(ctx, form); err != nil {
		return err
	}
	return e.done("Club %q created", form.Name)
}

func newAdminClubUpdateCmd() *cobra.Command {
	var form models.ClubForm

	cmd := &cobra.Command{
		Use:   "update <club-id>",
		Short: "Update a club",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "club id")
			if err != nil {
				return err
			}
			return runAdminClubUpdate(ctx, e, id, form)
		}),
	}
	clubFormFlags(cmd, &form)

	return cmd
}

func runAdminClubUpdate(ctx context.Context, e *Env, id int64, form models.ClubForm) error {
	if err := e.open("/admin/clubs"); err != nil {
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

	if err := e.App.API.Admin.UpdateClub(ctx, form); err != nil {
		return err
	}
	return e.done("Club %d updated", id)
}

func newAdminClubDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <club-id>",
		Short: "Delete a club",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "club id")
			if err != nil {
				return err
			}
			if err := e.open("/admin/clubs"); err != nil {
				return err
			}
			if err := e.App.API.Admin.DeleteClub(ctx, id); err != nil {
				return err
			}
			return e.done("Club %d deleted", id)
		}),
	}
}

func newAdminLeaderCmd(assign bool) *cobra.Command {
	use, short := "leader <club-id> <user-id>", "Make a user the leader of a club"
	if !assign {
		use, short = "unleader <club-id> <user-id>", "Remove a user from the leaders of a club"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			clubID, err := parseID(args[0], "club id")
			if err != nil {
				return err
			}
			userID, err := parseID(args[1], "user id")
			if err != nil {
				return err
			}
			return runAdminLeader(ctx, e, assign, clubID, userID)
		}),
	}
}

func runAdminLeader(ctx context.Context, e *Env, assign bool, clubID, userID int64) error {
	if err := e.open("/admin/clubs"); err != nil {
		return err
	}

	if assign {
		if err := e.App.API.Admin.SetLeader(ctx, clubID, userID); err != nil {
			return err
		}
		return e.done("User %d now leads club %d", userID, clubID)
	}

	if err := e.App.API.Admin.RemoveLeader(ctx, clubID, userID); err != nil {
		return err
	}
	return e.done("User %d no longer leads club %d", userID, clubID)
}

func newAdminApplicationsCmd() *cobra.Command {
	var q models.PageQuery

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List pending club applications",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			if err := e.open("/admin/clubs"); err != nil {
				return err
			}
			page, err := e.App.API.Admin.PendingApplications(ctx, q)
			if err != nil {
				return err
			}
			return e.render(page, func(w io.Writer) {
				printApplications(w, page)
			})
		}),
	}
	pageFlags(cmd, &q)

	return cmd
}

func newAdminReviewApplicationCmd() *cobra.Command {
	var approve, reject bool
	var comment string

	cmd := &cobra.Command{
		Use:   "review <application-id>",
		Short: "Approve or reject a club application",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "application id")
			if err != nil {
				return err
			}
			if err := e.open("/admin/clubs"); err != nil {
				return err
			}
			req := models.ReviewRequest{ApplicationID: id, Approved: approve && !reject, Comment: comment}
			if err := e.App.API.Admin.ReviewApplication(ctx, req); err != nil {
				return err
			}
			return e.done("Application %d %s", id, verdict(req.Approved))
		}),
	}
	reviewFlags(cmd, &approve, &reject, &comment)

	return cmd
}

func newAdminActivitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"activity"},
		Short:   "Review and remove activities",
	}

	cmd.AddCommand(newAdminActivitiesListCmd())
	cmd.AddCommand(newAdminActivityReviewCmd())
	cmd.AddCommand(newAdminActivityDeleteCmd())

	return cmd
}

func newAdminActivitiesListCmd() *cobra.Command {
	var q models.ActivityQuery

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all activities",
		Args:    cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			if err := e.open("/admin/activities"); err != nil {
				return err
			}
			page, err := e.App.API.Admin.Activities(ctx, q)
			if err != nil {
				return err
			}
			return e.render(page, func(w io.Writer) {
				printActivities(w, page)
			})
		}),
	}
	activityQueryFlags(cmd, &q)

	return cmd
}

func newAdminActivityReviewCmd() *cobra.Command {
	var approve, reject bool
	var comment string

	cmd := &cobra.Command{
		Use:   "review <activity-id>",
		Short: "Publish or reject a pending activity",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			return runAdminActivityReview(ctx, e, id, models.ActivityReview{Approved: approve && !reject, Comment: comment})
		}),
	}
	reviewFlags(cmd, &approve, &reject, &comment)

	return cmd
}

func runAdminActivityReview(ctx context.Context, e *Env, id int64, review models.ActivityReview) error {
	if err := e.open("/admin/activities"); err != nil {
		return err
	}
	if err := e.App.API.Admin.ReviewActivity(ctx, id, review); err != nil {
		return err
	}
	return e.done("Activity %d %s", id, verdict(review.Approved))
}

func newAdminActivityDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <activity-id>",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "activity id")
			if err != nil {
				return err
			}
			if err := e.open("/admin/activities"); err != nil {
				return err
			}
			if err := e.App.API.Admin.DeleteActivity(ctx, id); err != nil {
				return err
			}
			return e.done("Activity %d deleted", id)
		}),
	}
}
