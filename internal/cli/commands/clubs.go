package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/models"
)

// NewClubsCmd creates the clubs command group
func NewClubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "clubs",
		Aliases: []string{"club"},
		Short:   "Browse clubs and manage your memberships",
	}

	cmd.AddCommand(newClubsListCmd())
	cmd.AddCommand(newClubsShowCmd())
	cmd.AddCommand(newClubsMembersCmd())
	cmd.AddCommand(newClubsMineCmd())
	cmd.AddCommand(newClubsApplyCmd())
	cmd.AddCommand(newClubsApplicationsCmd())

	return cmd
}

func newClubsListCmd() *cobra.Command {
	var q models.ClubQuery

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clubs",
		Args:    cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runClubsList(ctx, e, q)
		}),
	}

	cmd.Flags().StringVar(&q.Name, "name", "", "Filter by name")
	cmd.Flags().StringVar(&q.Category, "category", "", "Filter by category")
	pageFlags(cmd, &q.PageQuery)

	return cmd
}

func runClubsList(ctx context.Context, e *Env, q models.ClubQuery) error {
	if err := e.open("/clubs"); err != nil {
		return err
	}

	page, err := e.App.API.Club.List(ctx, q)
	if err != nil {
		return err
	}

	return e.render(page, func(w io.Writer) {
		printClubs(w, page.Records)
		pageFooter(w, page.Total, page.Current, page.Size)
	})
}

func printClubs(w io.Writer, clubs []models.Club) {
	if len(clubs) == 0 {
		fmt.Fprintln(w, "No clubs found")
		return
	}
	header(w, "ID", "NAME", "CATEGORY", "LEADER", "MEMBERS")
	for _, c := range clubs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", c.ID, c.Name, c.Category, orDash(c.LeaderName), c.MemberCount)
	}
}

func newClubsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <club-id>",
		Short: "Show club details",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "club id")
			if err != nil {
				return err
			}
			return runClubsShow(ctx, e, id)
		}),
	}
}

func runClubsShow(ctx context.Context, e *Env, id int64) error {
	if err := e.open(fmt.Sprintf("/clubs/%d", id)); err != nil {
		return err
	}

	club, err := e.App.API.Club.Detail(ctx, id)
	if err != nil {
		return err
	}

	return e.render(club, func(w io.Writer) {
		fmt.Fprintf(w, "ID:\t%d\n", club.ID)
		fmt.Fprintf(w, "Name:\t%s\n", club.Name)
		fmt.Fprintf(w, "Category:\t%s\n", club.Category)
		fmt.Fprintf(w, "Leader:\t%s\n", orDash(club.LeaderName))
		fmt.Fprintf(w, "Members:\t%d\n", club.MemberCount)
		fmt.Fprintf(w, "Status:\t%s\n", orDash(club.Status))
		fmt.Fprintf(w, "Created:\t%s\n", orDash(club.CreateTime))
		if club.Description != "" {
			fmt.Fprintf(w, "\n%s\n", club.Description)
		}
	})
}

func newClubsMembersCmd() *cobra.Command {
	var q models.PageQuery

	cmd := &cobra.Command{
		Use:   "members <club-id>",
		Short: "List the members of a club",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "club id")
			if err != nil {
				return err
			}
			return runClubsMembers(ctx, e, id, q)
		}),
	}
	pageFlags(cmd, &q)

	return cmd
}

func runClubsMembers(ctx context.Context, e *Env, id int64, q models.PageQuery) error {
	if err := e.open(fmt.Sprintf("/clubs/%d", id)); err != nil {
		return err
	}

	page, err := e.App.API.Club.Members(ctx, id, q)
	if err != nil {
		return err
	}

	return e.render(page, func(w io.Writer) {
		if len(page.Records) == 0 {
			fmt.Fprintln(w, "No members yet")
			return
		}
		header(w, "USER", "USERNAME", "NAME", "POSITION", "JOINED")
		for _, m := range page.Records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.UserID, m.Username, orDash(m.RealName), orDash(m.Position), orDash(m.JoinTime))
		}
		pageFooter(w, page.Total, page.Current, page.Size)
	})
}

func newClubsMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the clubs you belong to",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runClubsMine(ctx, e)
		}),
	}
}

func runClubsMine(ctx context.Context, e *Env) error {
	if err := e.open("/my/clubs"); err != nil {
		return err
	}

	clubs, err := e.App.API.Club.Mine(ctx)
	if err != nil {
		return err
	}

	return e.render(clubs, func(w io.Writer) {
		printClubs(w, clubs)
	})
}

func newClubsApplyCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "apply <club-id>",
		Short: "Apply to join a club",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			id, err := parseID(args[0], "club id")
			if err != nil {
				return err
			}
			return runClubsApply(ctx, e, models.ApplyRequest{ClubID: id, Reason: reason})
		}),
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why you want to join")

	return cmd
}

func runClubsApply(ctx context.Context, e *Env, req models.ApplyRequest) error {
	if err := e.open(fmt.Sprintf("/clubs/%d", req.ClubID)); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid application: %w", err)
	}

	if err := e.App.API.Club.Apply(ctx, req); err != nil {
		return err
	}
	return e.done("Application to club %d submitted", req.ClubID)
}

func newClubsApplicationsCmd() *cobra.Command {
	var q models.PageQuery

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "List your membership applications",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runClubsApplications(ctx, e, q)
		}),
	}
	pageFlags(cmd, &q)

	return cmd
}

func runClubsApplications(ctx context.Context, e *Env, q models.PageQuery) error {
	if err := e.open("/my/applications"); err != nil {
		return err
	}

	page, err := e.App.API.Club.MyApplications(ctx, q)
	if err != nil {
		return err
	}

	return e.render(page, func(w io.Writer) {
		printApplications(w, page)
	})
}

func printApplications(w io.Writer, page *models.Page[models.Application]) {
	if len(page.Records) == 0 {
		fmt.Fprintln(w, "No applications")
		return
	}
	header(w, "ID", "CLUB", "APPLICANT", "STATUS", "REASON", "SUBMITTED")
	for _, a := range page.Records {
		club := a.ClubName
		if club == "" {
			club = fmt.Sprint(a.ClubID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", a.ID, club, orDash(a.Username), a.Status, orDash(a.Reason), orDash(a.CreateTime))
	}
	pageFooter(w, page.Total, page.Current, page.Size)
}
