package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/cli/clubselect"
	"github.com/clubdesk/console/internal/cli/userconfig"
)

// NewSelectClubCmd creates the select-club command
func NewSelectClubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select-club [club-id]",
		Short: "Select the club club-admin commands act on",
		Long: `Select the club club-admin commands act on.

Without an argument you pick one of the clubs you manage interactively.
Pass 0 to clear the selection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			if len(args) == 0 {
				return runSelectClub(ctx, e, -1)
			}
			if args[0] == "0" {
				return runSelectClub(ctx, e, 0)
			}
			id, err := parseID(args[0], "club id")
			if err != nil {
				return err
			}
			return runSelectClub(ctx, e, id)
		}),
	}

	return cmd
}

// runSelectClub saves id; a negative id prompts and zero clears
func runSelectClub(ctx context.Context, e *Env, id int64) error {
	if err := e.open("/club-admin/info"); err != nil {
		return err
	}

	if id == 0 {
		if err := userconfig.SetSelectedClub(0); err != nil {
			return fmt.Errorf("failed to save selected club: %w", err)
		}
		return e.done("Club selection cleared")
	}

	info, err := e.App.Session.FetchProfile(ctx)
	if err != nil {
		return err
	}

	if id < 0 {
		clubs, err := clubselect.ManagedClubs(ctx, info, e.App.API.Club)
		if err != nil {
			return err
		}
		club, err := e.Prompt(clubs)
		if err != nil {
			return err
		}
		id = club.ID
	} else if id, err = clubselect.ResolveClub(ctx, info, id, e.App.API.Club, e.Prompt); err != nil {
		return err
	}

	if err := userconfig.SetSelectedClub(id); err != nil {
		return fmt.Errorf("failed to save selected club: %w", err)
	}
	return e.done("Selected club %d", id)
}
