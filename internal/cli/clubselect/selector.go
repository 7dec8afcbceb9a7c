package clubselect

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/manifoldco/promptui"

	"github.com/clubdesk/console/internal/cli/userconfig"
	"github.com/clubdesk/console/internal/models"
)

// ClubLookup fetches club details for labels
type ClubLookup interface {
	Detail(ctx context.Context, id int64) (*models.Club, error)
}

// Warnings receives non-fatal problems; stdout stays reserved for command output
var Warnings io.Writer = os.Stderr

var saveSelection = userconfig.SetSelectedClub

// Prompter picks one club; PromptClubSelection in production
type Prompter func(clubs []models.Club) (*models.Club, error)

// ResolveClub determines which club club-admin commands act on:
// 1. If clubID flag is provided, use that club
// 2. If user has a selected club in their local config that they still manage, use that
// 3. If the user manages only one club, use it
// 4. Otherwise, prompt user to select a club interactively
// Club admins are limited to the clubs they manage; admins may name any club.
func ResolveClub(ctx context.Context, info *models.UserInfo, clubID int64, lookup ClubLookup, prompt Prompter) (int64, error) {
	if info == nil {
		return 0, fmt.Errorf("no profile loaded, run 'clubctl login' first")
	}
	admin := info.Role == models.RoleAdmin

	// Priority 1: flag
	if clubID > 0 {
		if !admin && !slices.Contains(info.ManagedClubIDs, clubID) {
			return 0, fmt.Errorf("you do not manage club %d", clubID)
		}
		return clubID, nil
	}

	// Priority 2: selected club from user config
	selected, err := userconfig.SelectedClub()
	if err != nil {
		return 0, fmt.Errorf("failed to load user config: %w", err)
	}
	if selected > 0 {
		if admin || slices.Contains(info.ManagedClubIDs, selected) {
			return selected, nil
		}
		// Selected club is no longer managed, clear it and continue
		if err := saveSelection(0); err != nil {
			fmt.Fprintf(Warnings, "Warning: failed to clear selected club %d: %v\n", selected, err)
		}
	}

	switch len(info.ManagedClubIDs) {
	case 0:
		return 0, fmt.Errorf("no club selected, pass --club or run 'clubctl select-club <id>'")
	case 1:
		// Priority 3: only one club
		id := info.ManagedClubIDs[0]
		if err := saveSelection(id); err != nil {
			fmt.Fprintf(Warnings, "Warning: failed to save selected club: %v\n", err)
		}
		return id, nil
	}

	// Priority 4: prompt
	clubs, err := ManagedClubs(ctx, info, lookup)
	if err != nil {
		return 0, err
	}
	club, err := prompt(clubs)
	if err != nil {
		return 0, err
	}

	if err := saveSelection(club.ID); err != nil {
		fmt.Fprintf(Warnings, "Warning: failed to save selected club: %v\n", err)
	}
	return club.ID, nil
}

// ManagedClubs loads the clubs the user manages. Clubs that fail to load keep a bare label.
func ManagedClubs(ctx context.Context, info *models.UserInfo, lookup ClubLookup) ([]models.Club, error) {
	clubs := make([]models.Club, 0, len(info.ManagedClubIDs))
	for _, id := range info.ManagedClubIDs {
		club, err := lookup.Detail(ctx, id)
		if err != nil {
			clubs = append(clubs, models.Club{ID: id, Name: fmt.Sprintf("club %d", id)})
			continue
		}
		clubs = append(clubs, *club)
	}
	return clubs, nil
}

// PromptClubSelection shows an interactive prompt for the user to select a club
func PromptClubSelection(clubs []models.Club) (*models.Club, error) {
	if len(clubs) == 0 {
		return nil, fmt.Errorf("you do not manage any club")
	}

	// Create display labels for each club
	type clubOption struct {
		Label string
		Club  *models.Club
	}

	options := make([]clubOption, len(clubs))
	for i := range clubs {
		club := &clubs[i]
		options[i] = clubOption{
			Label: fmt.Sprintf("%s (#%d, %s)", club.Name, club.ID, club.Category),
			Club:  club,
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label }}",
		Selected: "{{ .Label | green }}",
	}

	prompt := promptui.Select{
		Label:     "Select a club",
		Items:     options,
		Templates: templates,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("club selection cancelled: %w", err)
	}

	return options[index].Club, nil
}
