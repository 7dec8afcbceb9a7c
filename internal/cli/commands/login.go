package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/router"
	"github.com/clubdesk/console/internal/tokenstore"
)

type loginOptions struct {
	username string
	password string
	force    bool
	// readPassword prompts when no password was given
	readPassword func() (string, error)
}

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var opts loginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the club platform",
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			opts.readPassword = readPasswordFromTerminal
			return runLogin(ctx, e, opts)
		}),
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "Username (or set CLUB_USERNAME)")
	cmd.Flags().StringVar(&opts.password, "password", "", "Password (or set CLUB_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Log in again even if a session exists")

	return cmd
}

func runLogin(ctx context.Context, e *Env, opts loginOptions) error {
	// Check for environment variables (useful for CI/CD)
	if opts.username == "" {
		opts.username = os.Getenv("CLUB_USERNAME")
	}
	if opts.password == "" {
		opts.password = os.Getenv("CLUB_PASSWORD")
	}

	if opts.username == "" {
		return fmt.Errorf("username is required (use --username flag or CLUB_USERNAME env var)")
	}

	_, decision := e.App.Router.Push(router.PathLogin)
	if decision.Outcome == router.RedirectAlreadyLoggedIn && !opts.force {
		name := "another user"
		if info := e.App.Session.UserInfo(); info != nil {
			name = info.Username
		}
		return fmt.Errorf("already logged in as %s, run 'clubctl logout' first or pass --force", name)
	}

	if opts.password == "" {
		if opts.readPassword == nil {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or CLUB_PASSWORD env var)")
		}
		password, err := opts.readPassword()
		if err != nil {
			return err
		}
		opts.password = password
	}

	creds := models.Credentials{Username: opts.username, Password: opts.password}
	if err := validate.Struct(creds); err != nil {
		return fmt.Errorf("invalid credentials: %w", err)
	}

	if e.Format == FormatTable {
		fmt.Fprintf(e.Out, "Logging in to %s as %s...\n", e.App.Client.BaseURL(), opts.username)
	}

	result, err := e.App.Session.Login(ctx, creds)
	if err != nil {
		// Login is silent, so the failure is printed here
		return fmt.Errorf("login failed: %s", err)
	}
	e.App.Router.Navigate(router.PathDashboard)

	info := result.UserInfo
	return e.render(info, func(w io.Writer) {
		fmt.Fprintln(w, "✓ Login successful!")
		if info == nil {
			return
		}
		fmt.Fprintf(w, "  User:\t%s\n", displayName(info))
		fmt.Fprintf(w, "  Role:\t%s\n", info.Role)
	})
}

func readPasswordFromTerminal() (string, error) {
	// Check if stdin is a terminal (not piped)
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or CLUB_PASSWORD env var)")
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored token",
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runLogout(e)
		}),
	}
}

func runLogout(e *Env) error {
	if err := e.App.Session.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	e.App.Router.Navigate(router.PathLogin)
	return e.done("Logged out")
}

type whoami struct {
	User         *models.UserInfo `json:"user" yaml:"user"`
	TokenExpires *time.Time       `json:"tokenExpires,omitempty" yaml:"tokenExpires,omitempty"`
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runWhoami(ctx, e)
		}),
	}
}

func runWhoami(ctx context.Context, e *Env) error {
	if err := e.open("/profile"); err != nil {
		return err
	}

	info, err := e.App.Session.FetchProfile(ctx)
	if err != nil {
		return err
	}

	out := whoami{User: info}
	if claims, ok := tokenstore.Inspect(tokenstore.Token(e.App.Tokens)); ok && !claims.ExpiresAt.IsZero() {
		out.TokenExpires = &claims.ExpiresAt
	}

	return e.render(out, func(w io.Writer) {
		fmt.Fprintf(w, "Username:\t%s\n", info.Username)
		fmt.Fprintf(w, "Name:\t%s\n", orDash(info.RealName))
		fmt.Fprintf(w, "Role:\t%s\n", info.Role)
		fmt.Fprintf(w, "Student ID:\t%s\n", orDash(info.StudentID))
		fmt.Fprintf(w, "Email:\t%s\n", orDash(info.Email))
		if len(info.ManagedClubIDs) > 0 {
			fmt.Fprintf(w, "Managed clubs:\t%s\n", joinIDs(info.ManagedClubIDs))
		}
		if out.TokenExpires != nil {
			fmt.Fprintf(w, "Token expires:\t%s\n", out.TokenExpires.Local().Format(time.DateTime))
		}
	})
}

type profileOptions struct {
	form models.UpdateProfileRequest
}

// NewProfileCmd creates the profile command
func NewProfileCmd() *cobra.Command {
	var opts profileOptions

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile",
		RunE: withEnv(func(ctx context.Context, e *Env, args []string) error {
			return runProfileUpdate(ctx, e, opts)
		}),
	}

	cmd.Flags().StringVar(&opts.form.RealName, "real-name", "", "Real name")
	cmd.Flags().StringVar(&opts.form.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&opts.form.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&opts.form.Avatar, "avatar", "", "Avatar URL")
	cmd.Flags().StringVar(&opts.form.Password, "new-password", "", "New password")

	return cmd
}

func runProfileUpdate(ctx context.Context, e *Env, opts profileOptions) error {
	if err := e.open("/profile"); err != nil {
		return err
	}
	if opts.form == (models.UpdateProfileRequest{}) {
		return fmt.Errorf("nothing to update, pass at least one flag")
	}
	if err := validate.Struct(opts.form); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if err := e.App.API.User.Update(ctx, opts.form); err != nil {
		return err
	}
	if _, err := e.App.Session.FetchProfile(ctx); err != nil {
		return err
	}
	return e.done("Profile updated")
}

func displayName(info *models.UserInfo) string {
	if info.RealName == "" {
		return info.Username
	}
	return fmt.Sprintf("%s (%s)", info.RealName, info.Username)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
