package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clubdesk/console/internal/app"
	"github.com/clubdesk/console/internal/cli/clubselect"
	"github.com/clubdesk/console/internal/cli/userconfig"
	"github.com/clubdesk/console/internal/client"
	"github.com/clubdesk/console/internal/config"
	"github.com/clubdesk/console/internal/logger"
	"github.com/clubdesk/console/internal/models"
	"github.com/clubdesk/console/internal/notify"
	"github.com/clubdesk/console/internal/router"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrNotLoggedIn is returned by commands that need a session
var ErrNotLoggedIn = errors.New("not logged in, run 'clubctl login' first")

var validate = validator.New()

// Env is what a command runs against
type Env struct {
	App    *app.App
	Out    io.Writer
	Format string
	Prompt clubselect.Prompter
}

// newEnv loads configuration and wires the app. Failed requests are reported on stderr.
func newEnv(cmd *cobra.Command) (*Env, error) {
	format, err := outputFormat(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	a, err := app.New(cfg, notify.NewWriter(cmd.ErrOrStderr()), logger.GetLogger())
	if err != nil {
		return nil, err
	}

	return &Env{
		App:    a,
		Out:    cmd.OutOrStdout(),
		Format: format,
		Prompt: clubselect.PromptClubSelection,
	}, nil
}

// withEnv adapts a run function to cobra's RunE
func withEnv(run func(ctx context.Context, e *Env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.App.Close()

		return run(cmd.Context(), e, args)
	}
}

// outputFormat reads --output, falling back to the user config default
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		if cfg, err := userconfig.Load(); err == nil {
			format = cfg.Output
		}
	}
	if format == "" {
		format = FormatTable
	}

	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return format, nil
	}
	return "", fmt.Errorf("invalid output format %q (expected table, json or yaml)", format)
}

// Reported tells whether err was already shown to the user by the request notifier
func Reported(err error) bool {
	var apiErr *client.Error
	return errors.As(err, &apiErr) && apiErr.Kind != client.KindCanceled
}

// open runs the navigation guard for the console view a command stands for
func (e *Env) open(path string) error {
	target := router.DefaultTable().Resolve(path)

	_, decision := e.App.Router.Push(path)
	switch decision.Outcome {
	case router.Allow:
		return nil
	case router.RedirectLogin:
		return ErrNotLoggedIn
	case router.RedirectForbidden:
		return fmt.Errorf("%s is only available to %s", target.Title, rolesLabel(target.Roles))
	case router.RedirectAlreadyLoggedIn:
		return fmt.Errorf("already logged in")
	}
	return fmt.Errorf("cannot open %s", path)
}

func rolesLabel(roles []models.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, " or ")
}

// render writes v as JSON or YAML, or calls table with a tabwriter
func (e *Env) render(v any, table func(w io.Writer)) error {
	switch e.Format {
	case FormatJSON:
		enc := json.NewEncoder(e.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(e.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	w := tabwriter.NewWriter(e.Out, 0, 0, 2, ' ', 0)
	table(w)
	return w.Flush()
}

// done reports a successful action
func (e *Env) done(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	if e.Format == FormatTable {
		fmt.Fprintf(e.Out, "✓ %s\n", message)
		return nil
	}
	return e.render(map[string]string{"status": "ok", "message": message}, nil)
}

// header prints column titles with an underline row
func header(w io.Writer, columns ...string) {
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	lines := make([]string, len(columns))
	for i, c := range columns {
		lines[i] = strings.Repeat("─", len([]rune(c)))
	}
	fmt.Fprintln(w, strings.Join(lines, "\t"))
}

func parseID(arg, name string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, arg)
	}
	return id, nil
}

// pageFlags adds --page and --size
func pageFlags(cmd *cobra.Command, q *models.PageQuery) {
	cmd.Flags().IntVar(&q.PageNum, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.PageSize, "size", 10, "Page size")
}

func pageFooter(w io.Writer, total, current, size int64) {
	if size <= 0 {
		return
	}
	pages := (total + size - 1) / size
	fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", current, max(pages, 1), total)
}

func reviewFlags(cmd *cobra.Command, approve, reject *bool, comment *string) {
	cmd.Flags().BoolVar(approve, "approve", false, "Approve")
	cmd.Flags().BoolVar(reject, "reject", false, "Reject")
	cmd.Flags().StringVar(comment, "comment", "", "Review comment")
	cmd.MarkFlagsMutuallyExclusive("approve", "reject")
	cmd.MarkFlagsOneRequired("approve", "reject")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
