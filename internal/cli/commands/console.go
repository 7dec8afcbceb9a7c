package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/app"
	"github.com/clubdesk/console/internal/config"
	"github.com/clubdesk/console/internal/logger"
	"github.com/clubdesk/console/internal/notify"
	"github.com/clubdesk/console/internal/server"
)

// noticeBacklog bounds the notices kept until the console front end polls them
const noticeBacklog = 100

// NewConsoleCmd creates the console command
func NewConsoleCmd(version string) *cobra.Command {
	var addr string
	var open bool

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Serve the web console",
		Long: `Serve the web console on a local address.

The console shares the session of the command line: log in with 'clubctl login'
or through POST /login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(addr, open, version)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default CONSOLE_ADDR or :5173)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the console in the browser")

	return cmd
}

func runConsole(addr string, open bool, version string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if addr != "" {
		cfg.Console.Addr = addr
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	notices := notify.NewQueue(noticeBacklog, log)
	a, err := app.New(cfg, notices, log)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(cfg, a, notices, log, version)
	if err != nil {
		return err
	}

	if open {
		url := consoleURL(cfg.Console.Addr)
		fmt.Printf("Opening %s...\n", url)
		if err := openBrowser(url); err != nil {
			fmt.Printf("Failed to open browser: %v\n", err)
			fmt.Printf("Please visit: %s\n", url)
		}
	}

	return srv.Start()
}

// consoleURL turns a listen address into a browsable URL
func consoleURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/dashboard"
}
