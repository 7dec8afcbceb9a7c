package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clubdesk/console/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "clubctl",
	Short: "clubctl - student club management from the terminal",
	Long: `clubctl talks to the club management platform: browse clubs and activities,
apply and sign up, manage the clubs you lead and, as an administrator, review
everything waiting for approval.

'clubctl console' serves the same views as a local web console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format: table, json or yaml")

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("clubctl version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewProfileCmd())
	rootCmd.AddCommand(commands.NewDashboardCmd())
	rootCmd.AddCommand(commands.NewClubsCmd())
	rootCmd.AddCommand(commands.NewActivitiesCmd())
	rootCmd.AddCommand(commands.NewClubAdminCmd())
	rootCmd.AddCommand(commands.NewAdminCmd())
	rootCmd.AddCommand(commands.NewSelectClubCmd())
	rootCmd.AddCommand(commands.NewConsoleCmd(version))
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		// Failed API calls were already reported by the notifier
		if !commands.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
