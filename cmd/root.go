package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the schedule-mcp application
var rootCmd = &cobra.Command{
	Use:   "schedule-mcp",
	Short: "MCP server for Google Calendar and Notion scheduling",
	Long: `schedule-mcp bridges a Google Calendar account with a Notion Appointments
database and a Notion Tasks database.

It exposes calendar, appointment, task and schedule analysis tools (free slots,
conflicts, overdue tasks, week overview) to AI assistants over the Model
Context Protocol, and runs the same schedule queries from the command line.`,
	SilenceUsage: true,
}

// Flags shared by every command that loads the configuration.
var (
	configPath string
	debugMode  bool
	logFormat  string
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "schedule-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML config file (default: $XDG_CONFIG_HOME/schedule-mcp/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newConflictsCmd())
	rootCmd.AddCommand(newFreeSlotsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
