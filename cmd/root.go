// Package cmd provides the CLI commands for SafeCompanion.
package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/output"
	"github.com/manav03panchal/safecompanion/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
	flagConfig string
)

// annotationNoStore marks commands that run without opening the store.
const annotationNoStore = "safecompanion/no-store"

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "safecompanion",
	Short: "A safety companion for people living alone",
	Long: `SafeCompanion keeps today's medication reminders, your emergency
contacts and a one-press SOS alert close at hand.

Without a subcommand it prints the home summary: the next pending
reminders, your primary contact and when you were last active.

Examples:
  safecompanion
  safecompanion sos
  safecompanion remind toggle 2
  safecompanion contacts add "Jane Doe" "+1 555 010 2000"
  safecompanion checkin`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if skipsRuntime(cmd) {
			return nil
		}

		opts := runtime.DefaultOptions()
		opts.ConfigPath = flagConfig
		opts.Format = output.ParseFormat(flagFormat)
		opts.ColorMode = output.ParseColorMode(flagColor)
		opts.Debug = flagDebug

		var err error
		ctx, err = runtime.New(commandContext(cmd), opts)
		if err != nil {
			return runtime.WrapDiskFullError(err, "open", opts.ConfigPath)
		}

		if ctx.Seeded != nil && (ctx.Seeded.ContactsSeeded || ctx.Seeded.RemindersSeeded) {
			ctx.Debugf("seeded defaults: contacts=%v reminders=%v",
				ctx.Seeded.ContactsSeeded, ctx.Seeded.RemindersSeeded)
		}
		if !ctx.IsJSON() && cmd.Name() != "__complete" {
			ctx.CLIFormatter().PrintNotices(ctx.Permissions.Notices)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			err := ctx.Close()
			ctx = nil
			return err
		}
		return nil
	},
	RunE: runHome,
}

// skipsRuntime reports whether cmd runs without the runtime context.
func skipsRuntime(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "completion", "help", "version":
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoStore] == "true" {
			return true
		}
	}
	return false
}

// commandContext returns the command's context, or a background one.
func commandContext(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

// runHome prints the home summary.
func runHome(cmd *cobra.Command, args []string) error {
	c := commandContext(cmd)

	pending, err := ctx.Reminders.Pending(c)
	if err != nil {
		return err
	}
	primary, err := ctx.Contacts.Primary(c)
	if err != nil {
		return err
	}
	activity, err := ctx.Activity.Get(c)
	if err != nil {
		return err
	}

	home := output.Home{
		Pending:  pending,
		Primary:  primary,
		Activity: *activity,
		Now:      time.Now(),
	}
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintHome(home)
	}
	ctx.CLIFormatter().PrintHome(home)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"Config file (default $XDG_CONFIG_HOME/safecompanion/config.yaml)")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("safecompanion %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil {
		ctx.Close()
	}
	if flagFormat == string(output.FormatJSON) {
		f := output.NewFormatter()
		f.Format = output.FormatJSON
		output.NewJSONFormatter(f).PrintError("error", err.Error(), runtime.GetSuggestion(err))
	} else {
		os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
	}
	os.Exit(1)
}
