package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/daemon"
	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/model"
	"github.com/manav03panchal/safecompanion/internal/monitor"
	"github.com/manav03panchal/safecompanion/internal/output"
	"github.com/manav03panchal/safecompanion/internal/parser"
	"github.com/manav03panchal/safecompanion/internal/permission"
	"github.com/manav03panchal/safecompanion/internal/runtime"
	"github.com/manav03panchal/safecompanion/internal/storage"
)

// Monitor command flags.
var (
	monitorLogsFlagTail       int
	monitorInstallFlagForce   bool
	monitorCheckFlagThreshold string
)

// noStore is the annotation set of commands that manage the monitor
// process without opening the store.
var noStore = map[string]string{annotationNoStore: "true"}

// monitorCmd represents the monitor command.
var monitorCmd = &cobra.Command{
	Use:     "monitor",
	Aliases: []string{"daemon", "m"},
	Short:   "Watch for inactivity in the background",
	Long: `The monitor checks your last activity on a schedule and raises a
notice when you have been inactive longer than the threshold. It also
announces reminders as they fall due, and can send an SOS alert on its own
when auto_alert is enabled in the config.

Examples:
  safecompanion monitor start
  safecompanion monitor status
  safecompanion monitor check
  safecompanion monitor install`,
}

// monitorRunCmd runs the monitor in the foreground.
var monitorRunCmd = &cobra.Command{
	Use:         "run",
	Short:       "Run the monitor in the foreground",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE:        runMonitorRun,
}

// monitorStartCmd starts the monitor in the background.
var monitorStartCmd = &cobra.Command{
	Use:         "start",
	Short:       "Start the monitor in the background",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE:        runMonitorStart,
}

// monitorStopCmd stops the background monitor.
var monitorStopCmd = &cobra.Command{
	Use:         "stop",
	Short:       "Stop the background monitor",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE:        runMonitorStop,
}

// monitorStatusCmd shows the monitor status.
var monitorStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show whether the monitor is running",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE:        runMonitorStatus,
}

// monitorCheckCmd runs one check now.
var monitorCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one inactivity check now",
	Long: `Run a single inactivity and reminder check against the store and
print the result. Notices are printed instead of logged.

Examples:
  safecompanion monitor check
  safecompanion monitor check --threshold 30m`,
	Args: cobra.NoArgs,
	RunE: runMonitorCheck,
}

// monitorLogsCmd prints the monitor log.
var monitorLogsCmd = &cobra.Command{
	Use:         "logs",
	Short:       "Show the monitor log",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE:        runMonitorLogs,
}

// monitorInstallCmd installs the monitor as a login service.
var monitorInstallCmd = &cobra.Command{
	Use:         "install",
	Short:       "Start the monitor automatically at login",
	Long:        `Install the monitor as a launchd agent (macOS) or systemd user service (Linux).`,
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE:        runMonitorInstall,
}

// monitorUninstallCmd removes the login service.
var monitorUninstallCmd = &cobra.Command{
	Use:         "uninstall",
	Short:       "Stop starting the monitor at login",
	Args:        cobra.NoArgs,
	Annotations: noStore,
	RunE:        runMonitorUninstall,
}

func init() {
	monitorLogsCmd.Flags().IntVarP(&monitorLogsFlagTail, "tail", "n", 50, "Number of lines to show")
	monitorCheckCmd.Flags().StringVar(&monitorCheckFlagThreshold, "threshold", "", "Inactivity threshold for this check (e.g. 30m, 2h)")
	monitorInstallCmd.Flags().BoolVar(&monitorInstallFlagForce, "force", false, "Reinstall if already installed")

	monitorCmd.AddCommand(monitorRunCmd)
	monitorCmd.AddCommand(monitorStartCmd)
	monitorCmd.AddCommand(monitorStopCmd)
	monitorCmd.AddCommand(monitorStatusCmd)
	monitorCmd.AddCommand(monitorCheckCmd)
	monitorCmd.AddCommand(monitorLogsCmd)
	monitorCmd.AddCommand(monitorInstallCmd)
	monitorCmd.AddCommand(monitorUninstallCmd)
	rootCmd.AddCommand(monitorCmd)
}

// loadConfig loads the config for commands that skip the runtime context.
func loadConfig() (*config.RuntimeConfig, error) {
	return config.Load(flagConfig)
}

// plainFormatter returns a formatter honouring the global output flags.
func plainFormatter() *output.Formatter {
	f := output.NewFormatter()
	f.Format = output.ParseFormat(flagFormat)
	f.ColorMode = output.ParseColorMode(flagColor)
	return f
}

// monitorOptions maps the monitor config section to monitor options.
func monitorOptions(cfg *config.RuntimeConfig) monitor.Options {
	return monitor.Options{
		Interval:  cfg.Monitor.Interval,
		Threshold: cfg.Monitor.Threshold,
		Cooldown:  cfg.Monitor.Cooldown,
		AutoAlert: cfg.Monitor.AutoAlert,
	}
}

// scheduleProbe fails when no check has completed for two intervals.
func scheduleProbe(mon *monitor.Monitor, interval time.Duration) func() error {
	started := time.Now()
	return func() error {
		last := mon.LastCheck()
		if last.IsZero() {
			last = started
		}
		if idle := time.Since(last); idle > 2*interval {
			return fmt.Errorf("no check for %s", idle.Round(time.Second))
		}
		return nil
	}
}

// storeProbe pings a backend shared with other processes.
func storeProbe(c context.Context, kv storage.KV) func() error {
	return func() error {
		p, ok := kv.(storage.Pinger)
		if !ok {
			return nil
		}
		pingCtx, cancel := context.WithTimeout(c, 2*time.Second)
		defer cancel()
		return p.Ping(pingCtx)
	}
}

func runMonitorRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Init(runtime.MonitorLoggingConfig(cfg, flagDebug)); err != nil {
		return err
	}
	defer logging.Close()

	c := commandContext(cmd)
	gateway := permission.NewConfigGateway(cfg.Permissions)
	for _, n := range permission.RequestAll(c, gateway).Notices {
		logging.WarnContext(c, n.Title, "message", n.Message)
	}

	metrics := daemon.NewMetrics()
	open, release := runtime.MonitorSessions(cfg, gateway, metrics)
	defer func() {
		if err := release(); err != nil {
			logging.Warn("failed to close store", logging.KeyError, err)
		}
	}()

	mon := monitor.New(open, monitor.LogNotifier, monitorOptions(cfg))
	mon.SetRecorder(metrics)

	d := daemon.NewDaemon(cfg.Monitor, Version)
	d.Attach(mon, metrics)
	d.AddProbe("schedule", scheduleProbe(mon, cfg.Monitor.Interval))
	if cfg.Store.Backend == storage.BackendRedis {
		kv, err := storage.OpenKV(c, runtime.StoreOptions(cfg))
		if err != nil {
			return err
		}
		defer kv.Close()
		d.AddProbe("store", storeProbe(c, kv))
	}

	logging.Info("starting monitor",
		"interval", cfg.Monitor.Interval,
		"threshold", cfg.Monitor.Threshold,
		"auto_alert", cfg.Monitor.AutoAlert,
		"store", cfg.Store.Backend)
	return d.Run(c)
}

func runMonitorStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := plainFormatter()

	runArgs := []string{"monitor", "run"}
	if flagConfig != "" {
		runArgs = append(runArgs, "--config", flagConfig)
	}
	if flagDebug {
		runArgs = append(runArgs, "--debug")
	}

	d := daemon.NewDaemon(cfg.Monitor, Version)
	pid, err := d.StartBackground(runArgs)
	if err != nil {
		if errors.Is(err, errors.ErrMonitorRunning) && !f.IsJSON() {
			output.NewCLIFormatter(f).Warning(fmt.Sprintf("Monitor is already running (PID: %d)", pid))
			return nil
		}
		return err
	}

	if f.IsJSON() {
		return output.NewJSONFormatter(f).PrintMonitorStatus(d.GetStatus())
	}
	cli := output.NewCLIFormatter(f)
	cli.Success(fmt.Sprintf("Monitor started (PID: %d)", pid))
	cli.Muted("Logs: " + cfg.Monitor.LogFile)
	return nil
}

func runMonitorStop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := plainFormatter()

	d := daemon.NewDaemon(cfg.Monitor, Version)
	pid := d.GetStatus().PID
	if err := d.Stop(cfg.Monitor.ShutdownTimeout); err != nil {
		if errors.Is(err, errors.ErrMonitorNotRunning) && !f.IsJSON() {
			output.NewCLIFormatter(f).Muted("Monitor is not running.")
			return nil
		}
		return err
	}

	if f.IsJSON() {
		return f.JSON(map[string]any{"status": "stopped", "pid": pid})
	}
	output.NewCLIFormatter(f).Success(fmt.Sprintf("Monitor stopped (was PID: %d)", pid))
	return nil
}

func runMonitorStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := plainFormatter()

	status := daemon.NewDaemon(cfg.Monitor, Version).GetStatus()
	if f.IsJSON() {
		return output.NewJSONFormatter(f).PrintMonitorStatus(status)
	}
	output.NewCLIFormatter(f).PrintMonitorStatus(status)
	return nil
}

func runMonitorCheck(cmd *cobra.Command, args []string) error {
	c := commandContext(cmd)
	cli := ctx.CLIFormatter()

	open := func(_ context.Context) (*monitor.Session, error) {
		svc, err := ctx.Alert()
		if err != nil {
			return nil, err
		}
		return &monitor.Session{
			Activity:  ctx.Activity,
			Reminders: ctx.Reminders,
			Alert:     svc,
			Close:     func() error { return nil },
		}, nil
	}
	// Notices are part of the printed result; nothing else to deliver.
	quiet := monitor.NotifierFunc(func(context.Context, model.Notice) error { return nil })

	opts := monitorOptions(ctx.Config)
	if monitorCheckFlagThreshold != "" {
		threshold, err := parser.ParsePositiveDuration(monitorCheckFlagThreshold)
		if err != nil {
			return err
		}
		opts.Threshold = threshold
	}

	mon := monitor.New(open, quiet, opts)
	result, err := mon.Check(c)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintCheckResult(result)
	}
	cli.PrintCheckResult(result)
	return nil
}

func runMonitorLogs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := plainFormatter()

	logPath := cfg.Monitor.LogFile
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		f.Println("No log file found.")
		f.Printf("Log path: %s\n", logPath)
		return nil
	}

	lines, err := tailFile(logPath, monitorLogsFlagTail)
	if err != nil {
		return err
	}
	for _, line := range lines {
		f.Println(line)
	}
	return nil
}

// tailFile reads the last n lines from a file.
func tailFile(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func runMonitorInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := plainFormatter()
	cli := output.NewCLIFormatter(f)

	mgr, err := daemon.NewServiceManager(flagConfig, cfg.Monitor.LogFile)
	if err != nil {
		return err
	}

	if mgr.IsInstalled() && !monitorInstallFlagForce {
		if f.IsJSON() {
			return f.JSON(map[string]any{"status": "already_installed", "path": mgr.DefinitionPath()})
		}
		f.Println("Service is already installed.")
		f.Println("Use --force to reinstall.")
		return nil
	}

	if mgr.IsInstalled() {
		if err := mgr.Uninstall(); err != nil {
			return fmt.Errorf("failed to remove existing service: %w", err)
		}
	}
	if err := mgr.Install(); err != nil {
		return err
	}

	if f.IsJSON() {
		return f.JSON(map[string]any{"status": "installed", "path": mgr.DefinitionPath()})
	}
	cli.Success("Service installed")
	cli.Muted("Definition: " + mgr.DefinitionPath())
	f.Println("The monitor now starts automatically when you log in.")
	return nil
}

func runMonitorUninstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	f := plainFormatter()
	cli := output.NewCLIFormatter(f)

	mgr, err := daemon.NewServiceManager(flagConfig, cfg.Monitor.LogFile)
	if err != nil {
		return err
	}

	if !mgr.IsInstalled() {
		if f.IsJSON() {
			return f.JSON(map[string]any{"status": "not_installed"})
		}
		f.Println("Service is not installed.")
		return nil
	}

	d := daemon.NewDaemon(cfg.Monitor, Version)
	if d.IsRunning() {
		if err := d.Stop(cfg.Monitor.ShutdownTimeout); err != nil {
			logging.Warn("failed to stop monitor before uninstall", logging.KeyError, err)
		}
	}
	if err := mgr.Uninstall(); err != nil {
		return err
	}

	if f.IsJSON() {
		return f.JSON(map[string]any{"status": "uninstalled"})
	}
	cli.Success("Service uninstalled")
	return nil
}
