// Package runtime provides application runtime context for SafeCompanion.
package runtime

import (
	"context"
	"log/slog"
	"os"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/output"
	"github.com/manav03panchal/safecompanion/internal/permission"
)

// Context holds the application runtime context.
type Context struct {
	*Services

	Formatter *output.Formatter

	// Permissions is the answer of the startup permission round.
	Permissions permission.Result

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	// ConfigPath is the YAML config file. Empty uses config.DefaultPath.
	ConfigPath string
	// Config, when set, is used instead of loading ConfigPath.
	Config    *config.RuntimeConfig
	Format    output.Format
	ColorMode output.ColorMode
	Debug     bool
	// Gateway answers permission requests. Nil uses the config section.
	Gateway permission.Gateway
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		Format:    output.FormatCLI,
		ColorMode: output.ColorAuto,
	}
}

// LoggingConfig returns the CLI logger configuration.
func LoggingConfig(cfg *config.RuntimeConfig, debug bool) logging.Config {
	if debug {
		return logging.DebugConfig()
	}
	return logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		JSON:   cfg.Log.JSON,
		Output: os.Stderr,
	}
}

// MonitorLoggingConfig returns the logger configuration of the monitor
// process, which writes to its rotating log file.
func MonitorLoggingConfig(cfg *config.RuntimeConfig, debug bool) logging.Config {
	lc := LoggingConfig(cfg, debug)
	if !debug && lc.Level > slog.LevelInfo {
		lc.Level = slog.LevelInfo
	}
	lc.File = cfg.Monitor.LogFile
	lc.MaxSizeMB = cfg.Monitor.LogMaxSize
	lc.MaxBackups = cfg.Monitor.LogBackups
	lc.MaxAgeDays = cfg.Monitor.LogMaxAge
	return lc
}

// New loads configuration, opens the store, seeds defaults and runs the
// startup permission round. A refused permission only adds a notice.
func New(ctx context.Context, opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	if err := logging.Init(LoggingConfig(cfg, opts.Debug)); err != nil {
		return nil, err
	}

	gateway := opts.Gateway
	if gateway == nil {
		gateway = permission.NewConfigGateway(cfg.Permissions)
	}

	services, err := OpenServices(ctx, cfg, gateway)
	if err != nil {
		return nil, err
	}

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	return &Context{
		Services:    services,
		Formatter:   formatter,
		Permissions: permission.RequestAll(ctx, gateway),
		Debug:       opts.Debug,
	}, nil
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.IsJSON()
}

// Sentinel returns the configured emergency sentinel.
func (c *Context) Sentinel() string {
	return c.Config.Alert.EmergencySentinel
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...any) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
