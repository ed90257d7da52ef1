package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/adrg/xdg"

	"github.com/manav03panchal/safecompanion/internal/logging"
)

const (
	serviceLabel = "com.safecompanion.monitor"
	serviceUnit  = "safecompanion-monitor.service"
)

// ServiceManager installs the monitor as a user service so it starts at
// login and restarts on failure.
type ServiceManager struct {
	executablePath string
	configPath     string
	logPath        string
	goos           string
	home           string
	configHome     string
	// run executes service manager commands; replaced in tests.
	run func(name string, args ...string) ([]byte, error)
}

// NewServiceManager creates a service manager for the current binary.
// configPath is passed to the service with --config when non-empty.
func NewServiceManager(configPath, logPath string) (*ServiceManager, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	home, _ := os.UserHomeDir()
	return &ServiceManager{
		executablePath: execPath,
		configPath:     configPath,
		logPath:        logPath,
		goos:           runtime.GOOS,
		home:           home,
		configHome:     xdg.ConfigHome,
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).CombinedOutput()
		},
	}, nil
}

// Install writes the service definition and starts it.
func (m *ServiceManager) Install() error {
	switch m.goos {
	case "darwin":
		if err := m.writeDefinition(m.launchdPath(), launchdPlist); err != nil {
			return err
		}
		return m.exec("launchctl", "load", m.launchdPath())
	case "linux":
		if err := m.writeDefinition(m.systemdPath(), systemdUnit); err != nil {
			return err
		}
		for _, args := range [][]string{
			{"--user", "daemon-reload"},
			{"--user", "enable", "--now", serviceUnit},
		} {
			if err := m.exec("systemctl", args...); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("service installation is not supported on %s", m.goos)
	}
}

// Uninstall stops the service and removes its definition.
func (m *ServiceManager) Uninstall() error {
	var path string
	switch m.goos {
	case "darwin":
		path = m.launchdPath()
		_ = m.exec("launchctl", "unload", path)
	case "linux":
		path = m.systemdPath()
		_ = m.exec("systemctl", "--user", "disable", "--now", serviceUnit)
	default:
		return fmt.Errorf("service installation is not supported on %s", m.goos)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove service definition: %w", err)
	}
	if m.goos == "linux" {
		_ = m.exec("systemctl", "--user", "daemon-reload")
	}
	return nil
}

// IsInstalled checks if the service definition exists.
func (m *ServiceManager) IsInstalled() bool {
	path := m.DefinitionPath()
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// DefinitionPath returns where the service definition is written.
func (m *ServiceManager) DefinitionPath() string {
	switch m.goos {
	case "darwin":
		return m.launchdPath()
	case "linux":
		return m.systemdPath()
	default:
		return ""
	}
}

func (m *ServiceManager) launchdPath() string {
	return filepath.Join(m.home, "Library", "LaunchAgents", serviceLabel+".plist")
}

func (m *ServiceManager) systemdPath() string {
	return filepath.Join(m.configHome, "systemd", "user", serviceUnit)
}

func (m *ServiceManager) writeDefinition(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create service directory: %w", err)
	}

	tmpl, err := template.New("service").Parse(text)
	if err != nil {
		return fmt.Errorf("failed to parse service template: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create service definition: %w", err)
	}
	defer file.Close()

	data := struct {
		Label          string
		ExecutablePath string
		ConfigPath     string
		LogPath        string
		Home           string
		DataHome       string
		StateHome      string
	}{
		Label:          serviceLabel,
		ExecutablePath: m.executablePath,
		ConfigPath:     m.configPath,
		LogPath:        m.logPath,
		Home:           m.home,
		DataHome:       xdg.DataHome,
		StateHome:      xdg.StateHome,
	}
	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to write service definition: %w", err)
	}

	logging.DebugLog("wrote service definition", "path", path)
	return nil
}

func (m *ServiceManager) exec(name string, args ...string) error {
	if output, err := m.run(name, args...); err != nil {
		return fmt.Errorf("%s %v: %w: %s", name, args, err, string(output))
	}
	return nil
}

const launchdPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
        <string>monitor</string>
        <string>run</string>
{{- if .ConfigPath}}
        <string>--config</string>
        <string>{{.ConfigPath}}</string>
{{- end}}
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>
</dict>
</plist>
`

const systemdUnit = `[Unit]
Description=SafeCompanion inactivity monitor
After=network-online.target

[Service]
Type=simple
ExecStart={{.ExecutablePath}} monitor run{{if .ConfigPath}} --config {{.ConfigPath}}{{end}}
Restart=on-failure
RestartSec=5
Environment="HOME={{.Home}}"
Environment="XDG_DATA_HOME={{.DataHome}}"
Environment="XDG_STATE_HOME={{.StateHome}}"

[Install]
WantedBy=default.target
`
