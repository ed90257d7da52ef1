// Package config provides centralized configuration for SafeCompanion.
// Values come from built-in defaults, then an optional YAML file, then
// SAFECOMPANION_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/manav03panchal/safecompanion/internal/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "safecompanion"

// MemoryDatabase is the SAFECOMPANION_DATABASE value that selects the in-memory store.
const MemoryDatabase = ":memory:"

// RuntimeConfig holds all runtime configuration values.
type RuntimeConfig struct {
	Store       StoreConfig       `yaml:"store"`
	Location    LocationConfig    `yaml:"location"`
	Messaging   MessagingConfig   `yaml:"messaging"`
	Alert       AlertConfig       `yaml:"alert"`
	Monitor     MonitorConfig     `yaml:"monitor"`
	Permissions PermissionsConfig `yaml:"permissions"`
	Log         LogConfig         `yaml:"log"`
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	// Backend is "badger" or "redis".
	Backend string `yaml:"backend"`
	// Path is the Badger directory. ":memory:" keeps everything in RAM.
	Path  string      `yaml:"path"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the shared Redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// LocationConfig selects the location provider.
type LocationConfig struct {
	// Provider is "none", "static" or "geoip".
	Provider string `yaml:"provider"`
	// Timeout bounds a single location request.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
	Static  StaticLocation `yaml:"static"`
	GeoIP   GeoIPConfig    `yaml:"geoip"`
}

// StaticLocation is a fixed home position.
type StaticLocation struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Accuracy  float64 `yaml:"accuracy"`
}

// GeoIPConfig configures IP based geolocation.
type GeoIPConfig struct {
	// Database is the path of a GeoLite2/GeoIP2 City database.
	Database string `yaml:"database"`
	// IP, when set, is looked up directly instead of discovering the public IP.
	IP string `yaml:"ip"`
	// LookupURL returns the caller's public IP as plain text.
	LookupURL string `yaml:"lookup_url"`
}

// MessagingConfig selects the transport used to deliver alerts.
type MessagingConfig struct {
	// Transport is "none", "log", "http" or "mqtt".
	Transport string `yaml:"transport"`
	// SendTimeout bounds every availability check and send.
	// Default: 15s
	SendTimeout time.Duration `yaml:"send_timeout"`
	HTTP        HTTPConfig    `yaml:"http"`
	MQTT        MQTTConfig    `yaml:"mqtt"`
}

// HTTPConfig configures the HTTP SMS gateway.
type HTTPConfig struct {
	URL       string `yaml:"url"`
	HealthURL string `yaml:"health_url"`
	Token     string `yaml:"token"`
	From      string `yaml:"from"`
	// Template, when set, is a text/template for the request body.
	Template string `yaml:"template"`
	// Timeout is the per-request HTTP timeout.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
	// MaxRetries is the number of retries on 429 and 5xx responses.
	// Default: 2
	MaxRetries int `yaml:"max_retries"`
	// RetryWait is the initial wait between retries.
	// Default: 1s
	RetryWait time.Duration `yaml:"retry_wait"`
}

// MQTTConfig configures delivery through a home hub over MQTT.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`
	// ConnectTimeout bounds the initial broker connection.
	// Default: 5s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// AlertConfig tunes the SOS workflow.
type AlertConfig struct {
	// EmergencySentinel is the phone value that is never messaged.
	// Default: "911"
	EmergencySentinel string `yaml:"emergency_sentinel"`
	// Dedupe joins concurrent SOS requests into a single fan-out.
	// Default: true
	Dedupe bool `yaml:"dedupe"`
	// SenderName is the signature at the end of the alert.
	// Default: "SafeCompanion"
	SenderName string `yaml:"sender_name"`
}

// MonitorConfig configures the inactivity monitor.
type MonitorConfig struct {
	// Interval between inactivity checks.
	// Default: 30m
	Interval time.Duration `yaml:"interval"`
	// Threshold of inactivity that raises a notice.
	// Default: 4h
	Threshold time.Duration `yaml:"threshold"`
	// Cooldown is the minimum time between two notices.
	// Default: 30m
	Cooldown time.Duration `yaml:"cooldown"`
	// AutoAlert sends an SOS when the threshold is crossed.
	// Default: false
	AutoAlert bool `yaml:"auto_alert"`
	// MetricsAddr serves /metrics and /healthz when non-empty.
	MetricsAddr string `yaml:"metrics_addr"`
	PIDFile     string `yaml:"pid_file"`
	LogFile     string `yaml:"log_file"`
	LogMaxSize  int    `yaml:"log_max_size_mb"`
	LogBackups  int    `yaml:"log_max_backups"`
	LogMaxAge   int    `yaml:"log_max_age_days"`
	// ShutdownTimeout bounds graceful shutdown of the metrics server.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PermissionsConfig holds the answers of the config-backed permission gateway.
type PermissionsConfig struct {
	// Location is "granted", "denied" or "undetermined".
	Location string `yaml:"location"`
	Contacts string `yaml:"contacts"`
}

// LogConfig configures CLI logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// DefaultRuntimeConfig returns the default runtime configuration.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Store: StoreConfig{
			Backend: "badger",
			Path:    filepath.Join(xdg.DataHome, AppName, "db"),
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: AppName + ":",
			},
		},
		Location: LocationConfig{
			Provider: "none",
			Timeout:  10 * time.Second,
			GeoIP: GeoIPConfig{
				LookupURL: "https://api.ipify.org",
			},
		},
		Messaging: MessagingConfig{
			Transport:   "none",
			SendTimeout: 15 * time.Second,
			HTTP: HTTPConfig{
				Timeout:    10 * time.Second,
				MaxRetries: 2,
				RetryWait:  time.Second,
			},
			MQTT: MQTTConfig{
				ClientID:       AppName,
				Topic:          AppName + "/sms",
				QoS:            1,
				ConnectTimeout: 5 * time.Second,
			},
		},
		Alert: AlertConfig{
			EmergencySentinel: "911",
			Dedupe:            true,
			SenderName:        "SafeCompanion",
		},
		Monitor: MonitorConfig{
			Interval:        30 * time.Minute,
			Threshold:       4 * time.Hour,
			Cooldown:        30 * time.Minute,
			PIDFile:         filepath.Join(xdg.StateHome, AppName, "monitor.pid"),
			LogFile:         filepath.Join(xdg.StateHome, AppName, "monitor.log"),
			LogMaxSize:      10,
			LogBackups:      3,
			LogMaxAge:       28,
			ShutdownTimeout: 5 * time.Second,
		},
		Permissions: PermissionsConfig{
			Location: "granted",
			Contacts: "granted",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// DefaultPath returns the default config file path following XDG spec.
func DefaultPath() string {
	if p := os.Getenv("SAFECOMPANION_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path (when it
// exists) and environment overrides. An empty path uses DefaultPath.
func Load(path string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if path == "" {
		path = DefaultPath()
	}

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *RuntimeConfig) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewSystemErrorWithOp("load config", "cannot read "+path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.NewUserErrorWithField("config", path,
			"Invalid config file",
			"Check the YAML syntax: "+err.Error())
	}
	return nil
}

// loadFromEnv loads configuration overrides from environment variables.
func (c *RuntimeConfig) loadFromEnv() {
	if v := os.Getenv("SAFECOMPANION_DATABASE"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("SAFECOMPANION_STORE_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("SAFECOMPANION_REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("SAFECOMPANION_REDIS_PASSWORD"); v != "" {
		c.Store.Redis.Password = v
	}

	if v := os.Getenv("SAFECOMPANION_LOCATION_PROVIDER"); v != "" {
		c.Location.Provider = v
	}
	if v := os.Getenv("SAFECOMPANION_LATITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Location.Static.Latitude = f
		}
	}
	if v := os.Getenv("SAFECOMPANION_LONGITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Location.Static.Longitude = f
		}
	}
	if v := os.Getenv("SAFECOMPANION_GEOIP_DATABASE"); v != "" {
		c.Location.GeoIP.Database = v
	}

	if v := os.Getenv("SAFECOMPANION_TRANSPORT"); v != "" {
		c.Messaging.Transport = v
	}
	if v := os.Getenv("SAFECOMPANION_SEND_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Messaging.SendTimeout = d
		}
	}
	if v := os.Getenv("SAFECOMPANION_SMS_URL"); v != "" {
		c.Messaging.HTTP.URL = v
	}
	if v := os.Getenv("SAFECOMPANION_SMS_TOKEN"); v != "" {
		c.Messaging.HTTP.Token = v
	}
	if v := os.Getenv("SAFECOMPANION_MQTT_BROKER"); v != "" {
		c.Messaging.MQTT.Broker = v
	}

	if v := os.Getenv("SAFECOMPANION_MONITOR_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Monitor.Interval = d
		}
	}
	if v := os.Getenv("SAFECOMPANION_MONITOR_THRESHOLD"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Monitor.Threshold = d
		}
	}
	if v := os.Getenv("SAFECOMPANION_AUTO_ALERT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Monitor.AutoAlert = b
		}
	}

	if v := os.Getenv("SAFECOMPANION_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// InMemory reports whether the store should run without persistence.
func (c *RuntimeConfig) InMemory() bool {
	return c.Store.Path == MemoryDatabase
}

// Redacted returns a copy with secrets masked, for display.
func (c *RuntimeConfig) Redacted() *RuntimeConfig {
	out := *c
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	out.Store.Redis.Password = mask(c.Store.Redis.Password)
	out.Messaging.HTTP.Token = mask(c.Messaging.HTTP.Token)
	out.Messaging.MQTT.Password = mask(c.Messaging.MQTT.Password)
	return &out
}

// YAML renders the configuration as YAML.
func (c *RuntimeConfig) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
