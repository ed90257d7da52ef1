package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/validate"
)

var (
	storeBackends      = []string{"badger", "redis"}
	locationProviders  = []string{"none", "static", "geoip"}
	messagingTransport = []string{"none", "log", "http", "mqtt"}
	permissionStates   = []string{"granted", "denied", "undetermined"}
)

// Validate checks the configuration for values the runtime cannot use.
func (c *RuntimeConfig) Validate() error {
	checks := []error{
		oneOf("store.backend", c.Store.Backend, storeBackends),
		oneOf("location.provider", c.Location.Provider, locationProviders),
		oneOf("messaging.transport", c.Messaging.Transport, messagingTransport),
		oneOf("permissions.location", c.Permissions.Location, permissionStates),
		oneOf("permissions.contacts", c.Permissions.Contacts, permissionStates),
		positive("location.timeout", c.Location.Timeout),
		positive("messaging.send_timeout", c.Messaging.SendTimeout),
		positive("monitor.interval", c.Monitor.Interval),
		positive("monitor.threshold", c.Monitor.Threshold),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if c.Store.Backend == "redis" && c.Store.Redis.Addr == "" {
		return required("store.redis.addr")
	}
	if c.Location.Provider == "geoip" && c.Location.GeoIP.Database == "" {
		return required("location.geoip.database")
	}
	if c.Location.Provider == "static" {
		s := c.Location.Static
		if s.Latitude < -90 || s.Latitude > 90 || s.Longitude < -180 || s.Longitude > 180 {
			return errors.NewUserErrorWithField("location.static", fmt.Sprintf("%v,%v", s.Latitude, s.Longitude),
				"Coordinates out of range",
				"Latitude must be within -90..90 and longitude within -180..180")
		}
	}

	switch c.Messaging.Transport {
	case "http":
		if err := validate.URL(c.Messaging.HTTP.URL); err != nil {
			return errors.Wrap(err, "messaging.http.url")
		}
		if c.Messaging.HTTP.HealthURL != "" {
			if err := validate.URL(c.Messaging.HTTP.HealthURL); err != nil {
				return errors.Wrap(err, "messaging.http.health_url")
			}
		}
	case "mqtt":
		if c.Messaging.MQTT.Broker == "" {
			return required("messaging.mqtt.broker")
		}
		if c.Messaging.MQTT.QoS > 2 {
			return errors.NewUserErrorWithField("messaging.mqtt.qos", fmt.Sprint(c.Messaging.MQTT.QoS),
				"Invalid MQTT QoS", "Use 0, 1 or 2")
		}
	}

	if strings.TrimSpace(c.Alert.EmergencySentinel) == "" {
		return required("alert.emergency_sentinel")
	}
	return nil
}

func oneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errors.NewUserErrorWithField(field, value,
		"Invalid "+field,
		"Use one of: "+strings.Join(allowed, ", "))
}

func positive(field string, d time.Duration) error {
	if d > 0 {
		return nil
	}
	return errors.NewUserErrorWithField(field, d.String(),
		"Invalid "+field,
		"Use a positive duration like '30s' or '15m'")
}

func required(field string) error {
	return errors.NewUserError(field+" is required", "Set "+field+" in the config file")
}
