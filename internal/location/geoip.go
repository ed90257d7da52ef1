package location

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oschwald/geoip2-golang"

	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/errors"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/model"
)

// cityReader is the subset of *geoip2.Reader the provider uses.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// GeoIPProvider estimates the position from the public IP address using a
// MaxMind City database.
type GeoIPProvider struct {
	reader    cityReader
	ip        string
	lookupURL string
	http      *resty.Client
	now       func() time.Time
}

// OpenGeoIP opens the City database named in cfg.
func OpenGeoIP(cfg config.GeoIPConfig) (*GeoIPProvider, error) {
	reader, err := geoip2.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open geoip database %s: %w", cfg.Database, err)
	}
	return newGeoIPProvider(reader, cfg), nil
}

func newGeoIPProvider(reader cityReader, cfg config.GeoIPConfig) *GeoIPProvider {
	return &GeoIPProvider{
		reader:    reader,
		ip:        cfg.IP,
		lookupURL: cfg.LookupURL,
		http: resty.New().
			SetTimeout(5*time.Second).
			SetHeader("User-Agent", "SafeCompanion/1.0"),
		now: time.Now,
	}
}

// CurrentLocation resolves the public IP and looks it up in the database.
func (p *GeoIPProvider) CurrentLocation(ctx context.Context) (*model.LocationFix, error) {
	ip, err := p.publicIP(ctx)
	if err != nil {
		return nil, err
	}

	record, err := p.reader.City(ip)
	if err != nil {
		return nil, fmt.Errorf("%w: geoip lookup: %v", errors.ErrLocationUnavailable, err)
	}
	if record.Location.Latitude == 0 && record.Location.Longitude == 0 {
		return nil, fmt.Errorf("%w: no coordinates for %s", errors.ErrLocationUnavailable, ip)
	}

	logging.DebugLog("geoip fix", logging.KeyProvider, "geoip", "accuracy_km", record.Location.AccuracyRadius)

	return &model.LocationFix{
		Latitude:   record.Location.Latitude,
		Longitude:  record.Location.Longitude,
		Accuracy:   float64(record.Location.AccuracyRadius) * 1000,
		CapturedAt: p.now(),
		Source:     "geoip",
	}, nil
}

func (p *GeoIPProvider) publicIP(ctx context.Context) (net.IP, error) {
	raw := p.ip
	if raw == "" {
		if p.lookupURL == "" {
			return nil, fmt.Errorf("%w: no ip and no lookup url", errors.ErrLocationUnavailable)
		}
		resp, err := p.http.R().SetContext(ctx).Get(p.lookupURL)
		if err != nil {
			return nil, fmt.Errorf("%w: ip lookup: %v", errors.ErrLocationUnavailable, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: ip lookup returned %d", errors.ErrLocationUnavailable, resp.StatusCode())
		}
		raw = strings.TrimSpace(resp.String())
	}

	ip := net.ParseIP(raw)
	if ip == nil {
		return nil, fmt.Errorf("%w: invalid ip %q", errors.ErrLocationUnavailable, raw)
	}
	return ip, nil
}

// Close releases the database.
func (p *GeoIPProvider) Close() error {
	return p.reader.Close()
}
