package runtime

import (
	"context"
	"io"
	"sync"

	"github.com/manav03panchal/safecompanion/internal/alert"
	"github.com/manav03panchal/safecompanion/internal/config"
	"github.com/manav03panchal/safecompanion/internal/location"
	"github.com/manav03panchal/safecompanion/internal/logging"
	"github.com/manav03panchal/safecompanion/internal/messaging"
	"github.com/manav03panchal/safecompanion/internal/monitor"
	"github.com/manav03panchal/safecompanion/internal/permission"
	"github.com/manav03panchal/safecompanion/internal/reminders"
	"github.com/manav03panchal/safecompanion/internal/storage"
)

// Services is an opened store with the repositories and services built on
// it. The alert service and its location provider and transport are built
// on first use.
type Services struct {
	Config *config.RuntimeConfig
	KV     storage.KV
	Seeded *storage.SeedResult

	// Repositories
	Contacts     *storage.ContactRepo
	ReminderRepo *storage.ReminderRepo
	Activity     *storage.ActivityRepo

	Reminders *reminders.Service

	gateway   permission.Gateway
	locator   location.Provider
	transport messaging.Transport

	alertOnce sync.Once
	alert     *alert.Service
	alertErr  error
	closers   []io.Closer
}

// StoreOptions maps the store config section to storage options.
func StoreOptions(cfg *config.RuntimeConfig) storage.Options {
	return storage.Options{
		Backend:  cfg.Store.Backend,
		Path:     cfg.Store.Path,
		InMemory: cfg.InMemory(),
		Redis: storage.RedisOptions{
			Addr:      cfg.Store.Redis.Addr,
			Password:  cfg.Store.Redis.Password,
			DB:        cfg.Store.Redis.DB,
			KeyPrefix: cfg.Store.Redis.KeyPrefix,
		},
	}
}

// AlertOptions maps configuration to alert options.
func AlertOptions(cfg *config.RuntimeConfig) alert.Options {
	opts := alert.DefaultOptions()
	opts.Sentinel = cfg.Alert.EmergencySentinel
	opts.SendTimeout = cfg.Messaging.SendTimeout
	opts.LocationTimeout = cfg.Location.Timeout
	opts.Dedupe = cfg.Alert.Dedupe
	if cfg.Alert.SenderName != "" {
		opts.SenderName = cfg.Alert.SenderName
	}
	return opts
}

// OpenServices opens the configured store, seeds first-launch defaults and
// builds the repositories.
func OpenServices(ctx context.Context, cfg *config.RuntimeConfig, gateway permission.Gateway) (*Services, error) {
	kv, err := storage.OpenKV(ctx, StoreOptions(cfg))
	if err != nil {
		return nil, err
	}

	seeded, err := storage.NewSeeder(kv, cfg.Alert.EmergencySentinel).Seed(ctx)
	if err != nil {
		kv.Close()
		return nil, err
	}

	s := &Services{
		Config:       cfg,
		KV:           kv,
		Seeded:       seeded,
		Contacts:     storage.NewContactRepo(kv),
		ReminderRepo: storage.NewReminderRepo(kv),
		Activity:     storage.NewActivityRepo(kv),
		gateway:      gateway,
	}
	s.Reminders = reminders.NewService(s.ReminderRepo)
	return s, nil
}

// UseLocator replaces the configured location provider. It must be called
// before Alert.
func (s *Services) UseLocator(p location.Provider) {
	s.locator = p
}

// UseTransport replaces the configured transport. It must be called before
// Alert.
func (s *Services) UseTransport(t messaging.Transport) {
	s.transport = t
}

// Alert returns the SOS service, building the location provider and the
// transport on first call.
func (s *Services) Alert() (*alert.Service, error) {
	s.alertOnce.Do(func() {
		if s.locator == nil {
			locator, closer, err := location.New(s.Config.Location, s.gateway)
			if err != nil {
				s.alertErr = err
				return
			}
			s.locator = locator
			s.closers = append(s.closers, closer)
		}
		if s.transport == nil {
			transport, err := messaging.New(s.Config.Messaging)
			if err != nil {
				s.alertErr = err
				return
			}
			s.transport = transport
			s.closers = append(s.closers, closerFunc(func() error { return messaging.Close(transport) }))
		}
		s.alert = alert.NewService(s.Contacts, s.locator, s.transport, AlertOptions(s.Config))
		logging.DebugLog("alert service ready",
			logging.KeyTransport, s.transport.Name(),
			logging.KeyProvider, s.Config.Location.Provider)
	})
	return s.alert, s.alertErr
}

// Close releases the transport, the location provider and the store.
func (s *Services) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	if s.KV != nil {
		if err := s.KV.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.KV = nil
	}
	return firstErr
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// MonitorSessions returns the session opener used by the monitor and a
// function releasing anything it keeps open. A persistent store is opened
// per check so CLI commands can use it between runs. An in-memory store is
// opened once, since reopening it would lose every record.
func MonitorSessions(cfg *config.RuntimeConfig, gateway permission.Gateway, recorder alert.Recorder) (monitor.OpenFunc, func() error) {
	session := func(s *Services, closeFn func() error) (*monitor.Session, error) {
		svc, err := s.Alert()
		if err != nil {
			return nil, err
		}
		if recorder != nil {
			svc.SetRecorder(recorder)
		}
		return &monitor.Session{
			Activity:  s.Activity,
			Reminders: s.Reminders,
			Alert:     svc,
			Close:     closeFn,
		}, nil
	}

	if cfg.InMemory() {
		var (
			mu     sync.Mutex
			shared *Services
		)
		open := func(ctx context.Context) (*monitor.Session, error) {
			mu.Lock()
			defer mu.Unlock()
			if shared == nil {
				s, err := OpenServices(ctx, cfg, gateway)
				if err != nil {
					return nil, err
				}
				shared = s
			}
			return session(shared, func() error { return nil })
		}
		release := func() error {
			mu.Lock()
			defer mu.Unlock()
			if shared == nil {
				return nil
			}
			err := shared.Close()
			shared = nil
			return err
		}
		return open, release
	}

	open := func(ctx context.Context) (*monitor.Session, error) {
		s, err := OpenServices(ctx, cfg, gateway)
		if err != nil {
			return nil, err
		}
		sess, err := session(s, s.Close)
		if err != nil {
			s.Close()
			return nil, err
		}
		return sess, nil
	}
	return open, func() error { return nil }
}
