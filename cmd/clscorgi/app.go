package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/c360studio/semstreams/natsclient"

	"github.com/clscor/clscorgi/catalog"
	"github.com/clscor/clscorgi/config"
	"github.com/clscor/clscorgi/storage"
)

// app carries what a command needs once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  storage.Store

	closers []func()
}

func newApp(ctx context.Context, flags *globalFlags) (*app, error) {
	logger := newLogger(flags.logLevel)
	cfg, err := loadConfig(flags.configPath, logger)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	if err := a.open(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// open opens the configured store. On failure everything opened so far,
// such as a NATS connection, is closed again.
func (a *app) open(ctx context.Context) error {
	if err := a.openStore(ctx); err != nil {
		a.Close()
		return err
	}
	return nil
}

// Close releases the store and any connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// loader returns a catalog loader for the configured vocabularies.
func (a *app) loader(opts ...catalog.LoaderOption) *catalog.Loader {
	opts = append([]catalog.LoaderOption{catalog.WithLogger(a.logger)}, opts...)
	if a.store != nil {
		opts = append(opts, catalog.WithStore(a.store))
	}
	return catalog.NewLoader(a.cfg, opts...)
}

func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	c, err := a.loader().Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vocabularies: %w", err)
	}
	return c, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.Storage.Backend {
	case "", config.BackendNone:
		return nil

	case config.BackendBolt:
		s, err := storage.NewBoltStore(a.cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		a.store = s
		a.closers = append(a.closers, func() { _ = s.Close() })
		a.logger.Debug("Opened bolt store", "path", a.cfg.Storage.Path)
		return nil

	case config.BackendNATS:
		client, err := connectToNATS(ctx, a.cfg.Storage.NATSURL, a.logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = client.Close(context.Background()) })

		js, err := client.JetStream()
		if err != nil {
			return fmt.Errorf("get JetStream context: %w", err)
		}
		s, err := storage.NewKVStore(ctx, js, a.cfg.Storage.Bucket)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		a.store = s
		return nil

	default:
		return fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

func connectToNATS(ctx context.Context, url string, logger *slog.Logger) (*natsclient.Client, error) {
	logger.Info("Connecting to NATS", "url", url)

	client, err := natsclient.NewClient(url,
		natsclient.WithName(appName),
		natsclient.WithMaxReconnects(5),
		natsclient.WithReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("create NATS client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, wrapNATSError(err, url)
	}

	logger.Info("Connected to NATS", "url", url)
	return client, nil
}

// wrapNATSError provides helpful guidance when NATS connection fails.
func wrapNATSError(err error, url string) error {
	errStr := err.Error()

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no servers available") ||
		strings.Contains(errStr, "timeout") {
		return fmt.Errorf(`NATS connection failed: %w

NATS is not running at %s.

Start a JetStream-enabled server, or set storage.backend to bolt
in clscorgi.yaml to keep pulled vocabularies in a local file.`, err, url)
	}

	return fmt.Errorf("NATS connection failed: %w", err)
}
