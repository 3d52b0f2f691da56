package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/stockroom/internal/config"
	"github.com/roach88/stockroom/internal/inventory"
	"github.com/roach88/stockroom/internal/notify"
	"github.com/roach88/stockroom/internal/store"
)

// app is the process-scoped wiring shared by every command: one store handle
// injected into the catalog and the recorder.
type app struct {
	cfg      config.Config
	dbPath   string
	store    *store.Store
	catalog  *inventory.Catalog
	recorder *inventory.Recorder
	logger   *slog.Logger
}

// openApp loads configuration, configures logging and opens the database.
// No catalog or recorder exists until the schema is in place.
func openApp(opts *RootOptions, cmd *cobra.Command, f *OutputFormatter) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, &configError{err: err}
	}
	f.Currency = cfg.Currency

	logLevel := cfg.SlogLevel()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	dbPath := cfg.Database
	if opts.Database != "" {
		dbPath = opts.Database
	}

	logger.Debug("opening database", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		logger.Error("database initialization failed", "path", dbPath, "error", err)
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = inventory.SystemClock{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = inventory.UUIDv7Generator{}
	}

	common := []inventory.Option{
		inventory.WithClock(clock),
		inventory.WithIDGenerator(ids),
		inventory.WithLogger(logger),
	}

	return &app{
		cfg:      cfg,
		dbPath:   dbPath,
		store:    st,
		catalog:  inventory.NewCatalog(st, common...),
		recorder: inventory.NewRecorder(st, append(common, inventory.WithNotifier(buildNotifier(opts, cfg, cmd, logger)))...),
		logger:   logger,
	}, nil
}

// Close releases the database handle.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}

func buildNotifier(opts *RootOptions, cfg config.Config, cmd *cobra.Command, logger *slog.Logger) notify.Notifier {
	if opts.Notifier != nil {
		return opts.Notifier
	}
	switch cfg.Notifications {
	case config.NotifyLog:
		return notify.NewLog(logger)
	case config.NotifyNone:
		return notify.Discard{}
	default:
		return notify.NewWriter(cmd.ErrOrStderr())
	}
}

// withApp opens the app, runs fn and closes the app. Every failure is
// reported through f and comes back as an *ExitError.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(a *app, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)

	a, err := openApp(opts, cmd, f)
	if err != nil {
		return f.Fail(err)
	}
	defer a.Close()

	if err := fn(a, f); err != nil {
		return f.Fail(err)
	}
	return nil
}
