package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-sync/internal/config"
	"github.com/phrazzld/scry-sync/internal/events"
	"github.com/phrazzld/scry-sync/internal/platform/journaldb"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
	"github.com/phrazzld/scry-sync/internal/redact"
	"github.com/phrazzld/scry-sync/internal/store"
)

// errJournalDisabled is returned by commands that need a journal when none is configured.
var errJournalDisabled = errors.New("sync journal is not configured (set journal.url or SCRY_SYNC_JOURNAL_URL)")

// application holds the dependencies shared by commands and releases them on close.
type application struct {
	config *config.Config
	logger *slog.Logger

	db      *sql.DB
	dialect journaldb.Dialect
	journal store.JournalStore

	emitter *events.InMemoryEventEmitter
}

// loadConfig loads configuration and applies the global flag overrides.
func loadConfig(rt *runtime) (*config.Config, error) {
	cfg, err := config.Load(rt.cli.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if rt.cli.LogLevel != "" {
		cfg.Log.Level = rt.cli.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func setupLogger(rt *runtime, cfg *config.Config) (*slog.Logger, error) {
	log, err := logger.SetupWithWriter(cfg.Log, rt.stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return log, nil
}

// newApplication sets up logging and, when configured, opens and migrates
// the sync journal.
func newApplication(rt *runtime, cfg *config.Config) (*application, error) {
	log, err := setupLogger(rt, cfg)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:  cfg,
		logger:  log,
		journal: store.NopJournal{},
		emitter: events.NewInMemoryEventEmitter(log),
	}
	app.emitter.RegisterHandler(events.NewLogHandler(log))

	if cfg.Journal.URL == "" {
		log.Debug("sync journal disabled")
		return app, nil
	}

	db, dialect, err := journaldb.Open(rt.ctx, cfg.Journal.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open sync journal %s: %w", redact.String(cfg.Journal.URL), err)
	}
	app.db = db
	app.dialect = dialect

	if err := journaldb.Migrate(rt.ctx, db, dialect, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	journal, err := journaldb.NewStore(db, dialect, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.journal = journal

	handler, err := events.NewJournalHandler(journal, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	app.emitter.RegisterHandler(handler)

	log.Info("sync journal enabled",
		slog.String("dialect", string(dialect)),
		slog.String("url", redact.String(cfg.Journal.URL)))

	return app, nil
}

// close releases the journal connection.
func (a *application) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close sync journal", slog.String("error", err.Error()))
	}
}

// openJournal opens the configured journal database without migrating it.
func openJournal(ctx context.Context, cfg *config.Config) (*sql.DB, journaldb.Dialect, error) {
	if cfg.Journal.URL == "" {
		return nil, "", errJournalDisabled
	}
	db, dialect, err := journaldb.Open(ctx, cfg.Journal.URL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open sync journal %s: %w", redact.String(cfg.Journal.URL), err)
	}
	return db, dialect, nil
}
