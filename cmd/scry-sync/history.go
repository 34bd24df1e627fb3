package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/scry-sync/internal/platform/journaldb"
)

// HistoryCmd shows recent sync runs recorded in the journal.
type HistoryCmd struct {
	Limit int    `short:"n" default:"10" help:"Number of runs to show"`
	RunID string `name:"run" help:"Show the card entries of one run"`
	Prune int    `default:"-1" help:"Delete all but the N most recent runs"`
}

// Run implements the history command.
func (c *HistoryCmd) Run(rt *runtime) error {
	cfg, err := loadConfig(rt)
	if err != nil {
		return err
	}
	if cfg.Journal.URL == "" {
		return errJournalDisabled
	}

	app, err := newApplication(rt, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	if c.Prune >= 0 {
		deleted, err := app.journal.Prune(rt.ctx, c.Prune)
		if err != nil {
			return fmt.Errorf("failed to prune journal: %w", err)
		}
		fmt.Fprintf(rt.stdout, "deleted %d runs\n", deleted)
		return nil
	}

	if c.RunID != "" {
		return c.printEntries(rt, app)
	}

	runs, err := app.journal.RecentRuns(rt.ctx, c.Limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(rt.stdout, "no sync runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(rt.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tDECK\tCHANGED\tAPPLIED\tSKIPPED\tNOT FOUND\tFAILED\tMODE")
	for _, run := range runs {
		mode := "write"
		if run.Preview {
			mode = "preview"
		}
		if run.FinishedAt == nil {
			mode += " (unfinished)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			run.ID, run.StartedAt.Local().Format(time.DateTime), run.Deck,
			run.Changed, run.Applied, run.Skipped, run.NotFound, run.Failed, mode)
	}
	return w.Flush()
}

func (c *HistoryCmd) printEntries(rt *runtime, app *application) error {
	runID, err := uuid.Parse(c.RunID)
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", c.RunID, err)
	}

	entries, err := app.journal.EntriesForRun(rt.ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintf(rt.stdout, "no entries for run %s\n", runID)
		return nil
	}

	w := tabwriter.NewWriter(rt.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CARD ID\tOUTCOME\tSOURCE\tNEW DIGEST")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.CardID, e.Outcome, e.Source, shortDigest(e.NewDigest))
	}
	return w.Flush()
}

func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}

// MigrateCmd applies the embedded journal migrations.
type MigrateCmd struct {
	Status bool `help:"Only report which migrations are applied"`
}

// Run implements the migrate command.
func (c *MigrateCmd) Run(rt *runtime) error {
	cfg, err := loadConfig(rt)
	if err != nil {
		return err
	}

	log, err := setupLogger(rt, cfg)
	if err != nil {
		return err
	}

	db, dialect, err := openJournal(rt.ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if !c.Status {
		if err := journaldb.Migrate(rt.ctx, db, dialect, log); err != nil {
			return err
		}
	}

	statuses, err := journaldb.Status(rt.ctx, db, dialect)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(rt.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE\tSOURCE")
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, state, s.Source)
	}
	return w.Flush()
}
