package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fatih/color"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/patch"
	"github.com/phrazzld/scry-sync/internal/platform/ankiconnect"
	"github.com/phrazzld/scry-sync/internal/platform/logger"
	"github.com/phrazzld/scry-sync/internal/present"
	"github.com/phrazzld/scry-sync/internal/service"
	"github.com/phrazzld/scry-sync/internal/vault"
)

// SyncCmd writes remote card changes into local documents. Flags override
// the sync and vault sections of the configuration.
type SyncCmd struct {
	Deck         string `short:"d" help:"Anki deck to sync"`
	Dir          string `short:"v" help:"Vault directory holding the markdown notes" type:"path"`
	Preview      bool   `short:"p" help:"Write patched text to the preview file instead of the notes"`
	PreviewPath  string `name:"preview-path" help:"Preview file written in preview mode" type:"path"`
	Interactive  bool   `short:"i" help:"Ask before applying each change"`
	ContextLines int    `name:"context-lines" help:"Unchanged lines shown around each change (0 uses the configured value)"`
	NoColor      bool   `name:"no-color" help:"Disable colored diffs"`
}

// Run implements the sync command.
func (c *SyncCmd) Run(rt *runtime) error {
	cfg, err := loadConfig(rt)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg.Sync.Deck, cfg.Vault.Dir, cfg.Vault.PreviewPath, cfg.Sync.ContextLines)
	c.Preview = c.Preview || cfg.Sync.Preview
	c.Interactive = c.Interactive || cfg.Sync.Interactive

	if c.Deck == "" {
		return errors.New("a deck is required (--deck or sync.deck)")
	}
	if c.Dir == "" {
		return errors.New("a vault directory is required (--dir or vault.dir)")
	}

	app, err := newApplication(rt, cfg)
	if err != nil {
		return err
	}
	defer app.close()

	log := app.logger
	ctx := logger.WithLogger(rt.ctx, log)

	docs, err := vault.New(c.Dir, cfg.Vault.Extensions, log)
	if err != nil {
		return fmt.Errorf("failed to open vault: %w", err)
	}

	patcher, err := patch.NewPatcher(docs, patch.Options{
		Preview:     c.Preview,
		PreviewPath: c.PreviewPath,
	}, log)
	if err != nil {
		return err
	}

	anki, err := ankiconnect.NewClient(cfg.Anki, log)
	if err != nil {
		return fmt.Errorf("failed to create AnkiConnect client: %w", err)
	}

	var confirmer service.Confirmer
	if c.Interactive {
		confirmer = present.NewPrompter(rt.stdin, rt.stdout)
	}

	svc, err := service.NewSyncService(anki, docs, patcher, app.emitter, confirmer, log)
	if err != nil {
		return err
	}

	run, err := svc.Run(ctx, service.SyncOptions{
		Deck:         c.Deck,
		VaultDir:     docs.Root(),
		Preview:      c.Preview,
		Interactive:  c.Interactive,
		ContextLines: c.ContextLines,
		Color:        !c.NoColor && !color.NoColor,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			return fmt.Errorf("could not reach AnkiConnect at %s: %w", cfg.Anki.URL, err)
		}
		return err
	}

	printSummary(rt, run, c.PreviewPath)
	log.Debug("sync command finished", slog.String("run_id", run.ID.String()))
	return nil
}

func (c *SyncCmd) applyOverrides(deck, dir, previewPath string, contextLines int) {
	if c.Deck == "" {
		c.Deck = deck
	}
	if c.Dir == "" {
		c.Dir = dir
	}
	if c.PreviewPath == "" {
		c.PreviewPath = previewPath
	}
	if c.ContextLines <= 0 {
		c.ContextLines = contextLines
	}
}

func printSummary(rt *runtime, run *domain.SyncRun, previewPath string) {
	verb := "updated"
	if run.Preview {
		verb = "previewed"
	}

	fmt.Fprintf(rt.stdout, "%d local cards, %d remote cards, %d changed\n",
		run.LocalCards, run.RemoteCards, run.Changed)
	fmt.Fprintf(rt.stdout, "%d %s, %d skipped, %d not found, %d failed\n",
		run.Applied, verb, run.Skipped, run.NotFound, run.Failed)
	if run.Preview && run.Applied > 0 {
		fmt.Fprintf(rt.stdout, "preview written to %s\n", previewPath)
	}
	if run.LocalOnly > 0 || run.RemoteOnly > 0 {
		fmt.Fprintf(rt.stdout, "%d cards only in notes, %d only in Anki (left alone)\n",
			run.LocalOnly, run.RemoteOnly)
	}
}
