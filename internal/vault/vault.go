// Package vault reads and rewrites the local document tree.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/natefinch/atomic"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/marker"
)

// DefaultExtensions lists the document extensions scanned when none are configured.
var DefaultExtensions = []string{".md"}

const defaultFileMode fs.FileMode = 0o644

// Vault is a directory tree of documents.
type Vault struct {
	root       string
	extensions []string
	logger     *slog.Logger
}

// documentMeta is the subset of YAML front matter the vault understands.
type documentMeta struct {
	// Flashcards set to false excludes the document from scanning.
	Flashcards *bool `yaml:"flashcards"`
}

// New creates a Vault rooted at root. Returns an error if root is empty or
// is not a directory.
func New(root string, extensions []string, log *slog.Logger) (*Vault, error) {
	if strings.TrimSpace(root) == "" {
		return nil, domain.NewValidationError("root", "cannot be empty", domain.ErrValidation)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, domain.NewValidationError("root", root+" is not a directory", domain.ErrValidation)
	}

	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}

	if log == nil {
		log = slog.Default()
	}

	return &Vault{
		root:       filepath.Clean(root),
		extensions: normalized,
		logger:     log.With(slog.String("component", "vault")),
	}, nil
}

// Root returns the vault directory.
func (v *Vault) Root() string {
	return v.root
}

// Documents returns the paths of all scannable documents in lexical order.
// Hidden directories are not descended into.
func (v *Vault) Documents(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != v.root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}

		if v.matches(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault %s: %w", v.root, err)
	}

	return paths, nil
}

// ReadDocument returns the full text of the document at path.
func (v *Vault) ReadDocument(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteDocument atomically replaces the document at path. An existing
// file keeps its permissions.
func (v *Vault) WriteDocument(ctx context.Context, path, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mode := defaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	// atomic.WriteFile does not set permissions on new files.
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	return nil
}

// LoadCards extracts every card in the vault, keyed by identifier.
//
// When an identifier appears more than once, the first occurrence in walk
// order is kept and the others are logged. Documents whose front matter sets
// "flashcards: false" are skipped.
func (v *Vault) LoadCards(ctx context.Context) (map[string]domain.Card, error) {
	paths, err := v.Documents(ctx)
	if err != nil {
		return nil, err
	}

	cards := make(map[string]domain.Card)
	for _, path := range paths {
		text, err := v.ReadDocument(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if v.optedOut(path, text) {
			v.logger.Debug("document opted out of flashcards", slog.String("source", path))
			continue
		}

		for card := range marker.Cards(text, path) {
			if first, dup := cards[card.ID]; dup {
				v.logger.Warn("duplicate card identifier, keeping first occurrence",
					slog.String("card_id", card.ID),
					slog.String("kept", first.Source),
					slog.String("ignored", path))
				continue
			}
			cards[card.ID] = card
		}
	}

	v.logger.Debug("vault scanned",
		slog.Int("documents", len(paths)),
		slog.Int("cards", len(cards)))

	return cards, nil
}

func (v *Vault) matches(path string) bool {
	return slices.Contains(v.extensions, strings.ToLower(filepath.Ext(path)))
}

func (v *Vault) optedOut(path, text string) bool {
	if !strings.HasPrefix(text, "---") && !strings.HasPrefix(text, "+++") {
		return false
	}

	var meta documentMeta
	if _, err := frontmatter.Parse(strings.NewReader(text), &meta); err != nil {
		v.logger.Warn("unreadable front matter, scanning document anyway",
			slog.String("source", path),
			slog.String("error", err.Error()))
		return false
	}

	return meta.Flashcards != nil && !*meta.Flashcards
}
