package journaldb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/phrazzld/scry-sync/internal/domain"
)

// Dialect identifies the SQL backend behind a journal.
type Dialect string

// Supported dialects.
const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const sqlitePrefix = "sqlite://"

// ParseURL returns the dialect for a journal URL and the DSN handed to the
// database driver.
func ParseURL(journalURL string) (Dialect, string, error) {
	journalURL = strings.TrimSpace(journalURL)
	switch {
	case journalURL == "":
		return "", "", domain.NewValidationError("journal.url", "cannot be empty", domain.ErrValidation)
	case strings.HasPrefix(journalURL, "postgres://"), strings.HasPrefix(journalURL, "postgresql://"):
		return DialectPostgres, journalURL, nil
	default:
		path := strings.TrimPrefix(journalURL, sqlitePrefix)
		if path == "" {
			return "", "", domain.NewValidationError("journal.url", "sqlite path cannot be empty", domain.ErrValidation)
		}
		return DialectSQLite, path, nil
	}
}

// Open connects to the journal database at journalURL and verifies the
// connection. SQLite parent directories are created as needed.
func Open(ctx context.Context, journalURL string) (*sql.DB, Dialect, error) {
	dialect, dsn, err := ParseURL(journalURL)
	if err != nil {
		return nil, "", err
	}

	var db *sql.DB
	switch dialect {
	case DialectPostgres:
		db, err = sql.Open("pgx", dsn)
	case DialectSQLite:
		if dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, "", fmt.Errorf("failed to create journal directory: %w", err)
			}
		}
		db, err = sql.Open("sqlite", dsn+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite")
		if err == nil {
			// SQLite allows a single writer.
			db.SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s journal: %w", dialect, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to connect to %s journal: %w", dialect, err)
	}

	return db, dialect, nil
}

// rebind rewrites ? placeholders into the form the dialect expects.
func rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
