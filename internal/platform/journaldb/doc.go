// Package journaldb stores the sync journal in PostgreSQL or SQLite.
//
// The backend is chosen by the journal URL: postgres:// and postgresql://
// URLs use the pgx driver, anything else is treated as a SQLite database
// path with an optional sqlite:// prefix. Schema migrations are embedded and
// applied with goose.
package journaldb
