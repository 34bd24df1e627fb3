// Package store defines interfaces for sync journal persistence.
// These interfaces keep the sync service independent of the database
// that backs the journal.
package store
