// Package events carries sync progress from the sync service to interested
// handlers without coupling the service to them.
//
// The service emits a SyncEvent when a run starts, for every changed card and
// when the run finishes. Handlers log the outcome or record it in the sync
// journal.
package events
