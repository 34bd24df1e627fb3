// Package service orchestrates a sync run: it loads the local and remote
// card collections, reconciles them and writes remote changes back into the
// local documents, optionally asking for confirmation card by card.
//
// Dependencies are interfaces so the run can be exercised without a vault
// on disk or a running AnkiConnect endpoint.
package service
