package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome is what happened to one changed card during a sync run.
type Outcome string

// Valid outcomes for a changed card.
const (
	OutcomeApplied   Outcome = "applied"
	OutcomePreviewed Outcome = "previewed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeFailed    Outcome = "failed"
)

// IsValid checks if the outcome is one of the defined values.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeApplied, OutcomePreviewed, OutcomeSkipped, OutcomeNotFound, OutcomeFailed:
		return true
	default:
		return false
	}
}

// SyncRun summarizes one reconciliation run.
type SyncRun struct {
	ID         uuid.UUID  `json:"id"`
	Deck       string     `json:"deck"`
	VaultDir   string     `json:"vault_dir"`
	Preview    bool       `json:"preview"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	LocalCards  int `json:"local_cards"`
	RemoteCards int `json:"remote_cards"`
	LocalOnly   int `json:"local_only"`
	RemoteOnly  int `json:"remote_only"`
	Changed     int `json:"changed"`
	Applied     int `json:"applied"`
	Skipped     int `json:"skipped"`
	NotFound    int `json:"not_found"`
	Failed      int `json:"failed"`
}

// NewSyncRun creates a run with a fresh ID and start time.
func NewSyncRun(deck, vaultDir string, preview bool) *SyncRun {
	return &SyncRun{
		ID:        uuid.New(),
		Deck:      deck,
		VaultDir:  vaultDir,
		Preview:   preview,
		StartedAt: time.Now().UTC(),
	}
}

// Count records one outcome in the run counters.
func (r *SyncRun) Count(outcome Outcome) {
	switch outcome {
	case OutcomeApplied, OutcomePreviewed:
		r.Applied++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeNotFound:
		r.NotFound++
	case OutcomeFailed:
		r.Failed++
	}
}

// Finish stamps the finish time.
func (r *SyncRun) Finish() {
	now := time.Now().UTC()
	r.FinishedAt = &now
}

// JournalEntry records the outcome for one card in a run.
// Digests identify card text without storing it.
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	CardID    string    `json:"card_id"`
	Source    string    `json:"source"`
	Outcome   Outcome   `json:"outcome"`
	OldDigest string    `json:"old_digest,omitempty"`
	NewDigest string    `json:"new_digest,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
