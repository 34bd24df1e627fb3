package domain

import (
	"errors"
	"testing"
)

func TestNewCard(t *testing.T) {
	t.Parallel()

	card, err := NewCard("123", "  What is Go?  ", "\n- A programming language\n", "notes/go.md")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.ID != "123" {
		t.Errorf("Expected ID %q, got %q", "123", card.ID)
	}

	if card.Question != "What is Go?" {
		t.Errorf("Expected trimmed question, got %q", card.Question)
	}

	if card.Answer != "- A programming language" {
		t.Errorf("Expected trimmed answer, got %q", card.Answer)
	}

	if card.Source != "notes/go.md" {
		t.Errorf("Expected source %q, got %q", "notes/go.md", card.Source)
	}

	_, err = NewCard("", "q", "a", "")
	if !errors.Is(err, ErrCardIDEmpty) {
		t.Errorf("Expected error %v, got %v", ErrCardIDEmpty, err)
	}
}

func TestCardValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		card    Card
		wantErr error
	}{
		{
			name: "valid card",
			card: Card{ID: "1", Question: "Q1", Answer: "- a\n- b"},
		},
		{
			name: "any token form is accepted",
			card: Card{ID: "abc-123_x", Question: "Q1", Answer: "a"},
		},
		{
			name:    "empty ID",
			card:    Card{Question: "Q1", Answer: "a"},
			wantErr: ErrCardIDEmpty,
		},
		{
			name:    "ID with whitespace",
			card:    Card{ID: "1 2", Question: "Q1", Answer: "a"},
			wantErr: ErrCardIDInvalid,
		},
		{
			name:    "ID with marker close",
			card:    Card{ID: "1-->", Question: "Q1", Answer: "a"},
			wantErr: ErrCardIDInvalid,
		},
		{
			name:    "multi-line question",
			card:    Card{ID: "1", Question: "Q1\nmore", Answer: "a"},
			wantErr: ErrCardContentInvalid,
		},
		{
			name:    "answer with identifier marker",
			card:    Card{ID: "1", Question: "Q1", Answer: "a\n<!--ID: 2-->"},
			wantErr: ErrCardContentInvalid,
		},
		{
			name:    "answer line starting a question",
			card:    Card{ID: "1", Question: "Q1", Answer: "a\nQ: sneaky"},
			wantErr: ErrCardContentInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.card.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCardRender(t *testing.T) {
	t.Parallel()

	card := Card{ID: "456", Question: "Who created Python?", Answer: "- Guido van Rossum"}
	want := "Q: Who created Python?\n- Guido van Rossum\n<!--ID: 456-->"

	if got := card.Render(); got != want {
		t.Errorf("Expected render %q, got %q", want, got)
	}
}

func TestCardString(t *testing.T) {
	t.Parallel()

	card := Card{ID: "1", Question: "What is Python?", Answer: "A programming language", Source: "test.md"}
	want := "ID: 1\nSource: test.md\nQ: What is Python?\nA: A programming language"

	if got := card.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestSpanOverlaps(t *testing.T) {
	t.Parallel()

	a := Span{Start: 0, End: 10}
	b := Span{Start: 10, End: 20}
	c := Span{Start: 5, End: 15}

	if a.Overlaps(b) {
		t.Error("Adjacent half-open spans should not overlap")
	}
	if !a.Overlaps(c) || !c.Overlaps(b) {
		t.Error("Intersecting spans should overlap")
	}
	if a.Len() != 10 {
		t.Errorf("Expected length 10, got %d", a.Len())
	}
}

func TestSyncRunCount(t *testing.T) {
	t.Parallel()

	run := NewSyncRun("Default", "/vault", false)
	for _, o := range []Outcome{OutcomeApplied, OutcomePreviewed, OutcomeSkipped, OutcomeNotFound, OutcomeFailed, OutcomeFailed} {
		if !o.IsValid() {
			t.Fatalf("Expected outcome %q to be valid", o)
		}
		run.Count(o)
	}

	if run.Applied != 2 || run.Skipped != 1 || run.NotFound != 1 || run.Failed != 2 {
		t.Errorf("Unexpected counters: %+v", run)
	}
	if Outcome("bogus").IsValid() {
		t.Error("Expected unknown outcome to be invalid")
	}

	run.Finish()
	if run.FinishedAt == nil || run.FinishedAt.Before(run.StartedAt) {
		t.Error("Expected finish time after start time")
	}
}
