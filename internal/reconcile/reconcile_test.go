package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/scry-sync/internal/domain"
	"github.com/phrazzld/scry-sync/internal/reconcile"
)

func card(id, q, a, source string, start, end int) domain.Card {
	return domain.Card{ID: id, Question: q, Answer: a, Source: source, Span: domain.Span{Start: start, End: end}}
}

func TestDiffCards(t *testing.T) {
	t.Parallel()

	local := map[string]domain.Card{
		"1": card("1", "Q1", "Old A1", "file1.md", 0, 20),
		"2": card("2", "Q2", "A2", "file1.md", 21, 40),
	}
	remote := map[string]domain.Card{
		"1": card("1", "Q1", "New A1", "", 0, 0),
		"2": card("2", "Q2", "A2", "", 0, 0),
	}

	changed := reconcile.DiffCards(local, remote)

	require.Len(t, changed, 1)
	assert.Equal(t, "1", changed[0].ID)
	assert.Equal(t, "Q1", changed[0].Question)
	assert.Equal(t, "New A1", changed[0].Answer)
	assert.Equal(t, "file1.md", changed[0].Source)
	assert.Equal(t, domain.Span{Start: 0, End: 20}, changed[0].Span)
}

func TestDiffCards_QuestionChange(t *testing.T) {
	t.Parallel()

	local := map[string]domain.Card{"7": card("7", "old q", "a", "d.md", 3, 9)}
	remote := map[string]domain.Card{"7": card("7", "new q", "a", "", 0, 0)}

	changed := reconcile.DiffCards(local, remote)

	require.Len(t, changed, 1)
	assert.Equal(t, "new q", changed[0].Question)
	assert.Equal(t, "d.md", changed[0].Source)
}

func TestDiffCards_OneSidedCardsIgnored(t *testing.T) {
	t.Parallel()

	local := map[string]domain.Card{
		"local": card("local", "q", "a", "a.md", 0, 1),
	}
	remote := map[string]domain.Card{
		"remote": card("remote", "q", "b", "", 0, 0),
	}

	assert.Empty(t, reconcile.DiffCards(local, remote))
	assert.Empty(t, reconcile.DiffCards(local, nil))
	assert.Empty(t, reconcile.DiffCards(nil, remote))
}

func TestDiffCards_SortedByID(t *testing.T) {
	t.Parallel()

	local := map[string]domain.Card{}
	remote := map[string]domain.Card{}
	for _, id := range []string{"9", "10", "b", "a", "1"} {
		local[id] = card(id, "q", "old", id+".md", 0, 1)
		remote[id] = card(id, "q", "new", "", 0, 0)
	}

	var ids []string
	for _, c := range reconcile.DiffCards(local, remote) {
		ids = append(ids, c.ID)
	}

	assert.Equal(t, []string{"1", "10", "9", "a", "b"}, ids)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	local := map[string]domain.Card{
		"1": card("1", "q", "a", "x.md", 0, 1),
		"2": card("2", "q", "a", "x.md", 0, 1),
		"3": card("3", "q", "a", "x.md", 0, 1),
	}
	remote := map[string]domain.Card{
		"1": card("1", "q", "a", "", 0, 0),
		"2": card("2", "q", "changed", "", 0, 0),
		"4": card("4", "q", "a", "", 0, 0),
		"5": card("5", "q", "a", "", 0, 0),
	}

	s := reconcile.Summarize(local, remote)

	assert.Equal(t, reconcile.Summary{
		Local:      3,
		Remote:     4,
		Shared:     2,
		LocalOnly:  1,
		RemoteOnly: 2,
		Changed:    1,
	}, s)
	assert.Equal(t, []string{"3"}, reconcile.LocalOnly(local, remote))
	assert.Equal(t, []string{"4", "5"}, reconcile.RemoteOnly(local, remote))
}
