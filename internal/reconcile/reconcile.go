// Package reconcile compares the local and remote card collections.
//
// The remote collection is authoritative. A card present on both sides whose
// question or answer differs becomes a change request carrying the remote
// content and the local document it must be written to.
package reconcile

import (
	"cmp"
	"slices"

	"github.com/phrazzld/scry-sync/internal/domain"
)

// Summary counts how the two collections overlap.
type Summary struct {
	Local      int
	Remote     int
	Shared     int
	LocalOnly  int
	RemoteOnly int
	Changed    int
}

// DiffCards returns one change request per identifier present in both maps
// whose question or answer differs. Each request carries the remote question
// and answer with the local source and span. Results are sorted by ID.
func DiffCards(local, remote map[string]domain.Card) []domain.Card {
	var changed []domain.Card

	for id, l := range local {
		r, ok := remote[id]
		if !ok || l.SameContent(r) {
			continue
		}

		changed = append(changed, domain.Card{
			ID:       id,
			Question: r.Question,
			Answer:   r.Answer,
			Source:   l.Source,
			Span:     l.Span,
		})
	}

	slices.SortFunc(changed, func(a, b domain.Card) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return changed
}

// Summarize counts shared and one-sided identifiers. Cards that exist on
// only one side are reported here and otherwise left alone.
func Summarize(local, remote map[string]domain.Card) Summary {
	s := Summary{Local: len(local), Remote: len(remote)}

	for id, l := range local {
		r, ok := remote[id]
		if !ok {
			s.LocalOnly++
			continue
		}
		s.Shared++
		if !l.SameContent(r) {
			s.Changed++
		}
	}
	s.RemoteOnly = s.Remote - s.Shared

	return s
}

// LocalOnly returns the sorted identifiers that exist only locally.
func LocalOnly(local, remote map[string]domain.Card) []string {
	return missingFrom(local, remote)
}

// RemoteOnly returns the sorted identifiers that exist only remotely.
func RemoteOnly(local, remote map[string]domain.Card) []string {
	return missingFrom(remote, local)
}

func missingFrom(have, other map[string]domain.Card) []string {
	var ids []string
	for id := range have {
		if _, ok := other[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
