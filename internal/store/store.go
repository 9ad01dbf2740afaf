package store

import (
	"sort"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Sport  matches.Sport
	Status matches.Status
	Limit  int
}

// Matches reports whether a match passes the filter.
func (f ListFilter) Matches(m matches.Match) bool {
	if f.Sport != "" && m.Sport != f.Sport {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	return true
}

// SortNewestFirst orders matches by creation time, newest first, with id as a tiebreaker.
func SortNewestFirst(list []matches.Match) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}

func conflict(id string, want, got int64) error {
	return matches.Errorf(matches.KindConflict, "match %s is at version %d, expected %d", id, got, want)
}
