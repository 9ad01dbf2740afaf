// Package snapshots writes per-day scoreboard files so finished and in-progress
// matches can be served or archived without touching the match store.
package snapshots

import (
	"sort"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/timeutil"
)

// Scoreboard is the snapshot payload for one UTC day.
type Scoreboard struct {
	Date    string          `json:"date"`
	Matches []matches.Match `json:"matches"`
}

// DateOf is the day a match is filed under: its scheduled start when set,
// otherwise its creation time.
func DateOf(m matches.Match) string {
	if m.ScheduledAt != nil && !m.ScheduledAt.IsZero() {
		return timeutil.FormatDate(*m.ScheduledAt)
	}
	return timeutil.FormatDate(m.CreatedAt)
}

// GroupByDate splits matches into per-day scoreboards.
func GroupByDate(list []matches.Match) map[string]Scoreboard {
	boards := make(map[string]Scoreboard)
	for _, m := range list {
		date := DateOf(m)
		board := boards[date]
		board.Date = date
		board.Matches = append(board.Matches, m)
		boards[date] = board
	}
	return boards
}

// ForDate returns the scoreboard for one day; it is empty when nothing matches.
func ForDate(list []matches.Match, date string) Scoreboard {
	board := Scoreboard{Date: date, Matches: []matches.Match{}}
	for _, m := range list {
		if DateOf(m) == date {
			board.Matches = append(board.Matches, m)
		}
	}
	return board
}

func (b *Scoreboard) sort() {
	if b.Matches == nil {
		b.Matches = []matches.Match{}
	}
	sort.Slice(b.Matches, func(i, j int) bool {
		return b.Matches[i].ID < b.Matches[j].ID
	})
}
