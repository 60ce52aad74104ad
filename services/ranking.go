package services

import (
	"sort"
	"time"

	"leaderboard-service/models"
	"leaderboard-service/store"
)

// LeaderboardEntry is one ranked line of a leaderboard: the player's latest
// submission inside the queried window, with its 1-based rank.
type LeaderboardEntry struct {
	Rank       int       `json:"rank"`
	PlayerName string    `json:"player_name"`
	Score      float64   `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// TimeWindow bounds a leaderboard query. Nil bounds are open; both bounds are
// inclusive. StartRaw/EndRaw keep the caller's original strings for display.
type TimeWindow struct {
	Start    *time.Time
	End      *time.Time
	StartRaw string
	EndRaw   string
}

// Period describes the window the way the API reports it.
func (w TimeWindow) Period() string {
	switch {
	case w.Start != nil && w.End != nil:
		return w.StartRaw + " to " + w.EndRaw
	case w.Start != nil:
		return "From " + w.StartRaw + " onwards"
	case w.End != nil:
		return "Until " + w.EndRaw
	default:
		return "All-time"
	}
}

// ParseTimeWindow parses optional start/end bounds. Date-only values (no
// time-of-day) normalize to day boundaries: start becomes 00:00:00, end
// becomes 23:59:59, both inclusive.
func ParseTimeWindow(start, end string) (TimeWindow, error) {
	window := TimeWindow{StartRaw: start, EndRaw: end}
	if start != "" {
		t, err := parseWindowBound(start, false)
		if err != nil {
			return TimeWindow{}, validationError("invalid start date %q", start)
		}
		window.Start = &t
	}
	if end != "" {
		t, err := parseWindowBound(end, true)
		if err != nil {
			return TimeWindow{}, validationError("invalid end date %q", end)
		}
		window.End = &t
	}
	return window, nil
}

func parseWindowBound(value string, endOfDay bool) (time.Time, error) {
	if len(value) == 10 {
		t, err := time.Parse("2006-01-02", value)
		if err != nil {
			return time.Time{}, err
		}
		if endOfDay {
			t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
		return t, nil
	}
	var lastErr error
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// BuildLeaderboard derives the current leaderboard from a slice of score
// submissions. For each player the single latest-timestamped submission wins
// ("current standing" means "most recent report", not "best attempt"); rows
// with identical timestamps fall back to insertion sequence.
//
// Ordering: score ascending for ASC competitions, descending for DESC; score
// ties order by timestamp ascending (whoever reached the score first ranks
// higher), then by insertion sequence. Ranks are distinct and sequential:
// this view never shares rank numbers, unlike the single-player rank lookup.
func BuildLeaderboard(rows []store.ScoreRow, sortingOrder string) []LeaderboardEntry {
	latest := make(map[string]store.ScoreRow)
	for _, row := range rows {
		current, seen := latest[row.PlayerName]
		if !seen || row.Timestamp.After(current.Timestamp) ||
			(row.Timestamp.Equal(current.Timestamp) && row.Seq > current.Seq) {
			latest[row.PlayerName] = row
		}
	}

	standings := make([]store.ScoreRow, 0, len(latest))
	for _, row := range latest {
		standings = append(standings, row)
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Score != b.Score {
			if sortingOrder == models.SortAsc {
				return a.Score < b.Score
			}
			return a.Score > b.Score
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.Seq < b.Seq
	})

	entries := make([]LeaderboardEntry, len(standings))
	for i, row := range standings {
		entries[i] = LeaderboardEntry{
			Rank:       i + 1,
			PlayerName: row.PlayerName,
			Score:      row.Score,
			Timestamp:  row.Timestamp,
		}
	}
	return entries
}
