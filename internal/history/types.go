package history

import (
	"errors"
	"time"
)

var ErrMatchNotFinished = errors.New("only finished matches can be recorded")

// Standing is one player's final line in a match record.
type Standing struct {
	Name       string `json:"name"`
	FinalScore int    `json:"final_score"`
	Rank       int    `json:"rank"`
}

// Record is the immutable snapshot of a finished match kept in history.
type Record struct {
	ID          string     `json:"id"`
	Date        time.Time  `json:"date"`
	Players     []Standing `json:"players"`
	Winners     []string   `json:"winners"`
	TotalRounds int        `json:"total_rounds"`
	PlayerCount int        `json:"player_count"`
}
