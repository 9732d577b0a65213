package match

import (
	"errors"
	"time"
)

// RoundStatus is the strict forward-only lifecycle of a round.
type RoundStatus string

const (
	RoundEstimating RoundStatus = "estimating"
	RoundPlaying    RoundStatus = "playing"
	RoundFinished   RoundStatus = "finished"
)

// Status represents a match lifecycle state.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

var (
	ErrInvalidSetup   = errors.New("invalid match setup")
	ErrNoActiveMatch  = errors.New("no active match")
	ErrDealerNotFound = errors.New("dealer not found among match players")
)

// Player is a seated participant. Position is the fixed table seat
// (1..N, clockwise) assigned at creation; TotalScore accumulates as
// rounds finish and is only ever touched by FinishRound.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
	TotalScore int    `json:"total_score"`
}

// RoundPlayer is one player's record within a round. The pointers act as
// phase markers: Estimate is set while estimating, Outcome exists once the
// round is playing, Score only once it is finished.
type RoundPlayer struct {
	PlayerID string `json:"player_id"`
	Estimate *int   `json:"estimate"`
	Outcome  *int   `json:"outcome"`
	Score    *int   `json:"score"`
}

// Round covers a single deal. Players is kept in table order.
type Round struct {
	Number    int           `json:"number"`
	CardCount int           `json:"card_count"`
	DealerID  string        `json:"dealer_id"`
	Status    RoundStatus   `json:"status"`
	Players   []RoundPlayer `json:"players"`
}

// Match is the persisted state of one Estimativa match. Rounds is
// append-only; only the last round is ever mutated.
type Match struct {
	ID                string     `json:"id"`
	CreatedAt         time.Time  `json:"created_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
	Status            Status     `json:"status"`
	Players           []Player   `json:"players"`
	Rounds            []Round    `json:"rounds"`
	CurrentRoundIndex int        `json:"current_round_index"`
	TotalRounds       int        `json:"total_rounds"`
	RoundSequence     []int      `json:"round_sequence"`
}

// CurrentRound returns the round being played, nil on an empty match.
func (m *Match) CurrentRound() *Round {
	if m == nil || m.CurrentRoundIndex >= len(m.Rounds) {
		return nil
	}
	return &m.Rounds[m.CurrentRoundIndex]
}

// IsLastRound reports whether the current round is the final one.
func (m *Match) IsLastRound() bool {
	return m != nil && m.CurrentRoundIndex == m.TotalRounds-1
}

// PlayerByID returns the player with the given identity, nil if absent.
func (m *Match) PlayerByID(id string) *Player {
	if m == nil {
		return nil
	}
	for i := range m.Players {
		if m.Players[i].ID == id {
			return &m.Players[i]
		}
	}
	return nil
}

// PlayerByPosition returns the player seated at the given position.
func (m *Match) PlayerByPosition(position int) *Player {
	if m == nil {
		return nil
	}
	for i := range m.Players {
		if m.Players[i].Position == position {
			return &m.Players[i]
		}
	}
	return nil
}

func (m *Match) positions() []int {
	out := make([]int, 0, len(m.Players))
	for _, p := range m.Players {
		out = append(out, p.Position)
	}
	return out
}

// clone produces a deep copy so commands can build a replacement value
// without touching the published snapshot.
func (m *Match) clone() *Match {
	if m == nil {
		return nil
	}
	cp := *m
	cp.Players = append([]Player(nil), m.Players...)
	cp.RoundSequence = append([]int(nil), m.RoundSequence...)
	cp.Rounds = make([]Round, len(m.Rounds))
	for i, r := range m.Rounds {
		cp.Rounds[i] = r
		cp.Rounds[i].Players = make([]RoundPlayer, len(r.Players))
		for j, rp := range r.Players {
			cp.Rounds[i].Players[j] = rp
			cp.Rounds[i].Players[j].Estimate = copyInt(rp.Estimate)
			cp.Rounds[i].Players[j].Outcome = copyInt(rp.Outcome)
			cp.Rounds[i].Players[j].Score = copyInt(rp.Score)
		}
	}
	if m.FinishedAt != nil {
		t := *m.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func intPtr(v int) *int { return &v }
