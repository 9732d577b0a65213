package matchdto

import "time"

// Read-only views handed to the rendering layer. They carry no behavior
// and never reference engine internals.

type PlayerView struct {
	ID         string
	Name       string
	Position   int
	TotalScore int
}

type RoundPlayerView struct {
	PlayerID string
	Name     string
	Estimate *int
	Outcome  *int
	Score    *int
}

type RoundView struct {
	Number    int
	CardCount int
	Dealer    PlayerView
	Status    string
	Players   []RoundPlayerView
}

type MatchView struct {
	ID                string
	CreatedAt         time.Time
	FinishedAt        *time.Time
	Status            string
	Players           []PlayerView
	CurrentRoundIndex int
	TotalRounds       int
	RoundSequence     []int
	CurrentRound      *RoundView
}

type StandingView struct {
	Name       string
	FinalScore int
	Rank       int
}

type HistoryView struct {
	ID          string
	Date        time.Time
	Players     []StandingView
	Winners     []string
	TotalRounds int
	PlayerCount int
}
