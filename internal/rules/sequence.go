package rules

import "errors"

// Player-count range the deck supports.
const (
	MinPlayers = 2
	MaxPlayers = 10
)

// One card is always set aside to reveal the trump suit, leaving 51 to deal.
// The 12-card cap keeps small tables from producing very long matches.
const (
	dealableCards = 51
	maxCardsCap   = 12
)

var ErrInvalidPlayerCount = errors.New("player count must be between 2 and 10")

// MaxCards returns the largest hand size dealable to each player.
func MaxCards(playerCount int) (int, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return 0, ErrInvalidPlayerCount
	}
	max := dealableCards / playerCount
	if max > maxCardsCap {
		max = maxCardsCap
	}
	return max, nil
}

// RoundSequence returns the card count dealt in each round of a match:
// ascending even values 2,4,...  up to the max, then descending odd values
// down to 1. The descending run starts at max-1 when the max is even and at
// max itself when it is odd, so no value repeats.
func RoundSequence(playerCount int) ([]int, error) {
	max, err := MaxCards(playerCount)
	if err != nil {
		return nil, err
	}

	seq := make([]int, 0, max)
	for i := 2; i <= max; i += 2 {
		seq = append(seq, i)
	}
	startDesc := max
	if max%2 == 0 {
		startDesc = max - 1
	}
	for i := startDesc; i >= 1; i -= 2 {
		seq = append(seq, i)
	}
	return seq, nil
}

// TotalRounds returns the number of rounds a match with the given player
// count will have.
func TotalRounds(playerCount int) (int, error) {
	seq, err := RoundSequence(playerCount)
	if err != nil {
		return 0, err
	}
	return len(seq), nil
}

// RoundsInfo bundles the derived round data for display.
type RoundsInfo struct {
	Total    int   `json:"total"`
	MaxCards int   `json:"max_cards"`
	Sequence []int `json:"sequence"`
}

func GetRoundsInfo(playerCount int) (*RoundsInfo, error) {
	seq, err := RoundSequence(playerCount)
	if err != nil {
		return nil, err
	}
	max, err := MaxCards(playerCount)
	if err != nil {
		return nil, err
	}
	return &RoundsInfo{Total: len(seq), MaxCards: max, Sequence: seq}, nil
}
