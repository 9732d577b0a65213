package rules

import "errors"

const zeroHitBonus = 5

var ErrIncompleteRound = errors.New("round has players without estimate or outcome")

// Entry is one player's reported numbers for a round. Estimate and Outcome
// are nil until the player reports them.
type Entry struct {
	PlayerID string
	Estimate *int
	Outcome  *int
}

// ScoreResult is the computed outcome of one entry. It only exists while a
// round is being finished; nothing persists it.
type ScoreResult struct {
	PlayerID string
	Estimate int
	Outcome  int
	Score    int
	Hit      bool
	ZeroHit  bool
}

// Score applies the Estimativa formula: an exact estimate earns 10 points
// per trick won, except a deliberate zero bid which earns a flat bonus; a
// miss costs 10 points per trick of error.
func Score(estimate, outcome int) int {
	if estimate == outcome {
		if outcome == 0 {
			return zeroHitBonus
		}
		return 10 * outcome
	}
	diff := estimate - outcome
	if diff < 0 {
		diff = -diff
	}
	return -10 * diff
}

// RoundResults scores every entry of a round, preserving order. All
// entries must have both estimate and outcome reported.
func RoundResults(entries []Entry) ([]ScoreResult, error) {
	results := make([]ScoreResult, 0, len(entries))
	for _, e := range entries {
		if e.Estimate == nil || e.Outcome == nil {
			return nil, ErrIncompleteRound
		}
		hit := *e.Estimate == *e.Outcome
		results = append(results, ScoreResult{
			PlayerID: e.PlayerID,
			Estimate: *e.Estimate,
			Outcome:  *e.Outcome,
			Score:    Score(*e.Estimate, *e.Outcome),
			Hit:      hit,
			ZeroHit:  hit && *e.Outcome == 0,
		})
	}
	return results, nil
}

// ValidateOutcomeTotal reports whether the outcomes sum to exactly the
// number of dealt cards: every trick is won by exactly one player.
func ValidateOutcomeTotal(entries []Entry, cardCount int) bool {
	return OutcomeDifference(entries, cardCount) == 0
}

// OutcomeDifference returns sum(outcomes) - cardCount. Positive means too
// many reported wins, negative too few; unreported outcomes count as zero.
func OutcomeDifference(entries []Entry, cardCount int) int {
	total := 0
	for _, e := range entries {
		if e.Outcome != nil {
			total += *e.Outcome
		}
	}
	return total - cardCount
}
