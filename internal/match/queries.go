package match

import "github.com/rcamargo/estimativa-tracker/internal/rules"

// Current returns a deep copy of the active match, nil when none exists.
func (mgr *Manager) Current() *Match {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	return mgr.cur.clone()
}

// CurrentRound returns a copy of the round being played.
func (mgr *Manager) CurrentRound() *Round {
	m := mgr.Current()
	if m == nil {
		return nil
	}
	return m.CurrentRound()
}

// CurrentDealer returns the dealer of the current round.
func (mgr *Manager) CurrentDealer() (*Player, error) {
	m := mgr.Current()
	if m == nil {
		return nil, ErrNoActiveMatch
	}
	r := m.CurrentRound()
	if r == nil {
		return nil, ErrNoActiveMatch
	}
	dealer := m.PlayerByID(r.DealerID)
	if dealer == nil {
		return nil, ErrDealerNotFound
	}
	return dealer, nil
}

// EstimationOrder returns the players of the current round in the order
// they announce estimates: counter-clockwise from the dealer's right,
// dealer last.
func (mgr *Manager) EstimationOrder() ([]Player, error) {
	m := mgr.Current()
	if m == nil {
		return nil, ErrNoActiveMatch
	}
	dealer, err := mgr.CurrentDealer()
	if err != nil {
		return nil, err
	}
	order, err := rules.EstimationOrder(m.positions(), dealer.Position)
	if err != nil {
		return nil, ErrDealerNotFound
	}
	out := make([]Player, 0, len(order))
	for _, pos := range order {
		out = append(out, *m.PlayerByPosition(pos))
	}
	return out, nil
}

// CanConfirmEstimates reports whether every estimate is in and the round
// is still estimating.
func (mgr *Manager) CanConfirmEstimates() bool {
	r := mgr.CurrentRound()
	return r != nil && r.Status == RoundEstimating && allEstimatesFilled(r)
}

// CanFinishRound reports whether the round is playing, every outcome is
// reported and the outcomes account for every dealt card.
func (mgr *Manager) CanFinishRound() bool {
	r := mgr.CurrentRound()
	return r != nil && r.Status == RoundPlaying && allOutcomesFilled(r) &&
		rules.ValidateOutcomeTotal(entries(r), r.CardCount)
}

// OutcomeValidation returns whether the reported outcomes are acceptable
// and the signed difference sum(outcomes)-cardCount that guides
// correction while they are not.
func (mgr *Manager) OutcomeValidation() (bool, int) {
	r := mgr.CurrentRound()
	if r == nil {
		return false, 0
	}
	diff := rules.OutcomeDifference(entries(r), r.CardCount)
	return diff == 0 && allOutcomesFilled(r), diff
}
