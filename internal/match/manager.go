package match

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rcamargo/estimativa-tracker/internal/obslog"
	"github.com/rcamargo/estimativa-tracker/internal/rules"
)

// Recorder receives a finished match to snapshot into history. Wired via
// AttachRecorder so the history package can depend on this one.
type Recorder interface {
	RecordFinished(ctx context.Context, m *Match) error
}

// Manager owns the single active match. Commands validate against the
// current snapshot, build a full replacement value and swap it in, so a
// command either applies completely or not at all. Guarded commands that
// do not apply are silent no-ops; only broken invariants return errors.
type Manager struct {
	mu       sync.RWMutex
	cur      *Match
	store    *Store
	recorder Recorder
}

// NewManager builds a Manager. rdb may be nil, in which case the match
// lives in memory only.
func NewManager(rdb *redis.Client) *Manager {
	m := &Manager{}
	if rdb != nil {
		m.store = NewStore(rdb)
	}
	return m
}

// AttachRecorder wires the history recorder invoked by FinishMatch.
func (mgr *Manager) AttachRecorder(r Recorder) {
	if mgr != nil {
		mgr.recorder = r
	}
}

// Restore reloads a persisted active match, if any, so a restarted
// process resumes where it stopped.
func (mgr *Manager) Restore(ctx context.Context) error {
	if mgr.store == nil {
		return nil
	}
	m, err := mgr.store.Load(ctx)
	if err != nil {
		return err
	}
	if m == nil {
		return nil
	}
	mgr.mu.Lock()
	mgr.cur = m
	mgr.mu.Unlock()
	obslog.L().Info("match_restore", zap.String("match_id", m.ID), zap.Int("round", m.CurrentRoundIndex+1))
	return nil
}

// CreateMatch starts a new match with the given player names (seated in
// order, positions 1..N) and the position of the first dealer. Any
// previously active match is replaced.
func (mgr *Manager) CreateMatch(ctx context.Context, names []string, firstDealerPosition int) (*Match, error) {
	if len(names) < rules.MinPlayers || len(names) > rules.MaxPlayers {
		return nil, ErrInvalidSetup
	}
	if firstDealerPosition < 1 || firstDealerPosition > len(names) {
		return nil, ErrInvalidSetup
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return nil, ErrInvalidSetup
		}
	}

	seq, err := rules.RoundSequence(len(names))
	if err != nil {
		return nil, ErrInvalidSetup
	}

	players := make([]Player, 0, len(names))
	for i, n := range names {
		players = append(players, Player{
			ID:       uuid.NewString(),
			Name:     strings.TrimSpace(n),
			Position: i + 1,
		})
	}

	m := &Match{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now(),
		Status:        StatusInProgress,
		Players:       players,
		TotalRounds:   len(seq),
		RoundSequence: seq,
	}
	dealer := m.PlayerByPosition(firstDealerPosition)
	m.Rounds = []Round{newRound(1, seq[0], dealer.ID, players)}

	mgr.mu.Lock()
	mgr.cur = m
	mgr.mu.Unlock()

	obslog.L().Info("match_create",
		zap.String("match_id", m.ID),
		zap.Int("players", len(players)),
		zap.Int("total_rounds", m.TotalRounds),
		zap.Int("first_dealer_position", firstDealerPosition),
	)
	if err := mgr.save(ctx, m); err != nil {
		return m.clone(), err
	}
	return m.clone(), nil
}

// ResetMatch discards the active match entirely. Always allowed.
func (mgr *Manager) ResetMatch(ctx context.Context) error {
	mgr.mu.Lock()
	old := mgr.cur
	mgr.cur = nil
	mgr.mu.Unlock()
	if old != nil {
		obslog.L().Info("match_reset", zap.String("match_id", old.ID))
	}
	if mgr.store == nil {
		return nil
	}
	return mgr.store.Clear(ctx)
}

// SetEstimate records a player's estimate for the current round. Ignored
// unless the round is estimating and the value is within 0..cardCount.
func (mgr *Manager) SetEstimate(ctx context.Context, playerID string, estimate int) error {
	return mgr.apply(ctx, func(m *Match) bool {
		r := m.CurrentRound()
		if r == nil || r.Status != RoundEstimating {
			return false
		}
		if estimate < 0 || estimate > r.CardCount {
			return false
		}
		for i := range r.Players {
			if r.Players[i].PlayerID == playerID {
				r.Players[i].Estimate = intPtr(estimate)
				return true
			}
		}
		return false
	})
}

// ConfirmEstimates closes the estimating phase once every player has
// estimated. Outcomes start at zero: they are tally counters the table
// adjusts upward while the round is played.
func (mgr *Manager) ConfirmEstimates(ctx context.Context) error {
	return mgr.apply(ctx, func(m *Match) bool {
		r := m.CurrentRound()
		if r == nil || r.Status != RoundEstimating || !allEstimatesFilled(r) {
			return false
		}
		for i := range r.Players {
			r.Players[i].Outcome = intPtr(0)
		}
		r.Status = RoundPlaying
		obslog.L().Info("round_playing", zap.String("match_id", m.ID), zap.Int("round", r.Number))
		return true
	})
}

// SetOutcome records a player's win count for the current round. Ignored
// unless the round is playing and the value is within 0..cardCount.
func (mgr *Manager) SetOutcome(ctx context.Context, playerID string, outcome int) error {
	return mgr.apply(ctx, func(m *Match) bool {
		r := m.CurrentRound()
		if r == nil || r.Status != RoundPlaying {
			return false
		}
		if outcome < 0 || outcome > r.CardCount {
			return false
		}
		for i := range r.Players {
			if r.Players[i].PlayerID == playerID {
				r.Players[i].Outcome = intPtr(outcome)
				return true
			}
		}
		return false
	})
}

// FinishRound scores the current round and folds each score into the
// player totals. This is the only command that mutates cumulative totals,
// and it runs exactly once per round. A no-op until every outcome is
// reported and the outcomes sum to the dealt card count.
func (mgr *Manager) FinishRound(ctx context.Context) error {
	var scoreErr error
	err := mgr.apply(ctx, func(m *Match) bool {
		r := m.CurrentRound()
		if r == nil || r.Status != RoundPlaying || !allOutcomesFilled(r) {
			return false
		}
		if !rules.ValidateOutcomeTotal(entries(r), r.CardCount) {
			return false
		}

		results, err := rules.RoundResults(entries(r))
		if err != nil {
			// guarded above; reaching this means a broken invariant
			scoreErr = err
			return false
		}
		byID := make(map[string]rules.ScoreResult, len(results))
		for _, res := range results {
			byID[res.PlayerID] = res
		}
		for i := range r.Players {
			res := byID[r.Players[i].PlayerID]
			r.Players[i].Score = intPtr(res.Score)
		}
		for i := range m.Players {
			m.Players[i].TotalScore += byID[m.Players[i].ID].Score
		}
		r.Status = RoundFinished
		obslog.L().Info("round_finish", zap.String("match_id", m.ID), zap.Int("round", r.Number))
		return true
	})
	if scoreErr != nil {
		return scoreErr
	}
	return err
}

// AdvanceRound appends the next round once the current one is finished.
// The seat that estimated first becomes the next dealer.
func (mgr *Manager) AdvanceRound(ctx context.Context) error {
	var advErr error
	err := mgr.apply(ctx, func(m *Match) bool {
		r := m.CurrentRound()
		if r == nil || r.Status != RoundFinished || m.IsLastRound() {
			return false
		}
		dealer := m.PlayerByID(r.DealerID)
		if dealer == nil {
			advErr = ErrDealerNotFound
			return false
		}
		nextPos, err := rules.NextDealer(m.positions(), dealer.Position)
		if err != nil {
			advErr = ErrDealerNotFound
			return false
		}
		next := m.PlayerByPosition(nextPos)
		idx := m.CurrentRoundIndex + 1
		m.Rounds = append(m.Rounds, newRound(idx+1, m.RoundSequence[idx], next.ID, m.Players))
		m.CurrentRoundIndex = idx
		obslog.L().Info("round_advance",
			zap.String("match_id", m.ID),
			zap.Int("round", idx+1),
			zap.Int("card_count", m.RoundSequence[idx]),
			zap.Int("dealer_position", nextPos),
		)
		return true
	})
	if advErr != nil {
		return advErr
	}
	return err
}

// FinishMatch finalizes the match after the last round has finished,
// stamps the finish time and hands the result to the attached recorder.
func (mgr *Manager) FinishMatch(ctx context.Context) error {
	var finished *Match
	err := mgr.apply(ctx, func(m *Match) bool {
		r := m.CurrentRound()
		if m.Status != StatusInProgress || r == nil || !m.IsLastRound() || r.Status != RoundFinished {
			return false
		}
		now := time.Now()
		m.Status = StatusFinished
		m.FinishedAt = &now
		finished = m
		obslog.L().Info("match_finish", zap.String("match_id", m.ID))
		return true
	})
	if err != nil {
		return err
	}
	if finished != nil && mgr.recorder != nil {
		if rerr := mgr.recorder.RecordFinished(ctx, finished.clone()); rerr != nil {
			obslog.L().Error("history_record_failed", zap.String("match_id", finished.ID), zap.Error(rerr))
			return rerr
		}
	}
	return nil
}

// apply runs a command against a deep copy of the current match and swaps
// the copy in only when the command reports it applied.
func (mgr *Manager) apply(ctx context.Context, fn func(*Match) bool) error {
	mgr.mu.Lock()
	if mgr.cur == nil {
		mgr.mu.Unlock()
		return nil
	}
	next := mgr.cur.clone()
	if !fn(next) {
		mgr.mu.Unlock()
		return nil
	}
	mgr.cur = next
	mgr.mu.Unlock()
	return mgr.save(ctx, next)
}

func (mgr *Manager) save(ctx context.Context, m *Match) error {
	if mgr.store == nil {
		return nil
	}
	if err := mgr.store.Save(ctx, m); err != nil {
		obslog.L().Warn("match_save_failed", zap.String("match_id", m.ID), zap.Error(err))
		return err
	}
	return nil
}

func newRound(number, cardCount int, dealerID string, players []Player) Round {
	rps := make([]RoundPlayer, 0, len(players))
	for _, p := range players {
		rps = append(rps, RoundPlayer{PlayerID: p.ID})
	}
	return Round{
		Number:    number,
		CardCount: cardCount,
		DealerID:  dealerID,
		Status:    RoundEstimating,
		Players:   rps,
	}
}

func allEstimatesFilled(r *Round) bool {
	for _, p := range r.Players {
		if p.Estimate == nil {
			return false
		}
	}
	return true
}

func allOutcomesFilled(r *Round) bool {
	for _, p := range r.Players {
		if p.Outcome == nil {
			return false
		}
	}
	return true
}

func entries(r *Round) []rules.Entry {
	out := make([]rules.Entry, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, rules.Entry{PlayerID: p.PlayerID, Estimate: p.Estimate, Outcome: p.Outcome})
	}
	return out
}
