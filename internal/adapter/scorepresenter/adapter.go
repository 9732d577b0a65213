package scorepresenter

import (
	"github.com/rcamargo/estimativa-tracker/internal/history"
	"github.com/rcamargo/estimativa-tracker/internal/match"
	"github.com/rcamargo/estimativa-tracker/pkg/matchdto"
)

func ToMatchView(m *match.Match) *matchdto.MatchView {
	if m == nil {
		return nil
	}
	players := make([]matchdto.PlayerView, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, toPlayerView(p))
	}
	v := &matchdto.MatchView{
		ID:                m.ID,
		CreatedAt:         m.CreatedAt,
		FinishedAt:        m.FinishedAt,
		Status:            string(m.Status),
		Players:           players,
		CurrentRoundIndex: m.CurrentRoundIndex,
		TotalRounds:       m.TotalRounds,
		RoundSequence:     append([]int(nil), m.RoundSequence...),
	}
	if r := m.CurrentRound(); r != nil {
		v.CurrentRound = ToRoundView(m, r)
	}
	return v
}

func ToRoundView(m *match.Match, r *match.Round) *matchdto.RoundView {
	if m == nil || r == nil {
		return nil
	}
	players := make([]matchdto.RoundPlayerView, 0, len(r.Players))
	for _, rp := range r.Players {
		name := ""
		if p := m.PlayerByID(rp.PlayerID); p != nil {
			name = p.Name
		}
		players = append(players, matchdto.RoundPlayerView{
			PlayerID: rp.PlayerID,
			Name:     name,
			Estimate: rp.Estimate,
			Outcome:  rp.Outcome,
			Score:    rp.Score,
		})
	}
	v := &matchdto.RoundView{
		Number:    r.Number,
		CardCount: r.CardCount,
		Status:    string(r.Status),
		Players:   players,
	}
	if dealer := m.PlayerByID(r.DealerID); dealer != nil {
		v.Dealer = toPlayerView(*dealer)
	}
	return v
}

func ToHistoryView(rec *history.Record) *matchdto.HistoryView {
	if rec == nil {
		return nil
	}
	standings := make([]matchdto.StandingView, 0, len(rec.Players))
	for _, s := range rec.Players {
		standings = append(standings, matchdto.StandingView{
			Name:       s.Name,
			FinalScore: s.FinalScore,
			Rank:       s.Rank,
		})
	}
	return &matchdto.HistoryView{
		ID:          rec.ID,
		Date:        rec.Date,
		Players:     standings,
		Winners:     append([]string(nil), rec.Winners...),
		TotalRounds: rec.TotalRounds,
		PlayerCount: rec.PlayerCount,
	}
}

// ToPlayerViews converts an ordered player list, e.g. an estimation order.
func ToPlayerViews(players []match.Player) []matchdto.PlayerView {
	out := make([]matchdto.PlayerView, 0, len(players))
	for _, p := range players {
		out = append(out, toPlayerView(p))
	}
	return out
}

func toPlayerView(p match.Player) matchdto.PlayerView {
	return matchdto.PlayerView{
		ID:         p.ID,
		Name:       p.Name,
		Position:   p.Position,
		TotalScore: p.TotalScore,
	}
}
