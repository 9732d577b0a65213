package scorepresenter

import (
	"fmt"
	"strings"

	"github.com/rcamargo/estimativa-tracker/internal/msgcat"
	"github.com/rcamargo/estimativa-tracker/internal/rules"
	"github.com/rcamargo/estimativa-tracker/pkg/matchdto"
)

// Formatter renders match views into the text blocks the hosting UI
// displays. Every template lookup falls back to a plain rendering so a
// broken override directory never blanks the screen.
type Formatter struct {
	cat *msgcat.Catalog
}

func NewFormatter(cat *msgcat.Catalog) *Formatter {
	return &Formatter{cat: cat}
}

func (f *Formatter) render(key string, data map[string]any, fallback string) string {
	if f != nil && f.cat != nil {
		if out, err := f.cat.Render(key, data); err == nil {
			return out
		}
	}
	return fallback
}

// RoundHeader describes the round about to be played.
func (f *Formatter) RoundHeader(v *matchdto.MatchView) string {
	if v == nil || v.CurrentRound == nil {
		return ""
	}
	r := v.CurrentRound
	return f.render("round.header", map[string]any{
		"Number":    r.Number,
		"Total":     v.TotalRounds,
		"CardCount": r.CardCount,
		"Dealer":    r.Dealer.Name,
	}, fmt.Sprintf("Rodada %d/%d — %d cartas (dealer: %s)", r.Number, v.TotalRounds, r.CardCount, r.Dealer.Name))
}

// EstimationOrder lists the players in announcement order.
func (f *Formatter) EstimationOrder(order []matchdto.PlayerView) string {
	names := make([]string, 0, len(order))
	for _, p := range order {
		names = append(names, p.Name)
	}
	joined := strings.Join(names, " → ")
	return f.render("round.estimate_order", map[string]any{"Order": joined},
		"Ordem de estimativa: "+joined)
}

// RoundScores renders one line per player of a finished round.
func (f *Formatter) RoundScores(r *matchdto.RoundView) []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Estimate == nil || p.Outcome == nil || p.Score == nil {
			continue
		}
		est, out, score := *p.Estimate, *p.Outcome, *p.Score
		data := map[string]any{
			"Name":     p.Name,
			"Estimate": est,
			"Outcome":  out,
			"Score":    score,
		}
		switch {
		case est == out && out == 0:
			lines = append(lines, f.render("round.score_zero_hit", data,
				fmt.Sprintf("%s: zero certeiro (+%d pts)", p.Name, score)))
		case est == out:
			lines = append(lines, f.render("round.score_hit", data,
				fmt.Sprintf("%s: acertou %d (%d pts)", p.Name, out, score)))
		default:
			lines = append(lines, f.render("round.score_miss", data,
				fmt.Sprintf("%s: estimou %d, fez %d (%d pts)", p.Name, est, out, score)))
		}
	}
	return lines
}

// OutcomeHint explains an invalid outcome total while players correct it.
// Returns "" when the total already matches the dealt cards.
func (f *Formatter) OutcomeHint(difference int) string {
	switch {
	case difference > 0:
		return f.render("round.outcome_over", map[string]any{"Difference": difference},
			fmt.Sprintf("Sobram %d vitórias declaradas além das cartas", difference))
	case difference < 0:
		return f.render("round.outcome_under", map[string]any{"Difference": -difference},
			fmt.Sprintf("Faltam %d vitórias para fechar as cartas", -difference))
	default:
		return ""
	}
}

// Standings renders the cumulative score board, highest first.
func (f *Formatter) Standings(v *matchdto.MatchView) []string {
	if v == nil {
		return nil
	}
	entries := make([]rules.TotalEntry, 0, len(v.Players))
	for _, p := range v.Players {
		entries = append(entries, rules.TotalEntry{PlayerID: p.ID, Name: p.Name, TotalScore: p.TotalScore})
	}
	sorted := rules.SortByTotalScore(entries)
	ranks := rules.CompetitionRanks(sorted)
	lines := make([]string, 0, len(sorted))
	for i, e := range sorted {
		lines = append(lines, f.render("standings.line", map[string]any{
			"Rank":  ranks[i],
			"Name":  e.Name,
			"Score": e.TotalScore,
		}, fmt.Sprintf("%dº %s — %d pts", ranks[i], e.Name, e.TotalScore)))
	}
	return lines
}

// FinalSummary renders the end-of-match block from a history view.
func (f *Formatter) FinalSummary(h *matchdto.HistoryView) []string {
	if h == nil {
		return nil
	}
	lines := []string{
		f.render("final.header", map[string]any{"TotalRounds": h.TotalRounds},
			fmt.Sprintf("Fim de partida (%d rodadas)", h.TotalRounds)),
	}
	for _, s := range h.Players {
		lines = append(lines, f.render("standings.line", map[string]any{
			"Rank":  s.Rank,
			"Name":  s.Name,
			"Score": s.FinalScore,
		}, fmt.Sprintf("%dº %s — %d pts", s.Rank, s.Name, s.FinalScore)))
	}
	joined := strings.Join(h.Winners, ", ")
	key, fallback := "final.winner_single", "Vencedor: "+joined
	if len(h.Winners) > 1 {
		key, fallback = "final.winner_tie", "Vencedores (empate): "+joined
	}
	lines = append(lines, f.render(key, map[string]any{"Winners": joined}, fallback))
	return lines
}

// HistoryList renders recent match records, newest first.
func (f *Formatter) HistoryList(records []*matchdto.HistoryView) []string {
	if len(records) == 0 {
		return []string{f.render("history.empty", nil, "Nenhuma partida registrada")}
	}
	lines := make([]string, 0, len(records))
	for _, h := range records {
		winners := strings.Join(h.Winners, ", ")
		date := h.Date.Format("02/01/2006")
		lines = append(lines, f.render("history.line", map[string]any{
			"Date":        date,
			"PlayerCount": h.PlayerCount,
			"TotalRounds": h.TotalRounds,
			"Winners":     winners,
		}, fmt.Sprintf("%s — %d jogadores, %d rodadas — %s", date, h.PlayerCount, h.TotalRounds, winners)))
	}
	return lines
}
