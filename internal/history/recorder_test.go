package history

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rcamargo/estimativa-tracker/internal/match"
)

func finishedMatch(totals map[string]int, order []string) *match.Match {
	players := make([]match.Player, 0, len(order))
	for i, name := range order {
		players = append(players, match.Player{
			ID:         name,
			Name:       name,
			Position:   i + 1,
			TotalScore: totals[name],
		})
	}
	now := time.Now()
	return &match.Match{
		ID:          "m1",
		CreatedAt:   now.Add(-time.Hour),
		FinishedAt:  &now,
		Status:      match.StatusFinished,
		Players:     players,
		TotalRounds: 12,
	}
}

func TestToRecordCompetitionRanking(t *testing.T) {
	m := finishedMatch(map[string]int{"A": 30, "B": 30, "C": 10}, []string{"A", "B", "C"})
	rec, err := ToRecord(m)
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	wantRanks := []int{1, 1, 3}
	wantNames := []string{"A", "B", "C"}
	for i, s := range rec.Players {
		if s.Name != wantNames[i] || s.Rank != wantRanks[i] {
			t.Fatalf("standing %d = %+v, want %s rank %d", i, s, wantNames[i], wantRanks[i])
		}
	}
	if len(rec.Winners) != 2 || rec.Winners[0] != "A" || rec.Winners[1] != "B" {
		t.Fatalf("winners = %v, want [A B]", rec.Winners)
	}
	if rec.PlayerCount != 3 || rec.TotalRounds != 12 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if m.FinishedAt == nil || !rec.Date.Equal(*m.FinishedAt) {
		t.Fatalf("record date should be the finish time")
	}
}

func TestToRecordTiesKeepSeatingOrder(t *testing.T) {
	// Stable sort: tied players stay in table order.
	m := finishedMatch(map[string]int{"A": 10, "B": 50, "C": 50, "D": 50}, []string{"A", "B", "C", "D"})
	rec, err := ToRecord(m)
	if err != nil {
		t.Fatalf("ToRecord: %v", err)
	}
	wantNames := []string{"B", "C", "D", "A"}
	wantRanks := []int{1, 1, 1, 4}
	for i, s := range rec.Players {
		if s.Name != wantNames[i] || s.Rank != wantRanks[i] {
			t.Fatalf("standing %d = %+v, want %s rank %d", i, s, wantNames[i], wantRanks[i])
		}
	}
}

func TestToRecordRequiresFinishedMatch(t *testing.T) {
	m := finishedMatch(map[string]int{"A": 1, "B": 2}, []string{"A", "B"})
	m.Status = match.StatusInProgress
	if _, err := ToRecord(m); err != ErrMatchNotFinished {
		t.Fatalf("err = %v, want ErrMatchNotFinished", err)
	}
	if _, err := ToRecord(nil); err != ErrMatchNotFinished {
		t.Fatalf("nil match err = %v, want ErrMatchNotFinished", err)
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	return NewStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestStoreNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"g1", "g2", "g3"} {
		rec := &Record{ID: id, Date: time.Now(), Winners: []string{"A"}, PlayerCount: 2, TotalRounds: 12}
		if err := s.AddGame(ctx, rec); err != nil {
			t.Fatalf("AddGame(%s): %v", id, err)
		}
	}

	recent, err := s.RecentGames(ctx, 2)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "g3" || recent[1].ID != "g2" {
		t.Fatalf("unexpected recent games: %+v", recent)
	}

	got, err := s.GameByID(ctx, "g1")
	if err != nil || got == nil || got.ID != "g1" {
		t.Fatalf("GameByID: %+v (%v)", got, err)
	}
	if missing, err := s.GameByID(ctx, "nope"); err != nil || missing != nil {
		t.Fatalf("GameByID(nope) = %+v (%v), want nil", missing, err)
	}

	if err := s.RemoveGame(ctx, "g2"); err != nil {
		t.Fatalf("RemoveGame: %v", err)
	}
	recent, err = s.RecentGames(ctx, 10)
	if err != nil || len(recent) != 2 {
		t.Fatalf("after remove: %+v (%v)", recent, err)
	}

	if err := s.ClearHistory(ctx); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	recent, err = s.RecentGames(ctx, 10)
	if err != nil || len(recent) != 0 {
		t.Fatalf("after clear: %+v (%v)", recent, err)
	}
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	older := &Record{ID: "g1", Date: time.Now().Add(-time.Hour), Winners: []string{"A"}}
	newer := &Record{ID: "g2", Date: time.Now(), Winners: []string{"B"}}
	if err := repo.SaveRecord(ctx, older); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	if err := repo.SaveRecord(ctx, newer); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}

	recent, err := repo.RecentRecords(ctx, 10)
	if err != nil || len(recent) != 2 || recent[0].ID != "g2" {
		t.Fatalf("RecentRecords: %+v (%v)", recent, err)
	}

	got, err := repo.RecordByID(ctx, "g1")
	if err != nil || got == nil || got.ID != "g1" {
		t.Fatalf("RecordByID: %+v (%v)", got, err)
	}

	if err := repo.DeleteRecord(ctx, "g1"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if got, _ := repo.RecordByID(ctx, "g1"); got != nil {
		t.Fatalf("record survived delete")
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if recent, _ := repo.RecentRecords(ctx, 10); len(recent) != 0 {
		t.Fatalf("records survived clear")
	}
}

func TestServiceRecordsFinishedMatch(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	svc := NewService(NewStore(rdb), 10)
	repo := NewMemoryRepository()
	svc.AttachRepository(repo)

	mgr := match.NewManager(rdb)
	mgr.AttachRecorder(svc)
	ctx := context.Background()

	m, err := mgr.CreateMatch(ctx, []string{"A", "B"}, 1)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	for i := 0; i < m.TotalRounds; i++ {
		cards := m.RoundSequence[i]
		cur := mgr.Current()
		for pos, v := range map[int]int{1: cards, 2: 0} {
			p := cur.PlayerByPosition(pos)
			if err := mgr.SetEstimate(ctx, p.ID, v); err != nil {
				t.Fatalf("SetEstimate: %v", err)
			}
		}
		if err := mgr.ConfirmEstimates(ctx); err != nil {
			t.Fatalf("ConfirmEstimates: %v", err)
		}
		for pos, v := range map[int]int{1: cards, 2: 0} {
			p := cur.PlayerByPosition(pos)
			if err := mgr.SetOutcome(ctx, p.ID, v); err != nil {
				t.Fatalf("SetOutcome: %v", err)
			}
		}
		if err := mgr.FinishRound(ctx); err != nil {
			t.Fatalf("FinishRound: %v", err)
		}
		if i < m.TotalRounds-1 {
			if err := mgr.AdvanceRound(ctx); err != nil {
				t.Fatalf("AdvanceRound: %v", err)
			}
		}
	}
	if err := mgr.FinishMatch(ctx); err != nil {
		t.Fatalf("FinishMatch: %v", err)
	}

	recent, err := svc.RecentGames(ctx, 0)
	if err != nil {
		t.Fatalf("RecentGames: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != m.ID {
		t.Fatalf("history missing finished match: %+v", recent)
	}
	if recent[0].Winners[0] != "A" {
		t.Fatalf("winners = %v, want [A]", recent[0].Winners)
	}

	// The archive received the same record.
	archived, err := repo.RecordByID(ctx, m.ID)
	if err != nil || archived == nil {
		t.Fatalf("archived record missing: %v", err)
	}
	if archived.Players[0].Name != "A" || archived.Players[0].Rank != 1 {
		t.Fatalf("unexpected archived standings: %+v", archived.Players)
	}
}
