package history

import (
	"context"

	"go.uber.org/zap"

	"github.com/rcamargo/estimativa-tracker/internal/match"
	"github.com/rcamargo/estimativa-tracker/internal/obslog"
	"github.com/rcamargo/estimativa-tracker/internal/rules"
)

// ToRecord converts a finished match into its history snapshot. Players
// are ranked by total score with competition ranking; winners are
// everyone at rank 1.
func ToRecord(m *match.Match) (*Record, error) {
	if m == nil || m.Status != match.StatusFinished {
		return nil, ErrMatchNotFinished
	}

	entries := make([]rules.TotalEntry, 0, len(m.Players))
	for _, p := range m.Players {
		entries = append(entries, rules.TotalEntry{PlayerID: p.ID, Name: p.Name, TotalScore: p.TotalScore})
	}
	sorted := rules.SortByTotalScore(entries)
	ranks := rules.CompetitionRanks(sorted)

	standings := make([]Standing, 0, len(sorted))
	winners := make([]string, 0, 1)
	for i, e := range sorted {
		standings = append(standings, Standing{Name: e.Name, FinalScore: e.TotalScore, Rank: ranks[i]})
		if ranks[i] == 1 {
			winners = append(winners, e.Name)
		}
	}

	date := m.CreatedAt
	if m.FinishedAt != nil {
		date = *m.FinishedAt
	}
	return &Record{
		ID:          m.ID,
		Date:        date,
		Players:     standings,
		Winners:     winners,
		TotalRounds: m.TotalRounds,
		PlayerCount: len(m.Players),
	}, nil
}

// Service keeps the history document and an optional durable archive in
// sync. It implements match.Recorder.
type Service struct {
	store *Store
	repo  Repository
	limit int
}

// NewService builds a history service. store may be nil (no Redis); repo
// may be nil (no archive). limit bounds RecentGames when the caller
// passes none.
func NewService(store *Store, limit int) *Service {
	if limit <= 0 {
		limit = 10
	}
	return &Service{store: store, limit: limit}
}

// AttachRepository wires a durable archive for finished matches.
func (s *Service) AttachRepository(r Repository) {
	if s != nil {
		s.repo = r
	}
}

// RecordFinished snapshots a finished match and appends it to history.
func (s *Service) RecordFinished(ctx context.Context, m *match.Match) error {
	rec, err := ToRecord(m)
	if err != nil {
		return err
	}
	if err := s.AddGame(ctx, rec); err != nil {
		return err
	}
	obslog.L().Info("history_record",
		zap.String("match_id", rec.ID),
		zap.Strings("winners", rec.Winners),
		zap.Int("player_count", rec.PlayerCount),
	)
	return nil
}

// AddGame prepends a record to the history document and archives it when
// a repository is attached.
func (s *Service) AddGame(ctx context.Context, rec *Record) error {
	if s.store != nil {
		if err := s.store.AddGame(ctx, rec); err != nil {
			return err
		}
	}
	if s.repo != nil {
		if err := s.repo.SaveRecord(ctx, rec); err != nil {
			obslog.L().Warn("history_archive_failed", zap.String("match_id", rec.ID), zap.Error(err))
			return err
		}
	}
	return nil
}

// RemoveGame deletes one record by match id.
func (s *Service) RemoveGame(ctx context.Context, id string) error {
	if s.store != nil {
		if err := s.store.RemoveGame(ctx, id); err != nil {
			return err
		}
	}
	if s.repo != nil {
		return s.repo.DeleteRecord(ctx, id)
	}
	return nil
}

// ClearHistory drops every record.
func (s *Service) ClearHistory(ctx context.Context) error {
	if s.store != nil {
		if err := s.store.ClearHistory(ctx); err != nil {
			return err
		}
	}
	if s.repo != nil {
		return s.repo.Clear(ctx)
	}
	return nil
}

// GameByID returns one record, nil when absent.
func (s *Service) GameByID(ctx context.Context, id string) (*Record, error) {
	if s.store != nil {
		return s.store.GameByID(ctx, id)
	}
	if s.repo != nil {
		return s.repo.RecordByID(ctx, id)
	}
	return nil, nil
}

// RecentGames returns the newest records, most recent first.
func (s *Service) RecentGames(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = s.limit
	}
	if s.store != nil {
		return s.store.RecentGames(ctx, limit)
	}
	if s.repo != nil {
		return s.repo.RecentRecords(ctx, limit)
	}
	return []*Record{}, nil
}
