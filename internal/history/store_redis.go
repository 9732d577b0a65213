package history

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const keyHistory = "estimativa:history"

// Store keeps the history document as a Redis list, newest record first.
type Store struct{ rdb *redis.Client }

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) AddGame(ctx context.Context, rec *Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.LPush(ctx, keyHistory, raw).Err()
}

func (s *Store) RemoveGame(ctx context.Context, id string) error {
	raws, err := s.rdb.LRange(ctx, keyHistory, 0, -1).Result()
	if err != nil {
		return err
	}
	for _, raw := range raws {
		var rec Record
		if json.Unmarshal([]byte(raw), &rec) != nil {
			continue
		}
		if rec.ID == id {
			return s.rdb.LRem(ctx, keyHistory, 1, raw).Err()
		}
	}
	return nil
}

func (s *Store) ClearHistory(ctx context.Context) error {
	return s.rdb.Del(ctx, keyHistory).Err()
}

func (s *Store) GameByID(ctx context.Context, id string) (*Record, error) {
	raws, err := s.rdb.LRange(ctx, keyHistory, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	for _, raw := range raws {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *Store) RecentGames(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	raws, err := s.rdb.LRange(ctx, keyHistory, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(raws))
	for _, raw := range raws {
		var rec Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, nil
}
