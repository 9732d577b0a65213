package match

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const keyActiveMatch = "estimativa:match"

// Store persists the active-match document in Redis as JSON. No TTL: a
// match stays live until it is finished or reset.
type Store struct{ rdb *redis.Client }

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) Save(ctx context.Context, m *Match) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyActiveMatch, raw, 0).Err()
}

func (s *Store) Load(ctx context.Context) (*Match, error) {
	raw, err := s.rdb.Get(ctx, keyActiveMatch).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, keyActiveMatch).Err()
}
