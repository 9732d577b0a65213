package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// Repository is the durable archive of finished matches.
type Repository interface {
	SaveRecord(ctx context.Context, rec *Record) error
	RecentRecords(ctx context.Context, limit int) ([]*Record, error)
	RecordByID(ctx context.Context, id string) (*Record, error)
	DeleteRecord(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type repository struct {
	db *sql.DB
}

// NewRepository opens a Postgres-backed archive.
func NewRepository(databaseURL string) (Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &repository{db: db}, nil
}

// SaveRecord upserts a finished match record.
func (r *repository) SaveRecord(ctx context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("nil history record payload")
	}
	standings, err := json.Marshal(rec.Players)
	if err != nil {
		return fmt.Errorf("marshal standings: %w", err)
	}
	winners, err := json.Marshal(rec.Winners)
	if err != nil {
		return fmt.Errorf("marshal winners: %w", err)
	}

	const query = `
		INSERT INTO estimativa_matches (
			match_id, finished_at, player_count, total_rounds, standings, winners
		)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb)
		ON CONFLICT (match_id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			player_count = EXCLUDED.player_count,
			total_rounds = EXCLUDED.total_rounds,
			standings = EXCLUDED.standings,
			winners = EXCLUDED.winners`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Date, rec.PlayerCount, rec.TotalRounds, standings, winners,
	)
	if err != nil {
		return fmt.Errorf("upsert history record: %w", err)
	}
	return nil
}

func (r *repository) RecentRecords(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT match_id, finished_at, player_count, total_rounds, standings, winners
		FROM estimativa_matches
		ORDER BY finished_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select history records: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repository) RecordByID(ctx context.Context, id string) (*Record, error) {
	const query = `
		SELECT match_id, finished_at, player_count, total_rounds, standings, winners
		FROM estimativa_matches
		WHERE match_id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repository) DeleteRecord(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM estimativa_matches WHERE match_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}
	return nil
}

func (r *repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM estimativa_matches`)
	if err != nil {
		return fmt.Errorf("clear history records: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec           Record
		standingsJSON []byte
		winnersJSON   []byte
	)
	if err := row.Scan(
		&rec.ID,
		&rec.Date,
		&rec.PlayerCount,
		&rec.TotalRounds,
		&standingsJSON,
		&winnersJSON,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(standingsJSON, &rec.Players); err != nil {
		return nil, fmt.Errorf("unmarshal standings: %w", err)
	}
	if err := json.Unmarshal(winnersJSON, &rec.Winners); err != nil {
		return nil, fmt.Errorf("unmarshal winners: %w", err)
	}
	return &rec, nil
}
