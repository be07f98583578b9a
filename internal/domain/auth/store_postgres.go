package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) Put(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO portal_sessions (id, payload, expires_at)
    VALUES ($1, $2, $3)
    ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at
  `, id, payload, time.Now().Add(ttl))
	return err
}

func (s *PostgresStore) Get(ctx context.Context, id string) ([]byte, error) {
	var payload []byte
	err := s.DB.QueryRow(ctx, `
    SELECT payload
    FROM portal_sessions
    WHERE id = $1 AND expires_at > now()
  `, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM portal_sessions WHERE id = $1", id)
	return err
}

func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM portal_sessions WHERE expires_at <= now()")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
