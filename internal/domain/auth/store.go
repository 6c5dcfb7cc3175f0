package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRecord is a console_sessions row. The backend token is stored encrypted.
type SessionRecord struct {
	ID              string
	UserID          string
	User            User
	BackendTokenEnc []byte
	IPAddress       string
	UserAgent       string
	CreatedAt       time.Time
	LastValidatedAt time.Time
	ExpiresAt       time.Time
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateSession(ctx context.Context, rec SessionRecord) error {
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO console_sessions (id, user_id, user_json, backend_token_enc, ip_address, user_agent, created_at, last_validated_at, expires_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, rec.ID, rec.UserID, userJSON, rec.BackendTokenEnc, rec.IPAddress, rec.UserAgent, rec.CreatedAt, rec.LastValidatedAt, rec.ExpiresAt)
	return err
}

// GetSession returns a session that has not been revoked. Expiry is left to the caller.
func (s *Store) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	var (
		out      SessionRecord
		userJSON []byte
	)
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, user_json, backend_token_enc, ip_address, user_agent, created_at, last_validated_at, expires_at
    FROM console_sessions
    WHERE id = $1 AND revoked_at IS NULL
  `, id).Scan(&out.ID, &out.UserID, &userJSON, &out.BackendTokenEnc, &out.IPAddress, &out.UserAgent, &out.CreatedAt, &out.LastValidatedAt, &out.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionRecord{}, ErrSessionNotFound
	}
	if err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal(userJSON, &out.User); err != nil {
		return SessionRecord{}, err
	}
	return out, nil
}

func (s *Store) MarkValidated(ctx context.Context, id string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE console_sessions SET last_validated_at = $1 WHERE id = $2", at, id)
	return err
}

func (s *Store) RevokeSession(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE console_sessions SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL", id)
	return err
}

// RevokeExpired revokes every session past its expiry and returns their ids.
func (s *Store) RevokeExpired(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    UPDATE console_sessions
    SET revoked_at = $1
    WHERE revoked_at IS NULL AND expires_at <= $1
    RETURNING id
  `, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
