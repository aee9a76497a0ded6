package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRow is one entry in a user's active-token set. ID is the token's JTI;
// TokenHash is the HMAC of the raw token (the raw token is never stored).
type SessionRow struct {
	ID        string
	UserID    string
	TokenHash string
	RevokedAt *time.Time
	CreatedAt time.Time
}

type SessionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSessionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *SessionsRepo {
	return &SessionsRepo{pool: pool, prom: prom}
}

func (r *SessionsRepo) Create(ctx context.Context, row SessionRow) error {
	return observe(r.prom, "sessions.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO sessions (id, user_id, token_hash, revoked_at, created_at)
			 VALUES ($1,$2,$3,$4,$5)`,
			row.ID, row.UserID, row.TokenHash, row.RevokedAt, row.CreatedAt,
		)
		return err
	})
}

// Active returns the stored token hash for a live (unrevoked) session.
// A revoked or absent session is indistinguishable to the caller.
func (r *SessionsRepo) Active(ctx context.Context, jti string) (string, error) {
	var hash string

	err := observe(r.prom, "sessions.active", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT token_hash FROM sessions WHERE id = $1 AND revoked_at IS NULL`,
			jti,
		).Scan(&hash)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrSessionNotFound
		}
		return "", err
	}

	return hash, nil
}

func (r *SessionsRepo) Revoke(ctx context.Context, jti string) error {
	return observe(r.prom, "sessions.revoke", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE sessions SET revoked_at = NOW() WHERE id = $1 AND revoked_at IS NULL`,
			jti,
		)
		return err
	})
}

func (r *SessionsRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	return observe(r.prom, "sessions.revoke_all_for_user", func() error {
		_, err := r.pool.Exec(ctx,
			`UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`,
			userID,
		)
		return err
	})
}
