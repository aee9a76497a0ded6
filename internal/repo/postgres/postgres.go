package postgres

import (
	"errors"

	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
)

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// observe routes a repo call through the DB metrics hook when one is wired.
// Repos work fine without metrics (tests, tooling).
func observe(p *observability.Prom, op string, fn func() error) error {
	if p == nil {
		return fn()
	}
	return p.ObserveDB(op, fn)
}
