package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup or a compound match-and-mutate
// affects no rows. Owner-scoped operations deliberately do not distinguish
// "missing" from "not yours".
var ErrNotFound = errors.New("not found")

// ErrDuplicateActionURL is returned when an insert collides with an existing
// action_url.
var ErrDuplicateActionURL = errors.New("action url already registered")

// IsNotFound reports whether err is a not-found condition from this package
// or from pgx.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, pgx.ErrNoRows)
}

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}
