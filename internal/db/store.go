package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Domain error kinds. Store failures are translated into these once, at
// this boundary; handlers match with errors.Is and never inspect
// driver-specific codes.
var (
	ErrNotFound            = errors.New("record not found")
	ErrUniqueViolation     = errors.New("unique constraint violated")
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
)

type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// Pool returns the underlying pgxpool.Pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func NewStore(ctx context.Context, databaseURL string, logger *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool, logger: logger}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const usersTableSQL = `CREATE TABLE IF NOT EXISTS users (
	    id SERIAL PRIMARY KEY,
	    public_id UUID NOT NULL,
	    nome TEXT NOT NULL,
	    email TEXT NOT NULL UNIQUE,
	    senha TEXT NOT NULL,
	    foto TEXT,
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := s.pool.Exec(ctx, usersTableSQL); err != nil {
		return err
	}

	const postsTableSQL = `CREATE TABLE IF NOT EXISTS posts (
	    id SERIAL PRIMARY KEY,
	    titulo TEXT NOT NULL,
	    conteudo TEXT NOT NULL,
	    user_id INTEGER NOT NULL REFERENCES users(id),
	    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	if _, err := s.pool.Exec(ctx, postsTableSQL); err != nil {
		return err
	}
	return nil
}

// translateErr maps driver errors onto the domain error kinds. A unique
// index violation becomes ErrUniqueViolation, a broken foreign key
// reference becomes ErrForeignKeyViolation, a missing row becomes
// ErrNotFound. Anything else passes through. The caller decides what a
// foreign key violation means: a vanished owner on post insert is not
// the same condition as a still-referenced user on delete.
func translateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrUniqueViolation
		case "23503":
			return ErrForeignKeyViolation
		}
	}
	return err
}
