package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// Store wraps the database handle and hands out transactional scopes. Every
// repository built on it picks up the transaction carried by the context, so
// a multi-repository workflow can run against a single consistent snapshot.
type Store struct {
	db *sqlx.DB
}

// NewStore constructs a Store around the database handle.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Transact runs fn inside a database transaction. The transaction is exposed
// to repository calls through the derived context. A nested call joins the
// transaction already in flight instead of opening a second one.
func (s *Store) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// ext resolves the executor for the current context: the in-flight
// transaction when present, the pooled handle otherwise.
func (s *Store) ext(ctx context.Context) sqlx.ExtContext {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func txFromContext(ctx context.Context) *sqlx.Tx {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return nil
}
