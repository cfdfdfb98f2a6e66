package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hr-portal/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements storage.Store on top of a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	db   Querier
}

// NewStore creates a Store using the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Jobs() storage.JobRepository             { return &JobRepo{db: s.db} }
func (s *Store) Candidates() storage.CandidateRepository { return &CandidateRepo{db: s.db} }
func (s *Store) Applications() storage.ApplicationRepository {
	return &ApplicationRepo{db: s.db}
}

// InTx runs fn inside a single database transaction. Nested calls reuse the
// outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.pool == nil {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		log.Printf("Error beginning transaction: %v\n", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after a successful commit

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Error committing transaction: %v\n", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// mapWriteError converts pgx constraint errors into storage errors.
func mapWriteError(err error, operation string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("failed to %s: unique constraint %s violated: %w", operation, pgErr.ConstraintName, storage.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("failed to %s: invalid reference: %w", operation, storage.ErrInvalidReference)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// buildUpdateQuery constructs an UPDATE statement from SET clauses; the row id
// is always the last argument.
func buildUpdateQuery(table string, setClauses []string, idArg int, returning string) string {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("UPDATE ")
	queryBuilder.WriteString(table)
	queryBuilder.WriteString(" SET ")
	queryBuilder.WriteString(strings.Join(setClauses, ", "))
	queryBuilder.WriteString(fmt.Sprintf(" WHERE id = $%d", idArg))
	queryBuilder.WriteString(" RETURNING ")
	queryBuilder.WriteString(returning)
	return queryBuilder.String()
}
