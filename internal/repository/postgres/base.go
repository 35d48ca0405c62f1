package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/clinicops/clinic-api/pkg/errors"
)

const pqUniqueViolation = "23505"

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// mapError translates driver errors into the application taxonomy. A nil
// error and AppErrors pass through untouched.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return apperrors.Unavailable(fmt.Errorf("%s: %w", op, err))
	}

	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return apperrors.Conflict(fmt.Sprintf("%s: duplicate key", op))
	}

	if stderrors.Is(err, sql.ErrConnDone) || stderrors.Is(err, sql.ErrTxDone) {
		return apperrors.Unavailable(fmt.Errorf("%s: %w", op, err))
	}

	return apperrors.Internal(fmt.Errorf("%s: %w", op, err))
}
