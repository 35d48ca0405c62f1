package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, name, email, role, age, disease, experience, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	user.ID = uuid.New()
	user.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.Age,
		user.Disease,
		user.Experience,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return apperrors.Conflict(fmt.Sprintf("email %s already registered", user.Email))
		}
		return mapError("create user", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, name, email, role, age, disease, experience, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, mapError("get user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, name, email, role, age, disease, experience, created_at
		FROM users
		WHERE email = $1
	`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user")
		}
		return nil, mapError("get user by email", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	query := `
		SELECT id, name, email, role, age, disease, experience, created_at
		FROM users
	`
	args := []interface{}{}

	if filters != nil && filters.Role != "" {
		query += " WHERE role = $1"
		args = append(args, filters.Role)
	}

	query += " ORDER BY id ASC"

	users := []*model.User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, mapError("list users", err)
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context) (*model.RoleCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE role = 'patient') AS patients,
			COUNT(*) FILTER (WHERE role = 'doctor')  AS doctors
		FROM users
	`

	var counts model.RoleCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, mapError("count users by role", err)
	}
	return &counts, nil
}
