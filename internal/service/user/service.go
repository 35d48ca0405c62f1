package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
	"github.com/clinicops/clinic-api/pkg/validator"
)

// Service is the user directory. It owns user records; other components
// read them through it but never mutate them.
type Service struct {
	repo      repository.UserRepository
	validator validator.Validator
}

func NewService(repo repository.UserRepository, v validator.Validator) *Service {
	return &Service{repo: repo, validator: v}
}

func (s *Service) Register(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  model.Role(req.Role),
	}

	// Advisory attributes only attach to the role they belong to.
	switch user.Role {
	case model.RolePatient:
		user.Age = req.Age
		user.Disease = req.Disease
	case model.RoleDoctor:
		user.Experience = req.Experience
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	if filters != nil && filters.Role != "" && !filters.Role.Valid() {
		return nil, apperrors.Validationf("role must be one of: patient doctor")
	}
	return s.repo.List(ctx, filters)
}

func (s *Service) CountByRole(ctx context.Context) (*model.RoleCounts, error) {
	return s.repo.CountByRole(ctx)
}
