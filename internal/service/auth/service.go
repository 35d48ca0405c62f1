package auth

import (
	"context"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository"
	"github.com/clinicops/clinic-api/pkg/auth"
	"github.com/clinicops/clinic-api/pkg/validator"
)

// Service is the stub login. It resolves a user by email and mints a
// session token carrying id and role. There is no credential check and no
// route requires the token.
type Service struct {
	users     repository.UserRepository
	jwt       auth.JWTService
	validator validator.Validator
}

func NewService(users repository.UserRepository, jwt auth.JWTService, v validator.Validator) *Service {
	return &Service{users: users, jwt: jwt, validator: v}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}
