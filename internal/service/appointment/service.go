package appointment

import (
	"context"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
	"github.com/clinicops/clinic-api/pkg/metrics"
	"github.com/clinicops/clinic-api/pkg/validator"
)

// Service is the appointment scheduler. It owns appointment records and the
// status state machine, and reads (never mutates) the user directory to
// validate references.
type Service struct {
	repo      repository.AppointmentRepository
	users     repository.UserRepository
	validator validator.Validator
	metrics   *metrics.Metrics

	// roles caches user-id → role lookups. Safe to cache forever: role is
	// immutable after registration and users are never deleted.
	roles *gocache.Cache
}

func NewService(repo repository.AppointmentRepository, users repository.UserRepository, v validator.Validator, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		validator: v,
		metrics:   m,
		roles:     gocache.New(gocache.NoExpiration, 0),
	}
}

// Book validates the request, resolves both referenced users, and creates
// the appointment in state requested. The slot-conflict check and the
// insert are one atomic unit inside the repository.
func (s *Service) Book(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.checkRole(ctx, req.PatientID, model.RolePatient, "patient"); err != nil {
		return nil, err
	}
	if err := s.checkRole(ctx, req.DoctorID, model.RoleDoctor, "doctor"); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Slot:      req.Slot,
	}

	if err := s.repo.CreateExclusive(ctx, appointment); err != nil {
		if apperrors.IsKind(err, apperrors.KindConflict) {
			s.metrics.SlotConflictsTotal.Inc()
			s.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		} else {
			s.metrics.BookingsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.metrics.BookingsTotal.WithLabelValues("booked").Inc()
	return appointment, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.Appointment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	next := model.AppointmentStatus(req.Status)
	appointment, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindInvalidTransition) {
			s.metrics.TransitionsRejected.Inc()
		}
		return nil, err
	}

	s.metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// checkRole verifies the referenced user exists and carries the expected
// role. A wrong-role reference is a validation failure, not a conflict.
func (s *Service) checkRole(ctx context.Context, id uuid.UUID, want model.Role, field string) error {
	if cached, ok := s.roles.Get(id.String()); ok {
		if cached.(model.Role) != want {
			return apperrors.Validationf("%s_id does not reference a %s", field, want)
		}
		return nil
	}

	user, err := s.users.Get(ctx, id)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return apperrors.NotFound(field)
		}
		return err
	}

	s.roles.Set(id.String(), user.Role, gocache.NoExpiration)

	if user.Role != want {
		return apperrors.Validationf("%s_id does not reference a %s", field, want)
	}
	return nil
}
