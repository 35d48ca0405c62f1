package dashboard

import (
	"context"

	"github.com/clinicops/clinic-api/internal/model"
)

// UserCounter and AppointmentCounter are the two read-only views the
// dashboard aggregates over. It mutates neither and never caches; each
// call reflects committed state at call time.
type UserCounter interface {
	CountByRole(ctx context.Context) (*model.RoleCounts, error)
}

type AppointmentCounter interface {
	Count(ctx context.Context) (int, error)
}

type Service struct {
	users        UserCounter
	appointments AppointmentCounter
}

func NewService(users UserCounter, appointments AppointmentCounter) *Service {
	return &Service{users: users, appointments: appointments}
}

// Counts runs three sub-queries with no atomicity across them;
// read-committed snapshots suffice for a dashboard.
func (s *Service) Counts(ctx context.Context) (*model.DashboardCounts, error) {
	roleCounts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &model.DashboardCounts{
		Patients:     roleCounts.Patients,
		Doctors:      roleCounts.Doctors,
		Appointments: appointments,
	}, nil
}
