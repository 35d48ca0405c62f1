package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/clinic-api/internal/model"
)

type stubUserCounter struct {
	counts model.RoleCounts
	err    error
}

func (s *stubUserCounter) CountByRole(ctx context.Context) (*model.RoleCounts, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.counts, nil
}

type stubAppointmentCounter struct {
	count int
	err   error
}

func (s *stubAppointmentCounter) Count(ctx context.Context) (int, error) {
	return s.count, s.err
}

func TestCounts(t *testing.T) {
	svc := NewService(
		&stubUserCounter{counts: model.RoleCounts{Patients: 3, Doctors: 2}},
		&stubAppointmentCounter{count: 7},
	)

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Patients)
	assert.Equal(t, 2, counts.Doctors)
	assert.Equal(t, 7, counts.Appointments)
}

func TestCountsPropagatesErrors(t *testing.T) {
	svc := NewService(
		&stubUserCounter{err: errors.New("db down")},
		&stubAppointmentCounter{},
	)
	_, err := svc.Counts(context.Background())
	require.Error(t, err)

	svc = NewService(
		&stubUserCounter{},
		&stubAppointmentCounter{err: errors.New("db down")},
	)
	_, err = svc.Counts(context.Background())
	require.Error(t, err)
}
