package appointment

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/clinic-api/internal/model"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
	"github.com/clinicops/clinic-api/pkg/metrics"
	"github.com/clinicops/clinic-api/pkg/validator"
)

// Shared across all tests in the package: prometheus collectors register
// globally and must only be created once per binary.
var testMetrics = metrics.NewMetrics("test_appointment")

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
	calls int
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	f.calls++
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, apperrors.NotFound("user")
}

func (f *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context) (*model.RoleCounts, error) {
	return &model.RoleCounts{}, nil
}

// fakeAppointmentRepo mirrors the storage semantics: slot exclusivity over
// live rows and the status state machine applied under the row lock.
type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) CreateExclusive(ctx context.Context, a *model.Appointment) error {
	for _, existing := range f.appointments {
		if existing.DoctorID == a.DoctorID && existing.Date == a.Date && existing.Slot == a.Slot && existing.Status.Live() {
			return apperrors.Conflict(fmt.Sprintf("slot %s on %s is already booked", a.Slot, a.Date))
		}
	}
	a.ID = uuid.New()
	a.Status = model.AppointmentStatusRequested
	f.appointments[a.ID] = a
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment")
	}
	return a, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, next model.AppointmentStatus) (*model.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment")
	}
	if !a.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidTransition(string(a.Status), string(next))
	}
	a.Status = next
	return a, nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.appointments {
		if filters != nil && filters.PatientID != uuid.Nil && filters.PatientID != a.PatientID {
			continue
		}
		if filters != nil && filters.DoctorID != uuid.Nil && filters.DoctorID != a.DoctorID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Count(ctx context.Context) (int, error) {
	return len(f.appointments), nil
}

func newTestService() (*Service, *fakeAppointmentRepo, *fakeUserRepo, uuid.UUID, uuid.UUID) {
	patientID := uuid.New()
	doctorID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		patientID: {ID: patientID, Name: "John Doe", Email: "john@example.com", Role: model.RolePatient},
		doctorID:  {ID: doctorID, Name: "Dr. Sarah Wilson", Email: "sarah@example.com", Role: model.RoleDoctor},
	}}
	repo := newFakeAppointmentRepo()
	svc := NewService(repo, users, validator.New(), testMetrics)
	return svc, repo, users, patientID, doctorID
}

func TestBook(t *testing.T) {
	svc, _, _, patientID, doctorID := newTestService()

	a, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      "2026-09-01",
		Slot:      "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRequested, a.Status)
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestBookRejectsTakenSlot(t *testing.T) {
	svc, _, _, patientID, doctorID := newTestService()

	req := &model.CreateAppointmentRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      "2026-09-01",
		Slot:      "11:00",
	}
	_, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Book(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestBookFreesSlotAfterCancellation(t *testing.T) {
	svc, _, _, patientID, doctorID := newTestService()

	req := &model.CreateAppointmentRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      "2026-09-02",
		Slot:      "14:00",
	}
	first, err := svc.Book(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), first.ID, &model.UpdateAppointmentStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	second, err := svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBookValidation(t *testing.T) {
	svc, _, _, patientID, doctorID := newTestService()

	cases := []struct {
		name string
		req  *model.CreateAppointmentRequest
	}{
		{"missing patient", &model.CreateAppointmentRequest{DoctorID: doctorID, Date: "2026-09-01", Slot: "10:00"}},
		{"bad date", &model.CreateAppointmentRequest{PatientID: patientID, DoctorID: doctorID, Date: "01-09-2026", Slot: "10:00"}},
		{"unknown slot", &model.CreateAppointmentRequest{PatientID: patientID, DoctorID: doctorID, Date: "2026-09-01", Slot: "13:00"}},
		{"missing slot", &model.CreateAppointmentRequest{PatientID: patientID, DoctorID: doctorID, Date: "2026-09-01"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Book(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		})
	}
}

func TestBookChecksReferences(t *testing.T) {
	svc, _, _, patientID, doctorID := newTestService()

	// Unknown doctor.
	_, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: patientID,
		DoctorID:  uuid.New(),
		Date:      "2026-09-01",
		Slot:      "10:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	// Roles swapped.
	_, err = svc.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: doctorID,
		DoctorID:  patientID,
		Date:      "2026-09-01",
		Slot:      "10:00",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestBookCachesRoleLookups(t *testing.T) {
	svc, _, users, patientID, doctorID := newTestService()

	for i := 0; i < 3; i++ {
		_, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
			PatientID: patientID,
			DoctorID:  doctorID,
			Date:      fmt.Sprintf("2026-09-0%d", i+1),
			Slot:      "10:00",
		})
		require.NoError(t, err)
	}

	// One lookup per user; the rest served from the role cache.
	assert.Equal(t, 2, users.calls)
}

func TestUpdateStatus(t *testing.T) {
	svc, _, _, patientID, doctorID := newTestService()

	a, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      "2026-09-01",
		Slot:      "15:00",
	})
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(context.Background(), a.ID, &model.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

	// Repeated confirm is an idempotent success.
	again, err := svc.UpdateStatus(context.Background(), a.ID, &model.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, again.Status)

	cancelled, err := svc.UpdateStatus(context.Background(), a.ID, &model.UpdateAppointmentStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	// Cancelled is absorbing.
	_, err = svc.UpdateStatus(context.Background(), a.ID, &model.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	_, err = svc.UpdateStatus(context.Background(), a.ID, &model.UpdateAppointmentStatusRequest{Status: "cancelled"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestUpdateStatusValidation(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), &model.UpdateAppointmentStatusRequest{Status: "done"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), &model.UpdateAppointmentStatusRequest{Status: "confirmed"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListFilters(t *testing.T) {
	svc, _, users, patientID, doctorID := newTestService()

	otherPatient := uuid.New()
	users.users[otherPatient] = &model.User{ID: otherPatient, Name: "Jane Smith", Email: "jane@example.com", Role: model.RolePatient}

	_, err := svc.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: patientID, DoctorID: doctorID, Date: "2026-09-01", Slot: "10:00",
	})
	require.NoError(t, err)
	_, err = svc.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: otherPatient, DoctorID: doctorID, Date: "2026-09-01", Slot: "11:00",
	})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(context.Background(), &model.AppointmentFilters{PatientID: patientID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, patientID, mine[0].PatientID)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
