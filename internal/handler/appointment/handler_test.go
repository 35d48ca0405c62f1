package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/clinic-api/internal/model"
	appointmentService "github.com/clinicops/clinic-api/internal/service/appointment"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
	"github.com/clinicops/clinic-api/pkg/httputil"
	"github.com/clinicops/clinic-api/pkg/metrics"
	"github.com/clinicops/clinic-api/pkg/validator"
)

var testMetrics = metrics.NewMetrics("test_appointment_handler")

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
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

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
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
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Count(ctx context.Context) (int, error) {
	return len(f.appointments), nil
}

func setupRouter(t *testing.T) (*gin.Engine, uuid.UUID, uuid.UUID) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	patientID := uuid.New()
	doctorID := uuid.New()
	users := &fakeUserRepo{users: map[uuid.UUID]*model.User{
		patientID: {ID: patientID, Name: "John Doe", Email: "john@example.com", Role: model.RolePatient},
		doctorID:  {ID: doctorID, Name: "Dr. Sarah Wilson", Email: "sarah@example.com", Role: model.RoleDoctor},
	}}
	repo := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
	svc := appointmentService.NewService(repo, users, validator.New(), testMetrics)

	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine, patientID, doctorID
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, httputil.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBookAppointmentEndpoint(t *testing.T) {
	engine, patientID, doctorID := setupRouter(t)

	w, resp := doRequest(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       "2026-09-01",
		"slot":       "10:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)

	// Same doctor, date, slot again.
	w, resp = doRequest(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       "2026-09-01",
		"slot":       "10:00",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, apperrors.KindConflict, resp.Error.Kind)
}

func TestBookAppointmentBadInput(t *testing.T) {
	engine, patientID, doctorID := setupRouter(t)

	w, resp := doRequest(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       "2026-09-01",
		"slot":       "13:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, apperrors.KindValidation, resp.Error.Kind)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	engine, patientID, doctorID := setupRouter(t)

	_, created := doRequest(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       "2026-09-01",
		"slot":       "11:00",
	})
	id := created.Data.(map[string]interface{})["id"].(string)

	w, resp := doRequest(t, engine, http.MethodPatch, "/api/v1/appointments/"+id+"/status", map[string]string{
		"status": "cancelled",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	// Cancelled appointments reject further transitions.
	w, resp = doRequest(t, engine, http.MethodPatch, "/api/v1/appointments/"+id+"/status", map[string]string{
		"status": "confirmed",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, apperrors.KindInvalidTransition, resp.Error.Kind)
}

func TestGetAppointmentEndpoint(t *testing.T) {
	engine, _, _ := setupRouter(t)

	w, resp := doRequest(t, engine, http.MethodGet, "/api/v1/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.KindValidation, resp.Error.Kind)

	w, resp = doRequest(t, engine, http.MethodGet, "/api/v1/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.KindNotFound, resp.Error.Kind)
}
