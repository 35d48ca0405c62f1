package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
	"github.com/clinicops/clinic-api/pkg/messaging"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

// CreateExclusive inserts the appointment after verifying under a row lock
// that no live appointment holds the same (doctor, date, slot). A partial
// unique index on live rows backstops the check, so if two transactions
// race past it, one insert fails with a unique violation and is reported as
// the same conflict.
func (r *appointmentRepository) CreateExclusive(ctx context.Context, appointment *model.Appointment) error {
	appointment.ID = uuid.New()
	appointment.Status = model.AppointmentStatusRequested
	appointment.CreatedAt = time.Now()

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockQuery := `
			SELECT id FROM appointments
			WHERE doctor_id = $1 AND date = $2 AND slot = $3
			AND status IN ('requested', 'confirmed')
			FOR UPDATE
		`
		var existing uuid.UUID
		err := tx.GetContext(ctx, &existing, lockQuery,
			appointment.DoctorID, appointment.Date, appointment.Slot)
		if err == nil {
			return apperrors.Conflict(fmt.Sprintf(
				"slot %s on %s is already booked for this doctor",
				appointment.Slot, appointment.Date))
		}
		if !stderrors.Is(err, sql.ErrNoRows) {
			return mapError("check slot", err)
		}

		insertQuery := `
			INSERT INTO appointments (
				id, patient_id, doctor_id, date, slot, status, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		if _, err := tx.ExecContext(ctx, insertQuery,
			appointment.ID,
			appointment.PatientID,
			appointment.DoctorID,
			appointment.Date,
			appointment.Slot,
			appointment.Status,
			appointment.CreatedAt,
		); err != nil {
			var pqErr *pq.Error
			if stderrors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
				return apperrors.Conflict(fmt.Sprintf(
					"slot %s on %s is already booked for this doctor",
					appointment.Slot, appointment.Date))
			}
			return mapError("create appointment", err)
		}

		return createOutboxEvent(ctx, tx, messaging.ChannelAppointmentBooked, appointment)
	})
	return err
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, slot, status, created_at
		FROM appointments
		WHERE id = $1
	`

	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, mapError("get appointment", err)
	}
	return &appointment, nil
}

// UpdateStatus reads the row under FOR UPDATE, applies the transition table
// and writes the new status, so concurrent updates on the same appointment
// serialize instead of lost-updating each other.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, next model.AppointmentStatus) (*model.Appointment, error) {
	var appointment model.Appointment

	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		lockQuery := `
			SELECT id, patient_id, doctor_id, date, slot, status, created_at
			FROM appointments
			WHERE id = $1
			FOR UPDATE
		`
		if err := tx.GetContext(ctx, &appointment, lockQuery, id); err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("appointment")
			}
			return mapError("get appointment", err)
		}

		if !appointment.Status.CanTransitionTo(next) {
			return apperrors.InvalidTransition(string(appointment.Status), string(next))
		}

		if appointment.Status == next {
			// Idempotent confirm: nothing to write.
			return nil
		}

		updateQuery := `UPDATE appointments SET status = $1 WHERE id = $2`
		if _, err := tx.ExecContext(ctx, updateQuery, next, id); err != nil {
			return mapError("update appointment status", err)
		}
		appointment.Status = next

		return createOutboxEvent(ctx, tx, messaging.ChannelAppointmentUpdated, &appointment)
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, slot, status, created_at
		FROM appointments
	`
	args := []interface{}{}

	if filters != nil {
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" WHERE patient_id = $%d", len(args)+1)
			args = append(args, filters.PatientID)
		}
		if filters.DoctorID != uuid.Nil {
			if len(args) == 0 {
				query += " WHERE"
			} else {
				query += " AND"
			}
			query += fmt.Sprintf(" doctor_id = $%d", len(args)+1)
			args = append(args, filters.DoctorID)
		}
	}

	query += " ORDER BY id ASC"

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, mapError("list appointments", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments`); err != nil {
		return 0, mapError("count appointments", err)
	}
	return count, nil
}

// createOutboxEvent records a lifecycle event in the same transaction as
// the domain write that produced it.
func createOutboxEvent(ctx context.Context, tx *sqlx.Tx, eventType string, appointment *model.Appointment) error {
	payload, err := json.Marshal(appointment)
	if err != nil {
		return mapError("marshal outbox payload", err)
	}

	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, 0, $5, $5)
	`
	now := time.Now()
	if _, err := tx.ExecContext(ctx, query,
		uuid.New(), eventType, payload, model.OutboxStatusPending, now,
	); err != nil {
		return mapError("create outbox event", err)
	}
	return nil
}
