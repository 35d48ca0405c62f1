package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusRequested AppointmentStatus = "requested"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusRequested, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Live reports whether the status counts against the doctor's slot.
func (s AppointmentStatus) Live() bool {
	return s == AppointmentStatusRequested || s == AppointmentStatusConfirmed
}

// CanTransitionTo implements the status state machine. Cancelled is
// absorbing: nothing leaves it, not even cancelled itself. Confirmed onto
// confirmed is an idempotent no-op.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusRequested:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	default:
		return false
	}
}

// DateLayout is the calendar-date wire format for appointments.
const DateLayout = "2006-01-02"

// Slots is the fixed set of bookable time-of-day tokens.
var Slots = []string{"10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}

func ValidSlot(slot string) bool {
	for _, s := range Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// Appointment is a booking between one patient and one doctor for one
// date+slot. It is never physically deleted; cancellation is a status.
type Appointment struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      string            `db:"date" json:"date"`
	Slot      string            `db:"slot" json:"slot"`
	Status    AppointmentStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Slot      string    `json:"slot" validate:"required,oneof=10:00 11:00 12:00 14:00 15:00 16:00"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=requested confirmed cancelled"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
}
