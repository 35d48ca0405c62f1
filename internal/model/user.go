package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User is an identity record. Role is immutable after creation and users are
// never deleted.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Role       Role      `db:"role" json:"role"`
	Age        *int      `db:"age" json:"age,omitempty"`
	Disease    *string   `db:"disease" json:"disease,omitempty"`
	Experience *int      `db:"experience" json:"experience,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PatientProfile carries the advisory attributes valid for patients only.
type PatientProfile struct {
	Age     *int    `json:"age,omitempty"`
	Disease *string `json:"disease,omitempty"`
}

// DoctorProfile carries the advisory attributes valid for doctors only.
type DoctorProfile struct {
	Experience *int `json:"experience,omitempty"`
}

// Patient returns the patient-side profile, or false if the user is not a
// patient.
func (u *User) Patient() (*PatientProfile, bool) {
	if u.Role != RolePatient {
		return nil, false
	}
	return &PatientProfile{Age: u.Age, Disease: u.Disease}, true
}

// Doctor returns the doctor-side profile, or false if the user is not a
// doctor.
func (u *User) Doctor() (*DoctorProfile, bool) {
	if u.Role != RoleDoctor {
		return nil, false
	}
	return &DoctorProfile{Experience: u.Experience}, true
}

type CreateUserRequest struct {
	Name       string  `json:"name" validate:"required"`
	Email      string  `json:"email" validate:"required,email"`
	Role       string  `json:"role" validate:"required,oneof=patient doctor"`
	Age        *int    `json:"age"`
	Disease    *string `json:"disease"`
	Experience *int    `json:"experience"`
}

type UserFilters struct {
	Role Role `json:"role" form:"role"`
}

// RoleCounts is the per-role projection the dashboard reads.
type RoleCounts struct {
	Patients int `db:"patients" json:"patients"`
	Doctors  int `db:"doctors" json:"doctors"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
