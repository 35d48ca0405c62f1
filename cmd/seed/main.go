package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicops/clinic-api/internal/config"
	"github.com/clinicops/clinic-api/internal/model"
	"github.com/clinicops/clinic-api/internal/repository/postgres"
	apperrors "github.com/clinicops/clinic-api/pkg/errors"
)

type seedUser struct {
	name  string
	email string
	role  model.Role
}

type seedAppointment struct {
	patient   string // email, resolved to an id after the users land
	doctor    string
	date      string
	slot      string
	confirmed bool
}

var sampleUsers = []seedUser{
	{"John Doe", "john@example.com", model.RolePatient},
	{"Jane Smith", "jane@example.com", model.RolePatient},
	{"Michael Johnson", "michael@example.com", model.RolePatient},
	{"Dr. Sarah Wilson", "sarah.wilson@hospital.com", model.RoleDoctor},
	{"Dr. Robert Brown", "robert.brown@hospital.com", model.RoleDoctor},
	{"Dr. Emily Davis", "emily.davis@hospital.com", model.RoleDoctor},
}

var sampleAppointments = []seedAppointment{
	{"john@example.com", "sarah.wilson@hospital.com", "2024-01-15", "10:00", true},
	{"jane@example.com", "robert.brown@hospital.com", "2024-01-16", "11:00", false},
	{"michael@example.com", "emily.davis@hospital.com", "2024-01-17", "14:00", true},
	{"john@example.com", "robert.brown@hospital.com", "2024-01-18", "15:00", false},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ids := make(map[string]uuid.UUID, len(sampleUsers))
	for _, su := range sampleUsers {
		user := &model.User{Name: su.name, Email: su.email, Role: su.role}
		if err := userRepo.Create(ctx, user); err != nil {
			if apperrors.IsKind(err, apperrors.KindConflict) {
				existing, err := userRepo.GetByEmail(ctx, su.email)
				if err != nil {
					log.Fatal().Err(err).Str("email", su.email).Msg("failed to look up existing user")
				}
				ids[su.email] = existing.ID
				log.Info().Str("email", su.email).Msg("user already present, skipping")
				continue
			}
			log.Fatal().Err(err).Str("email", su.email).Msg("failed to insert user")
		}
		ids[su.email] = user.ID
		log.Info().Str("name", su.name).Str("id", user.ID.String()).Msg("user inserted")
	}

	for _, sa := range sampleAppointments {
		appointment := &model.Appointment{
			PatientID: ids[sa.patient],
			DoctorID:  ids[sa.doctor],
			Date:      sa.date,
			Slot:      sa.slot,
			Status:    model.AppointmentStatusRequested,
		}
		if err := appointmentRepo.CreateExclusive(ctx, appointment); err != nil {
			if apperrors.IsKind(err, apperrors.KindConflict) {
				log.Info().Str("date", sa.date).Str("slot", sa.slot).Msg("slot already booked, skipping")
				continue
			}
			log.Fatal().Err(err).Msg("failed to insert appointment")
		}
		if sa.confirmed {
			if _, err := appointmentRepo.UpdateStatus(ctx, appointment.ID, model.AppointmentStatusConfirmed); err != nil {
				log.Fatal().Err(err).Str("id", appointment.ID.String()).Msg("failed to confirm appointment")
			}
		}
		log.Info().
			Str("id", appointment.ID.String()).
			Str("date", sa.date).
			Str("slot", sa.slot).
			Msg("appointment inserted")
	}

	log.Info().Msg("sample data loaded")
}
