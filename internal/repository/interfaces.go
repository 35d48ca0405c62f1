package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicops/clinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository owns user identity records.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		CountByRole(ctx context.Context) (*model.RoleCounts, error)
	}

	// AppointmentRepository owns appointment records. Writes that must be
	// atomic with their conflict checks are single methods so the
	// transaction never leaks out of the repository.
	AppointmentRepository interface {
		// CreateExclusive inserts the appointment only if no live
		// (requested or confirmed) appointment holds the same
		// (doctor, date, slot). Check and insert run in one transaction.
		CreateExclusive(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		// UpdateStatus applies the status state machine to the row under a
		// row lock and returns the updated record.
		UpdateStatus(ctx context.Context, id uuid.UUID, next model.AppointmentStatus) (*model.Appointment, error)
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		Count(ctx context.Context) (int, error)
	}

	// MessageRepository owns the append-only message log.
	MessageRepository interface {
		Create(ctx context.Context, message *model.Message) error
		ListByConversation(ctx context.Context, filters *model.MessageFilters) ([]*model.Message, error)
	}

	OutboxRepository interface {
		GetPendingEventsWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
