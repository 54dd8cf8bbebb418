package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

// AppointmentRepository loads appointments together with their offer.
// Day arguments are the start of a calendar day; the day spans 24 hours from there.
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	// FindNonFinishedByUserAndDay matches userID as customer or as the offer's professional.
	FindNonFinishedByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]domain.Appointment, error)
	CountCustomerAppointmentsPerDay(ctx context.Context, customerID uuid.UUID, day time.Time, excludeID uuid.UUID) (int, error)
	Create(ctx context.Context, appt domain.Appointment, limits BookingLimits) (domain.Appointment, error)
	Update(ctx context.Context, appt domain.Appointment, limits BookingLimits) (domain.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingLimits are rechecked by Create under the customer and professional locks.
type BookingLimits struct {
	Day                  time.Time
	MaxDailyAppointments int
}

type BookingTx interface {
	CountCustomerAppointments(ctx context.Context, customerID uuid.UUID, dayStart, dayEnd time.Time, excludeID uuid.UUID) (int, error)
	ListActiveBetween(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]domain.Appointment, error)
	InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	UpdateAppointment(ctx context.Context, appt domain.Appointment) error
}
