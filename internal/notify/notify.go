package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

// AppointmentEvent reports that an appointment changed status.
type AppointmentEvent struct {
	AppointmentID   uuid.UUID                `json:"appointment_id"`
	CustomerID      uuid.UUID                `json:"customer_id"`
	ProfessionalID  uuid.UUID                `json:"professional_id"`
	OfferID         uuid.UUID                `json:"offer_id"`
	Status          domain.AppointmentStatus `json:"status"`
	AppointmentDate time.Time                `json:"appointment_date"`
	OccurredAt      time.Time                `json:"occurred_at"`
}

func NewAppointmentEvent(appt domain.Appointment, now time.Time) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID:   appt.ID,
		CustomerID:      appt.CustomerID,
		ProfessionalID:  appt.ProfessionalID(),
		OfferID:         appt.OfferID,
		Status:          appt.Status,
		AppointmentDate: appt.AppointmentDate.UTC(),
		OccurredAt:      now.UTC(),
	}
}

type Notifier interface {
	AppointmentStatusChanged(ctx context.Context, ev AppointmentEvent) error
}

// Noop drops every event.
type Noop struct{}

func (Noop) AppointmentStatusChanged(ctx context.Context, ev AppointmentEvent) error {
	return nil
}
