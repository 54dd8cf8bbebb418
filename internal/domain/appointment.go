package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusFinished  AppointmentStatus = "FINISHED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusFinished, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Finished reports whether the appointment no longer occupies its time.
func (s AppointmentStatus) Finished() bool {
	return s == AppointmentStatusFinished || s == AppointmentStatusCancelled
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusFinished, AppointmentStatusCancelled},
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments,alias:a"`

	ID              uuid.UUID         `bun:"id,pk,type:uuid"`
	OfferID         uuid.UUID         `bun:"offer_id,notnull,type:uuid"`
	CustomerID      uuid.UUID         `bun:"customer_id,notnull,type:uuid"`
	AppointmentDate time.Time         `bun:"appointment_date,notnull"`
	Status          AppointmentStatus `bun:"status,notnull"`
	CreatedAt       time.Time         `bun:"created_at,notnull"`
	UpdatedAt       time.Time         `bun:"updated_at,notnull"`

	Offer *Offer `bun:"rel:belongs-to,join:offer_id=id"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// ProfessionalID is the professional behind the appointment's offer.
// It is uuid.Nil when the offer was not loaded.
func (a Appointment) ProfessionalID() uuid.UUID {
	if a.Offer == nil {
		return uuid.Nil
	}
	return a.Offer.ProfessionalID
}

func (a Appointment) Duration() time.Duration {
	if a.Offer == nil {
		return 0
	}
	return a.Offer.Duration()
}

// Interval is [AppointmentDate, AppointmentDate + offer duration).
func (a Appointment) Interval() Interval {
	start := a.AppointmentDate.UTC()
	return Interval{Start: start, End: start.Add(a.Duration())}
}

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses open bounds, so intervals that only touch do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && i.End.After(o.Start)
}
