package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

const (
	DefaultMinLeadTime          = 30 * time.Minute
	DefaultMaxDailyAppointments = 10
)

type GuardConfig struct {
	MinLeadTime          time.Duration
	MaxDailyAppointments int
	Location             *time.Location
	Now                  func() time.Time
}

// Guard holds the booking rules that do not depend on the professional's calendar.
type Guard struct {
	repo        store.AppointmentRepository
	minLeadTime time.Duration
	maxDaily    int
	loc         *time.Location
	now         func() time.Time
}

func NewGuard(repo store.AppointmentRepository, cfg GuardConfig) *Guard {
	g := &Guard{
		repo:        repo,
		minLeadTime: cfg.MinLeadTime,
		maxDaily:    cfg.MaxDailyAppointments,
		loc:         cfg.Location,
		now:         cfg.Now,
	}
	if g.minLeadTime <= 0 {
		g.minLeadTime = DefaultMinLeadTime
	}
	if g.maxDaily <= 0 {
		g.maxDaily = DefaultMaxDailyAppointments
	}
	if g.loc == nil {
		g.loc = time.UTC
	}
	if g.now == nil {
		g.now = time.Now
	}
	return g
}

// ValidateCreate parses appointmentDate and checks it against the lead time and
// the customer's daily appointment cap.
func (g *Guard) ValidateCreate(ctx context.Context, appointmentDate string, customerID uuid.UUID) (time.Time, error) {
	date, err := g.ValidateReschedule(appointmentDate)
	if err != nil {
		return time.Time{}, err
	}

	if err := g.CheckDailyCap(ctx, customerID, date, uuid.Nil); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

// CheckDailyCap counts the customer's appointments on date's day, ignoring
// excludeID, against the daily cap.
func (g *Guard) CheckDailyCap(ctx context.Context, customerID uuid.UUID, date time.Time, excludeID uuid.UUID) error {
	count, err := g.repo.CountCustomerAppointmentsPerDay(ctx, customerID, g.DayOf(date), excludeID)
	if err != nil {
		return fmt.Errorf("count appointments: %w", err)
	}
	if count >= g.maxDaily {
		return domain.Conflict("maximum appointments for today reached")
	}
	return nil
}

// ValidateReschedule applies the date rules of ValidateCreate without the daily cap.
func (g *Guard) ValidateReschedule(appointmentDate string) (time.Time, error) {
	date, err := time.Parse(time.RFC3339, appointmentDate)
	if err != nil {
		return time.Time{}, domain.BadRequest("invalid date")
	}
	date = date.UTC()

	now := g.now().UTC()
	if date.Before(now) {
		return time.Time{}, domain.Conflict("time is in the past")
	}
	if date.Sub(now) < g.minLeadTime {
		return time.Time{}, domain.Conflict(fmt.Sprintf("must be at least %d minutes in the future", int(g.minLeadTime/time.Minute)))
	}
	return date, nil
}

// ValidateOwnership allows the customer and the offer's professional.
func (g *Guard) ValidateOwnership(appt domain.Appointment, actingUserID uuid.UUID) error {
	if actingUserID == uuid.Nil {
		return domain.Forbidden("not allowed to modify this appointment")
	}
	if appt.CustomerID == actingUserID || appt.ProfessionalID() == actingUserID {
		return nil
	}
	return domain.Forbidden("not allowed to modify this appointment")
}

// DayOf is the start of date's calendar day in the business timezone.
func (g *Guard) DayOf(date time.Time) time.Time {
	return domain.StartOfDay(date, g.loc).UTC()
}

func (g *Guard) Limits(date time.Time) store.BookingLimits {
	return store.BookingLimits{Day: g.DayOf(date), MaxDailyAppointments: g.maxDaily}
}
