package appointments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/notify"
	"salonbook/backend/internal/store"
)

const notifyTimeout = 10 * time.Second

// Availability checks a requested time against the professional's calendar.
type Availability interface {
	CheckBookable(ctx context.Context, customerID uuid.UUID, offer domain.Offer, start time.Time, excludeID uuid.UUID) error
}

type Service struct {
	repo         store.AppointmentRepository
	offers       store.OfferRepository
	guard        *Guard
	availability Availability
	notifier     notify.Notifier
	log          *slog.Logger
	now          func() time.Time
}

func NewService(repo store.AppointmentRepository, offers store.OfferRepository, guard *Guard, availability Availability, notifier notify.Notifier, log *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:         repo,
		offers:       offers,
		guard:        guard,
		availability: availability,
		notifier:     notifier,
		log:          log,
		now:          guard.now,
	}
}

type CreateInput struct {
	OfferID         uuid.UUID
	AppointmentDate string
	IdempotencyKey  string
}

func (s *Service) Create(ctx context.Context, auth domain.AuthContext, in CreateInput) (domain.Appointment, error) {
	if auth.UserID == uuid.Nil {
		return domain.Appointment{}, domain.Forbidden("authentication required")
	}
	if in.OfferID == uuid.Nil {
		return domain.Appointment{}, domain.BadRequest("offer_id is required")
	}

	var id uuid.UUID
	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" {
		if len(key) > 256 {
			return domain.Appointment{}, domain.BadRequest("idempotency_key too long")
		}
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("salonbook:create_appointment:"+auth.UserID.String()+":"+key))

		existing, err := s.repo.FindByID(ctx, id)
		switch {
		case err == nil:
			return replayed(existing, auth.UserID, in)
		case !errors.Is(err, store.ErrNotFound):
			return domain.Appointment{}, fmt.Errorf("find appointment: %w", err)
		}
	}

	date, err := s.guard.ValidateCreate(ctx, in.AppointmentDate, auth.UserID)
	if err != nil {
		return domain.Appointment{}, err
	}

	offer, err := s.offers.FindByID(ctx, in.OfferID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, domain.BadRequest("offer not available")
		}
		return domain.Appointment{}, fmt.Errorf("find offer: %w", err)
	}
	if !offer.IsOffering || offer.EstimatedTime <= 0 {
		return domain.Appointment{}, domain.BadRequest("offer not available")
	}

	if err := s.availability.CheckBookable(ctx, auth.UserID, offer, date, uuid.Nil); err != nil {
		return domain.Appointment{}, err
	}

	appt := domain.Appointment{
		ID:              id,
		OfferID:         offer.ID,
		CustomerID:      auth.UserID,
		AppointmentDate: date,
		Status:          domain.AppointmentStatusPending,
		Offer:           &offer,
	}
	created, err := s.repo.Create(ctx, appt, s.guard.Limits(date))
	if err != nil {
		return domain.Appointment{}, mapStoreError(err)
	}

	s.log.InfoContext(ctx, "appointment created",
		"appointment_id", created.ID,
		"offer_id", created.OfferID,
		"customer_id", created.CustomerID,
	)
	return created, nil
}

func replayed(existing domain.Appointment, customerID uuid.UUID, in CreateInput) (domain.Appointment, error) {
	date, err := time.Parse(time.RFC3339, in.AppointmentDate)
	if err != nil {
		return domain.Appointment{}, domain.BadRequest("invalid date")
	}
	if existing.CustomerID != customerID || existing.OfferID != in.OfferID || !existing.AppointmentDate.Equal(date) {
		return domain.Appointment{}, domain.Conflict("idempotency key already used with different data")
	}
	return existing, nil
}

type UpdateInput struct {
	Status          *domain.AppointmentStatus
	AppointmentDate *string
}

func (s *Service) Update(ctx context.Context, auth domain.AuthContext, id uuid.UUID, in UpdateInput) (domain.Appointment, error) {
	if in.Status == nil && in.AppointmentDate == nil {
		return domain.Appointment{}, domain.BadRequest("nothing to update")
	}

	appt, err := s.find(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if err := s.guard.ValidateOwnership(appt, auth.UserID); err != nil {
		return domain.Appointment{}, err
	}

	statusChanged := false
	if in.Status != nil && *in.Status != appt.Status {
		next := *in.Status
		if !next.Valid() {
			return domain.Appointment{}, domain.BadRequest("invalid status")
		}
		if !appt.Status.CanTransitionTo(next) {
			return domain.Appointment{}, domain.Conflict(fmt.Sprintf("cannot change status from %s to %s", appt.Status, next))
		}
		if (next == domain.AppointmentStatusConfirmed || next == domain.AppointmentStatusFinished) && auth.UserID != appt.ProfessionalID() {
			return domain.Appointment{}, domain.Forbidden("only the professional can confirm or finish an appointment")
		}
		appt.Status = next
		statusChanged = true
	}

	var limits store.BookingLimits
	if in.AppointmentDate != nil {
		if appt.Status.Finished() {
			return domain.Appointment{}, domain.Conflict("appointment can no longer be rescheduled")
		}
		date, err := s.guard.ValidateReschedule(*in.AppointmentDate)
		if err != nil {
			return domain.Appointment{}, err
		}
		if err := s.guard.CheckDailyCap(ctx, appt.CustomerID, date, appt.ID); err != nil {
			return domain.Appointment{}, err
		}
		if err := s.availability.CheckBookable(ctx, appt.CustomerID, *appt.Offer, date, appt.ID); err != nil {
			return domain.Appointment{}, err
		}
		appt.AppointmentDate = date
		limits = s.guard.Limits(date)
	}

	updated, err := s.repo.Update(ctx, appt, limits)
	if err != nil {
		return domain.Appointment{}, mapStoreError(err)
	}

	s.log.InfoContext(ctx, "appointment updated",
		"appointment_id", updated.ID,
		"status", updated.Status,
	)
	if statusChanged && (updated.Status == domain.AppointmentStatusConfirmed || updated.Status == domain.AppointmentStatusCancelled) {
		s.notifyStatusChanged(ctx, updated)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, auth domain.AuthContext, id uuid.UUID) (domain.Appointment, error) {
	appt, err := s.find(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if err := s.guard.ValidateOwnership(appt, auth.UserID); err != nil {
		return domain.Appointment{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.Appointment{}, mapStoreError(err)
	}

	s.log.InfoContext(ctx, "appointment deleted", "appointment_id", id)
	return appt, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if id == uuid.Nil {
		return domain.Appointment{}, domain.BadRequest("appointment_id is required")
	}
	appt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, domain.NotFound("appointment not found")
		}
		return domain.Appointment{}, fmt.Errorf("find appointment: %w", err)
	}
	if appt.Offer == nil {
		return domain.Appointment{}, fmt.Errorf("appointment %s loaded without offer", id)
	}
	return appt, nil
}

// notifyStatusChanged publishes in the background. Failures are only logged.
func (s *Service) notifyStatusChanged(ctx context.Context, appt domain.Appointment) {
	ev := notify.NewAppointmentEvent(appt, s.now())
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := s.notifier.AppointmentStatusChanged(ctx, ev); err != nil {
			s.log.WarnContext(ctx, "appointment notification failed",
				"appointment_id", ev.AppointmentID,
				"status", ev.Status,
				"err", err,
			)
		}
	}()
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrDailyLimitReached):
		return domain.Conflict("maximum appointments for today reached")
	case errors.Is(err, store.ErrConflict):
		return domain.Conflict("time slot is not available")
	case errors.Is(err, store.ErrIdempotencyConflict):
		return domain.Conflict("idempotency key already used with different data")
	case errors.Is(err, store.ErrNotFound):
		return domain.NotFound("appointment not found")
	default:
		return fmt.Errorf("store appointment: %w", err)
	}
}
