package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/notify"
	"salonbook/backend/internal/store"
)

type fakeRepo struct {
	findFn   func(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	countFn  func(ctx context.Context, customerID uuid.UUID, day time.Time, excludeID uuid.UUID) (int, error)
	createFn func(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error)
	updateFn func(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	if f.findFn == nil {
		return domain.Appointment{}, store.ErrNotFound
	}
	return f.findFn(ctx, id)
}

func (f *fakeRepo) FindNonFinishedByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	panic("FindNonFinishedByUserAndDay not configured")
}

func (f *fakeRepo) CountCustomerAppointmentsPerDay(ctx context.Context, customerID uuid.UUID, day time.Time, excludeID uuid.UUID) (int, error) {
	if f.countFn == nil {
		return 0, nil
	}
	return f.countFn(ctx, customerID, day, excludeID)
}

func (f *fakeRepo) Create(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, appt, limits)
}

func (f *fakeRepo) Update(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
	if f.updateFn == nil {
		panic("Update not configured")
	}
	return f.updateFn(ctx, appt, limits)
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

type fakeOffers struct {
	offer domain.Offer
}

func (f *fakeOffers) FindByID(ctx context.Context, id uuid.UUID) (domain.Offer, error) {
	if id != f.offer.ID {
		return domain.Offer{}, store.ErrNotFound
	}
	return f.offer, nil
}

func (f *fakeOffers) FindByProfessionalAndService(ctx context.Context, professionalID, serviceID uuid.UUID) (domain.Offer, error) {
	panic("FindByProfessionalAndService not configured")
}

func (f *fakeOffers) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	panic("Create not configured")
}

type fakeAvailability struct {
	checkFn func(ctx context.Context, customerID uuid.UUID, offer domain.Offer, start time.Time, excludeID uuid.UUID) error
}

func (f *fakeAvailability) CheckBookable(ctx context.Context, customerID uuid.UUID, offer domain.Offer, start time.Time, excludeID uuid.UUID) error {
	if f.checkFn == nil {
		return nil
	}
	return f.checkFn(ctx, customerID, offer, start, excludeID)
}

type recordingNotifier struct {
	events chan notify.AppointmentEvent
	err    error
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(chan notify.AppointmentEvent, 4)}
}

func (n *recordingNotifier) AppointmentStatusChanged(ctx context.Context, ev notify.AppointmentEvent) error {
	n.events <- ev
	return n.err
}
