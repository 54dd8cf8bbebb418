package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

type fakeProfessionals struct {
	findFn func(ctx context.Context, id uuid.UUID) (domain.Professional, error)
}

func (f *fakeProfessionals) FindByID(ctx context.Context, id uuid.UUID) (domain.Professional, error) {
	if f.findFn == nil {
		return domain.Professional{ID: id, UserType: domain.UserTypeProfessional}, nil
	}
	return f.findFn(ctx, id)
}

type fakeBlocked struct {
	periodFn func(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error)
}

func (f *fakeBlocked) FindByProfessionalAndPeriod(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error) {
	if f.periodFn == nil {
		return nil, nil
	}
	return f.periodFn(ctx, professionalID, start, end)
}

func (f *fakeBlocked) FindByID(ctx context.Context, id uuid.UUID) (domain.BlockedTime, error) {
	panic("FindByID not configured")
}

func (f *fakeBlocked) ListPaginated(ctx context.Context, filter store.BlockedTimeFilter) ([]domain.BlockedTime, int, error) {
	panic("ListPaginated not configured")
}

func (f *fakeBlocked) Create(ctx context.Context, bt domain.BlockedTime) (domain.BlockedTime, error) {
	panic("Create not configured")
}

func (f *fakeBlocked) Update(ctx context.Context, bt domain.BlockedTime) (domain.BlockedTime, error) {
	panic("Update not configured")
}

func (f *fakeBlocked) Delete(ctx context.Context, id uuid.UUID) error {
	panic("Delete not configured")
}

type fakeOffers struct {
	offers map[uuid.UUID]domain.Offer
}

func (f *fakeOffers) FindByID(ctx context.Context, id uuid.UUID) (domain.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return domain.Offer{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeOffers) FindByProfessionalAndService(ctx context.Context, professionalID, serviceID uuid.UUID) (domain.Offer, error) {
	panic("FindByProfessionalAndService not configured")
}

func (f *fakeOffers) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	panic("Create not configured")
}

type fakeShifts struct {
	shifts map[int16]domain.Shift
}

func (f *fakeShifts) FindByProfessionalAndWeekDay(ctx context.Context, professionalID uuid.UUID, weekDay int16) (domain.Shift, error) {
	s, ok := f.shifts[weekDay]
	if !ok || s.ProfessionalID != professionalID {
		return domain.Shift{}, store.ErrNotFound
	}
	return s, nil
}

type fakeAppointments struct {
	byUser map[uuid.UUID][]domain.Appointment
}

func (f *fakeAppointments) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	panic("FindByID not configured")
}

func (f *fakeAppointments) FindNonFinishedByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	var out []domain.Appointment
	for _, a := range f.byUser[userID] {
		if !a.AppointmentDate.Before(day) && a.AppointmentDate.Before(day.AddDate(0, 0, 1)) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) CountCustomerAppointmentsPerDay(ctx context.Context, customerID uuid.UUID, day time.Time, excludeID uuid.UUID) (int, error) {
	panic("CountCustomerAppointmentsPerDay not configured")
}

func (f *fakeAppointments) Create(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
	panic("Create not configured")
}

func (f *fakeAppointments) Update(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
	panic("Update not configured")
}

func (f *fakeAppointments) Delete(ctx context.Context, id uuid.UUID) error {
	panic("Delete not configured")
}
