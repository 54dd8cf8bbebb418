package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

// Slot is one candidate booking window of a day.
type Slot struct {
	Start  time.Time
	End    time.Time
	IsBusy bool
}

type Engine struct {
	offers       store.OfferRepository
	shifts       store.ShiftRepository
	appointments store.AppointmentRepository
	resolver     *Resolver
	loc          *time.Location
	log          *slog.Logger
}

func NewEngine(offers store.OfferRepository, shifts store.ShiftRepository, appointments store.AppointmentRepository, resolver *Resolver, loc *time.Location, log *slog.Logger) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		offers:       offers,
		shifts:       shifts,
		appointments: appointments,
		resolver:     resolver,
		loc:          loc,
		log:          log,
	}
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// ComputeDaySlots tiles the professional's shift on day with back-to-back slots
// of the offer's duration and marks each one busy if it overlaps an appointment
// of the customer or the professional, or a blocked time.
func (e *Engine) ComputeDaySlots(ctx context.Context, customerID, offerID uuid.UUID, day time.Time) ([]Slot, error) {
	offer, err := e.offers.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.BadRequest("offer not available")
		}
		return nil, fmt.Errorf("find offer: %w", err)
	}
	if !offer.IsOffering || offer.EstimatedTime <= 0 {
		return nil, domain.BadRequest("offer not available")
	}

	shift, err := e.workingShift(ctx, offer.ProfessionalID, day)
	if err != nil {
		return nil, err
	}

	dayStart := shift.ShiftStart.On(day, e.loc).UTC()
	dayEnd := shift.ShiftEnd.On(day, e.loc).UTC()

	busy, err := e.busyIntervals(ctx, customerID, offer.ProfessionalID, day, dayStart, dayEnd, uuid.Nil)
	if err != nil {
		return nil, err
	}

	slots := tileSlots(dayStart, dayEnd, offer.Duration(), busy)
	e.log.DebugContext(ctx, "day slots computed",
		"offer_id", offerID,
		"day", domain.DateOf(day, e.loc).Format(time.DateOnly),
		"slots", len(slots),
		"busy_intervals", len(busy),
	)
	return slots, nil
}

// CheckBookable reports whether [start, start+duration) can be booked for the
// customer with the offer's professional. excludeID skips an appointment that
// is being rescheduled.
func (e *Engine) CheckBookable(ctx context.Context, customerID uuid.UUID, offer domain.Offer, start time.Time, excludeID uuid.UUID) error {
	shift, err := e.workingShift(ctx, offer.ProfessionalID, start)
	if err != nil {
		return err
	}

	want := domain.Interval{Start: start.UTC(), End: start.UTC().Add(offer.Duration())}
	shiftStart := shift.ShiftStart.On(start, e.loc).UTC()
	shiftEnd := shift.ShiftEnd.On(start, e.loc).UTC()
	if want.Start.Before(shiftStart) || want.End.After(shiftEnd) {
		return domain.Conflict("time slot is not available")
	}

	busy, err := e.busyIntervals(ctx, customerID, offer.ProfessionalID, start, shiftStart, shiftEnd, excludeID)
	if err != nil {
		return err
	}
	for _, b := range busy {
		if want.Overlaps(b) {
			return domain.Conflict("time slot is not available")
		}
	}
	return nil
}

func (e *Engine) workingShift(ctx context.Context, professionalID uuid.UUID, day time.Time) (domain.Shift, error) {
	weekDay := domain.ISOWeekday(domain.DateOf(day, e.loc))
	shift, err := e.shifts.FindByProfessionalAndWeekDay(ctx, professionalID, weekDay)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Shift{}, domain.BadRequest("professional does not work this day")
		}
		return domain.Shift{}, fmt.Errorf("find shift: %w", err)
	}
	if !shift.Works() {
		return domain.Shift{}, domain.BadRequest("professional does not work this day")
	}
	return shift, nil
}

// busyIntervals loads the non-finished appointments of both parties and the
// professional's blocked times concurrently. Appointments of the previous day
// are included because the longest ones run past midnight.
func (e *Engine) busyIntervals(ctx context.Context, customerID, professionalID uuid.UUID, day, windowStart, windowEnd time.Time, excludeID uuid.UUID) ([]domain.Interval, error) {
	startOfDay := domain.StartOfDay(day, e.loc)
	days := []time.Time{domain.StartOfDay(startOfDay.AddDate(0, 0, -1), e.loc).UTC(), startOfDay.UTC()}

	loaded := make([][]domain.Appointment, 2*len(days))
	var blocked []domain.BlockedTime

	g, gctx := errgroup.WithContext(ctx)
	for i, party := range []struct {
		name   string
		userID uuid.UUID
	}{{"customer", customerID}, {"professional", professionalID}} {
		for j, d := range days {
			slot := i*len(days) + j
			g.Go(func() error {
				rows, err := e.appointments.FindNonFinishedByUserAndDay(gctx, party.userID, d)
				if err != nil {
					return fmt.Errorf("find %s appointments: %w", party.name, err)
				}
				loaded[slot] = rows
				return nil
			})
		}
	}
	g.Go(func() error {
		rows, err := e.resolver.Resolve(gctx, professionalID, windowStart, windowEnd)
		if err != nil {
			return err
		}
		blocked = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	appts := unionByID(loaded...)
	out := make([]domain.Interval, 0, len(appts)+len(blocked))
	for _, a := range appts {
		if a.ID == excludeID || a.Status.Finished() {
			continue
		}
		out = append(out, a.Interval())
	}
	for _, bt := range blocked {
		if !bt.AppliesOn(day, e.loc) {
			continue
		}
		out = append(out, bt.IntervalOn(day, e.loc))
	}
	return out, nil
}

func unionByID(lists ...[]domain.Appointment) []domain.Appointment {
	seen := make(map[uuid.UUID]struct{})
	var out []domain.Appointment
	for _, list := range lists {
		for _, a := range list {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}

// tileSlots walks from dayStart in steps of duration. The cursor never skips
// ahead past a busy interval, so slot boundaries stay on a uniform grid.
func tileSlots(dayStart, dayEnd time.Time, duration time.Duration, busy []domain.Interval) []Slot {
	if duration <= 0 {
		return nil
	}
	var slots []Slot
	for cursor := dayStart; !cursor.Add(duration).After(dayEnd); cursor = cursor.Add(duration) {
		slot := domain.Interval{Start: cursor, End: cursor.Add(duration)}
		isBusy := false
		for _, b := range busy {
			if slot.Overlaps(b) {
				isBusy = true
				break
			}
		}
		slots = append(slots, Slot{Start: slot.Start, End: slot.End, IsBusy: isBusy})
	}
	return slots
}
