package postgres

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

// Appointments never run past 24 hours, so this lookback finds every
// appointment that can still be in progress at a given instant.
const appointmentLookback = 24 * time.Hour

var finishedStatuses = []domain.AppointmentStatus{
	domain.AppointmentStatusFinished,
	domain.AppointmentStatusCancelled,
}

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

type bookingTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var a domain.Appointment
	err := r.db.NewSelect().
		Model(&a).
		Relation("Offer").
		Where("a.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentRepo) FindNonFinishedByUserAndDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Relation("Offer").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("a.customer_id = ?", userID).WhereOr("offer.professional_id = ?", userID)
		}).
		Where("a.status NOT IN (?)", bun.In(finishedStatuses)).
		Where("a.appointment_date >= ?", day).
		Where("a.appointment_date < ?", day.AddDate(0, 0, 1)).
		OrderExpr("a.appointment_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) CountCustomerAppointmentsPerDay(ctx context.Context, customerID uuid.UUID, day time.Time, excludeID uuid.UUID) (int, error) {
	return countCustomerAppointments(ctx, r.db, customerID, day, day.AddDate(0, 0, 1), excludeID)
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
	if appt.Offer == nil {
		return domain.Appointment{}, errors.New("appointment offer must be loaded")
	}

	var out domain.Appointment
	err := r.InBookingTransaction(ctx, []uuid.UUID{appt.CustomerID, appt.ProfessionalID()}, func(ctx context.Context, tx store.BookingTx) error {
		if err := ensureBookable(ctx, tx, appt, limits); err != nil {
			return err
		}
		a, err := tx.InsertAppointment(ctx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

// Update rechecks overlap for appointments that are still active. A non-zero
// limits also rechecks the daily cap, which callers pass when rescheduling.
func (r *AppointmentRepo) Update(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
	if appt.Offer == nil {
		return domain.Appointment{}, errors.New("appointment offer must be loaded")
	}

	err := r.InBookingTransaction(ctx, []uuid.UUID{appt.CustomerID, appt.ProfessionalID()}, func(ctx context.Context, tx store.BookingTx) error {
		if !appt.Status.Finished() {
			if err := ensureBookable(ctx, tx, appt, limits); err != nil {
				return err
			}
		}
		return tx.UpdateAppointment(ctx, appt)
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return r.FindByID(ctx, appt.ID)
}

func (r *AppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InBookingTransaction serializes bookings touching any of userIDs.
func (r *AppointmentRepo) InBookingTransaction(ctx context.Context, userIDs []uuid.UUID, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, key := range lockKeys(userIDs) {
			if err := lockCalendar(ctx, tx, key); err != nil {
				return err
			}
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

// lockKeys dedupes and sorts so concurrent transactions take locks in the same order.
func lockKeys(userIDs []uuid.UUID) []string {
	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, id.String())
	}
	sort.Strings(keys)
	return keys
}

func lockCalendar(ctx context.Context, tx bun.Tx, key string) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}

func countCustomerAppointments(ctx context.Context, db bun.IDB, customerID uuid.UUID, dayStart, dayEnd time.Time, excludeID uuid.UUID) (int, error) {
	q := db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("a.customer_id = ?", customerID).
		Where("a.status != ?", domain.AppointmentStatusCancelled).
		Where("a.appointment_date >= ?", dayStart).
		Where("a.appointment_date < ?", dayEnd)
	if excludeID != uuid.Nil {
		q = q.Where("a.id != ?", excludeID)
	}
	return q.Count(ctx)
}

func (r bookingTx) CountCustomerAppointments(ctx context.Context, customerID uuid.UUID, dayStart, dayEnd time.Time, excludeID uuid.UUID) (int, error) {
	return countCustomerAppointments(ctx, r.tx, customerID, dayStart, dayEnd, excludeID)
}

func (r bookingTx) ListActiveBetween(ctx context.Context, userIDs []uuid.UUID, from, to time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.tx.NewSelect().
		Model(&rows).
		Relation("Offer").
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("a.customer_id IN (?)", bun.In(userIDs)).WhereOr("offer.professional_id IN (?)", bun.In(userIDs))
		}).
		Where("a.status NOT IN (?)", bun.In(finishedStatuses)).
		Where("a.appointment_date >= ?", from).
		Where("a.appointment_date < ?", to).
		OrderExpr("a.appointment_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r bookingTx) InsertAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:              appt.ID,
		OfferID:         appt.OfferID,
		CustomerID:      appt.CustomerID,
		AppointmentDate: appt.AppointmentDate,
		Status:          appt.Status,
		CreatedAt:       appt.CreatedAt,
		UpdatedAt:       appt.UpdatedAt,
	}

	res, err := r.tx.NewInsert().Model(&m).On("CONFLICT (id) DO NOTHING").Exec(ctx)
	if err != nil {
		return domain.Appointment{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		var existing domain.Appointment
		err := r.tx.NewSelect().
			Model(&existing).
			Relation("Offer").
			Where("a.id = ?", m.ID).
			Limit(1).
			Scan(ctx)
		if err != nil {
			return domain.Appointment{}, err
		}
		if existing.CustomerID != appt.CustomerID ||
			existing.OfferID != appt.OfferID ||
			!existing.AppointmentDate.Equal(appt.AppointmentDate) {
			return domain.Appointment{}, store.ErrIdempotencyConflict
		}
		return existing, nil
	}

	m.Offer = appt.Offer
	return m, nil
}

func (r bookingTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) error {
	m := domain.Appointment{
		ID:              appt.ID,
		AppointmentDate: appt.AppointmentDate,
		Status:          appt.Status,
	}
	res, err := r.tx.NewUpdate().
		Model(&m).
		Column("appointment_date", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ensureBookable rechecks the daily cap and appointment overlap inside the
// booking transaction. The appointment's own row is ignored so replays and
// updates do not conflict with themselves.
func ensureBookable(ctx context.Context, tx store.BookingTx, appt domain.Appointment, limits store.BookingLimits) error {
	if limits.MaxDailyAppointments > 0 {
		count, err := tx.CountCustomerAppointments(ctx, appt.CustomerID, limits.Day, limits.Day.AddDate(0, 0, 1), appt.ID)
		if err != nil {
			return err
		}
		if count >= limits.MaxDailyAppointments {
			return store.ErrDailyLimitReached
		}
	}

	want := appt.Interval()
	existing, err := tx.ListActiveBetween(ctx, []uuid.UUID{appt.CustomerID, appt.ProfessionalID()}, want.Start.Add(-appointmentLookback), want.End)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.ID == appt.ID {
			continue
		}
		if want.Overlaps(e.Interval()) {
			return store.ErrConflict
		}
	}
	return nil
}
