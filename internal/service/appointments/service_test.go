package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

var (
	customerID     = uuid.MustParse("00000000-0000-0000-0000-00000000c001")
	professionalID = uuid.MustParse("00000000-0000-0000-0000-00000000b001")
	offerID        = uuid.MustParse("00000000-0000-0000-0000-00000000a001")
	testOffer      = domain.Offer{ID: offerID, ProfessionalID: professionalID, EstimatedTime: 60, IsOffering: true}
)

func newTestService(repo *fakeRepo, avail *fakeAvailability, n *recordingNotifier) *Service {
	if avail == nil {
		avail = &fakeAvailability{}
	}
	svc := NewService(repo, &fakeOffers{offer: testOffer}, newTestGuard(repo), avail, nil, nil)
	if n != nil {
		svc.notifier = n
	}
	return svc
}

func existingAppointment(status domain.AppointmentStatus) domain.Appointment {
	offer := testOffer
	return domain.Appointment{
		ID:              uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		OfferID:         offerID,
		CustomerID:      customerID,
		AppointmentDate: fixedNow.Add(24 * time.Hour),
		Status:          status,
		Offer:           &offer,
	}
}

func TestServiceCreate_PersistsPendingAppointment(t *testing.T) {
	date := fixedNow.Add(2 * time.Hour)
	var gotLimits store.BookingLimits
	repo := &fakeRepo{
		createFn: func(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
			gotLimits = limits
			return appt, nil
		},
	}
	svc := newTestService(repo, nil, nil)

	got, err := svc.Create(context.Background(), domain.AuthContext{UserID: customerID}, CreateInput{
		OfferID:         offerID,
		AppointmentDate: date.Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Status != domain.AppointmentStatusPending || got.CustomerID != customerID || !got.AppointmentDate.Equal(date) {
		t.Fatalf("created = %+v", got)
	}
	if gotLimits.MaxDailyAppointments != DefaultMaxDailyAppointments || !gotLimits.Day.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("limits = %+v", gotLimits)
	}
}

func TestServiceCreate_IdempotencyKey(t *testing.T) {
	date := fixedNow.Add(2 * time.Hour)
	auth := domain.AuthContext{UserID: customerID}

	var stored *domain.Appointment
	repo := &fakeRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			if stored == nil || stored.ID != id {
				return domain.Appointment{}, store.ErrNotFound
			}
			return *stored, nil
		},
		createFn: func(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
			if stored != nil {
				t.Fatalf("replay reached the store")
			}
			stored = &appt
			return appt, nil
		},
	}
	svc := newTestService(repo, nil, nil)
	in := CreateInput{OfferID: offerID, AppointmentDate: date.Format(time.RFC3339), IdempotencyKey: "k1"}

	first, err := svc.Create(context.Background(), auth, in)
	if err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	if first.ID == uuid.Nil {
		t.Fatalf("expected deterministic id")
	}

	second, err := svc.Create(context.Background(), auth, in)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("replay id = %s, want %s", second.ID, first.ID)
	}

	in.AppointmentDate = date.Add(time.Hour).Format(time.RFC3339)
	_, err = svc.Create(context.Background(), auth, in)
	if !domain.IsKind(err, domain.ErrorKindConflict) {
		t.Fatalf("replay with different data: err = %v, want conflict", err)
	}
}

func TestServiceCreate_MapsStoreErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "daily cap race", err: store.ErrDailyLimitReached, wantMsg: "maximum appointments for today reached"},
		{name: "overlap race", err: store.ErrConflict, wantMsg: "time slot is not available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{createFn: func(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
				return domain.Appointment{}, tt.err
			}}
			svc := newTestService(repo, nil, nil)
			_, err := svc.Create(context.Background(), domain.AuthContext{UserID: customerID}, CreateInput{
				OfferID:         offerID,
				AppointmentDate: fixedNow.Add(time.Hour).Format(time.RFC3339),
			})
			if !domain.IsKind(err, domain.ErrorKindConflict) || err.Error() != tt.wantMsg {
				t.Fatalf("err = %v, want conflict %q", err, tt.wantMsg)
			}
		})
	}
}

func TestServiceCreate_RejectsUnavailableSlot(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeAvailability{checkFn: func(ctx context.Context, customerID uuid.UUID, offer domain.Offer, start time.Time, excludeID uuid.UUID) error {
		return domain.Conflict("time slot is not available")
	}}, nil)

	_, err := svc.Create(context.Background(), domain.AuthContext{UserID: customerID}, CreateInput{
		OfferID:         offerID,
		AppointmentDate: fixedNow.Add(time.Hour).Format(time.RFC3339),
	})
	if !domain.IsKind(err, domain.ErrorKindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestServiceUpdate_NonPartyIsForbidden(t *testing.T) {
	repo := &fakeRepo{findFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
		return existingAppointment(domain.AppointmentStatusPending), nil
	}}
	svc := newTestService(repo, nil, nil)
	stranger := domain.AuthContext{UserID: uuid.New()}
	cancelled := domain.AppointmentStatusCancelled

	_, err := svc.Update(context.Background(), stranger, existingAppointment("").ID, UpdateInput{Status: &cancelled})
	if !domain.IsKind(err, domain.ErrorKindForbidden) {
		t.Fatalf("update: err = %v, want forbidden", err)
	}
	_, err = svc.Delete(context.Background(), stranger, existingAppointment("").ID)
	if !domain.IsKind(err, domain.ErrorKindForbidden) {
		t.Fatalf("delete: err = %v, want forbidden", err)
	}
}

func TestServiceUpdate_StatusTransitions(t *testing.T) {
	confirmed := domain.AppointmentStatusConfirmed
	finished := domain.AppointmentStatusFinished
	pending := domain.AppointmentStatusPending

	tests := []struct {
		name     string
		from     domain.AppointmentStatus
		to       *domain.AppointmentStatus
		actor    uuid.UUID
		wantKind domain.ErrorKind
	}{
		{name: "professional confirms", from: domain.AppointmentStatusPending, to: &confirmed, actor: professionalID},
		{name: "customer cannot confirm", from: domain.AppointmentStatusPending, to: &confirmed, actor: customerID, wantKind: domain.ErrorKindForbidden},
		{name: "professional finishes", from: domain.AppointmentStatusConfirmed, to: &finished, actor: professionalID},
		{name: "pending cannot finish", from: domain.AppointmentStatusPending, to: &finished, actor: professionalID, wantKind: domain.ErrorKindConflict},
		{name: "no way back", from: domain.AppointmentStatusConfirmed, to: &pending, actor: professionalID, wantKind: domain.ErrorKindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{
				findFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
					return existingAppointment(tt.from), nil
				},
				updateFn: func(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
					return appt, nil
				},
			}
			svc := newTestService(repo, nil, newRecordingNotifier())
			got, err := svc.Update(context.Background(), domain.AuthContext{UserID: tt.actor}, existingAppointment("").ID, UpdateInput{Status: tt.to})
			if tt.wantKind != "" {
				if !domain.IsKind(err, tt.wantKind) {
					t.Fatalf("err = %v, want %s", err, tt.wantKind)
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if got.Status != *tt.to {
				t.Fatalf("status = %s, want %s", got.Status, *tt.to)
			}
		})
	}
}

func TestServiceUpdate_CancelNotifies(t *testing.T) {
	repo := &fakeRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
			return existingAppointment(domain.AppointmentStatusConfirmed), nil
		},
		updateFn: func(ctx context.Context, appt domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
			return appt, nil
		},
	}
	n := newRecordingNotifier()
	n.err = errors.New("broker down")
	svc := newTestService(repo, nil, n)
	cancelled := domain.AppointmentStatusCancelled

	_, err := svc.Update(context.Background(), domain.AuthContext{UserID: customerID}, existingAppointment("").ID, UpdateInput{Status: &cancelled})
	if err != nil {
		t.Fatalf("notifier failure leaked into the result: %v", err)
	}

	select {
	case ev := <-n.events:
		if ev.Status != domain.AppointmentStatusCancelled || ev.ProfessionalID != professionalID {
			t.Fatalf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no notification sent")
	}
}

func TestServiceUpdate_RescheduleExcludesItself(t *testing.T) {
	appt := existingAppointment(domain.AppointmentStatusPending)
	newDate := fixedNow.Add(48 * time.Hour)
	var gotExclude uuid.UUID
	repo := &fakeRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) { return appt, nil },
		updateFn: func(ctx context.Context, a domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
			return a, nil
		},
	}
	svc := newTestService(repo, &fakeAvailability{checkFn: func(ctx context.Context, customerID uuid.UUID, offer domain.Offer, start time.Time, excludeID uuid.UUID) error {
		gotExclude = excludeID
		return nil
	}}, nil)

	date := newDate.Format(time.RFC3339)
	got, err := svc.Update(context.Background(), domain.AuthContext{UserID: customerID}, appt.ID, UpdateInput{AppointmentDate: &date})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if gotExclude != appt.ID {
		t.Fatalf("excludeID = %s, want %s", gotExclude, appt.ID)
	}
	if !got.AppointmentDate.Equal(newDate) {
		t.Fatalf("date = %v, want %v", got.AppointmentDate, newDate)
	}
}

func TestServiceUpdate_RescheduleRespectsDailyCap(t *testing.T) {
	appt := existingAppointment(domain.AppointmentStatusPending)
	target := fixedNow.Add(26 * time.Hour)

	tests := []struct {
		name     string
		existing int
		wantErr  bool
	}{
		{name: "room left", existing: DefaultMaxDailyAppointments - 1},
		{name: "target day full", existing: DefaultMaxDailyAppointments, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotExclude uuid.UUID
			var gotLimits store.BookingLimits
			updated := false
			repo := &fakeRepo{
				findFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) { return appt, nil },
				countFn: func(ctx context.Context, customerID uuid.UUID, day time.Time, excludeID uuid.UUID) (int, error) {
					gotExclude = excludeID
					return tt.existing, nil
				},
				updateFn: func(ctx context.Context, a domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
					updated = true
					gotLimits = limits
					return a, nil
				},
			}
			svc := newTestService(repo, nil, nil)

			date := target.Format(time.RFC3339)
			_, err := svc.Update(context.Background(), domain.AuthContext{UserID: customerID}, appt.ID, UpdateInput{AppointmentDate: &date})
			if gotExclude != appt.ID {
				t.Fatalf("count excludeID = %s, want the rescheduled appointment %s", gotExclude, appt.ID)
			}
			if tt.wantErr {
				if !domain.IsKind(err, domain.ErrorKindConflict) || err.Error() != "maximum appointments for today reached" {
					t.Fatalf("err = %v, want daily cap conflict", err)
				}
				if updated {
					t.Fatalf("repository updated despite a full day")
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			wantDay := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
			if gotLimits.MaxDailyAppointments != DefaultMaxDailyAppointments || !gotLimits.Day.Equal(wantDay) {
				t.Fatalf("limits = %+v, want cap on %v", gotLimits, wantDay)
			}
		})
	}
}

func TestServiceUpdate_StatusChangeSkipsDailyCap(t *testing.T) {
	appt := existingAppointment(domain.AppointmentStatusPending)
	var gotLimits store.BookingLimits
	repo := &fakeRepo{
		findFn: func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) { return appt, nil },
		countFn: func(ctx context.Context, customerID uuid.UUID, day time.Time, excludeID uuid.UUID) (int, error) {
			t.Fatalf("count must not run for a status-only change")
			return 0, nil
		},
		updateFn: func(ctx context.Context, a domain.Appointment, limits store.BookingLimits) (domain.Appointment, error) {
			gotLimits = limits
			return a, nil
		},
	}
	svc := newTestService(repo, nil, newRecordingNotifier())
	confirmed := domain.AppointmentStatusConfirmed

	if _, err := svc.Update(context.Background(), domain.AuthContext{UserID: professionalID}, appt.ID, UpdateInput{Status: &confirmed}); err != nil {
		t.Fatalf("err = %v", err)
	}
	if gotLimits != (store.BookingLimits{}) {
		t.Fatalf("limits = %+v, want none", gotLimits)
	}
}

func TestServiceDelete_ReturnsDeletedRow(t *testing.T) {
	appt := existingAppointment(domain.AppointmentStatusPending)
	deleted := false
	repo := &fakeRepo{
		findFn:   func(ctx context.Context, id uuid.UUID) (domain.Appointment, error) { return appt, nil },
		deleteFn: func(ctx context.Context, id uuid.UUID) error { deleted = true; return nil },
	}
	svc := newTestService(repo, nil, nil)

	got, err := svc.Delete(context.Background(), domain.AuthContext{UserID: professionalID}, appt.ID)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if !deleted || got.ID != appt.ID {
		t.Fatalf("deleted = %v, got = %+v", deleted, got)
	}
}

func TestServiceDelete_NotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil, nil)
	_, err := svc.Delete(context.Background(), domain.AuthContext{UserID: customerID}, uuid.New())
	if !domain.IsKind(err, domain.ErrorKindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}
