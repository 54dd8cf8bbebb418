package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestResolve_FiltersAndSorts(t *testing.T) {
	blocked := []domain.BlockedTime{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), ProfessionalID: professionalID, Tuesday: true, IsActive: true, StartDate: datePtr(2026, 1, 1)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), ProfessionalID: professionalID, Tuesday: true, IsActive: true},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000003"), ProfessionalID: professionalID, Friday: true, IsActive: true},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000004"), ProfessionalID: professionalID, Tuesday: true, IsActive: false},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000005"), ProfessionalID: professionalID, Tuesday: true, IsActive: true, EndDate: datePtr(2025, 12, 31)},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000006"), ProfessionalID: professionalID, Tuesday: true, IsActive: true, StartDate: datePtr(2025, 6, 1), EndDate: datePtr(2026, 1, 6)},
	}
	r := NewResolver(&fakeProfessionals{}, &fakeBlocked{
		periodFn: func(ctx context.Context, id uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error) {
			return blocked, nil
		},
	}, time.UTC)

	day := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	got, err := r.Resolve(context.Background(), professionalID, at(day, 9, 0), at(day, 17, 0))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	wantIDs := []string{
		"00000000-0000-0000-0000-000000000002",
		"00000000-0000-0000-0000-000000000006",
		"00000000-0000-0000-0000-000000000001",
	}
	if len(got) != len(wantIDs) {
		t.Fatalf("len(got) = %d, want %d: %v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID.String() != id {
			t.Fatalf("got[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestResolve_WeekLongWindowCoversEveryWeekday(t *testing.T) {
	r := NewResolver(&fakeProfessionals{}, &fakeBlocked{
		periodFn: func(ctx context.Context, id uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error) {
			return []domain.BlockedTime{{ProfessionalID: professionalID, Sunday: true, IsActive: true}}, nil
		},
	}, time.UTC)

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	got, err := r.Resolve(context.Background(), professionalID, start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
}

func TestResolve_ProfessionalNotFound(t *testing.T) {
	r := NewResolver(&fakeProfessionals{
		findFn: func(ctx context.Context, id uuid.UUID) (domain.Professional, error) {
			return domain.Professional{}, store.ErrNotFound
		},
	}, &fakeBlocked{}, time.UTC)

	_, err := r.Resolve(context.Background(), professionalID, time.Now(), time.Now().Add(time.Hour))
	if !domain.IsKind(err, domain.ErrorKindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	if err.Error() != "professional not found" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestResolvePeriod_CapsWindow(t *testing.T) {
	r := NewResolver(&fakeProfessionals{}, &fakeBlocked{}, time.UTC)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := r.ResolvePeriod(context.Background(), professionalID, start, start.AddDate(0, 0, 31)); err != nil {
		t.Fatalf("31 days: err = %v, want nil", err)
	}

	_, err := r.ResolvePeriod(context.Background(), professionalID, start, start.AddDate(0, 0, 32))
	if !domain.IsKind(err, domain.ErrorKindBadRequest) {
		t.Fatalf("32 days: err = %v, want bad request", err)
	}
	if err.Error() != "period cannot exceed 31 days" {
		t.Fatalf("err = %q", err.Error())
	}

	if _, err := r.ResolvePeriod(context.Background(), professionalID, start, start.Add(-time.Hour)); !domain.IsKind(err, domain.ErrorKindBadRequest) {
		t.Fatalf("reversed window: err = %v, want bad request", err)
	}
}
