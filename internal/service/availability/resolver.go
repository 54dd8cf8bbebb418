package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

const DefaultMaxPeriodDays = 31

// Resolver finds the blocked times of a professional that apply inside a window.
type Resolver struct {
	professionals store.ProfessionalRepository
	blocked       store.BlockedTimeRepository
	loc           *time.Location
	maxPeriod     time.Duration
	log           *slog.Logger
}

type ResolverOption func(*Resolver)

func WithMaxPeriodDays(days int) ResolverOption {
	return func(r *Resolver) {
		if days > 0 {
			r.maxPeriod = time.Duration(days) * 24 * time.Hour
		}
	}
}

func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

func NewResolver(professionals store.ProfessionalRepository, blocked store.BlockedTimeRepository, loc *time.Location, opts ...ResolverOption) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	r := &Resolver{
		professionals: professionals,
		blocked:       blocked,
		loc:           loc,
		maxPeriod:     DefaultMaxPeriodDays * 24 * time.Hour,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the active blocked times whose weekdays and date range meet
// [windowStart, windowEnd], ordered by StartDate with unbounded starts first.
func (r *Resolver) Resolve(ctx context.Context, professionalID uuid.UUID, windowStart, windowEnd time.Time) ([]domain.BlockedTime, error) {
	if windowEnd.Before(windowStart) {
		return nil, domain.BadRequest("end must not be before start")
	}

	if _, err := r.professionals.FindByID(ctx, professionalID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.NotFound("professional not found")
		}
		return nil, fmt.Errorf("find professional: %w", err)
	}

	fromDate := domain.DateOf(windowStart, r.loc)
	toDate := domain.DateOf(windowEnd, r.loc)
	covered := domain.CoveredWeekdays(windowStart, windowEnd, r.loc)

	candidates, err := r.blocked.FindByProfessionalAndPeriod(ctx, professionalID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("find blocked times: %w", err)
	}

	out := make([]domain.BlockedTime, 0, len(candidates))
	for _, bt := range candidates {
		if bt.ProfessionalID != professionalID || !bt.IsActive {
			continue
		}
		if !bt.Weekdays().Intersects(covered) {
			continue
		}
		if !bt.OverlapsDates(fromDate, toDate) {
			continue
		}
		out = append(out, bt)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return startDateLess(out[i].StartDate, out[j].StartDate)
	})

	r.log.DebugContext(ctx, "blocked times resolved",
		"professional_id", professionalID,
		"candidates", len(candidates),
		"applicable", len(out),
	)
	return out, nil
}

// ResolvePeriod is Resolve with the window capped at the configured number of days.
func (r *Resolver) ResolvePeriod(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error) {
	if end.Before(start) {
		return nil, domain.BadRequest("end must not be before start")
	}
	if end.Sub(start) > r.maxPeriod {
		return nil, domain.BadRequest(fmt.Sprintf("period cannot exceed %d days", int(r.maxPeriod/(24*time.Hour))))
	}
	return r.Resolve(ctx, professionalID, start, end)
}

func startDateLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}
