package blockedtimes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/access"
	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	maxReasonLength = 500
)

type PeriodResolver interface {
	ResolvePeriod(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error)
}

type Service struct {
	repo          store.BlockedTimeRepository
	professionals store.ProfessionalRepository
	resolver      PeriodResolver
	log           *slog.Logger
}

func NewService(repo store.BlockedTimeRepository, professionals store.ProfessionalRepository, resolver PeriodResolver, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, professionals: professionals, resolver: resolver, log: log}
}

// CreateInput uses "15:04" times of day and "2006-01-02" dates.
type CreateInput struct {
	Weekdays  []int16
	StartTime string
	EndTime   string
	StartDate string
	EndDate   string
	IsActive  *bool
	Reason    string
}

func (s *Service) Create(ctx context.Context, auth domain.AuthContext, in CreateInput) (domain.BlockedTime, error) {
	if err := access.AuthorizeCreate(auth); err != nil {
		return domain.BlockedTime{}, err
	}
	if _, err := s.professionals.FindByID(ctx, auth.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.BlockedTime{}, domain.NotFound("professional not found")
		}
		return domain.BlockedTime{}, fmt.Errorf("find professional: %w", err)
	}

	bt := domain.BlockedTime{ProfessionalID: auth.UserID, IsActive: true}
	if in.IsActive != nil {
		bt.IsActive = *in.IsActive
	}
	weekdays, err := parseWeekdays(in.Weekdays)
	if err != nil {
		return domain.BlockedTime{}, err
	}
	bt.SetWeekdays(weekdays)
	if bt.StartTime, err = parseClock("start_time", in.StartTime); err != nil {
		return domain.BlockedTime{}, err
	}
	if bt.EndTime, err = parseClock("end_time", in.EndTime); err != nil {
		return domain.BlockedTime{}, err
	}
	if bt.StartDate, err = parseDate("start_date", in.StartDate); err != nil {
		return domain.BlockedTime{}, err
	}
	if bt.EndDate, err = parseDate("end_date", in.EndDate); err != nil {
		return domain.BlockedTime{}, err
	}
	bt.Reason = strings.TrimSpace(in.Reason)
	if err := validate(bt); err != nil {
		return domain.BlockedTime{}, err
	}

	created, err := s.repo.Create(ctx, bt)
	if err != nil {
		return domain.BlockedTime{}, fmt.Errorf("create blocked time: %w", err)
	}
	s.log.InfoContext(ctx, "blocked time created", "blocked_time_id", created.ID, "professional_id", created.ProfessionalID)
	return created, nil
}

// UpdateInput changes only the non-nil fields. An empty date clears that bound.
type UpdateInput struct {
	Weekdays  *[]int16
	StartTime *string
	EndTime   *string
	StartDate *string
	EndDate   *string
	IsActive  *bool
	Reason    *string
}

func (s *Service) Update(ctx context.Context, auth domain.AuthContext, id uuid.UUID, in UpdateInput) (domain.BlockedTime, error) {
	bt, err := s.find(ctx, id)
	if err != nil {
		return domain.BlockedTime{}, err
	}
	if err := access.Authorize(auth, bt, access.OpEdit); err != nil {
		return domain.BlockedTime{}, err
	}

	if in.Weekdays != nil {
		weekdays, err := parseWeekdays(*in.Weekdays)
		if err != nil {
			return domain.BlockedTime{}, err
		}
		bt.SetWeekdays(weekdays)
	}
	if in.StartTime != nil {
		if bt.StartTime, err = parseClock("start_time", *in.StartTime); err != nil {
			return domain.BlockedTime{}, err
		}
	}
	if in.EndTime != nil {
		if bt.EndTime, err = parseClock("end_time", *in.EndTime); err != nil {
			return domain.BlockedTime{}, err
		}
	}
	if in.StartDate != nil {
		if bt.StartDate, err = parseDate("start_date", *in.StartDate); err != nil {
			return domain.BlockedTime{}, err
		}
	}
	if in.EndDate != nil {
		if bt.EndDate, err = parseDate("end_date", *in.EndDate); err != nil {
			return domain.BlockedTime{}, err
		}
	}
	if in.IsActive != nil {
		bt.IsActive = *in.IsActive
	}
	if in.Reason != nil {
		bt.Reason = strings.TrimSpace(*in.Reason)
	}
	if err := validate(bt); err != nil {
		return domain.BlockedTime{}, err
	}

	updated, err := s.repo.Update(ctx, bt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.BlockedTime{}, domain.NotFound("blocked time not found")
		}
		return domain.BlockedTime{}, fmt.Errorf("update blocked time: %w", err)
	}
	s.log.InfoContext(ctx, "blocked time updated", "blocked_time_id", id, "by", auth.UserID)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, auth domain.AuthContext, id uuid.UUID) (domain.BlockedTime, error) {
	bt, err := s.find(ctx, id)
	if err != nil {
		return domain.BlockedTime{}, err
	}
	if err := access.Authorize(auth, bt, access.OpDelete); err != nil {
		return domain.BlockedTime{}, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.BlockedTime{}, domain.NotFound("blocked time not found")
		}
		return domain.BlockedTime{}, fmt.Errorf("delete blocked time: %w", err)
	}
	s.log.InfoContext(ctx, "blocked time deleted", "blocked_time_id", id, "by", auth.UserID)
	return bt, nil
}

func (s *Service) Find(ctx context.Context, auth domain.AuthContext, id uuid.UUID) (domain.BlockedTime, error) {
	bt, err := s.find(ctx, id)
	if err != nil {
		return domain.BlockedTime{}, err
	}
	if err := access.Authorize(auth, bt, access.OpRead); err != nil {
		return domain.BlockedTime{}, err
	}
	return bt, nil
}

type ListInput struct {
	ProfessionalID *uuid.UUID
	IsActive       *bool
	Page           int
	PageSize       int
}

type Page struct {
	Items    []domain.BlockedTime
	Total    int
	Page     int
	PageSize int
}

func (s *Service) ListPaginated(ctx context.Context, auth domain.AuthContext, in ListInput) (Page, error) {
	scope, err := access.ListScope(auth)
	if err != nil {
		return Page{}, err
	}

	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return Page{}, domain.BadRequest("page must be at least 1")
	}
	size := in.PageSize
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 1 || size > MaxPageSize {
		return Page{}, domain.BadRequest(fmt.Sprintf("page_size must be between 1 and %d", MaxPageSize))
	}

	filter := store.BlockedTimeFilter{
		ProfessionalID: in.ProfessionalID,
		IsActive:       in.IsActive,
		Limit:          size,
		Offset:         (page - 1) * size,
	}
	if !scope.Unscoped() {
		filter.ProfessionalID = scope.ProfessionalID
	}

	items, total, err := s.repo.ListPaginated(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("list blocked times: %w", err)
	}
	return Page{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// ListForPeriod returns the blocks that apply to the professional inside [start, end].
func (s *Service) ListForPeriod(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error) {
	if professionalID == uuid.Nil {
		return nil, domain.BadRequest("professional_id is required")
	}
	return s.resolver.ResolvePeriod(ctx, professionalID, start, end)
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (domain.BlockedTime, error) {
	if id == uuid.Nil {
		return domain.BlockedTime{}, domain.BadRequest("blocked_time_id is required")
	}
	bt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.BlockedTime{}, domain.NotFound("blocked time not found")
		}
		return domain.BlockedTime{}, fmt.Errorf("find blocked time: %w", err)
	}
	return bt, nil
}

func parseWeekdays(days []int16) (domain.WeekdaySet, error) {
	var set domain.WeekdaySet
	for _, wd := range days {
		if !domain.ValidWeekday(wd) {
			return 0, domain.BadRequest("invalid weekday")
		}
		set = set.With(wd)
	}
	if set == 0 {
		return 0, domain.BadRequest("at least one weekday is required")
	}
	return set, nil
}

func parseClock(field, s string) (domain.Clock, error) {
	c, err := domain.ParseClock(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.BadRequest("invalid " + field)
	}
	return c, nil
}

func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, domain.BadRequest("invalid " + field)
	}
	return &d, nil
}

func validate(bt domain.BlockedTime) error {
	if bt.Weekdays() == 0 {
		return domain.BadRequest("at least one weekday is required")
	}
	if !bt.StartTime.Valid() || !bt.EndTime.ValidEnd() {
		return domain.BadRequest("invalid time of day")
	}
	if bt.EndTime <= bt.StartTime {
		return domain.BadRequest("end_time must be after start_time")
	}
	if bt.StartDate != nil && bt.EndDate != nil && bt.EndDate.Before(*bt.StartDate) {
		return domain.BadRequest("end_date must not be before start_date")
	}
	if len(bt.Reason) > maxReasonLength {
		return domain.BadRequest("reason too long")
	}
	return nil
}
