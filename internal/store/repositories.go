package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

type OfferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Offer, error)
	FindByProfessionalAndService(ctx context.Context, professionalID, serviceID uuid.UUID) (domain.Offer, error)
	Create(ctx context.Context, offer domain.Offer) (domain.Offer, error)
}

type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Service, error)
}

type ShiftRepository interface {
	FindByProfessionalAndWeekDay(ctx context.Context, professionalID uuid.UUID, weekDay int16) (domain.Shift, error)
}

type ProfessionalRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Professional, error)
}

type BlockedTimeFilter struct {
	ProfessionalID *uuid.UUID
	IsActive       *bool
	Limit          int
	Offset         int
}

type BlockedTimeRepository interface {
	// FindByProfessionalAndPeriod returns active blocks whose date range meets [start, end].
	FindByProfessionalAndPeriod(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.BlockedTime, error)
	ListPaginated(ctx context.Context, filter BlockedTimeFilter) ([]domain.BlockedTime, int, error)
	Create(ctx context.Context, bt domain.BlockedTime) (domain.BlockedTime, error)
	Update(ctx context.Context, bt domain.BlockedTime) (domain.BlockedTime, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
