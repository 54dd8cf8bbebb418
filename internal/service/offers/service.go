package offers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

type Service struct {
	offers   store.OfferRepository
	services store.ServiceRepository
	log      *slog.Logger
}

func NewService(offers store.OfferRepository, services store.ServiceRepository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{offers: offers, services: services, log: log}
}

type CreateInput struct {
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	EstimatedTime  int
	PriceCents     int64
}

// Create lets a professional offer an approved service. Managers may create
// offers on behalf of any professional.
func (s *Service) Create(ctx context.Context, auth domain.AuthContext, in CreateInput) (domain.Offer, error) {
	professionalID := in.ProfessionalID
	if professionalID == uuid.Nil {
		professionalID = auth.UserID
	}
	if auth.UserID == uuid.Nil || (professionalID != auth.UserID && !auth.IsManager()) {
		return domain.Offer{}, domain.Forbidden("not allowed to create offers for this professional")
	}
	if in.ServiceID == uuid.Nil {
		return domain.Offer{}, domain.BadRequest("service_id is required")
	}
	if in.EstimatedTime <= 0 {
		return domain.Offer{}, domain.BadRequest("estimated_time must be positive")
	}
	if in.PriceCents < 0 {
		return domain.Offer{}, domain.BadRequest("price must not be negative")
	}

	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Offer{}, domain.NotFound("service not found")
		}
		return domain.Offer{}, fmt.Errorf("find service: %w", err)
	}
	if svc.Status != domain.ServiceStatusApproved {
		return domain.Offer{}, domain.BadRequest("service is not approved")
	}

	_, err = s.offers.FindByProfessionalAndService(ctx, professionalID, in.ServiceID)
	switch {
	case err == nil:
		return domain.Offer{}, domain.Conflict("offer already exists")
	case !errors.Is(err, store.ErrNotFound):
		return domain.Offer{}, fmt.Errorf("find offer: %w", err)
	}

	created, err := s.offers.Create(ctx, domain.Offer{
		ProfessionalID: professionalID,
		ServiceID:      in.ServiceID,
		EstimatedTime:  in.EstimatedTime,
		PriceCents:     in.PriceCents,
		IsOffering:     true,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateOffer) {
			return domain.Offer{}, domain.Conflict("offer already exists")
		}
		return domain.Offer{}, fmt.Errorf("create offer: %w", err)
	}

	s.log.InfoContext(ctx, "offer created", "offer_id", created.ID, "professional_id", professionalID, "service_id", in.ServiceID)
	return created, nil
}
