package grpc

import (
	"context"
	"log/slog"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/service/offers"
)

type OffersServer struct {
	svc offersService
	log *slog.Logger
}

type offersService interface {
	Create(ctx context.Context, auth domain.AuthContext, in offers.CreateInput) (domain.Offer, error)
}

func NewOffersServer(svc offersService, log *slog.Logger) *OffersServer {
	if log == nil {
		log = slog.Default()
	}
	return &OffersServer{svc: svc, log: log.With(slog.String("component", "grpc.offers"))}
}

func (s *OffersServer) CreateOffer(ctx context.Context, req *CreateOfferRequest) (*OfferResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateOffer"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}

	in := offers.CreateInput{EstimatedTime: req.EstimatedTime, PriceCents: req.PriceCents}
	if in.ServiceID, err = parseID("service_id", req.ServiceID); err != nil {
		return nil, err
	}
	if req.ProfessionalID != "" {
		if in.ProfessionalID, err = parseID("professional_id", req.ProfessionalID); err != nil {
			return nil, err
		}
	}

	offer, err := s.svc.Create(ctx, auth, in)
	if err != nil {
		return nil, toStatus(log, err)
	}

	log.Info("offer created", slog.String("offer_id", offer.ID.String()), slog.String("user_id", auth.UserID.String()))
	return &OfferResponse{Offer: toWireOffer(offer)}, nil
}
