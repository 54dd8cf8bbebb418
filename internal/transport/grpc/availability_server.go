package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/service/availability"
)

type AvailabilityServer struct {
	slots   slotsService
	blocked blockedPeriodService
	loc     *time.Location
	log     *slog.Logger
}

type slotsService interface {
	ComputeDaySlots(ctx context.Context, customerID, offerID uuid.UUID, day time.Time) ([]availability.Slot, error)
}

type blockedPeriodService interface {
	ListForPeriod(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error)
}

func NewAvailabilityServer(slots slotsService, blocked blockedPeriodService, loc *time.Location, log *slog.Logger) *AvailabilityServer {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityServer{
		slots:   slots,
		blocked: blocked,
		loc:     loc,
		log:     log.With(slog.String("component", "grpc.availability")),
	}
}

func (s *AvailabilityServer) ComputeDaySlots(ctx context.Context, req *ComputeDaySlotsRequest) (*ComputeDaySlotsResponse, error) {
	log := s.log.With(slog.String("rpc", "ComputeDaySlots"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	offerID, err := parseID("offer_id", req.OfferID)
	if err != nil {
		return nil, err
	}
	day, err := time.ParseInLocation(time.DateOnly, req.Day, s.loc)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "day must match 2006-01-02")
	}

	slots, err := s.slots.ComputeDaySlots(ctx, auth.UserID, offerID, day)
	if err != nil {
		return nil, toStatus(log, err)
	}

	log.Debug("slots computed",
		slog.String("offer_id", offerID.String()),
		slog.String("day", req.Day),
		slog.Int("count", len(slots)),
	)
	return &ComputeDaySlotsResponse{Slots: toWireSlots(slots)}, nil
}

func (s *AvailabilityServer) ListBlockedPeriod(ctx context.Context, req *ListBlockedPeriodRequest) (*ListBlockedPeriodResponse, error) {
	log := s.log.With(slog.String("rpc", "ListBlockedPeriod"))

	if _, err := requireAuth(ctx); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	professionalID, err := parseID("professional_id", req.ProfessionalID)
	if err != nil {
		return nil, err
	}
	start, err := s.parseInstant(req.Start)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "start must be RFC 3339 or 2006-01-02")
	}
	end, err := s.parseInstant(req.End)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "end must be RFC 3339 or 2006-01-02")
	}

	rows, err := s.blocked.ListForPeriod(ctx, professionalID, start, end)
	if err != nil {
		return nil, toStatus(log, err)
	}
	return &ListBlockedPeriodResponse{BlockedTimes: toWireBlockedTimes(rows)}, nil
}

// parseInstant accepts an RFC 3339 instant or a bare date in the business timezone.
func (s *AvailabilityServer) parseInstant(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, v, s.loc)
}
