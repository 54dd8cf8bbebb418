package grpc

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/service/blockedtimes"
)

type BlockedTimesServer struct {
	svc blockedTimesService
	log *slog.Logger
}

type blockedTimesService interface {
	Create(ctx context.Context, auth domain.AuthContext, in blockedtimes.CreateInput) (domain.BlockedTime, error)
	Update(ctx context.Context, auth domain.AuthContext, id uuid.UUID, in blockedtimes.UpdateInput) (domain.BlockedTime, error)
	Delete(ctx context.Context, auth domain.AuthContext, id uuid.UUID) (domain.BlockedTime, error)
	Find(ctx context.Context, auth domain.AuthContext, id uuid.UUID) (domain.BlockedTime, error)
	ListPaginated(ctx context.Context, auth domain.AuthContext, in blockedtimes.ListInput) (blockedtimes.Page, error)
}

func NewBlockedTimesServer(svc blockedTimesService, log *slog.Logger) *BlockedTimesServer {
	if log == nil {
		log = slog.Default()
	}
	return &BlockedTimesServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.blocked_times")),
	}
}

func (s *BlockedTimesServer) CreateBlockedTime(ctx context.Context, req *CreateBlockedTimeRequest) (*BlockedTimeResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateBlockedTime"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("user_id", auth.UserID.String()))
		return nil, err
	}

	bt, err := s.svc.Create(ctx, auth, blockedtimes.CreateInput{
		Weekdays:  req.Weekdays,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, toStatus(log, err)
	}
	return &BlockedTimeResponse{BlockedTime: toWireBlockedTime(bt)}, nil
}

func (s *BlockedTimesServer) UpdateBlockedTime(ctx context.Context, req *UpdateBlockedTimeRequest) (*BlockedTimeResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateBlockedTime"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("user_id", auth.UserID.String()))
		return nil, err
	}
	id, err := parseID("blocked_time_id", req.BlockedTimeID)
	if err != nil {
		return nil, err
	}

	bt, err := s.svc.Update(ctx, auth, id, blockedtimes.UpdateInput{
		Weekdays:  req.Weekdays,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, toStatus(log.With(slog.String("blocked_time_id", id.String())), err)
	}
	return &BlockedTimeResponse{BlockedTime: toWireBlockedTime(bt)}, nil
}

func (s *BlockedTimesServer) DeleteBlockedTime(ctx context.Context, req *BlockedTimeIDRequest) (*BlockedTimeResponse, error) {
	return s.byID(ctx, "DeleteBlockedTime", req, s.svc.Delete)
}

func (s *BlockedTimesServer) FindBlockedTime(ctx context.Context, req *BlockedTimeIDRequest) (*BlockedTimeResponse, error) {
	return s.byID(ctx, "FindBlockedTime", req, s.svc.Find)
}

func (s *BlockedTimesServer) byID(ctx context.Context, rpc string, req *BlockedTimeIDRequest, call func(context.Context, domain.AuthContext, uuid.UUID) (domain.BlockedTime, error)) (*BlockedTimeResponse, error) {
	log := s.log.With(slog.String("rpc", rpc))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	id, err := parseID("blocked_time_id", req.BlockedTimeID)
	if err != nil {
		return nil, err
	}

	bt, err := call(ctx, auth, id)
	if err != nil {
		return nil, toStatus(log.With(slog.String("blocked_time_id", id.String())), err)
	}
	return &BlockedTimeResponse{BlockedTime: toWireBlockedTime(bt)}, nil
}

func (s *BlockedTimesServer) ListBlockedTimes(ctx context.Context, req *ListBlockedTimesRequest) (*ListBlockedTimesResponse, error) {
	log := s.log.With(slog.String("rpc", "ListBlockedTimes"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}

	in := blockedtimes.ListInput{IsActive: req.IsActive, Page: req.Page, PageSize: req.PageSize}
	if req.ProfessionalID != "" {
		id, err := parseID("professional_id", req.ProfessionalID)
		if err != nil {
			return nil, err
		}
		in.ProfessionalID = &id
	}

	page, err := s.svc.ListPaginated(ctx, auth, in)
	if err != nil {
		return nil, toStatus(log, err)
	}

	log.Debug("blocked times listed", slog.Int("count", len(page.Items)), slog.Int("total", page.Total))
	return &ListBlockedTimesResponse{
		Items:    toWireBlockedTimes(page.Items),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}
