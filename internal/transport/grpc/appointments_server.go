package grpc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/metadata"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/service/appointments"
)

type AppointmentsServer struct {
	svc appointmentsService
	log *slog.Logger
}

type appointmentsService interface {
	Create(ctx context.Context, auth domain.AuthContext, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, auth domain.AuthContext, id uuid.UUID, in appointments.UpdateInput) (domain.Appointment, error)
	Delete(ctx context.Context, auth domain.AuthContext, id uuid.UUID) (domain.Appointment, error)
}

func NewAppointmentsServer(svc appointmentsService, log *slog.Logger) *AppointmentsServer {
	if log == nil {
		log = slog.Default()
	}
	return &AppointmentsServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.appointments")),
	}
}

func (s *AppointmentsServer) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "CreateAppointment"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("user_id", auth.UserID.String()))
		return nil, err
	}
	offerID, err := parseID("offer_id", req.OfferID)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = idempotencyKey(ctx)
	}

	appt, err := s.svc.Create(ctx, auth, appointments.CreateInput{
		OfferID:         offerID,
		AppointmentDate: req.AppointmentDate,
		IdempotencyKey:  key,
	})
	if err != nil {
		return nil, toStatus(log.With(slog.String("user_id", auth.UserID.String())), err)
	}

	log.Info("appointment created",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("user_id", auth.UserID.String()),
		slog.Time("appointment_date", appt.AppointmentDate),
	)
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *AppointmentsServer) UpdateAppointment(ctx context.Context, req *UpdateAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "UpdateAppointment"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err), slog.String("user_id", auth.UserID.String()))
		return nil, err
	}
	id, err := parseID("appointment_id", req.AppointmentID)
	if err != nil {
		return nil, err
	}

	in := appointments.UpdateInput{AppointmentDate: req.AppointmentDate}
	if req.Status != nil {
		st := domain.AppointmentStatus(*req.Status)
		in.Status = &st
	}

	appt, err := s.svc.Update(ctx, auth, id, in)
	if err != nil {
		return nil, toStatus(log.With(slog.String("appointment_id", id.String())), err)
	}

	log.Info("appointment updated",
		slog.String("appointment_id", id.String()),
		slog.String("status", string(appt.Status)),
		slog.String("user_id", auth.UserID.String()),
	)
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *AppointmentsServer) DeleteAppointment(ctx context.Context, req *DeleteAppointmentRequest) (*AppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "DeleteAppointment"))

	auth, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		log.Warn("invalid request", slog.Any("err", err))
		return nil, err
	}
	id, err := parseID("appointment_id", req.AppointmentID)
	if err != nil {
		return nil, err
	}

	appt, err := s.svc.Delete(ctx, auth, id)
	if err != nil {
		return nil, toStatus(log.With(slog.String("appointment_id", id.String())), err)
	}

	log.Info("appointment deleted", slog.String("appointment_id", id.String()), slog.String("user_id", auth.UserID.String()))
	return &AppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func idempotencyKey(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("idempotency-key")
	if len(values) == 0 {
		values = md.Get("x-idempotency-key")
	}
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
