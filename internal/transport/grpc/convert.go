package grpc

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/service/availability"
)

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, field+" must be a UUID")
	}
	return id, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(time.DateOnly)
}

func toWireSlots(slots []availability.Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, Slot{
			StartTimestamp: s.Start.UnixMilli(),
			EndTimestamp:   s.End.UnixMilli(),
			IsBusy:         s.IsBusy,
		})
	}
	return out
}

func toWireAppointment(a domain.Appointment) Appointment {
	out := Appointment{
		ID:              a.ID.String(),
		OfferID:         a.OfferID.String(),
		CustomerID:      a.CustomerID.String(),
		AppointmentDate: formatTime(a.AppointmentDate),
		Status:          string(a.Status),
		CreatedAt:       formatTime(a.CreatedAt),
		UpdatedAt:       formatTime(a.UpdatedAt),
	}
	if a.Offer != nil {
		out.ProfessionalID = a.Offer.ProfessionalID.String()
		out.EndDate = formatTime(a.Interval().End)
	}
	return out
}

func toWireBlockedTime(b domain.BlockedTime) BlockedTime {
	return BlockedTime{
		ID:             b.ID.String(),
		ProfessionalID: b.ProfessionalID.String(),
		Monday:         b.Monday,
		Tuesday:        b.Tuesday,
		Wednesday:      b.Wednesday,
		Thursday:       b.Thursday,
		Friday:         b.Friday,
		Saturday:       b.Saturday,
		Sunday:         b.Sunday,
		StartTime:      b.StartTime.String(),
		EndTime:        b.EndTime.String(),
		StartDate:      formatDate(b.StartDate),
		EndDate:        formatDate(b.EndDate),
		IsActive:       b.IsActive,
		Reason:         b.Reason,
	}
}

func toWireBlockedTimes(rows []domain.BlockedTime) []BlockedTime {
	out := make([]BlockedTime, 0, len(rows))
	for _, b := range rows {
		out = append(out, toWireBlockedTime(b))
	}
	return out
}

func toWireOffer(o domain.Offer) Offer {
	return Offer{
		ID:             o.ID.String(),
		ProfessionalID: o.ProfessionalID.String(),
		ServiceID:      o.ServiceID.String(),
		EstimatedTime:  o.EstimatedTime,
		PriceCents:     o.PriceCents,
		IsOffering:     o.IsOffering,
	}
}
