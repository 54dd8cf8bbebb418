package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ServiceStatus string

const (
	ServiceStatusPending  ServiceStatus = "PENDING"
	ServiceStatusApproved ServiceStatus = "APPROVED"
	ServiceStatusRejected ServiceStatus = "REJECTED"
)

type Service struct {
	bun.BaseModel `bun:"table:services,alias:s"`

	ID     uuid.UUID     `bun:"id,pk,type:uuid"`
	Name   string        `bun:"name,notnull"`
	Status ServiceStatus `bun:"status,notnull"`
}

// Offer is a professional's priced, timed instance of a Service.
type Offer struct {
	bun.BaseModel `bun:"table:offers,alias:o"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	ProfessionalID uuid.UUID `bun:"professional_id,notnull,type:uuid"`
	ServiceID      uuid.UUID `bun:"service_id,notnull,type:uuid"`
	EstimatedTime  int       `bun:"estimated_time,notnull"`
	PriceCents     int64     `bun:"price_cents,notnull"`
	IsOffering     bool      `bun:"is_offering,notnull"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
	UpdatedAt      time.Time `bun:"updated_at,notnull"`
}

func (o *Offer) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if o.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			o.ID = id
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		o.UpdatedAt = now
	}
	return nil
}

func (o Offer) Duration() time.Duration {
	return time.Duration(o.EstimatedTime) * time.Minute
}
