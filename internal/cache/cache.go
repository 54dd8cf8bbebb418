// Package cache wraps the read-mostly catalog repositories with an expiring LRU.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

const (
	DefaultSize = 1024
	DefaultTTL  = time.Minute
)

type Config struct {
	Size int
	TTL  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Size <= 0 {
		c.Size = DefaultSize
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}

// Offers caches FindByID. Lookups by professional and service always hit the
// repository so duplicate checks see fresh data.
type Offers struct {
	next  store.OfferRepository
	cache *expirable.LRU[uuid.UUID, domain.Offer]
}

func NewOffers(next store.OfferRepository, cfg Config) *Offers {
	cfg = cfg.withDefaults()
	return &Offers{
		next:  next,
		cache: expirable.NewLRU[uuid.UUID, domain.Offer](cfg.Size, nil, cfg.TTL),
	}
}

func (c *Offers) FindByID(ctx context.Context, id uuid.UUID) (domain.Offer, error) {
	if o, ok := c.cache.Get(id); ok {
		return o, nil
	}
	o, err := c.next.FindByID(ctx, id)
	if err != nil {
		return domain.Offer{}, err
	}
	c.cache.Add(id, o)
	return o, nil
}

func (c *Offers) FindByProfessionalAndService(ctx context.Context, professionalID, serviceID uuid.UUID) (domain.Offer, error) {
	return c.next.FindByProfessionalAndService(ctx, professionalID, serviceID)
}

func (c *Offers) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	created, err := c.next.Create(ctx, offer)
	if err != nil {
		return domain.Offer{}, err
	}
	c.cache.Add(created.ID, created)
	return created, nil
}

func (c *Offers) invalidate(id uuid.UUID) {
	c.cache.Remove(id)
}

type shiftKey struct {
	professionalID uuid.UUID
	weekDay        int16
}

// Shifts caches found shifts. Missing shifts are not cached.
type Shifts struct {
	next  store.ShiftRepository
	cache *expirable.LRU[shiftKey, domain.Shift]
}

func NewShifts(next store.ShiftRepository, cfg Config) *Shifts {
	cfg = cfg.withDefaults()
	return &Shifts{
		next:  next,
		cache: expirable.NewLRU[shiftKey, domain.Shift](cfg.Size, nil, cfg.TTL),
	}
}

func (c *Shifts) FindByProfessionalAndWeekDay(ctx context.Context, professionalID uuid.UUID, weekDay int16) (domain.Shift, error) {
	key := shiftKey{professionalID: professionalID, weekDay: weekDay}
	if s, ok := c.cache.Get(key); ok {
		return s, nil
	}
	s, err := c.next.FindByProfessionalAndWeekDay(ctx, professionalID, weekDay)
	if err != nil {
		return domain.Shift{}, err
	}
	c.cache.Add(key, s)
	return s, nil
}

func (c *Shifts) size() int {
	return c.cache.Len()
}
