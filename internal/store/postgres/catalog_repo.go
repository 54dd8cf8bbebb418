package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

// CatalogRepo reads professionals, services, and shifts and manages offers.
type CatalogRepo struct {
	db *bun.DB
}

func NewCatalogRepo(db *bun.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Professionals, Services, Shifts and Offers expose CatalogRepo through the
// single-purpose store interfaces.
func (r *CatalogRepo) Professionals() store.ProfessionalRepository { return professionalRepo{r} }
func (r *CatalogRepo) Services() store.ServiceRepository           { return serviceRepo{r} }
func (r *CatalogRepo) Shifts() store.ShiftRepository               { return shiftRepo{r} }
func (r *CatalogRepo) Offers() store.OfferRepository               { return offerRepo{r} }

type (
	professionalRepo struct{ *CatalogRepo }
	serviceRepo      struct{ *CatalogRepo }
	shiftRepo        struct{ *CatalogRepo }
	offerRepo        struct{ *CatalogRepo }
)

func (r professionalRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Professional, error) {
	var p domain.Professional
	err := r.db.NewSelect().Model(&p).Where("p.id = ?", id).Limit(1).Scan(ctx)
	return p, notFound(err)
}

func (r serviceRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	var s domain.Service
	err := r.db.NewSelect().Model(&s).Where("s.id = ?", id).Limit(1).Scan(ctx)
	return s, notFound(err)
}

func (r shiftRepo) FindByProfessionalAndWeekDay(ctx context.Context, professionalID uuid.UUID, weekDay int16) (domain.Shift, error) {
	var s domain.Shift
	err := r.db.NewSelect().
		Model(&s).
		Where("sh.professional_id = ?", professionalID).
		Where("sh.week_day = ?", weekDay).
		Limit(1).
		Scan(ctx)
	return s, notFound(err)
}

func (r offerRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Offer, error) {
	var o domain.Offer
	err := r.db.NewSelect().Model(&o).Where("o.id = ?", id).Limit(1).Scan(ctx)
	return o, notFound(err)
}

func (r offerRepo) FindByProfessionalAndService(ctx context.Context, professionalID, serviceID uuid.UUID) (domain.Offer, error) {
	var o domain.Offer
	err := r.db.NewSelect().
		Model(&o).
		Where("o.professional_id = ?", professionalID).
		Where("o.service_id = ?", serviceID).
		Limit(1).
		Scan(ctx)
	return o, notFound(err)
}

func (r offerRepo) Create(ctx context.Context, offer domain.Offer) (domain.Offer, error) {
	m := offer
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "offers_professional_service_key" {
			return domain.Offer{}, store.ErrDuplicateOffer
		}
		return domain.Offer{}, err
	}
	return m, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
