package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

type BlockedTimeRepo struct {
	db *bun.DB
}

func NewBlockedTimeRepo(db *bun.DB) *BlockedTimeRepo {
	return &BlockedTimeRepo{db: db}
}

func (r *BlockedTimeRepo) FindByProfessionalAndPeriod(ctx context.Context, professionalID uuid.UUID, start, end time.Time) ([]domain.BlockedTime, error) {
	var rows []domain.BlockedTime
	err := r.db.NewSelect().
		Model(&rows).
		Where("bt.professional_id = ?", professionalID).
		Where("bt.is_active").
		Where("bt.start_date IS NULL OR bt.start_date <= ?", end.Format(time.DateOnly)).
		Where("bt.end_date IS NULL OR bt.end_date >= ?", start.Format(time.DateOnly)).
		OrderExpr("bt.start_date ASC NULLS FIRST, bt.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BlockedTimeRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.BlockedTime, error) {
	var bt domain.BlockedTime
	err := r.db.NewSelect().
		Model(&bt).
		Where("bt.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BlockedTime{}, store.ErrNotFound
		}
		return domain.BlockedTime{}, err
	}
	return bt, nil
}

func (r *BlockedTimeRepo) ListPaginated(ctx context.Context, filter store.BlockedTimeFilter) ([]domain.BlockedTime, int, error) {
	var rows []domain.BlockedTime
	q := r.db.NewSelect().Model(&rows)
	if filter.ProfessionalID != nil {
		q = q.Where("bt.professional_id = ?", *filter.ProfessionalID)
	}
	if filter.IsActive != nil {
		q = q.Where("bt.is_active = ?", *filter.IsActive)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	total, err := q.OrderExpr("bt.created_at DESC, bt.id ASC").ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *BlockedTimeRepo) Create(ctx context.Context, bt domain.BlockedTime) (domain.BlockedTime, error) {
	m := bt
	if _, err := r.db.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.BlockedTime{}, err
	}
	return m, nil
}

func (r *BlockedTimeRepo) Update(ctx context.Context, bt domain.BlockedTime) (domain.BlockedTime, error) {
	m := bt
	res, err := r.db.NewUpdate().
		Model(&m).
		ExcludeColumn("id", "professional_id", "created_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.BlockedTime{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.BlockedTime{}, err
	}
	if affected == 0 {
		return domain.BlockedTime{}, store.ErrNotFound
	}
	return m, nil
}

func (r *BlockedTimeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.BlockedTime)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
