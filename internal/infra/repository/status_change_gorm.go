package repository

import (
	"context"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

type StatusChangeGormRepository struct {
	db *gorm.DB
}

var _ repo.StatusChangeRepository = (*StatusChangeGormRepository)(nil)

func NewStatusChangeGormRepository(db *gorm.DB) *StatusChangeGormRepository {
	return &StatusChangeGormRepository{db: db}
}

func (r *StatusChangeGormRepository) Create(ctx context.Context, c *model.StatusChange) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *StatusChangeGormRepository) List(ctx context.Context, f repo.StatusChangeFilter) ([]model.StatusChange, error) {
	q := r.db.WithContext(ctx).Model(&model.StatusChange{})

	if f.OrderID != nil {
		q = q.Where("order_id = ?", *f.OrderID)
	}
	if f.Resource != nil {
		q = q.Where("resource = ?", *f.Resource)
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}

	// oldest first
	q = q.Order("id asc")

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var changes []model.StatusChange
	if err := q.Find(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}
