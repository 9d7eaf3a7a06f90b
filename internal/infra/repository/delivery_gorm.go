package repository

import (
	"context"
	"errors"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

type DeliveryGormRepository struct {
	db *gorm.DB
}

var _ repo.DeliveryRepository = (*DeliveryGormRepository)(nil)

func NewDeliveryGormRepository(db *gorm.DB) *DeliveryGormRepository {
	return &DeliveryGormRepository{db: db}
}

func (r *DeliveryGormRepository) Create(ctx context.Context, d *model.Delivery) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DeliveryGormRepository) FindByID(ctx context.Context, id int64) (*model.Delivery, error) {
	var d model.Delivery
	err := r.db.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DeliveryGormRepository) Update(ctx context.Context, d *model.Delivery) error {
	res := r.db.WithContext(ctx).Model(d).
		Select("courier", "status", "actual_minutes", "updated_at").
		Updates(d)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DeliveryGormRepository) List(ctx context.Context, f repo.DeliveryFilter) ([]model.Delivery, error) {
	q := r.db.WithContext(ctx).Model(&model.Delivery{})

	if f.OrderID != nil {
		q = q.Where("order_id = ?", *f.OrderID)
	}
	if f.ActiveOnly {
		q = q.Where("status <> ?", model.DeliveryStatusDelivered)
	}

	var deliveries []model.Delivery
	if err := q.Order("id asc").Find(&deliveries).Error; err != nil {
		return []model.Delivery{}, err
	}
	return deliveries, nil
}
