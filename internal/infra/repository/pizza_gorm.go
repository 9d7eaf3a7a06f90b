package repository

import (
	"context"
	"errors"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

type PizzaGormRepository struct {
	db *gorm.DB
}

var _ repo.PizzaRepository = (*PizzaGormRepository)(nil)

func NewPizzaGormRepository(db *gorm.DB) *PizzaGormRepository {
	return &PizzaGormRepository{db: db}
}

func (r *PizzaGormRepository) Create(ctx context.Context, p *model.Pizza) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PizzaGormRepository) FindByID(ctx context.Context, id int64) (*model.Pizza, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// FindByIDUnscoped also returns removed pizzas.
func (r *PizzaGormRepository) FindByIDUnscoped(ctx context.Context, id int64) (*model.Pizza, error) {
	return r.first(r.db.WithContext(ctx).Unscoped(), id)
}

func (r *PizzaGormRepository) first(q *gorm.DB, id int64) (*model.Pizza, error) {
	var p model.Pizza
	err := q.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PizzaGormRepository) List(ctx context.Context) ([]model.Pizza, error) {
	var pizzas []model.Pizza
	if err := r.db.WithContext(ctx).Order("id asc").Find(&pizzas).Error; err != nil {
		return []model.Pizza{}, err
	}
	return pizzas, nil
}

func (r *PizzaGormRepository) Update(ctx context.Context, p *model.Pizza) error {
	res := r.db.WithContext(ctx).Model(p).
		Select("name", "ingredients", "size", "base_price", "cooking_time", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PizzaGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Pizza{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PizzaGormRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Pizza{}).Count(&n).Error
	return n, err
}
