package repo

import (
	"context"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/google/uuid"
)

func (r *GormRepo) InsertDishes(ctx context.Context, dishes []models.Dish) (BulkResult, error) {
	return insertMany(ctx, r.DB, schema.CollectionDishes, dishes, func(d *models.Dish) uuid.UUID { return d.ID })
}

func (r *GormRepo) FindDishesAbove(ctx context.Context, minPrice float64) ([]models.DishSummary, error) {
	var out []models.DishSummary
	if err := r.DB.WithContext(ctx).
		Model(&models.Dish{}).
		Select("id", "name", "price", "category").
		Where("price > ?", minPrice).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListDishes(ctx context.Context) ([]models.Dish, error) {
	var out []models.Dish
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetDish(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	var d models.Dish
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
