package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

// Reset empties every collection, children first.
func (r *GormRepo) Reset(ctx context.Context) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"order_items", "orders", "customer_addresses", "customers", "dishes"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}

func (r *GormRepo) Counts(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	tx := r.DB.WithContext(ctx)
	if err := tx.Model(&models.Dish{}).Count(&s.Dishes).Error; err != nil {
		return s, err
	}
	if err := tx.Model(&models.Customer{}).Count(&s.Customers).Error; err != nil {
		return s, err
	}
	if err := tx.Model(&models.Order{}).Count(&s.Orders).Error; err != nil {
		return s, err
	}
	return s, nil
}

// Samples takes the first stored document of each collection. A collection
// that is empty leaves its field nil.
func (r *GormRepo) Samples(ctx context.Context) (models.Samples, error) {
	var s models.Samples
	tx := r.DB.WithContext(ctx)

	var d models.Dish
	if err := tx.Take(&d).Error; err == nil {
		s.Dish = &d
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return s, err
	}

	var c models.Customer
	if err := tx.Preload("Addresses", addressesInOrder).Take(&c).Error; err == nil {
		s.Customer = &c
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return s, err
	}

	var o models.Order
	if err := tx.Preload("Items", itemsInOrder).Take(&o).Error; err == nil {
		s.Order = &o
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return s, err
	}
	return s, nil
}
