package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultMinPrice  = 15.0
	DefaultMinOrders = 2
	DefaultTopDishes = 1
	maxTopDishes     = 100
)

func (s *FoodService) ExpensiveDishes(ctx context.Context, minPrice float64) ([]models.DishSummary, error) {
	if math.IsNaN(minPrice) || math.IsInf(minPrice, 0) || minPrice < 0 {
		return nil, validationf("min price must be a finite number >= 0")
	}
	return s.Repo.FindDishesAbove(ctx, minPrice)
}

func (s *FoodService) Dishes(ctx context.Context) ([]models.Dish, error) {
	return s.Repo.ListDishes(ctx)
}

// CustomerOrders returns the order history of the customer with this exact email.
func (s *FoodService) CustomerOrders(ctx context.Context, email string) ([]models.OrderSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, validationf("email required")
	}

	customer, err := s.Repo.FindCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %s: %w", email, ErrNotFound)
		}
		return nil, err
	}

	orders, err := s.Repo.FindOrdersByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	out := make([]models.OrderSummary, 0, len(orders))
	for _, o := range orders {
		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			names = append(names, it.DishName)
		}
		out = append(out, models.OrderSummary{
			ID:           o.ID,
			CreationDate: o.CreationDate,
			Status:       o.Status,
			TotalAmount:  o.TotalAmount,
			DishNames:    names,
		})
	}
	return out, nil
}

func (s *FoodService) RepeatCustomers(ctx context.Context, minOrders int) ([]models.CustomerOrderCount, error) {
	if minOrders < 1 {
		return nil, validationf("min orders must be >= 1")
	}
	return s.Repo.CountOrdersByCustomer(ctx, minOrders)
}

func (s *FoodService) TopDishes(ctx context.Context, limit int) ([]models.DishVolume, error) {
	if limit < 1 || limit > maxTopDishes {
		return nil, validationf("limit must be between 1 and %d", maxTopDishes)
	}
	return s.Repo.TopDishesByQuantity(ctx, limit)
}

func (s *FoodService) Stats(ctx context.Context) (models.Stats, error) {
	return s.Repo.Counts(ctx)
}

// Verification is what a freshly seeded store looks like: the size of every
// collection plus one document from each.
type Verification struct {
	Counts  models.Stats   `json:"counts"`
	Samples models.Samples `json:"samples"`
}

func (s *FoodService) Verify(ctx context.Context) (*Verification, error) {
	counts, err := s.Repo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}
	samples, err := s.Repo.Samples(ctx)
	if err != nil {
		return nil, fmt.Errorf("sample collections: %w", err)
	}
	return &Verification{Counts: counts, Samples: samples}, nil
}
