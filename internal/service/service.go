package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/Skotchmaster/food_delivery/internal/repo"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/google/uuid"
)

var (
	ErrValidation = schema.ErrValidation    // 400
	ErrNotFound   = errors.New("not found") // 404
	ErrConflict   = errors.New("conflict")  // 409
)

// Store is the document store the service runs against.
type Store interface {
	InsertDishes(ctx context.Context, dishes []models.Dish) (repo.BulkResult, error)
	InsertCustomers(ctx context.Context, customers []models.Customer) (repo.BulkResult, error)
	InsertOrders(ctx context.Context, orders []models.Order) (repo.BulkResult, error)

	FindDishesAbove(ctx context.Context, minPrice float64) ([]models.DishSummary, error)
	ListDishes(ctx context.Context) ([]models.Dish, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FirstOrderByStatus(ctx context.Context, status models.OrderStatus) (*models.Order, error)
	SetOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (int64, error)
	CountOrdersByCustomer(ctx context.Context, minOrders int) ([]models.CustomerOrderCount, error)
	TopDishesByQuantity(ctx context.Context, limit int) ([]models.DishVolume, error)

	Counts(ctx context.Context) (models.Stats, error)
	Samples(ctx context.Context) (models.Samples, error)
	Reset(ctx context.Context) error
}

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// DishIndexer receives the seeded dishes. It is optional.
type DishIndexer interface {
	IndexDishes(ctx context.Context, dishes []models.Dish) error
}

type FoodService struct {
	Repo       Store
	Producer   Publisher
	OrderTopic string
	Indexer    DishIndexer
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
