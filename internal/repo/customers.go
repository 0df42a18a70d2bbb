package repo

import (
	"context"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func addressesInOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order("id ASC")
}

func (r *GormRepo) InsertCustomers(ctx context.Context, customers []models.Customer) (BulkResult, error) {
	return insertMany(ctx, r.DB, schema.CollectionCustomers, customers, func(c *models.Customer) uuid.UUID { return c.ID })
}

func (r *GormRepo) FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).
		Preload("Addresses", addressesInOrder).
		Where("email = ?", email).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var c models.Customer
	if err := r.DB.WithContext(ctx).
		Preload("Addresses", addressesInOrder).
		Where("id = ?", id).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CountOrdersByCustomer groups orders by customer and keeps the groups with
// at least minOrders orders. Customer fields are empty when the referenced
// customer no longer exists.
func (r *GormRepo) CountOrdersByCustomer(ctx context.Context, minOrders int) ([]models.CustomerOrderCount, error) {
	var out []models.CustomerOrderCount
	if err := r.DB.WithContext(ctx).
		Table("orders").
		Select(`orders.customer_id AS customer_id,
			COALESCE(customers.first_name, '') AS first_name,
			COALESCE(customers.last_name, '') AS last_name,
			COALESCE(customers.email, '') AS email,
			COUNT(*) AS order_count`).
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
		Group("orders.customer_id, customers.first_name, customers.last_name, customers.email").
		Having("COUNT(*) >= ?", minOrders).
		Order("order_count DESC").
		Order("email ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
