package repo

import (
	"context"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func itemsInOrder(tx *gorm.DB) *gorm.DB {
	return tx.Order("id ASC")
}

func (r *GormRepo) InsertOrders(ctx context.Context, orders []models.Order) (BulkResult, error) {
	return insertMany(ctx, r.DB, schema.CollectionOrders, orders, func(o *models.Order) uuid.UUID { return o.ID })
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items", itemsInOrder).
		Where("id = ?", id).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// FindOrdersByCustomer loads only the fields of an order history: creation
// date, status, total and the dish names of the items.
func (r *GormRepo) FindOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	if err := r.DB.WithContext(ctx).
		Select("id", "customer_id", "creation_date", "status", "total_amount").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Select("id", "order_id", "dish_name").Order("id ASC")
		}).
		Where("customer_id = ?", customerID).
		Order("creation_date ASC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FirstOrderByStatus returns the oldest order in the given status.
func (r *GormRepo) FirstOrderByStatus(ctx context.Context, status models.OrderStatus) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Where("status = ?", status).
		Order("creation_date ASC").
		Order("id ASC").
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// SetOrderStatus changes only the status column, and only while the order is
// still in status from. It returns the number of modified orders.
func (r *GormRepo) SetOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

type dishTotal struct {
	DishID        uuid.UUID
	TotalQuantity int64
	FirstItemID   uint
}

// TopDishesByQuantity sums item quantities per dish. Each dish is labelled
// with the name snapshot of its earliest item, and ties keep that order.
func (r *GormRepo) TopDishesByQuantity(ctx context.Context, limit int) ([]models.DishVolume, error) {
	tx := r.DB.WithContext(ctx)

	var totals []dishTotal
	if err := tx.Model(&models.OrderItem{}).
		Select("dish_id, SUM(quantity) AS total_quantity, MIN(id) AS first_item_id").
		Group("dish_id").
		Order("total_quantity DESC").
		Order("first_item_id ASC").
		Limit(limit).
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	if len(totals) == 0 {
		return []models.DishVolume{}, nil
	}

	ids := make([]uint, len(totals))
	for i, t := range totals {
		ids[i] = t.FirstItemID
	}
	var firsts []models.OrderItem
	if err := tx.Select("id", "dish_name").Where("id IN ?", ids).Find(&firsts).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(firsts))
	for _, it := range firsts {
		names[it.ID] = it.DishName
	}

	out := make([]models.DishVolume, len(totals))
	for i, t := range totals {
		out[i] = models.DishVolume{DishID: t.DishID, DishName: names[t.FirstItemID], TotalQuantity: t.TotalQuantity}
	}
	return out, nil
}
