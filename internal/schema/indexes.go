package schema

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// IndexSpec declares one index. Collection is the logical owner; Table is
// where the indexed columns live (order items sit in their own table).
type IndexSpec struct {
	Collection string
	Table      string
	Name       string
	Columns    []string
	Unique     bool
}

func (s IndexSpec) SQL() string {
	unique := ""
	if s.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
		unique, s.Name, s.Table, strings.Join(s.Columns, ", "))
}

func IndexPlan() []IndexSpec {
	return []IndexSpec{
		{Collection: CollectionDishes, Table: "dishes", Name: "idx_dishes_name", Columns: []string{"name"}},
		{Collection: CollectionDishes, Table: "dishes", Name: "idx_dishes_category", Columns: []string{"category"}},
		{Collection: CollectionDishes, Table: "dishes", Name: "idx_dishes_price", Columns: []string{"price"}},
		{Collection: CollectionDishes, Table: "dishes", Name: "idx_dishes_is_active", Columns: []string{"is_active"}},

		{Collection: CollectionCustomers, Table: "customers", Name: "idx_customers_email", Columns: []string{"email"}, Unique: true},
		{Collection: CollectionCustomers, Table: "customers", Name: "idx_customers_name", Columns: []string{"first_name", "last_name"}},
		{Collection: CollectionCustomers, Table: "customers", Name: "idx_customers_registration_date", Columns: []string{"registration_date"}},

		{Collection: CollectionOrders, Table: "orders", Name: "idx_orders_customer_id", Columns: []string{"customer_id"}},
		{Collection: CollectionOrders, Table: "orders", Name: "idx_orders_creation_date", Columns: []string{"creation_date"}},
		{Collection: CollectionOrders, Table: "orders", Name: "idx_orders_status", Columns: []string{"status"}},
		{Collection: CollectionOrders, Table: "order_items", Name: "idx_order_items_dish_id", Columns: []string{"dish_id"}},
		{Collection: CollectionOrders, Table: "orders", Name: "idx_orders_creation_date_status", Columns: []string{"creation_date", "status"}},
	}
}

func CreateIndexes(ctx context.Context, db *gorm.DB, specs []IndexSpec) error {
	tx := db.WithContext(ctx)
	for _, s := range specs {
		if err := tx.Exec(s.SQL()).Error; err != nil {
			return fmt.Errorf("create index %s: %w", s.Name, err)
		}
	}
	return nil
}
