package schema

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"gorm.io/gorm"
)

const (
	CollectionDishes    = "dishes"
	CollectionCustomers = "customers"
	CollectionOrders    = "orders"
)

const (
	createCallback = "fooddb:validate_create"
	updateCallback = "fooddb:validate_update"
)

type ColumnRule func(value any) error

// Collection binds a table to the validator every write to it must pass.
// Columns holds the rules used for partial updates, keyed by column name.
type Collection struct {
	Name     string
	Model    any
	Validate func(doc any) error
	Columns  map[string]ColumnRule
}

type Registry struct {
	collections []Collection
	byTable     map[string]*Collection
	indexes     []IndexSpec
}

func NewRegistry() *Registry {
	r := &Registry{indexes: IndexPlan()}
	r.register(Collection{
		Name:  CollectionDishes,
		Model: &models.Dish{},
		Validate: func(doc any) error {
			if d, ok := doc.(*models.Dish); ok {
				return ValidateDish(d)
			}
			return nil
		},
		Columns: map[string]ColumnRule{
			"name":             stringRule(CollectionDishes, "name", "notblank"),
			"description":      stringRule(CollectionDishes, "description", "notblank"),
			"price":            numberRule(CollectionDishes, "price", "gte=0,finite"),
			"preparation_time": numberRule(CollectionDishes, "preparation_time", "gte=1"),
			"calories":         numberRule(CollectionDishes, "calories", "gte=0"),
			"category":         stringRule(CollectionDishes, "category", oneOf(models.Categories)),
		},
	})
	r.register(Collection{
		Name:  CollectionCustomers,
		Model: &models.Customer{},
		Validate: func(doc any) error {
			if c, ok := doc.(*models.Customer); ok {
				return ValidateCustomer(c)
			}
			return nil
		},
		Columns: map[string]ColumnRule{
			"first_name": stringRule(CollectionCustomers, "first_name", "notblank"),
			"last_name":  stringRule(CollectionCustomers, "last_name", "notblank"),
			"email":      stringRule(CollectionCustomers, "email", "email_pattern"),
		},
	})
	r.register(Collection{
		Name:  CollectionOrders,
		Model: &models.Order{},
		Validate: func(doc any) error {
			if o, ok := doc.(*models.Order); ok {
				return ValidateOrder(o)
			}
			return nil
		},
		Columns: map[string]ColumnRule{
			"total_amount": numberRule(CollectionOrders, "total_amount", "gte=0,finite"),
			"status":       stringRule(CollectionOrders, "status", oneOf(models.Statuses)),
		},
	})
	r.byTable = make(map[string]*Collection, len(r.collections))
	for i := range r.collections {
		r.byTable[r.collections[i].Name] = &r.collections[i]
	}
	return r
}

func (r *Registry) register(c Collection) {
	r.collections = append(r.collections, c)
}

func (r *Registry) Collections() []Collection {
	return r.collections
}

func (r *Registry) Indexes() []IndexSpec {
	return r.indexes
}

// Apply creates the tables, attaches the validators and builds the index plan.
// It is safe to call more than once on the same database.
func (r *Registry) Apply(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(
		&models.Dish{},
		&models.Customer{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return fmt.Errorf("migrate collections: %w", err)
	}
	if err := r.Attach(db); err != nil {
		return err
	}
	return CreateIndexes(ctx, db, r.indexes)
}

// Attach registers the create and update callbacks on db. Writes to tables
// that are not registered collections pass through untouched.
func (r *Registry) Attach(db *gorm.DB) error {
	cb := db.Callback()
	if cb.Create().Get(createCallback) == nil {
		if err := cb.Create().Before("gorm:create").Register(createCallback, r.validateCreate); err != nil {
			return fmt.Errorf("register create validator: %w", err)
		}
	}
	if cb.Update().Get(updateCallback) == nil {
		if err := cb.Update().Before("gorm:update").Register(updateCallback, r.validateUpdate); err != nil {
			return fmt.Errorf("register update validator: %w", err)
		}
	}
	return nil
}

func (r *Registry) lookup(tx *gorm.DB) (*Collection, bool) {
	if tx.Error != nil || tx.Statement.Schema == nil {
		return nil, false
	}
	c, ok := r.byTable[tx.Statement.Schema.Table]
	return c, ok
}

func (r *Registry) validateCreate(tx *gorm.DB) {
	c, ok := r.lookup(tx)
	if !ok {
		return
	}
	rv := tx.Statement.ReflectValue
	if rv.Kind() == reflect.Map {
		if err := r.validateColumns(tx, c, rv); err != nil {
			tx.AddError(err)
		}
		return
	}
	if err := eachRecord(rv, c.Validate); err != nil {
		tx.AddError(err)
	}
}

func (r *Registry) validateUpdate(tx *gorm.DB) {
	c, ok := r.lookup(tx)
	if !ok || tx.Statement.Dest == nil {
		return
	}
	dest := reflect.Indirect(reflect.ValueOf(tx.Statement.Dest))
	switch dest.Kind() {
	case reflect.Map:
		if err := r.validateColumns(tx, c, dest); err != nil {
			tx.AddError(err)
		}
	case reflect.Struct:
		if selectsAll(tx.Statement.Selects) {
			if err := eachRecord(dest, c.Validate); err != nil {
				tx.AddError(err)
			}
			return
		}
		for _, f := range tx.Statement.Schema.Fields {
			rule, ok := c.Columns[f.DBName]
			if !ok {
				continue
			}
			v, zero := f.ValueOf(tx.Statement.Context, dest)
			if zero {
				continue
			}
			if err := rule(v); err != nil {
				tx.AddError(err)
				return
			}
		}
	}
}

func (r *Registry) validateColumns(tx *gorm.DB, c *Collection, m reflect.Value) error {
	iter := m.MapRange()
	for iter.Next() {
		key, ok := stringOf(iter.Key().Interface())
		if !ok {
			continue
		}
		column := key
		if f := tx.Statement.Schema.LookUpField(key); f != nil {
			column = f.DBName
		}
		rule, ok := c.Columns[column]
		if !ok {
			continue
		}
		if err := rule(iter.Value().Interface()); err != nil {
			return err
		}
	}
	return nil
}

func eachRecord(rv reflect.Value, fn func(any) error) error {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if err := eachRecord(rv.Index(i), fn); err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
		}
	case reflect.Pointer:
		if !rv.IsNil() {
			return fn(rv.Interface())
		}
	case reflect.Struct:
		if rv.CanAddr() {
			return fn(rv.Addr().Interface())
		}
		cp := reflect.New(rv.Type())
		cp.Elem().Set(rv)
		return fn(cp.Interface())
	}
	return nil
}

func selectsAll(selects []string) bool {
	for _, s := range selects {
		if s == "*" {
			return true
		}
	}
	return false
}

// Column rules run a validator tag against a single value. Values of the
// wrong kind are left to the database.
func stringRule(collection, field, tag string) ColumnRule {
	return func(v any) error {
		s, ok := stringOf(v)
		if !ok {
			return nil
		}
		return violations(collection, field, validate.Var(s, tag))
	}
}

func numberRule(collection, field, tag string) ColumnRule {
	return func(v any) error {
		f, ok := numberOf(v)
		if !ok {
			return nil
		}
		return violations(collection, field, validate.Var(f, tag))
	}
}

func oneOf[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return "oneof=" + strings.Join(parts, " ")
}

func stringOf(v any) (string, bool) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func numberOf(v any) (float64, bool) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}
