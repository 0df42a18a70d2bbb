package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/Skotchmaster/food_delivery/internal/repo"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/Skotchmaster/food_delivery/internal/seed"
	"github.com/Skotchmaster/food_delivery/pkg/logging"
	"github.com/google/uuid"
)

var ErrUnresolvedRef = fmt.Errorf("%w: unresolved reference", ErrNotFound)

type SeedOptions struct {
	Reset bool
}

type SeedResult struct {
	Dishes    int `json:"dishes"`
	Customers int `json:"customers"`
	Orders    int `json:"orders"`

	DishIDs     map[string]uuid.UUID `json:"dish_ids"`
	CustomerIDs map[string]uuid.UUID `json:"customer_ids"`
	OrderIDs    []uuid.UUID          `json:"order_ids"`
}

// refs resolves fixture keys to the documents that were actually stored.
type refs struct {
	dishes    map[string]models.Dish
	customers map[string]models.Customer
}

// Seed inserts the fixture dishes, then customers, then orders built from
// named references. Inserts are unordered: a rejected document is reported in
// the returned error while the others stay stored.
func (s *FoodService) Seed(ctx context.Context, f *seed.Fixture, opts SeedOptions) (*SeedResult, error) {
	l := logging.FromContext(ctx).With("op", "seed")

	if opts.Reset {
		if err := s.Repo.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset: %w", err)
		}
		l.Info("collections_reset")
	}

	res := &SeedResult{
		DishIDs:     map[string]uuid.UUID{},
		CustomerIDs: map[string]uuid.UUID{},
	}
	r := refs{dishes: map[string]models.Dish{}, customers: map[string]models.Customer{}}
	var errs []error

	dishes := make([]models.Dish, len(f.Dishes))
	for i, d := range f.Dishes {
		dishes[i] = dishFromFixture(d)
	}
	inserted, err := s.Repo.InsertDishes(ctx, dishes)
	if err != nil {
		errs = append(errs, err)
	}
	var stored []models.Dish
	for i, d := range f.Dishes {
		if id, ok := inserted.InsertedIDs[i]; ok {
			r.dishes[d.Key] = dishes[i]
			res.DishIDs[d.Key] = id
			stored = append(stored, dishes[i])
		}
	}
	res.Dishes = inserted.Inserted()

	customers := make([]models.Customer, len(f.Customers))
	for i, c := range f.Customers {
		customers[i] = customerFromFixture(c)
	}
	inserted, err = s.Repo.InsertCustomers(ctx, customers)
	if err != nil {
		errs = append(errs, err)
	}
	for i, c := range f.Customers {
		if id, ok := inserted.InsertedIDs[i]; ok {
			r.customers[c.Key] = customers[i]
			res.CustomerIDs[c.Key] = id
		}
	}
	res.Customers = inserted.Inserted()

	// Orders that cannot be built never reach the store, so insert positions
	// are mapped back to fixture positions before failures are reported.
	var (
		orders    []models.Order
		positions []int
		failures  []repo.BulkFailure
	)
	for i, fo := range f.Orders {
		o, err := r.buildOrder(fo)
		if err != nil {
			failures = append(failures, repo.BulkFailure{Index: i, Err: err})
			continue
		}
		orders = append(orders, o)
		positions = append(positions, i)
	}
	if len(orders) > 0 {
		inserted, err = s.Repo.InsertOrders(ctx, orders)
		var bulkErr *repo.BulkWriteError
		switch {
		case errors.As(err, &bulkErr):
			for _, fl := range bulkErr.Failures {
				failures = append(failures, repo.BulkFailure{Index: positions[fl.Index], Err: fl.Err})
			}
		case err != nil:
			errs = append(errs, err)
		}
		for i := range orders {
			if id, ok := inserted.InsertedIDs[i]; ok {
				res.OrderIDs = append(res.OrderIDs, id)
			}
		}
		res.Orders = inserted.Inserted()
	}
	if len(failures) > 0 {
		slices.SortFunc(failures, func(a, b repo.BulkFailure) int { return cmp.Compare(a.Index, b.Index) })
		errs = append(errs, &repo.BulkWriteError{
			Collection: schema.CollectionOrders,
			Total:      len(f.Orders),
			Failures:   failures,
		})
	}

	if s.Indexer != nil && len(stored) > 0 {
		if err := s.Indexer.IndexDishes(ctx, stored); err != nil {
			l.Warn("index_dishes_failed", "error", err)
		}
	}

	err = errors.Join(errs...)
	if err != nil {
		l.Warn("seed_partial", "dishes", res.Dishes, "customers", res.Customers, "orders", res.Orders, "error", err)
		return res, err
	}
	l.Info("seed_completed", "dishes", res.Dishes, "customers", res.Customers, "orders", res.Orders)
	return res, nil
}

// buildOrder snapshots dish name and unit price into each item and computes
// the line totals and the order total.
func (r refs) buildOrder(fo seed.Order) (models.Order, error) {
	customer, ok := r.customers[fo.Customer]
	if !ok {
		return models.Order{}, fmt.Errorf("customer %q: %w", fo.Customer, ErrUnresolvedRef)
	}

	items := make([]models.OrderItem, 0, len(fo.Items))
	for _, it := range fo.Items {
		dish, ok := r.dishes[it.Dish]
		if !ok {
			return models.Order{}, fmt.Errorf("dish %q: %w", it.Dish, ErrUnresolvedRef)
		}
		items = append(items, models.NewOrderItem(dish, it.Quantity))
	}

	var delivery models.DeliveryAddress
	if fo.DeliveryAddress != nil {
		delivery = models.DeliveryAddress{
			Street:    fo.DeliveryAddress.Street,
			City:      fo.DeliveryAddress.City,
			ZipCode:   fo.DeliveryAddress.ZipCode,
			Apartment: fo.DeliveryAddress.Apartment,
		}
	} else if a, ok := customer.DefaultAddress(); ok {
		delivery = a.Delivery()
	}

	o := models.Order{
		ID:              uuid.New(),
		CustomerID:      customer.ID,
		CreationDate:    fo.CreationDate.UTC(),
		Status:          models.OrderStatus(fo.Status),
		Items:           items,
		DeliveryAddress: delivery,
		Notes:           fo.Notes,
	}
	o.Recalculate()
	return o, nil
}

func dishFromFixture(d seed.Dish) models.Dish {
	return models.Dish{
		ID:              uuid.New(),
		Name:            d.Name,
		Description:     d.Description,
		Price:           d.Price,
		Category:        models.Category(d.Category),
		PreparationTime: d.PreparationTime,
		Calories:        d.Calories,
		IsActive:        d.IsActive,
	}
}

func customerFromFixture(c seed.Customer) models.Customer {
	addrs := make([]models.Address, len(c.Addresses))
	for i, a := range c.Addresses {
		addrs[i] = models.Address{
			Street:    a.Street,
			City:      a.City,
			ZipCode:   a.ZipCode,
			Apartment: a.Apartment,
			IsDefault: a.IsDefault,
		}
	}
	return models.Customer{
		ID:               uuid.New(),
		FirstName:        c.FirstName,
		LastName:         c.LastName,
		Email:            c.Email,
		RegistrationDate: c.RegistrationDate.UTC(),
		Addresses:        addrs,
	}
}
