package models

import (
	"time"

	"github.com/google/uuid"
)

type DishSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Category Category  `json:"category"`
}

type OrderSummary struct {
	ID           uuid.UUID   `json:"id"`
	CreationDate time.Time   `json:"creation_date"`
	Status       OrderStatus `json:"status"`
	TotalAmount  *float64    `json:"total_amount,omitempty"`
	DishNames    []string    `json:"dish_names"`
}

type CustomerOrderCount struct {
	CustomerID uuid.UUID `json:"customer_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	OrderCount int64     `json:"order_count"`
}

type DishVolume struct {
	DishID        uuid.UUID `json:"dish_id"`
	DishName      string    `json:"dish_name"`
	TotalQuantity int64     `json:"total_quantity"`
}

type Stats struct {
	Dishes    int64 `json:"dishes"`
	Customers int64 `json:"customers"`
	Orders    int64 `json:"orders"`
}

type Samples struct {
	Dish     *Dish     `json:"dish,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
	Order    *Order    `json:"order,omitempty"`
}
