package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category string

const (
	CategoryAppetizer   Category = "appetizer"
	CategoryFirstCourse Category = "first_course"
	CategoryMainCourse  Category = "main_course"
	CategoryDessert     Category = "dessert"
	CategoryBeverage    Category = "beverage"
)

var Categories = []Category{
	CategoryAppetizer,
	CategoryFirstCourse,
	CategoryMainCourse,
	CategoryDessert,
	CategoryBeverage,
}

type OrderStatus string

const (
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
)

var Statuses = []OrderStatus{
	StatusPreparing,
	StatusOutForDelivery,
	StatusCompleted,
	StatusCancelled,
}

type Dish struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"    json:"id"`
	Name            string    `gorm:"not null"                json:"name"                       validate:"notblank"`
	Description     string    `gorm:"not null"                json:"description"                validate:"notblank"`
	Price           float64   `gorm:"not null;check:price>=0" json:"price"                      validate:"gte=0,finite"`
	Category        Category  `gorm:"size:32;not null"        json:"category"                   validate:"oneof=appetizer first_course main_course dessert beverage"`
	PreparationTime *int      `json:"preparation_time,omitempty" validate:"omitempty,gte=1"`
	Calories        *int      `json:"calories,omitempty"         validate:"omitempty,gte=0"`
	IsActive        *bool     `json:"is_active,omitempty"`
}

func (d *Dish) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Customer struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	FirstName        string    `gorm:"not null"                                          json:"first_name"        validate:"notblank"`
	LastName         string    `gorm:"not null"                                          json:"last_name"         validate:"notblank"`
	Email            string    `gorm:"size:255;not null"                                 json:"email"             validate:"email_pattern"`
	RegistrationDate time.Time `gorm:"not null"                                          json:"registration_date" validate:"required"`
	Addresses        []Address `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses"         validate:"required,min=1,dive"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DefaultAddress returns the first address flagged as default, falling back
// to the first address. ok is false when the customer has no addresses.
func (c *Customer) DefaultAddress() (Address, bool) {
	for _, a := range c.Addresses {
		if a.IsDefault != nil && *a.IsDefault {
			return a, true
		}
	}
	if len(c.Addresses) == 0 {
		return Address{}, false
	}
	return c.Addresses[0], true
}

// Address rows keep list order through the autoincrement id.
type Address struct {
	ID         uint      `gorm:"primaryKey"          json:"-"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null"  json:"-"`
	Street     string    `gorm:"not null"            json:"street"   validate:"notblank"`
	City       string    `gorm:"not null"            json:"city"     validate:"notblank"`
	ZipCode    string    `gorm:"not null"            json:"zip_code" validate:"notblank"`
	Apartment  *string   `json:"apartment,omitempty"`
	IsDefault  *bool     `json:"is_default,omitempty"`
}

func (Address) TableName() string {
	return "customer_addresses"
}

type DeliveryAddress struct {
	Street    string  `json:"street"   validate:"notblank"`
	City      string  `json:"city"     validate:"notblank"`
	ZipCode   string  `json:"zip_code" validate:"notblank"`
	Apartment *string `json:"apartment,omitempty"`
}

func (a Address) Delivery() DeliveryAddress {
	return DeliveryAddress{
		Street:    a.Street,
		City:      a.City,
		ZipCode:   a.ZipCode,
		Apartment: a.Apartment,
	}
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"                           json:"id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null"                             json:"customer_id"      validate:"required"`
	CreationDate    time.Time       `gorm:"not null"                                       json:"creation_date"    validate:"required"`
	Status          OrderStatus     `gorm:"size:32;not null"                               json:"status"           validate:"oneof=preparing out_for_delivery completed cancelled"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"            validate:"required,min=1,dive"`
	DeliveryAddress DeliveryAddress `gorm:"embedded;embeddedPrefix:delivery_"              json:"delivery_address"`
	TotalAmount     *float64        `json:"total_amount,omitempty" validate:"omitempty,gte=0,finite"`
	Notes           *string         `json:"notes,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Recalculate sets TotalAmount to the sum of the line totals.
func (o *Order) Recalculate() {
	var total float64
	for _, it := range o.Items {
		total += it.TotalPrice
	}
	total = RoundCents(total)
	o.TotalAmount = &total
}

// OrderItem rows keep list order through the autoincrement id. DishName is a
// snapshot taken when the order is built and is never re-joined.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey"                    json:"-"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null"            json:"-"`
	DishID     uuid.UUID `gorm:"type:uuid;not null"        json:"dish_id"     validate:"required"`
	DishName   string    `gorm:"not null"                  json:"dish_name"   validate:"notblank"`
	Quantity   int       `gorm:"not null;check:quantity>0" json:"quantity"    validate:"gte=1"`
	UnitPrice  float64   `gorm:"not null"                  json:"unit_price"  validate:"gte=0,finite"`
	TotalPrice float64   `gorm:"not null"                  json:"total_price" validate:"gte=0,finite"`
}

func NewOrderItem(d Dish, quantity int) OrderItem {
	return OrderItem{
		DishID:     d.ID,
		DishName:   d.Name,
		Quantity:   quantity,
		UnitPrice:  d.Price,
		TotalPrice: RoundCents(float64(quantity) * d.Price),
	}
}

func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
