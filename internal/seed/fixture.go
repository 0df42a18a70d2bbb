package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data.yaml
var defaultData []byte

type Fixture struct {
	Dishes    []Dish     `yaml:"dishes"`
	Customers []Customer `yaml:"customers"`
	Orders    []Order    `yaml:"orders"`
}

type Dish struct {
	Key             string  `yaml:"key"`
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	Price           float64 `yaml:"price"`
	Category        string  `yaml:"category"`
	PreparationTime *int    `yaml:"preparationTime"`
	Calories        *int    `yaml:"calories"`
	IsActive        *bool   `yaml:"isActive"`
}

type Address struct {
	Street    string  `yaml:"street"`
	City      string  `yaml:"city"`
	ZipCode   string  `yaml:"zipCode"`
	Apartment *string `yaml:"apartment"`
	IsDefault *bool   `yaml:"isDefault"`
}

type Customer struct {
	Key              string    `yaml:"key"`
	FirstName        string    `yaml:"firstName"`
	LastName         string    `yaml:"lastName"`
	Email            string    `yaml:"email"`
	RegistrationDate time.Time `yaml:"registrationDate"`
	Addresses        []Address `yaml:"addresses"`
}

type Item struct {
	Dish     string `yaml:"dish"`
	Quantity int    `yaml:"quantity"`
}

// Order refers to its customer and dishes by fixture key.
type Order struct {
	Customer        string    `yaml:"customer"`
	CreationDate    time.Time `yaml:"creationDate"`
	Status          string    `yaml:"status"`
	Items           []Item    `yaml:"items"`
	DeliveryAddress *Address  `yaml:"deliveryAddress"`
	Notes           *string   `yaml:"notes"`
}

func Default() (*Fixture, error) {
	return Parse(defaultData)
}

func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.checkKeys(); err != nil {
		return nil, err
	}
	return &f, nil
}

// checkKeys makes sure every key is unique and present. Dangling references
// are reported later by the loader, per order.
func (f *Fixture) checkKeys() error {
	var errs []error
	seen := map[string]bool{}
	for i, d := range f.Dishes {
		if d.Key == "" {
			errs = append(errs, fmt.Errorf("dishes[%d]: key is required", i))
			continue
		}
		if seen["dish:"+d.Key] {
			errs = append(errs, fmt.Errorf("dishes[%d]: duplicate key %q", i, d.Key))
		}
		seen["dish:"+d.Key] = true
	}
	for i, c := range f.Customers {
		if c.Key == "" {
			errs = append(errs, fmt.Errorf("customers[%d]: key is required", i))
			continue
		}
		if seen["customer:"+c.Key] {
			errs = append(errs, fmt.Errorf("customers[%d]: duplicate key %q", i, c.Key))
		}
		seen["customer:"+c.Key] = true
	}
	return errors.Join(errs...)
}
