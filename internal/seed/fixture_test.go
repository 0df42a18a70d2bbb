package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	f, err := Default()
	require.NoError(t, err)

	assert.Len(t, f.Dishes, 10)
	assert.Len(t, f.Customers, 5)
	assert.Len(t, f.Orders, 3)

	assert.Equal(t, "Bruschetta al Pomodoro", f.Dishes[0].Name)
	assert.Equal(t, 8.5, f.Dishes[0].Price)
	require.NotNil(t, f.Dishes[0].PreparationTime)
	assert.Equal(t, 10, *f.Dishes[0].PreparationTime)

	mario := f.Customers[0]
	assert.Equal(t, "mario.rossi@email.com", mario.Email)
	assert.Equal(t, 2024, mario.RegistrationDate.Year())
	require.Len(t, mario.Addresses, 2)
	assert.Equal(t, "20100", mario.Addresses[0].ZipCode)
	require.NotNil(t, mario.Addresses[0].Apartment)
	assert.Equal(t, "Interno 5", *mario.Addresses[0].Apartment)

	keys := map[string]bool{}
	for _, d := range f.Dishes {
		keys[d.Key] = true
	}
	for _, o := range f.Orders {
		for _, it := range o.Items {
			assert.True(t, keys[it.Dish], "unknown dish key %q", it.Dish)
		}
	}
	assert.Nil(t, f.Orders[0].DeliveryAddress)
	require.NotNil(t, f.Orders[2].DeliveryAddress)
	assert.Equal(t, "Corso Buenos Aires 45", f.Orders[2].DeliveryAddress.Street)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "unknown field", data: "dishes:\n  - key: a\n    nam: typo\n"},
		{name: "duplicate dish key", data: "dishes:\n  - key: a\n  - key: a\n"},
		{name: "missing customer key", data: "customers:\n  - firstName: Mario\n"},
		{name: "not yaml", data: "dishes: [\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dishes:\n  - key: x\n    name: X\n"), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, f.Dishes, 1)
	assert.Equal(t, "X", f.Dishes[0].Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
