package service

import (
	"context"
	"math"
	"testing"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpensiveDishes(t *testing.T) {
	env, _ := seededEnv(t)

	got, err := env.Svc.ExpensiveDishes(context.Background(), DefaultMinPrice)
	require.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, d := range got {
		assert.Greater(t, d.Price, DefaultMinPrice)
		assert.NotEqual(t, uuid.Nil, d.ID)
		assert.NotEmpty(t, d.Category)
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{
		"Antipasto Misto",
		"Risotto ai Funghi Porcini",
		"Lasagne della Casa",
		"Bistecca alla Fiorentina",
		"Branzino in Crosta",
		"Pollo alle Olive",
	}, names)

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = env.Svc.ExpensiveDishes(context.Background(), bad)
		assert.ErrorIs(t, err, ErrValidation, "min price %v", bad)
	}
}

func TestCustomerOrders(t *testing.T) {
	env, _ := seededEnv(t)
	ctx := context.Background()

	got, err := env.Svc.CustomerOrders(ctx, "mario.rossi@email.com")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.StatusCompleted, got[0].Status)
	require.NotNil(t, got[0].TotalAmount)
	assert.InDelta(t, 38.50, *got[0].TotalAmount, 0.001)
	assert.Equal(t, []string{"Bruschetta al Pomodoro", "Spaghetti alla Carbonara", "Tiramisù"}, got[0].DishNames)

	assert.Equal(t, models.StatusPreparing, got[1].Status)
	assert.InDelta(t, 49.00, *got[1].TotalAmount, 0.001)
	assert.Equal(t, []string{"Lasagne della Casa", "Panna Cotta ai Frutti di Bosco"}, got[1].DishNames)
	assert.True(t, got[0].CreationDate.Before(got[1].CreationDate))

	got, err = env.Svc.CustomerOrders(ctx, "luca.ferrari@email.com")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = env.Svc.CustomerOrders(ctx, "nobody@email.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.Svc.CustomerOrders(ctx, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCompleteNextPreparingOrder(t *testing.T) {
	env, res := seededEnv(t)
	ctx := context.Background()

	n, err := env.Svc.CompleteNextPreparingOrder(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	o, err := env.Repo.GetOrder(ctx, res.OrderIDs[2])
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, o.Status)
	assert.InDelta(t, 49.00, *o.TotalAmount, 0.001)
	assert.Len(t, o.Items, 2)

	n, err = env.Svc.CompleteNextPreparingOrder(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	events := env.Publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "order_events", events[0].Topic)
	assert.Equal(t, res.OrderIDs[2].String(), events[0].Key)
	ev, ok := events[0].Event.(OrderStatusChanged)
	require.True(t, ok)
	assert.Equal(t, EventOrderStatusChanged, ev.Type)
	assert.Equal(t, models.StatusPreparing, ev.From)
	assert.Equal(t, models.StatusCompleted, ev.To)
	assert.Equal(t, res.CustomerIDs["mario"], ev.CustomerID)
}

func TestCompleteNextPreparingOrder_PublishFailureIsNotFatal(t *testing.T) {
	env, _ := seededEnv(t)
	env.Publisher.err = errBroker

	n, err := env.Svc.CompleteNextPreparingOrder(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCompleteNextPreparingOrder_NoPublisher(t *testing.T) {
	env, _ := seededEnv(t)
	env.Svc.Producer = nil

	n, err := env.Svc.CompleteNextPreparingOrder(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRepeatCustomers(t *testing.T) {
	env, res := seededEnv(t)
	ctx := context.Background()

	got, err := env.Svc.RepeatCustomers(ctx, DefaultMinOrders)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, res.CustomerIDs["mario"], got[0].CustomerID)
	assert.Equal(t, "Mario", got[0].FirstName)
	assert.Equal(t, "Rossi", got[0].LastName)
	assert.Equal(t, "mario.rossi@email.com", got[0].Email)
	assert.EqualValues(t, 2, got[0].OrderCount)

	got, err = env.Svc.RepeatCustomers(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = env.Svc.RepeatCustomers(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTopDishes(t *testing.T) {
	env, _ := seededEnv(t)
	ctx := context.Background()

	got, err := env.Svc.TopDishes(ctx, DefaultTopDishes)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 2, got[0].TotalQuantity)
	assert.Contains(t, []string{"Bruschetta al Pomodoro", "Lasagne della Casa", "Panna Cotta ai Frutti di Bosco"}, got[0].DishName)
	assert.Equal(t, "Bruschetta al Pomodoro", got[0].DishName, "ties keep first-seen order")

	got, err = env.Svc.TopDishes(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, got, 7)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalQuantity, got[i].TotalQuantity)
	}

	_, err = env.Svc.TopDishes(ctx, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTopDishes_Empty(t *testing.T) {
	env := newTestEnv(t)

	got, err := env.Svc.TopDishes(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVerify(t *testing.T) {
	env, _ := seededEnv(t)

	v, err := env.Svc.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Dishes: 10, Customers: 5, Orders: 3}, v.Counts)

	require.NotNil(t, v.Samples.Dish)
	require.NotNil(t, v.Samples.Customer)
	assert.NotEmpty(t, v.Samples.Customer.Addresses)
	require.NotNil(t, v.Samples.Order)
	assert.NotEmpty(t, v.Samples.Order.Items)
}
