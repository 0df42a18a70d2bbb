package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Skotchmaster/food_delivery/internal/models"
	"github.com/Skotchmaster/food_delivery/internal/repo"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/Skotchmaster/food_delivery/internal/seed"
	pkgdb "github.com/Skotchmaster/food_delivery/pkg/db"
	"github.com/stretchr/testify/require"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(ctx context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return p.err
}

func (p *fakePublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type fakeIndexer struct {
	dishes []models.Dish
	err    error
}

func (i *fakeIndexer) IndexDishes(ctx context.Context, dishes []models.Dish) error {
	i.dishes = append(i.dishes, dishes...)
	return i.err
}

type testEnv struct {
	Svc       *FoodService
	Repo      *repo.GormRepo
	Publisher *fakePublisher
	Indexer   *fakeIndexer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := pkgdb.Open(ctx, pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })
	require.NoError(t, schema.NewRegistry().Apply(ctx, db))

	env := &testEnv{
		Repo:      &repo.GormRepo{DB: db},
		Publisher: &fakePublisher{},
		Indexer:   &fakeIndexer{},
	}
	env.Svc = &FoodService{
		Repo:       env.Repo,
		Producer:   env.Publisher,
		OrderTopic: "order_events",
		Indexer:    env.Indexer,
	}
	return env
}

func seededEnv(t *testing.T) (*testEnv, *SeedResult) {
	t.Helper()
	env := newTestEnv(t)
	f, err := seed.Default()
	require.NoError(t, err)
	res, err := env.Svc.Seed(context.Background(), f, SeedOptions{})
	require.NoError(t, err)
	return env, res
}

var errBroker = errors.New("broker down")
