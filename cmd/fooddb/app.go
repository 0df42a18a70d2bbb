package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/food_delivery/internal/es"
	"github.com/Skotchmaster/food_delivery/internal/mykafka"
	"github.com/Skotchmaster/food_delivery/internal/repo"
	"github.com/Skotchmaster/food_delivery/internal/schema"
	"github.com/Skotchmaster/food_delivery/internal/service"
	"github.com/Skotchmaster/food_delivery/pkg/config"
	pkgdb "github.com/Skotchmaster/food_delivery/pkg/db"
)

// app holds the connections a command works with. Kafka and Elasticsearch
// are only dialled when configured.
type app struct {
	db       *gorm.DB
	producer *mykafka.Producer
	index    *es.DishIndex
	svc      *service.FoodService
}

func openApp(ctx context.Context, cfg config.Config, l *slog.Logger) (*app, error) {
	if err := config.RequireNonEmpty(cfg.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := schema.NewRegistry().Apply(ctx, db); err != nil {
		_ = pkgdb.Close(db)
		return nil, err
	}

	a := &app{
		db:  db,
		svc: &service.FoodService{Repo: &repo.GormRepo{DB: db}, OrderTopic: cfg.KafkaOrderTopic},
	}

	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			a.close(l)
			return nil, err
		}
		a.producer = prod
		a.svc.Producer = prod
		l.Info("kafka_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaOrderTopic)
	}

	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, es.Options{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			a.close(l)
			return nil, err
		}
		idx := es.NewDishIndex(client, cfg.ESDishIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			a.close(l)
			return nil, err
		}
		a.index = idx
		a.svc.Indexer = idx
	}

	return a, nil
}

func (a *app) close(l *slog.Logger) {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if err := pkgdb.Close(a.db); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}
	if err := errors.Join(errs...); err != nil {
		l.Warn("shutdown_error", "error", err)
	}
}
