package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/bootstrap"
	"github.com/Domenick1991/flightroutes/internal/cache"
	"github.com/Domenick1991/flightroutes/internal/kafka"
	"github.com/Domenick1991/flightroutes/internal/presentation"
	"github.com/Domenick1991/flightroutes/internal/repository"
	"github.com/Domenick1991/flightroutes/internal/service/dataset"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var primary repository.RouteRepository
	store, closeStore, err := bootstrap.OpenPrimary(ctx, cfg)
	if err != nil {
		log.Printf("WARNING: primary source unavailable, using %s only: %v", cfg.Source.CSVPath, err)
	} else {
		defer closeStore()
		primary = store
	}

	loader := dataset.NewLoader(primary, repository.NewCSVRouteRepository(cfg.Source.CSVPath), cfg.Source.LoadTimeout())

	var opts []dataset.ServiceOption
	if cfg.Redis.Enabled() {
		redisCache := cache.NewRedisCache(cfg.Redis)
		defer redisCache.Close()
		opts = append(opts, dataset.WithSnapshotCache(redisCache))
	}
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		opts = append(opts, dataset.WithEvents(producer, cfg.Kafka.EventsTopic))
	}
	datasetService := dataset.NewService(loader, opts...)

	if cfg.Kafka.Enabled() && cfg.Kafka.RefreshTopic != "" {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.RefreshTopic)
		defer consumer.Close()

		go func() {
			err := consumer.Consume(ctx, kafka.DatasetEventHandler(func(ctx context.Context, event kafka.DatasetEvent) error {
				if event.Type != kafka.EventDatasetUpdated {
					return nil
				}
				ds, err := datasetService.Refresh(ctx)
				if err != nil {
					log.Printf("refresh after import: %v", err)
					return nil
				}
				log.Printf("dataset refreshed: %d records from %s", ds.Len(), ds.Source)
				return nil
			}))
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("consumer stopped: %v", err)
			}
		}()
	}

	builder := presentation.NewBuilder(datasetService, cfg.Dashboard.TopRoutes, cfg.Dashboard.TopCountries)

	if err := bootstrap.Run(ctx, cfg, builder, datasetService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
