package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/bootstrap"
	"github.com/Domenick1991/flightroutes/internal/kafka"
	"github.com/Domenick1991/flightroutes/internal/repository"
)

// The worker imports the CSV file into the primary store and tells running
// dashboards to reload.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	csvPath := flag.String("csv", "", "file to import (defaults to source.csv_path)")
	flag.Parse()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *csvPath == "" {
		*csvPath = cfg.Source.CSVPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := repository.NewCSVRouteRepository(*csvPath).List(ctx)
	if err != nil {
		log.Fatalf("read %s: %v", *csvPath, err)
	}

	store, closeStore, err := bootstrap.OpenPrimary(ctx, cfg)
	if err != nil {
		log.Fatalf("open primary store: %v", err)
	}
	defer closeStore()

	n, err := store.ReplaceAll(ctx, records)
	if err != nil {
		log.Fatalf("import into %s: %v", store.Source(), err)
	}
	log.Printf("imported %d records into %s", n, store.Source())

	if !cfg.Kafka.Enabled() || cfg.Kafka.RefreshTopic == "" {
		return
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	event := kafka.DatasetEvent{
		Type:       kafka.EventDatasetUpdated,
		Source:     string(store.Source()),
		Records:    n,
		OccurredAt: time.Now(),
	}
	if err := producer.Publish(ctx, cfg.Kafka.RefreshTopic, event.Type, event); err != nil {
		log.Printf("WARNING: failed to publish %s event: %v", event.Type, err)
	}
}
