package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightroutes/config"
	"github.com/Domenick1991/flightroutes/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PrimaryStore is the configured primary source, readable by the dashboard
// and writable by the importer.
type PrimaryStore interface {
	repository.RouteRepository
	repository.RouteWriter
}

// OpenPrimary builds the client for cfg.Source.Primary. Neither driver dials
// here, so an unreachable server only surfaces on the first query.
func OpenPrimary(ctx context.Context, cfg *config.Config) (PrimaryStore, func(), error) {
	switch cfg.Source.Primary {
	case config.SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return repository.NewPGRouteRepository(pool, cfg.Database.Table), pool.Close, nil

	case config.SourceMongo:
		timeout := cfg.Source.LoadTimeout()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		opts := options.Client().
			ApplyURI(cfg.Mongo.URI).
			SetConnectTimeout(timeout).
			SetServerSelectionTimeout(timeout)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(shutdownCtx)
		}
		return repository.NewMongoRouteRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown primary source %q", cfg.Source.Primary)
	}
}
