package repository

import (
	"context"

	"github.com/Domenick1991/flightroutes/internal/domain"
)

// RouteRepository reads the full set of route records from one store.
type RouteRepository interface {
	List(ctx context.Context) ([]domain.RouteRecord, error)
	Source() domain.Source
}

// RouteWriter replaces the contents of a store. Used by the importer.
type RouteWriter interface {
	ReplaceAll(ctx context.Context, records []domain.RouteRecord) (int, error)
}
