package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var routeColumns = []string{"route", "origin", "destination", "from_country", "year", "type", "passengers", "from_lat", "from_lon", "to_lat", "to_lon"}

type PGRouteRepository struct {
	db    *pgxpool.Pool
	table string
}

func NewPGRouteRepository(db *pgxpool.Pool, table string) *PGRouteRepository {
	if table == "" {
		table = "flight_routes"
	}
	return &PGRouteRepository{db: db, table: table}
}

func (r *PGRouteRepository) List(ctx context.Context) ([]domain.RouteRecord, error) {
	query := fmt.Sprintf(`SELECT route, origin, destination, from_country, year, type, passengers, from_lat, from_lon, to_lat, to_lon FROM %s`, pgx.Identifier{r.table}.Sanitize())
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]domain.RouteRecord, error) {
	records := make([]domain.RouteRecord, 0)
	for rows.Next() {
		var rec domain.RouteRecord
		if err := rows.Scan(&rec.Route, &rec.From, &rec.To, &rec.FromCountry, &rec.Year, &rec.Type, &rec.Passengers, &rec.FromLat, &rec.FromLon, &rec.ToLat, &rec.ToLon); err != nil {
			return nil, err
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("route %q: %w", rec.Route, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PGRouteRepository) ReplaceAll(ctx context.Context, records []domain.RouteRecord) (int, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf(`TRUNCATE %s`, pgx.Identifier{r.table}.Sanitize())); err != nil {
		return 0, fmt.Errorf("truncate routes: %w", err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{r.table}, routeColumns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		rec := records[i]
		return []any{rec.Route, rec.From, rec.To, rec.FromCountry, rec.Year, rec.Type, rec.Passengers, rec.FromLat, rec.FromLon, rec.ToLat, rec.ToLon}, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("copy routes: %w", err)
	}

	return int(copied), tx.Commit(ctx)
}

func (r *PGRouteRepository) Source() domain.Source {
	return domain.SourcePostgres
}

var (
	_ RouteRepository = (*PGRouteRepository)(nil)
	_ RouteWriter     = (*PGRouteRepository)(nil)
)
