package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRouteRepository struct {
	collection *mongo.Collection
}

func NewMongoRouteRepository(client *mongo.Client, database, collection string) *MongoRouteRepository {
	return &MongoRouteRepository{collection: client.Database(database).Collection(collection)}
}

// List decodes every document. The _id key has no field in RouteRecord,
// so it is dropped during decoding.
func (r *MongoRouteRepository) List(ctx context.Context) ([]domain.RouteRecord, error) {
	cur, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find routes: %w", err)
	}
	defer cur.Close(ctx)

	return decodeRecords(ctx, cur)
}

func decodeRecords(ctx context.Context, cur *mongo.Cursor) ([]domain.RouteRecord, error) {
	records := make([]domain.RouteRecord, 0)
	for i := 0; cur.Next(ctx); i++ {
		var rec domain.RouteRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode route %d: %w", i, err)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		records = append(records, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}
	return records, nil
}

func (r *MongoRouteRepository) ReplaceAll(ctx context.Context, records []domain.RouteRecord) (int, error) {
	if _, err := r.collection.DeleteMany(ctx, bson.D{}); err != nil {
		return 0, fmt.Errorf("clear routes: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(records))
	for _, rec := range records {
		docs = append(docs, rec)
	}
	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert routes: %w", err)
	}
	return len(res.InsertedIDs), nil
}

func (r *MongoRouteRepository) Source() domain.Source {
	return domain.SourceMongo
}

var (
	_ RouteRepository = (*MongoRouteRepository)(nil)
	_ RouteWriter     = (*MongoRouteRepository)(nil)
)
