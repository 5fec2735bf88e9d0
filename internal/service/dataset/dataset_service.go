package dataset

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/kafka"
	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

const datasetKey = "dataset"

type DatasetUseCase interface {
	// Dataset returns the cached dataset, loading it on first use.
	Dataset(ctx context.Context) (*domain.Dataset, error)
	// Refresh drops the cached dataset and loads it again.
	Refresh(ctx context.Context) (*domain.Dataset, error)
}

type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

type SnapshotCache interface {
	GetDataset(ctx context.Context) (*domain.Dataset, error)
	SetDataset(ctx context.Context, ds *domain.Dataset) error
	DeleteDataset(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Service struct {
	loader      DatasetLoader
	entries     gcache.Cache
	group       singleflight.Group
	generation  atomic.Uint64
	snapshots   SnapshotCache
	producer    Producer
	eventsTopic string
}

type ServiceOption func(*Service)

func WithSnapshotCache(c SnapshotCache) ServiceOption {
	return func(s *Service) {
		s.snapshots = c
	}
}

func WithEvents(p Producer, topic string) ServiceOption {
	return func(s *Service) {
		s.producer = p
		s.eventsTopic = topic
	}
}

func NewService(loader DatasetLoader, opts ...ServiceOption) *Service {
	s := &Service{
		loader:  loader,
		entries: gcache.New(1).Simple().Build(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Dataset(ctx context.Context) (*domain.Dataset, error) {
	if ds, ok := s.cached(); ok {
		return ds, nil
	}

	v, err, _ := s.group.Do(datasetKey, func() (interface{}, error) {
		if ds, ok := s.cached(); ok {
			return ds, nil
		}
		gen := s.generation.Load()
		ds, err := s.load(ctx, gen)
		if err != nil {
			return nil, err
		}
		if !s.current(gen) {
			return ds, nil
		}
		if err := s.entries.Set(datasetKey, ds); err != nil {
			log.Printf("dataset: cache set: %v", err)
		}
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Dataset), nil
}

// Refresh starts a new load even when one is in flight. The older load still
// answers its own callers but no longer updates the cache or the snapshot.
func (s *Service) Refresh(ctx context.Context) (*domain.Dataset, error) {
	s.generation.Add(1)
	s.group.Forget(datasetKey)
	s.entries.Remove(datasetKey)
	if s.snapshots != nil {
		if err := s.snapshots.DeleteDataset(ctx); err != nil {
			log.Printf("dataset: drop snapshot: %v", err)
		}
	}
	return s.Dataset(ctx)
}

func (s *Service) cached() (*domain.Dataset, bool) {
	v, err := s.entries.Get(datasetKey)
	if err != nil {
		return nil, false
	}
	ds, ok := v.(*domain.Dataset)
	return ds, ok
}

func (s *Service) current(gen uint64) bool {
	return s.generation.Load() == gen
}

func (s *Service) load(ctx context.Context, gen uint64) (*domain.Dataset, error) {
	if s.snapshots != nil {
		ds, err := s.snapshots.GetDataset(ctx)
		switch {
		case err != nil:
			log.Printf("dataset: read snapshot: %v", err)
		case ds != nil:
			log.Printf("dataset: using snapshot of %d records from %s", ds.Len(), ds.Source)
			return ds, nil
		}
	}

	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.publish(ctx, kafka.DatasetEvent{Type: kafka.EventDatasetUnavailable, Error: err.Error()})
		return nil, err
	}

	if s.snapshots != nil && s.current(gen) {
		if err := s.snapshots.SetDataset(ctx, ds); err != nil {
			log.Printf("dataset: write snapshot: %v", err)
		}
	}
	s.publish(ctx, kafka.DatasetEvent{Type: kafka.EventDatasetLoaded, Source: string(ds.Source), Records: ds.Len()})
	return ds, nil
}

func (s *Service) publish(ctx context.Context, event kafka.DatasetEvent) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event.OccurredAt = time.Now()
	if err := s.producer.Publish(ctx, s.eventsTopic, event.Type, event); err != nil {
		log.Printf("WARNING: failed to publish %s event: %v", event.Type, err)
	}
}

var _ DatasetUseCase = (*Service)(nil)
