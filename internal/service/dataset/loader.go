package dataset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightroutes/internal/domain"
	"github.com/Domenick1991/flightroutes/internal/repository"
)

type LoadState int

const (
	StateTryPrimary LoadState = iota
	StateTrySecondary
	StateUnavailable
	StateLoaded
)

func (s LoadState) String() string {
	switch s {
	case StateTryPrimary:
		return "try_primary"
	case StateTrySecondary:
		return "try_secondary"
	case StateUnavailable:
		return "unavailable"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

func (s LoadState) Terminal() bool {
	return s == StateLoaded || s == StateUnavailable
}

// next is the transition table. Terminal states map to themselves.
func next(state LoadState, err error) LoadState {
	switch state {
	case StateTryPrimary:
		if err != nil {
			return StateTrySecondary
		}
		return StateLoaded
	case StateTrySecondary:
		if err != nil {
			return StateUnavailable
		}
		return StateLoaded
	default:
		return state
	}
}

// Loader tries the primary store, then the fallback file, once each.
type Loader struct {
	primary   repository.RouteRepository
	secondary repository.RouteRepository
	timeout   time.Duration
	now       func() time.Time
}

func NewLoader(primary, secondary repository.RouteRepository, timeout time.Duration) *Loader {
	return &Loader{primary: primary, secondary: secondary, timeout: timeout, now: time.Now}
}

func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	var (
		state = StateTryPrimary
		errs  []error
		ds    *domain.Dataset
	)

	for !state.Terminal() {
		var (
			repo repository.RouteRepository
			err  error
		)
		if state == StateTryPrimary {
			repo = l.primary
		} else {
			repo = l.secondary
		}

		ds, err = l.attempt(ctx, repo)
		if err != nil {
			log.Printf("dataset: %s failed: %v", state, err)
			errs = append(errs, err)
		}
		state = next(state, err)
	}

	if state == StateUnavailable {
		return nil, fmt.Errorf("%w: %w", domain.ErrDataUnavailable, errors.Join(errs...))
	}

	log.Printf("dataset: loaded %d records from %s", ds.Len(), ds.Source)
	return ds, nil
}

func (l *Loader) attempt(ctx context.Context, repo repository.RouteRepository) (*domain.Dataset, error) {
	if repo == nil {
		return nil, errors.New("source not configured")
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	records, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", repo.Source(), err)
	}
	return &domain.Dataset{Records: records, Source: repo.Source(), LoadedAt: l.now()}, nil
}
