package domain

import "errors"

var (
	// ErrDataUnavailable means neither the primary store nor the fallback file produced a dataset.
	ErrDataUnavailable = errors.New("no data source available")
	// ErrNoData is returned by aggregations that have no answer for an empty input.
	ErrNoData           = errors.New("no data for the current selection")
	ErrInvalidSelection = errors.New("invalid selection")
)
