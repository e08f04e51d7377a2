package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	ErrMissingColumn   = errors.New("required column missing")
	ErrRowsDropped     = errors.New("input rows dropped during normalization")
	ErrEmptyCategories = errors.New("category set is empty")
	ErrInvalidWindow   = errors.New("baseline window start after end")
	ErrNotGeoJSON      = errors.New("not a GeoJSON FeatureCollection")
)

// NewMissingColumnError reports the logical fields that could not be mapped to a header
func NewMissingColumnError(columns ...string) error {
	return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(columns, ", "))
}

// NewRowsDroppedError reports a strict-mode ingestion failure
func NewRowsDroppedError(dropped, total int) error {
	return fmt.Errorf("%w: %d of %d rows", ErrRowsDropped, dropped, total)
}
