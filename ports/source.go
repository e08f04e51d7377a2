package ports

import (
	"context"

	"greenpulse/domain/dataset"
)

// RowSourcePort produces a raw table of observations. Implementations do no
// validation; that is the loader's job.
type RowSourcePort interface {
	Name() string
	ReadTable(ctx context.Context) (*dataset.Table, error)
}

// BoundarySourcePort produces the raw bytes of a GeoJSON FeatureCollection
type BoundarySourcePort interface {
	Name() string
	ReadBoundaries(ctx context.Context) ([]byte, error)
}
