package loader

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"greenpulse/adapters/geo"
	"greenpulse/domain/core"
	"greenpulse/domain/dataset"
	domaingeo "greenpulse/domain/geo"
	"greenpulse/domain/series"
	"greenpulse/internal"
	"greenpulse/internal/errors"
	"greenpulse/ports"
)

// Bundle is everything one load produces
type Bundle struct {
	Records   []series.Record
	Report    Report
	Countries []domaingeo.CountryAssignment
	Features  []domaingeo.Feature
	LoadedAt  time.Time
}

// Loader reads the observation source and the optional join sources concurrently
type Loader struct {
	observations ports.RowSourcePort
	countries    ports.RowSourcePort
	boundaries   ports.BoundarySourcePort
	normalizer   *Normalizer
	categories   series.CategorySet
	strict       bool
	logger       *internal.Logger
}

// NewLoader creates a loader for the observation source
func NewLoader(observations ports.RowSourcePort, categories series.CategorySet) *Loader {
	return &Loader{
		observations: observations,
		normalizer:   NewNormalizer(categories),
		categories:   categories,
		logger:       internal.DefaultLogger,
	}
}

// WithCountries adds a country → category table
func (l *Loader) WithCountries(src ports.RowSourcePort) *Loader {
	l.countries = src
	return l
}

// WithBoundaries adds a GeoJSON boundary collection
func (l *Loader) WithBoundaries(src ports.BoundarySourcePort) *Loader {
	l.boundaries = src
	return l
}

// WithStrict makes any dropped observation row fail the load
func (l *Loader) WithStrict(strict bool) *Loader {
	l.strict = strict
	return l
}

// WithLogger replaces the default logger
func (l *Loader) WithLogger(logger *internal.Logger) *Loader {
	l.logger = logger
	return l
}

// Load reads every configured source. Source failures are errors; invalid rows are
// not, unless strict mode is on.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	if l.categories.Len() == 0 {
		return nil, errors.ValidationError("cannot load without categories", core.ErrEmptyCategories)
	}

	var (
		obsTable     *dataset.Table
		countryTable *dataset.Table
		geoBytes     []byte
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := l.observations.ReadTable(gctx)
		if err != nil {
			return errors.Wrapf(err, "failed to read observations from %s", l.observations.Name())
		}
		obsTable = t
		return nil
	})
	if l.countries != nil {
		g.Go(func() error {
			t, err := l.countries.ReadTable(gctx)
			if err != nil {
				return errors.Wrapf(err, "failed to read countries from %s", l.countries.Name())
			}
			countryTable = t
			return nil
		})
	}
	if l.boundaries != nil {
		g.Go(func() error {
			b, err := l.boundaries.ReadBoundaries(gctx)
			if err != nil {
				return errors.Wrapf(err, "failed to read boundaries from %s", l.boundaries.Name())
			}
			geoBytes = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records, report := l.normalizer.Normalize(obsTable)
	l.logger.Info("[Loader] %s: kept %d of %d rows", report.Source, report.RowsKept, report.RowsRead)
	if len(report.MissingColumns) > 0 {
		l.logger.Warn("[Loader] %s: missing columns %v", report.Source, report.MissingColumns)
	}
	for _, reason := range report.Reasons() {
		l.logger.Debug("[Loader] dropped %d rows: %s", report.DroppedBy[reason], reason)
	}
	if l.strict && len(report.MissingColumns) > 0 {
		return nil, errors.ValidationError("strict ingestion rejected "+report.Source,
			core.NewMissingColumnError(report.MissingColumns...))
	}
	if l.strict && report.Dropped() > 0 {
		return nil, errors.ValidationError("strict ingestion rejected "+report.Source,
			core.NewRowsDroppedError(report.Dropped(), report.RowsRead))
	}

	bundle := &Bundle{
		Records:  records,
		Report:   report,
		LoadedAt: time.Now(),
	}
	if countryTable != nil {
		bundle.Countries = ParseCountries(countryTable, l.categories)
		l.logger.Info("[Loader] %d country assignments", len(bundle.Countries))
	}
	if geoBytes != nil {
		features, err := geo.ParseFeatures(geoBytes)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse boundaries from %s", l.boundaries.Name())
		}
		bundle.Features = features
		l.logger.Info("[Loader] %d boundary features", len(features))
	}
	return bundle, nil
}
