package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"greenpulse/adapters/excel"
	"greenpulse/adapters/geo"
	"greenpulse/adapters/postgres"
	"greenpulse/domain/core"
	"greenpulse/internal"
	"greenpulse/internal/aggregate"
	"greenpulse/internal/config"
	"greenpulse/internal/dashboard"
	"greenpulse/internal/errors"
	"greenpulse/internal/loader"
	"greenpulse/internal/migration"
	"greenpulse/ports"
)

// DashboardService wires the configured sources to a loader and a dashboard
type DashboardService struct {
	config *config.Config
	logger *internal.Logger
	db     *sqlx.DB
	loader *loader.Loader
	dash   *dashboard.Dashboard
}

// NewDashboardService builds the sources named by cfg. Nothing is read yet; call
// Start to perform the first load.
func NewDashboardService(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*DashboardService, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &DashboardService{config: cfg, logger: logger}

	observations, err := s.observationSource(ctx)
	if err != nil {
		return nil, err
	}

	categories := cfg.Data.CategorySet()
	l := loader.NewLoader(observations, categories).
		WithStrict(cfg.Data.StrictIngest).
		WithLogger(logger)
	if cfg.Data.CountryFile != "" {
		l = l.WithCountries(excel.NewDataReader(cfg.Data.CountryFile))
	}
	if cfg.Data.GeoFile != "" {
		l = l.WithBoundaries(geo.NewFileSource(cfg.Data.GeoFile))
	}
	s.loader = l

	engine := aggregate.NewEngine(categories, cfg.Data.BaselineStart, cfg.Data.BaselineEnd)
	s.dash = dashboard.New(engine)
	return s, nil
}

func (s *DashboardService) observationSource(ctx context.Context) (ports.RowSourcePort, error) {
	if !s.config.UsesDatabase() {
		return excel.NewDataReader(s.config.Data.DataFile), nil
	}
	db, err := s.database(ctx)
	if err != nil {
		return nil, err
	}
	return postgres.NewRowSource(db, s.config.Database.Table), nil
}

func (s *DashboardService) database(ctx context.Context) (*sqlx.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if s.config.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	db, err := postgres.Connect(ctx, s.config.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	s.db = db
	return db, nil
}

// Dashboard returns the service's dashboard
func (s *DashboardService) Dashboard() *dashboard.Dashboard {
	return s.dash
}

// Reload reads every source again without touching the dashboard
func (s *DashboardService) Reload(ctx context.Context) (*loader.Bundle, error) {
	return s.loader.Load(ctx)
}

// Start performs the first load into the dashboard
func (s *DashboardService) Start(ctx context.Context) (*loader.Bundle, error) {
	bundle, err := s.Reload(ctx)
	if err != nil {
		return nil, err
	}
	id := s.dash.Load(bundle)
	s.logger.Info("[DashboardService] load %s: %d records, %d dropped, fingerprint %s",
		id, len(bundle.Records), bundle.Report.Dropped(), s.dash.Views().Fingerprint.Short())
	return bundle, nil
}

// Close releases the database connection, if any
func (s *DashboardService) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Import normalizes the DATA_FILE observations and replaces the contents of the
// configured Postgres table with them. It returns the number of records written.
func Import(ctx context.Context, cfg *config.Config, logger *internal.Logger) (int, error) {
	if cfg.Data.DataFile == "" {
		return 0, errors.ConfigInvalid("DATA_FILE is required for import")
	}
	if cfg.Database.URL == "" {
		return 0, errors.ConfigInvalid("DATABASE_URL is required for import")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	bundle, err := loader.NewLoader(excel.NewDataReader(cfg.Data.DataFile), cfg.Data.CategorySet()).
		WithStrict(cfg.Data.StrictIngest).
		WithLogger(logger).
		Load(ctx)
	if err != nil {
		return 0, err
	}

	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return 0, errors.Wrap(err, "failed to connect to database")
	}
	defer db.Close()

	if err := migration.NewRunner(cfg.Database.Table).Run(ctx, db); err != nil {
		return 0, errors.Wrap(err, "database migration failed")
	}

	store := postgres.NewRecordStore(db, cfg.Database.Table)
	if err := store.ReplaceAll(ctx, bundle.Records); err != nil {
		return 0, errors.Wrapf(err, "failed to import into %s", cfg.Database.Table)
	}
	err = store.RecordLoad(ctx, postgres.LoadEntry{
		LoadID:      core.NewLoadID(),
		Source:      bundle.Report.Source,
		RowsRead:    bundle.Report.RowsRead,
		RowsKept:    bundle.Report.RowsKept,
		Fingerprint: aggregate.Fingerprint(bundle.Records),
		LoadedAt:    bundle.LoadedAt,
	})
	if err != nil {
		return 0, err
	}
	logger.Info("[Import] wrote %d records to %s (%d rows dropped)", len(bundle.Records), cfg.Database.Table, bundle.Report.Dropped())
	return len(bundle.Records), nil
}
