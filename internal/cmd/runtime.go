package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/cobalt/internal/catalog"
	"github.com/Iron-Ham/cobalt/internal/catalog/sqlstore"
	"github.com/Iron-Ham/cobalt/internal/config"
	"github.com/Iron-Ham/cobalt/internal/logging"
	"github.com/Iron-Ham/cobalt/internal/model"
	"github.com/Iron-Ham/cobalt/internal/planner"
)

// loadConfig reads and validates the merged configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewRotatingLogger(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
}

// openCatalog loads the configured catalogue from the SQL store when a driver
// is set, otherwise from catalog.path, and applies the widget filter.
func openCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	if cfg.Store.Driver != "" {
		c, err = loadStore(ctx, cfg)
	} else {
		c, err = catalog.Load(cfg.Catalog.Path)
	}
	if err != nil {
		return nil, err
	}
	return filterCatalog(c, cfg)
}

func loadStore(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	store, err := sqlstore.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return store.LoadCatalog(ctx)
}

func filterCatalog(c *catalog.Catalog, cfg *config.Config) (*catalog.Catalog, error) {
	if len(cfg.Catalog.Widgets) == 0 {
		return c, nil
	}
	return c.Filter(cfg.Catalog.Widgets...)
}

// compositionStrategy builds the default strategy from the planner section.
func compositionStrategy(cfg *config.Config) (planner.CompositionStrategy, error) {
	precursors, err := planner.ParsePrecursorStrategy(cfg.Planner.Strategy)
	if err != nil {
		return planner.CompositionStrategy{}, err
	}
	return planner.CompositionStrategy{
		Precursors:             precursors,
		ComposeFunctionalities: cfg.Planner.ComposeFunctionalities,
		ComposeProperties:      cfg.Planner.ComposeProperties,
	}, nil
}

// problemFlags are the goal and depth flags shared by plan and browse.
type problemFlags struct {
	functionalities []string
	tasks           []string
	minDepth        int
	maxDepth        int
	strategy        string
}

func (f *problemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.functionalities, "functionality", "f", nil, "requested functionality id (repeatable)")
	cmd.Flags().StringSliceVarP(&f.tasks, "task", "t", nil, "requested task id (repeatable)")
	cmd.Flags().IntVar(&f.minDepth, "min-depth", 0, "smallest plan depth (default planner.min_depth)")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "largest plan depth (default planner.max_depth, 0 = unbounded)")
	cmd.Flags().StringVar(&f.strategy, "strategy", "", "precursor composition strategy (default planner.strategy)")
}

// problem combines the flags with the planner defaults of cfg.
func (f *problemFlags) problem(cfg *config.Config) (planner.Problem, error) {
	var fs []model.Functionality
	for _, id := range f.functionalities {
		fs = append(fs, model.NewFunctionality(id))
	}
	var ts []model.Task
	for _, id := range f.tasks {
		ts = append(ts, model.NewTask(id))
	}
	m, err := model.NewMashup(fs, ts)
	if err != nil {
		return planner.Problem{}, err
	}

	p := planner.NewProblem(m)
	p.MinDepth = cfg.Planner.MinDepth
	if f.minDepth > 0 {
		p.MinDepth = f.minDepth
	}
	if cfg.Planner.MaxDepth > 0 {
		p.MaxDepth = cfg.Planner.MaxDepth
	}
	if f.maxDepth > 0 {
		p.MaxDepth = f.maxDepth
	}
	if err := p.Validate(); err != nil {
		return planner.Problem{}, err
	}
	return p, nil
}

// compositionStrategy is the configured strategy with the --strategy override.
func (f *problemFlags) compositionStrategy(cfg *config.Config) (planner.CompositionStrategy, error) {
	s, err := compositionStrategy(cfg)
	if err != nil {
		return s, err
	}
	if f.strategy != "" {
		if s.Precursors, err = planner.ParsePrecursorStrategy(f.strategy); err != nil {
			return s, err
		}
	}
	return s, nil
}

// goal names the requested functionalities and tasks for headings.
func (f *problemFlags) goal() string {
	return strings.Join(append(append([]string{}, f.functionalities...), f.tasks...), ", ")
}
