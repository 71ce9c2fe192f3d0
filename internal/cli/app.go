package cli

import (
	"fmt"

	"github.com/pankajredekar/stockledger/internal/catalog"
	"github.com/pankajredekar/stockledger/internal/config"
	"github.com/pankajredekar/stockledger/internal/ledger"
	"github.com/pankajredekar/stockledger/internal/logger"
	"github.com/pankajredekar/stockledger/internal/store"
	"github.com/pankajredekar/stockledger/internal/utils"
	"github.com/pankajredekar/stockledger/internal/workflow"
	"go.uber.org/zap"
)

// app is the loaded state every command works on
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	catalog *catalog.Catalog
	orders  *workflow.Workflow
	store   store.Store
}

// openApp reads the config at path (defaults when the file is absent),
// opens the configured store and loads the saved state
func openApp(path string) (*app, error) {
	cfg := config.Default()
	if utils.FileExists(path) {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger.Init("stockledger", cfg.LogEnv, cfg.LogLevel)
	logger.S().Debugw("config resolved",
		"path", path,
		"backend", cfg.Backend,
		"unique_ids", cfg.UniqueIDs,
		"skip_corrupt", cfg.SkipCorrupt,
	)
	return newApp(cfg, logger.L())
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s, err := store.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
	}

	a := &app{
		cfg: cfg,
		log: log,
		catalog: catalog.New(
			catalog.WithLogger(log),
			catalog.WithUniqueIDs(cfg.UniqueIDs),
			catalog.WithSkipCorrupt(cfg.SkipCorrupt),
		),
		orders: workflow.New(
			ledger.New(ledger.WithUniqueIDs(cfg.UniqueIDs)),
			workflow.WithLogger(log),
			workflow.WithSkipCorrupt(cfg.SkipCorrupt),
		),
		store: s,
	}

	if err := s.Load(a.catalog, a.orders); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load saved state: %w", err)
	}
	return a, nil
}

func (a *app) ledger() *ledger.Ledger {
	return a.orders.Ledger()
}

func (a *app) save() error {
	if err := a.store.Save(a.catalog, a.orders); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close store", zap.Error(err))
	}
	logger.Sync()
}
