package store

import (
	"fmt"

	"github.com/pankajredekar/stockledger/internal/catalog"
	"github.com/pankajredekar/stockledger/internal/config"
	"github.com/pankajredekar/stockledger/internal/workflow"
	"go.uber.org/zap"
)

// Store persists the catalog and the order ledger between runs
type Store interface {
	// Load fills cat and the workflow's ledger from the backing storage
	Load(cat *catalog.Catalog, wf *workflow.Workflow) error
	// Save replaces the backing storage with the current state
	Save(cat *catalog.Catalog, wf *workflow.Workflow) error
	Close() error
}

// Open returns the backend selected by cfg.Backend
func Open(cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.InventoryFile, cfg.OrdersFile, log), nil
	case config.BackendSQLite:
		s, err := OpenSQLite(cfg.DatabasePath, cfg.MigrationTable, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
}

// FileStore keeps the catalog in a CSV inventory file and orders in a
// separate orders file. Customers without orders are not written.
type FileStore struct {
	inventoryPath string
	ordersPath    string
	logger        *zap.Logger
}

// NewFileStore creates a file backed store
func NewFileStore(inventoryPath, ordersPath string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{
		inventoryPath: inventoryPath,
		ordersPath:    ordersPath,
		logger:        log,
	}
}

// Load reads the inventory file then the orders file
func (s *FileStore) Load(cat *catalog.Catalog, wf *workflow.Workflow) error {
	if err := cat.Load(s.inventoryPath); err != nil {
		return err
	}
	if err := wf.LoadOrders(s.ordersPath); err != nil {
		return err
	}
	s.logger.Info("state loaded",
		zap.String("backend", config.BackendFile),
		zap.Int("products", cat.Len()),
		zap.Int("orders", wf.Ledger().OrderCount()),
	)
	return nil
}

// Save writes the inventory file then the orders file. Each file is
// replaced atomically; the pair is not.
func (s *FileStore) Save(cat *catalog.Catalog, wf *workflow.Workflow) error {
	if err := cat.Save(s.inventoryPath); err != nil {
		return err
	}
	if err := wf.SaveOrders(s.ordersPath); err != nil {
		return err
	}
	s.logger.Info("state saved", zap.String("backend", config.BackendFile))
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}
