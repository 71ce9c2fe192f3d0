package store

import (
	"fmt"
	"time"

	"github.com/pankajredekar/stockledger/internal/catalog"
	"github.com/pankajredekar/stockledger/internal/config"
	"github.com/pankajredekar/stockledger/internal/ledger"
	"github.com/pankajredekar/stockledger/internal/workflow"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// productRow is a catalog entry. Position keeps insertion order and lets
// duplicate product ids coexist.
type productRow struct {
	Position  int    `gorm:"primaryKey;autoIncrement:false;column:position"`
	ProductID string `gorm:"column:product_id;index"`
	Name      string `gorm:"column:name"`
	Quantity  int    `gorm:"column:quantity"`
	Price     string `gorm:"column:price"`
}

func (productRow) TableName() string { return "products" }

type customerRow struct {
	Position   int    `gorm:"primaryKey;autoIncrement:false;column:position"`
	CustomerID string `gorm:"column:customer_id;index"`
	Name       string `gorm:"column:name"`
}

func (customerRow) TableName() string { return "customers" }

// orderRow belongs to the customer at CustomerPosition; Sequence is the
// order's index in that customer's history.
type orderRow struct {
	CustomerPosition int       `gorm:"primaryKey;autoIncrement:false;column:customer_position"`
	Sequence         int       `gorm:"primaryKey;autoIncrement:false;column:sequence"`
	OrderID          int       `gorm:"column:order_id;index"`
	ProductName      string    `gorm:"column:product_name"`
	Quantity         int       `gorm:"column:quantity"`
	TotalPrice       string    `gorm:"column:total_price"`
	PlacedAt         time.Time `gorm:"column:placed_at"`
}

func (orderRow) TableName() string { return "orders" }

// SQLiteStore keeps the whole state in a local SQLite database
type SQLiteStore struct {
	db     *gorm.DB
	runner *Runner
	logger *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path and brings its
// schema up to date
func OpenSQLite(path, migrationTable string, log *zap.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	s, err := NewSQLiteStore(db, migrationTable, log)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}

// NewSQLiteStore wraps an open connection and applies pending migrations
func NewSQLiteStore(db *gorm.DB, migrationTable string, log *zap.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ver := NewVersioner(db, migrationTable)
	if err := ver.Initialize(); err != nil {
		return nil, err
	}

	run := NewRunner(db, schemaMigrations(), ver)
	applied, err := run.Migrate()
	if err != nil {
		return nil, err
	}
	if applied > 0 {
		log.Info("database schema migrated", zap.Int("applied", applied))
	}

	return &SQLiteStore{db: db, runner: run, logger: log}, nil
}

// SchemaStatus reports which schema migrations the database has applied
func (s *SQLiteStore) SchemaStatus() (*SchemaStatus, error) {
	return s.runner.Status()
}

// Load reads products, customers and their orders
func (s *SQLiteStore) Load(cat *catalog.Catalog, wf *workflow.Workflow) error {
	var products []productRow
	if err := s.db.Order("position ASC").Find(&products).Error; err != nil {
		return fmt.Errorf("failed to query products: %w", err)
	}
	var customers []customerRow
	if err := s.db.Order("position ASC").Find(&customers).Error; err != nil {
		return fmt.Errorf("failed to query customers: %w", err)
	}
	var orders []orderRow
	if err := s.db.Order("customer_position ASC, sequence ASC").Find(&orders).Error; err != nil {
		return fmt.Errorf("failed to query orders: %w", err)
	}

	loaded := make([]catalog.Product, 0, len(products))
	for _, row := range products {
		price, err := decimal.NewFromString(row.Price)
		if err != nil {
			return fmt.Errorf("product at position %d: invalid price %q: %w", row.Position, row.Price, err)
		}
		loaded = append(loaded, catalog.Product{
			ID:       row.ProductID,
			Name:     row.Name,
			Quantity: row.Quantity,
			Price:    price,
		})
	}

	roster := make([]*ledger.Customer, 0, len(customers))
	byPosition := make(map[int]*ledger.Customer, len(customers))
	for _, row := range customers {
		c := ledger.NewCustomer(row.CustomerID, row.Name)
		roster = append(roster, c)
		byPosition[row.Position] = c
	}
	for _, row := range orders {
		owner, ok := byPosition[row.CustomerPosition]
		if !ok {
			return fmt.Errorf("order %d references missing customer position %d", row.OrderID, row.CustomerPosition)
		}
		total, err := decimal.NewFromString(row.TotalPrice)
		if err != nil {
			return fmt.Errorf("order %d: invalid total %q: %w", row.OrderID, row.TotalPrice, err)
		}
		owner.AddOrder(ledger.Order{
			ID:          row.OrderID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			TotalPrice:  total,
			PlacedAt:    row.PlacedAt.Local(),
		})
	}

	l := wf.Ledger()
	if err := l.Replace(roster); err != nil {
		return err
	}
	cat.Replace(loaded)
	wf.Sync()

	s.logger.Info("state loaded",
		zap.String("backend", config.BackendSQLite),
		zap.Int("products", cat.Len()),
		zap.Int("customers", l.Len()),
		zap.Int("orders", len(orders)),
	)
	return nil
}

// Save replaces every table's contents in a single transaction
func (s *SQLiteStore) Save(cat *catalog.Catalog, wf *workflow.Workflow) error {
	products := make([]productRow, 0, cat.Len())
	for i, p := range cat.List() {
		products = append(products, productRow{
			Position:  i,
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Price:     p.Price.String(),
		})
	}

	var customers []customerRow
	var orders []orderRow
	for i, c := range wf.Ledger().List() {
		customers = append(customers, customerRow{Position: i, CustomerID: c.ID, Name: c.Name})
		for seq, o := range c.Orders {
			orders = append(orders, orderRow{
				OrderID:          o.ID,
				CustomerPosition: i,
				Sequence:         seq,
				ProductName:      o.ProductName,
				Quantity:         o.Quantity,
				TotalPrice:       o.TotalPrice.String(),
				PlacedAt:         o.PlacedAt,
			})
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&orderRow{}, &customerRow{}, &productRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		if len(products) > 0 {
			if err := tx.CreateInBatches(products, 100).Error; err != nil {
				return err
			}
		}
		if len(customers) > 0 {
			if err := tx.CreateInBatches(customers, 100).Error; err != nil {
				return err
			}
		}
		if len(orders) > 0 {
			if err := tx.CreateInBatches(orders, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	s.logger.Info("state saved",
		zap.String("backend", config.BackendSQLite),
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers)),
		zap.Int("orders", len(orders)),
	)
	return nil
}

// Close releases the underlying connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
