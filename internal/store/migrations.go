package store

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// Migration is one versioned step of the SQLite schema
type Migration interface {
	Version() string
	Name() string
	Up(tx *gorm.DB) error
}

// Registry holds all registered migrations
type Registry struct {
	migrations map[string]Migration
}

// NewRegistry creates a new migration registry
func NewRegistry() *Registry {
	return &Registry{
		migrations: make(map[string]Migration),
	}
}

// RegisterMigration registers a migration
func (r *Registry) RegisterMigration(m Migration) {
	r.migrations[m.Version()] = m
}

// GetMigration returns a migration by version
func (r *Registry) GetMigration(version string) (Migration, bool) {
	m, ok := r.migrations[version]
	return m, ok
}

// GetAllMigrations returns all migrations sorted by version
func (r *Registry) GetAllMigrations() []Migration {
	var migrations []Migration
	for _, m := range r.migrations {
		migrations = append(migrations, m)
	}
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version() < migrations[j].Version()
	})
	return migrations
}

// Runner applies registered migrations that the versioner has not seen
type Runner struct {
	db        *gorm.DB
	registry  *Registry
	versioner *Versioner
}

// NewRunner creates a new migration runner
func NewRunner(db *gorm.DB, registry *Registry, versioner *Versioner) *Runner {
	return &Runner{
		db:        db,
		registry:  registry,
		versioner: versioner,
	}
}

// GetPendingMigrations returns migrations that haven't been applied
func (r *Runner) GetPendingMigrations() ([]Migration, error) {
	applied, err := r.versioner.GetAppliedVersions()
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	appliedMap := make(map[string]bool)
	for _, v := range applied {
		appliedMap[v] = true
	}

	var pending []Migration
	for _, m := range r.registry.GetAllMigrations() {
		if !appliedMap[m.Version()] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Migrate applies all pending migrations in version order. Each migration
// and its version record commit together.
func (r *Runner) Migrate() (int, error) {
	pending, err := r.GetPendingMigrations()
	if err != nil {
		return 0, err
	}

	for i, m := range pending {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return r.versioner.RecordApplied(tx, m.Version(), m.Name())
		})
		if err != nil {
			return i, fmt.Errorf("failed to apply migration %s: %w", m.Version(), err)
		}
	}
	return len(pending), nil
}

// MigrationStatus is one registered migration and whether it has run
type MigrationStatus struct {
	Version string
	Name    string
	Applied bool
}

// SchemaStatus describes where a database's schema stands
type SchemaStatus struct {
	// Version is the latest applied migration, "" when none has run
	Version     string
	VersionName string
	Migrations  []MigrationStatus
}

// Pending returns the migrations that have not been applied
func (s *SchemaStatus) Pending() []MigrationStatus {
	var pending []MigrationStatus
	for _, m := range s.Migrations {
		if !m.Applied {
			pending = append(pending, m)
		}
	}
	return pending
}

// Status reports the latest applied version and the state of every
// registered migration
func (r *Runner) Status() (*SchemaStatus, error) {
	latest, err := r.versioner.GetLatestVersion()
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{Version: latest}
	if m, ok := r.registry.GetMigration(latest); ok {
		status.VersionName = m.Name()
	}

	for _, m := range r.registry.GetAllMigrations() {
		applied, err := r.versioner.IsApplied(m.Version())
		if err != nil {
			return nil, err
		}
		status.Migrations = append(status.Migrations, MigrationStatus{
			Version: m.Version(),
			Name:    m.Name(),
			Applied: applied,
		})
	}
	return status, nil
}

// autoMigration creates or alters tables for the given row models
type autoMigration struct {
	version string
	name    string
	models  []interface{}
}

func (m autoMigration) Version() string { return m.version }
func (m autoMigration) Name() string    { return m.name }
func (m autoMigration) Up(tx *gorm.DB) error {
	return tx.AutoMigrate(m.models...)
}

// schemaMigrations is the SQLite backend schema history
func schemaMigrations() *Registry {
	reg := NewRegistry()
	reg.RegisterMigration(autoMigration{version: "0001", name: "create_products", models: []interface{}{&productRow{}}})
	reg.RegisterMigration(autoMigration{version: "0002", name: "create_customers", models: []interface{}{&customerRow{}}})
	reg.RegisterMigration(autoMigration{version: "0003", name: "create_orders", models: []interface{}{&orderRow{}}})
	return reg
}
