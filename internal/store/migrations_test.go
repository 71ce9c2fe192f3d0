package store

import (
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestMigration implements the Migration interface
type TestMigration struct {
	version string
	name    string
	upFunc  func(*gorm.DB) error
}

func (m TestMigration) Version() string { return m.version }
func (m TestMigration) Name() string    { return m.name }
func (m TestMigration) Up(db *gorm.DB) error {
	if m.upFunc != nil {
		return m.upFunc(db)
	}
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestGetAllMigrations(t *testing.T) {
	registry := NewRegistry()
	for _, m := range []Migration{
		TestMigration{version: "0003", name: "third"},
		TestMigration{version: "0001", name: "first"},
		TestMigration{version: "0002", name: "second"},
	} {
		registry.RegisterMigration(m)
	}

	all := registry.GetAllMigrations()
	if len(all) != 3 {
		t.Fatalf("Expected 3 migrations, got %d", len(all))
	}
	if all[0].Version() != "0001" || all[2].Version() != "0003" {
		t.Errorf("Migrations not sorted: %s..%s", all[0].Version(), all[2].Version())
	}

	if _, ok := registry.GetMigration("0002"); !ok {
		t.Error("Migration 0002 should be registered")
	}
}

func TestMigrate(t *testing.T) {
	db := setupTestDB(t)
	ver := NewVersioner(db, "_test_migrations")
	if err := ver.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	registry := NewRegistry()
	registry.RegisterMigration(TestMigration{
		version: "0001",
		name:    "create_test_table",
		upFunc: func(db *gorm.DB) error {
			return db.Exec("CREATE TABLE test_table (id INTEGER)").Error
		},
	})

	run := NewRunner(db, registry, ver)
	applied, err := run.Migrate()
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("Expected 1 applied migration, got %d", applied)
	}

	if !db.Migrator().HasTable("test_table") {
		t.Error("test_table should exist")
	}

	// Second run is a no-op
	applied, err = run.Migrate()
	if err != nil {
		t.Fatalf("Second Migrate failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("Expected 0 applied migrations on rerun, got %d", applied)
	}
}

func TestMigrate_FailureIsNotRecorded(t *testing.T) {
	db := setupTestDB(t)
	ver := NewVersioner(db, "_test_migrations")
	if err := ver.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	boom := errors.New("boom")
	registry := NewRegistry()
	registry.RegisterMigration(TestMigration{version: "0001", name: "ok"})
	registry.RegisterMigration(TestMigration{
		version: "0002",
		name:    "broken",
		upFunc:  func(*gorm.DB) error { return boom },
	})

	applied, err := NewRunner(db, registry, ver).Migrate()
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if applied != 1 {
		t.Errorf("Expected 1 migration applied before failure, got %d", applied)
	}

	isApplied, err := ver.IsApplied("0002")
	if err != nil {
		t.Fatalf("IsApplied failed: %v", err)
	}
	if isApplied {
		t.Error("Failed migration must not be recorded")
	}

	latest, err := ver.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != "0001" {
		t.Errorf("Expected latest version '0001', got '%s'", latest)
	}
}

func TestSchemaMigrations(t *testing.T) {
	db := setupTestDB(t)
	if _, err := NewSQLiteStore(db, "_stockledger_migrations", nil); err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	for _, table := range []string{"products", "customers", "orders"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Table %s should exist", table)
		}
	}

	ver := NewVersioner(db, "_stockledger_migrations")
	versions, err := ver.GetAppliedVersions()
	if err != nil {
		t.Fatalf("GetAppliedVersions failed: %v", err)
	}
	expected := []string{"0001", "0002", "0003"}
	if len(versions) != len(expected) {
		t.Fatalf("Expected %d versions, got %v", len(expected), versions)
	}
	for i, v := range versions {
		if v != expected[i] {
			t.Errorf("Expected version '%s' at index %d, got '%s'", expected[i], i, v)
		}
	}

	// Reopening applies nothing new
	if _, err := NewSQLiteStore(db, "_stockledger_migrations", nil); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
}

func TestRunnerStatus(t *testing.T) {
	db := setupTestDB(t)
	ver := NewVersioner(db, "_test_migrations")
	if err := ver.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	registry := NewRegistry()
	registry.RegisterMigration(TestMigration{version: "0001", name: "first"})
	run := NewRunner(db, registry, ver)

	status, err := run.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Version != "" {
		t.Errorf("Expected no version before migrating, got '%s'", status.Version)
	}
	if len(status.Pending()) != 1 {
		t.Errorf("Expected 1 pending migration, got %d", len(status.Pending()))
	}

	if _, err := run.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	registry.RegisterMigration(TestMigration{version: "0002", name: "second"})

	status, err = run.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Version != "0001" || status.VersionName != "first" {
		t.Errorf("Expected latest 0001 (first), got %s (%s)", status.Version, status.VersionName)
	}
	if len(status.Migrations) != 2 || !status.Migrations[0].Applied || status.Migrations[1].Applied {
		t.Errorf("Unexpected migration states: %+v", status.Migrations)
	}
	pending := status.Pending()
	if len(pending) != 1 || pending[0].Version != "0002" {
		t.Errorf("Expected 0002 pending, got %+v", pending)
	}
}

func TestSQLiteStoreSchemaStatus(t *testing.T) {
	db := setupTestDB(t)
	s, err := NewSQLiteStore(db, "_stockledger_migrations", nil)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}

	status, err := s.SchemaStatus()
	if err != nil {
		t.Fatalf("SchemaStatus failed: %v", err)
	}
	if status.Version != "0003" || status.VersionName != "create_orders" {
		t.Errorf("Expected 0003 (create_orders), got %s (%s)", status.Version, status.VersionName)
	}
	if len(status.Pending()) != 0 {
		t.Errorf("Expected nothing pending, got %+v", status.Pending())
	}
}

