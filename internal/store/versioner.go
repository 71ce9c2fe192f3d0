package store

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MigrationRecord is a row in the migrations table
type MigrationRecord struct {
	Version   string    `gorm:"primaryKey;column:version"`
	Name      string    `gorm:"column:name"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

// Versioner tracks which schema migrations have been applied to a database
type Versioner struct {
	db    *gorm.DB
	table string
}

// NewVersioner creates a new versioner
func NewVersioner(db *gorm.DB, tableName string) *Versioner {
	return &Versioner{
		db:    db,
		table: tableName,
	}
}

// Initialize creates the migration tracking table
func (v *Versioner) Initialize() error {
	if err := v.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			version VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255),
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`, v.table)).Error; err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// GetAppliedVersions returns all applied migration versions in ascending order
func (v *Versioner) GetAppliedVersions() ([]string, error) {
	var records []MigrationRecord
	if err := v.db.Table(v.table).Order("version ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}

	versions := make([]string, len(records))
	for i, r := range records {
		versions[i] = r.Version
	}
	return versions, nil
}

// IsApplied checks if a migration version is already applied
func (v *Versioner) IsApplied(version string) (bool, error) {
	var count int64
	if err := v.db.Table(v.table).Where("version = ?", version).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// RecordApplied records a migration as applied
func (v *Versioner) RecordApplied(tx *gorm.DB, version, name string) error {
	record := MigrationRecord{
		Version:   version,
		Name:      name,
		AppliedAt: time.Now(),
	}
	if err := tx.Table(v.table).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// GetLatestVersion returns the latest applied migration version, or "" when none
func (v *Versioner) GetLatestVersion() (string, error) {
	var records []MigrationRecord
	if err := v.db.Table(v.table).Order("version DESC").Limit(1).Find(&records).Error; err != nil {
		return "", fmt.Errorf("failed to get latest version: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}
	return records[0].Version, nil
}
