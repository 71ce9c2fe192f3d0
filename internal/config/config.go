package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given
const DefaultPath = "stockledger.yml"

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

type Config struct {
	Backend        string `yaml:"backend"`
	InventoryFile  string `yaml:"inventory_file"`
	OrdersFile     string `yaml:"orders_file"`
	DatabasePath   string `yaml:"database_path"`
	MigrationTable string `yaml:"migration_table"`
	UniqueIDs      bool   `yaml:"unique_ids"`  // reject duplicate product/customer ids
	SkipCorrupt    bool   `yaml:"skip_corrupt"` // skip malformed lines on load instead of failing
	LogLevel       string `yaml:"log_level"`
	LogEnv         string `yaml:"log_env"`
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.InventoryFile == "" {
		c.InventoryFile = "inventory.csv"
	}
	if c.OrdersFile == "" {
		c.OrdersFile = "orders.txt"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "stockledger.db"
	}
	if c.MigrationTable == "" {
		c.MigrationTable = "_stockledger_migrations"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.LogEnv == "" {
		c.LogEnv = "dev"
	}
}

func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	// Resolve relative paths against the config file's directory
	base := filepath.Dir(configPath)
	for _, p := range []*string{&cfg.InventoryFile, &cfg.OrdersFile, &cfg.DatabasePath} {
		if !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	return &cfg, nil
}

// Marshal renders the config as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.InventoryFile == "" {
			return fmt.Errorf("inventory_file is required")
		}
		if c.OrdersFile == "" {
			return fmt.Errorf("orders_file is required")
		}
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("database_path is required")
		}
		if c.MigrationTable == "" {
			return fmt.Errorf("migration_table is required")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	return nil
}
