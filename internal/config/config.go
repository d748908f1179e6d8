// Package config holds the runtime configuration for aihaudit commands,
// merged from flags and an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gyeh/aihaudit/internal/dataset"
	"github.com/gyeh/aihaudit/internal/model"
)

// Config holds all runtime configuration for an aihaudit run.
type Config struct {
	DSN           string
	ClaimsFile    string
	SuppliersFile string
	OutDir        string
	Format        string // "csv" or "parquet" for the view exports
	BOM           bool
	Reports       bool
	Force         bool
	LogFormat     string // "text" or "json"

	YearMin    int
	YearMax    int
	Physician  string
	Procedure  string
	FacilityID string

	Alerts []string `yaml:"alerts"` // subset of the alert catalog to run
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Alerts []string `yaml:"alerts"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.Alerts = yc.Alerts
	return c.validateAlerts()
}

// validateAlerts checks that every entry in Alerts is a known alert key.
// An empty list defaults to the full catalog.
func (c *Config) validateAlerts() error {
	if len(c.Alerts) == 0 {
		c.Alerts = model.AlertKeys()
		return nil
	}
	for _, key := range c.Alerts {
		if _, ok := model.AlertKindByKey(key); !ok {
			return fmt.Errorf("unknown alert %q in config", key)
		}
	}
	return nil
}

// FilterSpec translates the year, physician, procedure and facility
// restrictions into a dataset filter.
func (c *Config) FilterSpec() dataset.FilterSpec {
	return dataset.FilterSpec{
		YearMin:    c.YearMin,
		YearMax:    c.YearMax,
		Physician:  c.Physician,
		Procedure:  c.Procedure,
		FacilityID: c.FacilityID,
	}
}

// Validate checks required fields and returns an error if the config is
// invalid.
func (c *Config) Validate() error {
	if c.ClaimsFile == "" {
		return fmt.Errorf("--claims is required")
	}
	if _, err := os.Stat(c.ClaimsFile); err != nil {
		return fmt.Errorf("claims file not accessible: %w", err)
	}
	if c.Format != "" && c.Format != "csv" && c.Format != "parquet" {
		return fmt.Errorf("--format must be csv or parquet, got %q", c.Format)
	}
	if c.YearMin != 0 && c.YearMax != 0 && c.YearMin > c.YearMax {
		return fmt.Errorf("--year-min %d is after --year-max %d", c.YearMin, c.YearMax)
	}
	return c.validateAlerts()
}

// ValidateWithSuppliers additionally requires a readable supplier registry.
func (c *Config) ValidateWithSuppliers() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SuppliersFile == "" {
		return nil
	}
	if _, err := os.Stat(c.SuppliersFile); err != nil {
		return fmt.Errorf("suppliers file not accessible: %w", err)
	}
	return nil
}

// ValidateWithDSN checks both the input files and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.ValidateWithSuppliers(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or AIHAUDIT_DB_URL is required")
	}
	return nil
}
