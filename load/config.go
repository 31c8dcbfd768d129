package load

import (
	"time"

	"github.com/pkg/errors"
)

const (
	DefaultDBName       = "test"
	DefaultSuperTable   = "meters"
	DefaultTablePrefix  = "d"
	DefaultTables       = 10000
	DefaultRowsPerTable = 10000
	DefaultBatchSize    = 1
	DefaultWorkers      = 8
	DefaultIntervalUnit = time.Second
)

var (
	// ErrInvalidConfig is the cause of every rejected run configuration.
	ErrInvalidConfig = errors.New("invalid run configuration")
	// ErrIncompatibleMode is returned when the flags ask for something the
	// selected protocol cannot do, e.g. skipping table creation for a
	// protocol that derives the tables from the written rows.
	ErrIncompatibleMode = errors.New("incompatible insert mode")
	// ErrDBExists is returned when the database exists and may not be dropped.
	ErrDBExists = errors.New("database exists")
)

// BenchmarkRunnerConfig is the frozen configuration of one run.
type BenchmarkRunnerConfig struct {
	DBName       string `yaml:"db-name" mapstructure:"db-name"`
	SuperTable   string `yaml:"stable" mapstructure:"stable"`
	TablePrefix  string `yaml:"table-prefix" mapstructure:"table-prefix"`
	Tables       uint64 `yaml:"tables" mapstructure:"tables"`
	RowsPerTable uint64 `yaml:"rows" mapstructure:"rows"`
	BatchSize    uint64 `yaml:"batch-size" mapstructure:"batch-size"`
	Workers      uint   `yaml:"workers" mapstructure:"workers"`

	InsertIntervals string        `yaml:"interval" mapstructure:"interval"`
	IntervalUnit    time.Duration `yaml:"interval-unit" mapstructure:"interval-unit"`
	RepeatSleep     bool          `yaml:"repeat-sleep" mapstructure:"repeat-sleep"`
	DebugSleep      bool          `yaml:"debug-sleep" mapstructure:"debug-sleep"`
	RowsPerSecond   float64       `yaml:"rows-per-second" mapstructure:"rows-per-second"`

	SkipCreate     bool `yaml:"no-create" mapstructure:"no-create"`
	NonInteractive bool `yaml:"non-interactive" mapstructure:"non-interactive"`
	DropExisting   bool `yaml:"yes" mapstructure:"yes"`

	Seed           int64 `yaml:"seed" mapstructure:"seed"`
	StartTimestamp int64 `yaml:"-" mapstructure:"-"`
	TimeStep       int64 `yaml:"time-step" mapstructure:"time-step"`
	Chinese        bool  `yaml:"chinese" mapstructure:"chinese"`

	ReportingPeriod time.Duration `yaml:"reporting-period" mapstructure:"reporting-period"`
	ResultsFile     string        `yaml:"results-file" mapstructure:"results-file"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() BenchmarkRunnerConfig {
	return BenchmarkRunnerConfig{
		DBName:          DefaultDBName,
		SuperTable:      DefaultSuperTable,
		TablePrefix:     DefaultTablePrefix,
		Tables:          DefaultTables,
		RowsPerTable:    DefaultRowsPerTable,
		BatchSize:       DefaultBatchSize,
		Workers:         DefaultWorkers,
		IntervalUnit:    DefaultIntervalUnit,
		TimeStep:        1,
		ReportingPeriod: 10 * time.Second,
	}
}

// Validate checks the configuration on its own, without looking at the target.
func (c BenchmarkRunnerConfig) Validate() error {
	switch {
	case c.DBName == "":
		return errors.Wrap(ErrInvalidConfig, "database name is empty")
	case c.SuperTable == "":
		return errors.Wrap(ErrInvalidConfig, "super table name is empty")
	case c.TablePrefix == "":
		return errors.Wrap(ErrInvalidConfig, "table prefix is empty")
	case c.Tables == 0:
		return errors.Wrap(ErrInvalidConfig, "number of tables must be positive")
	case c.BatchSize == 0:
		return errors.Wrap(ErrInvalidConfig, "batch size must be positive")
	case c.Workers == 0:
		return errors.Wrap(ErrInvalidConfig, "number of workers must be positive")
	case c.InsertIntervals != "" && c.IntervalUnit <= 0:
		return errors.Wrapf(ErrInvalidConfig, "interval unit must be positive, got %v", c.IntervalUnit)
	case c.TimeStep < 0:
		return errors.Wrapf(ErrInvalidConfig, "time step can't be negative, got %d", c.TimeStep)
	case c.RowsPerSecond < 0:
		return errors.Wrapf(ErrInvalidConfig, "rows per second can't be negative, got %v", c.RowsPerSecond)
	case c.ReportingPeriod < 0:
		return errors.Wrapf(ErrInvalidConfig, "reporting period can't be negative, got %v", c.ReportingPeriod)
	}
	return nil
}
