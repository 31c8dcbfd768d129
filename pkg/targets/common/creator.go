package common

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
)

// OpenExecutorFn opens the connection used by a Creator.
type OpenExecutorFn func() (Executor, error)

// Creator implements targets.TableCreator on top of an Executor, so every
// protocol that can run SQL shares the same DDL.
type Creator struct {
	conf targets.Config
	sql  SQLBuilder
	open OpenExecutorFn
	exec Executor
}

// NewCreator returns a Creator connecting through open on Init.
func NewCreator(conf targets.Config, open OpenExecutorFn) *Creator {
	return &Creator{
		conf: conf,
		sql:  SQLBuilder{Escape: conf.Escape},
		open: open,
	}
}

func (c *Creator) Init() error {
	exec, err := c.open()
	if err != nil {
		return err
	}
	c.exec = exec
	return nil
}

func (c *Creator) DBExists(dbName string) (bool, error) {
	names, err := c.exec.QueryColumn(context.Background(), c.sql.DatabaseExists(dbName))
	if err != nil {
		return false, errors.Wrapf(err, "could not check database %s", dbName)
	}
	return len(names) > 0, nil
}

func (c *Creator) RemoveOldDB(dbName string) error {
	return errors.Wrapf(c.exec.Exec(context.Background(), c.sql.DropDatabase(dbName)), "could not drop database %s", dbName)
}

func (c *Creator) CreateDB(dbName string) error {
	q := c.sql.CreateDatabase(dbName, c.conf.Replica, c.conf.VGroups)
	return errors.Wrapf(c.exec.Exec(context.Background(), q), "could not create database %s", dbName)
}

func (c *Creator) CreateTableGroup(dbName, stable string, s *schema.Schema) error {
	q := c.sql.CreateSuperTable(dbName, stable, s)
	return errors.Wrapf(c.exec.Exec(context.Background(), q), "could not create super table %s", stable)
}

// CreateTables creates tables in statements of at most TableBatch tables.
func (c *Creator) CreateTables(dbName, stable string, tables []targets.TableRef, _ *schema.Schema) error {
	batch := c.conf.TableBatch
	if batch <= 0 {
		batch = targets.DefaultTableBatch
	}
	for start := 0; start < len(tables); start += batch {
		end := start + batch
		if end > len(tables) {
			end = len(tables)
		}
		q := c.sql.CreateChildTables(dbName, stable, tables[start:end])
		if err := c.exec.Exec(context.Background(), q); err != nil {
			return errors.Wrapf(err, "could not create tables %s..%s", tables[start].Name, tables[end-1].Name)
		}
	}
	logrus.WithFields(logrus.Fields{"database": dbName, "stable": stable, "tables": len(tables)}).Debug("child tables created")
	return nil
}

func (c *Creator) Close() error {
	if c.exec == nil {
		return nil
	}
	return c.exec.Close()
}
