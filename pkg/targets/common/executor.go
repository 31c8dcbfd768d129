package common

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tdbench/tdbench/pkg/targets"
)

// Executor runs statements on one connection to the server.
type Executor interface {
	// Exec runs a statement returning no rows
	Exec(ctx context.Context, sql string) error
	// QueryColumn runs a query and returns its first column as strings
	QueryColumn(ctx context.Context, sql string) ([]string, error)
	Close() error
}

// LogSQL logs sql when printing statements is enabled.
func LogSQL(enabled bool, sql string) {
	if enabled {
		logrus.WithField("sql", sql).Info("executing statement")
	}
}

// Open connects to the server through database/sql with the configured
// driver. The returned pool holds at most one connection.
func Open(c targets.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect(c.Driver, c.DataSourceName())
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect with driver %s", c.Driver)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// SQLExecutor is an Executor over database/sql.
type SQLExecutor struct {
	db       *sqlx.DB
	printSQL bool
}

func NewSQLExecutor(db *sqlx.DB, printSQL bool) *SQLExecutor {
	return &SQLExecutor{db: db, printSQL: printSQL}
}

// DB returns the underlying connection pool.
func (e *SQLExecutor) DB() *sqlx.DB {
	return e.db
}

func (e *SQLExecutor) Exec(ctx context.Context, sql string) error {
	LogSQL(e.printSQL, sql)
	if _, err := e.db.ExecContext(ctx, sql); err != nil {
		return errors.Wrap(err, "exec failed")
	}
	return nil
}

func (e *SQLExecutor) QueryColumn(ctx context.Context, sql string) ([]string, error) {
	LogSQL(e.printSQL, sql)
	var out []string
	if err := e.db.SelectContext(ctx, &out, sql); err != nil {
		return nil, errors.Wrap(err, "query failed")
	}
	return out, nil
}

func (e *SQLExecutor) Close() error {
	return e.db.Close()
}
