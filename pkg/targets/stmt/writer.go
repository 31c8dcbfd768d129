package stmt

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/common"
)

// stmtKey identifies a prepared INSERT: the same table written with the
// same number of rows reuses its statement.
type stmtKey struct {
	table string
	rows  int
}

// writer binds rows to prepared INSERT templates. Templates are prepared on
// first use and live until Close.
type writer struct {
	db       *sqlx.DB
	sql      common.SQLBuilder
	printSQL bool
	stmts    map[stmtKey]*sqlx.Stmt
}

func newWriter(db *sqlx.DB, conf targets.Config) *writer {
	return &writer{
		db:       db,
		sql:      common.SQLBuilder{Escape: conf.Escape},
		printSQL: conf.PrintSQL,
		stmts:    make(map[stmtKey]*sqlx.Stmt),
	}
}

func (w *writer) prepare(ctx context.Context, t targets.TableRef, rows []*data.Row) (*sqlx.Stmt, error) {
	key := stmtKey{table: t.Database + "." + t.Name, rows: len(rows)}
	if st, ok := w.stmts[key]; ok {
		return st, nil
	}
	q := w.sql.InsertTemplate(t, len(rows), len(rows[0].Values))
	common.LogSQL(w.printSQL, q)
	st, err := w.db.PreparexContext(ctx, q)
	if err != nil {
		return nil, errors.Wrapf(err, "prepare insert into %s failed", t.Name)
	}
	w.stmts[key] = st
	return st, nil
}

func (w *writer) Write(ctx context.Context, t targets.TableRef, rows []*data.Row) (targets.WriteResult, error) {
	if len(rows) == 0 {
		return targets.WriteResult{}, nil
	}
	st, err := w.prepare(ctx, t, rows)
	if err != nil {
		return targets.WriteResult{}, err
	}
	if _, err := st.ExecContext(ctx, common.Args(rows)...); err != nil {
		return targets.WriteResult{}, errors.Wrapf(err, "bound insert into %s failed", t.Name)
	}
	return targets.WriteResult{Rows: uint64(len(rows))}, nil
}

// Close closes every prepared statement, then the connection.
func (w *writer) Close() error {
	var result *multierror.Error
	for key, st := range w.stmts {
		if err := st.Close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "close statement for %s", key.table))
		}
		delete(w.stmts, key)
	}
	if err := w.db.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
