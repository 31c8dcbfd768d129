package taosc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/common"
)

// writer sends each batch as one literal multi-row INSERT.
type writer struct {
	exec *common.SQLExecutor
	sql  common.SQLBuilder
}

func newWriter(exec *common.SQLExecutor, conf targets.Config) *writer {
	return &writer{
		exec: exec,
		sql:  common.SQLBuilder{Escape: conf.Escape},
	}
}

func (w *writer) Write(ctx context.Context, t targets.TableRef, rows []*data.Row) (targets.WriteResult, error) {
	if len(rows) == 0 {
		return targets.WriteResult{}, nil
	}
	if err := w.exec.Exec(ctx, w.sql.Insert(t, rows)); err != nil {
		return targets.WriteResult{}, errors.Wrapf(err, "insert into %s failed", t.Name)
	}
	return targets.WriteResult{Rows: uint64(len(rows))}, nil
}

func (w *writer) Close() error {
	return w.exec.Close()
}
