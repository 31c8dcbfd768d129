package stmt

import (
	"github.com/jmoiron/sqlx"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/common"
)

// NewTarget returns the prepared statement protocol. Schema creation is the
// same as for the native protocol; only inserts are bound.
func NewTarget(conf targets.Config) targets.ImplementedTarget {
	return &stmtTarget{
		conf: conf,
		open: func() (*sqlx.DB, error) { return common.Open(conf) },
	}
}

type stmtTarget struct {
	conf targets.Config
	open func() (*sqlx.DB, error)
}

func (t *stmtTarget) Protocol() targets.Protocol {
	return targets.Stmt
}

func (t *stmtTarget) RequiresSchema() bool {
	return true
}

func (t *stmtTarget) NewWriter(_ int) (targets.Writer, error) {
	db, err := t.open()
	if err != nil {
		return nil, err
	}
	return newWriter(db, t.conf), nil
}

func (t *stmtTarget) DBCreator() targets.DBCreator {
	return common.NewCreator(t.conf, func() (common.Executor, error) {
		db, err := t.open()
		if err != nil {
			return nil, err
		}
		return common.NewSQLExecutor(db, t.conf.PrintSQL), nil
	})
}
