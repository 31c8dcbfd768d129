package taosc

import (
	"github.com/jmoiron/sqlx"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/common"
)

type openFn func() (*sqlx.DB, error)

// NewTarget returns the native client protocol. Connections go through the
// database/sql driver named in conf, which the binary registers.
func NewTarget(conf targets.Config) targets.ImplementedTarget {
	return &taoscTarget{
		conf: conf,
		open: func() (*sqlx.DB, error) { return common.Open(conf) },
	}
}

type taoscTarget struct {
	conf targets.Config
	open openFn
}

func (t *taoscTarget) Protocol() targets.Protocol {
	return targets.Native
}

func (t *taoscTarget) RequiresSchema() bool {
	return true
}

func (t *taoscTarget) NewWriter(_ int) (targets.Writer, error) {
	db, err := t.open()
	if err != nil {
		return nil, err
	}
	return newWriter(common.NewSQLExecutor(db, t.conf.PrintSQL), t.conf), nil
}

func (t *taoscTarget) DBCreator() targets.DBCreator {
	return common.NewCreator(t.conf, func() (common.Executor, error) {
		db, err := t.open()
		if err != nil {
			return nil, err
		}
		return common.NewSQLExecutor(db, t.conf.PrintSQL), nil
	})
}
