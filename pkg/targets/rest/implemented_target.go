package rest

import (
	"context"

	"github.com/pkg/errors"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/common"
	"github.com/valyala/fasthttp"
)

// NewTarget returns the REST protocol: every statement, DDL included, is
// posted to the REST endpoint.
func NewTarget(conf targets.Config) targets.ImplementedTarget {
	return &restTarget{conf: conf}
}

type restTarget struct {
	conf targets.Config
	// dial replaces TCP in tests
	dial fasthttp.DialFunc
}

func (t *restTarget) Protocol() targets.Protocol {
	return targets.REST
}

func (t *restTarget) RequiresSchema() bool {
	return true
}

func (t *restTarget) newExecutor() *Executor {
	return NewExecutor(NewClient(t.conf, t.dial), t.conf.PrintSQL)
}

func (t *restTarget) NewWriter(_ int) (targets.Writer, error) {
	return &writer{
		exec: t.newExecutor(),
		sql:  common.SQLBuilder{Escape: t.conf.Escape},
	}, nil
}

func (t *restTarget) DBCreator() targets.DBCreator {
	return common.NewCreator(t.conf, func() (common.Executor, error) {
		return t.newExecutor(), nil
	})
}

// NewClient returns an HTTP client for the REST port of conf. A nil dial uses TCP.
func NewClient(conf targets.Config, dial fasthttp.DialFunc) *common.HTTPClient {
	return common.NewHTTPClient(common.HTTPClientConfig{
		Addr:     conf.RESTAddr(),
		User:     conf.User,
		Password: conf.Password,
		Dial:     dial,
	})
}

type writer struct {
	exec *Executor
	sql  common.SQLBuilder
}

func (w *writer) Write(ctx context.Context, t targets.TableRef, rows []*data.Row) (targets.WriteResult, error) {
	if len(rows) == 0 {
		return targets.WriteResult{}, nil
	}
	if _, err := w.exec.do(ctx, t.Database, w.sql.Insert(t, rows)); err != nil {
		return targets.WriteResult{}, errors.Wrapf(err, "insert into %s failed", t.Name)
	}
	return targets.WriteResult{Rows: uint64(len(rows))}, nil
}
