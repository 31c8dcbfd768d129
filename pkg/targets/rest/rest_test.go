package rest

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

// fakeServer answers REST requests the way the server does and records
// what it received.
type fakeServer struct {
	mu         sync.Mutex
	paths      []string
	statements []string
	databases  map[string]bool
}

func (s *fakeServer) handle(ctx *fasthttp.RequestCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sql := string(ctx.PostBody())
	s.paths = append(s.paths, string(ctx.Path()))
	s.statements = append(s.statements, sql)

	switch {
	case strings.HasPrefix(sql, "SELECT name FROM information_schema.ins_databases"):
		if s.databases["test"] {
			ctx.SetBodyString(`{"code":0,"column_meta":[["name","VARCHAR",64]],"data":[["test"]],"rows":1}`)
		} else {
			ctx.SetBodyString(`{"code":0,"column_meta":[["name","VARCHAR",64]],"data":[],"rows":0}`)
		}
	case strings.Contains(sql, "missing"):
		ctx.SetBodyString(`{"code":9731,"desc":"Table does not exist"}`)
	case strings.HasPrefix(sql, "garbage"):
		ctx.SetBodyString(`<html>`)
	default:
		ctx.SetBodyString(`{"code":0,"column_meta":[["affected_rows","INT",4]],"data":[[1]],"rows":1}`)
	}
}

func newTestTarget(t *testing.T, s *fakeServer) *restTarget {
	ln := fasthttputil.NewInmemoryListener()
	go fasthttp.Serve(ln, s.handle)
	t.Cleanup(func() { ln.Close() })
	conf := targets.DefaultConfig()
	conf.Replica = 1
	return &restTarget{
		conf: conf,
		dial: func(string) (net.Conn, error) { return ln.Dial() },
	}
}

func TestRESTCreator(t *testing.T) {
	s := &fakeServer{databases: map[string]bool{"test": true}}
	target := newTestTarget(t, s)
	require.Equal(t, targets.REST, target.Protocol())
	require.True(t, target.RequiresSchema())

	c := target.DBCreator().(targets.TableCreator)
	require.NoError(t, c.Init())
	exists, err := c.DBExists("test")
	require.NoError(t, err)
	require.True(t, exists)
	require.NoError(t, c.RemoveOldDB("test"))
	require.NoError(t, c.CreateDB("test"))
	require.NoError(t, c.CreateTableGroup("test", "meters", schema.MustParse(nil, nil)))
	require.NoError(t, c.CreateTables("test", "meters", []targets.TableRef{{Name: "d0", Tags: []interface{}{int32(1), "x"}}}, nil))

	want := []string{
		"SELECT name FROM information_schema.ins_databases WHERE name = 'test'",
		"DROP DATABASE IF EXISTS test",
		"CREATE DATABASE IF NOT EXISTS test REPLICA 1 PRECISION 'ms'",
		"CREATE STABLE IF NOT EXISTS test.meters (ts TIMESTAMP, current FLOAT, voltage INT, phase FLOAT) TAGS (groupid INT, location BINARY(24))",
		"CREATE TABLE IF NOT EXISTS test.d0 USING test.meters TAGS (1,'x')",
	}
	require.Equal(t, want, s.statements)
	for _, p := range s.paths {
		require.Equal(t, "/rest/sql", p)
	}
}

func TestRESTCreatorMissingDatabase(t *testing.T) {
	target := newTestTarget(t, &fakeServer{})
	c := target.DBCreator()
	require.NoError(t, c.Init())
	exists, err := c.DBExists("test")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestRESTWriter(t *testing.T) {
	s := &fakeServer{}
	target := newTestTarget(t, s)
	w, err := target.NewWriter(0)
	require.NoError(t, err)

	rows := []*data.Row{
		{Timestamp: 1500000000000, Values: []interface{}{true, "a"}},
		{Timestamp: 1500000000001, Values: []interface{}{false, "b"}},
	}
	res, err := w.Write(context.Background(), targets.TableRef{Database: "test", Name: "d1"}, rows)
	require.NoError(t, err)
	require.Equal(t, uint64(2), res.Rows)
	require.Equal(t, []string{"/rest/sql/test"}, s.paths)
	require.Equal(t, "INSERT INTO test.d1 VALUES (1500000000000,true,'a')(1500000000001,false,'b')", s.statements[0])
}

func TestRESTWriterErrors(t *testing.T) {
	target := newTestTarget(t, &fakeServer{})
	w, err := target.NewWriter(0)
	require.NoError(t, err)
	rows := []*data.Row{{Timestamp: 1, Values: []interface{}{int32(1)}}}

	_, err = w.Write(context.Background(), targets.TableRef{Database: "test", Name: "missing"}, rows)
	require.Error(t, err)
	serverErr, ok := errors.Cause(err).(*ServerError)
	require.True(t, ok, "unexpected error type %T", errors.Cause(err))
	require.Equal(t, 9731, serverErr.Code)
	require.Contains(t, err.Error(), "Table does not exist")

	exec := NewExecutor(NewClient(target.conf, target.dial), false)
	err = exec.Exec(context.Background(), "garbage")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid rest response")
}
