package load

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/tdbench/tdbench/load/insertstrategy"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
)

var errWrite = errors.New("write rejected")

type fakeCreator struct {
	exists      bool
	calls       []string
	stable      string
	tables      []targets.TableRef
	createGroup error
}

func (c *fakeCreator) Init() error {
	c.calls = append(c.calls, "init")
	return nil
}

func (c *fakeCreator) DBExists(string) (bool, error) {
	c.calls = append(c.calls, "exists")
	return c.exists, nil
}

func (c *fakeCreator) CreateDB(string) error {
	c.calls = append(c.calls, "create")
	return nil
}

func (c *fakeCreator) RemoveOldDB(string) error {
	c.calls = append(c.calls, "drop")
	return nil
}

func (c *fakeCreator) CreateTableGroup(_, stable string, _ *schema.Schema) error {
	c.calls = append(c.calls, "stable")
	c.stable = stable
	return c.createGroup
}

func (c *fakeCreator) CreateTables(_, _ string, tables []targets.TableRef, _ *schema.Schema) error {
	c.calls = append(c.calls, "tables")
	c.tables = append(c.tables, tables...)
	return nil
}

func (c *fakeCreator) Close() error {
	c.calls = append(c.calls, "close")
	return nil
}

type fakeWrite struct {
	table targets.TableRef
	rows  []data.Row
}

type fakeWriter struct {
	fail   bool
	writes []fakeWrite
	closed bool
}

func (w *fakeWriter) Write(_ context.Context, t targets.TableRef, rows []*data.Row) (targets.WriteResult, error) {
	if w.fail {
		return targets.WriteResult{}, errWrite
	}
	copied := make([]data.Row, len(rows))
	for i, r := range rows {
		copied[i] = *r
	}
	w.writes = append(w.writes, fakeWrite{table: t, rows: copied})
	return targets.WriteResult{Rows: uint64(len(rows))}, nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeTarget struct {
	protocol       targets.Protocol
	requiresSchema bool
	creator        *fakeCreator
	writers        []*fakeWriter
	failWorker     int
	failOpen       int
}

func newFakeTarget(protocol targets.Protocol) *fakeTarget {
	return &fakeTarget{
		protocol:       protocol,
		requiresSchema: protocol != targets.Schemaless,
		creator:        &fakeCreator{},
		failWorker:     -1,
		failOpen:       -1,
	}
}

func (t *fakeTarget) Protocol() targets.Protocol { return t.protocol }

func (t *fakeTarget) RequiresSchema() bool { return t.requiresSchema }

func (t *fakeTarget) NewWriter(workerNum int) (targets.Writer, error) {
	if workerNum == t.failOpen {
		return nil, errors.New("connection refused")
	}
	w := &fakeWriter{fail: workerNum == t.failWorker}
	t.writers = append(t.writers, w)
	return w, nil
}

func (t *fakeTarget) DBCreator() targets.DBCreator { return t.creator }

func (t *fakeTarget) rowsByTable() map[string][]data.Row {
	res := map[string][]data.Row{}
	for _, w := range t.writers {
		for _, wr := range w.writes {
			res[wr.table.Name] = append(res[wr.table.Name], wr.rows...)
		}
	}
	return res
}

func testConfig() BenchmarkRunnerConfig {
	c := DefaultConfig()
	c.Tables = 3
	c.RowsPerTable = 3
	c.BatchSize = 2
	c.Workers = 3
	c.Seed = 17
	c.ReportingPeriod = 0
	c.NonInteractive = true
	return c
}

func testSchema() *schema.Schema {
	return schema.MustParse(schema.DefaultColumnTokens, schema.DefaultTagTokens)
}

func discardOutput(t *testing.T) {
	old := printFn
	printFn = func(string, ...interface{}) (int, error) { return 0, nil }
	t.Cleanup(func() { printFn = old })
}

func TestPartition(t *testing.T) {
	cases := []struct {
		desc    string
		tables  uint64
		workers uint
		want    []TableRange
	}{
		{
			desc:    "one table per worker",
			tables:  3,
			workers: 3,
			want:    []TableRange{{0, 1}, {1, 2}, {2, 3}},
		},
		{
			desc:    "uneven split, larger ranges first",
			tables:  5,
			workers: 2,
			want:    []TableRange{{0, 3}, {3, 5}},
		},
		{
			desc:    "more workers than tables",
			tables:  2,
			workers: 4,
			want:    []TableRange{{0, 1}, {1, 2}, {2, 2}, {2, 2}},
		},
		{
			desc:    "single worker",
			tables:  10,
			workers: 1,
			want:    []TableRange{{0, 10}},
		},
		{
			desc:    "no workers",
			tables:  10,
			workers: 0,
		},
	}
	for _, c := range cases {
		got := Partition(c.tables, c.workers)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%s: incorrect ranges (-want +got):\n%s", c.desc, diff)
		}
		var total uint64
		for _, r := range got {
			total += r.Len()
		}
		if c.workers > 0 && total != c.tables {
			t.Errorf("%s: ranges cover %d tables, want %d", c.desc, total, c.tables)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		desc   string
		modify func(c *BenchmarkRunnerConfig)
		valid  bool
	}{
		{desc: "defaults", modify: func(c *BenchmarkRunnerConfig) {}, valid: true},
		{desc: "zero rows", modify: func(c *BenchmarkRunnerConfig) { c.RowsPerTable = 0 }, valid: true},
		{desc: "zero tables", modify: func(c *BenchmarkRunnerConfig) { c.Tables = 0 }},
		{desc: "zero batch", modify: func(c *BenchmarkRunnerConfig) { c.BatchSize = 0 }},
		{desc: "zero workers", modify: func(c *BenchmarkRunnerConfig) { c.Workers = 0 }},
		{desc: "empty database", modify: func(c *BenchmarkRunnerConfig) { c.DBName = "" }},
		{desc: "empty super table", modify: func(c *BenchmarkRunnerConfig) { c.SuperTable = "" }},
		{desc: "empty table prefix", modify: func(c *BenchmarkRunnerConfig) { c.TablePrefix = "" }},
		{desc: "interval without unit", modify: func(c *BenchmarkRunnerConfig) { c.InsertIntervals = "1"; c.IntervalUnit = 0 }},
		{desc: "negative rate", modify: func(c *BenchmarkRunnerConfig) { c.RowsPerSecond = -1 }},
		{desc: "negative time step", modify: func(c *BenchmarkRunnerConfig) { c.TimeStep = -1 }},
	}
	for _, c := range cases {
		conf := DefaultConfig()
		c.modify(&conf)
		err := conf.Validate()
		if c.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", c.desc, err)
		} else if !c.valid && errors.Cause(err) != ErrInvalidConfig {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", c.desc, err)
		}
	}
}

func TestGetBenchmarkRunnerErrors(t *testing.T) {
	skipCreate := testConfig()
	skipCreate.SkipCreate = true
	badInterval := testConfig()
	badInterval.InsertIntervals = "1-a"

	cases := []struct {
		desc   string
		conf   BenchmarkRunnerConfig
		target targets.ImplementedTarget
		schema *schema.Schema
		want   error
	}{
		{desc: "no target", conf: testConfig(), schema: testSchema(), want: ErrInvalidConfig},
		{desc: "no schema", conf: testConfig(), target: newFakeTarget(targets.Native), want: ErrInvalidConfig},
		{
			desc:   "skip creation with schemaless",
			conf:   skipCreate,
			target: newFakeTarget(targets.Schemaless),
			schema: testSchema(),
			want:   ErrIncompatibleMode,
		},
		{
			desc:   "invalid interval",
			conf:   badInterval,
			target: newFakeTarget(targets.Native),
			schema: testSchema(),
			want:   insertstrategy.ErrInvalidInterval,
		},
	}
	for _, c := range cases {
		r, err := GetBenchmarkRunner(c.conf, c.target, c.schema)
		if r != nil {
			t.Errorf("%s: runner returned with error %v", c.desc, err)
		}
		if errors.Cause(err) != c.want {
			t.Errorf("%s: incorrect error: got %v want cause %v", c.desc, err, c.want)
		}
	}

	r, err := GetBenchmarkRunner(skipCreate, newFakeTarget(targets.Stmt), testSchema())
	require.NoError(t, err)
	require.Equal(t, Configuring, r.State())
}

func TestRunBenchmarkSleepEvents(t *testing.T) {
	discardOutput(t)
	cases := []struct {
		desc     string
		protocol targets.Protocol
		tables   uint64
		workers  uint
		repeat   bool
		want     uint64
	}{
		{desc: "native, one table per worker", protocol: targets.Native, tables: 3, workers: 3, want: 3},
		{desc: "native, repeated sleep", protocol: targets.Native, tables: 3, workers: 3, repeat: true, want: 6},
		{desc: "stmt, one table per worker", protocol: targets.Stmt, tables: 3, workers: 3, want: 3},
		{desc: "stmt, repeated sleep", protocol: targets.Stmt, tables: 3, workers: 3, repeat: true, want: 6},
		{desc: "schemaless, one table per worker", protocol: targets.Schemaless, tables: 3, workers: 3, want: 3},
		{desc: "schemaless, repeated sleep", protocol: targets.Schemaless, tables: 3, workers: 3, repeat: true, want: 6},
		{desc: "several tables per worker sleep once per round", protocol: targets.Native, tables: 5, workers: 2, want: 2},
		{desc: "idle workers don't sleep", protocol: targets.Native, tables: 2, workers: 4, repeat: true, want: 4},
	}
	for _, c := range cases {
		conf := testConfig()
		conf.Tables = c.tables
		conf.Workers = c.workers
		conf.RepeatSleep = c.repeat
		target := newFakeTarget(c.protocol)
		r, err := GetBenchmarkRunner(conf, target, testSchema())
		require.NoError(t, err, c.desc)

		res, err := r.RunBenchmark(context.Background())
		require.NoError(t, err, c.desc)
		if res.SleepEvents != c.want {
			t.Errorf("%s: incorrect sleep events: got %d want %d", c.desc, res.SleepEvents, c.want)
		}
		if res.Rows != c.tables*conf.RowsPerTable {
			t.Errorf("%s: incorrect rows: got %d want %d", c.desc, res.Rows, c.tables*conf.RowsPerTable)
		}
		if r.State() != Done {
			t.Errorf("%s: incorrect final state %s", c.desc, r.State())
		}
	}
}

func TestRunBenchmarkWritesRowsInOrder(t *testing.T) {
	discardOutput(t)
	conf := testConfig()
	conf.Tables = 5
	conf.Workers = 2
	conf.RowsPerTable = 7
	conf.BatchSize = 3
	conf.TimeStep = 10
	target := newFakeTarget(targets.Native)
	r, err := GetBenchmarkRunner(conf, target, testSchema())
	require.NoError(t, err)

	res, err := r.RunBenchmark(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(35), res.Rows)
	require.Equal(t, uint64(15), res.Batches)
	require.Len(t, target.writers, 2)

	owners := map[string]int{}
	for worker, w := range target.writers {
		require.True(t, w.closed, "writer %d not closed", worker)
		for _, wr := range w.writes {
			if prev, ok := owners[wr.table.Name]; ok && prev != worker {
				t.Errorf("table %s written by workers %d and %d", wr.table.Name, prev, worker)
			}
			owners[wr.table.Name] = worker
			require.Equal(t, conf.DBName, wr.table.Database)
			require.Equal(t, conf.SuperTable, wr.table.SuperTable)
		}
	}
	wantOwners := map[string]int{"d0": 0, "d1": 0, "d2": 0, "d3": 1, "d4": 1}
	if diff := cmp.Diff(wantOwners, owners); diff != "" {
		t.Errorf("incorrect table owners (-want +got):\n%s", diff)
	}

	for table, rows := range target.rowsByTable() {
		require.Len(t, rows, 7, table)
		for i, row := range rows {
			want := data.DefaultStartTimestamp + int64(i)*10
			if row.Timestamp != want {
				t.Errorf("%s row %d: incorrect timestamp: got %d want %d", table, i, row.Timestamp, want)
			}
		}
	}
}

func TestRunBenchmarkDeterministic(t *testing.T) {
	discardOutput(t)
	run := func() map[string][]data.Row {
		conf := testConfig()
		conf.Workers = 2
		target := newFakeTarget(targets.Native)
		r, err := GetBenchmarkRunner(conf, target, testSchema())
		require.NoError(t, err)
		_, err = r.RunBenchmark(context.Background())
		require.NoError(t, err)
		return target.rowsByTable()
	}
	first, second := run(), run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs with the same seed differ (-first +second):\n%s", diff)
	}
	last := first["d0"][len(first["d0"])-1]
	if want := data.DefaultStartTimestamp + 2; last.Timestamp != want {
		t.Errorf("incorrect last timestamp: got %d want %d", last.Timestamp, want)
	}
}

func TestRunBenchmarkWorkerFailure(t *testing.T) {
	discardOutput(t)
	target := newFakeTarget(targets.Native)
	target.failWorker = 1
	r, err := GetBenchmarkRunner(testConfig(), target, testSchema())
	require.NoError(t, err)

	res, err := r.RunBenchmark(context.Background())
	require.Error(t, err)
	require.NotNil(t, res)
	require.Equal(t, res.Err, err)
	require.Equal(t, 1, res.FailedWorkers)
	require.Equal(t, errWrite, errors.Cause(res.FirstErr))
	require.Contains(t, res.FirstErr.Error(), "worker 1")
	// the other two workers finish their tables
	require.Equal(t, uint64(6), res.Rows)
	require.Equal(t, Failed, r.State())
	for i, w := range target.writers {
		require.True(t, w.closed, "writer %d not closed", i)
	}
}

func TestRunBenchmarkWriterInitFailure(t *testing.T) {
	discardOutput(t)
	target := newFakeTarget(targets.Stmt)
	target.failOpen = 2
	r, err := GetBenchmarkRunner(testConfig(), target, testSchema())
	require.NoError(t, err)

	res, err := r.RunBenchmark(context.Background())
	require.Error(t, err)
	require.Nil(t, res)
	require.Equal(t, Failed, r.State())
	require.Len(t, target.writers, 2)
	for i, w := range target.writers {
		require.True(t, w.closed, "writer %d not closed", i)
		require.Empty(t, w.writes)
	}
}

func TestRunBenchmarkCanceled(t *testing.T) {
	discardOutput(t)
	target := newFakeTarget(targets.REST)
	r, err := GetBenchmarkRunner(testConfig(), target, testSchema())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := r.RunBenchmark(ctx)
	require.Error(t, err)
	require.Equal(t, 3, res.FailedWorkers)
	require.Equal(t, context.Canceled, errors.Cause(res.FirstErr))
	require.Zero(t, res.Rows)
}

func TestRunBenchmarkTwice(t *testing.T) {
	discardOutput(t)
	r, err := GetBenchmarkRunner(testConfig(), newFakeTarget(targets.Native), testSchema())
	require.NoError(t, err)
	_, err = r.RunBenchmark(context.Background())
	require.NoError(t, err)
	_, err = r.RunBenchmark(context.Background())
	require.Error(t, err)
}

func TestUseDBCreator(t *testing.T) {
	discardOutput(t)
	cases := []struct {
		desc           string
		protocol       targets.Protocol
		exists         bool
		dropExisting   bool
		nonInteractive bool
		confirm        bool
		skipCreate     bool
		wantCalls      []string
		wantErr        error
	}{
		{
			desc:      "new database",
			protocol:  targets.Native,
			wantCalls: []string{"init", "exists", "create", "stable", "tables", "close"},
		},
		{
			desc:         "existing database dropped with -y",
			protocol:     targets.Native,
			exists:       true,
			dropExisting: true,
			wantCalls:    []string{"init", "exists", "drop", "create", "stable", "tables", "close"},
		},
		{
			desc:           "existing database, non-interactive",
			protocol:       targets.Native,
			exists:         true,
			nonInteractive: true,
			wantCalls:      []string{"init", "exists", "close"},
			wantErr:        ErrDBExists,
		},
		{
			desc:      "existing database, confirmed",
			protocol:  targets.Stmt,
			exists:    true,
			confirm:   true,
			wantCalls: []string{"init", "exists", "drop", "create", "stable", "tables", "close"},
		},
		{
			desc:      "existing database, declined",
			protocol:  targets.Stmt,
			exists:    true,
			wantCalls: []string{"init", "exists", "close"},
			wantErr:   ErrDBExists,
		},
		{
			desc:      "schemaless creates the database only",
			protocol:  targets.Schemaless,
			wantCalls: []string{"init", "exists", "create", "close"},
		},
		{
			desc:       "skip creation",
			protocol:   targets.Native,
			skipCreate: true,
		},
	}
	for _, c := range cases {
		conf := testConfig()
		conf.DropExisting = c.dropExisting
		conf.NonInteractive = c.nonInteractive
		conf.SkipCreate = c.skipCreate
		target := newFakeTarget(c.protocol)
		target.creator.exists = c.exists
		r, err := GetBenchmarkRunner(conf, target, testSchema())
		require.NoError(t, err, c.desc)
		asked := false
		r.SetConfirmFn(func(string) bool {
			asked = true
			return c.confirm
		})

		_, err = r.RunBenchmark(context.Background())
		if errors.Cause(err) != c.wantErr {
			t.Errorf("%s: incorrect error: got %v want %v", c.desc, err, c.wantErr)
		}
		if diff := cmp.Diff(c.wantCalls, target.creator.calls); diff != "" {
			t.Errorf("%s: incorrect creator calls (-want +got):\n%s", c.desc, diff)
		}
		if wantAsked := c.exists && !c.dropExisting && !c.nonInteractive; asked != wantAsked {
			t.Errorf("%s: confirmation asked %v, want %v", c.desc, asked, wantAsked)
		}
		if c.wantErr != nil {
			require.Equal(t, Failed, r.State(), c.desc)
			require.Empty(t, target.writers, c.desc)
		}
	}
}

func TestCreatedTablesMatchWrittenTables(t *testing.T) {
	discardOutput(t)
	target := newFakeTarget(targets.Native)
	r, err := GetBenchmarkRunner(testConfig(), target, testSchema())
	require.NoError(t, err)
	_, err = r.RunBenchmark(context.Background())
	require.NoError(t, err)

	require.Equal(t, DefaultSuperTable, target.creator.stable)
	require.Len(t, target.creator.tables, 3)
	written := map[string]targets.TableRef{}
	for _, w := range target.writers {
		for _, wr := range w.writes {
			written[wr.table.Name] = wr.table
		}
	}
	for i, created := range target.creator.tables {
		require.Equal(t, fmt.Sprintf("d%d", i), created.Name)
		if diff := cmp.Diff(created, written[created.Name]); diff != "" {
			t.Errorf("table %s created and written differently (-created +written):\n%s", created.Name, diff)
		}
	}
}

func TestCreateTableGroupFailure(t *testing.T) {
	discardOutput(t)
	target := newFakeTarget(targets.Native)
	target.creator.createGroup = errors.New("syntax error")
	r, err := GetBenchmarkRunner(testConfig(), target, testSchema())
	require.NoError(t, err)
	_, err = r.RunBenchmark(context.Background())
	require.EqualError(t, err, "syntax error")
	require.Equal(t, []string{"init", "exists", "create", "stable", "close"}, target.creator.calls)
	require.Empty(t, target.writers)
}

func TestDebugSleepLogs(t *testing.T) {
	discardOutput(t)
	hook := logtest.NewGlobal()
	defer hook.Reset()

	conf := testConfig()
	conf.DebugSleep = true
	conf.RepeatSleep = true
	r, err := GetBenchmarkRunner(conf, newFakeTarget(targets.Native), testSchema())
	require.NoError(t, err)
	res, err := r.RunBenchmark(context.Background())
	require.NoError(t, err)

	sleeps := 0
	for _, e := range hook.AllEntries() {
		if e.Message != "sleep" {
			continue
		}
		sleeps++
		require.Equal(t, logrus.InfoLevel, e.Level)
		require.Contains(t, e.Data, "worker")
		require.Contains(t, e.Data, "duration")
	}
	require.Equal(t, int(res.SleepEvents), sleeps)
}

type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Only the per-step debug lines mention sleeping, so counting output lines
// with "sleep" gives the number of sleep steps.
func TestDebugSleepOutputLines(t *testing.T) {
	cases := []struct {
		desc     string
		protocol targets.Protocol
		repeat   bool
		want     int
	}{
		{desc: "native", protocol: targets.Native, want: 1},
		{desc: "native, repeated sleep", protocol: targets.Native, repeat: true, want: 2},
		{desc: "schemaless", protocol: targets.Schemaless, want: 1},
		{desc: "schemaless, repeated sleep", protocol: targets.Schemaless, repeat: true, want: 2},
		{desc: "stmt", protocol: targets.Stmt, want: 1},
		{desc: "stmt, repeated sleep", protocol: targets.Stmt, repeat: true, want: 2},
	}

	oldPrint := printFn
	oldOut := logrus.StandardLogger().Out
	defer func() {
		printFn = oldPrint
		logrus.SetOutput(oldOut)
	}()

	for _, c := range cases {
		out := &lockedBuffer{}
		printFn = func(s string, args ...interface{}) (int, error) {
			return fmt.Fprintf(out, s, args...)
		}
		logrus.SetOutput(out)

		conf := testConfig()
		conf.Workers = 1
		conf.InsertIntervals = "1"
		conf.IntervalUnit = time.Millisecond
		conf.DebugSleep = true
		conf.RepeatSleep = c.repeat
		conf.ReportingPeriod = time.Millisecond
		r, err := GetBenchmarkRunner(conf, newFakeTarget(c.protocol), testSchema())
		require.NoError(t, err, c.desc)
		res, err := r.RunBenchmark(context.Background())
		require.NoError(t, err, c.desc)
		require.Equal(t, uint64(c.want), res.SleepEvents, c.desc)

		lines := 0
		for _, line := range strings.Split(out.String(), "\n") {
			if strings.Contains(line, "sleep") {
				lines++
			}
		}
		require.Equal(t, c.want, lines, c.desc)
	}
}

func TestRunBenchmarkWithIntervals(t *testing.T) {
	discardOutput(t)
	conf := testConfig()
	conf.InsertIntervals = "0,1"
	conf.IntervalUnit = time.Millisecond
	conf.RowsPerSecond = 1000
	r, err := GetBenchmarkRunner(conf, newFakeTarget(targets.Native), testSchema())
	require.NoError(t, err)
	res, err := r.RunBenchmark(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(3), res.SleepEvents)
	require.Equal(t, uint64(9), res.Rows)
}

func TestSummary(t *testing.T) {
	var b bytes.Buffer
	old := printFn
	defer func() { printFn = old }()
	printFn = func(s string, args ...interface{}) (n int, err error) {
		return fmt.Fprintf(&b, s, args...)
	}

	br := &BenchmarkRunner{}
	br.Workers = 2
	br.summary(&Result{
		Rows:          10,
		Batches:       4,
		SleepEvents:   2,
		FailedWorkers: 1,
		Took:          time.Second,
		Latency:       map[string]float64{"mean": 1.5, "q50": 1, "q90": 2, "q99": 3, "q100": 4},
	})
	want := "\nSummary:\n" +
		"loaded 10 rows in 1.000sec with 2 workers (mean rate 10.00 rows/sec)\n" +
		"4 writes, 2 pauses, 1 failed workers\n" +
		"write latency (ms): mean 1.50, p50 1.00, p90 2.00, p99 3.00, max 4.00\n"
	if got := b.String(); got != want {
		t.Errorf("incorrect summary\ngot %s\nwant %s", got, want)
	}
}

func TestReport(t *testing.T) {
	var mu sync.Mutex
	var b bytes.Buffer
	old := printFn
	defer func() { printFn = old }()
	printFn = func(s string, args ...interface{}) (n int, err error) {
		mu.Lock()
		defer mu.Unlock()
		return fmt.Fprintf(&b, s, args...)
	}

	br := &BenchmarkRunner{}
	br.rowCnt.Add(100)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		br.report(ctx, 20*time.Millisecond)
		close(done)
	}()
	time.Sleep(70 * time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Equal(t, "time,per. row/s,row total,overall row/s,writes,pauses", lines[0])
	require.GreaterOrEqual(t, len(lines), 2)
	require.Contains(t, lines[1], "1.000000E+02")
}

func TestSaveTestResult(t *testing.T) {
	discardOutput(t)
	conf := testConfig()
	conf.ResultsFile = filepath.Join(t.TempDir(), "result.json")
	r, err := GetBenchmarkRunner(conf, newFakeTarget(targets.Stmt), testSchema())
	require.NoError(t, err)
	_, err = r.RunBenchmark(context.Background())
	require.NoError(t, err)

	raw, err := ioutil.ReadFile(conf.ResultsFile)
	require.NoError(t, err)
	var got LoaderTestResult
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Equal(t, LoaderTestResultVersion, got.ResultFormatVersion)
	require.Equal(t, "stmt", got.Protocol)
	require.Equal(t, conf.Tables, got.RunnerConfig.Tables)
	require.Equal(t, float64(9), got.Totals["rows"])
}

func TestStateString(t *testing.T) {
	cases := []struct {
		state    State
		want     string
		terminal bool
	}{
		{state: Configuring, want: "configuring"},
		{state: CreatingSchema, want: "creating-schema"},
		{state: Running, want: "running"},
		{state: Done, want: "done", terminal: true},
		{state: Failed, want: "failed", terminal: true},
		{state: State(42), want: "State(42)"},
	}
	for _, c := range cases {
		if got := c.state.String(); got != c.want {
			t.Errorf("incorrect name: got %s want %s", got, c.want)
		}
		if got := c.state.Terminal(); got != c.terminal {
			t.Errorf("%s: incorrect terminal: got %v want %v", c.want, got, c.terminal)
		}
	}
}
