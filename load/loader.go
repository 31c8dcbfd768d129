package load

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tdbench/tdbench/load/insertstrategy"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

// change for more useful testing
var (
	printFn = fmt.Printf
)

// ConfirmFn asks the user a yes/no question and reports the answer.
type ConfirmFn func(question string) bool

// Result aggregates what all workers of a run did. A failed worker keeps
// the rows it wrote before failing in the totals.
type Result struct {
	Rows          uint64
	Batches       uint64
	SleepEvents   uint64
	FailedWorkers int
	// FirstErr is the earliest worker failure, Err combines all of them
	FirstErr error
	Err      error
	Took     time.Duration
	// Latency holds write latency quantiles in milliseconds
	Latency map[string]float64
}

// BenchmarkRunner creates the schema described by its configuration and
// drives the workers writing synthesized rows through an ImplementedTarget.
type BenchmarkRunner struct {
	BenchmarkRunnerConfig

	target         targets.ImplementedTarget
	schema         *schema.Schema
	generator      *data.Generator
	seeds          data.TableSeeds
	schedule       insertstrategy.Schedule
	sleepRegulator insertstrategy.SleepRegulator
	confirm        ConfirmFn

	state    atomic.Int32
	rowCnt   atomic.Uint64
	batchCnt atomic.Uint64
	sleepCnt atomic.Uint64

	mu       sync.Mutex
	failures []error
	latency  *hdrhistogram.Histogram
}

// GetBenchmarkRunner validates c against target and s and returns a runner
// in the Configuring state. Nothing is written before RunBenchmark.
func GetBenchmarkRunner(c BenchmarkRunnerConfig, target targets.ImplementedTarget, s *schema.Schema) (*BenchmarkRunner, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "no target")
	}
	if s == nil {
		return nil, errors.Wrap(ErrInvalidConfig, "no schema")
	}
	if c.SkipCreate && !target.RequiresSchema() {
		return nil, errors.Wrapf(ErrIncompatibleMode,
			"protocol %s creates its tables from the written rows and can't write into existing tables only", target.Protocol())
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	l := &BenchmarkRunner{
		BenchmarkRunnerConfig: c,
		target:                target,
		schema:                s,
		generator: data.NewGenerator(s, data.GeneratorConfig{
			StartTimestamp: c.StartTimestamp,
			TimeStep:       c.TimeStep,
			Chinese:        c.Chinese,
		}),
		seeds:    data.NewTableSeeds(seed, c.Tables),
		schedule: insertstrategy.NewSchedule(c.RowsPerTable, c.BatchSize, c.RepeatSleep),
		confirm:  confirmFromStdin,
		latency:  newLatencyHistogram(),
	}

	if c.InsertIntervals == "" {
		l.sleepRegulator = insertstrategy.NoWait()
	} else {
		var err error
		l.sleepRegulator, err = insertstrategy.NewSleepRegulator(c.InsertIntervals, c.IntervalUnit, int(c.Workers), rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, errors.Wrap(err, "could not initialize BenchmarkRunner")
		}
	}
	l.setState(Configuring)
	return l, nil
}

// SetConfirmFn replaces the question asked before an existing database is dropped.
func (l *BenchmarkRunner) SetConfirmFn(fn ConfirmFn) {
	l.confirm = fn
}

// State returns the phase the run is in.
func (l *BenchmarkRunner) State() State {
	return State(l.state.Load())
}

func (l *BenchmarkRunner) setState(s State) {
	logrus.WithField("state", s).Debug("benchmark runner state changed")
	l.state.Store(int32(s))
}

// Schedule returns the write and sleep steps every worker runs.
func (l *BenchmarkRunner) Schedule() insertstrategy.Schedule {
	return l.schedule
}

// RunBenchmark creates the schema, starts one worker per configured worker
// slot and waits for all of them. The returned error is non-nil when the run
// could not start, in which case the result is nil, or when at least one
// worker failed, in which case it equals Result.Err.
func (l *BenchmarkRunner) RunBenchmark(ctx context.Context) (*Result, error) {
	if l.State() != Configuring {
		return nil, errors.Errorf("benchmark runner already used, state %s", l.State())
	}

	if !l.SkipCreate {
		l.setState(CreatingSchema)
		if err := l.useDBCreator(l.target.DBCreator()); err != nil {
			l.setState(Failed)
			return nil, err
		}
	}

	l.setState(Dispatching)
	ranges := Partition(l.Tables, l.Workers)
	writers, err := l.openWriters()
	if err != nil {
		l.setState(Failed)
		return nil, err
	}

	l.setState(Running)
	reportCtx, stopReport := context.WithCancel(ctx)
	reportDone := make(chan struct{})
	if l.ReportingPeriod > 0 {
		go func() {
			defer close(reportDone)
			l.report(reportCtx, l.ReportingPeriod)
		}()
	} else {
		close(reportDone)
	}

	var wg sync.WaitGroup
	start := time.Now()
	for i, r := range ranges {
		wg.Add(1)
		go l.work(ctx, &wg, writers[i], r, i)
	}

	wg.Wait()
	end := time.Now()
	stopReport()
	<-reportDone
	l.setState(Draining)

	res := l.result(end.Sub(start))
	l.summary(res)
	if l.ResultsFile != "" {
		if err := l.saveTestResult(res, start, end); err != nil {
			logrus.WithError(err).WithField("file", l.ResultsFile).Error("could not save results")
		}
	}
	if res.Err != nil {
		l.setState(Failed)
		return res, res.Err
	}
	l.setState(Done)
	return res, nil
}

// useDBCreator prepares the database: it drops an existing one when allowed,
// creates it and, for protocols writing into declared tables, creates the
// super table and every child table.
func (l *BenchmarkRunner) useDBCreator(dbc targets.DBCreator) (err error) {
	if dbcc, ok := dbc.(targets.DBCreatorCloser); ok {
		defer func() {
			if cerr := dbcc.Close(); cerr != nil && err == nil {
				err = errors.Wrap(cerr, "could not close db creator")
			}
		}()
	}

	if err := dbc.Init(); err != nil {
		return errors.Wrap(err, "could not initialize db creator")
	}

	exists, err := dbc.DBExists(l.DBName)
	if err != nil {
		return err
	}
	if exists {
		if !l.DropExisting {
			if l.NonInteractive {
				return errors.Wrapf(ErrDBExists, "%q, use -y to drop it", l.DBName)
			}
			if !l.confirm(fmt.Sprintf("database %q exists, drop it and continue?", l.DBName)) {
				return errors.Wrapf(ErrDBExists, "%q, not dropped", l.DBName)
			}
		}
		logrus.WithField("db", l.DBName).Info("dropping existing database")
		if err := dbc.RemoveOldDB(l.DBName); err != nil {
			return err
		}
	}
	if err := dbc.CreateDB(l.DBName); err != nil {
		return err
	}

	tc, ok := dbc.(targets.TableCreator)
	if !ok || !l.target.RequiresSchema() {
		return nil
	}
	if err := tc.CreateTableGroup(l.DBName, l.SuperTable, l.schema); err != nil {
		return err
	}
	tables := make([]targets.TableRef, l.Tables)
	for i := range tables {
		tables[i] = l.tableRef(uint64(i))
	}
	if err := tc.CreateTables(l.DBName, l.SuperTable, tables, l.schema); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"db": l.DBName, "stable": l.SuperTable, "tables": l.Tables}).Info("schema created")
	return nil
}

// openWriters opens one writer per worker. When one fails the ones already
// open are closed again and no worker starts.
func (l *BenchmarkRunner) openWriters() ([]targets.Writer, error) {
	writers := make([]targets.Writer, 0, l.Workers)
	for i := 0; i < int(l.Workers); i++ {
		w, err := l.target.NewWriter(i)
		if err != nil {
			for _, opened := range writers {
				closeWriter(opened)
			}
			return nil, errors.Wrapf(err, "could not open writer of worker %d", i)
		}
		writers = append(writers, w)
	}
	return writers, nil
}

func closeWriter(w targets.Writer) {
	if wc, ok := w.(targets.WriterCloser); ok {
		if err := wc.Close(); err != nil {
			logrus.WithError(err).Warn("could not close writer")
		}
	}
}

func (l *BenchmarkRunner) tableRef(i uint64) targets.TableRef {
	return targets.TableRef{
		Database:   l.DBName,
		SuperTable: l.SuperTable,
		Name:       fmt.Sprintf("%s%d", l.TablePrefix, i),
		Index:      i,
		Tags:       l.generator.TagValues(l.seeds.TagRand(i)),
	}
}

type tableState struct {
	ref targets.TableRef
	rng *rand.Rand
}

// work is the processing function for each worker in the loader. Each write
// step of the schedule writes its slice of rows to every table of r, in table
// order, so a round's rows of one table go out as a single write.
func (l *BenchmarkRunner) work(ctx context.Context, wg *sync.WaitGroup, w targets.Writer, r TableRange, workerNum int) {
	defer wg.Done()
	defer closeWriter(w)
	if r.Len() == 0 {
		return
	}

	tables := make([]tableState, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		tables = append(tables, tableState{ref: l.tableRef(i), rng: l.seeds.Rand(i)})
	}

	var limiter *rate.Limiter
	if l.RowsPerSecond > 0 {
		burst := int(l.BatchSize)
		if int(l.RowsPerSecond) > burst {
			burst = int(l.RowsPerSecond)
		}
		limiter = rate.NewLimiter(rate.Limit(l.RowsPerSecond), burst)
	}

	hist := newLatencyHistogram()
	defer l.mergeLatency(hist)

	rows := make([]*data.Row, 0, l.BatchSize)
	startedWorkAt := time.Now()
	for _, step := range l.schedule.Steps() {
		if step.Kind == insertstrategy.StepSleep {
			slept := l.sleepRegulator.Sleep(workerNum, startedWorkAt)
			l.sleepCnt.Inc()
			if l.DebugSleep {
				logrus.WithFields(logrus.Fields{"worker": workerNum, "duration": slept}).Info("sleep")
			}
			continue
		}

		startedWorkAt = time.Now()
		for i := range tables {
			t := &tables[i]
			rows = rows[:0]
			for row := step.Offset; row < step.Offset+step.Rows; row++ {
				rows = append(rows, l.generator.NextRow(row, t.rng))
			}
			if err := l.write(ctx, w, limiter, hist, t.ref, rows); err != nil {
				l.fail(workerNum, t.ref, err)
				return
			}
		}
	}
}

func (l *BenchmarkRunner) write(ctx context.Context, w targets.Writer, limiter *rate.Limiter, hist *hdrhistogram.Histogram, t targets.TableRef, rows []*data.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if limiter != nil {
		if err := limiter.WaitN(ctx, len(rows)); err != nil {
			return err
		}
	}
	start := time.Now()
	res, err := w.Write(ctx, t, rows)
	if err != nil {
		return err
	}
	recordLatency(hist, time.Since(start))
	l.rowCnt.Add(res.Rows)
	l.batchCnt.Inc()
	return nil
}

func (l *BenchmarkRunner) fail(workerNum int, t targets.TableRef, err error) {
	err = errors.Wrapf(err, "worker %d failed writing table %s", workerNum, t.Name)
	logrus.WithError(err).WithField("worker", workerNum).Error("worker stopped")
	l.mu.Lock()
	l.failures = append(l.failures, err)
	l.mu.Unlock()
}

func (l *BenchmarkRunner) mergeLatency(h *hdrhistogram.Histogram) {
	l.mu.Lock()
	l.latency.Merge(h)
	l.mu.Unlock()
}

func (l *BenchmarkRunner) result(took time.Duration) *Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, quantiles := generateQuantileMap(l.latency)
	res := &Result{
		Rows:          l.rowCnt.Load(),
		Batches:       l.batchCnt.Load(),
		SleepEvents:   l.sleepCnt.Load(),
		FailedWorkers: len(l.failures),
		Took:          took,
		Latency:       quantiles,
	}
	if len(l.failures) > 0 {
		res.FirstErr = l.failures[0]
		res.Err = multierror.Append(nil, l.failures...)
	}
	return res
}

// summary prints the summary of statistics from loading
func (l *BenchmarkRunner) summary(res *Result) {
	rowRate := float64(res.Rows) / res.Took.Seconds()
	printFn("\nSummary:\n")
	printFn("loaded %d rows in %0.3fsec with %d workers (mean rate %0.2f rows/sec)\n", res.Rows, res.Took.Seconds(), l.Workers, rowRate)
	printFn("%d writes, %d pauses, %d failed workers\n", res.Batches, res.SleepEvents, res.FailedWorkers)
	printFn("write latency (ms): mean %0.2f, p50 %0.2f, p90 %0.2f, p99 %0.2f, max %0.2f\n",
		res.Latency["mean"], res.Latency["q50"], res.Latency["q90"], res.Latency["q99"], res.Latency["q100"])
}

// report handles periodic reporting of loading stats
func (l *BenchmarkRunner) report(ctx context.Context, period time.Duration) {
	start := time.Now()
	prevTime := start
	prevRowCount := uint64(0)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	printFn("time,per. row/s,row total,overall row/s,writes,pauses\n")
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rCount := l.rowCnt.Load()
			sinceStart := now.Sub(start)
			took := now.Sub(prevTime)
			rowrate := float64(rCount-prevRowCount) / took.Seconds()
			overallRowRate := float64(rCount) / sinceStart.Seconds()
			printFn("%d,%0.2f,%E,%0.2f,%d,%d\n", now.Unix(), rowrate, float64(rCount), overallRowRate, l.batchCnt.Load(), l.sleepCnt.Load())

			prevRowCount = rCount
			prevTime = now
		}
	}
}

func confirmFromStdin(question string) bool {
	printFn("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
