package load

import (
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
)

const LoaderTestResultVersion = "0.1"

// LoaderTestResult is the machine readable record of one run, written to
// the results file.
type LoaderTestResult struct {
	// Format Configs
	ResultFormatVersion string `json:"ResultFormatVersion"`

	// RunnerConfig Configs
	RunnerConfig BenchmarkRunnerConfig `json:"RunnerConfig"`
	Protocol     string                `json:"Protocol"`

	// Run info
	StartTime      int64 `json:"StartTime"`
	EndTime        int64 `json:"EndTime"`
	DurationMillis int64 `json:"DurationMillis"`

	// Totals
	Totals map[string]interface{} `json:"Totals"`
}

func (l *BenchmarkRunner) saveTestResult(res *Result, start, end time.Time) error {
	totals := map[string]interface{}{
		"rows":          res.Rows,
		"writes":        res.Batches,
		"sleepEvents":   res.SleepEvents,
		"failedWorkers": res.FailedWorkers,
		"latencyMillis": res.Latency,
	}
	if res.Took > 0 {
		totals["rowRate"] = float64(res.Rows) / res.Took.Seconds()
	}
	if res.FirstErr != nil {
		totals["firstError"] = res.FirstErr.Error()
	}
	testResult := LoaderTestResult{
		ResultFormatVersion: LoaderTestResultVersion,
		RunnerConfig:        l.BenchmarkRunnerConfig,
		Protocol:            l.target.Protocol().String(),
		StartTime:           start.Unix(),
		EndTime:             end.Unix(),
		DurationMillis:      res.Took.Milliseconds(),
		Totals:              totals,
	}

	out, err := json.MarshalIndent(testResult, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode results")
	}
	return ioutil.WriteFile(l.ResultsFile, out, 0644)
}
