package load

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// write latencies are recorded in microseconds, up to one minute
	minLatencyMicros  = 1
	maxLatencyMicros  = int64(time.Minute / time.Microsecond)
	latencySigFigures = 3
	microsPerMilli    = 10e2
)

func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minLatencyMicros, maxLatencyMicros, latencySigFigures)
}

// recordLatency adds d to h, clamped to the histogram's trackable range.
func recordLatency(h *hdrhistogram.Histogram, d time.Duration) {
	v := d.Microseconds()
	if v < minLatencyMicros {
		v = minLatencyMicros
	} else if v > maxLatencyMicros {
		v = maxLatencyMicros
	}
	_ = h.RecordValue(v)
}

// generateQuantileMap summarizes h in milliseconds.
func generateQuantileMap(hist *hdrhistogram.Histogram) (int64, map[string]float64) {
	ops := hist.TotalCount()
	mean := 0.0
	q50 := 0.0
	q90 := 0.0
	q99 := 0.0
	q100 := 0.0
	if ops > 0 {
		mean = hist.Mean() / microsPerMilli
		q50 = float64(hist.ValueAtQuantile(50.0)) / microsPerMilli
		q90 = float64(hist.ValueAtQuantile(90.0)) / microsPerMilli
		q99 = float64(hist.ValueAtQuantile(99.0)) / microsPerMilli
		q100 = float64(hist.Max()) / microsPerMilli
	}

	mp := map[string]float64{"mean": mean, "q50": q50, "q90": q90, "q99": q99, "q100": q100}
	return ops, mp
}
