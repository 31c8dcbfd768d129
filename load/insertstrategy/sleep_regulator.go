package insertstrategy

import (
	"fmt"
	"math/rand"
	"time"
)

type nowProviderFn func() time.Time
type sleepFn func(time.Duration)
type generateSleepTimeFn func() time.Duration

// SleepRegulator keeps the interval each load worker waits between
// consecutive write rounds. Sleep blocks the calling worker for what is left
// of its interval and returns how long it actually slept.
type SleepRegulator interface {
	// Sleep makes the goroutine of worker workerNum sleep until
	// startedWorkAt plus the worker's interval. Time spent writing since
	// startedWorkAt is not slept again.
	Sleep(workerNum int, startedWorkAt time.Time) time.Duration
}

type noWait struct{}

// NoWait returns a sleep regulator that doesn't make any worker sleep, at all.
func NoWait() SleepRegulator {
	return &noWait{}
}

func (n *noWait) Sleep(int, time.Time) time.Duration {
	return 0
}

type sleepRegulator struct {
	sleepTimes map[int]generateSleepTimeFn
	nowFn      nowProviderFn
	sleepFn    sleepFn
}

// NewSleepRegulator returns an implementation of the SleepRegulator interface,
// the insertIntervalString is parsed for a given number of workers (numWorkers).
// Intervals are the minimum time between the start of two consecutive write
// rounds, expressed in multiples of unit, as a constant or a range:
// numWorkers=2, string='0,1' => worker '0' writes ASAP, worker '1' waits at least 1 unit
// numWorkers=2, string='2'=> worker '0' and all workers after it wait at least 2 units
// numWorkers=3, string='1,2' => worker '0' waits 1 unit, workers '1' and '2' wait 2 units
// numWorkers=1, string='0-1' => worker '0' waits a random [0,1) units
// numWorkers=3, string='1,2-4'=> worker '0' waits 1 unit, workers '1' and '2' wait [2,4) units
func NewSleepRegulator(insertIntervalString string, unit time.Duration, numWorkers int, initialRand *rand.Rand) (SleepRegulator, error) {
	if numWorkers <= 0 {
		return nil, fmt.Errorf("number of workers must be positive, can't be %d", numWorkers)
	}
	if unit <= 0 {
		return nil, fmt.Errorf("interval unit must be positive, can't be %v", unit)
	}

	sleepTimes, err := parseInsertIntervalString(insertIntervalString, unit, numWorkers, initialRand)
	if err != nil {
		return nil, err
	}

	return &sleepRegulator{
		sleepTimes: sleepTimes,
		nowFn:      time.Now,
		sleepFn:    time.Sleep,
	}, nil
}

func (s *sleepRegulator) Sleep(workerNum int, startedWorkAt time.Time) time.Duration {
	sleepGenerator, ok := s.sleepTimes[workerNum]
	if !ok {
		panic(fmt.Sprintf("invalid worker number: %d", workerNum))
	}

	// the worker should sleep this long between rounds
	timeToSleep := sleepGenerator()
	// if started work at x, should sleep until x+timeToSleep
	shouldSleepUntil := startedWorkAt.Add(timeToSleep)
	now := s.nowFn()
	// if writing took more time than required to sleep between rounds
	if !shouldSleepUntil.After(now) {
		return 0
	}

	durationToSleep := shouldSleepUntil.Sub(now)
	s.sleepFn(durationToSleep)
	return durationToSleep
}
