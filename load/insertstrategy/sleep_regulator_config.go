package insertstrategy

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	intervalSeparator   = ","
	rangeSeparator      = "-"
	intervalFormatError = "worker interval could not be parsed as integer constant or range. Required: 'x' or 'x-y' | x,y are uint x<y"
)

// ErrInvalidInterval is returned for interval strings that don't parse.
var ErrInvalidInterval = errors.New(intervalFormatError)

// parseInsertIntervalString parses a string representation of insert intervals for a given
// number of workers (numWorkers), see NewSleepRegulator. Workers past the last
// listed interval reuse it. Error returned if numbers can't be parsed
func parseInsertIntervalString(insertIntervalString string, unit time.Duration, numWorkers int, initialRand *rand.Rand) (map[int]generateSleepTimeFn, error) {
	randsPerWorker := makeRandsForWorkers(numWorkers, initialRand)
	splitIntervals := splitIntervalString(insertIntervalString)
	numIntervals := len(splitIntervals)
	sleepGenerators := make(map[int]generateSleepTimeFn)
	currentInterval := 0
	var err error

	for i := 0; i < numWorkers; i++ {
		intervalToParse := splitIntervals[currentInterval]
		sleepGenerators[i], err = parseSingleIntervalString(intervalToParse, unit, randsPerWorker[i])
		if err != nil {
			return nil, err
		}

		if currentInterval < numIntervals-1 {
			currentInterval++
		}
	}

	return sleepGenerators, nil
}

// parses an insert interval string for a single worker,
// first it attempts to parse it as a constant, then as a range
func parseSingleIntervalString(rangeStr string, unit time.Duration, randForWorker *rand.Rand) (generateSleepTimeFn, error) {
	rangeStr = strings.TrimSpace(rangeStr)
	if number, err := strconv.Atoi(rangeStr); err == nil && number >= 0 {
		return newConstantSleepTimeGenerator(number, unit), nil
	}

	if numbers, err := attemptRangeParse(rangeStr); err == nil {
		return newRangeSleepTimeGenerator(numbers[0], numbers[1], unit, randForWorker), nil
	}

	return nil, errors.Wrapf(ErrInvalidInterval, "%q", rangeStr)
}

// attempts to parse a ranged sleep interval ('2-5')
// errors returned if interval is not split by -,
// parts are not integers or first part is a larger integer
// than the second
func attemptRangeParse(rangeString string) ([]int, error) {
	parts := strings.SplitN(rangeString, rangeSeparator, 2)
	if len(parts) != 2 {
		return nil, ErrInvalidInterval
	}

	var first, second int
	var err error
	if first, err = strconv.Atoi(parts[0]); err != nil {
		return nil, ErrInvalidInterval
	}

	if second, err = strconv.Atoi(parts[1]); err != nil {
		return nil, ErrInvalidInterval
	}

	if first < 0 || first >= second {
		return nil, ErrInvalidInterval
	}

	return []int{first, second}, nil
}

// splits a sleep interval config string ('1,2-5,4') to individual
// const or range sleep times ('1', '2-5','4')
func splitIntervalString(insertIntervalString string) []string {
	if insertIntervalString == "" {
		return []string{"0"}
	}
	return strings.Split(insertIntervalString, intervalSeparator)
}

// an initialRand generator is used to give the seeds for new rand generators
// that will be used by the workers when asking how much should they sleep
// used only for irregular sleep patterns
func makeRandsForWorkers(num int, initialRand *rand.Rand) []*rand.Rand {
	toReturn := make([]*rand.Rand, num)
	for i := 0; i < num; i++ {
		seed := initialRand.Int63()
		src := rand.NewSource(seed)
		toReturn[i] = rand.New(src)
	}

	return toReturn
}

// returns a function that always generates the same duration (maxSleepTime units)
func newConstantSleepTimeGenerator(maxSleepTime int, unit time.Duration) generateSleepTimeFn {
	maxSleepDuration := time.Duration(maxSleepTime) * unit
	return func() time.Duration {
		return maxSleepDuration
	}
}

// returns a function that can generate a random duration in the range [minSleepTime, maxSleepTime) units
func newRangeSleepTimeGenerator(minSleepTime, maxSleepTime int, unit time.Duration, randToUse *rand.Rand) generateSleepTimeFn {
	if randToUse == nil {
		panic("random number generator passed to range sleep generator was nil")
	}
	return func() time.Duration {
		sleep := minSleepTime + randToUse.Intn(maxSleepTime-minSleepTime)
		return time.Duration(sleep) * unit
	}
}
