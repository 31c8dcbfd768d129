package insertstrategy

import "strings"

// StepKind is what a worker does in one step of its schedule.
type StepKind int

const (
	StepWrite StepKind = iota
	StepSleep
)

func (k StepKind) String() string {
	if k == StepSleep {
		return "S"
	}
	return "W"
}

// Step is one entry of a Schedule. Write steps cover rows
// [Offset, Offset+Rows) of every table of the worker; sleep steps carry no rows.
type Step struct {
	Kind   StepKind
	Offset uint64
	Rows   uint64
}

// Schedule is the ordered list of write and sleep steps each worker runs.
// Rows are split into ceil(rows/batch) writes with a sleep between every two
// writes. With repeatSleep one more sleep follows the last write.
type Schedule struct {
	steps   []Step
	batches uint64
	sleeps  uint64
}

// NewSchedule computes the schedule for tables of rowsPerTable rows written
// batchSize rows at a time. A zero batchSize is treated as 1. Zero rows
// give an empty schedule.
func NewSchedule(rowsPerTable, batchSize uint64, repeatSleep bool) Schedule {
	if batchSize == 0 {
		batchSize = 1
	}
	var s Schedule
	if rowsPerTable == 0 {
		return s
	}
	s.batches = (rowsPerTable + batchSize - 1) / batchSize
	s.steps = make([]Step, 0, 2*s.batches)
	for i := uint64(0); i < s.batches; i++ {
		if i > 0 {
			s.steps = append(s.steps, Step{Kind: StepSleep})
		}
		offset := i * batchSize
		rows := batchSize
		if offset+rows > rowsPerTable {
			rows = rowsPerTable - offset
		}
		s.steps = append(s.steps, Step{Kind: StepWrite, Offset: offset, Rows: rows})
	}
	s.sleeps = s.batches - 1
	if repeatSleep {
		s.steps = append(s.steps, Step{Kind: StepSleep})
		s.sleeps++
	}
	return s
}

// Steps returns the steps in execution order. The slice must not be modified.
func (s Schedule) Steps() []Step {
	return s.steps
}

// BatchCount returns the number of write steps.
func (s Schedule) BatchCount() uint64 {
	return s.batches
}

// SleepCount returns the number of sleep steps.
func (s Schedule) SleepCount() uint64 {
	return s.sleeps
}

// String renders the schedule as its step kinds, e.g. "W S W".
func (s Schedule) String() string {
	kinds := make([]string, len(s.steps))
	for i, st := range s.steps {
		kinds[i] = st.Kind.String()
	}
	return strings.Join(kinds, " ")
}
