package data

import (
	"math/rand"
	"time"
)

// TableSeeds holds the generator seed of every table of a run, indexed by
// table number. Deriving all seeds up front from one initial generator keeps
// each table's values independent of which worker ends up writing it.
type TableSeeds []int64

// NewTableSeeds derives the seed of each of tables from seed. A seed of 0 uses the current
// time, in which case runs are not reproducible.
func NewTableSeeds(seed int64, tables uint64) TableSeeds {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	initialRand := rand.New(rand.NewSource(seed))
	seeds := make(TableSeeds, tables)
	for i := range seeds {
		seeds[i] = initialRand.Int63()
	}
	return seeds
}

// Rand returns a fresh generator for the given table. Calling it twice for
// the same table yields identical sequences.
func (s TableSeeds) Rand(table uint64) *rand.Rand {
	return rand.New(rand.NewSource(s[table]))
}

// TagRand returns the generator used to materialize a table's tag values.
// It is kept apart from Rand so creating tables does not shift row values.
func (s TableSeeds) TagRand(table uint64) *rand.Rand {
	return rand.New(rand.NewSource(^s[table]))
}
