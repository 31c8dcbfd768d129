package data

import (
	"encoding/json"
	"math/rand"
	"unicode/utf8"

	"github.com/tdbench/tdbench/pkg/schema"
)

const (
	// DefaultStartTimestamp is the run epoch, 2017-07-14T02:40:00Z, in milliseconds.
	DefaultStartTimestamp int64 = 1500000000000
	// DefaultTimeStep is the distance in milliseconds between consecutive rows of a table.
	DefaultTimeStep int64 = 1

	charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

	// basic CJK unified ideographs
	cjkFirst = 0x4e00
	cjkLast  = 0x9fa5

	// timestamp columns hold values within this many ms after the row timestamp
	timestampColumnSpread = 1000
)

// GeneratorConfig holds what, besides the schema, determines generated rows.
type GeneratorConfig struct {
	StartTimestamp int64
	TimeStep       int64
	// Chinese makes nchar values CJK ideographs instead of ASCII letters
	Chinese bool
}

// Generator synthesizes rows and tag values for a schema. It keeps no
// mutable state: randomness comes from the per-table *rand.Rand handed to
// each call, so one Generator is shared by all workers.
type Generator struct {
	schema *schema.Schema
	start  int64
	step   int64
	cjk    bool
}

// NewGenerator returns a Generator for s. Zero config values fall back to
// DefaultStartTimestamp and DefaultTimeStep.
func NewGenerator(s *schema.Schema, c GeneratorConfig) *Generator {
	g := &Generator{
		schema: s,
		start:  c.StartTimestamp,
		step:   c.TimeStep,
		cjk:    c.Chinese,
	}
	if g.start == 0 {
		g.start = DefaultStartTimestamp
	}
	if g.step <= 0 {
		g.step = DefaultTimeStep
	}
	return g
}

// Schema returns the schema rows are generated for.
func (g *Generator) Schema() *schema.Schema {
	return g.schema
}

// Timestamp returns the timestamp of the row-th row of any table.
func (g *Generator) Timestamp(row uint64) int64 {
	return g.start + int64(row)*g.step
}

// NextRow returns the row-th row of the table whose generator is rng. Rows
// of a table must be requested in order for the sequence to be reproducible.
func (g *Generator) NextRow(row uint64, rng *rand.Rand) *Row {
	ts := g.Timestamp(row)
	r := &Row{
		Timestamp: ts,
		Values:    make([]interface{}, g.schema.NumColumns()),
	}
	for i := range r.Values {
		r.Values[i] = g.value(g.schema.Column(i), ts, rng)
	}
	return r
}

// TagValues materializes one tuple of tag values.
func (g *Generator) TagValues(rng *rand.Rand) []interface{} {
	vals := make([]interface{}, g.schema.NumTags())
	for i := range vals {
		vals[i] = g.value(g.schema.Tag(i), g.start, rng)
	}
	return vals
}

func (g *Generator) value(f schema.Field, ts int64, rng *rand.Rand) interface{} {
	min, max := f.Type.Bounds()
	switch f.Type {
	case schema.Bool:
		return rng.Intn(2) == 1
	case schema.TinyInt:
		return int8(randRange(min, max, rng))
	case schema.SmallInt:
		return int16(randRange(min, max, rng))
	case schema.Int:
		return int32(randRange(min, max, rng))
	case schema.BigInt:
		return randRange(min, max, rng)
	case schema.UTinyInt:
		return uint8(randRange(min, max, rng))
	case schema.USmallInt:
		return uint16(randRange(min, max, rng))
	case schema.UInt:
		return uint32(randRange(min, max, rng))
	case schema.UBigInt:
		return uint64(randRange(min, max, rng))
	case schema.Float:
		return float32(randRange(min, max, rng)) + float32(rng.Intn(1000))/1000
	case schema.Double:
		return float64(randRange(min, max, rng)) + float64(rng.Intn(1000000))/1000000
	case schema.Binary:
		return randString(f.Width, rng)
	case schema.NChar:
		if g.cjk {
			return randCJK(f.Width, rng)
		}
		return randString(f.Width, rng)
	case schema.Timestamp:
		return ts + rng.Int63n(timestampColumnSpread)
	case schema.JSON:
		return randJSON(f.Width, rng)
	}
	panic("unhandled data type " + f.Type.String())
}

func randRange(min, max int64, rng *rand.Rand) int64 {
	return min + rng.Int63n(max-min)
}

func randString(width int, rng *rand.Rand) string {
	buf := make([]byte, width)
	for i := range buf {
		buf[i] = charset[rng.Intn(len(charset))]
	}
	return string(buf)
}

func randCJK(width int, rng *rand.Rand) string {
	buf := make([]byte, 0, width*utf8.UTFMax)
	for i := 0; i < width; i++ {
		buf = utf8.AppendRune(buf, rune(cjkFirst+rng.Intn(cjkLast-cjkFirst)))
	}
	return string(buf)
}

// randJSON returns an object with a single string member, width bytes long
// as a whole.
func randJSON(width int, rng *rand.Rand) string {
	out, _ := json.Marshal(map[string]string{schema.JSONKey: randString(width-schema.MinJSONWidth, rng)})
	return string(out)
}
