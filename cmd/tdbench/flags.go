package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/tdbench/tdbench/load"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/constants"
)

func addLoadFlags(fs *pflag.FlagSet) {
	runner := load.DefaultConfig()
	target := targets.DefaultConfig()

	// workload
	fs.Uint64P("tables", "t", runner.Tables, "Number of child tables")
	fs.Uint64P("rows", "n", runner.RowsPerTable, "Number of rows per child table")
	fs.Uint64P("batch-size", "B", runner.BatchSize, "Rows written per table in one write")
	fs.UintP("workers", "T", runner.Workers, "Number of parallel workers, each with its own connection")
	fs.StringP("db-name", "d", runner.DBName, "Name of database")
	fs.String("stable", runner.SuperTable, "Name of the super table")
	fs.StringP("table-prefix", "m", runner.TablePrefix, "Prefix of child table names")
	fs.Int64P("seed", "S", runner.Seed, "PRNG seed (default: 0, which uses the current timestamp)")
	fs.String("start-timestamp", "", "Timestamp of the first row, RFC3339 or milliseconds (default 1500000000000)")
	fs.Int64("time-step", runner.TimeStep, "Milliseconds between consecutive rows of a table")
	fs.Bool("chinese", false, "Fill nchar values with Chinese characters")

	// pacing
	fs.StringP("interval", "i", "",
		"Time to wait between write rounds, default '' => all workers write ASAP. '1,2' = worker 1 waits 1 unit "+
			"between rounds, worker 2 and others wait 2 units, '1-3' = random wait in [1,3) units")
	fs.Duration("interval-unit", runner.IntervalUnit, "Unit of the values given with --interval")
	fs.BoolP("repeat-sleep", "r", false, "Sleep once more after the last write")
	fs.BoolP("debug-sleep", "G", false, "Log every sleep step")
	fs.Float64("rows-per-second", 0, "Rate limit of rows written per second per worker (0 = no limit)")

	// schema
	fs.StringP("data-type", "b", "",
		"Column types, comma separated [name:]type[(width)] tokens (default "+strings.Join(schema.DefaultColumnTokens, ",")+"), "+
			"valid types: "+strings.Join(schema.SupportedTypes(), ", "))
	fs.StringP("tag-type", "A", "", "Tag types in the same format (default "+strings.Join(schema.DefaultTagTokens, ",")+")")
	fs.IntP("binwidth", "w", schema.DefaultWidth, "Width of binary, nchar and json values without an explicit width")
	fs.IntP("columns", "l", 0, "Pad the columns with int columns up to this count")

	// database
	fs.StringP("protocol", "I", constants.ProtocolTaosc, "Insert protocol, valid: "+strings.Join(constants.SupportedProtocols(), ", "))
	fs.String("sml-protocol", target.SMLProtocol, "Encoding of the sml protocol, valid: "+strings.Join(constants.SupportedSMLProtocols(), ", "))
	fs.BoolP("no-create", "N", false, "Write into existing tables, don't create the database and tables")
	fs.BoolP("non-interactive", "x", false, "Don't ask before dropping an existing database, fail instead")
	fs.BoolP("yes", "y", false, "Drop an existing database without asking")
	fs.IntP("replica", "a", target.Replica, "Replica of the created database")
	fs.Int("vgroups", 0, "Vgroups of the created database (0 = server default)")
	fs.Int("table-batch", target.TableBatch, "Number of child tables created per statement")
	fs.BoolP("escape", "E", false, "Quote table names with backticks")
	fs.BoolP("print-sql", "C", false, "Log every SQL statement")

	// connection
	fs.StringP("host", "h", target.Host, "Server host")
	fs.IntP("port", "P", target.Port, "Server port of the native protocol")
	fs.Int("rest-port", target.RESTPort, "Server port of the REST, websocket and schemaless protocols")
	fs.StringP("user", "u", target.User, "User name")
	fs.StringP("password", "p", target.Password, "Password")
	fs.String("driver", target.Driver, "database/sql driver of the taosc and stmt protocols: taosWS or taosRestful")
	fs.String("dsn", "", "Data source name, overrides host, port, user and password for the taosc and stmt protocols")

	// output
	fs.Duration("reporting-period", runner.ReportingPeriod, "Period to report write stats (0 = off)")
	fs.String("results-file", "", "Write the run results as JSON to this file")
	fs.String("profile", "", "Sample CPU and memory of this process into this CSV file")
}
