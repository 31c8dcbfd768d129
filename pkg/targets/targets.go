package targets

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/targets/constants"
)

// ErrUnknownProtocol is returned for insert protocol names that are not supported.
var ErrUnknownProtocol = errors.New("unknown insert protocol")

// Protocol selects how rows reach the database.
type Protocol int

// Supported protocols
const (
	Native Protocol = iota
	REST
	Stmt
	Schemaless
)

var protocolNames = map[Protocol]string{
	Native:     constants.ProtocolTaosc,
	REST:       constants.ProtocolREST,
	Stmt:       constants.ProtocolStmt,
	Schemaless: constants.ProtocolSML,
}

// ParseProtocol resolves a protocol name as given on the command line.
func ParseProtocol(name string) (Protocol, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range protocolNames {
		if n == name {
			return p, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownProtocol, "%q, supported: %s", name, strings.Join(constants.SupportedProtocols(), ","))
}

func (p Protocol) String() string {
	if n, ok := protocolNames[p]; ok {
		return n
	}
	return fmt.Sprintf("Protocol(%d)", int(p))
}

// TableRef identifies one child table. Tags are only needed when the table
// is created or when the protocol carries tags with every write.
type TableRef struct {
	Database   string
	SuperTable string
	Name       string
	Index      uint64
	Tags       []interface{}
}

// WriteResult reports what a successful write stored.
type WriteResult struct {
	Rows uint64
}

// Writer delivers rows of one table to the database. A Writer belongs to a
// single worker and holds that worker's connection; it is not safe for
// concurrent use.
type Writer interface {
	Write(ctx context.Context, t TableRef, rows []*data.Row) (WriteResult, error)
}

// WriterCloser is a Writer that releases its connection when the worker is done.
type WriterCloser interface {
	Writer

	// Close cleans up the connection and any prepared state
	Close() error
}

// ImplementedTarget is a loadable protocol: it knows whether a schema must
// exist before writing, how to prepare the database and how to build
// per-worker writers.
type ImplementedTarget interface {
	Protocol() Protocol

	// RequiresSchema reports whether super and child tables must be created
	// before rows can be written
	RequiresSchema() bool

	// NewWriter opens the connection of worker workerNum
	NewWriter(workerNum int) (Writer, error)

	// DBCreator returns the creator used for the schema creation pass
	DBCreator() DBCreator
}
