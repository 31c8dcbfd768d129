package targets

import "github.com/tdbench/tdbench/pkg/schema"

// DBCreator is an interface for a benchmark to do the initial setup of a database
// in preparation for running a benchmark against it.
type DBCreator interface {
	// Init should set up any connection or other setup for talking to the DB, but should NOT create any databases
	Init() error

	// DBExists checks if a database with the given name currently exists.
	DBExists(dbName string) (bool, error)

	// CreateDB creates a database with the given name.
	CreateDB(dbName string) error

	// RemoveOldDB removes an existing database with the given name.
	RemoveOldDB(dbName string) error
}

// DBCreatorCloser is a DBCreator that also needs a Close method to cleanup any connections
// after the schema is created.
type DBCreatorCloser interface {
	DBCreator

	// Close cleans up any database connections
	Close() error
}

// TableCreator is a DBCreator for protocols that write into pre-declared
// tables. Both passes run once, before any worker starts.
type TableCreator interface {
	DBCreator

	// CreateTableGroup creates the super table stable in dbName with the
	// columns and tags of s.
	CreateTableGroup(dbName, stable string, s *schema.Schema) error

	// CreateTables creates the given child tables of stable, with their tags.
	CreateTables(dbName, stable string, tables []TableRef, s *schema.Schema) error
}
