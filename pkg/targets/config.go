package targets

import (
	"fmt"
	"strconv"

	"github.com/tdbench/tdbench/pkg/targets/constants"
)

// Connection defaults
const (
	DefaultHost     = "localhost"
	DefaultPort     = 6030
	DefaultRESTPort = 6041
	DefaultUser     = "root"
	DefaultPassword = "taosdata"
	DefaultDriver   = "taosWS"

	// DefaultTableBatch is the number of child tables created per statement
	DefaultTableBatch = 100
)

// Config holds what every protocol needs to reach the server and how DDL
// is rendered.
type Config struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	RESTPort int    `yaml:"rest-port" mapstructure:"rest-port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`

	// Driver is the database/sql driver name used by the taosc and stmt protocols
	Driver string `yaml:"driver" mapstructure:"driver"`
	// DSN overrides the data source name derived from the fields above
	DSN string `yaml:"dsn" mapstructure:"dsn"`

	Replica int `yaml:"replica" mapstructure:"replica"`
	VGroups int `yaml:"vgroups" mapstructure:"vgroups"`
	// TableBatch bounds the number of tables per CREATE TABLE statement
	TableBatch int `yaml:"table-batch" mapstructure:"table-batch"`

	// Escape wraps table names in backticks
	Escape bool `yaml:"escape" mapstructure:"escape"`
	// PrintSQL logs every statement sent to the server
	PrintSQL bool `yaml:"print-sql" mapstructure:"print-sql"`

	// SMLProtocol is one of constants.SupportedSMLProtocols
	SMLProtocol string `yaml:"sml-protocol" mapstructure:"sml-protocol"`
}

// DefaultConfig returns the config used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		RESTPort:    DefaultRESTPort,
		User:        DefaultUser,
		Password:    DefaultPassword,
		Driver:      DefaultDriver,
		Replica:     1,
		TableBatch:  DefaultTableBatch,
		SMLProtocol: constants.SMLLine,
	}
}

// DataSourceName returns the DSN for database/sql. The websocket driver
// talks to the REST port, the native driver to the server port.
func (c Config) DataSourceName() string {
	if c.DSN != "" {
		return c.DSN
	}
	switch c.Driver {
	case "taosWS":
		return fmt.Sprintf("%s:%s@ws(%s)/", c.User, c.Password, c.RESTAddr())
	case "taosRestful":
		return fmt.Sprintf("%s:%s@http(%s)/", c.User, c.Password, c.RESTAddr())
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/", c.User, c.Password, c.Host, c.Port)
}

// RESTAddr returns host:port of the REST endpoint.
func (c Config) RESTAddr() string {
	return c.Host + ":" + strconv.Itoa(c.RESTPort)
}
