package common

import (
	"fmt"
	"strings"

	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
)

const (
	timestampColumn = "ts"
	placeholder     = "?"
)

// SQLBuilder renders the statements sent by SQL speaking protocols. The
// zero value renders unescaped table names.
type SQLBuilder struct {
	// Escape wraps table and super table names in backticks
	Escape bool
}

// TableName qualifies name with db, escaping name when configured.
func (b SQLBuilder) TableName(db, name string) string {
	if b.Escape {
		name = "`" + name + "`"
	}
	if db == "" {
		return name
	}
	return db + "." + name
}

// CreateDatabase renders the CREATE DATABASE statement. A vgroups value of
// 0 leaves the server default.
func (b SQLBuilder) CreateDatabase(db string, replica, vgroups int) string {
	var sb strings.Builder
	sb.WriteString("CREATE DATABASE IF NOT EXISTS ")
	sb.WriteString(db)
	if replica > 0 {
		fmt.Fprintf(&sb, " REPLICA %d", replica)
	}
	if vgroups > 0 {
		fmt.Fprintf(&sb, " VGROUPS %d", vgroups)
	}
	sb.WriteString(" PRECISION 'ms'")
	return sb.String()
}

func (b SQLBuilder) DropDatabase(db string) string {
	return "DROP DATABASE IF EXISTS " + db
}

// DatabaseExists renders a query returning one row when db exists.
func (b SQLBuilder) DatabaseExists(db string) string {
	return "SELECT name FROM information_schema.ins_databases WHERE name = " + Literal(db)
}

// CreateSuperTable renders the super table of s, with a leading timestamp column.
func (b SQLBuilder) CreateSuperTable(db, stable string, s *schema.Schema) string {
	var sb strings.Builder
	sb.WriteString("CREATE STABLE IF NOT EXISTS ")
	sb.WriteString(b.TableName(db, stable))
	sb.WriteString(" (")
	sb.WriteString(timestampColumn)
	sb.WriteString(" TIMESTAMP")
	for _, f := range s.Columns() {
		sb.WriteString(", ")
		sb.WriteString(f.SQLDefinition())
	}
	sb.WriteString(") TAGS (")
	for i, f := range s.Tags() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.SQLDefinition())
	}
	sb.WriteString(")")
	return sb.String()
}

// CreateChildTables renders one statement creating all of tables from stable.
func (b SQLBuilder) CreateChildTables(db, stable string, tables []targets.TableRef) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE")
	for _, t := range tables {
		sb.WriteString(" IF NOT EXISTS ")
		sb.WriteString(b.TableName(db, t.Name))
		sb.WriteString(" USING ")
		sb.WriteString(b.TableName(db, stable))
		sb.WriteString(" TAGS (")
		for i, v := range t.Tags {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(Literal(v))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Insert renders a literal multi-row INSERT of rows into t.
func (b SQLBuilder) Insert(t targets.TableRef, rows []*data.Row) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(b.TableName(t.Database, t.Name))
	sb.WriteString(" VALUES ")
	for _, r := range rows {
		sb.WriteByte('(')
		sb.WriteString(Literal(r.Timestamp))
		for _, v := range r.Values {
			sb.WriteByte(',')
			sb.WriteString(Literal(v))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// InsertTemplate renders an INSERT of numRows rows of numColumns columns plus
// the timestamp, with placeholders for every value.
func (b SQLBuilder) InsertTemplate(t targets.TableRef, numRows, numColumns int) string {
	group := "(" + strings.TrimSuffix(strings.Repeat(placeholder+",", numColumns+1), ",") + ")"
	return "INSERT INTO " + b.TableName(t.Database, t.Name) + " VALUES " + strings.Repeat(group, numRows)
}
