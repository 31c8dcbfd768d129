package common

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tdbench/tdbench/pkg/data"
)

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Literal renders v, one of the value types of data.Row, as a SQL literal.
func Literal(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return "'" + quoteReplacer.Replace(x) + "'"
	}
	return fmt.Sprintf("'%v'", v)
}

// Args flattens rows into the argument list of an InsertTemplate statement.
func Args(rows []*data.Row) []interface{} {
	if len(rows) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(rows)*(len(rows[0].Values)+1))
	for _, r := range rows {
		args = append(args, r.Timestamp)
		args = append(args, r.Values...)
	}
	return args
}
