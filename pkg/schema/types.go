package schema

import (
	"math"
	"strings"
)

// DataType is the closed set of column and tag types understood by the loader.
type DataType int

// Supported data types
const (
	Bool DataType = iota
	TinyInt
	SmallInt
	Int
	BigInt
	UTinyInt
	USmallInt
	UInt
	UBigInt
	Float
	Double
	Binary
	NChar
	Timestamp
	JSON
)

// DefaultWidth is the width given to binary, nchar and json fields declared
// without one, unless overridden for the run.
const DefaultWidth = 64

// JSONKey is the member name of generated json documents.
const JSONKey = "k0"

// MinJSONWidth is the size of the smallest generated json document, an
// object whose only member holds the empty string.
const MinJSONWidth = len(`{"":""}`) + len(JSONKey)

type typeInfo struct {
	token   string
	sqlName string
	size    int
	// variable width types accept (and need) a width
	variable bool
	min, max int64
}

var typeInfos = map[DataType]typeInfo{
	Bool:      {token: "bool", sqlName: "BOOL", size: 1, min: 0, max: 2},
	TinyInt:   {token: "tinyint", sqlName: "TINYINT", size: 1, min: -127, max: 127},
	SmallInt:  {token: "smallint", sqlName: "SMALLINT", size: 2, min: -32767, max: 32767},
	Int:       {token: "int", sqlName: "INT", size: 4, min: -math.MaxInt32, max: math.MaxInt32},
	BigInt:    {token: "bigint", sqlName: "BIGINT", size: 8, min: -math.MaxInt64 / 2, max: math.MaxInt64 / 2},
	UTinyInt:  {token: "utinyint", sqlName: "TINYINT UNSIGNED", size: 1, min: 0, max: math.MaxUint8 - 1},
	USmallInt: {token: "usmallint", sqlName: "SMALLINT UNSIGNED", size: 2, min: 0, max: math.MaxUint16 - 1},
	UInt:      {token: "uint", sqlName: "INT UNSIGNED", size: 4, min: 0, max: math.MaxUint32 - 1},
	UBigInt:   {token: "ubigint", sqlName: "BIGINT UNSIGNED", size: 8, min: 0, max: math.MaxInt64},
	Float:     {token: "float", sqlName: "FLOAT", size: 4, min: 0, max: 1000},
	Double:    {token: "double", sqlName: "DOUBLE", size: 8, min: 0, max: 1000},
	Binary:    {token: "binary", sqlName: "BINARY", variable: true},
	NChar:     {token: "nchar", sqlName: "NCHAR", variable: true},
	Timestamp: {token: "timestamp", sqlName: "TIMESTAMP", size: 8},
	JSON:      {token: "json", sqlName: "JSON", variable: true},
}

var tokenAliases = map[string]DataType{
	"varchar": Binary,
}

// ParseDataType resolves a type token such as "utinyint" or "NCHAR". It is
// the only place where type names are interpreted.
func ParseDataType(token string) (DataType, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	for t, info := range typeInfos {
		if info.token == token {
			return t, nil
		}
	}
	if t, ok := tokenAliases[token]; ok {
		return t, nil
	}
	return 0, ErrUnknownType
}

// String returns the token for t, as accepted by ParseDataType.
func (t DataType) String() string {
	if info, ok := typeInfos[t]; ok {
		return info.token
	}
	return "unknown"
}

// SQLName returns the type name the server reports for t in DESCRIBE output.
func (t DataType) SQLName() string {
	return typeInfos[t].sqlName
}

// HasWidth reports whether t is a variable width type.
func (t DataType) HasWidth() bool {
	return typeInfos[t].variable
}

// IsUnsigned reports whether t is one of the unsigned integer types.
func (t DataType) IsUnsigned() bool {
	switch t {
	case UTinyInt, USmallInt, UInt, UBigInt:
		return true
	}
	return false
}

// Bounds returns the half-open range [min, max) that random integral parts of
// values of type t are drawn from.
func (t DataType) Bounds() (min, max int64) {
	info := typeInfos[t]
	return info.min, info.max
}

// storageSize estimates the bytes one value of t occupies; width applies to
// variable width types only.
func (t DataType) storageSize(width int) int {
	switch t {
	case Binary, JSON:
		return width
	case NChar:
		return 4 * width
	}
	return typeInfos[t].size
}

// SupportedTypes lists every accepted type token.
func SupportedTypes() []string {
	ret := make([]string, 0, len(typeInfos))
	for t := Bool; t <= JSON; t++ {
		ret = append(ret, t.String())
	}
	return ret
}
