package data

// Row is one synthesized record: a timestamp in milliseconds since the Unix
// epoch followed by one value per schema column, in column order.
//
// Values hold the Go type matching the column's schema.DataType: bool, int8,
// int16, int32, int64, uint8, uint16, uint32, uint64, float32, float64, string
// (binary, nchar and json) or int64 milliseconds (timestamp).
type Row struct {
	Timestamp int64
	Values    []interface{}
}
