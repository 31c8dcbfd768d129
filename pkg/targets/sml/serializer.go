package sml

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/tdbench/tdbench/pkg/data"
	"github.com/tdbench/tdbench/pkg/schema"
	"github.com/tdbench/tdbench/pkg/targets"
	"github.com/tdbench/tdbench/pkg/targets/constants"
)

const (
	contentTypeText = "text/plain"
	contentTypeJSON = "application/json"

	// childTableTag carries the child table name in every encoding, so
	// tables with equal tag values stay apart
	childTableTag = "id"
)

var (
	keyEscaper    = strings.NewReplacer(",", `\,`, "=", `\=`, " ", `\ `)
	stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
)

// serializer renders rows of one table in a schemaless encoding.
type serializer interface {
	contentType() string
	path(db string) string
	serialize(buf *bytes.Buffer, t targets.TableRef, rows []*data.Row) error
}

func newSerializer(protocol string, s *schema.Schema) (serializer, bool) {
	switch protocol {
	case constants.SMLLine, "":
		return &lineSerializer{schema: s}, true
	case constants.SMLTelnet:
		return &telnetSerializer{schema: s}, true
	case constants.SMLJSON:
		return &jsonSerializer{schema: s}, true
	}
	return nil, false
}

// lineSerializer writes InfluxDB line protocol with typed field values:
//
// <stable>,id=<table>,<tag>=<value>,... <column>=<typed value>,... <timestamp ms>\n
//
// For example:
// meters,id=d0,t0=3,t1=abc c0=1i8,c1="x",c2=L"y" 1500000000000\n
type lineSerializer struct {
	schema *schema.Schema
}

func (s *lineSerializer) contentType() string { return contentTypeText }

func (s *lineSerializer) path(db string) string {
	return "/influxdb/v1/write?db=" + url.QueryEscape(db) + "&precision=ms"
}

func (s *lineSerializer) serialize(buf *bytes.Buffer, t targets.TableRef, rows []*data.Row) error {
	for _, r := range rows {
		buf.WriteString(keyEscaper.Replace(t.SuperTable))
		buf.WriteString("," + childTableTag + "=")
		buf.WriteString(keyEscaper.Replace(t.Name))
		for i, v := range t.Tags {
			buf.WriteByte(',')
			buf.WriteString(keyEscaper.Replace(s.schema.Tag(i).Name))
			buf.WriteByte('=')
			buf.WriteString(keyEscaper.Replace(rawValue(v)))
		}
		for i, v := range r.Values {
			if i == 0 {
				buf.WriteByte(' ')
			} else {
				buf.WriteByte(',')
			}
			f := s.schema.Column(i)
			buf.WriteString(keyEscaper.Replace(f.Name))
			buf.WriteByte('=')
			appendTyped(buf, f.Type, v)
		}
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatInt(r.Timestamp, 10))
		buf.WriteByte('\n')
	}
	return nil
}

// telnetSerializer writes the OpenTSDB telnet format, one line per row
// carrying the first column:
//
// <stable> <timestamp ms> <typed value> id=<table> <tag>=<typed value> ...\n
type telnetSerializer struct {
	schema *schema.Schema
}

func (s *telnetSerializer) contentType() string { return contentTypeText }

func (s *telnetSerializer) path(db string) string {
	return "/opentsdb/v1/put/telnet/" + url.PathEscape(db)
}

func (s *telnetSerializer) serialize(buf *bytes.Buffer, t targets.TableRef, rows []*data.Row) error {
	first := s.schema.Column(0)
	for _, r := range rows {
		buf.WriteString(keyEscaper.Replace(t.SuperTable))
		buf.WriteByte(' ')
		buf.WriteString(strconv.FormatInt(r.Timestamp, 10))
		buf.WriteByte(' ')
		appendTyped(buf, first.Type, r.Values[0])
		buf.WriteString(" " + childTableTag + "=")
		buf.WriteString(keyEscaper.Replace(t.Name))
		for i, v := range t.Tags {
			f := s.schema.Tag(i)
			buf.WriteByte(' ')
			buf.WriteString(keyEscaper.Replace(f.Name))
			buf.WriteByte('=')
			appendTyped(buf, f.Type, v)
		}
		buf.WriteByte('\n')
	}
	return nil
}

// jsonValue is the typed value object of the OpenTSDB JSON format.
type jsonValue struct {
	Value interface{} `json:"value"`
	Type  string      `json:"type"`
}

type jsonPoint struct {
	Metric    string                 `json:"metric"`
	Timestamp jsonValue              `json:"timestamp"`
	Value     jsonValue              `json:"value"`
	Tags      map[string]interface{} `json:"tags"`
}

// jsonSerializer writes an OpenTSDB JSON array, one point per row carrying
// the first column.
type jsonSerializer struct {
	schema *schema.Schema
}

func (s *jsonSerializer) contentType() string { return contentTypeJSON }

func (s *jsonSerializer) path(db string) string {
	return "/opentsdb/v1/put/json/" + url.PathEscape(db)
}

func (s *jsonSerializer) serialize(buf *bytes.Buffer, t targets.TableRef, rows []*data.Row) error {
	tags := make(map[string]interface{}, len(t.Tags)+1)
	tags[childTableTag] = t.Name
	for i, v := range t.Tags {
		f := s.schema.Tag(i)
		tags[f.Name] = jsonValue{Value: v, Type: f.Type.String()}
	}
	first := s.schema.Column(0)
	points := make([]jsonPoint, len(rows))
	for i, r := range rows {
		points[i] = jsonPoint{
			Metric:    t.SuperTable,
			Timestamp: jsonValue{Value: r.Timestamp, Type: "ms"},
			Value:     jsonValue{Value: r.Values[0], Type: first.Type.String()},
			Tags:      tags,
		}
	}
	return json.NewEncoder(buf).Encode(points)
}

// appendTyped writes v with the type suffix of schemaless ingestion.
func appendTyped(buf *bytes.Buffer, t schema.DataType, v interface{}) {
	switch t {
	case schema.Binary, schema.JSON:
		buf.WriteByte('"')
		buf.WriteString(stringEscaper.Replace(rawValue(v)))
		buf.WriteByte('"')
		return
	case schema.NChar:
		buf.WriteString(`L"`)
		buf.WriteString(stringEscaper.Replace(rawValue(v)))
		buf.WriteByte('"')
		return
	}
	buf.WriteString(rawValue(v))
	buf.WriteString(typeSuffix(t))
}

func typeSuffix(t schema.DataType) string {
	switch t {
	case schema.TinyInt:
		return "i8"
	case schema.SmallInt:
		return "i16"
	case schema.Int:
		return "i32"
	case schema.BigInt, schema.Timestamp:
		return "i64"
	case schema.UTinyInt:
		return "u8"
	case schema.USmallInt:
		return "u16"
	case schema.UInt:
		return "u32"
	case schema.UBigInt:
		return "u64"
	case schema.Float:
		return "f32"
	case schema.Double:
		return "f64"
	}
	return ""
}

// rawValue renders v without quoting or type suffix.
func rawValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
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
	}
	return ""
}
