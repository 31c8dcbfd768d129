package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	kindColumn = "column"
	kindTag    = "tag"

	columnPrefix = "c"
	tagPrefix    = "t"

	// timestampWidth is the size of the leading timestamp column of every row
	timestampWidth = 8
)

var (
	tokenRe = regexp.MustCompile(`^([a-z]+)(?:\((.*)\))?$`)
	nameRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Field is one column or tag.
type Field struct {
	Name  string
	Type  DataType
	Width int
}

// SQLDefinition renders the field as used in CREATE statements, e.g. "c1 NCHAR(16)".
func (f Field) SQLDefinition() string {
	if f.Type.HasWidth() && f.Type != JSON {
		return fmt.Sprintf("%s %s(%d)", f.Name, f.Type.SQLName(), f.Width)
	}
	return f.Name + " " + f.Type.SQLName()
}

// Options tune how Parse fills in what the tokens leave out.
type Options struct {
	// DefaultWidth replaces the package DefaultWidth when > 0
	DefaultWidth int
	// ColumnCount pads the columns with INT columns up to this count when > 0
	ColumnCount int
}

// Schema is a validated, immutable pair of column and tag definitions.
// It is safe to share between goroutines.
type Schema struct {
	columns []Field
	tags    []Field
}

// DefaultColumnTokens and DefaultTagTokens describe the schema used when no
// column or tag types are given.
var (
	DefaultColumnTokens = []string{"current:float", "voltage:int", "phase:float"}
	DefaultTagTokens    = []string{"groupid:int", "location:binary(24)"}
)

// SplitTokens splits a comma separated type list such as "int,binary(16)".
// An empty list yields no tokens.
func SplitTokens(list string) []string {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Parse validates columnTokens and tagTokens and returns the frozen Schema.
// Each token has the form [name:]type[(width)]. Parsing fails as a whole on
// the first bad token; nothing is returned partially.
func Parse(columnTokens, tagTokens []string, opts Options) (*Schema, error) {
	width := opts.DefaultWidth
	if width <= 0 {
		width = DefaultWidth
	}
	if len(columnTokens) == 0 {
		columnTokens = DefaultColumnTokens
	}
	if len(tagTokens) == 0 {
		tagTokens = DefaultTagTokens
	}

	columns, err := parseFields(kindColumn, columnPrefix, columnTokens, width)
	if err != nil {
		return nil, err
	}
	for i := len(columns); i < opts.ColumnCount; i++ {
		columns = append(columns, Field{Name: fmt.Sprintf("%s%d", columnPrefix, i), Type: Int})
	}
	if err := checkNames(kindColumn, columns); err != nil {
		return nil, err
	}

	tags, err := parseFields(kindTag, tagPrefix, tagTokens, width)
	if err != nil {
		return nil, err
	}
	if len(tags) > 1 {
		for i, t := range tags {
			if t.Type == JSON {
				return nil, &TypeError{Kind: kindTag, Token: tagTokens[i], Err: ErrJSONTagNotExclusive}
			}
		}
	}
	if err := checkNames(kindTag, tags); err != nil {
		return nil, err
	}

	return &Schema{columns: columns, tags: tags}, nil
}

// MustParse is like Parse but panics on error. Meant for fixtures.
func MustParse(columnTokens, tagTokens []string) *Schema {
	s, err := Parse(columnTokens, tagTokens, Options{})
	if err != nil {
		panic(err)
	}
	return s
}

func parseFields(kind, prefix string, tokens []string, defaultWidth int) ([]Field, error) {
	fields := make([]Field, 0, len(tokens))
	for i, token := range tokens {
		f, err := parseField(token, defaultWidth)
		if err != nil {
			return nil, &TypeError{Kind: kind, Token: token, Err: err}
		}
		if f.Name == "" {
			f.Name = fmt.Sprintf("%s%d", prefix, i)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseField(token string, defaultWidth int) (Field, error) {
	var f Field
	token = strings.TrimSpace(token)
	if token == "" {
		return f, ErrEmptyToken
	}
	if idx := strings.Index(token, ":"); idx >= 0 {
		f.Name = strings.TrimSpace(token[:idx])
		token = strings.TrimSpace(token[idx+1:])
		if !nameRe.MatchString(f.Name) {
			return f, ErrInvalidName
		}
	}

	m := tokenRe.FindStringSubmatch(strings.ToLower(token))
	if m == nil {
		if strings.ContainsAny(token, "()") {
			return f, ErrInvalidWidth
		}
		return f, ErrUnknownType
	}
	t, err := ParseDataType(m[1])
	if err != nil {
		return f, err
	}
	f.Type = t

	hasWidth := strings.HasSuffix(token, ")")
	switch {
	case hasWidth && !t.HasWidth():
		return f, ErrWidthNotAllowed
	case hasWidth:
		w, err := strconv.Atoi(strings.TrimSpace(m[2]))
		if err != nil || w <= 0 {
			return f, ErrInvalidWidth
		}
		f.Width = w
	case t.HasWidth():
		f.Width = defaultWidth
	}
	if t == JSON && f.Width < MinJSONWidth {
		return f, ErrInvalidWidth
	}
	return f, nil
}

func checkNames(kind string, fields []Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		key := strings.ToLower(f.Name)
		if _, ok := seen[key]; ok {
			return &TypeError{Kind: kind, Token: f.Name, Err: ErrDuplicateName}
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Columns returns a copy of the column definitions, in input order.
func (s *Schema) Columns() []Field {
	return append([]Field(nil), s.columns...)
}

// Tags returns a copy of the tag definitions, in input order.
func (s *Schema) Tags() []Field {
	return append([]Field(nil), s.tags...)
}

// NumColumns returns the number of columns, not counting the timestamp.
func (s *Schema) NumColumns() int {
	return len(s.columns)
}

// Column returns the i-th column.
func (s *Schema) Column(i int) Field {
	return s.columns[i]
}

// Tag returns the i-th tag.
func (s *Schema) Tag(i int) Field {
	return s.tags[i]
}

// NumTags returns the number of tags.
func (s *Schema) NumTags() int {
	return len(s.tags)
}

// HasJSONTag reports whether the tags are a single json tag.
func (s *Schema) HasJSONTag() bool {
	return len(s.tags) == 1 && s.tags[0].Type == JSON
}

// RowWidth estimates the bytes of one row including its timestamp.
// Only used for diagnostics.
func (s *Schema) RowWidth() int {
	return timestampWidth + fieldsWidth(s.columns)
}

// TagWidth estimates the bytes of one table's tag values.
func (s *Schema) TagWidth() int {
	return fieldsWidth(s.tags)
}

func fieldsWidth(fields []Field) int {
	ret := 0
	for _, f := range fields {
		ret += f.Type.storageSize(f.Width)
	}
	return ret
}
