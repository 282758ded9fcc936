package records

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/matzehuels/tablescope/pkg/errors"
)

// RecordSet is an immutable, ordered collection of records sharing one schema.
type RecordSet struct {
	fields []string
	index  map[string]int
	rows   [][]string
}

// Record is a read-only view of a single row.
type Record struct {
	rs  *RecordSet
	row int
}

// New creates a RecordSet from a schema and rows. Every row must have
// exactly one value per field. The rows are copied.
func New(fields []string, rows [][]string) (*RecordSet, error) {
	if err := errors.ValidateFieldNames(fields); err != nil {
		return nil, err
	}

	rs := &RecordSet{
		fields: append([]string(nil), fields...),
		index:  make(map[string]int, len(fields)),
		rows:   make([][]string, 0, len(rows)),
	}
	for i, f := range fields {
		rs.index[f] = i
	}

	for i, row := range rows {
		if len(row) != len(fields) {
			return nil, errors.InvalidInput("row %d has %d values, schema has %d fields", i+1, len(row), len(fields))
		}
		rs.rows = append(rs.rows, append([]string(nil), row...))
	}
	return rs, nil
}

// Fields returns a copy of the schema in declared order.
func (rs *RecordSet) Fields() []string {
	if rs == nil {
		return nil
	}
	return append([]string(nil), rs.fields...)
}

// Len returns the number of records. A nil RecordSet has length 0.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rows)
}

// HasField reports whether name is part of the schema.
func (rs *RecordSet) HasField(name string) bool {
	if rs == nil {
		return false
	}
	_, ok := rs.index[name]
	return ok
}

// Value returns the value of field in record i, or "" if the field is unknown.
func (rs *RecordSet) Value(i int, field string) string {
	j, ok := rs.index[field]
	if !ok {
		return ""
	}
	return rs.rows[i][j]
}

// Record returns a view of record i.
func (rs *RecordSet) Record(i int) Record {
	return Record{rs: rs, row: i}
}

// Column returns all values of field in record order.
func (rs *RecordSet) Column(field string) ([]string, error) {
	j, ok := rs.index[field]
	if !ok {
		return nil, errors.InvalidInput("unknown field %q", field)
	}
	out := make([]string, len(rs.rows))
	for i, row := range rs.rows {
		out[i] = row[j]
	}
	return out, nil
}

// Distinct returns the distinct values of field in first-seen order.
func (rs *RecordSet) Distinct(field string) ([]string, error) {
	col, err := rs.Column(field)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range col {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

// Filter returns a new RecordSet holding the records for which keep returns
// true. The schema is preserved even when no record survives.
func (rs *RecordSet) Filter(keep func(Record) bool) *RecordSet {
	out := &RecordSet{fields: rs.fields, index: rs.index}
	for i, row := range rs.rows {
		if keep(rs.Record(i)) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// WriteJSON writes the RecordSet in its canonical {"fields", "rows"} form.
// The output is deterministic and is used for content hashing.
func (rs *RecordSet) WriteJSON(w io.Writer) error {
	rows := rs.rows
	if rows == nil {
		rows = [][]string{}
	}
	return json.NewEncoder(w).Encode(tabular{Fields: rs.fields, Rows: rows})
}

// Get returns the value of field, or "" if the field is unknown.
func (r Record) Get(field string) string {
	return r.rs.Value(r.row, field)
}

// Index returns the position of the record in its RecordSet.
func (r Record) Index() int { return r.row }

// Condition is a single equality filter on one field.
type Condition struct {
	Field  string
	Value  string
	Negate bool
}

// ParseWhere parses a "field=value" or "field!=value" expression.
// Whitespace around field and value is trimmed.
func ParseWhere(expr string) (Condition, error) {
	negate := false
	field, value, ok := strings.Cut(expr, "!=")
	if ok {
		negate = true
	} else {
		field, value, ok = strings.Cut(expr, "=")
	}
	if !ok {
		return Condition{}, errors.InvalidInput("invalid filter %q (want field=value or field!=value)", expr)
	}
	field, value = strings.TrimSpace(field), strings.TrimSpace(value)
	if err := errors.ValidateFieldName(field); err != nil {
		return Condition{}, err
	}
	return Condition{Field: field, Value: value, Negate: negate}, nil
}

// Match reports whether r satisfies the condition.
func (c Condition) Match(r Record) bool {
	return (r.Get(c.Field) == c.Value) != c.Negate
}

// Where applies every condition to rs. It fails when a condition names a
// field outside the schema.
func (rs *RecordSet) Where(conds ...Condition) (*RecordSet, error) {
	for _, c := range conds {
		if !rs.HasField(c.Field) {
			return nil, errors.InvalidInput("filter on unknown field %q", c.Field)
		}
	}
	return rs.Filter(func(r Record) bool {
		for _, c := range conds {
			if !c.Match(r) {
				return false
			}
		}
		return true
	}), nil
}

// tabular is the explicit {"fields", "rows"} JSON shape.
type tabular struct {
	Fields []string   `json:"fields"`
	Rows   [][]string `json:"rows"`
}
