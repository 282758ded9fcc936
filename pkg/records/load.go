package records

import (
	"context"
	"encoding/csv"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tablescope/pkg/errors"
)

// Supported input formats.
const (
	FormatCSV    = "csv"
	FormatTSV    = "tsv"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSQLite = "sqlite"
)

var formatByExt = map[string]string{
	".csv":     FormatCSV,
	".tsv":     FormatTSV,
	".json":    FormatJSON,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".db":      FormatSQLite,
	".sqlite":  FormatSQLite,
	".sqlite3": FormatSQLite,
}

// LoadOptions controls how [Load] reads a file.
type LoadOptions struct {
	// Format overrides extension-based detection.
	Format string
	// Delimiter overrides the CSV delimiter (default ',' or '\t' for .tsv).
	Delimiter rune
	// Table is the SQLite table to read.
	Table string
	// Query is a SQLite query; it takes precedence over Table.
	Query string
}

// DetectFormat returns the input format for path based on its extension.
func DetectFormat(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatByExt[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot detect record format for %q (use --input-format)", path)
}

// Load reads a RecordSet from path.
func Load(ctx context.Context, path string, opts LoadOptions) (*RecordSet, error) {
	format := opts.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	if format == FormatSQLite {
		return LoadSQLite(ctx, path, SQLiteOptions{Table: opts.Table, Query: opts.Query})
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "records file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatCSV:
		return ReadCSV(f, opts.Delimiter)
	case FormatTSV:
		delim := opts.Delimiter
		if delim == 0 {
			delim = '\t'
		}
		return ReadCSV(f, delim)
	case FormatJSON:
		return ReadJSON(f)
	case FormatYAML:
		return ReadYAML(f)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported record format: %s", format)
	}
}

// ReadCSV reads a header row followed by data rows. Values are trimmed.
// A delimiter of 0 means ','.
func ReadCSV(r io.Reader, delim rune) (*RecordSet, error) {
	cr := csv.NewReader(r)
	if delim != 0 {
		cr.Comma = delim
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if stderrors.Is(err, io.EOF) {
		return nil, errors.InvalidInput("CSV input is empty")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV row %d", len(rows)+1)
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}

// ReadJSON reads either an array of flat objects or the explicit
// {"fields": [...], "rows": [[...]]} form written by [RecordSet.WriteJSON].
func ReadJSON(r io.Reader) (*RecordSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read JSON: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var t tabular
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON records")
		}
		return New(t.Fields, t.Rows)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON records")
	}

	var b builder
	for i, obj := range raw {
		keys, values, err := decodeObject(obj)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", i+1)
		}
		b.add(keys, values)
	}
	return b.build()
}

// decodeObject decodes a flat JSON object, preserving key order.
func decodeObject(data []byte) ([]string, []string, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys, values []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, err
		}
		s, err := scalarString(v)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, s)
	}
	return keys, values, nil
}

func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	default:
		return "", fmt.Errorf("nested values are not supported")
	}
}

// builder accumulates keyed records whose key sets may differ, producing a
// schema in first-seen key order. Missing values become "".
type builder struct {
	fields []string
	index  map[string]int
	rows   []map[int]string
}

func (b *builder) add(keys, values []string) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	row := make(map[int]string, len(keys))
	for i, k := range keys {
		j, ok := b.index[k]
		if !ok {
			j = len(b.fields)
			b.index[k] = j
			b.fields = append(b.fields, k)
		}
		row[j] = values[i]
	}
	b.rows = append(b.rows, row)
}

func (b *builder) build() (*RecordSet, error) {
	rows := make([][]string, len(b.rows))
	for i, m := range b.rows {
		row := make([]string, len(b.fields))
		for j, v := range m {
			row[j] = v
		}
		rows[i] = row
	}
	return New(b.fields, rows)
}
