package records

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/tablescope/pkg/errors"
)

// SQLiteOptions selects what to read from a SQLite database.
// Exactly one of Table or Query should be set; Query wins if both are.
type SQLiteOptions struct {
	Table string
	Query string
}

// LoadSQLite reads a table or query result from the SQLite database at path.
// Column order becomes the schema; NULL becomes "".
func LoadSQLite(ctx context.Context, path string, opts SQLiteOptions) (*RecordSet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "database not found: %s", path)
	}

	query := opts.Query
	if query == "" {
		if opts.Table == "" {
			return nil, errors.InvalidInput("sqlite input needs --table or --query")
		}
		query = "SELECT * FROM " + quoteIdent(opts.Table)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	return QuerySQL(ctx, db, query)
}

// QuerySQL runs query on db and converts the result set into a RecordSet.
func QuerySQL(ctx context.Context, db *sql.DB, query string, args ...any) (*RecordSet, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "query records")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out [][]string
	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out)+1, err)
		}
		row := make([]string, len(cols))
		for i, v := range dest {
			row[i] = sqlString(v)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return New(cols, out)
}

func sqlString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
