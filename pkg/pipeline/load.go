package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/tablescope/pkg/records"
)

// Load reads the input file and applies the where filters.
func Load(ctx context.Context, opts Options) (*records.RecordSet, error) {
	rs, err := loadSource(ctx, opts)
	if err != nil {
		return nil, err
	}
	return Filter(rs, opts)
}

func loadSource(ctx context.Context, opts Options) (*records.RecordSet, error) {
	lo, err := opts.loadOptions()
	if err != nil {
		return nil, err
	}
	return records.Load(ctx, opts.Input, lo)
}

// Filter keeps the records matching every where expression in opts.
func Filter(rs *records.RecordSet, opts Options) (*records.RecordSet, error) {
	if len(opts.Where) == 0 {
		return rs, nil
	}

	conds := make([]records.Condition, 0, len(opts.Where))
	for _, w := range opts.Where {
		c, err := records.ParseWhere(w)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	filtered, err := rs.Where(conds...)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("filtered records", "before", rs.Len(), "after", filtered.Len())
		if filtered.Len() == 0 {
			for _, hint := range unmatched(rs, conds) {
				opts.Logger.Warn("filter value not present", "where", hint)
			}
		}
	}
	return filtered, nil
}

// unmatched describes each equality condition whose value never occurs in
// rs, listing the values that do.
func unmatched(rs *records.RecordSet, conds []records.Condition) []string {
	var out []string
	for _, c := range conds {
		if c.Negate {
			continue
		}
		values, err := rs.Distinct(c.Field)
		if err != nil || slices.Contains(values, c.Value) {
			continue
		}
		out = append(out, fmt.Sprintf("%s=%s (present: %s)", c.Field, c.Value, strings.Join(values, ", ")))
	}
	return out
}

// sourceKey holds the loader settings that change what a source file
// decodes to.
type sourceKey struct {
	Format    string `json:"format,omitempty"`
	Delimiter string `json:"delimiter,omitempty"`
	Table     string `json:"table,omitempty"`
	Query     string `json:"query,omitempty"`
}
