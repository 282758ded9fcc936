// Package records holds the tabular input that every visualization starts
// from.
//
// A [RecordSet] is an ordered sequence of flat records over an ordered
// schema of named fields. Values are kept as strings: categorical values
// are used verbatim and numeric values keep their textual form, which is
// what grouping and co-occurrence counting need.
//
// # Loading
//
// [Load] picks a reader from the file extension (or [LoadOptions.Format]):
//
//   - .csv, .tsv: header row followed by data rows ([ReadCSV])
//   - .json: an array of objects, or {"fields": [...], "rows": [[...]]} ([ReadJSON])
//   - .yaml, .yml: a list of mappings ([ReadYAML])
//   - .db, .sqlite, .sqlite3: a table or query result ([LoadSQLite])
//
// Field order follows the source: header order for CSV, key order of the
// first object for JSON and YAML, column order for SQLite. Fields that only
// appear in later objects are appended in first-seen order.
//
// # Filtering
//
// [RecordSet.Where] and [ParseWhere] narrow a RecordSet before it is
// handed to the hierarchy or graph builders:
//
//	cond, err := records.ParseWhere("smoker=yes")
//	subset, err := rs.Where(cond)
package records
