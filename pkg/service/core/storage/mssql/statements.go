package mssql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nordmet/station-admin/pkg/service"
)

// quoteIdent brackets a SQL Server identifier. Column names originate in
// client payloads, so they are always quoted; values never end up in the
// statement text at all.
func quoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// orderedFields flattens a record into (column, value) pairs in sorted
// column order, so generated statements are deterministic.
func orderedFields(fields service.Record) ([]string, []interface{}) {
	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	args := make([]interface{}, len(columns))
	for i, column := range columns {
		args[i] = fields[column].Param()
	}

	return columns, args
}

// buildInsert renders a dynamic insert listing exactly the supplied
// columns, asking for the inserted row back in the same round trip.
func buildInsert(table string, fields service.Record) (string, []interface{}) {
	columns, args := orderedFields(fields)

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = quoteIdent(column)
		placeholders[i] = fmt.Sprintf("@p%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) OUTPUT INSERTED.* VALUES (%s)",
		quoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	return query, args
}

// buildUpdate renders a dynamic update setting exactly the supplied
// columns, filtered by the identity column, which rides as the last
// parameter.
func buildUpdate(table string, id int64, fields service.Record) (string, []interface{}) {
	columns, args := orderedFields(fields)

	assignments := make([]string, len(columns))
	for i, column := range columns {
		assignments[i] = fmt.Sprintf("%s = @p%d", quoteIdent(column), i+1)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = @p%d",
		quoteIdent(table),
		strings.Join(assignments, ", "),
		quoteIdent(service.IdentityColumn),
		len(columns)+1,
	)

	return query, append(args, id)
}
