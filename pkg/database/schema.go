package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/nordmet/station-admin/pkg/errs"
	"github.com/nordmet/station-admin/pkg/service"
)

// Column metadata for the managed table, ordered by the table's native
// column ordinal. The identity flag rides on COLUMNPROPERTY since
// INFORMATION_SCHEMA does not expose it.
const columnsQuery = `
SELECT
    c.COLUMN_NAME,
    c.DATA_TYPE,
    c.CHARACTER_MAXIMUM_LENGTH,
    c.IS_NULLABLE,
    COLUMNPROPERTY(OBJECT_ID(@p1), c.COLUMN_NAME, 'IsIdentity')
FROM INFORMATION_SCHEMA.COLUMNS c
WHERE c.TABLE_NAME = @p1
ORDER BY c.ORDINAL_POSITION`

// Schema lazily loads and caches the column metadata of one table. The
// cache is populated at most once for the process lifetime; a schema
// change in the underlying table is not picked up until restart.
type Schema struct {
	mu      sync.Mutex
	pool    Acquirer
	table   string
	columns []service.ColumnDescriptor
}

var _ service.SchemaReader = &Schema{}

func NewSchema(pool Acquirer, table string) *Schema {
	return &Schema{
		pool:  pool,
		table: table,
	}
}

// Columns returns the cached column set, loading it on first call. The
// mutex makes the load single-flight: concurrent first-time callers block
// until one of them has populated the cache.
func (s *Schema) Columns(ctx context.Context) ([]service.ColumnDescriptor, error) {
	const op errs.Op = "database.Schema.Columns"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.columns != nil {
		return s.columns, nil
	}

	db, err := s.pool.Acquire(ctx, WorkerKey(ctx))
	if err != nil {
		return nil, errs.E(op, err)
	}

	rows, err := db.QueryContext(ctx, columnsQuery, s.table)
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}
	defer rows.Close()

	var columns []service.ColumnDescriptor
	for rows.Next() {
		var (
			name       string
			sqlType    string
			maxLength  sql.NullInt64
			isNullable string
			isIdentity sql.NullInt64
		)
		if err := rows.Scan(&name, &sqlType, &maxLength, &isNullable, &isIdentity); err != nil {
			return nil, errs.E(op, errs.Database, err)
		}

		col := service.ColumnDescriptor{
			Name:       name,
			SQLType:    sqlType,
			IsNullable: strings.EqualFold(isNullable, "YES"),
			IsIdentity: isIdentity.Valid && isIdentity.Int64 == 1,
			InputKind:  inputKindFor(sqlType),
		}
		if maxLength.Valid {
			n := int(maxLength.Int64)
			col.MaxLength = &n
		}

		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.E(op, errs.Database, err)
	}

	if len(columns) == 0 {
		return nil, errs.E(op, errs.Database,
			fmt.Sprintf("no schema information found for %s table", s.table))
	}

	s.columns = columns

	return s.columns, nil
}

// inputKindFor derives the form widget from the SQL type: bit renders a
// checkbox, the integer family a number input, everything else free text.
func inputKindFor(sqlType string) service.InputKind {
	switch strings.ToLower(sqlType) {
	case "bit":
		return service.InputBoolean
	case "int", "bigint", "smallint", "tinyint":
		return service.InputNumber
	default:
		return service.InputText
	}
}
