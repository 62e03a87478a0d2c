package database_test

import (
	"context"
	"database/sql/driver"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordmet/station-admin/pkg/database"
	"github.com/nordmet/station-admin/pkg/database/dbtest"
	"github.com/nordmet/station-admin/pkg/errs"
	"github.com/nordmet/station-admin/pkg/service"
)

var metadataColumns = []string{
	"COLUMN_NAME", "DATA_TYPE", "CHARACTER_MAXIMUM_LENGTH", "IS_NULLABLE", "IS_IDENTITY",
}

func stationTrackingMetadata() dbtest.Reply {
	return dbtest.Reply{
		Columns: metadataColumns,
		Rows: [][]driver.Value{
			{"ID", "int", nil, "NO", int64(1)},
			{"Name", "nvarchar", int64(100), "YES", int64(0)},
			{"stationID", "bigint", nil, "YES", int64(0)},
			{"IsActive", "bit", nil, "NO", int64(0)},
		},
	}
}

func TestSchemaColumns(t *testing.T) {
	fake := dbtest.New()
	fake.Queue(stationTrackingMetadata())

	schema := database.NewSchema(newFakePool(fake), "StationTracking")

	nameLength := 100
	expect := []service.ColumnDescriptor{
		{Name: "ID", SQLType: "int", IsIdentity: true, InputKind: service.InputNumber},
		{Name: "Name", SQLType: "nvarchar", MaxLength: &nameLength, IsNullable: true, InputKind: service.InputText},
		{Name: "stationID", SQLType: "bigint", IsNullable: true, InputKind: service.InputNumber},
		{Name: "IsActive", SQLType: "bit", InputKind: service.InputBoolean},
	}

	got, err := schema.Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expect, got)

	stmts := fake.Statements()
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0].Query, "INFORMATION_SCHEMA.COLUMNS")
	assert.Equal(t, []driver.Value{"StationTracking"}, stmts[0].Args)
}

func TestSchemaColumnsSingleFlight(t *testing.T) {
	fake := dbtest.New()
	// Exactly one metadata reply: a second load attempt would fail with an
	// unscripted statement error.
	fake.Queue(stationTrackingMetadata())

	schema := database.NewSchema(newFakePool(fake), "StationTracking")

	const callers = 10

	var wg sync.WaitGroup
	results := make([][]service.ColumnDescriptor, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cols, err := schema.Columns(context.Background())
			assert.NoError(t, err)
			results[i] = cols
		}(i)
	}
	wg.Wait()

	require.Len(t, fake.Statements(), 1)
	for i := 1; i < callers; i++ {
		assert.Equal(t, results[0], results[i])
	}
}

func TestSchemaColumnsEmpty(t *testing.T) {
	fake := dbtest.New()
	fake.Queue(dbtest.Reply{Columns: metadataColumns})

	schema := database.NewSchema(newFakePool(fake), "StationTracking")

	_, err := schema.Columns(context.Background())
	require.Error(t, err)
	assert.True(t, errs.KindIs(errs.Database, err))
	assert.Contains(t, err.Error(), "no schema information found for StationTracking table")
}

func TestInputKindDerivation(t *testing.T) {
	fake := dbtest.New()
	fake.Queue(dbtest.Reply{
		Columns: metadataColumns,
		Rows: [][]driver.Value{
			{"A", "bit", nil, "NO", int64(0)},
			{"B", "int", nil, "NO", int64(0)},
			{"C", "smallint", nil, "NO", int64(0)},
			{"D", "tinyint", nil, "NO", int64(0)},
			{"E", "datetime2", nil, "NO", int64(0)},
			{"F", "decimal", nil, "NO", int64(0)},
		},
	})

	schema := database.NewSchema(newFakePool(fake), "StationTracking")

	got, err := schema.Columns(context.Background())
	require.NoError(t, err)

	kinds := map[string]service.InputKind{}
	for _, col := range got {
		kinds[col.Name] = col.InputKind
	}

	assert.Equal(t, service.InputBoolean, kinds["A"])
	assert.Equal(t, service.InputNumber, kinds["B"])
	assert.Equal(t, service.InputNumber, kinds["C"])
	assert.Equal(t, service.InputNumber, kinds["D"])
	assert.Equal(t, service.InputText, kinds["E"])
	assert.Equal(t, service.InputText, kinds["F"])
}
