// Package mssql implements station storage as dynamic, schema-free SQL
// against the one managed table. Statements are generated from the field
// names of the request payload; the set of writable columns is whatever
// the live table accepts.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nordmet/station-admin/pkg/database"
	"github.com/nordmet/station-admin/pkg/errs"
	"github.com/nordmet/station-admin/pkg/service"
)

var _ service.StationStorage = &stationStorage{}

type stationStorage struct {
	pool  database.Acquirer
	table string
}

func NewStationStorage(pool database.Acquirer, table string) *stationStorage {
	return &stationStorage{
		pool:  pool,
		table: table,
	}
}

func (s *stationStorage) acquire(ctx context.Context) (*sql.DB, error) {
	return s.pool.Acquire(ctx, database.WorkerKey(ctx))
}

func (s *stationStorage) ListStations(ctx context.Context) ([]service.Record, error) {
	const op errs.Op = "stationStorage.ListStations"

	db, err := s.acquire(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.table)))
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}

	return records, nil
}

func (s *stationStorage) GetStation(ctx context.Context, id int64) (service.Record, error) {
	const op errs.Op = "stationStorage.GetStation"

	db, err := s.acquire(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	record, err := s.getStation(ctx, db, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return record, nil
}

func (s *stationStorage) getStation(ctx context.Context, db *sql.DB, id int64) (service.Record, error) {
	const op errs.Op = "stationStorage.getStation"

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = @p1",
		quoteIdent(s.table), quoteIdent(service.IdentityColumn))

	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}

	if len(records) == 0 {
		return nil, errs.E(op, errs.NotExist, fmt.Sprintf("station %d not found", id))
	}

	return records[0], nil
}

// CreateStation inserts the supplied fields and returns the persisted row,
// identity included, from the same statement.
func (s *stationStorage) CreateStation(ctx context.Context, fields service.Record) (service.Record, error) {
	const op errs.Op = "stationStorage.CreateStation"

	db, err := s.acquire(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	query, args := buildInsert(s.table, fields)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}

	if len(records) == 0 {
		return nil, errs.E(op, errs.Database, "failed to retrieve newly created station")
	}

	return records[0], nil
}

// UpdateStation applies the supplied fields and re-reads the row by
// identity, so the caller always sees the persisted state.
func (s *stationStorage) UpdateStation(ctx context.Context, id int64, fields service.Record) (service.Record, error) {
	const op errs.Op = "stationStorage.UpdateStation"

	db, err := s.acquire(ctx)
	if err != nil {
		return nil, errs.E(op, err)
	}

	query, args := buildUpdate(s.table, id, fields)

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, errs.E(op, errs.Database, err)
	}

	record, err := s.getStation(ctx, db, id)
	if err != nil {
		return nil, errs.E(op, err)
	}

	return record, nil
}

// DeleteStation removes the row by identity. Deleting an id that does not
// exist is a no-op, not an error.
func (s *stationStorage) DeleteStation(ctx context.Context, id int64) error {
	const op errs.Op = "stationStorage.DeleteStation"

	db, err := s.acquire(ctx)
	if err != nil {
		return errs.E(op, err)
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = @p1",
		quoteIdent(s.table), quoteIdent(service.IdentityColumn))

	if _, err := db.ExecContext(ctx, query, id); err != nil {
		return errs.E(op, errs.Database, err)
	}

	return nil
}

// scanRecords drains the result set into records, preserving the driver's
// value types.
func scanRecords(rows *sql.Rows) ([]service.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []service.Record
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		record := make(service.Record, len(columns))
		for i, column := range columns {
			record[column] = service.FromDriver(values[i])
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
