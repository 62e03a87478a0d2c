package service

import (
	"context"
	"net/http"
)

// IdentityColumn is the server-assigned row key of the managed table. It is
// never accepted from a client payload.
const IdentityColumn = "ID"

// ActiveColumn is the boolean flag every station carries; create payloads
// that omit it default to active.
const ActiveColumn = "IsActive"

// InputKind tells the admin form which widget to render for a column.
type InputKind string

const (
	InputBoolean InputKind = "boolean"
	InputNumber  InputKind = "number"
	InputText    InputKind = "text"
)

// ColumnDescriptor describes one column of the managed table, as reported
// by the live database schema. The set is discovered at runtime and cached
// for the process lifetime.
type ColumnDescriptor struct {
	Name       string    `json:"name"`
	SQLType    string    `json:"type"`
	MaxLength  *int      `json:"max_length"`
	IsNullable bool      `json:"is_nullable"`
	IsIdentity bool      `json:"is_identity"`
	InputKind  InputKind `json:"input_type"`
}

// Record is one row of the managed table, keyed by column name. Its shape
// is whatever the live schema reports; there is no compile-time station
// struct.
type Record map[string]Value

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// StripIdentity removes the identity column from the record, if present.
func (r Record) StripIdentity() {
	delete(r, IdentityColumn)
}

type SchemaReader interface {
	Columns(ctx context.Context) ([]ColumnDescriptor, error)
}

type StationStorage interface {
	ListStations(ctx context.Context) ([]Record, error)
	GetStation(ctx context.Context, id int64) (Record, error)
	CreateStation(ctx context.Context, fields Record) (Record, error)
	UpdateStation(ctx context.Context, id int64, fields Record) (Record, error)
	DeleteStation(ctx context.Context, id int64) error
}

type StationService interface {
	ListStations(ctx context.Context) (*StationsList, error)
	CreateStation(ctx context.Context, fields Record) (*StationCreated, error)
	UpdateStation(ctx context.Context, id int64, fields Record) (*StationUpdated, error)
	DeleteStation(ctx context.Context, id int64) error
	CloneStation(ctx context.Context, id int64) (*StationCreated, error)
}

type SchemaService interface {
	GetSchema(ctx context.Context) (*Schema, error)
}

type Schema struct {
	Columns []ColumnDescriptor `json:"columns"`
}

type StationsList struct {
	Stations []Record `json:"stations"`
}

type StationUpdated struct {
	Station Record `json:"station"`
}

type StationCreated struct {
	Station Record `json:"station"`
}

func (s *StationCreated) StatusCode() int {
	return http.StatusCreated
}
