package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const maxChain = 8

// DBError is the driver detail behind a failed query.
type DBError struct {
	Driver     string
	Code       string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

// ErrorDump flattens an error for structured logs.
type ErrorDump struct {
	Message    string
	Code       Code
	HTTPStatus int
	Chain      []string
	DB         *DBError
}

// Dump walks err's unwrap chain and extracts the typed code and any
// Postgres error from pgx or lib/pq.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{Message: err.Error(), DB: dbErrorOf(err)}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
		d.HTTPStatus = MetadataFor(typed.Code()).HTTPStatus
	}
	for e := err; e != nil && len(d.Chain) < maxChain; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T", e))
	}
	return d
}

// Fields renders the dump as log fields, leaving out empty driver detail.
func (d ErrorDump) Fields() map[string]any {
	fields := map[string]any{
		"error":       d.Message,
		"error_chain": d.Chain,
	}
	if d.Code != "" {
		fields["error_code"] = d.Code
	}
	if d.HTTPStatus != 0 {
		fields["http_status"] = d.HTTPStatus
	}
	if db := d.DB; db != nil {
		fields["db_driver"] = db.Driver
		fields["db_code"] = db.Code
		for key, value := range map[string]string{
			"db_constraint": db.Constraint,
			"db_table":      db.Table,
			"db_column":     db.Column,
			"db_detail":     db.Detail,
			"db_message":    db.Message,
		} {
			if value != "" {
				fields[key] = value
			}
		}
	}
	return fields
}

func dbErrorOf(err error) *DBError {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &DBError{
			Driver:     "pgx",
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &DBError{
			Driver:     "pq",
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}
