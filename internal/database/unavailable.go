package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tapri-app/tapri-api/internal/apperr"
)

var errNotConfigured = errors.New("database not configured")

// UnavailablePool is a Pool with no backing store.
type UnavailablePool struct {
	Reason error
}

func (p *UnavailablePool) err() error {
	if p.Reason != nil {
		return apperr.StoreUnavailable(p.Reason)
	}
	return apperr.StoreUnavailable(errNotConfigured)
}

func (p *UnavailablePool) Begin(context.Context) (pgx.Tx, error) {
	return nil, p.err()
}

func (p *UnavailablePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, p.err()
}

func (p *UnavailablePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, p.err()
}

func (p *UnavailablePool) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: p.err()}
}

func (p *UnavailablePool) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return errBatch{err: p.err()}
}

func (p *UnavailablePool) Ping(context.Context) error {
	return p.err()
}

func (p *UnavailablePool) Close() {}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type errBatch struct{ err error }

func (b errBatch) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, b.err }
func (b errBatch) Query() (pgx.Rows, error)         { return nil, b.err }
func (b errBatch) QueryRow() pgx.Row                { return errRow(b) }
func (b errBatch) Close() error                     { return b.err }
