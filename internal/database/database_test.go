package database

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tapri-app/tapri-api/internal/apperr"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"no rows", pgx.ErrNoRows, apperr.KindNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.KindNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "projects_slug_key"}, apperr.KindDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperr.KindNotFound},
		{"check", &pgconn.PgError{Code: "23514", ColumnName: "team_size"}, apperr.KindValidation},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, apperr.KindInternal},
		{"dial failure", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, apperr.KindStoreUnavailable},
		{"deadline", context.DeadlineExceeded, apperr.KindStoreUnavailable},
		{"already mapped", apperr.Permission("nope"), apperr.KindPermission},
		{"unknown", errors.New("boom"), apperr.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(MapError(tt.err, "project")))
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.NoError(t, MapError(nil, "project"))
}

func TestIsUniqueViolation(t *testing.T) {
	name, ok := IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "invitations_active_pair"}))
	assert.True(t, ok)
	assert.Equal(t, "invitations_active_pair", name)

	_, ok = IsUniqueViolation(errors.New("x"))
	assert.False(t, ok)
}

func TestUnavailablePool_EveryOperationFails(t *testing.T) {
	db := Unavailable(errors.New("no DATABASE_URL"))
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, "UPDATE projects SET status = 'approved'")
	assert.True(t, apperr.IsStoreUnavailable(err))

	_, err = db.Pool.Query(ctx, "SELECT 1")
	assert.True(t, apperr.IsStoreUnavailable(err))

	var n int
	err = db.Pool.QueryRow(ctx, "SELECT 1").Scan(&n)
	assert.True(t, apperr.IsStoreUnavailable(err))

	_, err = db.Pool.Begin(ctx)
	assert.True(t, apperr.IsStoreUnavailable(err))

	results := db.Pool.SendBatch(ctx, &pgx.Batch{})
	_, err = results.Exec()
	assert.True(t, apperr.IsStoreUnavailable(err))

	assert.True(t, apperr.IsStoreUnavailable(db.Pool.Ping(ctx)))
	assert.NotPanics(t, db.Close)
}

func TestMigrate_RunsEveryStatement(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	for range migrations {
		mock.ExpectExec(".+").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	}

	db := &DB{Pool: mock}
	require.NoError(t, db.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(".+").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(".+").WillReturnError(errors.New("permission denied"))

	db := &DB{Pool: mock}
	err = db.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 2 failed")
}

func TestNew_RejectsEmptyURL(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)
}
