package db

import (
	"context"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstForbiddenKeyword(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"plain select", "SELECT id, warehouse_code FROM warehouse_info", ""},
		{"lowercase select", "select sum(total_amount) from invoice_info", ""},
		{"delete", "DELETE FROM warehouse_info", "DELETE"},
		{"lowercase drop", "drop table invoice_info", "DROP"},
		{"update inside", "SELECT 1; UPDATE warehouse_info SET x = 1", "UPDATE"},
		{"insert", "INSERT INTO warehouse_info VALUES (1)", "INSERT"},
		{"created_at column is fine", "SELECT created_at FROM warehouse_info", ""},
		{"updated_at column is fine", "SELECT updated_at FROM warehouse_info", ""},
		{"truncate", "TRUNCATE invoice_info", "TRUNCATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstForbiddenKeyword(tt.sql))
		})
	}
}

func TestQuery_RejectsMutatingStatements(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	d := New(mock, TargetWarehouse, slog.Default())

	rows, err := d.Query(context.Background(), "DELETE FROM warehouse_info")
	assert.Nil(t, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")

	// Nothing should have reached the pool.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_PassesSelectThrough(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT warehouse_code FROM warehouse_info").
		WillReturnRows(pgxmock.NewRows([]string{"warehouse_code"}).AddRow("DELHI-1"))

	d := New(mock, TargetWarehouse, slog.Default())

	rows, err := d.Query(context.Background(), "SELECT warehouse_code FROM warehouse_info")
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var code string
	require.NoError(t, rows.Scan(&code))
	assert.Equal(t, "DELHI-1", code)

	assert.NoError(t, mock.ExpectationsWereMet())
}
