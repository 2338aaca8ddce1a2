package dbprocessor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/dbprocessor"
)

func TestReadTableData(t *testing.T) {
	p, mock, _ := newMockProcessor(t, dbprocessor.Config{})
	mock.ExpectQuery(`SELECT * FROM "app"."users"`).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice").AddRow(2, []byte("bob")),
	)

	ds, err := p.ReadTableData(context.Background(), `"app"`, "users")
	require.NoError(t, err)
	require.Len(t, ds.Tables, 1)
	assert.True(t, ds.HasRows())

	table := ds.Table(0)
	assert.Equal(t, []string{"id", "name"}, table.Columns)
	require.Len(t, table.Rows, 2)

	name, ok := table.Value(0, "name")
	require.True(t, ok)
	assert.Equal(t, "alice", name)

	name, ok = table.Value(1, "name")
	require.True(t, ok)
	assert.Equal(t, "bob", name)

	_, ok = table.Value(0, "email")
	assert.False(t, ok)
	_, ok = table.Value(5, "name")
	assert.False(t, ok)
	assert.Nil(t, ds.Table(1))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRead_MultipleResultSets(t *testing.T) {
	p, mock, _ := newMockProcessor(t, dbprocessor.Config{})
	mock.ExpectQuery("SELECT 1; SELECT 2").WillReturnRows(
		sqlmock.NewRows([]string{"a"}),
		sqlmock.NewRows([]string{"b"}).AddRow("two"),
	)

	ds, err := p.Read(context.Background(), "SELECT 1; SELECT 2")
	require.NoError(t, err)
	require.Len(t, ds.Tables, 2)
	assert.Empty(t, ds.Table(0).Rows)
	assert.Len(t, ds.Table(1).Rows, 1)
	assert.True(t, ds.HasRows())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRead_RowError(t *testing.T) {
	p, mock, _ := newMockProcessor(t, dbprocessor.Config{})
	cause := errors.New("connection reset")
	mock.ExpectQuery("SELECT * FROM events").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).RowError(1, cause),
	)

	_, err := p.Read(context.Background(), "SELECT * FROM events")

	var execErr *dbprocessor.ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "SELECT * FROM events", execErr.SQL)
	assert.ErrorIs(t, err, cause)
}

func TestDataSet_Empty(t *testing.T) {
	ds := &dbprocessor.DataSet{}
	assert.False(t, ds.HasRows())
	assert.Nil(t, ds.Table(0))
}

func TestDataTable_AtDuplicateColumns(t *testing.T) {
	table := &dbprocessor.DataTable{
		Columns: []string{"id", "id"},
		Rows:    [][]any{{int64(1), []byte("2")}},
	}
	assert.Equal(t, int64(1), table.At(0, 0))
	assert.Equal(t, "2", table.At(0, 1))
	assert.Nil(t, table.At(0, 2))
	assert.Nil(t, table.At(1, 0))

	v, ok := table.Value(0, "id")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}
