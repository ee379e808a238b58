package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PowerSQL/PowerSQL/internal/sqlast"
)

func TestExecute_DropsThenMaterializesInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("DROP VIEW IF EXISTS orders CASCADE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS orders CASCADE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE VIEW orders AS").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	b := WithDB(db, nil)
	stmt := &sqlast.CreateViewStmt{
		Name: "orders",
		Query: &sqlast.Query{Body: &sqlast.Select{
			Projection: []sqlast.SelectItem{&sqlast.Wildcard{}},
			From:       []sqlast.TableFactor{&sqlast.Table{Name: "raw_orders"}},
		}},
	}

	err = b.Execute(context.Background(), "orders", stmt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecute_RollsBackOnMaterializeFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("DROP VIEW IF EXISTS broken CASCADE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP TABLE IF EXISTS broken CASCADE").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE VIEW broken AS").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	b := WithDB(db, nil)
	stmt := &sqlast.CreateViewStmt{
		Name: "broken",
		Query: &sqlast.Query{Body: &sqlast.Select{
			Projection: []sqlast.SelectItem{&sqlast.Wildcard{}},
			From:       []sqlast.TableFactor{&sqlast.Table{Name: "raw"}},
		}},
	}

	err = b.Execute(context.Background(), "broken", stmt)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryBool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows([]string{"condition"}).AddRow(true)
	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	b := WithDB(db, nil)
	ok, err := b.QueryBool(context.Background(), "SELECT (1 = 1) AS condition")
	require.NoError(t, err)
	assert.True(t, ok)
}
