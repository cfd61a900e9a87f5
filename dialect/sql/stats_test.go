package sql

import (
	"context"
	"testing"

	"github.com/viborm/viborm/dialect"
	"github.com/viborm/viborm/trace"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestStatsDriverRecordsQueriesAndExecs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	drv := OpenDB(dialect.Postgres, db)
	stats := NewStatsDriver(drv)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, stats.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectExec("UPDATE t SET x = 1").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, stats.Exec(context.Background(), "UPDATE t SET x = 1", []any{}, nil))

	snap := stats.QueryStats().Stats()
	require.Equal(t, int64(1), snap.TotalQueries)
	require.Equal(t, int64(1), snap.TotalExecs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDriverWithTraceLoggerReportsSlowQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	drv := OpenDB(dialect.SQLite, db)

	var events []trace.Event
	logger := trace.NewLogger(func(e trace.Event) { events = append(events, e) }, true)
	stats := NewStatsDriver(drv, WithSlowThreshold(0), WithTraceLogger(logger))

	mock.ExpectQuery("SELECT slow").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, stats.Query(context.Background(), "SELECT slow", []any{}, rows))
	require.NoError(t, rows.Close())

	require.NoError(t, mock.ExpectationsWereMet())
	require.GreaterOrEqual(t, len(events), 2)
	require.Equal(t, trace.LevelWarning, events[0].Level)
	require.Equal(t, trace.LevelQuery, events[1].Level)
	require.Equal(t, "SELECT slow", events[1].SQL)
	require.Equal(t, int64(1), stats.QueryStats().Stats().SlowQueries)
}

func TestDebugDriverWithTraceLoggerRecordsStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	drv := OpenDB(dialect.MySQL, db)

	var events []trace.Event
	logger := trace.NewLogger(func(e trace.Event) { events = append(events, e) }, false)
	debugDrv := NewDebugDriver(drv, DebugWithTraceLogger(logger))

	mock.ExpectExec("DELETE FROM t").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, debugDrv.Exec(context.Background(), "DELETE FROM t", []any{}, nil))

	require.Len(t, events, 1)
	require.Equal(t, trace.LevelQuery, events[0].Level)
	require.Empty(t, events[0].SQL, "SQL text is elided when includeSQL is false")
}

var _ dialect.Driver = (*StatsDriver)(nil)
