package dedupe

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artie-labs/dedupe/clients/sqlite/dialect"
	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/db"
	"github.com/artie-labs/dedupe/lib/telemetry/metrics"
)

const (
	selectStaff  = `SELECT "id", "name", "position" FROM "organization_staff"`
	selectBoard  = `SELECT "id", "name", "position" FROM "board_members"`
	countStaff   = `SELECT COUNT(*) FROM "organization_staff"`
	countBoard   = `SELECT COUNT(*) FROM "board_members"`
	deleteStaff1 = `DELETE FROM "organization_staff" WHERE "id" IN (?)`
	deleteStaff2 = `DELETE FROM "organization_staff" WHERE "id" IN (?, ?)`
)

var keyColumns = []string{"id", "name", "position"}

type fakeMetrics struct {
	counts map[string]int64
	incrs  map[string][]map[string]string
	timing map[string]time.Duration
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		counts: make(map[string]int64),
		incrs:  make(map[string][]map[string]string),
		timing: make(map[string]time.Duration),
	}
}

func (f *fakeMetrics) Timing(name string, value time.Duration, _ map[string]string) {
	f.timing[name] = value
}

func (f *fakeMetrics) Incr(name string, tags map[string]string) {
	f.incrs[name] = append(f.incrs[name], tags)
}

func (f *fakeMetrics) Count(name string, value int64, tags map[string]string) {
	f.counts[fmt.Sprintf("%s.%s", name, tags["table"])] += value
}

func (f *fakeMetrics) Gauge(_ string, _ float64, _ map[string]string) {}

func newMockDeduplicator(t *testing.T, cfg config.Config) (*Deduplicator, sqlmock.Sqlmock, *fakeMetrics) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	fake := newFakeMetrics()
	deduplicator, err := New(db.FromDB(mockDB), dialect.SQLiteDialect{}, cfg, fake)
	require.NoError(t, err)
	return deduplicator, mock, fake
}

func TestNew(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	store := db.FromDB(mockDB)

	{
		// Defaults
		deduplicator, err := New(store, dialect.SQLiteDialect{}, config.Default(), metrics.NullMetricsProvider{})
		assert.NoError(t, err)
		assert.Len(t, deduplicator.tables, 2)
		assert.Contains(t, deduplicator.allowedTables, "organization_staff")
		assert.Contains(t, deduplicator.allowedTables, "board_members")
	}
	{
		// Nil store
		_, err = New(nil, dialect.SQLiteDialect{}, config.Default(), metrics.NullMetricsProvider{})
		assert.ErrorContains(t, err, "store is nil")
	}
	{
		// Nil dialect
		_, err = New(store, nil, config.Default(), metrics.NullMetricsProvider{})
		assert.ErrorContains(t, err, "dialect is nil")
	}
	{
		// No tables
		cfg := config.Default()
		cfg.Tables = nil
		_, err = New(store, dialect.SQLiteDialect{}, cfg, metrics.NullMetricsProvider{})
		assert.ErrorContains(t, err, "no tables configured")
	}
	{
		// Batch size
		cfg := config.Default()
		cfg.DeleteBatchSize = 0
		_, err = New(store, dialect.SQLiteDialect{}, cfg, metrics.NullMetricsProvider{})
		assert.ErrorContains(t, err, "delete batch size 0 is outside of [1, 2000]")
	}
	{
		// Invalid identifier
		cfg := config.Default()
		cfg.Tables = []config.TableConfig{{Name: "staff; DROP TABLE x", IDColumn: "id", KeyFields: []string{"name"}}}
		_, err = New(store, dialect.SQLiteDialect{}, cfg, metrics.NullMetricsProvider{})
		assert.ErrorContains(t, err, "invalid table name")
	}
	{
		// Same table twice
		cfg := config.Default()
		cfg.Tables = append(cfg.Tables, cfg.Tables[0])
		_, err = New(store, dialect.SQLiteDialect{}, cfg, metrics.NullMetricsProvider{})
		assert.ErrorContains(t, err, `table "organization_staff" is configured more than once`)
	}
}

func TestDeduplicateTable_NotAllowed(t *testing.T) {
	deduplicator, mock, _ := newMockDeduplicator(t, config.Default())

	{
		// Unknown table
		_, err := deduplicator.DeduplicateTable(t.Context(), deduplicator.store, config.TableConfig{Name: "users", IDColumn: "id", KeyFields: []string{"email"}})
		assert.ErrorContains(t, err, `table "users" is not configured for deduplication`)
	}
	{
		// Known table, different key fields
		_, err := deduplicator.DeduplicateTable(t.Context(), deduplicator.store, config.TableConfig{Name: "board_members", IDColumn: "id", KeyFields: []string{"name"}})
		assert.ErrorContains(t, err, `columns for table "board_members" do not match its configuration`)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeduplicateTable(t *testing.T) {
	deduplicator, mock, _ := newMockDeduplicator(t, config.Default())
	table := config.DefaultTables()[0]

	mock.ExpectQuery(selectStaff).WillReturnRows(sqlmock.NewRows(keyColumns).
		AddRow(int64(2), "Alice", "Chair").
		AddRow(int64(1), "Alice", "Chair").
		AddRow(int64(3), "Bob", "Treasurer"),
	)
	mock.ExpectExec(deleteStaff1).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countStaff).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	result, err := deduplicator.DeduplicateTable(t.Context(), deduplicator.store, table)
	assert.NoError(t, err)
	assert.Equal(t, TableResult{
		Table:       "organization_staff",
		RowsScanned: 3,
		Groups:      []DuplicateGroup{{Key: []any{"Alice", "Chair"}, KeepID: 1, RemoveIDs: []int64{2}}},
		Removed:     1,
		Remaining:   2,
	}, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeduplicateTable_Chunking(t *testing.T) {
	cfg := config.Default()
	cfg.DeleteBatchSize = 2
	deduplicator, mock, _ := newMockDeduplicator(t, cfg)

	rows := sqlmock.NewRows(keyColumns)
	for id := int64(1); id <= 5; id++ {
		rows.AddRow(id, "Alice", "Chair")
	}
	rows.AddRow(int64(6), "Bob", "Treasurer").AddRow(int64(7), "Bob", "Treasurer")

	mock.ExpectQuery(selectStaff).WillReturnRows(rows)
	// Four ids to remove for Alice, split in two statements.
	mock.ExpectExec(deleteStaff2).WithArgs(int64(2), int64(3)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(deleteStaff2).WithArgs(int64(4), int64(5)).WillReturnResult(sqlmock.NewResult(0, 2))
	// Bob gets his own statement.
	mock.ExpectExec(deleteStaff1).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countStaff).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	result, err := deduplicator.DeduplicateTable(t.Context(), deduplicator.store, config.DefaultTables()[0])
	assert.NoError(t, err)
	assert.Equal(t, 5, result.Removed)
	assert.Len(t, result.Groups, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun(t *testing.T) {
	deduplicator, mock, fake := newMockDeduplicator(t, config.Default())

	mock.ExpectBegin()
	mock.ExpectQuery(selectStaff).WillReturnRows(sqlmock.NewRows(keyColumns).
		AddRow(int64(1), "Alice", "Chair").
		AddRow(int64(2), "Alice", "Chair"),
	)
	mock.ExpectExec(deleteStaff1).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countStaff).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(selectBoard).WillReturnRows(sqlmock.NewRows(keyColumns).
		AddRow(int64(1), "Carol", "Member").
		AddRow(int64(2), "Dave", "Member"),
	)
	mock.ExpectQuery(countBoard).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))
	mock.ExpectCommit()

	report, err := deduplicator.Run(t.Context())
	assert.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.DryRun)
	assert.Len(t, report.Tables, 2)
	assert.Equal(t, "organization_staff", report.Tables[0].Table)
	assert.Equal(t, 1, report.Tables[0].Removed)
	assert.Equal(t, "board_members", report.Tables[1].Table)
	assert.Equal(t, 0, report.Tables[1].Removed)
	assert.Equal(t, 1, report.TotalRemoved())
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, int64(1), fake.counts["rows_removed.organization_staff"])
	assert.Equal(t, int64(0), fake.counts["rows_removed.board_members"])
	assert.Equal(t, int64(1), fake.counts["duplicate_groups.organization_staff"])
	assert.Len(t, fake.incrs["run"], 1)
	assert.Equal(t, "success", fake.incrs["run"][0]["what"])
	assert.Contains(t, fake.timing, "duration")
}

func TestRun_DryRun(t *testing.T) {
	cfg := config.Default()
	cfg.DryRun = true
	cfg.Tables = cfg.Tables[:1]
	deduplicator, mock, _ := newMockDeduplicator(t, cfg)

	mock.ExpectBegin()
	mock.ExpectQuery(selectStaff).WillReturnRows(sqlmock.NewRows(keyColumns).
		AddRow(int64(1), "Alice", "Chair").
		AddRow(int64(2), "Alice", "Chair"),
	)
	mock.ExpectExec(deleteStaff1).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(countStaff).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectRollback()

	report, err := deduplicator.Run(t.Context())
	assert.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.TotalRemoved())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_Failures(t *testing.T) {
	{
		// Begin fails
		deduplicator, mock, fake := newMockDeduplicator(t, config.Default())
		mock.ExpectBegin().WillReturnError(fmt.Errorf("database is locked"))

		_, err := deduplicator.Run(t.Context())
		var queryErr db.QueryError
		assert.ErrorAs(t, err, &queryErr)
		assert.Equal(t, db.OperationBegin, queryErr.Operation)
		assert.Equal(t, "begin_fail", fake.incrs["run"][0]["what"])
		assert.NoError(t, mock.ExpectationsWereMet())
	}
	{
		// Delete fails, the whole run is rolled back
		deduplicator, mock, fake := newMockDeduplicator(t, config.Default())
		mock.ExpectBegin()
		mock.ExpectQuery(selectStaff).WillReturnRows(sqlmock.NewRows(keyColumns).
			AddRow(int64(1), "Alice", "Chair").
			AddRow(int64(2), "Alice", "Chair"),
		)
		mock.ExpectExec(deleteStaff1).WithArgs(int64(2)).WillReturnError(fmt.Errorf("constraint failed"))
		mock.ExpectRollback()

		_, err := deduplicator.Run(t.Context())
		assert.ErrorContains(t, err, `failed to delete table "organization_staff": constraint failed`)
		var queryErr db.QueryError
		assert.ErrorAs(t, err, &queryErr)
		assert.Equal(t, db.OperationDelete, queryErr.Operation)
		assert.Equal(t, "organization_staff", queryErr.Table)
		assert.Equal(t, "dedupe_fail", fake.incrs["run"][0]["what"])
		assert.Equal(t, "organization_staff", fake.incrs["run"][0]["table"])
		assert.NoError(t, mock.ExpectationsWereMet())
	}
	{
		// Second table fails to read, the first table's deletes are rolled back with it
		deduplicator, mock, _ := newMockDeduplicator(t, config.Default())
		mock.ExpectBegin()
		mock.ExpectQuery(selectStaff).WillReturnRows(sqlmock.NewRows(keyColumns).
			AddRow(int64(1), "Alice", "Chair").
			AddRow(int64(2), "Alice", "Chair"),
		)
		mock.ExpectExec(deleteStaff1).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(countStaff).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
		mock.ExpectQuery(selectBoard).WillReturnError(fmt.Errorf("no such column: position"))
		mock.ExpectRollback()

		_, err := deduplicator.Run(t.Context())
		var queryErr db.QueryError
		assert.ErrorAs(t, err, &queryErr)
		assert.Equal(t, db.OperationRead, queryErr.Operation)
		assert.Equal(t, "board_members", queryErr.Table)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
	{
		// Count fails
		cfg := config.Default()
		cfg.Tables = cfg.Tables[:1]
		deduplicator, mock, _ := newMockDeduplicator(t, cfg)
		mock.ExpectBegin()
		mock.ExpectQuery(selectStaff).WillReturnRows(sqlmock.NewRows(keyColumns).AddRow(int64(1), "Alice", "Chair"))
		mock.ExpectQuery(countStaff).WillReturnError(fmt.Errorf("disk I/O error"))
		mock.ExpectRollback()

		_, err := deduplicator.Run(t.Context())
		var queryErr db.QueryError
		assert.ErrorAs(t, err, &queryErr)
		assert.Equal(t, db.OperationCount, queryErr.Operation)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
	{
		// Commit fails
		cfg := config.Default()
		cfg.Tables = cfg.Tables[:1]
		deduplicator, mock, fake := newMockDeduplicator(t, cfg)
		mock.ExpectBegin()
		mock.ExpectQuery(selectStaff).WillReturnRows(sqlmock.NewRows(keyColumns).AddRow(int64(1), "Alice", "Chair"))
		mock.ExpectQuery(countStaff).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
		mock.ExpectCommit().WillReturnError(fmt.Errorf("database is locked"))

		_, err := deduplicator.Run(t.Context())
		var queryErr db.QueryError
		assert.ErrorAs(t, err, &queryErr)
		assert.Equal(t, db.OperationCommit, queryErr.Operation)
		assert.Equal(t, "commit_fail", fake.incrs["run"][0]["what"])
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}
