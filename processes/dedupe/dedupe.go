package dedupe

import (
	"context"
	gosql "database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/artie-labs/dedupe/lib/batch"
	"github.com/artie-labs/dedupe/lib/config"
	"github.com/artie-labs/dedupe/lib/config/constants"
	"github.com/artie-labs/dedupe/lib/db"
	"github.com/artie-labs/dedupe/lib/sql"
	"github.com/artie-labs/dedupe/lib/telemetry/metrics/base"
)

type Deduplicator struct {
	store           db.Store
	dialect         sql.Dialect
	tables          []config.TableConfig
	allowedTables   map[string]config.TableConfig
	deleteBatchSize int
	dryRun          bool
	metrics         base.Client
}

func New(store db.Store, dialect sql.Dialect, cfg config.Config, metricsClient base.Client) (*Deduplicator, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	if dialect == nil {
		return nil, fmt.Errorf("dialect is nil")
	}

	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("no tables configured")
	}

	if cfg.DeleteBatchSize < 1 || cfg.DeleteBatchSize > constants.MaxDeleteBatchSize {
		return nil, fmt.Errorf("delete batch size %d is outside of [1, %d]", cfg.DeleteBatchSize, constants.MaxDeleteBatchSize)
	}

	allowedTables := make(map[string]config.TableConfig, len(cfg.Tables))
	for _, table := range cfg.Tables {
		if err := table.Validate(); err != nil {
			return nil, err
		}

		if _, ok := allowedTables[table.Name]; ok {
			return nil, fmt.Errorf("table %q is configured more than once", table.Name)
		}

		allowedTables[table.Name] = table
	}

	return &Deduplicator{
		store:           store,
		dialect:         dialect,
		tables:          cfg.Tables,
		allowedTables:   allowedTables,
		deleteBatchSize: cfg.DeleteBatchSize,
		dryRun:          cfg.DryRun,
		metrics:         metricsClient,
	}, nil
}

// checkAllowed rejects descriptors that do not match the configured ones exactly.
func (d *Deduplicator) checkAllowed(table config.TableConfig) error {
	allowed, ok := d.allowedTables[table.Name]
	if !ok {
		return fmt.Errorf("table %q is not configured for deduplication", table.Name)
	}

	if allowed.IDColumn != table.IDColumn || !slices.Equal(allowed.KeyFields, table.KeyFields) {
		return fmt.Errorf("columns for table %q do not match its configuration", table.Name)
	}

	return nil
}

func (d *Deduplicator) readRows(ctx context.Context, executor db.Executor, tableID sql.TableIdentifier, table config.TableConfig) ([]row, error) {
	query, err := sql.BuildSelectQuery(tableID, table.Columns())
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	sqlRows, err := executor.QueryContext(ctx, query)
	if err != nil {
		if d.dialect.IsTableDoesNotExistErr(err) {
			return nil, fmt.Errorf("table does not exist: %w", err)
		}
		return nil, err
	}

	defer sqlRows.Close()

	var rows []row
	for sqlRows.Next() {
		r := row{key: make([]any, len(table.KeyFields))}
		dest := make([]any, 0, len(table.KeyFields)+1)
		dest = append(dest, &r.id)
		for i := range r.key {
			dest = append(dest, &r.key[i])
		}

		if err = sqlRows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		rows = append(rows, r)
	}

	if err = sqlRows.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}

func (d *Deduplicator) deleteIDs(ctx context.Context, executor db.Executor, tableID sql.TableIdentifier, idColumn string, ids []int64) error {
	return batch.ByCount(ids, d.deleteBatchSize, func(chunk []int64) error {
		query, err := sql.BuildDeleteByIDsQuery(tableID, idColumn, len(chunk))
		if err != nil {
			return fmt.Errorf("failed to build delete query: %w", err)
		}

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		if _, err = executor.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		return nil
	})
}

// DeduplicateTable keeps the lowest id of every natural key in [table] and deletes the other rows through [executor].
// Nothing is committed here, callers own the transaction.
func (d *Deduplicator) DeduplicateTable(ctx context.Context, executor db.Executor, table config.TableConfig) (TableResult, error) {
	if err := d.checkAllowed(table); err != nil {
		return TableResult{}, err
	}

	tableID, err := sql.NewTableIdentifier(d.dialect, table.Name)
	if err != nil {
		return TableResult{}, fmt.Errorf("invalid table name: %w", err)
	}

	rows, err := d.readRows(ctx, executor, tableID, table)
	if err != nil {
		return TableResult{}, db.NewQueryError(db.OperationRead, table.Name, err)
	}

	groups, err := groupRows(rows, table.FoldKeys)
	if err != nil {
		return TableResult{}, fmt.Errorf("failed to group rows for table %q: %w", table.Name, err)
	}

	result := TableResult{Table: table.Name, RowsScanned: len(rows)}
	for _, g := range groups {
		if len(g.ids) < 2 {
			continue
		}

		duplicate := DuplicateGroup{Key: g.key, KeepID: g.keepID(), RemoveIDs: g.removeIDs()}
		slog.Debug("Found duplicates",
			slog.String("table", table.Name),
			slog.String("key", formatKey(duplicate.Key)),
			slog.Int64("keepID", duplicate.KeepID),
			slog.Any("removeIDs", duplicate.RemoveIDs),
		)

		if err = d.deleteIDs(ctx, executor, tableID, table.IDColumn, duplicate.RemoveIDs); err != nil {
			return TableResult{}, db.NewQueryError(db.OperationDelete, table.Name, err)
		}

		result.Groups = append(result.Groups, duplicate)
		result.Removed += len(duplicate.RemoveIDs)
	}

	// Only feeds the report, deletes do not depend on it.
	if err = executor.QueryRowContext(ctx, sql.BuildCountQuery(tableID)).Scan(&result.Remaining); err != nil {
		return TableResult{}, db.NewQueryError(db.OperationCount, table.Name, err)
	}

	return result, nil
}

func (d *Deduplicator) rollback(tx *gosql.Tx) error {
	if err := tx.Rollback(); err != nil && !errors.Is(err, gosql.ErrTxDone) {
		return err
	}
	return nil
}

// Run deduplicates every configured table, in order, inside a single transaction.
// Any failure rolls back the whole pass. Dry runs always roll back.
func (d *Deduplicator) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	report := Report{RunID: uuid.NewString(), DryRun: d.dryRun}
	tags := map[string]string{
		"what":   "success",
		"dryRun": fmt.Sprint(d.dryRun),
	}

	defer func() {
		d.metrics.Incr("run", tags)
		d.metrics.Timing("duration", time.Since(start), tags)
	}()

	slog.Info("Starting deduplication", slog.String("runID", report.RunID), slog.Bool("dryRun", d.dryRun), slog.Int("tables", len(d.tables)))

	tx, err := d.store.BeginTx(ctx, nil)
	if err != nil {
		tags["what"] = "begin_fail"
		return Report{}, db.NewQueryError(db.OperationBegin, "", err)
	}

	var released bool
	defer func() {
		if !released {
			if rollbackErr := d.rollback(tx); rollbackErr != nil {
				slog.Warn("Unable to rollback", slog.Any("err", rollbackErr), slog.String("runID", report.RunID))
			}
		}
	}()

	for _, table := range d.tables {
		result, err := d.DeduplicateTable(ctx, tx, table)
		if err != nil {
			tags["what"] = "dedupe_fail"
			tags["table"] = table.Name
			return Report{}, err
		}

		slog.Info("Deduplicated table",
			slog.String("table", result.Table),
			slog.Int("removed", result.Removed),
			slog.Int64("remaining", result.Remaining),
		)

		tableTags := map[string]string{"table": table.Name, "dryRun": tags["dryRun"]}
		d.metrics.Count("rows_removed", int64(result.Removed), tableTags)
		d.metrics.Count("duplicate_groups", int64(len(result.Groups)), tableTags)
		report.Tables = append(report.Tables, result)
	}

	released = true
	if d.dryRun {
		if err = d.rollback(tx); err != nil {
			tags["what"] = "rollback_fail"
			return Report{}, db.NewQueryError(db.OperationRollback, "", err)
		}
	} else if err = tx.Commit(); err != nil {
		tags["what"] = "commit_fail"
		return Report{}, db.NewQueryError(db.OperationCommit, "", err)
	}

	report.Duration = time.Since(start)
	slog.Info("Finished deduplication",
		slog.String("runID", report.RunID),
		slog.Int("removed", report.TotalRemoved()),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}
