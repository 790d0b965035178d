// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package store implements the write paths into the raw/stage/clean
// schemas. BulkCopy and MergeFromStage bulk-copy into a staging table and
// promote-and-truncate in the same transaction; DeleteThenInsert copies
// straight into the final table inside its delete transaction, with no
// staging table.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// NullToken is the text-format COPY token for SQL NULL. Nothing in this
// module streams tab-separated text: every bulk write, the EOD-bulk CSV
// path included, goes through pgx.CopyFrom with typed Go values.
const NullToken = `\N`

type Gateway struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Gateway {
	return &Gateway{Pool: pool}
}

// EnsureSchemas creates the raw, stage, and clean schemas if they don't exist.
func (g *Gateway) EnsureSchemas(ctx context.Context) error {
	conn, err := g.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, schema := range []string{"raw", "stage", "clean"} {
		if _, err := conn.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
			return err
		}
	}
	return nil
}

// Recreate drops and re-creates a table using ddl, which must contain the
// full CREATE TABLE statement. Used for raw.historical_forex,
// clean.historical_forex_full and clean.financial_metrics_perc;
// raw.benchmarks and raw.etl_summary are not recreated through it.
func (g *Gateway) Recreate(ctx context.Context, table, ddl string) error {
	conn, err := g.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			log.Error().Err(err).Msg("error rolling back recreate transaction")
		}
	}()

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, ddl); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// BulkCopy streams rows into the stage table with pgx.CopyFrom, then
// promotes them into the final table and truncates stage -- all inside a
// single transaction, so the final table only ever observes a row once
// staging has fully succeeded and been emptied.
func (g *Gateway) BulkCopy(ctx context.Context, stageTable, finalTable string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	conn, err := g.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			log.Error().Err(err).Msg("error rolling back bulk copy transaction")
		}
	}()

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", stageTable)); err != nil {
		return 0, err
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{schemaAndTable(stageTable)[0], schemaAndTable(stageTable)[1]}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", stageTable, err)
	}

	insertSQL := fmt.Sprintf(`INSERT INTO %s (%s) SELECT %s FROM %s`,
		finalTable, columnList(columns), columnList(columns), stageTable)
	if _, err := tx.Exec(ctx, insertSQL); err != nil {
		return 0, fmt.Errorf("promote from %s to %s: %w", stageTable, finalTable, err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", stageTable)); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return copied, nil
}

// MergeFromStage streams rows into the stage table with pgx.CopyFrom,
// then runs updateSQL -- a caller-built "UPDATE final ... FROM
// stageTable JOIN ON identity key" statement -- and truncates stage,
// all inside a single transaction. This is BulkCopy's sibling for
// writers that update existing final-table rows instead of inserting
// new ones.
func (g *Gateway) MergeFromStage(ctx context.Context, stageTable string, columns []string, rows [][]any, updateSQL string) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	conn, err := g.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			log.Error().Err(err).Msg("error rolling back merge-from-stage transaction")
		}
	}()

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", stageTable)); err != nil {
		return 0, err
	}

	ident := schemaAndTable(stageTable)
	copied, err := tx.CopyFrom(ctx, pgx.Identifier{ident[0], ident[1]}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", stageTable, err)
	}

	if _, err := tx.Exec(ctx, updateSQL); err != nil {
		return 0, fmt.Errorf("merge from %s: %w", stageTable, err)
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", stageTable)); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return copied, nil
}

// DeleteThenInsert implements the daily-slice pattern spec.md calls for
// instead of relying on ON CONFLICT: delete any rows matching pred, then
// bulk-copy the replacement rows in the same transaction.
func (g *Gateway) DeleteThenInsert(ctx context.Context, finalTable, deleteWhere string, deleteArgs []any, columns []string, rows [][]any) (int64, error) {
	conn, err := g.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			log.Error().Err(err).Msg("error rolling back delete-then-insert transaction")
		}
	}()

	if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s", finalTable, deleteWhere), deleteArgs...); err != nil {
		return 0, err
	}

	var copied int64
	if len(rows) > 0 {
		ident := schemaAndTable(finalTable)
		copied, err = tx.CopyFrom(ctx, pgx.Identifier{ident[0], ident[1]}, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return 0, fmt.Errorf("copy into %s: %w", finalTable, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return copied, nil
}

// CreateIndexesConcurrently issues each statement in its own autocommit
// connection so that one failure doesn't abort the others, per spec.md
// §4.C2 ("some are created CONCURRENTLY ... failures are logged and do
// not abort other indexes").
func (g *Gateway) CreateIndexesConcurrently(ctx context.Context, statements []string) {
	for _, stmt := range statements {
		conn, err := g.Pool.Acquire(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not acquire connection for concurrent index creation")
			continue
		}

		if _, err := conn.Exec(ctx, stmt); err != nil {
			log.Error().Err(err).Str("SQL", stmt).Msg("concurrent index creation failed")
		}
		conn.Release()
	}
}

// DropIndexes drops auxiliary indexes before a large backfill; failures are
// logged and do not abort the run.
func (g *Gateway) DropIndexes(ctx context.Context, names []string) {
	conn, err := g.Pool.Acquire(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not acquire connection to drop indexes")
		return
	}
	defer conn.Release()

	for _, name := range names {
		if _, err := conn.Exec(ctx, fmt.Sprintf("DROP INDEX IF EXISTS %s", name)); err != nil {
			log.Error().Err(err).Str("Index", name).Msg("failed to drop index")
		}
	}
}

func columnList(columns []string) string {
	out := ""
	for idx, col := range columns {
		if idx > 0 {
			out += ", "
		}
		out += col
	}
	return out
}

// schemaAndTable splits "schema.table" into its two parts, defaulting the
// schema to "public" when none is given.
func schemaAndTable(qualified string) [2]string {
	for i := 0; i < len(qualified); i++ {
		if qualified[i] == '.' {
			return [2]string{qualified[:i], qualified[i+1:]}
		}
	}
	return [2]string{"public", qualified}
}
