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
package percentile

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
)

const identityDDL = `
CREATE TABLE clean.financial_metrics_perc (
	symbol            text NOT NULL,
	date              date NOT NULL,
	fiscal_year       int  NOT NULL,
	period            text NOT NULL,
	reported_currency text NOT NULL,
	PRIMARY KEY (symbol, date, fiscal_year, period, reported_currency)
)`

const metricsPerBatch = 4

// metricValue pairs an identity row with one metric's raw value, read
// straight out of raw.financial_metrics.
type metricValue struct {
	model.PercentileIdentity
	Value *float64
}

// Bucketize seeds clean.financial_metrics_perc with the distinct
// identity rows from raw.financial_metrics, then merges in percentile
// columns metricsPerBatch at a time through the shared
// stage.financial_metrics_perc_merge staging table, joined back on the
// identity key one metric at a time, per spec.md §4.C12.
func Bucketize(ctx context.Context, pool *pgxpool.Pool, gw *store.Gateway) error {
	logger := zerolog.Ctx(ctx)

	if err := gw.Recreate(ctx, "clean.financial_metrics_perc", identityDDL); err != nil {
		return fmt.Errorf("percentile: recreate identity table: %w", err)
	}

	const seedSQL = `
		INSERT INTO clean.financial_metrics_perc (symbol, date, fiscal_year, period, reported_currency)
		SELECT DISTINCT symbol, date, fiscal_year, period, reported_currency
		FROM raw.financial_metrics`
	if _, err := pool.Exec(ctx, seedSQL); err != nil {
		return fmt.Errorf("percentile: seed identity rows: %w", err)
	}

	metrics := model.RatioMetricNames()
	for start := 0; start < len(metrics); start += metricsPerBatch {
		end := start + metricsPerBatch
		if end > len(metrics) {
			end = len(metrics)
		}
		batch := metrics[start:end]

		if err := mergeBatch(ctx, pool, gw, batch); err != nil {
			logger.Error().Err(err).Strs("Metrics", batch).Msg("percentile batch merge failed")
			continue
		}
	}

	return nil
}

// stageMergeColumns are the columns of stage.financial_metrics_perc_merge,
// in the order mergeBatch's row builder emits them.
var stageMergeColumns = []string{
	"symbol", "date", "fiscal_year", "period", "reported_currency",
	"metric", "bound", "perc",
}

// mergeBatch computes bucket/bound columns for one batch of metrics and
// writes them through the shared staging table joined back on the
// identity key, per spec.md §4.C12: each metric's distribution and
// bucket assignment are computed in Go, then every row's result is
// bulk-copied into stage.financial_metrics_perc_merge and promoted with
// one set-based UPDATE ... FROM join, instead of one round trip per row.
func mergeBatch(ctx context.Context, pool *pgxpool.Pool, gw *store.Gateway, metrics []string) error {
	for _, metric := range metrics {
		column, ok := model.RatioColumnName[metric]
		if !ok {
			return fmt.Errorf("percentile: no column mapping for metric %s", metric)
		}

		var values []metricValue
		selectSQL := fmt.Sprintf(`
			SELECT symbol, date, fiscal_year, period, reported_currency, %s AS value
			FROM raw.financial_metrics`, column)
		if err := pgxscan.Select(ctx, pool, &values, selectSQL); err != nil {
			return fmt.Errorf("percentile: read %s: %w", column, err)
		}

		nonNull := make([]float64, 0, len(values))
		for _, mv := range values {
			if mv.Value != nil {
				nonNull = append(nonNull, *mv.Value)
			}
		}
		thresholds := Thresholds(nonNull)

		addColumnSQL := fmt.Sprintf(`
			ALTER TABLE clean.financial_metrics_perc
			ADD COLUMN IF NOT EXISTS %s_bound text,
			ADD COLUMN IF NOT EXISTS %s_perc  int`, column, column)
		if _, err := pool.Exec(ctx, addColumnSQL); err != nil {
			return err
		}

		rows := make([][]any, 0, len(values))
		for _, mv := range values {
			if mv.Value == nil {
				continue
			}
			label, bound := Bucket(*mv.Value, thresholds)
			rows = append(rows, []any{
				mv.Symbol, mv.Date, mv.FiscalYear, mv.Period, mv.ReportedCurrency,
				metric, bound, label,
			})
		}

		updateSQL := fmt.Sprintf(`
			UPDATE clean.financial_metrics_perc f
			SET %s_bound = s.bound, %s_perc = s.perc
			FROM stage.financial_metrics_perc_merge s
			WHERE f.symbol = s.symbol AND f.date = s.date AND f.fiscal_year = s.fiscal_year
			  AND f.period = s.period AND f.reported_currency = s.reported_currency
			  AND s.metric = '%s'`, column, column, metric)

		if _, err := gw.MergeFromStage(ctx, "stage.financial_metrics_perc_merge", stageMergeColumns, rows, updateSQL); err != nil {
			return fmt.Errorf("percentile: merge %s: %w", column, err)
		}
	}
	return nil
}
