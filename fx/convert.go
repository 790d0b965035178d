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

// Package fx converts raw trading-currency values into canonical
// EUR/USD columns across prices, market caps, and benchmarks, sharing
// one parameterized SQL builder between the monthly-windowed,
// daily, and benchmark paths -- per the REDESIGN FLAG in spec.md §9
// ("parameterize the date predicate directly rather than string-replace").
package fx

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Target describes one table's FX-conversion shape: which raw value
// columns get EUR/USD siblings, and how those siblings round.
type Target struct {
	table        string
	valueColumns []valueColumn
}

type valueColumn struct {
	raw   string // e.g. "close", "volume", "market_cap"
	round string // "4" for prices, "0" for volumes/market caps
}

var (
	priceVolumeTarget = Target{
		table: "raw.historical_price_volume",
		valueColumns: []valueColumn{
			{raw: "close", round: "4"},
			{raw: "volume", round: "0"},
		},
	}
	marketCapTarget = Target{
		table: "raw.historical_market_cap",
		valueColumns: []valueColumn{
			{raw: "market_cap", round: "0"},
		},
	}
	benchmarkTarget = Target{
		table: "raw.benchmarks",
		valueColumns: []valueColumn{
			{raw: "close", round: "4"},
		},
	}
)

// buildSQL produces the shared UPDATE ... FROM statement. datePredicate
// is parameterized ($1 for the window start, and optionally $2 for the
// exclusive window end); callers supply matching args.
func buildSQL(t Target, datePredicate string) string {
	sql := fmt.Sprintf(`
		UPDATE %s d
		SET `, t.table)
	for i, vc := range t.valueColumns {
		if i > 0 {
			sql += ", "
		}
		sql += fmt.Sprintf(
			`%s_eur = ROUND((CASE WHEN feur.price > 1e-6 THEN d.%s / feur.price ELSE 0 END)::numeric, %s),
			 %s_usd = ROUND((CASE WHEN fusd.price > 1e-6 THEN d.%s / fusd.price ELSE 0 END)::numeric, %s)`,
			vc.raw, vc.raw, vc.round, vc.raw, vc.raw, vc.round)
	}
	sql += fmt.Sprintf(`, updated_at = now()
		FROM clean.historical_forex_full feur, clean.historical_forex_full fusd
		WHERE feur.date = d.date AND feur.pair = 'EUR' || d.currency
		  AND fusd.date = d.date AND fusd.pair = 'USD' || d.currency
		  AND %s`, datePredicate)
	return sql
}

// ConvertWindowed runs the monthly-batched conversion over
// [from, today) in one-month steps, per spec.md §4.C10.
func ConvertWindowed(ctx context.Context, pool *pgxpool.Pool, t Target, from time.Time) error {
	today := time.Now().UTC()
	for start := from; start.Before(today); start = start.AddDate(0, 1, 0) {
		next := start.AddDate(0, 1, 0)
		sql := buildSQL(t, "d.date >= $1 AND d.date < $2")
		if _, err := pool.Exec(ctx, sql, start, next); err != nil {
			return fmt.Errorf("fx: windowed convert %s [%s,%s): %w", t.table, start, next, err)
		}
	}
	return nil
}

// ConvertDaily narrows the same SQL to the most recent window-of-days
// where the derived columns are still unconverted (NULL or the schema's
// default 0), per spec.md §4.C10.
func ConvertDaily(ctx context.Context, pool *pgxpool.Pool, t Target, windowDays int) error {
	since := time.Now().UTC().AddDate(0, 0, -windowDays)
	col := t.valueColumns[0].raw
	sql := buildSQL(t, "d.date >= $1 AND (COALESCE(d."+col+"_eur, 0) = 0 OR COALESCE(d."+col+"_usd, 0) = 0)")
	_, err := pool.Exec(ctx, sql, since)
	if err != nil {
		return fmt.Errorf("fx: daily convert %s: %w", t.table, err)
	}
	return nil
}

// PriceVolume returns the price/volume FX target.
func PriceVolume() Target { return priceVolumeTarget }

// MarketCap returns the market-cap FX target.
func MarketCap() Target { return marketCapTarget }

// Benchmark returns the benchmark FX target.
func Benchmark() Target { return benchmarkTarget }

// ConvertBenchmarks runs the windowed conversion against the
// benchmarks table, which carries close_eur/close_usd only.
func ConvertBenchmarks(ctx context.Context, pool *pgxpool.Pool, from time.Time) error {
	return ConvertWindowed(ctx, pool, benchmarkTarget, from)
}
