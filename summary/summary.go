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

// Package summary implements the ETL-day counter recompute (C14) and
// the reference-list read helpers a downstream CSV exporter consumes.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
)

const tradingDayWindow = 10

const countSQL = `
	SELECT
		pv.date,
		to_char(pv.date, 'Dy')                                       AS day,
		count(DISTINCT f.pair)      FILTER (WHERE f.date = pv.date)  AS fx_cnt,
		count(DISTINCT pv.symbol)   FILTER (WHERE pv.close <> 0)     AS close_cnt,
		count(DISTINCT pv.symbol)   FILTER (WHERE pv.volume <> 0)    AS vol_cnt,
		count(DISTINCT pv.symbol)   FILTER (WHERE pv.close_eur <> 0) AS close_eur_cnt,
		count(DISTINCT pv.symbol)   FILTER (WHERE pv.close_usd <> 0) AS close_usd_cnt,
		count(DISTINCT pv.symbol)   FILTER (WHERE pv.volume_eur <> 0) AS vol_eur_cnt,
		count(DISTINCT pv.symbol)   FILTER (WHERE pv.volume_usd <> 0) AS vol_usd_cnt,
		count(DISTINCT mc.symbol)   FILTER (WHERE mc.market_cap <> 0) AS mcap_cnt,
		count(DISTINCT mc.symbol)   FILTER (WHERE mc.market_cap_eur <> 0) AS mcap_eur_cnt,
		count(DISTINCT mc.symbol)   FILTER (WHERE mc.market_cap_usd <> 0) AS mcap_usd_cnt
	FROM raw.historical_price_volume pv
	LEFT JOIN raw.historical_market_cap mc ON mc.date = pv.date
	LEFT JOIN clean.historical_forex_full f ON f.date = pv.date
	WHERE pv.date = $1
	GROUP BY pv.date`

// Recompute rebuilds raw.etl_summary for the last tradingDayWindow
// distinct trading dates present in historical_price_volume, counting
// distinct non-zero symbols per column, per spec.md §4.C14.
func Recompute(ctx context.Context, pool *pgxpool.Pool, gw *store.Gateway) error {
	var dates []time.Time
	const datesSQL = `
		SELECT DISTINCT date FROM raw.historical_price_volume
		ORDER BY date DESC LIMIT $1`
	if err := pgxscan.Select(ctx, pool, &dates, datesSQL, tradingDayWindow); err != nil {
		return fmt.Errorf("summary: load trading dates: %w", err)
	}
	if len(dates) == 0 {
		return nil
	}

	type countRow struct {
		Date        time.Time
		Day         string
		FXCnt       int64
		CloseCnt    int64
		VolCnt      int64
		CloseEURCnt int64
		CloseUSDCnt int64
		VolEURCnt   int64
		VolUSDCnt   int64
		MCapCnt     int64
		MCapEURCnt  int64
		MCapUSDCnt  int64
	}

	rows := make([][]any, 0, len(dates))
	now := time.Now().UTC()
	for _, d := range dates {
		var r countRow
		if err := pgxscan.Get(ctx, pool, &r, countSQL, d); err != nil {
			return fmt.Errorf("summary: count %s: %w", d.Format("2006-01-02"), err)
		}
		row := model.EtlSummary{
			Date: r.Date, Day: r.Day, FXCnt: r.FXCnt, CloseCnt: r.CloseCnt,
			VolCnt: r.VolCnt, CloseEURCnt: r.CloseEURCnt, CloseUSDCnt: r.CloseUSDCnt,
			VolEURCnt: r.VolEURCnt, VolUSDCnt: r.VolUSDCnt, MCapCnt: r.MCapCnt,
			MCapEURCnt: r.MCapEURCnt, MCapUSDCnt: r.MCapUSDCnt, CreatedAt: now,
		}
		rows = append(rows, row.Row())
	}

	_, err := gw.DeleteThenInsert(ctx, "raw.etl_summary", "date = ANY($1)", []any{dates},
		(&model.EtlSummary{}).Columns(), rows)
	return err
}

// ReferenceLists returns the distinct value sets a downstream CSV
// exporter reads to generate countries.csv, sectors.csv, industries.csv,
// kpis.csv and companies.csv, per SPEC_FULL.md's supplemented feature 1.
// This package stops at the SELECT DISTINCT boundary; CSV writing
// remains the excluded external utility.
func ReferenceLists(ctx context.Context, pool *pgxpool.Pool) (countries, sectors, industries, kpis, companies []string, err error) {
	if err = distinctStrings(ctx, pool, "SELECT DISTINCT country FROM raw.stock_info WHERE country <> '' ORDER BY country", &countries); err != nil {
		return
	}
	if err = distinctStrings(ctx, pool, "SELECT DISTINCT sector FROM raw.stock_info WHERE sector <> '' ORDER BY sector", &sectors); err != nil {
		return
	}
	if err = distinctStrings(ctx, pool, "SELECT DISTINCT industry FROM raw.stock_info WHERE industry <> '' ORDER BY industry", &industries); err != nil {
		return
	}
	if err = distinctStrings(ctx, pool, "SELECT DISTINCT name FROM raw.stock_info WHERE name <> '' ORDER BY name", &companies); err != nil {
		return
	}

	kpis = make([]string, 0, len(model.RatioColumnName))
	for _, column := range model.RatioColumnName {
		kpis = append(kpis, column)
	}
	sort.Strings(kpis)
	return
}

func distinctStrings(ctx context.Context, pool *pgxpool.Pool, sql string, out *[]string) error {
	return pgxscan.Select(ctx, pool, out, sql)
}

// Report renders a human-readable markdown status of the warehouse:
// symbol counts, row counts and how long ago the last price landed.
func Report(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	var numSymbols, numRelevant int64
	if err := pgxscan.Get(ctx, pool, &numSymbols, "SELECT count(*) FROM raw.stock_info"); err != nil {
		return "", fmt.Errorf("summary: count symbols: %w", err)
	}
	if err := pgxscan.Get(ctx, pool, &numRelevant, "SELECT count(*) FROM raw.stock_info WHERE relevant = true"); err != nil {
		return "", fmt.Errorf("summary: count relevant symbols: %w", err)
	}

	var numPrices, numRatios int64
	if err := pgxscan.Get(ctx, pool, &numPrices, "SELECT count(*) FROM raw.historical_price_volume"); err != nil {
		return "", fmt.Errorf("summary: count prices: %w", err)
	}
	if err := pgxscan.Get(ctx, pool, &numRatios, "SELECT count(*) FROM raw.financial_metrics"); err != nil {
		return "", fmt.Errorf("summary: count ratios: %w", err)
	}

	var lastPrice time.Time
	if err := pgxscan.Get(ctx, pool, &lastPrice, "SELECT coalesce(max(date), 'epoch') FROM raw.historical_price_volume"); err != nil {
		return "", fmt.Errorf("summary: last price date: %w", err)
	}

	b.WriteString("# fmpdata warehouse\n\n")
	p.Fprintf(&b, "  * Symbols tracked: %d (%d relevant)\n", numSymbols, numRelevant)
	p.Fprintf(&b, "  * Price rows: %d\n", numPrices)
	p.Fprintf(&b, "  * Ratio rows: %d\n", numRatios)

	if lastPrice.Unix() <= 0 {
		b.WriteString("  * Last price date: never\n")
	} else {
		age := timeago.English.Format(lastPrice)
		p.Fprintf(&b, "  * Last price date: %s (%s)\n", lastPrice.Format("2006-01-02"), age)
	}

	return b.String(), nil
}
