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
package forex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
)

const fullDDL = `
CREATE TABLE clean.historical_forex_full (
	date      date NOT NULL,
	pair      text NOT NULL,
	ccy_left  text NOT NULL,
	ccy_right text NOT NULL,
	price     double precision NOT NULL,
	PRIMARY KEY (date, pair)
)`

type rawQuote struct {
	Date  time.Time
	Pair  string
	Price float64
}

// Normalize materializes the trading-date x pair cross product,
// forward-fills gaps within each pair, synthesizes EUREUR/USDUSD
// identity rows at price 1, and drops rows still null after fill --
// producing clean.historical_forex_full, per spec.md §4.C7.
func Normalize(ctx context.Context, pool *pgxpool.Pool, gw *store.Gateway) (int64, error) {
	var quotes []rawQuote
	if err := pgxscan.Select(ctx, pool, &quotes,
		`SELECT date, pair, price FROM raw.historical_forex ORDER BY pair, date`); err != nil {
		return 0, fmt.Errorf("forex normalize: read raw quotes: %w", err)
	}

	if err := gw.Recreate(ctx, "clean.historical_forex_full", fullDDL); err != nil {
		return 0, fmt.Errorf("forex normalize: recreate full table: %w", err)
	}

	dateSet := map[time.Time]bool{}
	byPair := map[string][]rawQuote{}
	for _, q := range quotes {
		dateSet[q.Date] = true
		byPair[q.Pair] = append(byPair[q.Pair], q)
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var rows [][]any
	for pair, pairQuotes := range byPair {
		sort.Slice(pairQuotes, func(i, j int) bool { return pairQuotes[i].Date.Before(pairQuotes[j].Date) })
		firstQuote := pairQuotes[0].Date

		byDate := make(map[time.Time]float64, len(pairQuotes))
		for _, q := range pairQuotes {
			byDate[q.Date] = q.Price
		}

		left, right := model.LeftRight(pair)

		var lastPrice float64
		haveLast := false
		for _, d := range dates {
			if d.Before(firstQuote) {
				continue
			}
			if p, ok := byDate[d]; ok {
				lastPrice, haveLast = p, true
			}
			if !haveLast {
				continue
			}
			rows = append(rows, (&model.ForexFullRow{
				Date: d, Pair: pair, CcyLeft: left, CcyRight: right, Price: lastPrice,
			}).Row())
		}
	}

	for _, d := range dates {
		rows = append(rows,
			(&model.ForexFullRow{Date: d, Pair: "EUREUR", CcyLeft: "EUR", CcyRight: "EUR", Price: 1}).Row(),
			(&model.ForexFullRow{Date: d, Pair: "USDUSD", CcyLeft: "USD", CcyRight: "USD", Price: 1}).Row(),
		)
	}

	cols := (&model.ForexFullRow{}).Columns()
	return gw.BulkCopy(ctx, "stage.historical_forex_full", "clean.historical_forex_full", cols, rows)
}
