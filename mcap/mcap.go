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

// Package mcap implements the Market-Cap Ingestion component: full
// history per symbol, and a daily "most-frequent-date" consensus load.
package mcap

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/quantledger/fmpdata/fmpapi"
	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
	"github.com/quantledger/fmpdata/validate"
)

// HistoryStart is the earliest market-cap date loaded historically,
// per spec.md §4.C9.
var HistoryStart = time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)

const mcapFinal = "raw.historical_market_cap"

// IngestHistorical loads a symbol's full market-cap history from
// HistoryStart.
func IngestHistorical(ctx context.Context, client *fmpapi.Client, gw *store.Gateway, symbol, currency string) error {
	body, err := client.MarketCapHistory(ctx, symbol, HistoryStart.Format("2006-01-02"), "")
	if err != nil {
		return fmt.Errorf("mcap: history fetch %s: %w", symbol, err)
	}

	points := make([]model.MarketCap, 0)
	for _, row := range fmpapi.HistoricalRows(body) {
		date, err := time.Parse("2006-01-02", row.Get("date").String())
		if err != nil {
			continue
		}
		value := row.Get("marketCap").Float()
		if ok, _ := validate.MarketCap(symbol, date, value); !ok {
			continue
		}
		points = append(points, model.MarketCap{Symbol: symbol, Date: date, MarketCap: value, Currency: currency})
	}
	tagQuarters(points)

	rows := make([][]any, len(points))
	for i := range points {
		rows[i] = points[i].Row()
	}

	_, err = gw.BulkCopy(ctx, "stage.historical_market_cap", mcapFinal, (&model.MarketCap{}).Columns(), rows)
	return err
}

// tagQuarters fills in Year, Quarter and LastQuarterDate for a symbol's
// full market-cap history, mirroring prices.TagQuarters so both tables
// tag quarter boundaries identically.
func tagQuarters(points []model.MarketCap) {
	now := time.Now().UTC()
	curYear, curQuarter := now.Year(), model.QuarterOf(int(now.Month()))

	maxDateInBucket := map[[2]int]time.Time{}
	for _, p := range points {
		key := [2]int{p.Date.Year(), model.QuarterOf(int(p.Date.Month()))}
		if p.Date.After(maxDateInBucket[key]) {
			maxDateInBucket[key] = p.Date
		}
	}

	for i := range points {
		p := &points[i]
		p.Year = p.Date.Year()
		p.Quarter = model.QuarterOf(int(p.Date.Month()))
		key := [2]int{p.Year, p.Quarter}
		isCurrent := p.Year == curYear && p.Quarter == curQuarter
		p.LastQuarterDate = !isCurrent && p.Date.Equal(maxDateInBucket[key])
	}
}

type fetchResult struct {
	symbol    string
	date      time.Time
	marketCap float64
	currency  string
}

// IngestDaily fetches current market cap across symbols in 5 parallel
// batches of up to 1000, reconciles the provider's "as-of" date by
// majority vote (the mode), keeps only rows dated that way, logs the
// top-3 mode candidates, deletes existing rows for that date, and
// inserts the reconciled set -- per spec.md §4.C9 and scenario S5.
func IngestDaily(ctx context.Context, client *fmpapi.Client, gw *store.Gateway, symbols []string, currencyOf map[string]string) error {
	logger := zerolog.Ctx(ctx)

	const batchSize = 1000
	const concurrency = 5

	var batches [][]string
	for start := 0; start < len(symbols); start += batchSize {
		end := start + batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batches = append(batches, symbols[start:end])
	}

	results := make([]fetchResult, 0, len(symbols))
	var mu resultSink
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			body, err := client.MarketCapBatch(gctx, batch)
			if err != nil {
				logger.Warn().Err(err).Msg("market cap batch fetch failed")
				return nil
			}
			for _, row := range fmpapi.HistoricalRows(body) {
				symbol := row.Get("symbol").String()
				date, err := time.Parse("2006-01-02", row.Get("date").String())
				if err != nil {
					continue
				}
				value := row.Get("marketCap").Float()
				if ok, _ := validate.MarketCap(symbol, date, value); !ok {
					continue
				}
				mu.add(fetchResult{symbol: symbol, date: date, marketCap: value, currency: currencyOf[symbol]})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	results = mu.items

	mode, top3 := modeDate(results)
	logger.Info().Time("Mode", mode).Interface("Top3", top3).Msg("market cap mode candidates")

	cols := (&model.MarketCap{}).Columns()
	points := make([]model.MarketCap, 0, len(results))
	for _, r := range results {
		if !r.date.Equal(mode) {
			continue
		}
		points = append(points, model.MarketCap{Symbol: r.symbol, Date: r.date, MarketCap: r.marketCap, Currency: r.currency})
	}
	tagQuarters(points)

	rows := make([][]any, len(points))
	for i := range points {
		rows[i] = points[i].Row()
	}

	_, err := gw.DeleteThenInsert(ctx, mcapFinal, "date = $1", []any{mode}, cols, rows)
	return err
}

type dateCount struct {
	Date  time.Time
	Count int
}

// modeDate returns the most frequent date across results, along with
// the top 3 (date, count) candidates sorted by count descending.
func modeDate(results []fetchResult) (time.Time, []dateCount) {
	counts := map[time.Time]int{}
	for _, r := range results {
		counts[r.date]++
	}

	candidates := make([]dateCount, 0, len(counts))
	for d, c := range counts {
		candidates = append(candidates, dateCount{Date: d, Count: c})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Count > candidates[j].Count })

	top3 := candidates
	if len(top3) > 3 {
		top3 = top3[:3]
	}

	var mode time.Time
	if len(candidates) > 0 {
		mode = candidates[0].Date
	}
	return mode, top3
}

type resultSink struct {
	mu    sync.Mutex
	items []fetchResult
}

func (s *resultSink) add(r fetchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, r)
}
