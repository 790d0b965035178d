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

// Package forex implements raw forex pair ingestion (C6) and the
// forward-filled full forex matrix (C7).
package forex

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/quantledger/fmpdata/fmpapi"
	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
)

// HistoryStart is the beginning of full forex history, per spec.md §4.C6.
var HistoryStart = time.Date(2013, 12, 1, 0, 0, 0, 0, time.UTC)

const rawDDL = `
CREATE TABLE raw.historical_forex (
	date  date NOT NULL,
	pair  text NOT NULL,
	price double precision NOT NULL,
	PRIMARY KEY (date, pair)
)`

// IngestRaw drops and recreates raw.historical_forex, then loads full
// history from HistoryStart to yesterday for every pair whose catalog
// entry starts with EUR or USD.
func IngestRaw(ctx context.Context, client *fmpapi.Client, gw *store.Gateway) (int64, error) {
	logger := zerolog.Ctx(ctx)

	if err := gw.Recreate(ctx, "raw.historical_forex", rawDDL); err != nil {
		return 0, fmt.Errorf("forex: recreate raw table: %w", err)
	}

	body, err := client.ForexPairs(ctx)
	if err != nil {
		return 0, fmt.Errorf("forex: fetch pair catalog: %w", err)
	}

	var pairs []string
	for _, item := range gjson.ParseBytes(body).Array() {
		pair := item.Get("symbol").String()
		if len(pair) == 6 && (pair[:3] == "EUR" || pair[:3] == "USD") {
			pairs = append(pairs, pair)
		}
	}

	from := HistoryStart.Format("2006-01-02")
	to := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	var total int64
	cols := (&model.ForexQuote{}).Columns()
	for _, pair := range pairs {
		body, err := client.ForexHistory(ctx, pair, from, to)
		if err != nil {
			logger.Warn().Err(err).Str("Pair", pair).Msg("forex history fetch failed")
			continue
		}

		var rows [][]any
		for _, row := range fmpapi.HistoricalRows(body) {
			date, err := time.Parse("2006-01-02", row.Get("date").String())
			if err != nil {
				continue
			}
			price, ok := fmpapi.Close(row)
			if !ok {
				continue
			}
			rows = append(rows, (&model.ForexQuote{Date: date, Pair: pair, Price: price}).Row())
		}

		copied, err := gw.BulkCopy(ctx, "stage.historical_forex", "raw.historical_forex", cols, rows)
		if err != nil {
			logger.Error().Err(err).Str("Pair", pair).Msg("forex promote failed")
			continue
		}
		total += copied
	}

	return total, nil
}
