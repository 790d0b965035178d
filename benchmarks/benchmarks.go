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

// Package benchmarks implements catalog discovery and historical
// loading for the index/ETF symbols the Index Builder's benchmark
// risk/return path (index.Builder.BuildBenchmark) reads from raw.benchmarks.
package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/quantledger/fmpdata/fmpapi"
	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
)

const (
	benchStage = "stage.benchmarks"
	benchFinal = "raw.benchmarks"
)

// Catalog fetches the provider's index/ETF catalog and returns the
// ticker symbols it carries, for Historical to load one at a time.
func Catalog(ctx context.Context, client *fmpapi.Client) ([]string, error) {
	body, err := client.BenchmarkCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("benchmarks: catalog fetch: %w", err)
	}

	var symbols []string
	for _, item := range gjson.ParseBytes(body).Array() {
		if symbol := item.Get("symbol").String(); symbol != "" {
			symbols = append(symbols, symbol)
		}
	}
	return symbols, nil
}

// Historical loads a benchmark symbol's full close-price history,
// mirroring prices.IngestHistorical's shape but with no volume or
// quarter tagging -- benchmarks are FX-converted, not quarter-bucketed.
func Historical(ctx context.Context, client *fmpapi.Client, gw *store.Gateway, symbol string) error {
	body, err := client.BenchmarkHistory(ctx, symbol, "", "")
	if err != nil {
		return fmt.Errorf("benchmarks: history fetch %s: %w", symbol, err)
	}

	var rows [][]any
	for _, row := range fmpapi.HistoricalRows(body) {
		date, err := time.Parse("2006-01-02", row.Get("date").String())
		if err != nil {
			continue
		}
		close, ok := fmpapi.Close(row)
		if !ok || close <= 0 {
			continue
		}
		rows = append(rows, (&model.Benchmark{Symbol: symbol, Date: date, Close: close}).Row())
	}

	_, err = gw.BulkCopy(ctx, benchStage, benchFinal, (&model.Benchmark{}).Columns(), rows)
	return err
}
