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

// Package index implements the custom-basket Index Builder: filter,
// rank, weight, rebalance, and time-series construction driven entirely
// by on-demand reads of the canonicalized raw/clean schemas.
package index

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantledger/fmpdata/model"
)

// Builder reads the canonicalized store to construct custom index
// baskets. It holds no mutable state and is safe for concurrent use.
type Builder struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Builder {
	return &Builder{Pool: pool}
}

// Build runs the full pipeline described in spec.md §4.C13.
func (b *Builder) Build(ctx context.Context, req model.IndexRequest) (model.IndexResult, error) {
	sql, args, err := buildSnapshotSQL(req)
	if err != nil {
		return model.IndexResult{}, err
	}

	var rows []snapshotRow
	if err := pgxscan.Select(ctx, b.Pool, &rows, sql, args...); err != nil {
		return model.IndexResult{}, fmt.Errorf("index: snapshot query: %w", err)
	}
	if len(rows) == 0 {
		return model.IndexResult{}, nil
	}

	companyName, country, err := b.companyAttributes(ctx, rows)
	if err != nil {
		return model.IndexResult{}, fmt.Errorf("index: company attributes: %w", err)
	}

	series := buildSeries(rows, req.Currency, req.Weight)
	riskReturn := calculateRiskReturn(series)
	rebased := rebase(series, req.StartDate, req.EndDate, req.StartAmount)
	weights := constituentWeights(rows, req.Currency, req.Weight, companyName, country)

	return model.IndexResult{
		Series:             rebased,
		ConstituentWeights: weights,
		RiskReturn:         riskReturn,
	}, nil
}

type companyRow struct {
	Ticker  string
	Name    string
	Country string
}

func (b *Builder) companyAttributes(ctx context.Context, rows []snapshotRow) (map[string]string, map[string]string, error) {
	symbolSet := map[string]bool{}
	for _, r := range rows {
		symbolSet[r.Symbol] = true
	}
	symbols := make([]string, 0, len(symbolSet))
	for s := range symbolSet {
		symbols = append(symbols, s)
	}

	var companies []companyRow
	const sql = `SELECT ticker, name, country FROM raw.stock_info WHERE ticker = ANY($1)`
	if err := pgxscan.Select(ctx, b.Pool, &companies, sql, symbols); err != nil {
		return nil, nil, err
	}

	name := make(map[string]string, len(companies))
	country := make(map[string]string, len(companies))
	for _, c := range companies {
		name[c.Ticker] = c.Name
		country[c.Ticker] = c.Country
	}
	return name, country, nil
}

// BuildBenchmark computes BenchmarkRiskReturn for a single catalog
// symbol over [start, end], per SPEC_FULL.md's supplemented feature 2.
// Day-over-day return ratios are unaffected by rebasing, so the raw
// close columns are used directly.
func (b *Builder) BuildBenchmark(ctx context.Context, symbol string, start, end time.Time) (model.BenchmarkRiskReturn, error) {
	type benchmarkRow struct {
		Date     time.Time
		CloseEUR float64
		CloseUSD float64
	}

	var rows []benchmarkRow
	const sql = `
		SELECT date, close_eur, close_usd
		FROM raw.benchmarks
		WHERE symbol = $1 AND date >= $2 AND date <= $3
		  AND close_eur IS NOT NULL AND close_usd IS NOT NULL
		ORDER BY date`
	if err := pgxscan.Select(ctx, b.Pool, &rows, sql, symbol, start, end); err != nil {
		return model.BenchmarkRiskReturn{}, fmt.Errorf("index: benchmark fetch %s: %w", symbol, err)
	}
	if len(rows) == 0 {
		return model.BenchmarkRiskReturn{}, nil
	}

	points := make([]model.IndexPoint, len(rows))
	closeEUR := map[time.Time]float64{}
	closeUSD := map[time.Time]float64{}
	for i, r := range rows {
		points[i] = model.IndexPoint{Date: r.Date, Value: r.CloseEUR}
		closeEUR[r.Date] = r.CloseEUR
		closeUSD[r.Date] = r.CloseUSD
	}

	return benchmarkRiskReturn(points, closeEUR, closeUSD), nil
}
