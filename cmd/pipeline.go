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
package cmd

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/quantledger/fmpdata/fmpapi"
	"github.com/quantledger/fmpdata/internal/config"
	"github.com/quantledger/fmpdata/store"
)

const requestsPerMinute = 750

// pipelineEnv bundles the connections every ingestion sub-command needs.
type pipelineEnv struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	client *fmpapi.Client
	gw     *store.Gateway
}

// openPipeline loads configuration, opens the database pool, and
// constructs the provider client and gateway, logging and exiting the
// way the teacher's run command fatals on a broken subscription.
func openPipeline(ctx context.Context) *pipelineEnv {
	cfg := config.Load()

	runID := uuid.NewString()
	log.Logger = log.With().Str("RunID", runID).Logger()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("could not open database pool")
	}

	gw := store.New(pool)
	if err := gw.EnsureSchemas(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not ensure schemas")
	}

	return &pipelineEnv{
		cfg:    cfg,
		pool:   pool,
		client: fmpapi.New(cfg.FMPAPIKey, requestsPerMinute),
		gw:     gw,
	}
}

func (p *pipelineEnv) Close() {
	p.pool.Close()
}

// tickerCurrency is one row of the ticker -> trading-currency map every
// per-symbol ingestion step needs.
type tickerCurrency struct {
	Ticker   string
	Currency string
}

// knownSymbols returns every ticker currently in raw.stock_info along
// with its trading currency, for the components that only operate on
// symbols already on file (profile load, daily price/mcap refresh,
// backfill).
func knownSymbols(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	var rows []tickerCurrency
	const sql = `SELECT ticker, currency FROM raw.stock_info`
	if err := pgxscan.Select(ctx, pool, &rows, sql); err != nil {
		return nil, fmt.Errorf("pipeline: load known symbols: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Ticker] = r.Currency
	}
	return out, nil
}

// relevantSymbols returns the tickers flagged relevant, per spec.md
// §4.C5 -- the population the daily market-cap refresh and the ratio
// refresh restrict themselves to.
func relevantSymbols(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	var tickers []string
	const sql = `SELECT ticker FROM raw.stock_info WHERE relevant = true`
	if err := pgxscan.Select(ctx, pool, &tickers, sql); err != nil {
		return nil, fmt.Errorf("pipeline: load relevant symbols: %w", err)
	}
	return tickers, nil
}

// missingFromTable implements the retry.Driver PresentFunc contract for
// symbol-keyed tables: it returns the subset of candidates with no row
// at all in table.symbolColumn, per spec.md §4.C4 step 6.
func missingFromTable(ctx context.Context, pool *pgxpool.Pool, table, symbolColumn string, candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	var present []string
	sql := fmt.Sprintf(`SELECT DISTINCT %s FROM %s WHERE %s = ANY($1)`, symbolColumn, table, symbolColumn)
	if err := pgxscan.Select(ctx, pool, &present, sql, candidates); err != nil {
		return nil, fmt.Errorf("pipeline: missing-from-table %s: %w", table, err)
	}
	have := make(map[string]bool, len(present))
	for _, s := range present {
		have[s] = true
	}
	var missing []string
	for _, c := range candidates {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing, nil
}
