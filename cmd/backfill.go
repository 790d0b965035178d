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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantledger/fmpdata/benchmarks"
	"github.com/quantledger/fmpdata/fx"
	"github.com/quantledger/fmpdata/mcap"
	"github.com/quantledger/fmpdata/prices"
	"github.com/quantledger/fmpdata/retry"
)

// priceHistoryStart mirrors mcap.HistoryStart: prices.IngestHistorical
// itself fetches full history directly from the provider (it passes an
// empty "from"), but the FX conversion pass still needs a concrete
// window start.
var priceHistoryStart = mcap.HistoryStart

// backfillCmd loads full history for every known symbol, as opposed to
// run's daily-incremental mode. Intended for a freshly migrated
// database or for symbols newly added to raw.stock_info.
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Load full price and market-cap history for every known symbol",
	Long: `backfill drives prices.IngestHistorical and mcap.IngestHistorical
across every symbol on file through the batched retry driver, then runs
the windowed FX conversion over the whole history. Run symbols/profiles
first so raw.stock_info is populated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env := openPipeline(ctx)
		defer env.Close()

		known, err := knownSymbols(ctx, env.pool)
		if err != nil {
			return err
		}
		tickers := make([]string, 0, len(known))
		for t := range known {
			tickers = append(tickers, t)
		}

		if err := backfillPrices(ctx, env, tickers, known); err != nil {
			return err
		}
		if err := fx.ConvertWindowed(ctx, env.pool, fx.PriceVolume(), priceHistoryStart); err != nil {
			return err
		}

		if err := backfillMarketCap(ctx, env, tickers, known); err != nil {
			return err
		}
		if err := fx.ConvertWindowed(ctx, env.pool, fx.MarketCap(), mcap.HistoryStart); err != nil {
			return err
		}

		if err := backfillBenchmarks(ctx, env); err != nil {
			return err
		}
		return fx.ConvertBenchmarks(ctx, env.pool, priceHistoryStart)
	},
}

func backfillBenchmarks(ctx context.Context, env *pipelineEnv) error {
	symbols, err := benchmarks.Catalog(ctx, env.client)
	if err != nil {
		return err
	}

	driver := retry.New[string](retry.DefaultPacing())
	sum := driver.Run(ctx, symbols,
		func(ctx context.Context, symbol string) error {
			return benchmarks.Historical(ctx, env.client, env.gw, symbol)
		},
		func(ctx context.Context, batch []string) error { return nil },
		func(ctx context.Context, items []string) ([]string, error) {
			return missingFromTable(ctx, env.pool, "raw.benchmarks", "symbol", items)
		},
	)
	log.Ctx(ctx).Info().Str("Status", string(sum.Status)).Int("Observations", sum.NumObservations).
		Msg("benchmark history backfill finished")
	return nil
}

func backfillPrices(ctx context.Context, env *pipelineEnv, tickers []string, known map[string]string) error {
	driver := retry.New[string](retry.DefaultPacing())
	sum := driver.Run(ctx, tickers,
		func(ctx context.Context, symbol string) error {
			return prices.IngestHistorical(ctx, env.client, env.gw, symbol, known[symbol])
		},
		func(ctx context.Context, batch []string) error { return nil },
		func(ctx context.Context, items []string) ([]string, error) {
			return missingFromTable(ctx, env.pool, "raw.historical_price_volume", "symbol", items)
		},
	)
	log.Ctx(ctx).Info().Str("Status", string(sum.Status)).Int("Observations", sum.NumObservations).
		Msg("price history backfill finished")
	return nil
}

func backfillMarketCap(ctx context.Context, env *pipelineEnv, tickers []string, known map[string]string) error {
	driver := retry.New[string](retry.DefaultPacing())
	sum := driver.Run(ctx, tickers,
		func(ctx context.Context, symbol string) error {
			return mcap.IngestHistorical(ctx, env.client, env.gw, symbol, known[symbol])
		},
		func(ctx context.Context, batch []string) error { return nil },
		func(ctx context.Context, items []string) ([]string, error) {
			return missingFromTable(ctx, env.pool, "raw.historical_market_cap", "symbol", items)
		},
	)
	log.Ctx(ctx).Info().Str("Status", string(sum.Status)).Int("Observations", sum.NumObservations).
		Msg("market cap history backfill finished")
	return nil
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}
