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
	"sync"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantledger/fmpdata/forex"
	"github.com/quantledger/fmpdata/fx"
	"github.com/quantledger/fmpdata/mcap"
	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/percentile"
	"github.com/quantledger/fmpdata/prices"
	"github.com/quantledger/fmpdata/ratios"
	"github.com/quantledger/fmpdata/retry"
	"github.com/quantledger/fmpdata/summary"
	"github.com/quantledger/fmpdata/symbols"
)

// runCmd executes one daily incremental pass through every ingestion
// component, strictly ordered per spec.md §5: symbols, profiles, forex,
// forex-normalize, vol_avg, relevance, prices, price-fx, mcap, mcap-fx,
// ratios, percentiles, summary.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one daily incremental ingestion pass",
	Long: `run executes the full ordered ingestion pipeline once: symbol and
profile refresh, forex raw + forward-filled normalization, trading-volume
normalization and relevance selection, daily price/volume and market-cap
loads with their FX conversions, quarterly ratio refresh, cross-metric
percentile buckets, and the ETL summary recompute.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env := openPipeline(ctx)
		defer env.Close()

		logger := log.Logger
		ctx = logger.WithContext(ctx)

		if _, err := symbols.LoadSymbols(ctx, env.client, env.gw); err != nil {
			return err
		}

		known, err := knownSymbols(ctx, env.pool)
		if err != nil {
			return err
		}
		tickers := make([]string, 0, len(known))
		for t := range known {
			tickers = append(tickers, t)
		}
		if _, err := symbols.LoadProfiles(ctx, env.client, env.gw, tickers); err != nil {
			return err
		}

		if _, err := forex.IngestRaw(ctx, env.client, env.gw); err != nil {
			return err
		}
		if _, err := forex.Normalize(ctx, env.pool, env.gw); err != nil {
			return err
		}

		if err := symbols.NormalizeVolAvg(ctx, env.pool); err != nil {
			return err
		}
		if err := symbols.ComputeRelevance(ctx, env.pool); err != nil {
			return err
		}

		relevant, err := relevantSymbols(ctx, env.pool)
		if err != nil {
			return err
		}
		known, err = knownSymbols(ctx, env.pool)
		if err != nil {
			return err
		}

		var lastPriceDate time.Time
		if err := pgxscan.Get(ctx, env.pool, &lastPriceDate,
			`SELECT COALESCE(max(date), '2014-01-01') FROM raw.historical_price_volume`); err != nil {
			return err
		}
		if err := prices.IngestDaily(ctx, env.client, env.gw, lastPriceDate, known); err != nil {
			return err
		}
		if err := fx.ConvertDaily(ctx, env.pool, fx.PriceVolume(), 10); err != nil {
			return err
		}

		if err := mcap.IngestDaily(ctx, env.client, env.gw, relevant, known); err != nil {
			return err
		}
		if err := fx.ConvertDaily(ctx, env.pool, fx.MarketCap(), 10); err != nil {
			return err
		}

		if err := runRatios(ctx, env, relevant); err != nil {
			return err
		}

		if err := percentile.Bucketize(ctx, env.pool, env.gw); err != nil {
			return err
		}

		return summary.Recompute(ctx, env.pool, env.gw)
	},
}

// runRatios drives the per-symbol quarterly ratio refresh through
// retry.Driver, batching fetch+promote across the relevant population.
func runRatios(ctx context.Context, env *pipelineEnv, relevant []string) error {
	var mu sync.Mutex
	fetched := map[string][]model.Ratio{}

	driver := retry.New[string](retry.DefaultPacing())
	sum := driver.Run(ctx, relevant,
		func(ctx context.Context, symbol string) error {
			rows, err := ratios.Fetch(ctx, env.client, symbol)
			if err != nil {
				return err
			}
			mu.Lock()
			fetched[symbol] = rows
			mu.Unlock()
			return nil
		},
		func(ctx context.Context, batch []string) error {
			mu.Lock()
			var rows []model.Ratio
			for _, symbol := range batch {
				rows = append(rows, fetched[symbol]...)
			}
			mu.Unlock()
			if len(rows) == 0 {
				return nil
			}
			return ratios.Promote(ctx, env.gw, rows)
		},
		func(ctx context.Context, items []string) ([]string, error) {
			return missingFromTable(ctx, env.pool, "raw.financial_metrics", "symbol", items)
		},
	)

	log.Ctx(ctx).Info().Str("Status", string(sum.Status)).Int("Observations", sum.NumObservations).
		Int("Retries", sum.NumRetries).Str("Duration", sum.Duration().String()).Msg("ratios ingestion finished")
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
