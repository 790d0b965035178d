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

// Package symbols implements the Symbol & Reference Loader: stock
// symbol refresh, profile upsert, vol_avg currency normalization, and
// relevance selection.
package symbols

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/quantledger/fmpdata/fmpapi"
	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
	"github.com/quantledger/fmpdata/validate"
)

const (
	symbolsStage = "stage.stock_symbols"
	symbolsFinal = "raw.stock_symbols"
)

// LoadSymbols refreshes raw.stock_symbols from the provider's symbol
// list, validating each row, then replacing the rows of every returned
// ticker in one delete-then-insert transaction.
func LoadSymbols(ctx context.Context, client *fmpapi.Client, gw *store.Gateway) (int64, error) {
	logger := zerolog.Ctx(ctx)

	body, err := client.Symbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("symbols: fetch: %w", err)
	}

	var rows [][]any
	var loaded []string
	for _, item := range gjson.ParseBytes(body).Array() {
		raw := model.Symbol{
			Ticker:   item.Get("symbol").String(),
			Name:     item.Get("name").String(),
			Currency: item.Get("currency").String(),
			Exchange: item.Get("exchangeShortName").String(),
			IsETF:    item.Get("type").String() == "etf",
		}
		clean, ok, reason := validate.Symbol(raw)
		if !ok {
			logger.Warn().Str("Raw", item.Raw).Str("Reason", reason).Msg("dropping symbol row")
			continue
		}
		rows = append(rows, clean.Row())
		loaded = append(loaded, clean.Ticker)
	}

	return gw.DeleteThenInsert(ctx, symbolsFinal, "ticker = ANY($1)", []any{loaded}, (&model.Symbol{}).Columns(), rows)
}

// LoadProfiles upserts company profile info in batches of 500, per
// spec.md §4.C1, applying the currency remap on read.
func LoadProfiles(ctx context.Context, client *fmpapi.Client, gw *store.Gateway, tickers []string) (int64, error) {
	logger := zerolog.Ctx(ctx)

	const batchSize = 500
	var rows [][]any
	var loaded []string

	for start := 0; start < len(tickers); start += batchSize {
		end := start + batchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		body, err := client.Profiles(ctx, tickers[start:end])
		if err != nil {
			logger.Error().Err(err).Int("BatchStart", start).Msg("profile batch fetch failed")
			continue
		}
		for _, item := range gjson.ParseBytes(body).Array() {
			raw := model.Symbol{
				Ticker:    item.Get("symbol").String(),
				Name:      item.Get("companyName").String(),
				Currency:  item.Get("currency").String(),
				Country:   item.Get("country").String(),
				Sector:    item.Get("sector").String(),
				Industry:  item.Get("industry").String(),
				Exchange:  item.Get("exchangeShortName").String(),
				IsETF:     item.Get("isEtf").Bool(),
				IsADR:     item.Get("isAdr").Bool(),
				IsFund:    item.Get("isFund").Bool(),
				CEO:       item.Get("ceo").String(),
				Website:   item.Get("website").String(),
				Employees: item.Get("fullTimeEmployees").Int(),
				VolAvg:    item.Get("volAvg").Float(),
			}
			if ipo := item.Get("ipoDate").String(); ipo != "" {
				if t, err := time.Parse("2006-01-02", ipo); err == nil {
					raw.IPODate = t
				}
			}
			clean, ok, reason := validate.Symbol(raw)
			if !ok {
				logger.Warn().Str("Ticker", raw.Ticker).Str("Reason", reason).Msg("dropping profile row")
				continue
			}
			rows = append(rows, clean.Row())
			loaded = append(loaded, clean.Ticker)
		}
	}

	return gw.DeleteThenInsert(ctx, "raw.stock_info", "ticker = ANY($1)", []any{loaded}, (&model.Symbol{}).Columns(), rows)
}

// NormalizeVolAvg converts each symbol's vol_avg into EUR and USD,
// per spec.md §4.C5: select the most recent forex date with >= 200
// pairs, then divide by the <target><source> pair price.
func NormalizeVolAvg(ctx context.Context, pool *pgxpool.Pool) error {
	var refDate time.Time
	const dateSQL = `
		SELECT date FROM clean.historical_forex_full
		GROUP BY date
		HAVING count(DISTINCT pair) >= 200
		ORDER BY date DESC
		LIMIT 1`
	if err := pgxscan.Get(ctx, pool, &refDate, dateSQL); err != nil {
		return fmt.Errorf("vol_avg_normalize: no reference forex date: %w", err)
	}

	const updateSQL = `
		UPDATE raw.stock_info si
		SET vol_avg_eur = si.vol_avg / NULLIF(feur.price, 0),
		    vol_avg_usd = si.vol_avg / NULLIF(fusd.price, 0)
		FROM clean.historical_forex_full feur, clean.historical_forex_full fusd
		WHERE feur.date = $1 AND feur.pair = 'EUR' || si.currency
		  AND fusd.date = $1 AND fusd.pair = 'USD' || si.currency`
	_, err := pool.Exec(ctx, updateSQL, refDate)
	return err
}

// ComputeRelevance marks, per company_name, the symbol with the
// greatest vol_avg_usd as relevant -- excluding ETFs, funds, ADRs, and
// OTC-exchange rows, per spec.md §3/§4.C5.
func ComputeRelevance(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `UPDATE raw.stock_info SET relevant = false`); err != nil {
		return err
	}

	const sql = `
		UPDATE raw.stock_info si
		SET relevant = true
		FROM (
			SELECT DISTINCT ON (name) ticker
			FROM raw.stock_info
			WHERE is_etf = false AND is_adr = false AND is_fund = false
			  AND exchange <> '' AND exchange <> $1
			ORDER BY name, vol_avg_usd DESC NULLS LAST
		) winners
		WHERE si.ticker = winners.ticker`
	_, err := pool.Exec(ctx, sql, model.OTCExchange)
	return err
}
