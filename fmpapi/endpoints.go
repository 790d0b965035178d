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
package fmpapi

import (
	"context"
	"fmt"
)

// Symbols fetches the full list of tradeable equity symbols.
func (c *Client) Symbols(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/stock/list", nil)
}

// Profiles fetches company profile info for up to 500 tickers per call.
func (c *Client) Profiles(ctx context.Context, tickers []string) ([]byte, error) {
	if len(tickers) > 500 {
		return nil, fmt.Errorf("fmpapi: Profiles: batch of %d exceeds the 500-ticker limit", len(tickers))
	}
	joined := ""
	for i, t := range tickers {
		if i > 0 {
			joined += ","
		}
		joined += t
	}
	return c.get(ctx, "/profile/"+joined, nil)
}

// EODBulk fetches the CSV end-of-day body for a single trading date,
// shared across every symbol.
func (c *Client) EODBulk(ctx context.Context, date string) ([]byte, error) {
	return c.get(ctx, "/eod-bulk", map[string]string{"date": date})
}

// PriceHistory fetches per-symbol daily price/volume history.
func (c *Client) PriceHistory(ctx context.Context, symbol string, from, to string) ([]byte, error) {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}
	return c.get(ctx, "/historical-price-full/"+symbol, params)
}

// MarketCapHistory fetches per-symbol historical market capitalization.
func (c *Client) MarketCapHistory(ctx context.Context, symbol string, from, to string) ([]byte, error) {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}
	return c.get(ctx, "/historical-market-capitalization/"+symbol, params)
}

// MarketCapBatch fetches the current market cap for up to 1000 symbols.
func (c *Client) MarketCapBatch(ctx context.Context, symbols []string) ([]byte, error) {
	joined := ""
	for i, s := range symbols {
		if i > 0 {
			joined += ","
		}
		joined += s
	}
	return c.get(ctx, "/market-capitalization/"+joined, nil)
}

// ForexPairs fetches the full forex pair catalog.
func (c *Client) ForexPairs(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/symbol/available-forex-currency-pairs", nil)
}

// ForexHistory fetches full daily history for one forex pair.
func (c *Client) ForexHistory(ctx context.Context, pair string, from, to string) ([]byte, error) {
	params := map[string]string{}
	if from != "" {
		params["from"] = from
	}
	if to != "" {
		params["to"] = to
	}
	return c.get(ctx, "/historical-price-full/"+pair, params)
}

// RatiosHistory fetches up to `limit` quarterly ratio periods for a symbol.
func (c *Client) RatiosHistory(ctx context.Context, symbol string, limit int) ([]byte, error) {
	return c.get(ctx, "/ratios/"+symbol, map[string]string{
		"period": "quarter",
		"limit":  fmt.Sprintf("%d", limit),
	})
}

// BenchmarkCatalog fetches the index/ETF catalog treated as benchmarks.
func (c *Client) BenchmarkCatalog(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/symbol/available-indexes", nil)
}

// BenchmarkHistory fetches daily close history for an index/ETF symbol.
func (c *Client) BenchmarkHistory(ctx context.Context, symbol string, from, to string) ([]byte, error) {
	return c.PriceHistory(ctx, symbol, from, to)
}
