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
package model

import "time"

// MarketCap is a (symbol, date) market-capitalization observation in the
// symbol's trading currency, plus canonical EUR/USD columns populated by
// FX conversion.
type MarketCap struct {
	Symbol    string
	Date      time.Time
	MarketCap float64
	Currency  string

	Year            int
	Quarter         int
	LastQuarterDate bool

	MarketCapEUR float64
	MarketCapUSD float64
}

func (m *MarketCap) Columns() []string {
	return []string{
		"symbol", "date", "market_cap", "currency", "year", "quarter",
		"last_quarter_date", "market_cap_eur", "market_cap_usd",
	}
}

func (m *MarketCap) Row() []any {
	return []any{
		m.Symbol, m.Date, m.MarketCap, m.Currency, m.Year, m.Quarter,
		m.LastQuarterDate, m.MarketCapEUR, m.MarketCapUSD,
	}
}
