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
package validate

import (
	"strings"
	"time"

	"github.com/quantledger/fmpdata/model"
)

const maxNameLen = 255

// Symbol checks field presence and string length on a raw symbol row.
// Returns the canonicalized symbol, whether it passed, and a drop
// reason when it did not.
func Symbol(s model.Symbol) (model.Symbol, bool, string) {
	ticker := strings.TrimSpace(s.Ticker)
	if ticker == "" {
		return s, false, "missing ticker"
	}
	if len(s.Name) > maxNameLen {
		s.Name = s.Name[:maxNameLen]
	}
	s.Ticker = ticker
	s.Currency = Currency(s.Currency)
	s.Exchange = strings.ToUpper(strings.TrimSpace(s.Exchange))
	return s, true, ""
}

// PriceVolume checks a raw price/volume row against spec.md §4.C3's
// numeric ranges (close >= 0 and |close| < 1e16).
func PriceVolume(symbol string, date time.Time, close, volume float64) (bool, string) {
	if symbol == "" {
		return false, "missing symbol"
	}
	if date.IsZero() {
		return false, "missing date"
	}
	if !NonNegative(close) || !InRange(close, MaxClose) {
		return false, "close out of range"
	}
	if !NonNegative(volume) {
		return false, "negative volume"
	}
	return true, ""
}

// MarketCap checks a raw market-cap row against spec.md §4.C3's bound
// (market_cap >= 0 and |x| < 1e24).
func MarketCap(symbol string, date time.Time, marketCap float64) (bool, string) {
	if symbol == "" {
		return false, "missing symbol"
	}
	if date.IsZero() {
		return false, "missing date"
	}
	if !NonNegative(marketCap) || !InRange(marketCap, MaxMarketCap) {
		return false, "market_cap out of range"
	}
	return true, ""
}

// RatioPeriod reports whether a period string is one of the five
// recognized values.
func RatioPeriod(period string) bool {
	switch period {
	case "Q1", "Q2", "Q3", "Q4", "FY":
		return true
	default:
		return false
	}
}
