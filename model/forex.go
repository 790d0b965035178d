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

// ForexQuote is a raw (date, pair) -> price observation, pair being the
// six-character LLLRRR concatenation described in the GLOSSARY.
type ForexQuote struct {
	Date  time.Time
	Pair  string
	Price float64
}

func (q *ForexQuote) Columns() []string { return []string{"date", "pair", "price"} }
func (q *ForexQuote) Row() []any        { return []any{q.Date, q.Pair, q.Price} }

// ForexFullRow is a row of the normalized clean.historical_forex_full
// matrix: every (trading date, observed pair) gap-filled and split into
// its left/right currency components.
type ForexFullRow struct {
	Date     time.Time
	Pair     string
	CcyLeft  string
	CcyRight string
	Price    float64
}

func (r *ForexFullRow) Columns() []string {
	return []string{"date", "pair", "ccy_left", "ccy_right", "price"}
}

func (r *ForexFullRow) Row() []any {
	return []any{r.Date, r.Pair, r.CcyLeft, r.CcyRight, r.Price}
}

// LeftRight splits a six-character pair into its two three-letter legs.
func LeftRight(pair string) (string, string) {
	if len(pair) != 6 {
		return "", ""
	}
	return pair[:3], pair[3:]
}
