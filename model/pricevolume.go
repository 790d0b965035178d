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

// PriceVolume is a single (symbol, date) EOD observation. Year/Quarter/
// LastQuarterDate are derived at ingestion time, never recomputed
// downstream.
type PriceVolume struct {
	Symbol   string
	Date     time.Time
	Close    float64
	Volume   float64
	Currency string

	Year            int
	Quarter         int
	LastQuarterDate bool

	CloseEUR  float64
	CloseUSD  float64
	VolumeEUR float64
	VolumeUSD float64
}

func (p *PriceVolume) Columns() []string {
	return []string{
		"symbol", "date", "close", "volume", "currency", "year", "quarter",
		"last_quarter_date", "close_eur", "close_usd", "volume_eur", "volume_usd",
	}
}

func (p *PriceVolume) Row() []any {
	return []any{
		p.Symbol, p.Date, p.Close, p.Volume, p.Currency, p.Year, p.Quarter,
		p.LastQuarterDate, p.CloseEUR, p.CloseUSD, p.VolumeEUR, p.VolumeUSD,
	}
}

// QuarterOf returns the calendar quarter (1-4) of a month (1-12), per
// spec.md §4.C8: ((month-1)//3)+1.
func QuarterOf(month int) int {
	return ((month - 1) / 3) + 1
}

// NextQuarter returns the (year, quarter) pair immediately following the
// given one, wrapping Q4 into Q1 of the next year. Index construction
// applies the same rule inside its SQL (index/query.go) to shift
// composition one quarter ahead of the prices it trades; it does not
// call this function.
func NextQuarter(year, quarter int) (int, int) {
	if quarter == 4 {
		return year + 1, 1
	}
	return year, quarter + 1
}
