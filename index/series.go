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
package index

import (
	"sort"
	"time"

	"github.com/quantledger/fmpdata/model"
)

const startingIndexValue = 1000.0

func priceOf(row snapshotRow, currency model.Currency) float64 {
	if currency == model.CurrencyEUR {
		return row.CloseEUR
	}
	return row.CloseUSD
}

func marketCapOf(row snapshotRow, currency model.Currency) float64 {
	if currency == model.CurrencyEUR {
		return row.MarketCapEUR
	}
	return row.MarketCapUSD
}

// buildSeries implements spec.md §4.C13 steps 5-8: price/weight pivots,
// a date x symbol shares matrix rebalanced on quarter boundaries, and
// the resulting daily index series, all keyed by an unrebased value of
// 1000 at the first rebalance date.
func buildSeries(rows []snapshotRow, currency model.Currency, weight model.WeightScheme) []model.IndexPoint {
	if len(rows) == 0 {
		return nil
	}

	symbolSet := map[string]bool{}
	dateSet := map[time.Time]bool{}
	for _, r := range rows {
		symbolSet[r.Symbol] = true
		dateSet[r.Date] = true
	}
	symbols := sortedKeys(symbolSet)
	dates := sortedDates(dateSet)

	prices := map[time.Time]map[string]float64{}
	for _, r := range rows {
		if prices[r.Date] == nil {
			prices[r.Date] = map[string]float64{}
		}
		prices[r.Date][r.Symbol] = priceOf(r, currency)
	}
	forwardFillPrices(dates, symbols, prices)

	weights := dailyWeights(rows, dates, symbols, currency, weight)

	rebalanceDates := rebalanceDates(rows, dates)

	shares := shareLedger(rebalanceDates, dates, symbols, prices, weights)

	series := make([]model.IndexPoint, 0, len(dates))
	for _, d := range dates {
		var total float64
		for _, s := range symbols {
			total += shares[d][s] * prices[d][s]
		}
		series = append(series, model.IndexPoint{Date: d, Value: total})
	}
	return series
}

// forwardFillPrices fills each date/symbol slot with the last known
// price for that symbol, so a missing quote inside a holding period
// never collapses the index value to zero.
func forwardFillPrices(dates []time.Time, symbols []string, prices map[time.Time]map[string]float64) {
	last := map[string]float64{}
	for _, d := range dates {
		row := prices[d]
		if row == nil {
			row = map[string]float64{}
			prices[d] = row
		}
		for _, s := range symbols {
			if v, ok := row[s]; ok {
				last[s] = v
			} else {
				row[s] = last[s]
			}
		}
	}
}

// dailyWeights computes either cap-weighted or equal-weighted daily
// constituent weights, per spec.md §4.C13 step 6.
func dailyWeights(rows []snapshotRow, dates []time.Time, symbols []string, currency model.Currency, weight model.WeightScheme) map[time.Time]map[string]float64 {
	universe := map[time.Time]map[string]bool{}
	mcap := map[time.Time]map[string]float64{}
	for _, r := range rows {
		if universe[r.Date] == nil {
			universe[r.Date] = map[string]bool{}
			mcap[r.Date] = map[string]float64{}
		}
		universe[r.Date][r.Symbol] = true
		mcap[r.Date][r.Symbol] = marketCapOf(r, currency)
	}

	out := map[time.Time]map[string]float64{}
	for _, d := range dates {
		out[d] = map[string]float64{}
		present := universe[d]
		if len(present) == 0 {
			continue
		}
		switch weight {
		case model.WeightEqual:
			w := 1.0 / float64(len(present))
			for s := range present {
				out[d][s] = w
			}
		default: // cap
			var total float64
			for s := range present {
				total += mcap[d][s]
			}
			if total <= 0 {
				continue
			}
			for s := range present {
				out[d][s] = mcap[d][s] / total
			}
		}
	}
	for _, d := range dates {
		for _, s := range symbols {
			if _, ok := out[d][s]; !ok {
				out[d][s] = 0
			}
		}
	}
	return out
}

// rebalanceDates is {first date} union {dates with last_quarter_date},
// sorted ascending, per spec.md §4.C13 step 7.
func rebalanceDates(rows []snapshotRow, dates []time.Time) []time.Time {
	set := map[time.Time]bool{dates[0]: true}
	for _, r := range rows {
		if r.LastQuarterDate {
			set[r.Date] = true
		}
	}
	return sortedDates(set)
}

// shareLedger produces a constant-within-period shares matrix, carrying
// the evolving index value across rebalance boundaries.
func shareLedger(rebalances, dates []time.Time, symbols []string, prices, weights map[time.Time]map[string]float64) map[time.Time]map[string]float64 {
	out := map[time.Time]map[string]float64{}
	currentValue := startingIndexValue

	for i, start := range rebalances {
		var end time.Time
		hasEnd := i+1 < len(rebalances)
		if hasEnd {
			end = rebalances[i+1]
		}

		periodDates := make([]time.Time, 0)
		for _, d := range dates {
			if d.Before(start) {
				continue
			}
			if hasEnd && !d.Before(end) {
				continue
			}
			periodDates = append(periodDates, d)
		}
		if len(periodDates) == 0 {
			continue
		}

		shares := map[string]float64{}
		for _, s := range symbols {
			p := prices[start][s]
			w := weights[start][s]
			if p == 0 {
				shares[s] = 0
				continue
			}
			shares[s] = w * currentValue / p
		}

		for _, d := range periodDates {
			out[d] = shares
		}

		last := periodDates[len(periodDates)-1]
		var value float64
		for _, s := range symbols {
			value += shares[s] * prices[last][s]
		}
		currentValue = value
	}

	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedDates(set map[time.Time]bool) []time.Time {
	out := make([]time.Time, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// rebase filters the series to [start, end] and rebuilds it from
// start_amount using day-over-day returns, per spec.md §4.C13 step 9.
func rebase(series []model.IndexPoint, start, end time.Time, startAmount float64) []model.IndexPoint {
	var trimmed []model.IndexPoint
	for _, p := range series {
		if p.Date.Before(start) {
			continue
		}
		if !end.IsZero() && p.Date.After(end) {
			continue
		}
		trimmed = append(trimmed, p)
	}
	if len(trimmed) == 0 {
		return nil
	}

	out := make([]model.IndexPoint, len(trimmed))
	out[0] = model.IndexPoint{Date: trimmed[0].Date, Value: startAmount}
	for i := 1; i < len(trimmed); i++ {
		ret := 1.0
		if trimmed[i-1].Value != 0 {
			ret = trimmed[i].Value / trimmed[i-1].Value
		}
		out[i] = model.IndexPoint{Date: trimmed[i].Date, Value: out[i-1].Value * ret}
	}
	return out
}
