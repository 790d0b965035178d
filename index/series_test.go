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
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/quantledger/fmpdata/model"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func twoSymbolRows() []snapshotRow {
	var rows []snapshotRow
	for i := 0; i < 5; i++ {
		rows = append(rows,
			snapshotRow{
				Date: day(i), Symbol: "AAA", Year: 2024, Quarter: 1,
				LastQuarterDate: i == 0,
				CloseEUR:        10 + float64(i), CloseUSD: 11 + float64(i),
				MarketCapEUR: 1000, MarketCapUSD: 1100,
			},
			snapshotRow{
				Date: day(i), Symbol: "BBB", Year: 2024, Quarter: 1,
				LastQuarterDate: i == 0,
				CloseEUR:        20 + float64(i), CloseUSD: 21 + float64(i),
				MarketCapEUR: 3000, MarketCapUSD: 3300,
			},
		)
	}
	return rows
}

func TestBuildSeriesStartsAtStartingValue(t *testing.T) {
	series := buildSeries(twoSymbolRows(), model.CurrencyEUR, model.WeightCap)
	if len(series) != 5 {
		t.Fatalf("len(series) = %d, want 5", len(series))
	}
	if math.Abs(series[0].Value-startingIndexValue) > 1e-6 {
		t.Fatalf("series[0].Value = %v, want %v", series[0].Value, startingIndexValue)
	}
}

func TestBuildSeriesEmptyInput(t *testing.T) {
	if got := buildSeries(nil, model.CurrencyEUR, model.WeightCap); got != nil {
		t.Fatalf("buildSeries(nil) = %v, want nil", got)
	}
}

func TestDailyWeightsCapSumToOne(t *testing.T) {
	rows := twoSymbolRows()
	dates := sortedDates(map[time.Time]bool{day(0): true})
	weights := dailyWeights(rows, dates, []string{"AAA", "BBB"}, model.CurrencyEUR, model.WeightCap)

	var total float64
	for _, w := range weights[day(0)] {
		total += w
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("cap weights sum to %v, want 1.0", total)
	}
}

func TestDailyWeightsEqualSplitEvenly(t *testing.T) {
	rows := twoSymbolRows()
	dates := sortedDates(map[time.Time]bool{day(0): true})
	weights := dailyWeights(rows, dates, []string{"AAA", "BBB"}, model.CurrencyEUR, model.WeightEqual)

	for symbol, w := range weights[day(0)] {
		if math.Abs(w-0.5) > 1e-9 {
			t.Errorf("equal weight for %s = %v, want 0.5", symbol, w)
		}
	}
}

func TestForwardFillPricesCarriesLastKnownValue(t *testing.T) {
	dates := []time.Time{day(0), day(1), day(2)}
	prices := map[time.Time]map[string]float64{
		day(0): {"AAA": 10},
		day(2): {"AAA": 12},
	}
	forwardFillPrices(dates, []string{"AAA"}, prices)

	if prices[day(1)]["AAA"] != 10 {
		t.Fatalf("day(1) price = %v, want forward-filled 10", prices[day(1)]["AAA"])
	}
	if prices[day(2)]["AAA"] != 12 {
		t.Fatalf("day(2) price = %v, want 12 (explicit quote, not overwritten)", prices[day(2)]["AAA"])
	}
}

func TestRebaseStartsAtStartAmount(t *testing.T) {
	series := []model.IndexPoint{
		{Date: day(0), Value: 1000},
		{Date: day(1), Value: 1100},
		{Date: day(2), Value: 990},
	}
	out := rebase(series, day(0), day(2), 500)

	if out[0].Value != 500 {
		t.Fatalf("out[0].Value = %v, want 500", out[0].Value)
	}
	wantDay1 := 500 * (1100.0 / 1000.0)
	if math.Abs(out[1].Value-wantDay1) > 1e-9 {
		t.Fatalf("out[1].Value = %v, want %v", out[1].Value, wantDay1)
	}
}

func TestRebaseFiltersToWindow(t *testing.T) {
	series := []model.IndexPoint{
		{Date: day(0), Value: 1000},
		{Date: day(1), Value: 1100},
		{Date: day(5), Value: 1200},
	}
	out := rebase(series, day(1), day(1), 100)
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1", len(out))
	}
	if out[0].Value != 100 {
		t.Fatalf("out[0].Value = %v, want 100", out[0].Value)
	}
}

func TestRebaseEmptyWindowReturnsNil(t *testing.T) {
	series := []model.IndexPoint{{Date: day(0), Value: 1000}}
	out := rebase(series, day(5), day(10), 100)
	if out != nil {
		t.Fatalf("rebase outside range = %v, want nil", out)
	}
}

func TestRebaseFlatReturnsUnchangedAmount(t *testing.T) {
	series := []model.IndexPoint{
		{Date: day(0), Value: 1000},
		{Date: day(1), Value: 1000},
		{Date: day(2), Value: 1000},
	}
	got := rebase(series, day(0), day(2), 250)
	want := []model.IndexPoint{
		{Date: day(0), Value: 250},
		{Date: day(1), Value: 250},
		{Date: day(2), Value: 250},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rebase mismatch (-want +got):\n%s", diff)
	}
}
