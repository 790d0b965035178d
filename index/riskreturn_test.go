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
	"testing"
	"time"

	"github.com/quantledger/fmpdata/model"
)

func TestCalculateRiskReturnShortSeriesIsZeroValue(t *testing.T) {
	series := make([]model.IndexPoint, minSpanYears*tradingDaysPerYear-1)
	for i := range series {
		series[i] = model.IndexPoint{Date: day(i), Value: 1000}
	}
	got := calculateRiskReturn(series)
	if got != (model.RiskReturn{}) {
		t.Fatalf("got %+v, want zero value for a series shorter than the minimum span", got)
	}
}

func TestCalculateRiskReturnFlatSeriesHasZeroReturnAndRisk(t *testing.T) {
	n := minSpanYears*tradingDaysPerYear + 10
	series := make([]model.IndexPoint, n)
	for i := range series {
		series[i] = model.IndexPoint{Date: day(n - i), Value: 1000}
	}
	got := calculateRiskReturn(series)
	if got.Return != 0 {
		t.Errorf("Return = %v, want 0 for a flat series", got.Return)
	}
	if got.Risk != 0 {
		t.Errorf("Risk = %v, want 0 for a flat series (no negative returns)", got.Risk)
	}
}

func TestBenchmarkRiskReturnEmptyIsZeroValue(t *testing.T) {
	got := benchmarkRiskReturn(nil, nil, nil)
	if got != (model.BenchmarkRiskReturn{}) {
		t.Fatalf("got %+v, want zero value", got)
	}
}

func TestBenchmarkRiskReturnRejectsGappySeries(t *testing.T) {
	points := []model.IndexPoint{
		{Date: day(0), Value: 1},
		{Date: day(200), Value: 1}, // 200-day gap, exceeds the 30-day continuity bound
	}
	got := benchmarkRiskReturn(points, map[time.Time]float64{}, map[time.Time]float64{})
	if got != (model.BenchmarkRiskReturn{}) {
		t.Fatalf("got %+v, want zero value for a discontinuous series", got)
	}
}

func TestBenchmarkRiskReturnRejectsShortSpan(t *testing.T) {
	points := []model.IndexPoint{
		{Date: day(0), Value: 1},
		{Date: day(10), Value: 1},
	}
	got := benchmarkRiskReturn(points, map[time.Time]float64{}, map[time.Time]float64{})
	if got != (model.BenchmarkRiskReturn{}) {
		t.Fatalf("got %+v, want zero value for a span under %d years", got, minSpanYears)
	}
}

func TestCurrencyLegRejectsExtremeJump(t *testing.T) {
	dates := []time.Time{day(1), day(0)}
	close := map[time.Time]float64{day(1): 100, day(0): 1} // 100x jump
	ret, risk, n := currencyLeg(dates, close)
	if ret != 0 || risk != 0 || n != 0 {
		t.Fatalf("currencyLeg = (%v, %v, %v), want all zero for an extreme single-day jump", ret, risk, n)
	}
}

func TestMeanAndStddevOfNegatives(t *testing.T) {
	if got := mean(nil); got != 0 {
		t.Errorf("mean(nil) = %v, want 0", got)
	}
	if got := mean([]float64{1, 2, 3}); got != 2 {
		t.Errorf("mean([1,2,3]) = %v, want 2", got)
	}
	if got := stddevOfNegatives([]float64{1, 2, 3}); got != 0 {
		t.Errorf("stddevOfNegatives with no negatives = %v, want 0", got)
	}
	if got := stddevOfNegatives([]float64{-1, -1, -1}); got != 0 {
		t.Errorf("stddevOfNegatives of identical negatives = %v, want 0", got)
	}
}

func TestSortDatesDesc(t *testing.T) {
	dates := []time.Time{day(0), day(5), day(2)}
	sortDatesDesc(dates)
	for i := 1; i < len(dates); i++ {
		if dates[i].After(dates[i-1]) {
			t.Fatalf("dates not sorted descending: %v", dates)
		}
	}
}
