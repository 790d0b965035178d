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
	"time"

	"github.com/quantledger/fmpdata/model"
)

const tradingDaysPerYear = 250
const minSpanYears = 5

// calculateRiskReturn implements spec.md §4.C13 step 11's basket
// formula, run against the unrebased series.
func calculateRiskReturn(series []model.IndexPoint) model.RiskReturn {
	if len(series) < minSpanYears*tradingDaysPerYear {
		return model.RiskReturn{}
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[len(series)-1-i] = p.Value // descending by date, like the original
	}

	var returns []float64
	for i := 0; i+tradingDaysPerYear < len(values); i++ {
		t0, t250 := values[i], values[i+tradingDaysPerYear]
		if t250 == 0 {
			continue
		}
		returns = append(returns, t0/t250-1)
	}

	return model.RiskReturn{
		Return: mean(returns),
		Risk:   stddevOfNegatives(returns),
	}
}

// benchmarkRiskReturn implements original_source's stricter gate on top
// of the same core formula, evaluated once per currency, per SPEC_FULL's
// supplemented feature 2.
func benchmarkRiskReturn(points []model.IndexPoint, closeEUR, closeUSD map[time.Time]float64) model.BenchmarkRiskReturn {
	if len(points) == 0 {
		return model.BenchmarkRiskReturn{}
	}

	dates := make([]time.Time, len(points))
	for i, p := range points {
		dates[i] = p.Date
	}

	// continuity: sorted descending, no gap over 30 days
	desc := append([]time.Time(nil), dates...)
	sortDatesDesc(desc)
	for i := 0; i+1 < len(desc); i++ {
		gap := desc[i].Sub(desc[i+1])
		if gap > 30*24*time.Hour {
			return model.BenchmarkRiskReturn{}
		}
	}

	first, last := desc[len(desc)-1], desc[0]
	if last.Sub(first) < minSpanYears*365*24*time.Hour {
		return model.BenchmarkRiskReturn{}
	}
	if time.Since(last) > 30*24*time.Hour {
		return model.BenchmarkRiskReturn{}
	}

	retEUR, riskEUR, nEUR := currencyLeg(desc, closeEUR)
	retUSD, riskUSD, _ := currencyLeg(desc, closeUSD)

	return model.BenchmarkRiskReturn{
		ReturnEUR:  retEUR,
		ReturnUSD:  retUSD,
		RiskEUR:    riskEUR,
		RiskUSD:    riskUSD,
		DataPoints: nEUR,
	}
}

// currencyLeg computes one currency's return/risk, rejecting the whole
// series on any single-day jump ratio >= 10 or <= 0.1.
func currencyLeg(descDates []time.Time, close map[time.Time]float64) (ret, risk float64, n int) {
	for i := 0; i+1 < len(descDates); i++ {
		a, b := close[descDates[i]], close[descDates[i+1]]
		if b == 0 {
			continue
		}
		ratio := a / b
		if ratio >= 10 || ratio <= 0.1 {
			return 0, 0, 0
		}
	}

	var returns []float64
	for i := 0; i+tradingDaysPerYear < len(descDates); i++ {
		t0, t250 := close[descDates[i]], close[descDates[i+tradingDaysPerYear]]
		if t0 < 0 || t250 < 0 || t250 == 0 {
			continue
		}
		r := t0/t250 - 1
		if math.Abs(r) < 1000 {
			returns = append(returns, r)
		}
	}

	return mean(returns), stddevOfNegatives(returns), len(returns)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return round4(sum / float64(len(values)))
}

func stddevOfNegatives(values []float64) float64 {
	var neg []float64
	for _, v := range values {
		if v < 0 {
			neg = append(neg, v)
		}
	}
	if len(neg) == 0 {
		return 0
	}
	var sum float64
	for _, v := range neg {
		sum += v
	}
	m := sum / float64(len(neg))
	var sq float64
	for _, v := range neg {
		sq += (v - m) * (v - m)
	}
	return round4(math.Sqrt(sq / float64(len(neg))))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func sortDatesDesc(dates []time.Time) {
	for i := 1; i < len(dates); i++ {
		for j := i; j > 0 && dates[j].After(dates[j-1]); j-- {
			dates[j], dates[j-1] = dates[j-1], dates[j]
		}
	}
}
